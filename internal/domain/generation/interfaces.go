package generation

import (
	"context"
	"io"

	"github.com/persoforge/persofeed/internal/domain/project"
)

// StreamOpener submits a payload to the generation endpoint and
// returns the response body stream.
type StreamOpener interface {
	Open(ctx context.Context, payload Payload) (io.ReadCloser, error)
}

// Ledger records full-mode generation sessions.
type Ledger interface {
	Create(ctx context.Context, name string) (*project.Project, error)
	Complete(ctx context.Context, name, csvContent string, rowCount int) (*project.Project, error)
}
