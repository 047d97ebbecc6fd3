package repository

import (
	"context"

	"github.com/persoforge/persofeed/internal/domain/project"
)

// LedgerRepository persists the serialized project ledger under a
// single well-known key.
type LedgerRepository interface {
	Load(ctx context.Context) ([]project.Project, error)
	Save(ctx context.Context, projects []project.Project) error
}
