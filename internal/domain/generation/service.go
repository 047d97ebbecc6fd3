package generation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/persoforge/persofeed/internal/domain/project"
	"github.com/persoforge/persofeed/internal/stream"
	"github.com/persoforge/persofeed/internal/tabular"
)

const (
	defaultProjectName  = "Untitled Generation"
	defaultPreviewLabel = "Generated Content"

	readChunkSize = 4096
)

// Service consumes a generation stream under one of two policies:
// preview (one row, early cancel) or full (every row until done, CSV
// finalized into the project ledger). One Service call owns its stream
// end to end; submitting a second job while one is in flight is the
// caller's mistake to avoid.
type Service struct {
	opener StreamOpener
	ledger Ledger
	logger *slog.Logger
}

// NewService creates a new generation service.
func NewService(opener StreamOpener, ledger Ledger, logger *slog.Logger) *Service {
	return &Service{opener: opener, ledger: ledger, logger: logger}
}

// Preview consumes the stream until the first row, builds one entry
// per active template from the row's generated fields, and cancels the
// stream. Bytes already in flight are discarded unread.
func (s *Service) Preview(ctx context.Context, req Request) ([]PreviewEntry, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	body, err := s.opener.Open(ctx, req.payload(true))
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var entries []PreviewEntry
	err = s.consume(ctx, body, func(rec stream.Record) (bool, error) {
		switch r := rec.(type) {
		case stream.Row:
			entries = buildPreview(req.Templates, r)
			return false, nil
		case stream.ErrorRecord:
			return false, &StreamError{Detail: r.Detail}
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if entries == nil {
		return nil, ErrNoRows
	}
	return entries, nil
}

// Generate consumes the whole stream, accumulating every row into a
// table that is serialized to CSV when the done marker arrives. The
// ledger entry is created at processing before the stream opens; on
// any failure it is left at processing, never finalized.
func (s *Service) Generate(ctx context.Context, req Request) (*project.Project, error) {
	name := strings.TrimSpace(req.ProjectName)
	if name == "" {
		name = defaultProjectName
	}

	if _, err := s.ledger.Create(ctx, name); err != nil {
		return nil, fmt.Errorf("creating ledger entry: %w", err)
	}

	body, err := s.opener.Open(ctx, req.payload(false))
	if err != nil {
		return nil, err
	}
	defer body.Close()

	table := tabular.NewAssembler()
	var header []string
	rowCount := 0
	done := false

	err = s.consume(ctx, body, func(rec stream.Record) (bool, error) {
		switch r := rec.(type) {
		case stream.Header:
			header = r.Columns
		case stream.Row:
			if header != nil && table.Len() == 0 {
				table.AppendRaw(header)
			}
			table.Append(r.Values)
			rowCount++
		case stream.ErrorRecord:
			return false, &StreamError{Detail: r.Detail}
		case stream.Done:
			done = true
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if !done {
		return nil, ErrTruncated
	}

	proj, err := s.ledger.Complete(ctx, name, table.Finalize(), rowCount)
	if err != nil {
		return nil, fmt.Errorf("completing ledger entry: %w", err)
	}
	s.logger.Info("generation complete", "project", name, "rows", rowCount)
	return proj, nil
}

// consume reads the body chunk by chunk, frames lines, and dispatches
// parsed records to handle until it returns false or the stream ends.
func (s *Service) consume(ctx context.Context, body io.Reader, handle func(stream.Record) (bool, error)) error {
	framer := &stream.Framer{}
	buf := make([]byte, readChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, readErr := body.Read(buf)
		if n > 0 {
			for _, line := range framer.Feed(string(buf[:n])) {
				cont, err := s.dispatch(line, handle)
				if err != nil || !cont {
					return err
				}
			}
		}
		if readErr == io.EOF {
			line, ok := framer.Flush()
			if !ok {
				return nil
			}
			_, err := s.dispatch(line, handle)
			return err
		}
		if readErr != nil {
			return fmt.Errorf("reading stream: %w", readErr)
		}
	}
}

func (s *Service) dispatch(line string, handle func(stream.Record) (bool, error)) (bool, error) {
	if strings.TrimSpace(line) == "" {
		return true, nil
	}
	rec, err := stream.ParseRecord(line)
	if err != nil {
		// Forward progress over completeness: a line that fails to
		// parse even after sanitization is skipped, not fatal.
		s.logger.Warn("skipping malformed stream line", "error", err)
		return true, nil
	}
	return handle(rec)
}

// buildPreview slices the row's trailing generated fields, one per
// active template in template order. With no templates active the
// whole generated output is a single synthetic entry.
func buildPreview(templates []TemplateRef, row stream.Row) []PreviewEntry {
	if len(templates) == 0 {
		content := ""
		if len(row.Values) > 0 {
			content = tabular.Stringify(row.Values[len(row.Values)-1])
		}
		return []PreviewEntry{{Label: defaultPreviewLabel, Content: content}}
	}

	start := len(row.Values) - len(templates)
	if start < 0 {
		start = 0
	}
	entries := make([]PreviewEntry, 0, len(templates))
	for i, tpl := range templates {
		label := tpl.Name
		if label == "" {
			label = tpl.ID
		}
		content := ""
		if idx := start + i; idx < len(row.Values) {
			content = tabular.Stringify(row.Values[idx])
		}
		entries = append(entries, PreviewEntry{Label: label, Content: content})
	}
	return entries
}
