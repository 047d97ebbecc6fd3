package project

import "context"

// Repository persists the ordered project ledger. Load returns the
// newest-first list, empty when nothing has been written yet; Save
// replaces the whole list.
type Repository interface {
	Load(ctx context.Context) ([]Project, error)
	Save(ctx context.Context, projects []Project) error
}
