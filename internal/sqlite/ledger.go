package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/persoforge/persofeed/internal/domain/project"
	"github.com/persoforge/persofeed/internal/repository"
)

// ledgerKey is the well-known key holding the project ledger.
const ledgerKey = "projects"

// LedgerRepository implements repository.LedgerRepository for SQLite
type LedgerRepository struct {
	db *DB
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

var _ repository.LedgerRepository = (*LedgerRepository)(nil)

// Load reads the serialized ledger. A missing key is an empty ledger,
// not an error.
func (r *LedgerRepository) Load(ctx context.Context) ([]project.Project, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM ledger WHERE key = ?`, ledgerKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	var projects []project.Project
	if err := json.Unmarshal([]byte(value), &projects); err != nil {
		return nil, fmt.Errorf("failed to decode ledger: %w", err)
	}
	return projects, nil
}

// Save replaces the serialized ledger.
func (r *LedgerRepository) Save(ctx context.Context, projects []project.Project) error {
	if projects == nil {
		projects = []project.Project{}
	}
	value, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO ledger (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, ledgerKey, string(value))
	if err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	return nil
}
