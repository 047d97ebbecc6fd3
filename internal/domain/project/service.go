package project

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service manages the generation project ledger.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create inserts a processing entry at the front of the ledger. An
// existing entry with the same name is replaced, then the ledger is
// truncated to MaxProjects.
func (s *Service) Create(ctx context.Context, name string) (*Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidInput
	}

	projects, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	proj := Project{
		ID:        uuid.NewString(),
		Name:      name,
		Status:    StatusProcessing,
		CreatedAt: time.Now(),
	}

	kept := make([]Project, 0, len(projects)+1)
	kept = append(kept, proj)
	for _, p := range projects {
		if p.Name != name {
			kept = append(kept, p)
		}
	}
	if len(kept) > MaxProjects {
		kept = kept[:MaxProjects]
	}

	if err := s.repo.Save(ctx, kept); err != nil {
		return nil, fmt.Errorf("saving ledger: %w", err)
	}
	return &proj, nil
}

// Complete rewrites the entry matching name in place: status becomes
// completed and the final CSV content and row count are recorded.
func (s *Service) Complete(ctx context.Context, name, csvContent string, rowCount int) (*Project, error) {
	projects, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	for i := range projects {
		if projects[i].Name != name {
			continue
		}
		projects[i].Status = StatusCompleted
		projects[i].CSVContent = csvContent
		projects[i].RowCount = rowCount
		if err := s.repo.Save(ctx, projects); err != nil {
			return nil, fmt.Errorf("saving ledger: %w", err)
		}
		proj := projects[i]
		return &proj, nil
	}
	return nil, ErrProjectNotFound
}

// List returns the ledger, newest first, at most MaxProjects entries.
func (s *Service) List(ctx context.Context) ([]Project, error) {
	projects, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	return projects, nil
}

// Get fetches one entry by ID.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	projects, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	for i := range projects {
		if projects[i].ID == id {
			proj := projects[i]
			return &proj, nil
		}
	}
	return nil, ErrProjectNotFound
}

// Delete removes one entry by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	projects, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading ledger: %w", err)
	}

	kept := projects[:0]
	for _, p := range projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(projects) {
		return ErrProjectNotFound
	}

	if err := s.repo.Save(ctx, kept); err != nil {
		return fmt.Errorf("saving ledger: %w", err)
	}
	return nil
}
