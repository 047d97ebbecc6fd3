package mocks

import (
	"context"

	"github.com/persoforge/persofeed/internal/domain/project"
	"github.com/stretchr/testify/mock"
)

// LedgerRepository is a mock for repository.LedgerRepository.
type LedgerRepository struct {
	mock.Mock
}

func (m *LedgerRepository) Load(ctx context.Context) ([]project.Project, error) {
	args := m.Called(ctx)
	if projects, ok := args.Get(0).([]project.Project); ok {
		return projects, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LedgerRepository) Save(ctx context.Context, projects []project.Project) error {
	args := m.Called(ctx, projects)
	return args.Error(0)
}
