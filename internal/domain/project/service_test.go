package project_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/persoforge/persofeed/internal/domain/project"
	"github.com/persoforge/persofeed/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memRepo keeps the ledger in memory for behavioral tests.
type memRepo struct {
	projects []project.Project
}

func (r *memRepo) Load(_ context.Context) ([]project.Project, error) {
	out := make([]project.Project, len(r.projects))
	copy(out, r.projects)
	return out, nil
}

func (r *memRepo) Save(_ context.Context, projects []project.Project) error {
	r.projects = make([]project.Project, len(projects))
	copy(r.projects, projects)
	return nil
}

func TestProjectService_CreateInsertsAtFront(t *testing.T) {
	ctx := context.Background()
	svc := project.NewService(&memRepo{}, nil)

	first, err := svc.Create(ctx, "first")
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	require.Equal(t, project.StatusProcessing, first.Status)

	_, err = svc.Create(ctx, "second")
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "second", list[0].Name)
	require.Equal(t, "first", list[1].Name)
}

func TestProjectService_CreateReplacesByName(t *testing.T) {
	ctx := context.Background()
	svc := project.NewService(&memRepo{}, nil)

	old, err := svc.Create(ctx, "X")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "other")
	require.NoError(t, err)

	replacement, err := svc.Create(ctx, "X")
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "X", list[0].Name)
	require.Equal(t, replacement.ID, list[0].ID)
	require.NotEqual(t, old.ID, list[0].ID)
}

func TestProjectService_CreateTruncatesToCap(t *testing.T) {
	ctx := context.Background()
	svc := project.NewService(&memRepo{}, nil)

	for i := 0; i < project.MaxProjects+3; i++ {
		_, err := svc.Create(ctx, fmt.Sprintf("p%d", i))
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, project.MaxProjects)
	require.Equal(t, fmt.Sprintf("p%d", project.MaxProjects+2), list[0].Name)
}

func TestProjectService_CreateValidation(t *testing.T) {
	svc := project.NewService(&memRepo{}, nil)
	_, err := svc.Create(context.Background(), "  ")
	require.ErrorIs(t, err, project.ErrInvalidInput)
}

func TestProjectService_CompleteRewritesInPlace(t *testing.T) {
	ctx := context.Background()
	svc := project.NewService(&memRepo{}, nil)

	_, err := svc.Create(ctx, "job")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "newer")
	require.NoError(t, err)

	proj, err := svc.Complete(ctx, "job", "a,b\r\n1,2\r\n", 1)
	require.NoError(t, err)
	require.Equal(t, project.StatusCompleted, proj.Status)
	require.Equal(t, 1, proj.RowCount)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	// Completion must not reorder the ledger.
	require.Equal(t, "newer", list[0].Name)
	require.Equal(t, "job", list[1].Name)
	require.Equal(t, "a,b\r\n1,2\r\n", list[1].CSVContent)
}

func TestProjectService_CompleteUnknownName(t *testing.T) {
	svc := project.NewService(&memRepo{}, nil)
	_, err := svc.Complete(context.Background(), "ghost", "", 0)
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestProjectService_GetAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := project.NewService(&memRepo{}, nil)

	created, err := svc.Create(ctx, "keep")
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "keep", got.Name)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, project.ErrProjectNotFound)
	require.ErrorIs(t, svc.Delete(ctx, created.ID), project.ErrProjectNotFound)
}

func TestProjectService_LoadFailurePropagates(t *testing.T) {
	repo := &mocks.LedgerRepository{}
	repo.On("Load", mock.Anything).Return(nil, errors.New("disk gone"))

	svc := project.NewService(repo, nil)
	_, err := svc.List(context.Background())
	require.ErrorContains(t, err, "disk gone")
}

func TestProject_ExportFilename(t *testing.T) {
	p := project.Project{Name: "Spring Outreach"}
	require.Equal(t, "Spring Outreach.csv", p.ExportFilename())

	p.Name = "   "
	require.Equal(t, "generation.csv", p.ExportFilename())
}
