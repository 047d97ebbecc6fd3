package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/persoforge/persofeed/internal/domain/generation"
	"github.com/persoforge/persofeed/internal/domain/project"
	"github.com/persoforge/persofeed/internal/sqlite"
	"github.com/persoforge/persofeed/internal/transport"
)

type testEnv struct {
	db         *sqlite.DB
	ledgerRepo *sqlite.LedgerRepository

	projectSvc    *project.Service
	generationSvc *generation.Service
}

// newTestEnv wires a real ledger and transport against an in-process
// generator that personalizes each source row with "Hi <name>".
func newTestEnv(t *testing.T, handler http.HandlerFunc) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))

	ledgerRepo := sqlite.NewLedgerRepository(db)
	projectSvc := project.NewService(ledgerRepo, logger)
	client := transport.NewClient(server.URL)
	generationSvc := generation.NewService(client, projectSvc, logger)

	return &testEnv{
		db:            db,
		ledgerRepo:    ledgerRepo,
		projectSvc:    projectSvc,
		generationSvc: generationSvc,
	}
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// echoGenerator streams a header, one personalized row per source row,
// and a done marker, flushing after each line like a real endpoint.
func echoGenerator(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload generation.Payload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		flusher := w.(http.Flusher)
		writeLine := func(line string) {
			fmt.Fprintln(w, line)
			flusher.Flush()
		}

		writeLine(`{"type":"header","data":["name","gen1"]}`)
		for _, row := range payload.Rows {
			name, _ := row["name"].(string)
			line, err := json.Marshal(map[string]any{
				"type": "row",
				"data": []any{name, "Hi " + name},
			})
			require.NoError(t, err)
			writeLine(string(line))
			if payload.Preview {
				return
			}
		}
		writeLine(`{"type":"done"}`)
	}
}

func sourceRows(names ...string) []map[string]any {
	rows := make([]map[string]any, 0, len(names))
	for _, name := range names {
		rows = append(rows, map[string]any{"name": name})
	}
	return rows
}

func TestIntegration_FullGenerationWorkflow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, echoGenerator(t))

	proj, err := env.generationSvc.Generate(ctx, generation.Request{
		Rows:        sourceRows("Ada", "Brin"),
		Prompt:      "Hi {{name}}",
		ProjectName: "Spring Outreach",
	})
	require.NoError(t, err)
	require.Equal(t, project.StatusCompleted, proj.Status)
	require.Equal(t, 2, proj.RowCount)
	require.Equal(t, "name,gen1\r\nAda,Hi Ada\r\nBrin,Hi Brin\r\n", proj.CSVContent)
	require.Equal(t, "Spring Outreach.csv", proj.ExportFilename())

	listed, err := env.projectSvc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, proj.ID, listed[0].ID)

	fetched, err := env.projectSvc.Get(ctx, proj.ID)
	require.NoError(t, err)
	require.Equal(t, proj.CSVContent, fetched.CSVContent)

	require.NoError(t, env.projectSvc.Delete(ctx, proj.ID))
	_, err = env.projectSvc.Get(ctx, proj.ID)
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestIntegration_RerunReplacesProjectByName(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, echoGenerator(t))

	first, err := env.generationSvc.Generate(ctx, generation.Request{
		Rows:        sourceRows("Ada"),
		ProjectName: "Weekly",
	})
	require.NoError(t, err)

	second, err := env.generationSvc.Generate(ctx, generation.Request{
		Rows:        sourceRows("Ada", "Brin", "Cleo"),
		ProjectName: "Weekly",
	})
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, 3, second.RowCount)

	listed, err := env.projectSvc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, second.ID, listed[0].ID)
}

func TestIntegration_PreviewPersistsNothing(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, echoGenerator(t))

	previews, err := env.generationSvc.Preview(ctx, generation.Request{
		Rows: sourceRows("Ada", "Brin"),
		Templates: []generation.TemplateRef{
			{ID: "tpl-1", Name: "Welcome Note"},
		},
	})
	require.NoError(t, err)
	require.Len(t, previews, 1)
	require.Equal(t, "Welcome Note", previews[0].Label)
	require.Equal(t, "Hi Ada", previews[0].Content)

	listed, err := env.projectSvc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, listed)
}

func TestIntegration_StreamErrorLeavesProjectProcessing(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"type":"header","data":["name","gen1"]}`)
		fmt.Fprintln(w, `{"type":"error","detail":"model unavailable"}`)
	})

	_, err := env.generationSvc.Generate(ctx, generation.Request{
		Rows:        sourceRows("Ada"),
		ProjectName: "Doomed",
	})
	var streamErr *generation.StreamError
	require.ErrorAs(t, err, &streamErr)
	require.Equal(t, "model unavailable", streamErr.Detail)

	listed, err := env.projectSvc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, project.StatusProcessing, listed[0].Status)
	require.Equal(t, "Doomed", listed[0].Name)
}

func TestIntegration_UpstreamRejectionSurfacesStatus(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad submission", http.StatusUnprocessableEntity)
	})

	_, err := env.generationSvc.Generate(ctx, generation.Request{
		Rows: sourceRows("Ada"),
	})
	var statusErr *transport.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusUnprocessableEntity, statusErr.Code)
}

func TestIntegration_LedgerSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, echoGenerator(t))

	proj, err := env.generationSvc.Generate(ctx, generation.Request{
		Rows:        sourceRows("Ada"),
		ProjectName: "Durable",
	})
	require.NoError(t, err)

	// Shared-cache memory DBs persist across connections while one
	// stays open, so a second repository sees the committed ledger.
	reopened := sqlite.NewLedgerRepository(env.db)
	projects, err := reopened.Load(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, proj.ID, projects[0].ID)
	require.Equal(t, project.StatusCompleted, projects[0].Status)
}
