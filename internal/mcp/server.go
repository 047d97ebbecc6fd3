package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/persoforge/persofeed/internal/domain/generation"
	"github.com/persoforge/persofeed/internal/domain/project"
)

// GenerationService defines generation operations needed by MCP.
type GenerationService interface {
	Preview(ctx context.Context, req generation.Request) ([]generation.PreviewEntry, error)
	Generate(ctx context.Context, req generation.Request) (*project.Project, error)
}

// ProjectService defines ledger operations needed by MCP.
type ProjectService interface {
	List(ctx context.Context) ([]project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	Delete(ctx context.Context, id string) error
}

// Services contains the domain services exposed over MCP.
type Services struct {
	Generation GenerationService
	Projects   ProjectService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Logger   *slog.Logger
}

const serverInstructions = `persofeed runs personalization generation jobs against a source table.

Workflow:
1. template_fields — discover the fillable placeholders in a template.
2. generate_preview — personalize one sample row per template before committing.
3. generate — run the full batch; the finished CSV is stored as a named project.
4. list_projects / export_csv — browse past generations and download their CSV artifacts.

Projects are kept newest-first, capped at ten; re-running a generation under an existing project name replaces that project. A project stuck at status "processing" belongs to a failed or abandoned run and will never complete.`

// NewServer creates and configures an MCP server with all tools and
// middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "persofeed",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
