package mcp

import (
	"context"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/persoforge/persofeed/internal/domain/generation"
	"github.com/persoforge/persofeed/internal/domain/project"
	"github.com/persoforge/persofeed/internal/domain/template"
)

type submissionInput struct {
	Rows         []map[string]any    `json:"rows" jsonschema:"required,Source rows to personalize"`
	KeyFields    []string            `json:"key_fields,omitempty" jsonschema:"Source columns the generator should key on"`
	Templates    []template.Template `json:"templates,omitempty" jsonschema:"Active templates in selection order"`
	Goal         string              `json:"goal,omitempty" jsonschema:"Free-text generation goal"`
	ManualValues map[string]string   `json:"manual_values,omitempty" jsonschema:"Values for manual template fields"`
	Agent        *template.Agent     `json:"agent,omitempty" jsonschema:"Agent record resolving signature fields"`
}

type generateInput struct {
	submissionInput
	ProjectName string `json:"project_name,omitempty" jsonschema:"Ledger name for the generation; replaces an existing project of the same name"`
}

type generatePreviewOutput struct {
	Previews []generation.PreviewEntry `json:"previews" jsonschema:"One sample per active template"`
}

type projectSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	RowCount  int       `json:"row_count"`
	CreatedAt time.Time `json:"created_at"`
	Filename  string    `json:"filename"`
}

type generateOutput struct {
	Project projectSummary `json:"project"`
}

type templateFieldsInput struct {
	Template string `json:"template" jsonschema:"required,Template text to scan"`
}

type templateFieldsOutput struct {
	Fields []string `json:"fields" jsonschema:"Fillable placeholder names in order of first appearance"`
}

type listProjectsOutput struct {
	Projects []projectSummary `json:"projects"`
}

type projectIDInput struct {
	ID string `json:"id" jsonschema:"required,Project ID"`
}

type exportCSVOutput struct {
	Filename string `json:"filename"`
	CSV      string `json:"csv"`
}

type deleteProjectOutput struct {
	Status string `json:"status"`
}

func summarize(p project.Project) projectSummary {
	return projectSummary{
		ID:        p.ID,
		Name:      p.Name,
		Status:    string(p.Status),
		RowCount:  p.RowCount,
		CreatedAt: p.CreatedAt,
		Filename:  p.ExportFilename(),
	}
}

// buildRequest runs the template engine: bodies are combined in
// selection order, then manual and signature fields are substituted
// before submission.
func buildRequest(in submissionInput) generation.Request {
	bodies := make([]string, 0, len(in.Templates))
	refs := make([]generation.TemplateRef, 0, len(in.Templates))
	for _, tpl := range in.Templates {
		bodies = append(bodies, tpl.Body)
		refs = append(refs, generation.TemplateRef{ID: tpl.ID, Name: tpl.Name})
	}

	prompt := template.Substitute(template.Combine(bodies), in.ManualValues, in.Agent)
	return generation.Request{
		Rows:      in.Rows,
		KeyFields: in.KeyFields,
		Prompt:    prompt,
		Goal:      in.Goal,
		Templates: refs,
	}
}

func registerTools(server *sdkmcp.Server, services Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "template_fields",
		Description: "Extract the fillable placeholder names from a template. Reserved signature fields (associate_name, contact_info, associate_phone, associate_email) are resolved from the agent record and excluded.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args templateFieldsInput) (*sdkmcp.CallToolResult, templateFieldsOutput, error) {
		return nil, templateFieldsOutput{Fields: template.ExtractFields(args.Template)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "generate_preview",
		Description: "Personalize one sample row per active template. Returns immediately after the first generated row; nothing is persisted.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args submissionInput) (*sdkmcp.CallToolResult, generatePreviewOutput, error) {
		previews, err := services.Generation.Preview(ctx, buildRequest(args))
		if err != nil {
			return nil, generatePreviewOutput{}, mapError(err)
		}
		return nil, generatePreviewOutput{Previews: previews}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "generate",
		Description: "Run the full generation: every source row is personalized and the result is stored as a CSV project in the ledger. A project with the same name is replaced.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args generateInput) (*sdkmcp.CallToolResult, generateOutput, error) {
		request := buildRequest(args.submissionInput)
		request.ProjectName = args.ProjectName

		proj, err := services.Generation.Generate(ctx, request)
		if err != nil {
			return nil, generateOutput{}, mapError(err)
		}
		return nil, generateOutput{Project: summarize(*proj)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List stored generation projects, newest first (at most ten are kept).",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args struct{}) (*sdkmcp.CallToolResult, listProjectsOutput, error) {
		projects, err := services.Projects.List(ctx)
		if err != nil {
			return nil, listProjectsOutput{}, mapError(err)
		}
		summaries := make([]projectSummary, 0, len(projects))
		for _, p := range projects {
			summaries = append(summaries, summarize(p))
		}
		return nil, listProjectsOutput{Projects: summaries}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get one stored project by ID.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args projectIDInput) (*sdkmcp.CallToolResult, generateOutput, error) {
		proj, err := services.Projects.Get(ctx, args.ID)
		if err != nil {
			return nil, generateOutput{}, mapError(err)
		}
		return nil, generateOutput{Project: summarize(*proj)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "export_csv",
		Description: "Return a completed project's CSV artifact and its download filename.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args projectIDInput) (*sdkmcp.CallToolResult, exportCSVOutput, error) {
		proj, err := services.Projects.Get(ctx, args.ID)
		if err != nil {
			return nil, exportCSVOutput{}, mapError(err)
		}
		return nil, exportCSVOutput{
			Filename: proj.ExportFilename(),
			CSV:      proj.CSVContent,
		}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Delete one stored project by ID.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args projectIDInput) (*sdkmcp.CallToolResult, deleteProjectOutput, error) {
		if err := services.Projects.Delete(ctx, args.ID); err != nil {
			return nil, deleteProjectOutput{}, mapError(err)
		}
		return nil, deleteProjectOutput{Status: "deleted"}, nil
	})
}
