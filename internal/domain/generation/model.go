package generation

// TemplateRef identifies one active template, in selection order.
type TemplateRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Request describes one submitted generation job. Prompt is the
// combined, field-substituted template text prepared by the template
// engine before submission.
type Request struct {
	Rows        []map[string]any
	KeyFields   []string
	Prompt      string
	Goal        string
	Templates   []TemplateRef
	ProjectName string
}

// Payload is the wire submission sent to the generation endpoint.
type Payload struct {
	Rows        []map[string]any `json:"rows"`
	KeyFields   []string         `json:"key_fields,omitempty"`
	Prompt      string           `json:"prompt"`
	Goal        string           `json:"goal,omitempty"`
	TemplateIDs []string         `json:"template_ids,omitempty"`
	Preview     bool             `json:"preview"`
}

func (r Request) payload(preview bool) Payload {
	ids := make([]string, 0, len(r.Templates))
	for _, tpl := range r.Templates {
		ids = append(ids, tpl.ID)
	}
	return Payload{
		Rows:        r.Rows,
		KeyFields:   r.KeyFields,
		Prompt:      r.Prompt,
		Goal:        r.Goal,
		TemplateIDs: ids,
		Preview:     preview,
	}
}

// PreviewEntry is one per-template sample. Previews are ephemeral and
// never persisted.
type PreviewEntry struct {
	Label   string `json:"label"`
	Content string `json:"content"`
}
