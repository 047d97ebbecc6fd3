package project

import (
	"strings"
	"time"
)

// Status of a generation project in the ledger.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
)

// MaxProjects caps the ledger; the oldest entries fall off the end.
const MaxProjects = 10

// Project is one persisted full-mode generation session. An entry
// stuck at processing is inert history of an abandoned or failed
// session, not a resumable job handle.
type Project struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CSVContent string    `json:"csv_content"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	RowCount   int       `json:"row_count"`
}

// ExportFilename returns the download name for the CSV artifact.
func (p *Project) ExportFilename() string {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = "generation"
	}
	return name + ".csv"
}
