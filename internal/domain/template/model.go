package template

// Template is one reusable message body containing {{token}}
// placeholders.
type Template struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Body string `json:"body"`
}

// Agent is the signature identity used to resolve reserved tokens.
// Signature tokens are filled from the selected agent record, never
// from free-text manual input.
type Agent struct {
	Name        string `json:"name"`
	ContactInfo string `json:"contact_info"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}
