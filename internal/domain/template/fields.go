package template

import (
	"regexp"
	"strings"
)

// Reserved signature tokens, resolved from the agent record.
const (
	FieldAssociateName  = "associate_name"
	FieldContactInfo    = "contact_info"
	FieldAssociatePhone = "associate_phone"
	FieldAssociateEmail = "associate_email"
)

var signatureFields = map[string]struct{}{
	FieldAssociateName:  {},
	FieldAssociatePhone: {},
	FieldAssociateEmail: {},
	FieldContactInfo:    {},
}

var placeholderPattern = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// CombineSeparator visually divides template bodies in a combined
// submission.
const CombineSeparator = "\n\n---\n\n"

// IsSignatureField reports whether name is a reserved signature token.
func IsSignatureField(name string) bool {
	_, ok := signatureFields[name]
	return ok
}

// ExtractFields returns the user-fillable placeholder names in text,
// in order of first appearance. Reserved signature tokens are
// excluded.
func ExtractFields(text string) []string {
	seen := make(map[string]struct{})
	var fields []string
	for _, match := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		name := match[1]
		if IsSignatureField(name) {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		fields = append(fields, name)
	}
	return fields
}

// Combine concatenates template bodies in selection order with a
// visible separator.
func Combine(bodies []string) string {
	return strings.Join(bodies, CombineSeparator)
}

// Substitute replaces every manual field token with its current value
// (empty string when unset) and every signature token from the agent
// record. Signature tokens are left untouched when no agent is
// selected.
func Substitute(text string, manual map[string]string, agent *Agent) string {
	for _, name := range ExtractFields(text) {
		text = replaceToken(text, name, manual[name])
	}
	if agent != nil {
		text = replaceToken(text, FieldAssociateName, agent.Name)
		text = replaceToken(text, FieldContactInfo, agent.ContactInfo)
		text = replaceToken(text, FieldAssociatePhone, agent.Phone)
		text = replaceToken(text, FieldAssociateEmail, agent.Email)
	}
	return text
}

// replaceToken replaces every {{name}} occurrence with value. The name
// is quoted so characters meaningful to regexp (C++, a.b) match
// literally, and the value is inserted literally so $ sequences are
// not expanded.
func replaceToken(text, name, value string) string {
	pattern := regexp.MustCompile(`\{\{\s*` + regexp.QuoteMeta(name) + `\s*\}\}`)
	return pattern.ReplaceAllLiteralString(text, value)
}
