package frontmatter

import (
	"fmt"
	"strings"
)

// Schema declares which frontmatter fields a page must carry. The zero value
// requires nothing; DefaultSchema matches the docs content contract.
type Schema struct {
	RequireTitle       bool
	RequireDescription bool
}

// DefaultSchema is the contract for doc pages: every included page supplies a
// non-empty title and description.
var DefaultSchema = Schema{RequireTitle: true, RequireDescription: true}

// ValidationError reports which required fields a page's frontmatter is
// missing or left empty.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("frontmatter missing required fields: %s", strings.Join(e.Missing, ", "))
}

// Validate checks fields against the schema. A nil return means the page
// satisfies the contract.
func (s Schema) Validate(f Fields) error {
	var missing []string
	if s.RequireTitle && strings.TrimSpace(f.Title) == "" {
		missing = append(missing, "title")
	}
	if s.RequireDescription && strings.TrimSpace(f.Description) == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
