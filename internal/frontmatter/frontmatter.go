package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
// Both LF and CRLF documents are handled.
//
// If the document does not start with a frontmatter delimiter, had is false
// and body is the full input.
func Split(content []byte) (raw []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	closeLine := []byte("---" + nl)
	if bytes.HasPrefix(content[start:], closeLine) {
		bodyStart := start + len(closeLine)
		return []byte{}, content[bodyStart:], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	end := start + idx + len(nl)
	bodyStart := start + idx + len(closeSeq)
	return content[start:end], content[bodyStart:], true, nil
}

// Fields is the typed view of a page's frontmatter. Unknown keys are kept in
// Extra so edits round-trip without dropping author metadata.
type Fields struct {
	Title       string
	Description string
	Icon        string
	Tags        []string
	Draft       bool
	Full        bool
	Extra       map[string]any
}

// Parse decodes raw YAML frontmatter (without --- delimiters) into Fields.
func Parse(raw []byte) (Fields, error) {
	var f Fields
	m, err := parseMap(raw)
	if err != nil {
		return f, err
	}

	f.Extra = map[string]any{}
	for k, v := range m {
		switch k {
		case "title":
			f.Title, _ = v.(string)
		case "description":
			f.Description, _ = v.(string)
		case "icon":
			f.Icon, _ = v.(string)
		case "draft":
			f.Draft, _ = v.(bool)
		case "full":
			f.Full, _ = v.(bool)
		case "tags":
			if items, ok := v.([]any); ok {
				for _, it := range items {
					if s, ok := it.(string); ok {
						f.Tags = append(f.Tags, s)
					}
				}
			}
		default:
			f.Extra[k] = v
		}
	}
	return f, nil
}

func parseMap(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

func detectNewline(content []byte) string {
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			return "\r\n"
		}
		if content[i] == '\n' {
			break
		}
	}
	return "\n"
}
