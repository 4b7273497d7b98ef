// Package manifest extracts and validates the YAML frontmatter header at the
// top of a SKILL.md document. Parsing is pure and deterministic: no I/O.
package manifest

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Error codes surfaced to the boundary layer.
const (
	CodeInvalidContent          = "invalid_content"
	CodeMissingFrontmatter      = "missing_frontmatter"
	CodeUnterminatedFrontmatter = "unterminated_frontmatter"
	CodeInvalidYAML             = "invalid_yaml"
	CodeInvalidFrontmatter      = "invalid_frontmatter"
	CodeMissingName             = "missing_name"
	CodeMissingDescription      = "missing_description"
	CodeNameTooLong             = "name_too_long"
	CodeDescriptionTooLong      = "description_too_long"
)

// delimiter opens and closes the frontmatter block; it must occupy a line of
// its own.
const delimiter = "---"

// Error is a parse failure with a stable machine-readable code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Manifest is the validated frontmatter of a skill document.
type Manifest struct {
	Name        string
	Description string
}

// Limits caps the extracted field lengths. Zero values fall back to the
// defaults (64 for name, 1024 for description).
type Limits struct {
	MaxNameLength        int
	MaxDescriptionLength int
}

func (l Limits) withDefaults() Limits {
	if l.MaxNameLength <= 0 {
		l.MaxNameLength = 64
	}
	if l.MaxDescriptionLength <= 0 {
		l.MaxDescriptionLength = 1024
	}
	return l
}

// Parse extracts the frontmatter from content and validates the required
// name and description fields. Both bare "\n" and "\r\n" line endings are
// accepted.
func Parse(content string, limits Limits) (*Manifest, error) {
	limits = limits.withDefaults()

	if content == "" {
		return nil, newError(CodeInvalidContent, "content must be a non-empty string")
	}

	lines := splitLines(content)
	if lines[0] != delimiter {
		return nil, newError(CodeMissingFrontmatter, "missing YAML frontmatter")
	}

	endIdx := -1
	for i := 1; i < len(lines); i++ {
		if lines[i] == delimiter {
			endIdx = i
			break
		}
	}
	if endIdx == -1 {
		return nil, newError(CodeUnterminatedFrontmatter, "unterminated YAML frontmatter")
	}

	yamlText := strings.Join(lines[1:endIdx], "\n")

	var parsed any
	if err := yaml.Unmarshal([]byte(yamlText), &parsed); err != nil {
		return nil, newError(CodeInvalidYAML, "invalid YAML frontmatter")
	}

	obj, ok := parsed.(map[string]any)
	if !ok || obj == nil {
		return nil, newError(CodeInvalidFrontmatter, "frontmatter must be a YAML object")
	}

	name, ok := obj["name"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return nil, newError(CodeMissingName, "frontmatter.name must be a non-empty string")
	}
	description, ok := obj["description"].(string)
	if !ok || strings.TrimSpace(description) == "" {
		return nil, newError(CodeMissingDescription, "frontmatter.description must be a non-empty string")
	}

	if len(name) > limits.MaxNameLength {
		return nil, newError(CodeNameTooLong, fmt.Sprintf("name must be <= %d chars", limits.MaxNameLength))
	}
	if len(description) > limits.MaxDescriptionLength {
		return nil, newError(CodeDescriptionTooLong, fmt.Sprintf("description must be <= %d chars", limits.MaxDescriptionLength))
	}

	return &Manifest{Name: name, Description: description}, nil
}

// splitLines splits on '\n' and strips a trailing '\r' from each line, so
// CRLF documents parse the same as LF ones.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
