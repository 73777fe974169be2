package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// FieldError describes one invalid field of a record or configuration.
type FieldError struct {
	Field  string
	Reason string
}

// ValidationError collects every field problem found in a single value so
// callers can report all of them at once instead of one per attempt.
type ValidationError struct {
	Code   Code
	What   string
	Fields []FieldError
}

// Add records a field problem.
func (v *ValidationError) Add(field, reason string) {
	v.Fields = append(v.Fields, FieldError{Field: field, Reason: reason})
}

// Err returns nil when no field problems were recorded, otherwise an *Error
// with the configured code wrapping v.
func (v *ValidationError) Err() error {
	if len(v.Fields) == 0 {
		return nil
	}
	return Wrap(v.Code, v, "invalid %s", v.What)
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	parts := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		parts[i] = f.Field + ": " + f.Reason
	}
	return strings.Join(parts, "; ")
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// cardFilenameRegex matches the names the renderer writes: {id}_{YYYYMMDD}_{HHMMSS}.png
var cardFilenameRegex = regexp.MustCompile(`^[0-9]+_[0-9]{8}_[0-9]{6}\.png$`)

// ValidateCardFilename validates a rendered card filename requested from
// outside the process. It rejects anything that is not a plain basename in
// the renderer's own naming scheme.
func ValidateCardFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "card filename cannot be empty")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "card filename contains invalid control characters")
		}
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return New(ErrCodeInvalidPath, "card filename cannot contain path components")
	}
	if !cardFilenameRegex.MatchString(name) {
		return New(ErrCodeInvalidPath, "not a card filename: %q", name)
	}
	return nil
}
