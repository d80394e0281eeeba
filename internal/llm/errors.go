package llm

import (
	"fmt"
	"strings"
)

// TemplateError indicates the configured request template could not be
// turned into a valid JSON payload. It is raised before any network call.
type TemplateError struct {
	Err error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("invalid request template: %v", e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// NetworkError indicates the request never produced an HTTP response:
// connection refused, DNS failure, or timeout. The cause is carried in
// the message.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("api request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError indicates a non-success HTTP status. Body is truncated for
// diagnostics.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api returned HTTP %d: %s", e.Status, e.Body)
}

// ExtractionError indicates no configured or fallback path resolved to a
// non-empty string in the response.
type ExtractionError struct {
	Paths []string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("unable to extract model output; attempted paths: %s",
		strings.Join(e.Paths, ", "))
}
