package llm

import "fmt"

// ModelError represents a failed or empty model invocation
type ModelError struct {
	Model   string
	Message string
	Cause   error
}

func (e *ModelError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("model error (%s): %s: %v", e.Model, e.Message, e.Cause)
	}
	return fmt.Sprintf("model error (%s): %s", e.Model, e.Message)
}

func (e *ModelError) Unwrap() error {
	return e.Cause
}
