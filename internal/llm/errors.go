package llm

import "fmt"

// GenerationError indicates the external generation service was unreachable,
// unconfigured, or returned a non-success result.
type GenerationError struct {
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("generation failed: %s", e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// ParseError indicates generator output could not be coerced to JSON.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}
