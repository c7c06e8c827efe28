package generation

import (
	"fmt"

	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/providers"
)

// ValidationError is a caller-correctable problem with a request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// EnhancementError is a failed prompt enhancement. It is logged and the
// pipeline continues with the original prompt.
type EnhancementError struct {
	Provider providers.ID
	Model    string
	Err      error
}

func (e *EnhancementError) Error() string {
	return fmt.Sprintf("prompt enhancement with %s (model %s) failed: %v", e.Provider, e.Model, e.Err)
}

func (e *EnhancementError) Unwrap() error {
	return e.Err
}
