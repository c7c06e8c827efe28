package providers

import (
	"fmt"
)

// ConfigurationError means a provider cannot be built because an operator-side
// setting (usually an API key) is missing.
type ConfigurationError struct {
	Provider   ID
	Credential string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s provider is not configured: set %s", e.Provider, e.Credential)
}

// ProviderError is a non-2xx answer from a backend. Body is the raw error body.
type ProviderError struct {
	Provider   ID
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s API error: status %d: %s", e.Provider, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s API error: %s", e.Provider, e.Body)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NoContentError means the backend answered successfully but returned no candidates.
type NoContentError struct {
	Provider ID
	Model    string
}

func (e *NoContentError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("no content generated by %s (model %s)", e.Provider, e.Model)
	}
	return fmt.Sprintf("no content generated by %s", e.Provider)
}
