package analysis

import (
	"context"
	"errors"
	"fmt"
)

// Provider is one external LLM capable of producing the structured
// analysis. Implementations return the raw model text; parsing and
// clamping is shared by the chain.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

var ErrEmptyResponse = errors.New("provider returned empty response")

// ProviderError wraps a provider failure with its position in the chain so
// an exhausted chain can report every reason.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
