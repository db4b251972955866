package extraction

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a provider failure for the fallback and retry
// decisions. Auth and empty results are definitive for that provider;
// rate limits and server errors are capacity problems.
type ErrorKind string

const (
	KindAuth        ErrorKind = "auth"
	KindRateLimit   ErrorKind = "rate_limit"
	KindServer      ErrorKind = "server"
	KindTimeout     ErrorKind = "timeout"
	KindEmptyResult ErrorKind = "empty_result"
	KindBadInput    ErrorKind = "bad_input"
)

type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func NewProviderError(provider string, kind ErrorKind, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}

// ChainError aggregates every provider's failure reason once the whole
// chain is exhausted, for observability and job-level classification.
type ChainError struct {
	Failures []*ProviderError
}

func (e *ChainError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Error())
	}
	return "all providers failed: " + strings.Join(parts, "; ")
}

// Transient reports whether the exhausted chain looks like a capacity
// problem worth retrying. If every failure was an empty result or bad
// input, the input itself is unusable and a retry cannot help.
func (e *ChainError) Transient() bool {
	sawTransient := false
	for _, f := range e.Failures {
		switch f.Kind {
		case KindRateLimit, KindServer, KindTimeout:
			sawTransient = true
		}
	}
	return sawTransient
}

// AsChainError unwraps err to a *ChainError if there is one.
func AsChainError(err error) (*ChainError, bool) {
	var ce *ChainError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
