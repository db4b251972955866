package extraction

import (
	"context"
	"errors"
	"time"

	"github.com/avemuri/CaseDocAPI/internal/config"
	"github.com/avemuri/CaseDocAPI/internal/domain/docModel"
	"github.com/avemuri/CaseDocAPI/internal/metrics"
	"github.com/avemuri/CaseDocAPI/pkg/logger_i"
)

// Chain tries providers in the configured priority order and returns the
// first sufficiently long result. Provider order encodes the quality/cost
// tradeoff: the table-aware provider first, general vision OCR second,
// the web OCR API last.
type Chain struct {
	providers     []Provider
	minTextLength int
	logger        *logger_i.Logger
}

func NewChain(providers ...Provider) *Chain {
	c := &Chain{
		minTextLength: config.MinTextLength,
		logger:        logger_i.NewLogger("OcrChain"),
	}
	for _, p := range providers {
		if p != nil {
			c.providers = append(c.providers, p)
		}
	}
	return c
}

// Extract short-circuits on the first success: once a provider returns
// enough text, cheaper or slower fallbacks are not called. Every provider
// failure falls through to the next; an exhausted chain returns a
// ChainError aggregating all reasons.
func (c *Chain) Extract(ctx context.Context, file []byte, contentType string) (*docModel.ExtractionResult, error) {
	log := c.logger.WithTrace(ctx)

	if len(c.providers) == 0 {
		return nil, &ChainError{Failures: []*ProviderError{
			NewProviderError("none", KindBadInput, errors.New("no OCR providers configured")),
		}}
	}

	var failures []*ProviderError
	for _, provider := range c.providers {
		result, err := c.tryProvider(ctx, provider, file, contentType)
		if err == nil {
			log.Debug("extraction succeeded", "provider", provider.Name(), "chars", len(result.Text))
			return result, nil
		}

		var pe *ProviderError
		if !errors.As(err, &pe) {
			pe = NewProviderError(provider.Name(), KindServer, err)
		}
		log.Warn("provider failed, falling through", "provider", provider.Name(), "kind", pe.Kind, "error", pe.Err)
		failures = append(failures, pe)
	}

	return nil, &ChainError{Failures: failures}
}

func (c *Chain) tryProvider(ctx context.Context, provider Provider, file []byte, contentType string) (*docModel.ExtractionResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, config.OcrPollCap)
	defer cancel()

	start := time.Now()
	result, err := provider.Extract(callCtx, file, contentType)
	metrics.CaptureProviderLatency("ocr_"+provider.Name(), time.Since(start))

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, NewProviderError(provider.Name(), KindTimeout, err)
		}
		return nil, err
	}
	//a short blob of OCR noise is a failure, not a degenerate success
	if len(result.Text) < c.minTextLength {
		return nil, NewProviderError(provider.Name(), KindEmptyResult,
			errors.New("extracted text below minimum length"))
	}
	result.Provider = provider.Name()
	return result, nil
}
