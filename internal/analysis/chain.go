package analysis

import (
	"context"
	"time"

	"github.com/avemuri/CaseDocAPI/internal/config"
	"github.com/avemuri/CaseDocAPI/internal/domain/docModel"
	"github.com/avemuri/CaseDocAPI/internal/metrics"
	"github.com/avemuri/CaseDocAPI/pkg/logger_i"
)

// Chain tries configured AI providers in order and falls back to the
// deterministic heuristic when none yields usable output. Analysis is
// strictly an enhancement: Analyze never returns an error.
type Chain struct {
	providers []Provider
	heuristic Heuristic
	logger    *logger_i.Logger
	now       func() time.Time
}

func NewChain(providers ...Provider) *Chain {
	c := &Chain{
		logger: logger_i.NewLogger("AnalysisChain"),
		now:    time.Now,
	}
	for _, p := range providers {
		if p != nil {
			c.providers = append(c.providers, p)
		}
	}
	return c
}

// NewChainWithClock pins "today" for date fallback in tests.
func NewChainWithClock(clock func() time.Time, providers ...Provider) *Chain {
	c := NewChain(providers...)
	c.now = clock
	return c
}

func (c *Chain) Analyze(ctx context.Context, text string) *docModel.AnalysisResult {
	log := c.logger.WithTrace(ctx)

	for _, provider := range c.providers {
		result, err := c.tryProvider(ctx, provider, text)
		if err != nil {
			//parsing and provider errors never propagate; the next
			//provider or the heuristic covers for them
			log.Warn("analysis provider failed", "provider", provider.Name(), "error", err)
			continue
		}
		if result.Empty() {
			log.Warn("analysis provider returned empty shape", "provider", provider.Name())
			continue
		}
		log.Debug("analysis complete", "provider", provider.Name())
		return result
	}

	log.Debug("falling back to heuristic analysis")
	return c.heuristic.Analyze(text)
}

func (c *Chain) tryProvider(ctx context.Context, provider Provider, text string) (*docModel.AnalysisResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, config.ProviderCallTimeout)
	defer cancel()

	start := time.Now()
	raw, err := provider.Complete(callCtx, BuildPrompt(text))
	metrics.CaptureProviderLatency("analysis_"+provider.Name(), time.Since(start))
	if err != nil {
		return nil, &ProviderError{Provider: provider.Name(), Err: err}
	}

	result, err := ParseResponse(raw, provider.Name(), c.now())
	if err != nil {
		return nil, &ProviderError{Provider: provider.Name(), Err: err}
	}
	return result, nil
}
