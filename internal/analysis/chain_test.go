package analysis

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockProvider struct {
	name       string
	OnComplete func(ctx context.Context, prompt string) (string, error)
	calls      int
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Complete(ctx context.Context, prompt string) (string, error) {
	m.calls++
	if m.OnComplete != nil {
		return m.OnComplete(ctx, prompt)
	}
	return wellFormedResponse, nil
}

func fixedClock() time.Time {
	return time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
}

func TestChain_FirstProviderWins(t *testing.T) {
	first := &mockProvider{name: "gemini"}
	second := &mockProvider{name: "openai"}
	chain := NewChainWithClock(fixedClock, first, second)

	result := chain.Analyze(context.Background(), sampleContract)
	if result.Provider != "ai:gemini" {
		t.Errorf("provider %q", result.Provider)
	}
	if second.calls != 0 {
		t.Error("second provider should not be called when the first succeeds")
	}
}

func TestChain_FallsThroughOnError(t *testing.T) {
	first := &mockProvider{name: "gemini", OnComplete: func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("rate limited")
	}}
	second := &mockProvider{name: "openai"}
	chain := NewChainWithClock(fixedClock, first, second)

	result := chain.Analyze(context.Background(), sampleContract)
	if result.Provider != "ai:openai" {
		t.Errorf("expected openai to cover the failure, got %q", result.Provider)
	}
}

func TestChain_FallsThroughOnGarbageResponse(t *testing.T) {
	first := &mockProvider{name: "gemini", OnComplete: func(ctx context.Context, prompt string) (string, error) {
		return "I am sorry, I cannot do that.", nil
	}}
	second := &mockProvider{name: "openai"}
	chain := NewChainWithClock(fixedClock, first, second)

	if result := chain.Analyze(context.Background(), sampleContract); result.Provider != "ai:openai" {
		t.Errorf("unparseable response should fall through, got %q", result.Provider)
	}
}

func TestChain_EmptyShapeFallsThrough(t *testing.T) {
	empty := &mockProvider{name: "gemini", OnComplete: func(ctx context.Context, prompt string) (string, error) {
		return `{"summary": "", "keyFacts": [], "favorableFindings": [], "adverseFindings": [], "actionItems": [], "timelineEvents": []}`, nil
	}}
	chain := NewChainWithClock(fixedClock, empty)

	result := chain.Analyze(context.Background(), sampleContract)
	if result.Provider != "heuristic" {
		t.Errorf("an empty AI shape counts as failure, got %q", result.Provider)
	}
}

func TestChain_HeuristicWhenNoProviders(t *testing.T) {
	chain := NewChainWithClock(fixedClock)

	result := chain.Analyze(context.Background(), sampleContract)
	if result.Provider != "heuristic" {
		t.Errorf("provider %q", result.Provider)
	}
	if result.Empty() {
		t.Error("heuristic should still produce signal for real text")
	}
}

func TestChain_NilProvidersFiltered(t *testing.T) {
	chain := NewChainWithClock(fixedClock, nil, &mockProvider{name: "openai"}, nil)
	if result := chain.Analyze(context.Background(), sampleContract); result.Provider != "ai:openai" {
		t.Errorf("provider %q", result.Provider)
	}
}

func TestBuildPrompt_Truncates(t *testing.T) {
	huge := make([]byte, 100000)
	for i := range huge {
		huge[i] = 'a'
	}
	prompt := BuildPrompt(string(huge))
	if len(prompt) > len(analysisInstruction)+30000 {
		t.Errorf("prompt not truncated: %d chars", len(prompt))
	}
}
