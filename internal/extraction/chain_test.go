package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/avemuri/CaseDocAPI/internal/domain/docModel"
)

type mockOcrProvider struct {
	name      string
	OnExtract func(ctx context.Context, file []byte, contentType string) (*docModel.ExtractionResult, error)
	calls     int
}

func (m *mockOcrProvider) Name() string { return m.name }

func (m *mockOcrProvider) Extract(ctx context.Context, file []byte, contentType string) (*docModel.ExtractionResult, error) {
	m.calls++
	if m.OnExtract != nil {
		return m.OnExtract(ctx, file, contentType)
	}
	return &docModel.ExtractionResult{Text: strings.Repeat("extracted legal text ", 5)}, nil
}

func TestChain_ShortCircuitsOnSuccess(t *testing.T) {
	first := &mockOcrProvider{name: "docai"}
	second := &mockOcrProvider{name: "gemini-vision"}
	chain := NewChain(first, second)

	result, err := chain.Extract(context.Background(), []byte("pdf"), "application/pdf")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if result.Provider != "docai" {
		t.Errorf("provider %q", result.Provider)
	}
	if second.calls != 0 {
		t.Error("fallback provider must not run after a success")
	}
}

func TestChain_FallsThroughOnRateLimit(t *testing.T) {
	first := &mockOcrProvider{name: "docai", OnExtract: func(ctx context.Context, file []byte, contentType string) (*docModel.ExtractionResult, error) {
		return nil, NewProviderError("docai", KindRateLimit, errors.New("429"))
	}}
	second := &mockOcrProvider{name: "gemini-vision"}
	chain := NewChain(first, second)

	result, err := chain.Extract(context.Background(), []byte("pdf"), "application/pdf")
	if err != nil {
		t.Fatalf("second provider should have covered: %v", err)
	}
	if result.Provider != "gemini-vision" {
		t.Errorf("provider %q", result.Provider)
	}
}

func TestChain_ShortTextCountsAsFailure(t *testing.T) {
	short := &mockOcrProvider{name: "docai", OnExtract: func(ctx context.Context, file []byte, contentType string) (*docModel.ExtractionResult, error) {
		return &docModel.ExtractionResult{Text: "a b"}, nil
	}}
	good := &mockOcrProvider{name: "ocrweb"}
	chain := NewChain(short, good)

	result, err := chain.Extract(context.Background(), []byte("img"), "image/png")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if result.Provider != "ocrweb" {
		t.Errorf("noise result should fall through, got %q", result.Provider)
	}
}

func TestChain_AggregatesAllFailures(t *testing.T) {
	fail := func(kind ErrorKind) func(ctx context.Context, file []byte, contentType string) (*docModel.ExtractionResult, error) {
		return func(ctx context.Context, file []byte, contentType string) (*docModel.ExtractionResult, error) {
			return nil, NewProviderError("", kind, errors.New("boom"))
		}
	}
	chain := NewChain(
		&mockOcrProvider{name: "docai", OnExtract: fail(KindAuth)},
		&mockOcrProvider{name: "gemini-vision", OnExtract: fail(KindServer)},
		&mockOcrProvider{name: "ocrweb", OnExtract: fail(KindEmptyResult)},
	)

	_, err := chain.Extract(context.Background(), []byte("pdf"), "application/pdf")
	if err == nil {
		t.Fatal("exhausted chain must error")
	}
	chainErr, ok := AsChainError(err)
	if !ok {
		t.Fatalf("expected ChainError, got %T", err)
	}
	if len(chainErr.Failures) != 3 {
		t.Errorf("expected 3 recorded failures, got %d", len(chainErr.Failures))
	}
	if !chainErr.Transient() {
		t.Error("a server failure anywhere in the chain makes the outcome retryable")
	}
}

func TestChainError_TerminalWhenNothingTransient(t *testing.T) {
	ce := &ChainError{Failures: []*ProviderError{
		NewProviderError("docai", KindEmptyResult, errors.New("empty")),
		NewProviderError("ocrweb", KindBadInput, errors.New("unsupported")),
	}}
	if ce.Transient() {
		t.Error("empty-result and bad-input failures cannot be fixed by retrying")
	}
}

func TestChain_NoProvidersConfigured(t *testing.T) {
	chain := NewChain(nil, nil)
	_, err := chain.Extract(context.Background(), []byte("pdf"), "application/pdf")
	if err == nil {
		t.Fatal("expected error")
	}
	if ce, ok := AsChainError(err); !ok || ce.Transient() {
		t.Errorf("empty chain should be a terminal ChainError: %v", err)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"crlf", "line one\r\nline two", "line one\nline two"},
		{"curly quotes", "said “stop” and ‘go’", `said "stop" and 'go'`},
		{"dashes", "2019–2021 — done", "2019-2021 - done"},
		{"multi space", "a  \t  b", "a b"},
		{"newline runs", "a\n\n\n\n\nb", "a\n\nb"},
		{"line right trim", "a   \nb", "a\nb"},
		{"outer trim", "  text  ", "text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
