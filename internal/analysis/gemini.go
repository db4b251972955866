package analysis

import (
	"context"

	"github.com/avemuri/CaseDocAPI/internal/config"
	"github.com/avemuri/CaseDocAPI/pkg/logger_i"
	"google.golang.org/genai"
)

type geminiProvider struct {
	client    *genai.Client
	modelName string
	logger    *logger_i.Logger
}

// NewGeminiProvider returns nil when the client cannot be constructed;
// the chain treats a nil provider as not configured.
func NewGeminiProvider(ctx context.Context, apikey, modelName string) Provider {
	logger := logger_i.NewLogger("analysis_gemini")
	if apikey == "" {
		return nil
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini client", "error", err)
		return nil
	}
	logger.Info("Gemini analysis client created", "model", modelName)
	return &geminiProvider{client: c, modelName: modelName, logger: logger}
}

func (p *geminiProvider) Name() string { return "gemini" }

func (p *geminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	temperature := float32(config.ModelTemperature)
	contentConfig := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
	}

	result, err := p.client.Models.GenerateContent(
		ctx,
		p.modelName,
		genai.Text(prompt),
		contentConfig,
	)
	if err != nil {
		return "", err
	}
	text := result.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
