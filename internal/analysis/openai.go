package analysis

import (
	"context"

	"github.com/avemuri/CaseDocAPI/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type openaiProvider struct {
	client    openai.Client
	modelName string
	logger    *logger_i.Logger
}

func NewOpenAIProvider(apikey, modelName string) Provider {
	if apikey == "" {
		return nil
	}
	logger := logger_i.NewLogger("analysis_openai")
	logger.Info("OpenAI analysis client created", "model", modelName)
	return &openaiProvider{
		client:    openai.NewClient(option.WithAPIKey(apikey)),
		modelName: modelName,
		logger:    logger,
	}
}

func (p *openaiProvider) Name() string { return "openai" }

func (p *openaiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
