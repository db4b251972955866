package extraction

import (
	"context"
	"errors"

	"github.com/avemuri/CaseDocAPI/internal/domain/docModel"
	"github.com/avemuri/CaseDocAPI/pkg/logger_i"
	"google.golang.org/genai"
)

const visionPrompt = `Transcribe every piece of text visible in this document exactly as written, preserving reading order and line breaks. Output only the transcribed text, nothing else.`

// geminiVisionProvider runs general vision OCR through the Gemini API.
// No table fidelity, but broadly available and handles messy scans well.
type geminiVisionProvider struct {
	client    *genai.Client
	modelName string
	logger    *logger_i.Logger
}

func NewGeminiVisionProvider(ctx context.Context, apikey, modelName string) Provider {
	logger := logger_i.NewLogger("ocr_gemini")
	if apikey == "" {
		return nil
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini client", "error", err)
		return nil
	}
	logger.Info("Gemini vision OCR client created", "model", modelName)
	return &geminiVisionProvider{client: c, modelName: modelName, logger: logger}
}

func (p *geminiVisionProvider) Name() string { return "gemini-vision" }

func (p *geminiVisionProvider) Extract(ctx context.Context, file []byte, contentType string) (*docModel.ExtractionResult, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(file, contentType),
			genai.NewPartFromText(visionPrompt),
		}, genai.RoleUser),
	}

	result, err := p.client.Models.GenerateContent(ctx, p.modelName, contents, nil)
	if err != nil {
		return nil, p.classify(err)
	}

	text := result.Text()
	if text == "" {
		return nil, NewProviderError(p.Name(), KindEmptyResult, errors.New("model returned no text"))
	}
	return &docModel.ExtractionResult{Text: text}, nil
}

func (p *geminiVisionProvider) classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewProviderError(p.Name(), KindTimeout, err)
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if kind, bad := classifyStatusCode(apiErr.Code); bad {
			return NewProviderError(p.Name(), kind, err)
		}
	}
	return NewProviderError(p.Name(), KindServer, err)
}
