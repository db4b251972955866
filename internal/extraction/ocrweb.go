package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/avemuri/CaseDocAPI/internal/customHttpClient"
	"github.com/avemuri/CaseDocAPI/internal/domain/docModel"
	"github.com/avemuri/CaseDocAPI/pkg/logger_i"
)

const ocrWebEndpoint = "https://api.ocr.space/parse/image"

// ocrWebProvider is the last-resort web OCR API: cheap, no tables, strict
// rate limits.
type ocrWebProvider struct {
	apiKey string
	client *http.Client
	logger *logger_i.Logger
}

func NewOcrWebProvider(apiKey string) Provider {
	if apiKey == "" {
		return nil
	}
	return &ocrWebProvider{
		apiKey: apiKey,
		client: customHttpClient.GetPooledClient(),
		logger: logger_i.NewLogger("ocr_web"),
	}
}

func (p *ocrWebProvider) Name() string { return "ocrweb" }

type ocrWebResponse struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool  `json:"IsErroredOnProcessing"`
	ErrorMessage          []any `json:"ErrorMessage,omitempty"`
}

func (p *ocrWebProvider) Extract(ctx context.Context, file []byte, contentType string) (*docModel.ExtractionResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	ext := "pdf"
	if strings.HasPrefix(contentType, "image/") {
		ext = strings.TrimPrefix(contentType, "image/")
	}
	part, err := writer.CreateFormFile("file", "document."+ext)
	if err != nil {
		return nil, NewProviderError(p.Name(), KindBadInput, err)
	}
	if _, err := part.Write(file); err != nil {
		return nil, NewProviderError(p.Name(), KindBadInput, err)
	}
	_ = writer.WriteField("OCREngine", "2")
	_ = writer.WriteField("scale", "true")
	if err := writer.Close(); err != nil {
		return nil, NewProviderError(p.Name(), KindBadInput, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ocrWebEndpoint, &body)
	if err != nil {
		return nil, NewProviderError(p.Name(), KindBadInput, err)
	}
	req.Header.Set("apikey", p.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	httpResp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, NewProviderError(p.Name(), KindTimeout, err)
		}
		return nil, NewProviderError(p.Name(), KindServer, err)
	}
	defer httpResp.Body.Close()

	if kind, bad := classifyStatusCode(httpResp.StatusCode); bad {
		payload, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return nil, NewProviderError(p.Name(), kind,
			fmt.Errorf("http %d: %s", httpResp.StatusCode, payload))
	}

	var parsed ocrWebResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&parsed); err != nil {
		return nil, NewProviderError(p.Name(), KindServer, fmt.Errorf("decoding response: %w", err))
	}
	if parsed.IsErroredOnProcessing {
		return nil, NewProviderError(p.Name(), KindEmptyResult,
			fmt.Errorf("processing error: %v", parsed.ErrorMessage))
	}

	var sb strings.Builder
	for _, r := range parsed.ParsedResults {
		sb.WriteString(r.ParsedText)
		sb.WriteString("\n")
	}
	return &docModel.ExtractionResult{Text: strings.TrimSpace(sb.String())}, nil
}
