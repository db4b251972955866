package extraction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avemuri/CaseDocAPI/internal/config"
	"github.com/avemuri/CaseDocAPI/internal/customHttpClient"
	"github.com/avemuri/CaseDocAPI/internal/domain/docModel"
	"github.com/avemuri/CaseDocAPI/pkg/logger_i"
)

// docaiProvider talks to a structured document-AI REST service. It is the
// most expensive provider in the chain but the only one that returns
// table data, which is why it runs first.
type docaiProvider struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   *logger_i.Logger
}

func NewDocAIProvider(endpoint, apiKey string) Provider {
	if endpoint == "" || apiKey == "" {
		return nil
	}
	return &docaiProvider{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   customHttpClient.GetPooledClient(),
		logger:   logger_i.NewLogger("ocr_docai"),
	}
}

func (p *docaiProvider) Name() string { return "docai" }

type docaiRequest struct {
	Document    string `json:"document"` //base64
	ContentType string `json:"content_type"`
}

type docaiResponse struct {
	Status string `json:"status"` //"succeeded" | "processing" | "failed"
	JobId  string `json:"job_id,omitempty"`
	Text   string `json:"text,omitempty"`
	Error  string `json:"error,omitempty"`
	Tables []struct {
		PageNumber int        `json:"page_number"`
		Rows       [][]string `json:"rows"`
	} `json:"tables,omitempty"`
}

func (p *docaiProvider) Extract(ctx context.Context, file []byte, contentType string) (*docModel.ExtractionResult, error) {
	body, err := json.Marshal(docaiRequest{
		Document:    base64.StdEncoding.EncodeToString(file),
		ContentType: contentType,
	})
	if err != nil {
		return nil, NewProviderError(p.Name(), KindBadInput, err)
	}

	resp, err := p.call(ctx, http.MethodPost, p.endpoint+"/v1/documents:process", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	//async jobs get polled with a bounded loop; the chain's OcrPollCap
	//context deadline is the hard stop
	for resp.Status == "processing" {
		if resp.JobId == "" {
			return nil, NewProviderError(p.Name(), KindServer, errors.New("processing response without job id"))
		}
		select {
		case <-ctx.Done():
			return nil, NewProviderError(p.Name(), KindTimeout, ctx.Err())
		case <-time.After(config.OcrPollInterval):
		}
		resp, err = p.call(ctx, http.MethodGet, p.endpoint+"/v1/jobs/"+resp.JobId, nil)
		if err != nil {
			return nil, err
		}
	}

	if resp.Status != "succeeded" {
		return nil, NewProviderError(p.Name(), KindEmptyResult,
			fmt.Errorf("processing failed: %s", resp.Error))
	}

	result := &docModel.ExtractionResult{Text: resp.Text}
	for _, t := range resp.Tables {
		result.Tables = append(result.Tables, docModel.Table{PageNumber: t.PageNumber, Rows: t.Rows})
	}
	return result, nil
}

func (p *docaiProvider) call(ctx context.Context, method, url string, body io.Reader) (*docaiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, NewProviderError(p.Name(), KindBadInput, err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

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

	var parsed docaiResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&parsed); err != nil {
		return nil, NewProviderError(p.Name(), KindServer, fmt.Errorf("decoding response: %w", err))
	}
	return &parsed, nil
}

// classifyStatusCode maps HTTP status to a provider error kind. 2xx is not
// an error.
func classifyStatusCode(code int) (ErrorKind, bool) {
	switch {
	case code >= 200 && code < 300:
		return "", false
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return KindAuth, true
	case code == http.StatusTooManyRequests:
		return KindRateLimit, true
	case code >= 500:
		return KindServer, true
	default:
		return KindBadInput, true
	}
}
