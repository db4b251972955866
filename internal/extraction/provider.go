package extraction

import (
	"context"

	"github.com/avemuri/CaseDocAPI/internal/domain/docModel"
)

// Provider is one external OCR service. Implementations classify their own
// failures via ProviderError so the chain can decide fallthrough without
// knowing transport details.
type Provider interface {
	Name() string
	Extract(ctx context.Context, file []byte, contentType string) (*docModel.ExtractionResult, error)
}
