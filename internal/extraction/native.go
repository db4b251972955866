package extraction

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avemuri/CaseDocAPI/internal/domain/docModel"
	"github.com/avemuri/CaseDocAPI/pkg/logger_i"
	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

// RawPage is one page of directly-read text, before normalization.
type RawPage struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

var nativeLogger = logger_i.NewLogger("NativeExtract")

// ReadNativePDF pulls the embedded text layer out of a PDF without OCR.
// Returns per-page text; an empty result means the PDF is scanned and the
// provider chain must take over.
func ReadNativePDF(data []byte) ([]RawPage, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages []RawPage
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			nativeLogger.Error("Error parsing page content", "page", i, "error", err)
			continue
		}
		if strings.TrimSpace(content) == "" {
			continue
		}
		pages = append(pages, RawPage{Number: i, Content: content})
	}
	return pages, nil
}

// ReadWordLike extracts docx/odt/rtf/plaintext content. The extractor only
// takes file paths, so the blob goes through a temp file.
func ReadWordLike(data []byte, name string) (string, error) {
	ext := filepath.Ext(name)
	if ext == "" {
		ext = ".txt"
	}
	tmp, err := os.CreateTemp("", "casedoc-extract-*"+ext)
	if err != nil {
		return "", fmt.Errorf("temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	tmp.Close()

	text, err := cat.File(tmp.Name())
	if err != nil {
		return "", fmt.Errorf("failed to extract document text: %w", err)
	}
	return text, nil
}

// Placeholder marks a document whose type carries no extractable text.
// The pipeline stores the marker instead of failing the job.
func Placeholder(contentType docModel.DocType, name string) string {
	return fmt.Sprintf("[unsupported content type %q for document %s - no text extracted]", contentType, name)
}

// protectExtract guards against pathological PDFs that hang the parser.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(10 * time.Second):
		return "", errors.New("page extraction timeout")
	}
}
