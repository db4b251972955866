package analysis

import (
	"fmt"

	"github.com/avemuri/CaseDocAPI/internal/config"
)

const analysisInstruction = `You are a litigation support analyst. Read the document text and respond with ONLY a JSON object, no prose, matching exactly this schema:
{
  "summary": "one or two sentence summary",
  "keyFacts": ["fact", ...],
  "favorableFindings": ["finding helpful to our client", ...],
  "adverseFindings": ["finding harmful to our client", ...],
  "actionItems": ["concrete follow-up", ...],
  "timelineEvents": [
    {
      "date": "YYYY-MM-DD",
      "title": "short title",
      "description": "what happened",
      "importance": "low|medium|high",
      "eventType": "filing|hearing|deadline|meeting|incident|other"
    }
  ]
}
Dates must be normalized to YYYY-MM-DD. Use empty arrays when nothing applies.`

// BuildPrompt assembles the single analysis prompt. Input is truncated at
// a fixed character budget so oversized extractions never blow the model
// context window.
func BuildPrompt(text string) string {
	if len(text) > config.MaxAnalysisChars {
		text = text[:config.MaxAnalysisChars]
	}
	return fmt.Sprintf("%s\n\nDocument text:\n%s", analysisInstruction, text)
}
