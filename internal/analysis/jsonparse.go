package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avemuri/CaseDocAPI/internal/config"
	"github.com/avemuri/CaseDocAPI/internal/domain/docModel"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// parsedAnalysis mirrors the JSON shape models are asked to emit. It is an
// explicit parse step: the raw response is never used without going
// through schema validation and clamping.
type parsedAnalysis struct {
	Summary           string        `json:"summary"`
	KeyFacts          []string      `json:"keyFacts"`
	FavorableFindings []string      `json:"favorableFindings"`
	AdverseFindings   []string      `json:"adverseFindings"`
	ActionItems       []string      `json:"actionItems"`
	TimelineEvents    []parsedEvent `json:"timelineEvents"`
}

type parsedEvent struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Importance  string `json:"importance"`
	EventType   string `json:"eventType"`
}

const analysisSchemaJSON = `{
  "type": "object",
  "properties": {
    "summary": {"type": "string"},
    "keyFacts": {"type": "array", "items": {"type": "string"}},
    "favorableFindings": {"type": "array", "items": {"type": "string"}},
    "adverseFindings": {"type": "array", "items": {"type": "string"}},
    "actionItems": {"type": "array", "items": {"type": "string"}},
    "timelineEvents": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "date": {"type": "string"},
          "title": {"type": "string"},
          "description": {"type": "string"},
          "importance": {"type": "string"},
          "eventType": {"type": "string"}
        }
      }
    }
  }
}`

var analysisSchema = jsonschema.MustCompileString("analysis.json", analysisSchemaJSON)

// ParseResponse turns a raw model response into a clamped AnalysisResult.
// It tolerates a JSON object embedded in extra prose by falling back to
// the first balanced {...} substring, and validates the decoded document
// against the response schema before trusting any field.
func ParseResponse(raw string, providerName string, now time.Time) (*docModel.AnalysisResult, error) {
	payload := []byte(raw)

	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		embedded, ok := firstBalancedObject(raw)
		if !ok {
			return nil, fmt.Errorf("no JSON object in response: %w", err)
		}
		payload = []byte(embedded)
		if err := json.Unmarshal(payload, &decoded); err != nil {
			return nil, fmt.Errorf("embedded object not valid JSON: %w", err)
		}
	}

	if err := analysisSchema.Validate(decoded); err != nil {
		return nil, fmt.Errorf("response failed schema validation: %w", err)
	}

	var parsed parsedAnalysis
	dec := json.NewDecoder(bytes.NewReader(payload))
	if err := dec.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return clamp(parsed, providerName, now), nil
}

// firstBalancedObject extracts the first top-level {...} substring,
// respecting string literals and escapes.
func firstBalancedObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}

// clamp caps list lengths, coerces unknown enum values to safe defaults
// and normalizes dates. It never fails: a malformed field degrades to its
// default instead of rejecting the analysis.
func clamp(parsed parsedAnalysis, providerName string, now time.Time) *docModel.AnalysisResult {
	result := &docModel.AnalysisResult{
		Summary:     parsed.Summary,
		KeyFacts:    dedupeCap(parsed.KeyFacts, config.AnalysisKeyFacts),
		Favorable:   dedupeCap(parsed.FavorableFindings, config.AnalysisFindings),
		Adverse:     dedupeCap(parsed.AdverseFindings, config.AnalysisFindings),
		ActionItems: dedupeCap(parsed.ActionItems, config.AnalysisActions),
		Provider:    "ai:" + providerName,
	}

	events := parsed.TimelineEvents
	if len(events) > config.AnalysisEvents {
		events = events[:config.AnalysisEvents]
	}
	for _, ev := range events {
		result.TimelineEvents = append(result.TimelineEvents, docModel.TimelineEvent{
			Date:        NormalizeDate(ev.Date, now),
			Title:       ev.Title,
			Description: truncate(ev.Description, config.DescriptionLimit),
			Importance:  coerceImportance(ev.Importance),
			EventType:   coerceEventType(ev.EventType),
		})
	}
	return result
}

func coerceImportance(raw string) docModel.Importance {
	switch docModel.Importance(raw) {
	case docModel.ImportanceLow, docModel.ImportanceMedium, docModel.ImportanceHigh:
		return docModel.Importance(raw)
	default:
		return docModel.ImportanceMedium
	}
}

func coerceEventType(raw string) docModel.EventType {
	switch docModel.EventType(raw) {
	case docModel.EventFiling, docModel.EventHearing, docModel.EventDeadline,
		docModel.EventMeeting, docModel.EventIncident, docModel.EventOther:
		return docModel.EventType(raw)
	default:
		return docModel.EventOther
	}
}

func truncate(s string, limit int) string {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
