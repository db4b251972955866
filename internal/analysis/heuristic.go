package analysis

import (
	"regexp"
	"strings"

	"github.com/avemuri/CaseDocAPI/internal/config"
	"github.com/avemuri/CaseDocAPI/internal/domain/docModel"
)

// Heuristic derives summary/facts/timeline from raw text with no external
// call. Its output shape is identical to the AI path so downstream
// consumers never need to know which produced it, and it is fully
// deterministic for a given input.
type Heuristic struct{}

func (Heuristic) Name() string { return "heuristic" }

var (
	//date token patterns, checked in priority order
	isoDateRe      = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	slashDateRe    = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	monthDayYearRe = regexp.MustCompile(`\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2}),?\s+(\d{4})\b`)
	monthYearRe    = regexp.MustCompile(`\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{4})\b`)

	dollarRe    = regexp.MustCompile(`\$[\d,]+(\.\d{2})?`)
	bigNumberRe = regexp.MustCompile(`\b\d{2,}\b`)

	factKeywords = []string{
		"plaintiff", "defendant", "contract", "agreement", "witness",
		"signed", "executed", "breach", "damages", "injury", "accident",
		"terminated", "employed", "paid", "owed",
	}

	highImportanceKeywords = []string{"trial", "hearing", "deadline", "statute of limitations", "verdict", "judgment"}
	lowImportanceKeywords  = []string{"correspondence", "email", "letter", "phone call", "memo"}

	favorableKeywords = []string{
		"in favor of", "granted", "prevailed", "dismissed the claim against",
		"no liability", "complied with", "admitted fault", "supports our",
		"corroborates", "favorable",
	}
	adverseKeywords = []string{
		"against", "denied", "breached", "failed to", "liable",
		"negligent", "violation", "sanction", "contradicts", "adverse",
		"damaging", "missed the deadline",
	}
	actionKeywords = []string{
		"must", "shall", "required to", "no later than", "respond by",
		"due by", "file by", "deadline",
	}

	eventTypeKeywords = map[docModel.EventType][]string{
		docModel.EventFiling:   {"filed", "motion", "complaint", "petition", "brief"},
		docModel.EventHearing:  {"hearing", "trial", "oral argument", "deposition"},
		docModel.EventDeadline: {"deadline", "due", "no later than", "expires"},
		docModel.EventMeeting:  {"meeting", "conference", "mediation", "negotiation"},
		docModel.EventIncident: {"accident", "incident", "injury", "occurred", "collision"},
	}
)

func (Heuristic) Analyze(text string) *docModel.AnalysisResult {
	sentences := SplitSentences(text)

	result := &docModel.AnalysisResult{
		Provider: "heuristic",
		Summary:  summarize(sentences),
	}

	var facts, favorable, adverse, actions []string
	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)

		if isFactCandidate(sentence, lower) {
			facts = append(facts, sentence)
		}
		if containsAny(lower, favorableKeywords) {
			favorable = append(favorable, sentence)
		}
		if containsAny(lower, adverseKeywords) {
			adverse = append(adverse, sentence)
		}
		if containsAny(lower, actionKeywords) {
			actions = append(actions, sentence)
		}

		if event, ok := timelineCandidate(sentence, lower); ok {
			result.TimelineEvents = append(result.TimelineEvents, event)
		}
	}

	result.KeyFacts = dedupeCap(facts, config.AnalysisKeyFacts)
	result.Favorable = dedupeCap(favorable, config.AnalysisFindings)
	result.Adverse = dedupeCap(adverse, config.AnalysisFindings)
	result.ActionItems = dedupeCap(actions, config.AnalysisActions)
	if len(result.TimelineEvents) > config.AnalysisEvents {
		result.TimelineEvents = result.TimelineEvents[:config.AnalysisEvents]
	}
	return result
}

// SplitSentences scans for '.', '!' or '?' followed by whitespace or end of
// input. Shared with the prompt builder which needs the same boundaries.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch != '.' && ch != '!' && ch != '?' {
			continue
		}
		if i+1 < len(text) {
			next := text[i+1]
			if next != ' ' && next != '\n' && next != '\r' && next != '\t' {
				continue
			}
		}
		s := strings.TrimSpace(text[start : i+1])
		if s != "" {
			sentences = append(sentences, s)
		}
		start = i + 1
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// dateToken returns the first recognizable date token of the sentence,
// normalized, with the raw match. Pattern priority is fixed so repeated
// runs always pick the same token.
func dateToken(sentence string) (normalized string, raw string, ok bool) {
	if m := isoDateRe.FindString(sentence); m != "" {
		return normalizeISO(m), m, true
	}
	if m := slashDateRe.FindStringSubmatch(sentence); m != nil {
		return normalizeSlash(m[1], m[2], m[3]), m[0], true
	}
	if m := monthDayYearRe.FindStringSubmatch(sentence); m != nil {
		return normalizeMonthName(m[1], m[2], m[3]), m[0], true
	}
	if m := monthYearRe.FindStringSubmatch(sentence); m != nil {
		return normalizeMonthName(m[1], "1", m[2]), m[0], true
	}
	return "", "", false
}

func timelineCandidate(sentence, lower string) (docModel.TimelineEvent, bool) {
	date, raw, ok := dateToken(sentence)
	if !ok {
		return docModel.TimelineEvent{}, false
	}

	description := sentence
	if len(description) > config.DescriptionLimit {
		description = description[:config.DescriptionLimit]
	}

	return docModel.TimelineEvent{
		Date:        date,
		Title:       eventTitle(sentence, raw),
		Description: description,
		Importance:  inferImportance(lower),
		EventType:   inferEventType(lower),
	}, true
}

// eventTitle takes the first few non-date words of the sentence and
// capitalizes them.
func eventTitle(sentence, rawDate string) string {
	withoutDate := strings.ReplaceAll(sentence, rawDate, "")
	words := strings.Fields(withoutDate)
	if len(words) > config.TimelineTitleWords {
		words = words[:config.TimelineTitleWords]
	}
	title := strings.TrimRight(strings.Join(words, " "), ".,;: ")
	if title == "" {
		return "Dated event"
	}
	return strings.ToUpper(title[:1]) + title[1:]
}

func inferImportance(lower string) docModel.Importance {
	if containsAny(lower, highImportanceKeywords) {
		return docModel.ImportanceHigh
	}
	if containsAny(lower, lowImportanceKeywords) {
		return docModel.ImportanceLow
	}
	return docModel.ImportanceMedium
}

func inferEventType(lower string) docModel.EventType {
	//hearing beats filing when both match ("motion hearing"), so check in
	//a fixed order rather than ranging over the map
	for _, et := range []docModel.EventType{
		docModel.EventHearing, docModel.EventDeadline, docModel.EventFiling,
		docModel.EventMeeting, docModel.EventIncident,
	} {
		if containsAny(lower, eventTypeKeywords[et]) {
			return et
		}
	}
	return docModel.EventOther
}

func isFactCandidate(sentence, lower string) bool {
	if _, _, ok := dateToken(sentence); ok {
		return true
	}
	if dollarRe.MatchString(sentence) || bigNumberRe.MatchString(sentence) {
		return true
	}
	return containsAny(lower, factKeywords)
}

func summarize(sentences []string) string {
	n := len(sentences)
	if n == 0 {
		return ""
	}
	if n > config.SummarySentences {
		n = config.SummarySentences
	}
	picked := dedupeCap(sentences[:n], config.SummarySentences)
	return strings.Join(picked, " ")
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// dedupeCap removes case-insensitive duplicates preserving first-seen
// order, then caps the list length.
func dedupeCap(items []string, limit int) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(item))
		if len(out) == limit {
			break
		}
	}
	return out
}
