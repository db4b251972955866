package analysis

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/avemuri/CaseDocAPI/internal/domain/docModel"
)

const sampleContract = `This Agreement was signed by the plaintiff on June 3, 2022. ` +
	`Defendant agreed to pay $45,000.00 under the contract. ` +
	`The hearing is scheduled for 2023-01-15 before Judge Moreno. ` +
	`Defendant failed to deliver the goods on time. ` +
	`The motion was granted in favor of the plaintiff. ` +
	`Counsel must respond by March 10, 2023.`

func TestHeuristic_Deterministic(t *testing.T) {
	h := Heuristic{}
	first := h.Analyze(sampleContract)
	second := h.Analyze(sampleContract)
	if !reflect.DeepEqual(first, second) {
		t.Error("same input produced different analyses")
	}
}

func TestHeuristic_Summary(t *testing.T) {
	result := Heuristic{}.Analyze(sampleContract)
	want := "This Agreement was signed by the plaintiff on June 3, 2022. " +
		"Defendant agreed to pay $45,000.00 under the contract."
	if result.Summary != want {
		t.Errorf("summary:\n got %q\nwant %q", result.Summary, want)
	}
	if result.Provider != "heuristic" {
		t.Errorf("provider %q", result.Provider)
	}
}

func TestHeuristic_TimelineEvents(t *testing.T) {
	result := Heuristic{}.Analyze(sampleContract)

	if len(result.TimelineEvents) != 3 {
		t.Fatalf("expected 3 dated events, got %d", len(result.TimelineEvents))
	}

	first := result.TimelineEvents[0]
	if first.Date != "2022-06-03" {
		t.Errorf("month-name date not normalized: %q", first.Date)
	}
	if strings.Contains(first.Title, "June") {
		t.Errorf("title should not contain the date token: %q", first.Title)
	}
	if first.Title == "" || first.Title[0] < 'A' || first.Title[0] > 'Z' {
		t.Errorf("title not capitalized: %q", first.Title)
	}

	hearing := result.TimelineEvents[1]
	if hearing.Date != "2023-01-15" {
		t.Errorf("ISO date changed: %q", hearing.Date)
	}
	if hearing.EventType != docModel.EventHearing {
		t.Errorf("expected hearing type, got %q", hearing.EventType)
	}
	if hearing.Importance != docModel.ImportanceHigh {
		t.Errorf("a hearing should rank high, got %q", hearing.Importance)
	}

	deadline := result.TimelineEvents[2]
	if deadline.Date != "2023-03-10" {
		t.Errorf("deadline date: %q", deadline.Date)
	}
}

func TestHeuristic_Findings(t *testing.T) {
	result := Heuristic{}.Analyze(sampleContract)

	if !containsSubstring(result.Favorable, "granted in favor of") {
		t.Errorf("favorable finding missed: %v", result.Favorable)
	}
	if !containsSubstring(result.Adverse, "failed to deliver") {
		t.Errorf("adverse finding missed: %v", result.Adverse)
	}
	if !containsSubstring(result.ActionItems, "must respond by") {
		t.Errorf("action item missed: %v", result.ActionItems)
	}
	if len(result.KeyFacts) == 0 {
		t.Error("no key facts extracted")
	}
}

func TestHeuristic_EmptyText(t *testing.T) {
	result := Heuristic{}.Analyze("")
	if result == nil {
		t.Fatal("nil result")
	}
	if result.Summary != "" || len(result.TimelineEvents) != 0 {
		t.Errorf("empty input should produce an empty shape: %+v", result)
	}
}

func TestHeuristic_DedupesRepeatedSentences(t *testing.T) {
	text := strings.Repeat("The plaintiff signed the contract. ", 30)
	result := Heuristic{}.Analyze(text)
	if len(result.KeyFacts) != 1 {
		t.Errorf("duplicate sentences should collapse to one fact, got %d", len(result.KeyFacts))
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"One. Two! Three?", []string{"One.", "Two!", "Three?"}},
		{"No terminator at all", []string{"No terminator at all"}},
		{"Amount was $3.50 due Friday. Next sentence.", []string{"Amount was $3.50 due Friday.", "Next sentence."}},
		{"", nil},
	}
	for _, tt := range tests {
		if got := SplitSentences(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitSentences(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	now := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		in   string
		want string
	}{
		{"2023-04-09", "2023-04-09"},
		{"6/3/2022", "2022-06-03"},
		{"12/31/1999", "1999-12-31"},
		{"June 3, 2022", "2022-06-03"},
		{"June 3 2022", "2022-06-03"},
		{"March 2021", "2021-03-01"},
		{"2021-03", "2021-03-01"},
		{"2021", "2021-01-01"},
		{"not a date", "2024-07-15"},
		{"", "2024-07-15"},
	}
	for _, tt := range tests {
		if got := NormalizeDate(tt.in, now); got != tt.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func containsSubstring(items []string, sub string) bool {
	for _, item := range items {
		if strings.Contains(strings.ToLower(item), sub) {
			return true
		}
	}
	return false
}
