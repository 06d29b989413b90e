package briefing

import (
	"context"
	"errors"
	"strings"
	"testing"

	"stanbrief/internal/core"
	"stanbrief/internal/llm"
)

// fakeProvider returns a canned completion or error.
type fakeProvider struct {
	text string
	err  error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts llm.Options) (*llm.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Result{Text: f.text}, nil
}

func testStan() core.Stan {
	return core.Stan{ID: "s1", Name: "Test Artist", UserID: "u1"}
}

func testCategory() core.Category {
	return core.Category{ID: "c1", Name: "Music"}
}

func generate(t *testing.T, provider llm.Provider) (*core.BriefingContent, Outcome) {
	t.Helper()
	g := NewGenerator(provider, Settings{})
	cust := core.DefaultCustomization("u1", "s1")
	content, outcome := g.Generate(context.Background(), testStan(), testCategory(), cust)
	if content == nil {
		t.Fatal("Expected content, got nil")
	}
	return content, outcome
}

func TestGenerateParsedWithImages(t *testing.T) {
	text := "```json\n" + `{
  "topics": [
    {"title": "Recent News & Activities", "content": "New video out.", "sources": ["https://youtu.be/xyz"]}
  ],
  "searchSources": ["https://youtu.be/xyz", "https://example.com/article"]
}` + "\n```"

	content, outcome := generate(t, &fakeProvider{text: text})

	if outcome != OutcomeParsed {
		t.Fatalf("Expected parsed outcome, got %s", outcome)
	}
	if len(content.Topics) != 1 {
		t.Fatalf("Expected 1 topic, got %d", len(content.Topics))
	}

	topic := content.Topics[0]
	if len(topic.Images) != 1 {
		t.Fatalf("Expected 1 derived image, got %d", len(topic.Images))
	}
	if !strings.Contains(topic.Images[0].URL, "xyz") {
		t.Errorf("Expected thumbnail URL to carry the video ID, got %q", topic.Images[0].URL)
	}
	if len(content.SearchSources) != 2 {
		t.Errorf("Expected model-reported search sources kept, got %v", content.SearchSources)
	}
}

func TestGenerateTruncatedResponseRecovers(t *testing.T) {
	// Token-limit truncation: the complete first topic survives, the partial
	// second one is dropped, and the outcome is still a clean parse.
	text := `{"topics": [{"title": "A", "content": "first", "sources": []}, {"title": "B", "content": "cut off mid-str`

	content, outcome := generate(t, &fakeProvider{text: text})

	if outcome != OutcomeParsed {
		t.Fatalf("Expected parsed outcome after repair, got %s", outcome)
	}
	if len(content.Topics) != 1 {
		t.Fatalf("Expected 1 recovered topic, got %d", len(content.Topics))
	}
	if content.Topics[0].Title != "A" {
		t.Errorf("Expected complete topic kept, got %q", content.Topics[0].Title)
	}
}

func TestGenerateDegradesToSplitFallback(t *testing.T) {
	text := "1. The artist released a new single this week to strong reviews.\n" +
		"2. Fans flooded social media with reaction videos and praise.\n" +
		"3. A world tour announcement is expected at the end of the month."

	content, outcome := generate(t, &fakeProvider{text: text})

	if outcome != OutcomeDegraded {
		t.Fatalf("Expected degraded outcome, got %s", outcome)
	}
	if len(content.Topics) != 3 {
		t.Fatalf("Expected 3 fallback topics, got %d", len(content.Topics))
	}
	for i, topic := range content.Topics {
		want := "Real-Time Update " + string(rune('1'+i))
		if topic.Title != want {
			t.Errorf("Expected title %q, got %q", want, topic.Title)
		}
	}
	// No sources anywhere: synthetic search links fill the gap.
	if len(content.SearchSources) == 0 {
		t.Error("Expected fallback search sources, got none")
	}
	for _, src := range content.SearchSources {
		if !strings.Contains(src, "google.com/search") {
			t.Errorf("Expected synthetic search link, got %q", src)
		}
		if !strings.Contains(src, "Test+Artist") {
			t.Errorf("Expected stan name in search link, got %q", src)
		}
	}
}

func TestGenerateProviderFailure(t *testing.T) {
	content, outcome := generate(t, &fakeProvider{err: errors.New("rate limited")})

	if outcome != OutcomeUnavailable {
		t.Fatalf("Expected unavailable outcome, got %s", outcome)
	}
	if len(content.Topics) != 1 {
		t.Fatalf("Expected 1 placeholder topic, got %d", len(content.Topics))
	}
	if content.Topics[0].Title != "Daily Update" {
		t.Errorf("Expected placeholder title, got %q", content.Topics[0].Title)
	}
	if !strings.Contains(content.Topics[0].Content, "Test Artist") {
		t.Errorf("Expected stan name in placeholder content, got %q", content.Topics[0].Content)
	}
}

func TestGenerateAggregatesTopicSources(t *testing.T) {
	// Model reported no top-level searchSources; the per-topic sources fill
	// in the aggregate view.
	text := `{"topics":[{"title":"A","content":"a","sources":["https://one.example"]},{"title":"B","content":"b","sources":["https://two.example"]}],"searchSources":[]}`

	content, outcome := generate(t, &fakeProvider{text: text})

	if outcome != OutcomeParsed {
		t.Fatalf("Expected parsed outcome, got %s", outcome)
	}
	if len(content.SearchSources) != 2 {
		t.Fatalf("Expected aggregated sources, got %v", content.SearchSources)
	}
}

func TestOutcomeString(t *testing.T) {
	testCases := []struct {
		outcome Outcome
		want    string
	}{
		{OutcomeParsed, "parsed"},
		{OutcomeDegraded, "degraded"},
		{OutcomeUnavailable, "unavailable"},
		{Outcome(99), "unknown"},
	}
	for _, tc := range testCases {
		if got := tc.outcome.String(); got != tc.want {
			t.Errorf("Expected %q, got %q", tc.want, got)
		}
	}
}
