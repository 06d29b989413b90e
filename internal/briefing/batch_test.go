package briefing

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"stanbrief/internal/core"
)

// fakeStore implements StanSource and BriefingSink in memory.
type fakeStore struct {
	stans      []core.Stan
	categories map[string]core.Category
	upserted   []core.Briefing
	upsertErr  error
}

func (f *fakeStore) ListActiveStans(ctx context.Context) ([]core.Stan, error) {
	return f.stans, nil
}

func (f *fakeStore) GetCategory(ctx context.Context, id string) (*core.Category, error) {
	if cat, ok := f.categories[id]; ok {
		return &cat, nil
	}
	return nil, nil
}

func (f *fakeStore) GetCustomization(ctx context.Context, userID, stanID string) (*core.PromptCustomization, error) {
	return nil, nil
}

func (f *fakeStore) UpsertBriefing(ctx context.Context, b core.Briefing) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, b)
	return nil
}

func newTestRunner(store *fakeStore, provider *fakeProvider) *BatchRunner {
	g := NewGenerator(provider, Settings{})
	return NewBatchRunner(g, store, store, Pacing{BatchSize: 2})
}

const validCompletion = `{"topics":[{"title":"A","content":"a","sources":[]}],"searchSources":["https://example.com"]}`

func TestBatchRunGeneratesAllStans(t *testing.T) {
	store := &fakeStore{
		stans: []core.Stan{
			{ID: "s1", Name: "One", UserID: "u1"},
			{ID: "s2", Name: "Two", UserID: "u1"},
			{ID: "s3", Name: "Three", UserID: "u2"},
		},
	}
	runner := newTestRunner(store, &fakeProvider{text: validCompletion})

	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if report.Total != 3 {
		t.Errorf("Expected total 3, got %d", report.Total)
	}
	if len(report.Generated) != 3 {
		t.Errorf("Expected 3 generated, got %d", len(report.Generated))
	}
	if len(store.upserted) != 3 {
		t.Errorf("Expected 3 briefings stored, got %d", len(store.upserted))
	}
	if report.Date != core.DateKey(time.Now()) {
		t.Errorf("Expected today's date key, got %q", report.Date)
	}
}

func TestBatchRunNoActiveStans(t *testing.T) {
	store := &fakeStore{}
	runner := newTestRunner(store, &fakeProvider{text: validCompletion})

	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if report.Total != 0 || len(report.Generated) != 0 {
		t.Errorf("Expected empty report, got %+v", report)
	}
}

func TestBatchRunPersistenceFailureDoesNotAbort(t *testing.T) {
	store := &fakeStore{
		stans:     []core.Stan{{ID: "s1", Name: "One", UserID: "u1"}, {ID: "s2", Name: "Two", UserID: "u1"}},
		upsertErr: errors.New("db down"),
	}
	runner := newTestRunner(store, &fakeProvider{text: validCompletion})

	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Expected run to finish despite failures, got %v", err)
	}
	if len(report.Errors) != 2 {
		t.Fatalf("Expected 2 recorded errors, got %d", len(report.Errors))
	}
	if report.Errors[0].Stan != "One" {
		t.Errorf("Expected stan name in error record, got %q", report.Errors[0].Stan)
	}
}

func TestBatchRunProviderFailureStillStores(t *testing.T) {
	// A provider outage degrades to placeholder content; the briefing row is
	// written regardless so readers see a dated entry.
	store := &fakeStore{stans: []core.Stan{{ID: "s1", Name: "One", UserID: "u1"}}}
	runner := newTestRunner(store, &fakeProvider{err: errors.New("outage")})

	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(report.Generated) != 1 {
		t.Fatalf("Expected placeholder briefing counted as generated, got %+v", report)
	}
	if len(store.upserted) != 1 {
		t.Fatalf("Expected briefing stored, got %d", len(store.upserted))
	}
	if !store.upserted[0].Degraded {
		t.Error("Expected placeholder briefing flagged degraded")
	}
}

func TestBatchRunCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := &fakeStore{stans: []core.Stan{{ID: "s1", Name: "One", UserID: "u1"}}}
	runner := newTestRunner(store, &fakeProvider{text: validCompletion})

	_, err := runner.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if len(store.upserted) != 0 {
		t.Errorf("Expected no briefings after immediate cancellation, got %d", len(store.upserted))
	}
}

func TestGenerateAndStoreBriefingShape(t *testing.T) {
	store := &fakeStore{
		stans:      []core.Stan{{ID: "s1", Name: "One", UserID: "u1", CategoryID: "c1"}},
		categories: map[string]core.Category{"c1": {ID: "c1", Name: "Music"}},
	}
	runner := newTestRunner(store, &fakeProvider{text: validCompletion})

	b, err := runner.GenerateAndStore(context.Background(), store.stans[0], "2026-08-30")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if b.ID == "" {
		t.Error("Expected generated briefing ID")
	}
	if b.StanID != "s1" || b.UserID != "u1" {
		t.Errorf("Expected ownership fields set, got %+v", b)
	}
	if b.Date != "2026-08-30" {
		t.Errorf("Expected date key preserved, got %q", b.Date)
	}
	if !b.AIGenerated {
		t.Error("Expected ai_generated flag set")
	}
	if b.Degraded {
		t.Error("Expected clean parse not flagged degraded")
	}
	if b.IsRead {
		t.Error("Expected new briefing unread")
	}

	// Content mirrors the structured fields.
	var content core.BriefingContent
	if err := json.Unmarshal([]byte(b.Content), &content); err != nil {
		t.Fatalf("Expected content to be valid JSON: %v", err)
	}
	if len(content.Topics) != len(b.Topics) {
		t.Errorf("Expected content topics to match row topics, got %d vs %d", len(content.Topics), len(b.Topics))
	}
}

func TestChunk(t *testing.T) {
	stans := make([]core.Stan, 7)
	batches := chunk(stans, 3)
	if len(batches) != 3 {
		t.Fatalf("Expected 3 batches, got %d", len(batches))
	}
	if len(batches[0]) != 3 || len(batches[2]) != 1 {
		t.Errorf("Expected sizes 3,3,1, got %d,%d,%d", len(batches[0]), len(batches[1]), len(batches[2]))
	}
}
