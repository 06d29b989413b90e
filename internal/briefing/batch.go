package briefing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"stanbrief/internal/core"
	"stanbrief/internal/logger"
)

// StanSource is the lookup surface the batch runner needs. The store
// satisfies it.
type StanSource interface {
	ListActiveStans(ctx context.Context) ([]core.Stan, error)
	GetCategory(ctx context.Context, id string) (*core.Category, error)
	GetCustomization(ctx context.Context, userID, stanID string) (*core.PromptCustomization, error)
}

// BriefingSink persists generated briefings. The store satisfies it.
type BriefingSink interface {
	UpsertBriefing(ctx context.Context, b core.Briefing) error
}

// Pacing controls how a batch run spreads its provider calls. The delays
// exist to stay under provider rate limits; this is not a backoff or
// scheduling algorithm.
type Pacing struct {
	BatchSize  int           // Stans per batch
	StanDelay  time.Duration // Sleep between successive stans
	BatchPause time.Duration // Extra pause between batches
}

// BatchError records a single stan's failure during a batch run.
type BatchError struct {
	Stan  string `json:"stan"`
	Error string `json:"error"`
}

// Report summarizes a batch run. Briefings written before a mid-run failure
// stay written; each stan is persisted individually.
type Report struct {
	Date      string       `json:"date"`
	Generated []string     `json:"generated"`
	Total     int          `json:"total"`
	Errors    []BatchError `json:"errors,omitempty"`
}

// BatchRunner regenerates briefings for every active stan, one at a time.
type BatchRunner struct {
	generator *Generator
	source    StanSource
	sink      BriefingSink
	pacing    Pacing
	now       func() time.Time
}

// NewBatchRunner creates a BatchRunner.
func NewBatchRunner(generator *Generator, source StanSource, sink BriefingSink, pacing Pacing) *BatchRunner {
	if pacing.BatchSize <= 0 {
		pacing.BatchSize = 5
	}
	return &BatchRunner{
		generator: generator,
		source:    source,
		sink:      sink,
		pacing:    pacing,
		now:       time.Now,
	}
}

// Run generates and persists a briefing for every active stan. Provider and
// recovery failures for one stan never abort the run; persistence failures
// are logged and that stan is skipped. The context is checked between
// stans, so cancellation stops the run at the next boundary with partial
// progress preserved.
func (r *BatchRunner) Run(ctx context.Context) (*Report, error) {
	stans, err := r.source.ListActiveStans(ctx)
	if err != nil {
		return nil, err
	}

	date := core.DateKey(r.now())
	report := &Report{Date: date, Total: len(stans)}
	if len(stans) == 0 {
		logger.Warn("No active stans found to generate briefings for")
		return report, nil
	}

	batches := chunk(stans, r.pacing.BatchSize)
	logger.Info("Starting batch generation",
		"stans", len(stans), "batches", len(batches), "date", date)

	for bi, batch := range batches {
		for _, stan := range batch {
			if err := ctx.Err(); err != nil {
				return report, err
			}

			if err := r.generateOne(ctx, stan, date); err != nil {
				logger.Error("Failed to generate briefing", err, "stan", stan.Name)
				report.Errors = append(report.Errors, BatchError{Stan: stan.Name, Error: err.Error()})
			} else {
				report.Generated = append(report.Generated, stan.Name)
			}

			if r.pacing.StanDelay > 0 {
				sleepCtx(ctx, r.pacing.StanDelay)
			}
		}
		if bi < len(batches)-1 && r.pacing.BatchPause > 0 {
			sleepCtx(ctx, r.pacing.BatchPause)
		}
	}

	logger.Info("Batch generation finished",
		"generated", len(report.Generated), "errors", len(report.Errors), "date", date)
	return report, nil
}

// GenerateAndStore produces and persists a briefing for a single stan.
// Also used by the HTTP generate endpoint and the on-demand worker task.
func (r *BatchRunner) GenerateAndStore(ctx context.Context, stan core.Stan, date string) (*core.Briefing, error) {
	category := core.Category{Name: "General"}
	if stan.CategoryID != "" {
		if cat, err := r.source.GetCategory(ctx, stan.CategoryID); err != nil {
			logger.Warn("Category lookup failed, using default", "stan", stan.Name, "error", err.Error())
		} else if cat != nil {
			category = *cat
		}
	}

	cust, err := r.source.GetCustomization(ctx, stan.UserID, stan.ID)
	if err != nil {
		logger.Warn("Customization lookup failed, using defaults", "stan", stan.Name, "error", err.Error())
	}
	if cust == nil {
		def := core.DefaultCustomization(stan.UserID, stan.ID)
		cust = &def
	}

	content, outcome := r.generator.Generate(ctx, stan, category, *cust)

	raw, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}

	b := core.Briefing{
		ID:            uuid.New().String(),
		StanID:        stan.ID,
		UserID:        stan.UserID,
		Content:       string(raw),
		Topics:        content.Topics,
		SearchSources: content.SearchSources,
		Images:        content.Images,
		AIGenerated:   true,
		Degraded:      outcome != OutcomeParsed,
		Date:          date,
		IsRead:        false,
		CreatedAt:     r.now().UTC(),
	}

	if err := r.sink.UpsertBriefing(ctx, b); err != nil {
		return nil, err
	}

	logger.Info("Briefing stored", "stan", stan.Name, "date", date, "outcome", outcome.String(), "topics", len(content.Topics))
	return &b, nil
}

func (r *BatchRunner) generateOne(ctx context.Context, stan core.Stan, date string) error {
	_, err := r.GenerateAndStore(ctx, stan, date)
	return err
}

func chunk(stans []core.Stan, size int) [][]core.Stan {
	var batches [][]core.Stan
	for i := 0; i < len(stans); i += size {
		end := i + size
		if end > len(stans) {
			end = len(stans)
		}
		batches = append(batches, stans[i:end])
	}
	return batches
}

// sleepCtx sleeps for d or until the context is done, whichever is first.
func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
