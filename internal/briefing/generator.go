// Package briefing orchestrates briefing generation: prompt building, the
// provider call, JSON recovery, image annotation, and persistence of the
// result. Generation never hard-fails on bad model output; quality degrades
// through parsed -> pattern-recovered -> unavailable instead.
package briefing

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"stanbrief/internal/core"
	"stanbrief/internal/images"
	"stanbrief/internal/llm"
	"stanbrief/internal/logger"
	"stanbrief/internal/prompt"
	"stanbrief/internal/recovery"
)

// Outcome reports how a briefing's content was obtained.
type Outcome int

const (
	// OutcomeParsed means the model's JSON parsed (possibly after repair).
	OutcomeParsed Outcome = iota
	// OutcomeDegraded means JSON recovery failed and topics were recovered
	// by pattern matching or naive splitting. A quality signal, not an error.
	OutcomeDegraded
	// OutcomeUnavailable means the provider call itself failed and the
	// content is a synthetic placeholder topic.
	OutcomeUnavailable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeParsed:
		return "parsed"
	case OutcomeDegraded:
		return "degraded"
	case OutcomeUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// Settings control generation behavior for a Generator.
type Settings struct {
	Temperature    float32 // Sampling temperature passed to the provider
	MaxTokens      int32   // Token cap passed to the provider
	Grounding      bool    // Attach web search grounding (Gemini)
	FallbackBudget int     // Character budget for split-recovered topics
}

// Generator produces BriefingContent for a single stan.
type Generator struct {
	provider llm.Provider
	settings Settings
	now      func() time.Time
}

// NewGenerator creates a Generator backed by the given provider.
func NewGenerator(provider llm.Provider, settings Settings) *Generator {
	return &Generator{
		provider: provider,
		settings: settings,
		now:      time.Now,
	}
}

// Generate builds a briefing for the stan. It always returns usable
// content: provider failures become a synthetic "Daily Update" topic and
// unparseable model output degrades to pattern-recovered topics, so batch
// callers never need an error path here.
func (g *Generator) Generate(ctx context.Context, stan core.Stan, category core.Category, cust core.PromptCustomization) (*core.BriefingContent, Outcome) {
	p := prompt.Build(stan, category, cust, g.now())

	result, err := g.provider.Generate(ctx, p, llm.Options{
		Temperature: g.settings.Temperature,
		MaxTokens:   g.settings.MaxTokens,
		Grounding:   g.settings.Grounding,
	})
	if err != nil {
		logger.Error("Provider call failed", err, "stan", stan.Name, "provider", g.provider.Name())
		return unavailableContent(stan.Name), OutcomeUnavailable
	}

	outcome := OutcomeParsed
	topics, searchSources, err := recovery.ParseTopics(result.Text)
	if err != nil {
		logger.Warn("JSON recovery failed, using fallback extraction",
			"stan", stan.Name, "provider", g.provider.Name(), "reason", err.Error())
		topics = recovery.FallbackTopics(result.Text, g.settings.FallbackBudget)
		searchSources = nil
		outcome = OutcomeDegraded
	}

	// Annotate each topic's sources with derived imagery, collecting every
	// source along the way for the aggregate view.
	var allSources []string
	for i := range topics {
		if len(topics[i].Sources) > 0 {
			topics[i].Images = images.FromSources(topics[i].Sources)
			allSources = append(allSources, topics[i].Sources...)
		}
	}

	if len(searchSources) == 0 {
		searchSources = allSources
	}
	if len(searchSources) == 0 {
		searchSources = fallbackSearchSources(stan.Name, g.now())
	}

	return &core.BriefingContent{
		Topics:        topics,
		SearchSources: searchSources,
		Images:        images.FromSources(allSources),
	}, outcome
}

// unavailableContent is the placeholder briefing stored when the provider
// call failed outright, so readers see a dated entry rather than a gap.
func unavailableContent(stanName string) *core.BriefingContent {
	return &core.BriefingContent{
		Topics: []core.Topic{{
			Title:   "Daily Update",
			Content: fmt.Sprintf("Unable to generate detailed briefing for %s today. Please check back later for updates.", stanName),
			Sources: []string{},
		}},
		SearchSources: []string{},
		Images:        []core.Image{},
	}
}

// fallbackSearchSources fabricates search links when the model reported no
// sources, so the stored briefing always points somewhere.
func fallbackSearchSources(stanName string, now time.Time) []string {
	return []string{
		"https://www.google.com/search?q=" + url.QueryEscape(stanName+" latest news today"),
		"https://www.google.com/search?q=" + url.QueryEscape(fmt.Sprintf("%s recent updates %d", stanName, now.UTC().Year())),
	}
}
