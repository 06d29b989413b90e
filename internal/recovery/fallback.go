package recovery

import (
	"fmt"
	"regexp"
	"strings"

	"stanbrief/internal/core"
)

// DefaultFallbackBudget is the per-topic character budget applied to
// content recovered by naive splitting.
const DefaultFallbackBudget = 200

// Provenance suffixes distinguish recovered content from parsed content in
// the persisted briefing.
const (
	patternSuffix = " (Generated from real-time web search)"
	splitSuffix   = "... (Generated from live web search)"
)

// topicPatterns recover individual topics from a response whose JSON could
// not be repaired but that still carries the asked-for title/content pairs
// as text. The titles mirror the schema embedded in the default prompt.
var topicPatterns = []struct {
	title   string
	pattern *regexp.Regexp
}{
	{"Recent News & Activities", regexp.MustCompile(`"title"\s*:\s*"Recent News[^"]*"[\s\S]*?"content"\s*:\s*"([^"]*)"`)},
	{"Social Media & Fan Reactions", regexp.MustCompile(`"title"\s*:\s*"Social Media[^"]*"[\s\S]*?"content"\s*:\s*"([^"]*)"`)},
	{"Upcoming Events & Releases", regexp.MustCompile(`"title"\s*:\s*"Upcoming[^"]*"[\s\S]*?"content"\s*:\s*"([^"]*)"`)},
}

var (
	numberedMarkerRe = regexp.MustCompile(`\d+\.\s*`)
	escapedWSRe      = regexp.MustCompile(`\\n|\s+`)
)

// FallbackTopics recovers topics from raw text when JSON parsing failed
// entirely. It is a total function: for any non-empty input it returns at
// least one topic with a non-empty title and content, so callers never have
// to handle "no briefing at all" beyond upstream provider errors. budget
// caps the content length of split-derived topics; <= 0 uses
// DefaultFallbackBudget.
func FallbackTopics(raw string, budget int) []core.Topic {
	if budget <= 0 {
		budget = DefaultFallbackBudget
	}

	var topics []core.Topic
	for _, tp := range topicPatterns {
		if m := tp.pattern.FindStringSubmatch(raw); m != nil {
			content := strings.TrimSpace(escapedWSRe.ReplaceAllString(m[1], " "))
			if content == "" {
				continue
			}
			topics = append(topics, core.Topic{
				Title:   tp.title,
				Content: content + patternSuffix,
				Sources: []string{},
			})
		}
	}
	if len(topics) > 0 {
		return topics
	}

	// No structured titles survived: split on numbered-list markers and
	// synthesize generic topics.
	sections := numberedMarkerRe.Split(raw, -1)
	n := 0
	for _, section := range sections {
		section = strings.TrimSpace(section)
		if len(section) <= 10 {
			continue
		}
		n++
		topics = append(topics, core.Topic{
			Title:   fmt.Sprintf("Real-Time Update %d", n),
			Content: truncate(section, budget) + splitSuffix,
			Sources: []string{},
		})
	}
	if len(topics) > 0 {
		return topics
	}

	// Last resort: the whole response as a single blob.
	return []core.Topic{{
		Title:   "Real-Time Update",
		Content: truncate(strings.TrimSpace(raw), budget) + splitSuffix,
		Sources: []string{},
	}}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
