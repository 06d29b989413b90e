// Package recovery turns free-text LLM completions into structured briefing
// topics. Models are asked for pure JSON but routinely wrap it in prose or
// markdown fences, or truncate it at the token limit, so extraction and
// repair are best-effort textual heuristics with a total fallback rather
// than a strict parse.
package recovery

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"stanbrief/internal/core"
)

// ErrNoCandidate means the raw text contains no JSON object at all.
var ErrNoCandidate = errors.New("no JSON candidate found in response")

// ErrUnparseable means a candidate was found but could not be repaired into
// valid JSON; callers should degrade to FallbackTopics.
var ErrUnparseable = errors.New("candidate JSON could not be repaired")

var fencedBlockRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// ExtractCandidate locates the JSON substring inside a raw completion.
// A fenced ```json block wins; otherwise the span from the first '{' to the
// last '}' is taken. This assumes the model emitted at most one object and
// that prose outside it contains no spurious braces.
func ExtractCandidate(raw string) (string, error) {
	if m := fencedBlockRe.FindStringSubmatch(raw); len(m) > 1 && strings.Contains(m[1], "{") {
		return strings.TrimSpace(m[1]), nil
	}

	start := strings.Index(raw, "{")
	if start == -1 {
		return "", ErrNoCandidate
	}
	end := strings.LastIndex(raw, "}")
	if end > start {
		return raw[start : end+1], nil
	}
	// Opening brace with no closing brace at all: hand the tail to the
	// repairer, which can re-close it.
	return raw[start:], nil
}

// parsedBriefing is the wire shape the prompt asks the model for.
type parsedBriefing struct {
	Topics        []core.Topic `json:"topics"`
	SearchSources []string     `json:"searchSources"`
}

// ParseTopics runs extract -> repair -> parse and returns the structured
// topics plus the model's reported search sources. It fails with
// ErrNoCandidate or ErrUnparseable; both mean the caller should fall back.
func ParseTopics(raw string) ([]core.Topic, []string, error) {
	candidate, err := ExtractCandidate(raw)
	if err != nil {
		return nil, nil, err
	}

	repaired := Repair(candidate)

	var parsed parsedBriefing
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		return nil, nil, ErrUnparseable
	}
	if len(parsed.Topics) == 0 {
		return nil, nil, ErrUnparseable
	}
	return parsed.Topics, parsed.SearchSources, nil
}
