package recovery

import (
	"encoding/json"
	"testing"
)

func TestRepairLeavesCompactValidJSONAlone(t *testing.T) {
	input := `{"topics":[{"title":"T","content":"c","sources":["https://example.com/watch?v=abc"]}],"searchSources":["https://example.com/a"]}`

	got := Repair(input)
	if got != input {
		t.Errorf("Expected valid JSON to pass through unchanged, got %q", got)
	}
}

func TestRepairTrailingCommas(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"object trailing comma", `{"a": 1,}`},
		{"array trailing comma", `{"a": [1, 2,]}`},
		{"nested trailing commas", `{"a": {"b": [1,],},}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Repair(tc.input)
			if !json.Valid([]byte(got)) {
				t.Errorf("Expected valid JSON after repair, got %q", got)
			}
		})
	}
}

func TestRepairStripsCommentsButKeepsURLs(t *testing.T) {
	input := `{"sources": ["https://example.com/page"], // model commentary
"n": 1}`

	got := Repair(input)
	if !json.Valid([]byte(got)) {
		t.Fatalf("Expected valid JSON after repair, got %q", got)
	}

	var parsed struct {
		Sources []string `json:"sources"`
		N       int      `json:"n"`
	}
	if err := json.Unmarshal([]byte(got), &parsed); err != nil {
		t.Fatalf("Unexpected unmarshal error: %v", err)
	}
	if len(parsed.Sources) != 1 || parsed.Sources[0] != "https://example.com/page" {
		t.Errorf("Expected URL to survive comment stripping, got %v", parsed.Sources)
	}
	if parsed.N != 1 {
		t.Errorf("Expected field after comment to survive, got %d", parsed.N)
	}
}

func TestRepairLiteralEscapeSequences(t *testing.T) {
	// Models sometimes double-escape; the literal \n \t become spaces and \r
	// is dropped, matching the cleanup the whitespace collapse expects.
	input := `{"a": "line one\nline two\rtail"}`

	got := Repair(input)
	if !json.Valid([]byte(got)) {
		t.Fatalf("Expected valid JSON after repair, got %q", got)
	}

	var parsed struct {
		A string `json:"a"`
	}
	if err := json.Unmarshal([]byte(got), &parsed); err != nil {
		t.Fatalf("Unexpected unmarshal error: %v", err)
	}
	if parsed.A != "line one line twotail" {
		t.Errorf("Expected escape sequences flattened, got %q", parsed.A)
	}
}

func TestRepairReclosesTruncatedTopicArray(t *testing.T) {
	// Truncated mid-way through the second topic: the complete first topic
	// survives and the structure is re-closed at the last object boundary.
	input := `{"topics": [{"title": "A", "content": "first", "sources": []}`

	got := Repair(input)
	if !json.Valid([]byte(got)) {
		t.Fatalf("Expected valid JSON after reclose, got %q", got)
	}

	var parsed parsedBriefing
	if err := json.Unmarshal([]byte(got), &parsed); err != nil {
		t.Fatalf("Unexpected unmarshal error: %v", err)
	}
	if len(parsed.Topics) != 1 {
		t.Fatalf("Expected 1 recovered topic, got %d", len(parsed.Topics))
	}
	if parsed.Topics[0].Title != "A" {
		t.Errorf("Expected topic A, got %q", parsed.Topics[0].Title)
	}
}

func TestRepairDanglingSourceURL(t *testing.T) {
	// Truncation inside a sources array cuts a URL string in half. The
	// partial URL is dropped before reclosing so the earlier sources survive.
	input := `{"topics": [{"title": "A", "content": "c", "sources": ["https://a.com/x", "https://b.co`

	got := Repair(input)
	if !json.Valid([]byte(got)) {
		t.Fatalf("Expected valid JSON after repair, got %q", got)
	}

	var parsed parsedBriefing
	if err := json.Unmarshal([]byte(got), &parsed); err != nil {
		t.Fatalf("Unexpected unmarshal error: %v", err)
	}
	if len(parsed.Topics) != 1 {
		t.Fatalf("Expected 1 topic, got %d", len(parsed.Topics))
	}
	sources := parsed.Topics[0].Sources
	if len(sources) != 1 || sources[0] != "https://a.com/x" {
		t.Errorf("Expected the complete source to survive, got %v", sources)
	}
}

func TestRepairOpenArrayURL(t *testing.T) {
	// The very first URL in a sources array was cut: the array collapses to
	// empty rather than dragging the partial string along.
	input := `{"topics": [{"title": "A", "content": "c", "sources": ["https://cut.example/mid`

	got := Repair(input)
	if !json.Valid([]byte(got)) {
		t.Fatalf("Expected valid JSON after repair, got %q", got)
	}

	var parsed parsedBriefing
	if err := json.Unmarshal([]byte(got), &parsed); err != nil {
		t.Fatalf("Unexpected unmarshal error: %v", err)
	}
	if len(parsed.Topics) != 1 {
		t.Fatalf("Expected 1 topic, got %d", len(parsed.Topics))
	}
	if len(parsed.Topics[0].Sources) != 0 {
		t.Errorf("Expected empty sources, got %v", parsed.Topics[0].Sources)
	}
}

func TestCloseByDepth(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"missing closers", `{"a": [1, 2`, `{"a": [1, 2]}`},
		{"already balanced", `{"a": 1}`, `{"a": 1}`},
		{"truncated inside string", `{"a": "cut of`, ""},
		{"mismatched brackets", `{"a": [}`, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := closeByDepth(tc.input)
			if got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}
