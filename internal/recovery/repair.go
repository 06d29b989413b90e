package recovery

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	trailingCommaRe  = regexp.MustCompile(`,(\s*[}\]])`)
	controlCharRe    = regexp.MustCompile(`[\x00-\x1f]`)
	whitespaceRunRe  = regexp.MustCompile(`\s+`)
	danglingURLRe    = regexp.MustCompile(`,\s*"https?://[^"]*$`)
	openArrayURLRe   = regexp.MustCompile(`\[\s*"https?://[^"]*$`)
	escapedNewlineRe = regexp.MustCompile(`\\[nrt]`)
)

// Repair applies an ordered chain of textual transformations intended to
// coerce a candidate substring into parseable JSON. The chain is order
// sensitive: each step assumes the earlier ones already ran. It encodes the
// failure modes actually observed from the models (conversational wrapping,
// token-limit truncation, dangling source URLs) and can still fail on
// shapes outside those patterns; callers must treat the output as a best
// effort and verify with a real parse.
func Repair(candidate string) string {
	s := stripLineComments(candidate)
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = controlCharRe.ReplaceAllString(s, "")
	s = escapedNewlineRe.ReplaceAllStringFunc(s, func(m string) string {
		if m == `\r` {
			return ""
		}
		return " "
	})
	s = whitespaceRunRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	if json.Valid([]byte(s)) {
		return s
	}

	// The rest only matters for truncated output. Drop a partial URL string
	// first so the reclose step does not cut back past the whole array.
	s = danglingURLRe.ReplaceAllString(s, "")
	s = openArrayURLRe.ReplaceAllString(s, "[]")
	if json.Valid([]byte(s)) {
		return s
	}

	return reclose(s)
}

// stripLineComments removes //-style comments outside string literals.
// A naive regex would eat the tail of every https:// URL in the sources
// arrays, so this walks the text tracking string context.
func stripLineComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}
		if c == '/' && i+1 < len(s) && s[i+1] == '/' {
			// Skip to end of line
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				b.WriteByte('\n')
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// reclose recovers truncated JSON by cutting back to the last complete
// array or object boundary and re-closing the outer structure. The model's
// output is assumed to be {"topics": [...]}: truncation mid-array keeps the
// fully formed entries and drops the partial trailing one.
func reclose(s string) string {
	lastArrayEnd := strings.LastIndex(s, "]")
	lastObjectEnd := strings.LastIndex(s, "}")

	var closed string
	switch {
	case lastArrayEnd > lastObjectEnd:
		// Truncated after the topics array closed
		closed = s[:lastArrayEnd+1] + "}"
	case lastObjectEnd != -1:
		// Truncated mid-array after a complete topic object
		closed = s[:lastObjectEnd+1] + "]}"
	default:
		// No boundary to cut back to; depth counting is all that is left.
		if balanced := closeByDepth(s); balanced != "" {
			return balanced
		}
		return s
	}

	// A trailing comma may now sit before the synthetic closers
	closed = trailingCommaRe.ReplaceAllString(closed, "$1")
	if json.Valid([]byte(closed)) {
		return closed
	}

	// Still unbalanced: the cut landed inside a nested structure. Append
	// closers by depth as a final attempt.
	if balanced := closeByDepth(closed); balanced != "" {
		return balanced
	}
	return closed
}

// closeByDepth appends the closing brackets a truncated string is missing,
// returning "" when the string is corrupt beyond counting (for example
// truncated inside a string literal).
func closeByDepth(s string) string {
	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return ""
			}
			stack = stack[:len(stack)-1]
		}
	}
	if inString {
		return ""
	}
	var b strings.Builder
	b.WriteString(s)
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteByte(stack[i])
	}
	out := b.String()
	if !json.Valid([]byte(out)) {
		return ""
	}
	return out
}
