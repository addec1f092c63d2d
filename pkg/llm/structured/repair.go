package structured

import (
	"encoding/json"
	"strings"
)

// RepairObject closes a JSON object the model cut short: an unterminated
// trailing string gets its quote and unclosed objects get their closing
// braces. Output cut inside an array, or broken any other way, is left alone
// and reported as not repaired.
func RepairObject(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "{") {
		return "", false
	}

	var (
		open     []byte
		inString bool
		escaped  bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			open = append(open, c)
		case '}', ']':
			if len(open) == 0 {
				return "", false
			}
			open = open[:len(open)-1]
		}
	}

	var sb strings.Builder
	sb.WriteString(s)
	if inString {
		if escaped {
			// drop the dangling backslash so the quote is not escaped
			trimmed := sb.String()[:sb.Len()-1]
			sb.Reset()
			sb.WriteString(trimmed)
		}
		sb.WriteByte('"')
	}
	for i := len(open) - 1; i >= 0; i-- {
		if open[i] != '{' {
			return "", false
		}
		sb.WriteByte('}')
	}

	repaired := sb.String()
	if repaired == s || !json.Valid([]byte(repaired)) {
		return "", false
	}
	return repaired, true
}
