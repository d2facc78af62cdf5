package interpret

import (
	"encoding/json"
	"fmt"
	"strings"
)

// oracleReply mirrors the JSON shape the interpretation prompt asks for.
// Unknown fields are ignored so prompt drift does not break parsing.
type oracleReply struct {
	Keywords   []string       `json:"keywords"`
	Entities   []string       `json:"entities"`
	Filters    map[string]any `json:"filters"`
	Confidence float64        `json:"confidence"`
}

// parseReply salvages a JSON object from an oracle reply. It tries, in order:
// a direct parse, the object inside a ```json fence, and finally the substring
// from the first '{' to the last '}'.
func parseReply(raw string) (oracleReply, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return oracleReply{}, fmt.Errorf("empty oracle reply")
	}

	var reply oracleReply
	if err := json.Unmarshal([]byte(raw), &reply); err == nil {
		return reply, nil
	}

	if fenced, ok := extractFenced(raw); ok {
		if err := json.Unmarshal([]byte(fenced), &reply); err == nil {
			return reply, nil
		}
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(raw[start:end+1]), &reply); err == nil {
			return reply, nil
		}
	}

	return oracleReply{}, fmt.Errorf("no parseable JSON object in oracle reply")
}

// extractFenced returns the object between a ```json fence and the last '}'
// before the closing fence.
func extractFenced(raw string) (string, bool) {
	fence := strings.Index(raw, "```json")
	if fence < 0 {
		return "", false
	}
	rest := raw[fence+len("```json"):]
	if close := strings.Index(rest, "```"); close >= 0 {
		rest = rest[:close]
	}
	start := strings.Index(rest, "{")
	end := strings.LastIndex(rest, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return rest[start : end+1], true
}

// parseStringList salvages a JSON array of strings from an oracle reply,
// with the same bracket-substring fallback as parseReply.
func parseStringList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty oracle reply")
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return list, nil
	}

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(raw[start:end+1]), &list); err == nil {
			return list, nil
		}
	}

	return nil, fmt.Errorf("no parseable JSON array in oracle reply")
}
