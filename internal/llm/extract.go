package llm

import (
	"encoding/json"
	"strconv"
	"strings"
)

// fallbackPaths are always tried after the configured paths; they cover
// the common provider response shapes.
var fallbackPaths = []string{
	"choices.0.message.final",
	"choices.0.message.answer",
	"choices.0.message.content",
	"choices.0.text",
	"response.output_text",
	"output_text",
	"data.text",
	"text",
}

// CandidatePaths returns the configured paths followed by the built-in
// fallbacks, deduplicated with order preserved.
func CandidatePaths(configured []string) []string {
	seen := make(map[string]bool, len(configured)+len(fallbackPaths))
	var out []string
	for _, p := range configured {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	for _, p := range fallbackPaths {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// Extract tries each candidate path in order against the decoded response
// and returns the first one that resolves to a non-empty text value. A
// path that fails to resolve is skipped, not an error. When nothing
// resolves, the returned *ExtractionError lists every attempted path.
func Extract(data any, configured []string, stripThink bool) (string, error) {
	paths := CandidatePaths(configured)
	for _, p := range paths {
		value, ok := resolvePath(data, p)
		if !ok {
			continue
		}
		text := normalizeValue(value, stripThink)
		if text != "" {
			return text, nil
		}
	}
	return "", &ExtractionError{Paths: paths}
}

// resolvePath walks a dot-separated key/index sequence. Resolution fails
// softly: any missing key, out-of-range index, or non-container segment
// yields ok=false.
func resolvePath(data any, path string) (any, bool) {
	cur := data
	for _, part := range strings.Split(path, ".") {
		switch t := cur.(type) {
		case map[string]any:
			v, ok := t[part]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(t) {
				return nil, false
			}
			cur = t[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// normalizeValue flattens a resolved value to text. Lists of content
// blocks are concatenated (skipping reasoning-typed blocks when stripping
// is on); objects prefer final/answer-like fields, then a nested message,
// then their JSON encoding.
func normalizeValue(value any, stripThink bool) string {
	switch t := value.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		var chunks []string
		for _, item := range t {
			if block, ok := item.(map[string]any); ok {
				blockType, _ := block["type"].(string)
				blockType = strings.ToLower(blockType)
				if stripThink && (blockType == "reasoning" || blockType == "thought" || blockType == "thinking") {
					continue
				}
				if text, ok := block["text"].(string); ok && text != "" {
					chunks = append(chunks, text)
					continue
				}
				if content, ok := block["content"]; ok {
					if text := normalizeValue(content, stripThink); text != "" {
						chunks = append(chunks, text)
					}
					continue
				}
				continue
			}
			if text := normalizeValue(item, stripThink); text != "" {
				chunks = append(chunks, text)
			}
		}
		return strings.TrimSpace(strings.Join(chunks, "\n"))
	case map[string]any:
		for _, key := range []string{"final", "answer", "output_text", "text", "content"} {
			if v, ok := t[key]; ok && v != nil {
				if text := normalizeValue(v, stripThink); text != "" {
					return text
				}
			}
		}
		if v, ok := t["message"]; ok && v != nil {
			if text := normalizeValue(v, stripThink); text != "" {
				return text
			}
		}
		encoded, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(encoded)
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
