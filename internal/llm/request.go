package llm

import (
	"encoding/json"
	"strings"
)

// BuildPayload renders the outbound request body. With no template the
// default chat-completion shape is produced; otherwise the template is
// parsed and its placeholders ({{model}}, {{system_prompt}},
// {{user_prompt}}) substituted into every string value. When model is
// empty the templated object must not carry a model key, so it is removed.
func BuildPayload(model, systemPrompt, userPrompt, template string) (any, error) {
	if strings.TrimSpace(template) == "" {
		return defaultPayload(model, systemPrompt, userPrompt), nil
	}

	var parsed any
	if err := json.Unmarshal([]byte(template), &parsed); err != nil {
		return nil, &TemplateError{Err: err}
	}

	mapping := map[string]string{
		"model":         model,
		"system_prompt": systemPrompt,
		"user_prompt":   userPrompt,
	}
	parsed = substitute(parsed, mapping)

	if model == "" {
		if obj, ok := parsed.(map[string]any); ok {
			delete(obj, "model")
		}
	}
	return parsed, nil
}

// defaultPayload is the chat-style message list with fixed sampling
// parameters. The model key is included only when the id is non-empty.
func defaultPayload(model, systemPrompt, userPrompt string) map[string]any {
	payload := map[string]any{
		"messages": []any{
			map[string]any{"role": "system", "content": systemPrompt},
			map[string]any{"role": "user", "content": userPrompt},
		},
		"temperature": 0.2,
		"top_p":       0.9,
		"stream":      false,
	}
	if model != "" {
		payload["model"] = model
	}
	return payload
}

// substitute walks a decoded JSON value and replaces placeholders in
// every string it contains.
func substitute(v any, mapping map[string]string) any {
	switch t := v.(type) {
	case string:
		out := t
		for k, val := range mapping {
			out = strings.ReplaceAll(out, "{{"+k+"}}", val)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = substitute(item, mapping)
		}
		return t
	case map[string]any:
		for k, item := range t {
			t[k] = substitute(item, mapping)
		}
		return t
	default:
		return v
	}
}
