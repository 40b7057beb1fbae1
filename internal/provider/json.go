package provider

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON pulls a JSON document out of an LLM response. Responses are
// frequently wrapped in ```json fences or surrounded by prose, so the
// extraction tries, in order: a fenced code block, the outermost {...}
// span, and finally the trimmed content itself.
func ExtractJSON(content string) ([]byte, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: empty response", ErrGeneration)
	}

	if block, ok := fencedBlock(content); ok {
		if json.Valid([]byte(block)) {
			return []byte(block), nil
		}
	}

	if start := strings.Index(content, "{"); start >= 0 {
		if end := strings.LastIndex(content, "}"); end > start {
			candidate := content[start : end+1]
			if json.Valid([]byte(candidate)) {
				return []byte(candidate), nil
			}
		}
	}

	if json.Valid([]byte(content)) {
		return []byte(content), nil
	}

	return nil, fmt.Errorf("%w: response is not valid JSON", ErrGeneration)
}

// fencedBlock returns the body of the first ``` fence, tolerating a
// "json" language tag.
func fencedBlock(content string) (string, bool) {
	start := strings.Index(content, "```")
	if start < 0 {
		return "", false
	}
	rest := content[start+3:]
	rest = strings.TrimPrefix(rest, "json")
	rest = strings.TrimLeft(rest, " \t\r\n")

	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// decodeInto extracts JSON from the response and unmarshals it.
func decodeInto(content string, v any) error {
	raw, err := ExtractJSON(content)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return nil
}
