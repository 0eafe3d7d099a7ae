package hypermedia

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Encode renders v as 2-space indented JSON with sorted object keys, no HTML
// escaping and no trailing newline.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(v); err != nil {
		return nil, fmt.Errorf("encode JSON: %w", err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
