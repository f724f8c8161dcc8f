package dtm

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// jsonCallbackName is the fixed callback some remote endpoints wrap their
// JSON in, DataTables-style.
const jsonCallbackName = "jsonCallback"

var (
	callbackOpen  = []byte(jsonCallbackName + "(")
	callbackClose = []byte(")")
)

// decodeRelay decodes a relay response body that may be bare JSON or the
// same document wrapped in the jsonCallback(...) form. A parse failure is
// returned as an error, never swallowed here; each caller substitutes its
// own empty value so failure handling stays in one place per operation.
func decodeRelay(body []byte, v any) error {
	trimmed := bytes.TrimSpace(body)

	if bytes.HasPrefix(trimmed, callbackOpen) && bytes.HasSuffix(trimmed, callbackClose) {
		inner := trimmed[len(callbackOpen) : len(trimmed)-len(callbackClose)]
		if err := json.Unmarshal(inner, v); err != nil {
			return fmt.Errorf("decode jsonp body: %w", err)
		}
		return nil
	}

	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("decode json body: %w", err)
	}
	return nil
}
