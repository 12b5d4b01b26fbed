package output

import (
	"bytes"
	"encoding/json"

	"github.com/rgehrsitz/irgo/internal/domain"
)

// JSONFormatter emits a single result as an object and several as an array.
type JSONFormatter struct {
	Pretty bool
}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(results []*domain.CalculationResult) ([]byte, error) {
	var v any = results
	if len(results) == 1 {
		v = results[0]
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if j.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
