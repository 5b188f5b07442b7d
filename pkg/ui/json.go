package ui

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/postgen/pkg/errors"
)

// JSONRenderer provides JSON output for machine consumption
type JSONRenderer struct {
	encoder *json.Encoder
}

// NewJSONRenderer creates a JSON renderer
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return &JSONRenderer{encoder: encoder}
}

func (r *JSONRenderer) RenderSummary(s *Summary) error {
	return r.encoder.Encode(s)
}

func (r *JSONRenderer) RenderError(err error) error {
	errorObj := map[string]interface{}{
		"error": err.Error(),
	}
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		errorObj["code"] = code
	}
	if details := errors.GetErrorDetails(err); len(details) > 0 {
		errorObj["details"] = details
	}
	return r.encoder.Encode(errorObj)
}

func (r *JSONRenderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}
