package car

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
)

// carPayload is the accepted wire shape. id is read-only and ignored.
type carPayload struct {
	ID    json.RawMessage `json:"id"`
	Brand string          `json:"brand"`
	Model string          `json:"model"`
}

// ParseCar decodes a car payload. Unknown fields and trailing data are rejected.
func ParseCar(payload string) (NewCarRequest, error) {
	var p carPayload

	dec := json.NewDecoder(strings.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return NewCarRequest{}, fmt.Errorf("%w: %w", ErrJSONParse, err)
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return NewCarRequest{}, fmt.Errorf("%w: trailing data after object", ErrJSONParse)
	}
	return NewCarRequest{Brand: p.Brand, Model: p.Model}, nil
}
