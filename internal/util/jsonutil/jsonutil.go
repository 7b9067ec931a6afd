package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrNotObject reports a payload whose top-level value is not a JSON object.
var ErrNotObject = errors.New("jsonutil: top-level value is not an object")

// MarshalNoEscapeIndent encodes v into JSON with indentation but without HTML escaping.
// Non-ASCII text is kept as is, which keeps prompts readable for the model.
func MarshalNoEscapeIndent(v any, prefix, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(prefix, indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// DecodeObject unmarshals a single JSON object into v. Anything other than an
// object at the top level, trailing data, or a field whose JSON type does not
// match v is an error. Unknown keys are ignored.
func DecodeObject(raw []byte, v any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ErrNotObject
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("jsonutil: trailing data after object")
	}
	return nil
}
