// Package pipeline holds the model-backed steps of an audit: extraction into
// the fixed schema, narrative evaluation, translation with delimiter framing,
// and the five-whys suggestion used while authoring.
package pipeline

import (
	"errors"
	"fmt"
)

// Stage errors. Every failure returned by this package wraps exactly one of
// these together with its cause.
var (
	ErrExtraction  = errors.New("extraction failed")
	ErrEvaluation  = errors.New("evaluation failed")
	ErrTranslation = errors.New("translation failed")
	ErrAnalysis    = errors.New("five-whys analysis failed")
)

// SchemaError reports a model response that is not the requested JSON shape.
type SchemaError struct {
	Phase string
	Err   error
	Raw   string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: response is not valid JSON for the schema: %v", e.Phase, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

func stageErr(stage, cause error) error {
	return fmt.Errorf("%w: %w", stage, cause)
}
