package audit

import "errors"

var ErrNotReady = errors.New("audit: no completed audit")

// Translation is the translated form of one extraction+evaluation pair.
// Structured is nil when the model dropped the delimiter and the two parts
// could not be told apart; Narrative then holds the whole text.
type Translation struct {
	Language      string  `json:"language"`
	Structured    *string `json:"translated_extracted,omitempty"`
	Narrative     string  `json:"translated_evaluation"`
	StructureLost bool    `json:"structure_lost"`
}

// Result is the audit state of a session. The extracted report and its
// evaluation are only ever set together, and a translation is only kept
// while it belongs to the current pair.
type Result struct {
	Extracted   *ExtractedReport `json:"extracted,omitempty"`
	Evaluation  *string          `json:"evaluation,omitempty"`
	Translation *Translation     `json:"translation,omitempty"`
}

// Ready reports whether an audit pair is present.
func (r *Result) Ready() bool {
	return r.Extracted != nil && r.Evaluation != nil
}

// CommitAudit stores a new pair and invalidates any translation of the old one.
func (r *Result) CommitAudit(ex ExtractedReport, evaluation string) {
	*r = Result{Extracted: &ex, Evaluation: &evaluation}
}

// CommitTranslation replaces the translation of the current pair.
func (r *Result) CommitTranslation(t Translation) error {
	if !r.Ready() {
		return ErrNotReady
	}
	r.Translation = &t
	return nil
}

// TranslatedFor returns the translation when it matches lang.
func (r *Result) TranslatedFor(lang string) (*Translation, bool) {
	if r.Translation == nil || r.Translation.Language != lang {
		return nil, false
	}
	return r.Translation, true
}

func (r *Result) Reset() { *r = Result{} }
