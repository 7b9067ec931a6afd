package report

import (
	"time"

	"eightd/internal/actionstatus"
)

// AnnotatedAction is a permanent action with its derived display status.
type AnnotatedAction struct {
	Action string              `json:"action"`
	Date   string              `json:"date"`
	Status actionstatus.Status `json:"status"`
	actionstatus.Result
}

// Annotate resolves the status of every D5 action against today.
// Nothing is cached; two calls on different days may disagree.
func (m *Model) Annotate(today time.Time) []AnnotatedAction {
	out := make([]AnnotatedAction, 0, len(m.D5))
	for _, a := range m.D5 {
		date := a.Date
		if date == "" {
			date = "N/A"
		}
		out = append(out, AnnotatedAction{
			Action: a.Action,
			Date:   date,
			Status: a.Status,
			Result: actionstatus.Resolve(a.Date, a.Status, today),
		})
	}
	return out
}

// DefaultActionDate is the planned date suggested for a new permanent action.
func DefaultActionDate(today time.Time) string {
	return today.AddDate(0, 0, 14).Format(actionstatus.DateLayout)
}
