// Package actionstatus derives the display status of a dated action item.
//
// The result depends on the stored status, the due date and the current day.
// Callers pass "today" explicitly so a render can be reproduced.
package actionstatus

import (
	"strings"
	"time"
)

// Status is the stored state of an action item.
type Status string

const (
	Open      Status = "Open"
	Completed Status = "Completed"
)

// ParseStatus maps free text onto a stored status. Anything other than a
// case-insensitive "completed" is Open.
func ParseStatus(s string) Status {
	if strings.EqualFold(strings.TrimSpace(s), string(Completed)) {
		return Completed
	}
	return Open
}

// Class is the derived status used for styling.
type Class string

const (
	ClassCompleted Class = "Completed"
	ClassOverdue   Class = "Overdue"
	ClassDueSoon   Class = "DueSoon"
	ClassOpen      Class = "Open"
)

const (
	LabelDone       = "done"
	LabelOverdue    = "overdue/pending verification"
	LabelDueSoon    = "due soon"
	LabelInProgress = "in progress"
	LabelNoDate     = "date not set"
)

// DateLayout is the calendar date format stored on action items.
const DateLayout = "2006-01-02"

// DueSoonWindow is the number of days after today still counted as due soon.
const DueSoonWindow = 7

// Result pairs the style class with its label.
type Result struct {
	Class Class  `json:"status_class"`
	Label string `json:"status_display"`
}

// Resolve computes the display status of an action due on due.
func Resolve(due string, stored Status, today time.Time) Result {
	if stored == Completed {
		return Result{Class: ClassCompleted, Label: LabelDone}
	}
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(due), today.Location())
	if err != nil {
		return Result{Class: ClassOpen, Label: LabelNoDate}
	}
	day := truncateDay(today)
	switch {
	case d.Before(day):
		return Result{Class: ClassOverdue, Label: LabelOverdue}
	case !d.After(day.AddDate(0, 0, DueSoonWindow)):
		return Result{Class: ClassDueSoon, Label: LabelDueSoon}
	default:
		return Result{Class: ClassOpen, Label: LabelInProgress}
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
