// Package planning implements workforce planning: yearly headcount
// requirements plus a passive calendar of dated reminders attached to them.
package planning

import (
	"fmt"
	"strings"

	"github.com/warp/hr-records/generic"
)

// Accepted planning years.
const (
	MinYear = 1900
	MaxYear = 2100
)

// Requirement is one workforce demand for a year.
type Requirement struct {
	generic.Meta
	Year   int    `json:"year"`
	Demand string `json:"demand"`
}

// Reminder is a dated note attached to a requirement. Nothing fires it;
// the calendar is only listed.
type Reminder struct {
	generic.Meta
	PlanID string `json:"plan_id"`
	Date   string `json:"date"`
	Note   string `json:"note"`
}

var RequirementSchema = generic.Schema[Requirement]{
	Name: "requirement",
	Validate: func(r *Requirement) error {
		if r.Year < MinYear || r.Year > MaxYear {
			return generic.OutOfRange("year", MinYear, MaxYear)
		}
		r.Demand = strings.TrimSpace(r.Demand)
		if r.Demand == "" {
			return generic.Required("demand")
		}
		return nil
	},
	Describe: func(r *Requirement) string { return fmt.Sprintf("%d - %s", r.Year, r.Demand) },
}

var ReminderSchema = generic.Schema[Reminder]{
	Name: "reminder",
	Validate: func(r *Reminder) error {
		if !generic.ValidDate(r.Date) {
			return &generic.ValidationError{Field: "date", Message: "must be a YYYY-MM-DD date"}
		}
		r.Note = strings.TrimSpace(r.Note)
		return nil
	},
	Describe: func(r *Reminder) string { return fmt.Sprintf("%s %s", r.Date, r.Note) },
}
