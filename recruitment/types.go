// Package recruitment implements recruitment & selection: candidates and the
// interviews scheduled for them.
package recruitment

import (
	"fmt"
	"strings"
	"time"

	"github.com/warp/hr-records/generic"
)

const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 3

	// InterviewLayout is the persisted form of an interview slot.
	InterviewLayout = "2006-01-02 15:04"

	DefaultLocation = "Headquarters meeting room"
)

type Candidate struct {
	generic.Meta
	Name     string `json:"name"`
	Position string `json:"position"`
	Resume   string `json:"resume"`
	Rating   int    `json:"rating"`
}

// Interview is a slot booked for one candidate.
type Interview struct {
	generic.Meta
	CandidateID string `json:"candidate_id"`
	DateTime    string `json:"datetime"`
	Location    string `json:"location"`
}

var CandidateSchema = generic.Schema[Candidate]{
	Name: "candidate",
	Validate: func(c *Candidate) error {
		c.Name = strings.TrimSpace(c.Name)
		c.Position = strings.TrimSpace(c.Position)
		if c.Name == "" {
			return generic.Required("name")
		}
		if c.Position == "" {
			return generic.Required("position")
		}
		if c.Rating < MinRating || c.Rating > MaxRating {
			return generic.OutOfRange("rating", MinRating, MaxRating)
		}
		return nil
	},
	Defaults: func(c *Candidate) {
		if c.Rating == 0 {
			c.Rating = DefaultRating
		}
	},
	Describe: func(c *Candidate) string { return fmt.Sprintf("%s - %s", c.Name, c.Position) },
}

var InterviewSchema = generic.Schema[Interview]{
	Name: "interview",
	Validate: func(iv *Interview) error {
		iv.DateTime = strings.TrimSpace(iv.DateTime)
		if _, err := time.Parse(InterviewLayout, iv.DateTime); err != nil {
			return &generic.ValidationError{Field: "datetime", Message: "must be a YYYY-MM-DD HH:MM slot"}
		}
		iv.Location = strings.TrimSpace(iv.Location)
		if iv.Location == "" {
			iv.Location = DefaultLocation
		}
		return nil
	},
	Describe: func(iv *Interview) string { return fmt.Sprintf("%s on %s", iv.CandidateID, iv.DateTime) },
}
