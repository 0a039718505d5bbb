// Package training implements training & development: courses, the
// attendance sessions recorded against them, and certificates issued.
package training

import (
	"fmt"
	"strings"

	"github.com/warp/hr-records/generic"
)

type Course struct {
	generic.Meta
	Course    string  `json:"course"`
	Feedback  string  `json:"feedback"`
	Duration  float64 `json:"duration"` // hours
	StartDate string  `json:"start_date,omitempty"`
}

// Attendance records whether one employee attended one session of a course.
type Attendance struct {
	generic.Meta
	CourseID string `json:"course_id"`
	Employee string `json:"employee"`
	Date     string `json:"date"`
	Present  bool   `json:"present"`
}

type Certificate struct {
	generic.Meta
	CourseID string `json:"course_id"`
	Employee string `json:"employee"`
	Title    string `json:"title"`
	IssuedOn string `json:"issued_on"`
}

var CourseSchema = generic.Schema[Course]{
	Name: "course",
	Validate: func(c *Course) error {
		c.Course = strings.TrimSpace(c.Course)
		if c.Course == "" {
			return generic.Required("course")
		}
		if c.Duration < 0 {
			return &generic.ValidationError{Field: "duration", Message: "must not be negative"}
		}
		if c.StartDate != "" && !generic.ValidDate(c.StartDate) {
			return &generic.ValidationError{Field: "start_date", Message: "must be a YYYY-MM-DD date"}
		}
		return nil
	},
	Describe: func(c *Course) string { return c.Course },
}

var AttendanceSchema = generic.Schema[Attendance]{
	Name: "attendance",
	Validate: func(a *Attendance) error {
		a.Employee = strings.TrimSpace(a.Employee)
		if a.Employee == "" {
			return generic.Required("employee")
		}
		if !generic.ValidDate(a.Date) {
			return &generic.ValidationError{Field: "date", Message: "must be a YYYY-MM-DD date"}
		}
		return nil
	},
	Describe: func(a *Attendance) string {
		return fmt.Sprintf("%s %s present=%t", a.Employee, a.Date, a.Present)
	},
}

var CertificateSchema = generic.Schema[Certificate]{
	Name: "certificate",
	Validate: func(c *Certificate) error {
		c.Employee = strings.TrimSpace(c.Employee)
		if c.Employee == "" {
			return generic.Required("employee")
		}
		if !generic.ValidDate(c.IssuedOn) {
			return &generic.ValidationError{Field: "issued_on", Message: "must be a YYYY-MM-DD date"}
		}
		c.Title = strings.TrimSpace(c.Title)
		return nil
	},
	Describe: func(c *Certificate) string { return fmt.Sprintf("%s - %s", c.Employee, c.Title) },
}
