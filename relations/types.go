// Package relations implements employee relations: grievances and feedback,
// optionally submitted anonymously.
package relations

import (
	"fmt"
	"strings"

	"github.com/warp/hr-records/generic"
)

// Anonymous is stored as the employee name when none was given.
const Anonymous = "Anonymous"

const (
	MinUrgency     = 1
	MaxUrgency     = 5
	DefaultUrgency = 3
)

type Category string

const (
	CategoryWorkEnvironment Category = "work_environment"
	CategoryCompensation    Category = "compensation"
	CategoryManagement      Category = "management"
	CategoryOther           Category = "other"
)

// Categories lists the accepted categories in display order.
var Categories = []Category{
	CategoryWorkEnvironment,
	CategoryCompensation,
	CategoryManagement,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Case struct {
	generic.Meta
	Emp      string   `json:"emp"`
	Category Category `json:"category"`
	Urgency  int      `json:"urgency"`
	Issue    string   `json:"issue"`
}

func (c Case) IsAnonymous() bool { return c.Emp == Anonymous }

var Schema = generic.Schema[Case]{
	Name: "case",
	Validate: func(c *Case) error {
		if strings.TrimSpace(c.Issue) == "" {
			return generic.Required("issue")
		}
		c.Emp = strings.TrimSpace(c.Emp)
		if c.Emp == "" {
			c.Emp = Anonymous
		}
		if !c.Category.Valid() {
			return &generic.ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", c.Category)}
		}
		if c.Urgency < MinUrgency || c.Urgency > MaxUrgency {
			return generic.OutOfRange("urgency", MinUrgency, MaxUrgency)
		}
		return nil
	},
	Defaults: func(c *Case) {
		if c.Category == "" {
			c.Category = CategoryOther
		}
		if c.Urgency == 0 {
			c.Urgency = DefaultUrgency
		}
	},
	Describe: func(c *Case) string {
		issue := []rune(c.Issue)
		if len(issue) > 20 {
			issue = issue[:20]
		}
		return fmt.Sprintf("%s | %s | %s", c.Emp, c.Category, string(issue))
	},
}
