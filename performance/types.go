// Package performance implements performance management reviews: a 0-100
// score and a manager's comments per employee.
package performance

import (
	"fmt"
	"strings"

	"github.com/warp/hr-records/generic"
)

const (
	MinScore = 0
	MaxScore = 100
)

type Review struct {
	generic.Meta
	Emp      string `json:"emp"`
	Score    int    `json:"score"`
	Comments string `json:"comments"`
}

var Schema = generic.Schema[Review]{
	Name: "review",
	Validate: func(r *Review) error {
		r.Emp = strings.TrimSpace(r.Emp)
		if r.Emp == "" {
			return generic.Required("emp")
		}
		if r.Score < MinScore || r.Score > MaxScore {
			return generic.OutOfRange("score", MinScore, MaxScore)
		}
		return nil
	},
	Describe: func(r *Review) string { return fmt.Sprintf("%s - %d", r.Emp, r.Score) },
}
