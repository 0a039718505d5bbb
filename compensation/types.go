// Package compensation implements the compensation & benefits records:
// monthly salary, bonus and a derived total per employee.
package compensation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/hr-records/generic"
)

// Record is one employee's compensation line.
//
// INVARIANT: Total == Salary + Bonus. Total is recomputed on every create and
// update; a caller-supplied Total is overwritten.
type Record struct {
	generic.Meta
	Emp      string          `json:"emp"`
	Salary   decimal.Decimal `json:"salary"`
	Bonus    decimal.Decimal `json:"bonus"`
	Total    decimal.Decimal `json:"total"`
	Benefits string          `json:"benefits"`
}

// Schema plugs compensation records into the generic store.
var Schema = generic.Schema[Record]{
	Name:     "compensation",
	Validate: validate,
	Derive:   derive,
	Describe: func(r *Record) string { return fmt.Sprintf("%s - %s", r.Emp, r.Total) },
}

func validate(r *Record) error {
	r.Emp = strings.TrimSpace(r.Emp)
	if r.Emp == "" {
		return generic.Required("emp")
	}
	if r.Salary.IsNegative() {
		return &generic.ValidationError{Field: "salary", Message: "must not be negative"}
	}
	if r.Bonus.IsNegative() {
		return &generic.ValidationError{Field: "bonus", Message: "must not be negative"}
	}
	return nil
}

func derive(r *Record) {
	r.Total = r.Salary.Add(r.Bonus)
}
