package compensation

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/warp/hr-records/generic"
)

// List names in the data directory.
const (
	DataFile = "comp_data"
	LogFile  = "comp_logs"
)

// SalaryBins is the bar count of the salary distribution.
const SalaryBins = 10

type Module struct {
	Records *generic.Store[Record, *Record]
	Log     *generic.AuditLog
}

func Open(ctx context.Context, backend generic.Backend, opts ...generic.Option) (*Module, error) {
	log, err := generic.OpenAuditLog(ctx, backend, LogFile, opts...)
	if err != nil {
		return nil, err
	}
	records, err := generic.Open[Record](ctx, backend, DataFile, log, Schema, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{Records: records, Log: log}, nil
}

// Query narrows the record list: employee name substring and creation year.
type Query struct {
	Employee string
	Year     string
}

func (q Query) Filters() []generic.Filter[Record] {
	return []generic.Filter[Record]{
		generic.Contains(func(r Record) string { return r.Emp }, q.Employee),
		generic.CreatedPrefix[Record](q.Year),
	}
}

// Stats is the compensation analytics page. Means are nil when there are no
// records.
type Stats struct {
	Count           int              `json:"count"`
	AvgSalary       *decimal.Decimal `json:"avg_salary"`
	AvgBonus        *decimal.Decimal `json:"avg_bonus"`
	AvgTotal        *decimal.Decimal `json:"avg_total"`
	SalaryHistogram []generic.Bin    `json:"salary_histogram"`
}

func (m *Module) Stats() Stats {
	all := m.Records.All()
	return Stats{
		Count:     generic.Count(all),
		AvgSalary: meanOf(m.Records, func(r Record) decimal.Decimal { return r.Salary }),
		AvgBonus:  meanOf(m.Records, func(r Record) decimal.Decimal { return r.Bonus }),
		AvgTotal:  meanOf(m.Records, func(r Record) decimal.Decimal { return r.Total }),
		SalaryHistogram: generic.Histogram(all, func(r Record) float64 {
			return r.Salary.InexactFloat64()
		}, SalaryBins),
	}
}

func meanOf(s *generic.Store[Record, *Record], field func(Record) decimal.Decimal) *decimal.Decimal {
	mean, ok := generic.MeanDecimal(s.All(), field)
	if !ok {
		return nil
	}
	return &mean
}
