package relations

import (
	"context"

	"github.com/warp/hr-records/generic"
)

const (
	DataFile = "er_data"
	LogFile  = "er_logs"
)

const TopIssueTokens = 10

type Module struct {
	Cases *generic.Store[Case, *Case]
	Log   *generic.AuditLog
}

func Open(ctx context.Context, backend generic.Backend, opts ...generic.Option) (*Module, error) {
	log, err := generic.OpenAuditLog(ctx, backend, LogFile, opts...)
	if err != nil {
		return nil, err
	}
	cases, err := generic.Open[Case](ctx, backend, DataFile, log, Schema, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{Cases: cases, Log: log}, nil
}

// Query narrows cases by issue text and category; AnonymousOnly keeps only
// submissions without an employee name.
type Query struct {
	Keyword       string
	Category      string
	AnonymousOnly bool
}

func (q Query) Filters() []generic.Filter[Case] {
	filters := []generic.Filter[Case]{
		generic.Contains(func(c Case) string { return c.Issue }, q.Keyword),
		generic.Equals(func(c Case) string { return string(c.Category) }, q.Category),
	}
	if q.AnonymousOnly {
		filters = append(filters, Case.IsAnonymous)
	}
	return filters
}

type Stats struct {
	Count          int              `json:"count"`
	AnonymousRatio *float64         `json:"anonymous_ratio"`
	AvgUrgency     *float64         `json:"avg_urgency"`
	ByCategory     []generic.Bucket `json:"by_category"`
	TopIssues      []generic.Bucket `json:"top_issue_tokens"`
}

func (m *Module) Stats() Stats {
	all := m.Cases.All()
	st := Stats{
		Count:      generic.Count(all),
		ByCategory: generic.Tally(all, func(c Case) string { return string(c.Category) }),
		TopIssues:  generic.TopTokens(all, func(c Case) string { return c.Issue }, TopIssueTokens),
	}
	if r, ok := generic.Ratio(all, Case.IsAnonymous); ok {
		st.AnonymousRatio = &r
	}
	if avg, ok := generic.Mean(all, func(c Case) float64 { return float64(c.Urgency) }); ok {
		st.AvgUrgency = &avg
	}
	return st
}
