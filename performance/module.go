package performance

import (
	"context"

	"github.com/warp/hr-records/generic"
)

const (
	DataFile = "kpi_data"
	LogFile  = "kpi_logs"
)

const (
	ScoreBins        = 10
	TopCommentTokens = 10
)

type Module struct {
	Reviews *generic.Store[Review, *Review]
	Log     *generic.AuditLog
}

func Open(ctx context.Context, backend generic.Backend, opts ...generic.Option) (*Module, error) {
	log, err := generic.OpenAuditLog(ctx, backend, LogFile, opts...)
	if err != nil {
		return nil, err
	}
	reviews, err := generic.Open[Review](ctx, backend, DataFile, log, Schema, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{Reviews: reviews, Log: log}, nil
}

type Query struct {
	Employee string
	Year     string
}

func (q Query) Filters() []generic.Filter[Review] {
	return []generic.Filter[Review]{
		generic.Contains(func(r Review) string { return r.Emp }, q.Employee),
		generic.CreatedPrefix[Review](q.Year),
	}
}

type Stats struct {
	Count          int              `json:"count"`
	AvgScore       *float64         `json:"avg_score"`
	ScoreHistogram []generic.Bin    `json:"score_histogram"`
	TopComments    []generic.Bucket `json:"top_comment_tokens"`
}

func (m *Module) Stats() Stats {
	all := m.Reviews.All()
	score := func(r Review) float64 { return float64(r.Score) }
	st := Stats{
		Count:          generic.Count(all),
		ScoreHistogram: generic.Histogram(all, score, ScoreBins),
		TopComments:    generic.TopTokens(all, func(r Review) string { return r.Comments }, TopCommentTokens),
	}
	if avg, ok := generic.Mean(all, score); ok {
		st.AvgScore = &avg
	}
	return st
}
