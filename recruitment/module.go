package recruitment

import (
	"context"

	"github.com/warp/hr-records/generic"
)

const (
	DataFile      = "rs_data"
	InterviewFile = "rs_interviews"
	LogFile       = "rs_logs"
)

type Module struct {
	Candidates *generic.Store[Candidate, *Candidate]
	Interviews *generic.LinkStore[Interview, *Interview]
	Log        *generic.AuditLog
}

func Open(ctx context.Context, backend generic.Backend, opts ...generic.Option) (*Module, error) {
	log, err := generic.OpenAuditLog(ctx, backend, LogFile, opts...)
	if err != nil {
		return nil, err
	}
	cands, err := generic.Open[Candidate](ctx, backend, DataFile, log, CandidateSchema, opts...)
	if err != nil {
		return nil, err
	}
	ivs, err := generic.Open[Interview](ctx, backend, InterviewFile, log, InterviewSchema, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{
		Candidates: cands,
		Interviews: generic.Link(ivs, cands, "candidate_id", func(iv *Interview) *string { return &iv.CandidateID }),
		Log:        log,
	}, nil
}

// Query narrows candidates. Keyword matches name or position.
type Query struct {
	Keyword  string
	Position string
}

func (q Query) Filters() []generic.Filter[Candidate] {
	return []generic.Filter[Candidate]{
		generic.AnyOf(
			generic.Contains(func(c Candidate) string { return c.Name }, q.Keyword),
			generic.Contains(func(c Candidate) string { return c.Position }, q.Keyword),
		),
		generic.Equals(func(c Candidate) string { return c.Position }, q.Position),
	}
}

type Stats struct {
	Count      int              `json:"count"`
	AvgRating  *float64         `json:"avg_rating"`
	ByPosition []generic.Bucket `json:"by_position"`
	Interviews int              `json:"interviews"`
}

func (m *Module) Stats() Stats {
	all := m.Candidates.All()
	st := Stats{
		Count:      generic.Count(all),
		ByPosition: generic.Tally(all, func(c Candidate) string { return c.Position }),
		Interviews: m.Interviews.Len(),
	}
	if avg, ok := generic.Mean(all, func(c Candidate) float64 { return float64(c.Rating) }); ok {
		st.AvgRating = &avg
	}
	return st
}
