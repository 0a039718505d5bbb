package planning

import (
	"context"
	"sort"
	"strconv"

	"github.com/warp/hr-records/generic"
)

const (
	DataFile     = "hrp_data"
	CalendarFile = "hrp_calendar"
	LogFile      = "hrp_logs"
)

// TopDemandTokens is how many demand keywords Stats reports.
const TopDemandTokens = 10

type Module struct {
	Requirements *generic.Store[Requirement, *Requirement]
	Reminders    *generic.LinkStore[Reminder, *Reminder]
	Log          *generic.AuditLog
}

func Open(ctx context.Context, backend generic.Backend, opts ...generic.Option) (*Module, error) {
	log, err := generic.OpenAuditLog(ctx, backend, LogFile, opts...)
	if err != nil {
		return nil, err
	}
	reqs, err := generic.Open[Requirement](ctx, backend, DataFile, log, RequirementSchema, opts...)
	if err != nil {
		return nil, err
	}
	rems, err := generic.Open[Reminder](ctx, backend, CalendarFile, log, ReminderSchema, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{
		Requirements: reqs,
		Reminders:    generic.Link(rems, reqs, "plan_id", func(r *Reminder) *string { return &r.PlanID }),
		Log:          log,
	}, nil
}

// Query narrows requirements by demand text and planning year.
type Query struct {
	Demand string
	Year   string
}

func (q Query) Filters() []generic.Filter[Requirement] {
	return []generic.Filter[Requirement]{
		generic.Contains(func(r Requirement) string { return r.Demand }, q.Demand),
		generic.Equals(func(r Requirement) string { return strconv.Itoa(r.Year) }, q.Year),
	}
}

// Calendar lists reminders dated on or after from (YYYY-MM-DD), soonest
// first. An empty from lists every reminder.
func (m *Module) Calendar(from string) []Reminder {
	var out []Reminder
	for r := range m.Reminders.All() {
		if from == "" || r.Date >= from {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	if out == nil {
		out = []Reminder{}
	}
	return out
}

type Stats struct {
	Count      int              `json:"count"`
	ByYear     []generic.Bucket `json:"by_year"`
	TopDemands []generic.Bucket `json:"top_demand_tokens"`
	Reminders  int              `json:"reminders"`
}

func (m *Module) Stats() Stats {
	all := m.Requirements.All()
	return Stats{
		Count:      generic.Count(all),
		ByYear:     generic.Tally(all, func(r Requirement) string { return strconv.Itoa(r.Year) }),
		TopDemands: generic.TopTokens(all, func(r Requirement) string { return r.Demand }, TopDemandTokens),
		Reminders:  m.Reminders.Len(),
	}
}
