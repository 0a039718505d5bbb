/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the modules with realistic
	records for demos. Each scenario creates records through the normal
	store operations, so validation, derived fields and audit entries all
	apply as they would for a user.

AVAILABLE SCENARIOS:

	starter:         A handful of records in every module
	hiring-season:   Planning demand with reminders, candidates with interviews
	training-cycle:  Courses with attendance and certificates, review round

HOW SCENARIOS WORK:
 1. Optionally reset (delete every record, cascades included)
 2. Create parent records
 3. Create link records pointing at the new parent ids

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "hiring-season", "reset": true}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: seedXxx(ctx, mods, now)
 3. Add it to 'loaders'

SEE ALSO:
  - factory/modules.go: Modules.Reset
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/hr-records/compensation"
	"github.com/warp/hr-records/factory"
	"github.com/warp/hr-records/generic"
	"github.com/warp/hr-records/performance"
	"github.com/warp/hr-records/planning"
	"github.com/warp/hr-records/recruitment"
	"github.com/warp/hr-records/relations"
	"github.com/warp/hr-records/training"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "starter",
		Name:        "Starter",
		Description: "A few records in every module",
	},
	{
		ID:          "hiring-season",
		Name:        "Hiring Season",
		Description: "Headcount plan with reminders, candidate pipeline with interviews",
	},
	{
		ID:          "training-cycle",
		Name:        "Training Cycle",
		Description: "Courses with attendance and certificates, followed by a review round",
	},
}

type seedFunc func(ctx context.Context, mods *factory.Modules, now time.Time) (map[string]int, error)

var loaders = map[string]seedFunc{
	"starter":        seedStarter,
	"hiring-season":  seedHiringSeason,
	"training-cycle": seedTrainingCycle,
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the last loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario seeds a predefined scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	created, err := h.loadScenario(r.Context(), req.ScenarioID, req.Reset)
	if err != nil {
		if _, known := loaders[req.ScenarioID]; !known {
			writeError(w, http.StatusBadRequest, "Unknown scenario", err)
			return
		}
		h.writeStoreError(w, "Failed to load scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, LoadScenarioResponse{Scenario: req.ScenarioID, Created: created})
}

func (h *Handler) loadScenario(ctx context.Context, id string, reset bool) (map[string]int, error) {
	load, ok := loaders[id]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q", id)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if reset {
		n, err := h.Modules.Reset(ctx)
		if err != nil {
			return nil, err
		}
		h.currentScenario = ""
		h.Logger.Info("modules reset", zap.Int("deleted", n))
	}

	created, err := load(ctx, h.Modules, time.Now())
	if err != nil {
		return created, fmt.Errorf("scenario %s: %w", id, err)
	}
	h.currentScenario = id
	h.Logger.Info("scenario loaded", zap.String("scenario", id), zap.Any("created", created))
	return created, nil
}

// =============================================================================
// LOADERS
// =============================================================================

func seedStarter(ctx context.Context, mods *factory.Modules, now time.Time) (map[string]int, error) {
	s := newSeeder(ctx)

	seedAll(s, mods.Planning.Requirements, []planning.Requirement{
		{Year: now.Year(), Demand: "Two backend engineers for the payments team"},
	})
	seedAll(s, mods.Recruitment.Candidates, []recruitment.Candidate{
		{Name: "Dana Whitfield", Position: "Backend Engineer", Resume: "Six years of Go and PostgreSQL", Rating: 4},
	})
	seedAll(s, mods.Training.Courses, []training.Course{
		{Course: "Onboarding Essentials", Feedback: "clear and practical", Duration: 4, StartDate: date(now, 7)},
	})
	seedAll(s, mods.Performance.Reviews, []performance.Review{
		{Emp: "Alice", Score: 88, Comments: "strong delivery on the billing migration"},
		{Emp: "Bob", Score: 72, Comments: "solid delivery, needs more code review participation"},
	})
	seedAll(s, mods.Compensation.Records, []compensation.Record{
		{Emp: "Alice", Salary: decimal.NewFromInt(5000), Bonus: decimal.NewFromInt(500), Benefits: "health, dental"},
		{Emp: "Bob", Salary: decimal.NewFromInt(4200), Bonus: decimal.NewFromInt(300), Benefits: "health"},
	})
	seedAll(s, mods.Relations.Cases, []relations.Case{
		{Emp: "Bob", Category: relations.CategoryWorkEnvironment, Urgency: 2, Issue: "Open office is too loud for focused work"},
		{Category: relations.CategoryManagement, Urgency: 4, Issue: "Unclear priorities between two managers"},
	})
	return s.done()
}

func seedHiringSeason(ctx context.Context, mods *factory.Modules, now time.Time) (map[string]int, error) {
	s := newSeeder(ctx)

	plans := seedAll(s, mods.Planning.Requirements, []planning.Requirement{
		{Year: now.Year(), Demand: "Three backend engineers for platform growth"},
		{Year: now.Year() + 1, Demand: "One data analyst and one product designer"},
	})
	for i, p := range plans {
		seedAll(s, mods.Planning.Reminders, []planning.Reminder{
			{PlanID: p.ID, Date: date(now, 14*(i+1)), Note: "Review open requisitions with finance"},
		})
	}

	cands := seedAll(s, mods.Recruitment.Candidates, []recruitment.Candidate{
		{Name: "Priya Raman", Position: "Backend Engineer", Resume: "Distributed systems, Go, Kafka", Rating: 5},
		{Name: "Tom Becker", Position: "Backend Engineer", Resume: "Java services, some Go", Rating: 3},
		{Name: "Lena Ortiz", Position: "Data Analyst", Resume: "SQL, dashboards, A/B testing", Rating: 4},
	})
	for i, c := range cands {
		seedAll(s, mods.Recruitment.Interviews, []recruitment.Interview{
			{CandidateID: c.ID, DateTime: now.AddDate(0, 0, i+2).Format(recruitment.InterviewLayout)},
		})
	}
	return s.done()
}

func seedTrainingCycle(ctx context.Context, mods *factory.Modules, now time.Time) (map[string]int, error) {
	s := newSeeder(ctx)

	courses := seedAll(s, mods.Training.Courses, []training.Course{
		{Course: "Secure Coding", Feedback: "great labs, too short", Duration: 6, StartDate: date(now, -14)},
		{Course: "Leading Effective Reviews", Feedback: "useful templates", Duration: 3, StartDate: date(now, -7)},
	})
	people := []string{"Alice", "Bob", "Chen"}
	for _, c := range courses {
		for j, emp := range people {
			seedAll(s, mods.Training.Attendance, []training.Attendance{
				{CourseID: c.ID, Employee: emp, Date: c.StartDate, Present: j != 2},
			})
		}
		seedAll(s, mods.Training.Certificates, []training.Certificate{
			{CourseID: c.ID, Employee: "Alice", Title: c.Course + " completion", IssuedOn: date(now, 0)},
		})
	}

	seedAll(s, mods.Performance.Reviews, []performance.Review{
		{Emp: "Alice", Score: 91, Comments: "applied secure coding practices across the team"},
		{Emp: "Chen", Score: 65, Comments: "missed sessions, schedule a follow up"},
	})
	return s.done()
}

// =============================================================================
// HELPERS
// =============================================================================

// seeder counts created records per list and stops at the first error.
type seeder struct {
	ctx     context.Context
	created map[string]int
	err     error
}

func newSeeder(ctx context.Context) *seeder {
	return &seeder{ctx: ctx, created: make(map[string]int)}
}

func (s *seeder) done() (map[string]int, error) { return s.created, s.err }

type creator[T any] interface {
	Name() string
	Create(ctx context.Context, rec T) (T, error)
}

func seedAll[T any](s *seeder, store creator[T], recs []T) []T {
	if s.err != nil {
		return nil
	}
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		created, err := store.Create(s.ctx, rec)
		if err != nil {
			s.err = fmt.Errorf("seed %s: %w", store.Name(), err)
			return out
		}
		s.created[store.Name()]++
		out = append(out, created)
	}
	return out
}

func date(now time.Time, days int) string {
	return now.AddDate(0, 0, days).Format(generic.DateLayout)
}
