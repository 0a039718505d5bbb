/*
Package factory opens the six HR modules over one backend.

PURPOSE:
  Each module owns its own lists and audit log; nothing is shared between
  modules except the backend they are stored in. The factory opens them in
  a fixed order and exposes both the typed modules (for the API) and a
  name-addressable catalog (for the CLI and generic endpoints).

MODULES:
  planning      hrp_data, hrp_calendar, hrp_logs
  recruitment   rs_data, rs_interviews, rs_logs
  training      td_data, td_attendance, td_certificates, td_logs
  performance   kpi_data, kpi_logs
  compensation  comp_data, comp_logs
  relations     er_data, er_logs

USAGE:
  backend, _ := jsonfile.New("./data")
  mods, err := factory.Open(ctx, backend, generic.WithLogger(logger))
  desc, ok := mods.Lookup("compensation")
  data, err := desc.Collections["records"].Export()

SEE ALSO:
  - api/server.go: Mounts every module under /api/{name}
  - cmd/hrd: export / import / logs commands
*/
package factory

import (
	"context"
	"fmt"
	"sort"

	"github.com/warp/hr-records/compensation"
	"github.com/warp/hr-records/generic"
	"github.com/warp/hr-records/performance"
	"github.com/warp/hr-records/planning"
	"github.com/warp/hr-records/recruitment"
	"github.com/warp/hr-records/relations"
	"github.com/warp/hr-records/training"
)

// Module names, in menu order.
const (
	Planning     = "planning"
	Recruitment  = "recruitment"
	Training     = "training"
	Performance  = "performance"
	Compensation = "compensation"
	Relations    = "relations"
)

// Names lists every module in menu order.
var Names = []string{Planning, Recruitment, Training, Performance, Compensation, Relations}

// PrimaryList is the collection key of every module's main list.
const PrimaryList = "records"

// Collection is the untyped surface of one list.
type Collection interface {
	Name() string
	Kind() string
	Len() int
	Import(ctx context.Context, payload []byte) (int, error)
	Export() ([]byte, error)
}

// Descriptor is the catalog entry of one module.
type Descriptor struct {
	Name        string
	Title       string
	Collections map[string]Collection
	Log         *generic.AuditLog
	Stats       func() any
}

// Lists returns the collection keys, primary list first.
func (d Descriptor) Lists() []string {
	keys := make([]string, 0, len(d.Collections))
	for k := range d.Collections {
		if k != PrimaryList {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return append([]string{PrimaryList}, keys...)
}

// Modules holds every opened module.
type Modules struct {
	Planning     *planning.Module
	Recruitment  *recruitment.Module
	Training     *training.Module
	Performance  *performance.Module
	Compensation *compensation.Module
	Relations    *relations.Module
}

// Open opens all six modules over backend. opts apply to every store and log.
func Open(ctx context.Context, backend generic.Backend, opts ...generic.Option) (*Modules, error) {
	var (
		m   Modules
		err error
	)
	if m.Planning, err = planning.Open(ctx, backend, opts...); err != nil {
		return nil, fmt.Errorf("open %s: %w", Planning, err)
	}
	if m.Recruitment, err = recruitment.Open(ctx, backend, opts...); err != nil {
		return nil, fmt.Errorf("open %s: %w", Recruitment, err)
	}
	if m.Training, err = training.Open(ctx, backend, opts...); err != nil {
		return nil, fmt.Errorf("open %s: %w", Training, err)
	}
	if m.Performance, err = performance.Open(ctx, backend, opts...); err != nil {
		return nil, fmt.Errorf("open %s: %w", Performance, err)
	}
	if m.Compensation, err = compensation.Open(ctx, backend, opts...); err != nil {
		return nil, fmt.Errorf("open %s: %w", Compensation, err)
	}
	if m.Relations, err = relations.Open(ctx, backend, opts...); err != nil {
		return nil, fmt.Errorf("open %s: %w", Relations, err)
	}
	return &m, nil
}

// Catalog describes every module in menu order.
func (m *Modules) Catalog() []Descriptor {
	return []Descriptor{
		{
			Name:  Planning,
			Title: "HR Planning",
			Collections: map[string]Collection{
				PrimaryList: m.Planning.Requirements,
				"reminders": m.Planning.Reminders,
			},
			Log:   m.Planning.Log,
			Stats: func() any { return m.Planning.Stats() },
		},
		{
			Name:  Recruitment,
			Title: "Recruitment & Selection",
			Collections: map[string]Collection{
				PrimaryList:  m.Recruitment.Candidates,
				"interviews": m.Recruitment.Interviews,
			},
			Log:   m.Recruitment.Log,
			Stats: func() any { return m.Recruitment.Stats() },
		},
		{
			Name:  Training,
			Title: "Training & Development",
			Collections: map[string]Collection{
				PrimaryList:    m.Training.Courses,
				"attendance":   m.Training.Attendance,
				"certificates": m.Training.Certificates,
			},
			Log:   m.Training.Log,
			Stats: func() any { return m.Training.Stats() },
		},
		{
			Name:        Performance,
			Title:       "Performance Management",
			Collections: map[string]Collection{PrimaryList: m.Performance.Reviews},
			Log:         m.Performance.Log,
			Stats:       func() any { return m.Performance.Stats() },
		},
		{
			Name:        Compensation,
			Title:       "Compensation & Benefits",
			Collections: map[string]Collection{PrimaryList: m.Compensation.Records},
			Log:         m.Compensation.Log,
			Stats:       func() any { return m.Compensation.Stats() },
		},
		{
			Name:        Relations,
			Title:       "Employee Relations",
			Collections: map[string]Collection{PrimaryList: m.Relations.Cases},
			Log:         m.Relations.Log,
			Stats:       func() any { return m.Relations.Stats() },
		},
	}
}

// Link is the integrity surface of one link list.
type Link interface {
	Name() string
	Kind() string
	ParentKind() string
	Len() int
	OrphanIDs() []string
}

// Links returns every link list across modules.
func (m *Modules) Links() []Link {
	return []Link{
		m.Planning.Reminders,
		m.Recruitment.Interviews,
		m.Training.Attendance,
		m.Training.Certificates,
	}
}

// Reset deletes every record of every module. Parents go first so link
// records leave through their cascades; any orphans left by imports are
// removed afterwards.
func (m *Modules) Reset(ctx context.Context) (int, error) {
	steps := []func(context.Context) (int, error){
		clearStore(m.Planning.Requirements),
		clearStore(m.Recruitment.Candidates),
		clearStore(m.Training.Courses),
		clearStore(m.Performance.Reviews),
		clearStore(m.Compensation.Records),
		clearStore(m.Relations.Cases),
		clearStore(m.Planning.Reminders.Store),
		clearStore(m.Recruitment.Interviews.Store),
		clearStore(m.Training.Attendance.Store),
		clearStore(m.Training.Certificates.Store),
	}
	total := 0
	for _, step := range steps {
		n, err := step(ctx)
		total += n
		if err != nil {
			return total, fmt.Errorf("reset: %w", err)
		}
	}
	return total, nil
}

func clearStore[T any, PT generic.RecordPtr[T]](s *generic.Store[T, PT]) func(context.Context) (int, error) {
	return func(ctx context.Context) (int, error) {
		return s.DeleteWhere(ctx, func(T) bool { return true })
	}
}

// Lookup finds one module's descriptor by name.
func (m *Modules) Lookup(name string) (Descriptor, bool) {
	for _, d := range m.Catalog() {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Collection resolves module/list, defaulting list to the primary list.
func (m *Modules) Collection(module, list string) (Collection, error) {
	d, ok := m.Lookup(module)
	if !ok {
		return nil, fmt.Errorf("unknown module %q (want one of %v)", module, Names)
	}
	if list == "" {
		list = PrimaryList
	}
	c, ok := d.Collections[list]
	if !ok {
		return nil, fmt.Errorf("module %s has no list %q (want one of %v)", module, list, d.Lists())
	}
	return c, nil
}
