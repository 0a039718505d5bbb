/*
scheduler.go - Periodic integrity sweep over link lists

PURPOSE:
  Link records (reminders, interviews, attendance, certificates) are
  removed together with their parent, but an import is appended verbatim
  and can bring in references to parents that do not exist. The sweeper
  periodically lists such orphans and logs them. It never mutates data.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Checks once immediately on Start
  - Keeps the last report for GET /api/integrity

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether the sweeper is active (default: true)

USAGE:
  sweeper := NewIntegritySweeper(mods, logger)
  sweeper.Start()
  // ... later
  sweeper.Stop()

SEE ALSO:
  - generic/link.go: LinkStore.Orphans
*/
package api

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/warp/hr-records/factory"
)

// IntegritySweeper periodically reports orphaned link records.
type IntegritySweeper struct {
	Modules       *factory.Modules
	Logger        *zap.Logger
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	last    IntegrityReportDTO
	hasLast bool
}

// NewIntegritySweeper creates a new sweeper.
func NewIntegritySweeper(mods *factory.Modules, logger *zap.Logger) *IntegritySweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntegritySweeper{
		Modules:       mods,
		Logger:        logger.Named("sweeper"),
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
	}
}

// Start begins the sweeper.
func (s *IntegritySweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled {
		s.Logger.Info("disabled, not starting")
		return
	}
	if s.ticker != nil {
		return
	}

	s.ticker = time.NewTicker(s.CheckInterval)
	s.stop = make(chan struct{})
	s.wg.Add(1)

	go s.run(s.ticker, s.stop)

	s.Logger.Info("started", zap.Duration("interval", s.CheckInterval))
}

// Stop stops the sweeper and waits for a running check to finish.
func (s *IntegritySweeper) Stop() {
	s.mu.Lock()
	if s.ticker == nil {
		s.mu.Unlock()
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.ticker = nil
	s.mu.Unlock()

	s.wg.Wait()
	s.Logger.Info("stopped")
}

// LastReport returns the most recent sweep, if any has run.
func (s *IntegritySweeper) LastReport() (IntegrityReportDTO, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}

// Sweep runs one check now, logs orphans and keeps the report.
func (s *IntegritySweeper) Sweep() IntegrityReportDTO {
	report := CheckIntegrity(s.Modules)
	for _, l := range report.Lists {
		if len(l.OrphanIDs) == 0 {
			continue
		}
		s.Logger.Warn("orphaned link records",
			zap.String("list", l.File),
			zap.String("parent", l.Parent),
			zap.Strings("ids", l.OrphanIDs))
	}
	s.Logger.Debug("sweep complete", zap.Int("orphans", report.Orphans))

	s.mu.Lock()
	s.last, s.hasLast = report, true
	s.mu.Unlock()
	return report
}

func (s *IntegritySweeper) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer s.wg.Done()

	// Run immediately on start
	s.Sweep()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-stop:
			return
		}
	}
}

// CheckIntegrity lists orphaned records of every link list.
func CheckIntegrity(mods *factory.Modules) IntegrityReportDTO {
	report := IntegrityReportDTO{CheckedAt: time.Now().UTC()}
	for _, l := range mods.Links() {
		ids := l.OrphanIDs()
		report.Lists = append(report.Lists, IntegrityListDTO{
			File:      l.Name(),
			Kind:      l.Kind(),
			Parent:    l.ParentKind(),
			Records:   l.Len(),
			OrphanIDs: ids,
		})
		report.Orphans += len(ids)
	}
	return report
}
