package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/warp/hr-records/training"
)

// importOrphans appends attendance rows pointing at a course that does not exist.
func importOrphans(t *testing.T, s *testServer) {
	t.Helper()
	payload := []byte(`[{"id": "att-1", "created_at": "2025-01-01 09:00:00", "course_id": "gone", "employee": "Alice", "date": "2025-01-01", "present": true}]`)
	_, err := s.h.Modules.Training.Attendance.Import(context.Background(), payload)
	require.NoError(t, err)
}

func TestSweeper_ReportsOrphans(t *testing.T) {
	// GIVEN: An imported attendance row without its course
	s := newTestServer(t)
	importOrphans(t, s)
	core, logs := observer.New(zapcore.WarnLevel)
	sweeper := NewIntegritySweeper(s.h.Modules, zap.New(core))

	// WHEN: A sweep runs
	report := sweeper.Sweep()

	// THEN: The orphan is reported and logged, never deleted
	assert.Equal(t, 1, report.Orphans)
	for _, l := range report.Lists {
		if l.File == training.AttendanceFile {
			assert.Equal(t, []string{"att-1"}, l.OrphanIDs)
			assert.Equal(t, "course", l.Parent)
		}
	}
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "orphaned link records", logs.All()[0].Message)
	assert.Equal(t, 1, s.h.Modules.Training.Attendance.Len())

	last, ok := sweeper.LastReport()
	require.True(t, ok)
	assert.Equal(t, report, last)
}

func TestSweeper_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t)
	s := newTestServer(t)
	sweeper := NewIntegritySweeper(s.h.Modules, nil)
	sweeper.CheckInterval = time.Hour

	sweeper.Start()
	sweeper.Start()
	assert.Eventually(t, func() bool {
		_, ok := sweeper.LastReport()
		return ok
	}, time.Second, 10*time.Millisecond)
	sweeper.Stop()
	sweeper.Stop()

	disabled := NewIntegritySweeper(s.h.Modules, nil)
	disabled.Enabled = false
	disabled.Start()
	_, ok := disabled.LastReport()
	assert.False(t, ok)
}

func TestIntegrityEndpoint(t *testing.T) {
	s := newTestServer(t)
	importOrphans(t, s)

	// Without a sweeper the check runs inline.
	rec := s.do(t, http.MethodGet, "/api/integrity", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[IntegrityReportDTO](t, rec).Orphans)

	// With one, its last report is served.
	s.h.Sweeper = NewIntegritySweeper(s.h.Modules, nil)
	s.h.Sweeper.Sweep()
	require.NoError(t, s.h.Modules.Training.Attendance.Delete(context.Background(), "att-1"))
	assert.Equal(t, 1, decode[IntegrityReportDTO](t, s.do(t, http.MethodGet, "/api/integrity", nil)).Orphans)
}
