/*
handlers_test.go - HTTP tests for the record routes

Tests for:
- CRUD over a primary list and status mapping (201/204/400/404)
- Partial update through PUT
- Batch delete, import and export
- Link lists: ?parent= filter, parent checks, cascade on parent delete
- Stats, logs and the module catalog
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/hr-records/compensation"
	"github.com/warp/hr-records/factory"
	"github.com/warp/hr-records/generic"
	"github.com/warp/hr-records/generic/store"
	"github.com/warp/hr-records/planning"
	"github.com/warp/hr-records/recruitment"
	"github.com/warp/hr-records/relations"
)

type testServer struct {
	h      *Handler
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	mods, err := factory.Open(context.Background(), store.NewMemory())
	require.NoError(t, err)
	h := NewHandler(mods, nil)
	return &testServer{h: h, router: NewRouter(h)}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	case []byte:
		buf.Write(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRecords_CRUD(t *testing.T) {
	s := newTestServer(t)

	// GIVEN: A compensation record created over HTTP
	rec := s.do(t, http.MethodPost, "/api/compensation/records", map[string]any{
		"emp": "Alice", "salary": 5000, "bonus": 500, "benefits": "health",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[compensation.Record](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "5500", created.Total.String())

	// WHEN: It is fetched
	rec = s.do(t, http.MethodGet, "/api/compensation/records/"+created.ID, nil)

	// THEN: The stored layout comes back
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decode[compensation.Record](t, rec).ID)

	// WHEN: Only the salary is updated
	rec = s.do(t, http.MethodPut, "/api/compensation/records/"+created.ID, `{"salary": 6000}`)

	// THEN: Other fields are kept and the total is derived again
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[compensation.Record](t, rec)
	assert.Equal(t, "Alice", updated.Emp)
	assert.Equal(t, "health", updated.Benefits)
	assert.Equal(t, "6500", updated.Total.String())
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.NotNil(t, updated.UpdatedAt)

	// WHEN: It is deleted twice
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/compensation/records/"+created.ID, nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/compensation/records/"+created.ID, nil).Code)

	// THEN: It is gone
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/compensation/records/"+created.ID, nil).Code)
	assert.Equal(t, "[]\n", s.do(t, http.MethodGet, "/api/compensation/records", nil).Body.String())
}

func TestRecords_ErrorStatus(t *testing.T) {
	s := newTestServer(t)
	existing := decode[relations.Case](t, s.do(t, http.MethodPost, "/api/relations/records", map[string]any{"issue": "noise"}))

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"malformed create body", http.MethodPost, "/api/relations/records", "{not json", http.StatusBadRequest},
		{"validation failure", http.MethodPost, "/api/relations/records", map[string]any{"issue": ""}, http.StatusBadRequest},
		{"unknown category", http.MethodPost, "/api/relations/records", map[string]any{"issue": "x", "category": "parking"}, http.StatusBadRequest},
		{"get unknown id", http.MethodGet, "/api/relations/records/missing", nil, http.StatusNotFound},
		{"update unknown id", http.MethodPut, "/api/relations/records/missing", `{"urgency": 2}`, http.StatusNotFound},
		{"update with array body", http.MethodPut, "/api/relations/records/" + existing.ID, `[1]`, http.StatusBadRequest},
		{"update to invalid value", http.MethodPut, "/api/relations/records/" + existing.ID, `{"urgency": 9}`, http.StatusBadRequest},
		{"update with wrong field type", http.MethodPut, "/api/relations/records/" + existing.ID, `{"urgency": "high"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.body)

			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[ErrorResponse](t, rec).Error)
		})
	}

	// AND: Failed updates left the record untouched
	got := decode[relations.Case](t, s.do(t, http.MethodGet, "/api/relations/records/"+existing.ID, nil))
	assert.Equal(t, relations.DefaultUrgency, got.Urgency)
}

func TestRecords_RejectedUpdateKeepsUpdatedAt(t *testing.T) {
	// GIVEN: A case that has been updated once
	s := newTestServer(t)
	created := decode[relations.Case](t, s.do(t, http.MethodPost, "/api/relations/records", map[string]any{"issue": "noise"}))
	rec := s.do(t, http.MethodPut, "/api/relations/records/"+created.ID, `{"urgency": 4}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stamp := decode[relations.Case](t, rec).UpdatedAt
	require.NotNil(t, stamp)

	// WHEN: An invalid update also carries an updated_at
	rec = s.do(t, http.MethodPut, "/api/relations/records/"+created.ID, `{"issue": "", "updated_at": "1999-12-31 00:00:00"}`)

	// THEN: It is rejected and the stored updated_at is unchanged
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	got := decode[relations.Case](t, s.do(t, http.MethodGet, "/api/relations/records/"+created.ID, nil))
	require.NotNil(t, got.UpdatedAt)
	assert.Equal(t, stamp.String(), got.UpdatedAt.String())
}

func TestRecords_ListFilters(t *testing.T) {
	s := newTestServer(t)
	for _, body := range []map[string]any{
		{"issue": "Noise in the office", "category": "work_environment"},
		{"emp": "Bob", "issue": "Noise again", "category": "work_environment"},
		{"issue": "Pay is late", "category": "compensation"},
	} {
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/relations/records", body).Code)
	}

	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"?q=noise", 2},
		{"?q=noise&anonymous=true", 1},
		{"?category=compensation", 1},
		{"?category=management", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/api/relations/records"+tt.query, nil)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Len(t, decode[[]relations.Case](t, rec), tt.want)
		})
	}
}

func TestRecords_BatchDelete(t *testing.T) {
	// GIVEN: Three reviews
	s := newTestServer(t)
	var ids []string
	for _, emp := range []string{"Alice", "Bob", "Chen"} {
		rec := s.do(t, http.MethodPost, "/api/performance/records", map[string]any{"emp": emp, "score": 70})
		require.Equal(t, http.StatusCreated, rec.Code)
		ids = append(ids, decode[generic.Meta](t, rec).ID)
	}

	// WHEN: Two of them plus an unknown id are batch deleted
	rec := s.do(t, http.MethodPost, "/api/performance/records/batch-delete", BatchDeleteRequest{IDs: []string{ids[0], "nope", ids[2]}})

	// THEN: Two were deleted and logged
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, decode[BatchDeleteResponse](t, rec).Deleted)
	logs := decode[LogsResponse](t, s.do(t, http.MethodGet, "/api/performance/logs", nil))
	assert.Equal(t, factory.Performance, logs.Module)
	require.Len(t, logs.Entries, 5)
	assert.Equal(t, generic.AuditDelete, logs.Entries[3].Action)
	assert.Equal(t, generic.AuditDelete, logs.Entries[4].Action)
}

func TestTransfer_ImportExport(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/compensation/records",
		map[string]any{"emp": "Alice", "salary": 5000, "bonus": 500}).Code)

	// WHEN: Two records are imported verbatim
	payload := `[
		{"id": "imp-1", "created_at": "2024-01-01 08:00:00", "emp": "Bob", "salary": "4000", "bonus": "0", "total": "4000", "benefits": ""},
		{"id": "imp-2", "created_at": "2024-01-02 08:00:00", "emp": "Chen", "salary": "3000", "bonus": "100", "total": "3100", "benefits": "gym"}
	]`
	rec := s.do(t, http.MethodPost, "/api/compensation/import", payload)

	// THEN: They are appended
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, ImportResponse{Imported: 2, Total: 3}, decode[ImportResponse](t, rec))

	// AND: Export returns every record as a download
	rec = s.do(t, http.MethodGet, "/api/compensation/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="comp_data.json"`)
	exported := decode[[]compensation.Record](t, rec)
	require.Len(t, exported, 3)
	assert.Equal(t, "imp-2", exported[2].ID)

	// AND: Bad payloads are rejected without changes
	for _, bad := range []string{`{"emp": "x"}`, `[1, 2]`, `not json`} {
		rec := s.do(t, http.MethodPost, "/api/compensation/import", bad)
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
	assert.Len(t, decode[[]compensation.Record](t, s.do(t, http.MethodGet, "/api/compensation/records", nil)), 3)
}

func TestLinks_ParentFilterAndCascade(t *testing.T) {
	// GIVEN: Two candidates with interviews
	s := newTestServer(t)
	var cands []recruitment.Candidate
	for _, name := range []string{"Priya", "Tom"} {
		rec := s.do(t, http.MethodPost, "/api/recruitment/records", map[string]any{"name": name, "position": "Engineer"})
		require.Equal(t, http.StatusCreated, rec.Code)
		cands = append(cands, decode[recruitment.Candidate](t, rec))
	}
	for i, c := range cands {
		for j := 0; j <= i; j++ {
			rec := s.do(t, http.MethodPost, "/api/recruitment/interviews", map[string]any{
				"candidate_id": c.ID, "datetime": "2025-04-0" + string(rune('1'+j)) + " 10:00",
			})
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		}
	}

	// THEN: ?parent= narrows the list
	assert.Len(t, decode[[]recruitment.Interview](t, s.do(t, http.MethodGet, "/api/recruitment/interviews?parent="+cands[1].ID, nil)), 2)
	assert.Len(t, decode[[]recruitment.Interview](t, s.do(t, http.MethodGet, "/api/recruitment/interviews", nil)), 3)

	// AND: Unknown parents are refused
	rec := s.do(t, http.MethodPost, "/api/recruitment/interviews", map[string]any{"candidate_id": "ghost", "datetime": "2025-04-01 10:00"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// WHEN: The second candidate is deleted
	require.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/recruitment/records/"+cands[1].ID, nil).Code)

	// THEN: Only the first candidate's interview remains
	left := decode[[]recruitment.Interview](t, s.do(t, http.MethodGet, "/api/recruitment/interviews", nil))
	require.Len(t, left, 1)
	assert.Equal(t, cands[0].ID, left[0].CandidateID)
}

func TestCalendar(t *testing.T) {
	s := newTestServer(t)
	plan := decode[planning.Requirement](t, s.do(t, http.MethodPost, "/api/planning/records", map[string]any{"year": 2025, "demand": "hire"}))
	for _, d := range []string{"2025-10-01", "2025-02-01", "2025-07-01"} {
		rec := s.do(t, http.MethodPost, "/api/planning/reminders", map[string]any{"plan_id": plan.ID, "date": d})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := s.do(t, http.MethodGet, "/api/planning/calendar?from=2025-03-01", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]planning.Reminder](t, rec)
	require.Len(t, got, 2)
	assert.Equal(t, "2025-07-01", got[0].Date)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/planning/calendar?from=March", nil).Code)
}

func TestModuleRoutes_StatsAndCatalog(t *testing.T) {
	s := newTestServer(t)
	for _, score := range []int{60, 90} {
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/performance/records", map[string]any{"emp": "A", "score": score}).Code)
	}

	stats := decode[map[string]any](t, s.do(t, http.MethodGet, "/api/performance/stats", nil))
	assert.EqualValues(t, 2, stats["count"])
	assert.EqualValues(t, 75, stats["avg_score"])

	empty := decode[map[string]any](t, s.do(t, http.MethodGet, "/api/relations/stats", nil))
	assert.Nil(t, empty["avg_urgency"])

	catalog := decode[[]ModuleDTO](t, s.do(t, http.MethodGet, "/api/modules", nil))
	require.Len(t, catalog, len(factory.Names))
	var perf ModuleDTO
	for _, m := range catalog {
		if m.Name == factory.Performance {
			perf = m
		}
	}
	assert.Equal(t, "Performance Management", perf.Title)
	assert.Equal(t, []ListDTO{{Key: factory.PrimaryList, File: "kpi_data", Kind: "review", Count: 2}}, perf.Lists)
	assert.Equal(t, 2, perf.LogEntries)
}
