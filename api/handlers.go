/*
handlers.go - HTTP API handlers for the HR record modules

PURPOSE:
  Exposes every module's record lists via REST. Handles HTTP request and
  response, JSON serialization, and delegates to the generic record store.
  Records go over the wire in their persisted layout.

ENDPOINTS (per module {m}):
  GET    /api/{m}/records                 List (?q=, ?category=, ?year=)
  POST   /api/{m}/records                 Create
  GET    /api/{m}/records/{id}            Get one
  PUT    /api/{m}/records/{id}            Partial update (fields present in body)
  DELETE /api/{m}/records/{id}            Delete (unknown id: still 204)
  POST   /api/{m}/records/batch-delete    {"ids": [...]}
  POST   /api/{m}/import                  Raw JSON array body, appended verbatim
  GET    /api/{m}/export                  Full list as a JSON download
  GET    /api/{m}/stats                   Aggregate view
  GET    /api/{m}/logs                    Audit log
  GET    /api/planning/calendar           Reminders from ?from=, soonest first

  Link lists (reminders, interviews, attendance, certificates) mount the
  same record routes plus import/export under /api/{m}/{list}, and filter
  by ?parent=.

ARCHITECTURE:
  collection[T] adapts one typed store to the record routes. Both Store and
  LinkStore satisfy crudStore, so link lists reuse it unchanged; LinkStore's
  own Create/Update carry the parent checks.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, orphan references, bad import payloads
  - 404: Record not found
  - 500: Persistence failures

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response envelopes
  - queries.go: Per-module query parameters
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warp/hr-records/factory"
	"github.com/warp/hr-records/generic"
)

// MaxBodyBytes bounds request bodies, imports included.
const MaxBodyBytes = 16 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Modules *factory.Modules
	Logger  *zap.Logger

	// Sweeper is optional; /api/integrity runs a check inline without it.
	Sweeper *IntegritySweeper

	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a handler over opened modules.
func NewHandler(mods *factory.Modules, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Modules: mods, Logger: logger}
}

// =============================================================================
// RECORD ROUTES - one typed list
// =============================================================================

// crudStore is what the record routes need from a list.
type crudStore[T any, PT generic.RecordPtr[T]] interface {
	factory.Collection
	List(filters ...generic.Filter[T]) []T
	Get(id string) (T, error)
	Create(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, id string, mutate func(PT) error) (T, error)
	Delete(ctx context.Context, id string) error
	BatchDelete(ctx context.Context, ids []string) (int, error)
}

type collection[T any, PT generic.RecordPtr[T]] struct {
	h     *Handler
	store crudStore[T, PT]
	query func(r *http.Request) []generic.Filter[T]
}

func newCollection[T any, PT generic.RecordPtr[T]](h *Handler, store crudStore[T, PT], query func(*http.Request) []generic.Filter[T]) *collection[T, PT] {
	return &collection[T, PT]{h: h, store: store, query: query}
}

// newLinkCollection filters a link list by ?parent=.
func newLinkCollection[T any, PT generic.RecordPtr[T]](h *Handler, store *generic.LinkStore[T, PT]) *collection[T, PT] {
	return newCollection[T, PT](h, store, func(r *http.Request) []generic.Filter[T] {
		return []generic.Filter[T]{store.ParentFilter(r.URL.Query().Get("parent"))}
	})
}

// routes mounts list/create/get/update/delete/batch-delete.
func (c *collection[T, PT]) routes(r chi.Router) {
	r.Get("/", c.list)
	r.Post("/", c.create)
	r.Post("/batch-delete", c.batchDelete)
	r.Get("/{id}", c.get)
	r.Put("/{id}", c.update)
	r.Delete("/{id}", c.delete)
}

// transferRoutes mounts import/export next to the record routes.
func (c *collection[T, PT]) transferRoutes(r chi.Router) {
	r.Post("/import", c.h.importList(c.store))
	r.Get("/export", c.h.exportList(c.store))
}

func (c *collection[T, PT]) list(w http.ResponseWriter, r *http.Request) {
	var filters []generic.Filter[T]
	if c.query != nil {
		filters = c.query(r)
	}
	writeJSON(w, http.StatusOK, c.store.List(filters...))
}

func (c *collection[T, PT]) get(w http.ResponseWriter, r *http.Request) {
	rec, err := c.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		c.h.writeStoreError(w, "Failed to get "+c.store.Kind(), err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (c *collection[T, PT]) create(w http.ResponseWriter, r *http.Request) {
	var rec T
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	created, err := c.store.Create(r.Context(), rec)
	if err != nil {
		c.h.writeStoreError(w, "Failed to create "+c.store.Kind(), err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// update applies the fields present in the body onto the stored record.
func (c *collection[T, PT]) update(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	updated, err := c.store.Update(r.Context(), chi.URLParam(r, "id"), func(p PT) error {
		if err := json.Unmarshal(body, p); err != nil {
			return &generic.ValidationError{Field: "body", Message: err.Error()}
		}
		return nil
	})
	if err != nil {
		c.h.writeStoreError(w, "Failed to update "+c.store.Kind(), err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (c *collection[T, PT]) delete(w http.ResponseWriter, r *http.Request) {
	if err := c.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		c.h.writeStoreError(w, "Failed to delete "+c.store.Kind(), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *collection[T, PT]) batchDelete(w http.ResponseWriter, r *http.Request) {
	var req BatchDeleteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	n, err := c.store.BatchDelete(r.Context(), req.IDs)
	if err != nil {
		c.h.writeStoreError(w, "Failed to delete "+c.store.Kind()+" records", err)
		return
	}
	writeJSON(w, http.StatusOK, BatchDeleteResponse{Deleted: n})
}

// =============================================================================
// MODULE ROUTES - import/export/stats/logs
// =============================================================================

// moduleRoutes mounts the module-wide endpoints of d; import and export
// address its primary list.
func (h *Handler) moduleRoutes(r chi.Router, d factory.Descriptor) {
	primary := d.Collections[factory.PrimaryList]
	r.Post("/import", h.importList(primary))
	r.Get("/export", h.exportList(primary))
	r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, d.Stats())
	})
	r.Get("/logs", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, LogsResponse{Module: d.Name, Entries: d.Log.Entries()})
	})
}

func (h *Handler) importList(c factory.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Failed to read import payload", err)
			return
		}

		n, err := c.Import(r.Context(), payload)
		if err != nil {
			h.writeStoreError(w, "Import into "+c.Name()+" failed", err)
			return
		}
		h.Logger.Info("records imported", zap.String("list", c.Name()), zap.Int("count", n))
		writeJSON(w, http.StatusOK, ImportResponse{Imported: n, Total: c.Len()})
	}
}

func (h *Handler) exportList(c factory.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		data, err := c.Export()
		if err != nil {
			h.writeStoreError(w, "Export of "+c.Name()+" failed", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.json"`, c.Name()))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

// =============================================================================
// CATALOG
// =============================================================================

// ListModules returns every module with its lists and counts.
// GET /api/modules
func (h *Handler) ListModules(w http.ResponseWriter, _ *http.Request) {
	catalog := h.Modules.Catalog()
	dtos := make([]ModuleDTO, 0, len(catalog))
	for _, d := range catalog {
		dto := ModuleDTO{Name: d.Name, Title: d.Title, LogEntries: d.Log.Len()}
		for _, key := range d.Lists() {
			c := d.Collections[key]
			dto.Lists = append(dto.Lists, ListDTO{Key: key, File: c.Name(), Kind: c.Kind(), Count: c.Len()})
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetIntegrity reports orphaned link records.
// GET /api/integrity
func (h *Handler) GetIntegrity(w http.ResponseWriter, _ *http.Request) {
	if h.Sweeper != nil {
		if report, ok := h.Sweeper.LastReport(); ok {
			writeJSON(w, http.StatusOK, report)
			return
		}
	}
	writeJSON(w, http.StatusOK, CheckIntegrity(h.Modules))
}

// GetCalendar lists planning reminders dated on or after ?from=, soonest first.
// GET /api/planning/calendar
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	if from != "" && !generic.ValidDate(from) {
		writeError(w, http.StatusBadRequest, "Invalid from date", fmt.Errorf("%q is not a YYYY-MM-DD date", from))
		return
	}
	writeJSON(w, http.StatusOK, h.Modules.Planning.Calendar(from))
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeStoreError maps store errors to a status and logs server-side ones.
func (h *Handler) writeStoreError(w http.ResponseWriter, message string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Logger.Error(message, zap.Error(err))
	}
	writeError(w, status, message, err)
}

func statusFor(err error) int {
	switch {
	case generic.IsNotFound(err):
		return http.StatusNotFound
	case generic.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
