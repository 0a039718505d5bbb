/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the browser UI

ROUTE GROUPS:
  /api/modules          Module catalog with list counts
  /api/integrity        Orphaned link records
  /api/scenarios/*      Demo data
  /api/planning/*       records, reminders, calendar
  /api/recruitment/*    records, interviews
  /api/training/*       records, attendance, certificates
  /api/performance/*    records
  /api/compensation/*   records
  /api/relations/*      records
  /                     Endpoint index page

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/hrd/serve.go: Server startup
*/
package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/warp/hr-records/compensation"
	"github.com/warp/hr-records/factory"
	"github.com/warp/hr-records/performance"
	"github.com/warp/hr-records/planning"
	"github.com/warp/hr-records/recruitment"
	"github.com/warp/hr-records/relations"
	"github.com/warp/hr-records/training"
)

// DefaultAllowedOrigins is used when NewRouter gets no origins.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins ...string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	m := h.Modules
	r.Route("/api", func(r chi.Router) {
		r.Get("/modules", h.ListModules)
		r.Get("/integrity", h.GetIntegrity)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})

		r.Route("/"+factory.Planning, func(r chi.Router) {
			h.moduleRoutes(r, h.describe(factory.Planning))
			r.Route("/records", newCollection[planning.Requirement](h, m.Planning.Requirements, planningQuery).routes)
			r.Get("/calendar", h.GetCalendar)
			r.Route("/reminders", func(r chi.Router) {
				c := newLinkCollection(h, m.Planning.Reminders)
				c.routes(r)
				c.transferRoutes(r)
			})
		})

		r.Route("/"+factory.Recruitment, func(r chi.Router) {
			h.moduleRoutes(r, h.describe(factory.Recruitment))
			r.Route("/records", newCollection[recruitment.Candidate](h, m.Recruitment.Candidates, recruitmentQuery).routes)
			r.Route("/interviews", func(r chi.Router) {
				c := newLinkCollection(h, m.Recruitment.Interviews)
				c.routes(r)
				c.transferRoutes(r)
			})
		})

		r.Route("/"+factory.Training, func(r chi.Router) {
			h.moduleRoutes(r, h.describe(factory.Training))
			r.Route("/records", newCollection[training.Course](h, m.Training.Courses, trainingQuery).routes)
			r.Route("/attendance", func(r chi.Router) {
				c := newLinkCollection(h, m.Training.Attendance)
				c.routes(r)
				c.transferRoutes(r)
			})
			r.Route("/certificates", func(r chi.Router) {
				c := newLinkCollection(h, m.Training.Certificates)
				c.routes(r)
				c.transferRoutes(r)
			})
		})

		r.Route("/"+factory.Performance, func(r chi.Router) {
			h.moduleRoutes(r, h.describe(factory.Performance))
			r.Route("/records", newCollection[performance.Review](h, m.Performance.Reviews, performanceQuery).routes)
		})

		r.Route("/"+factory.Compensation, func(r chi.Router) {
			h.moduleRoutes(r, h.describe(factory.Compensation))
			r.Route("/records", newCollection[compensation.Record](h, m.Compensation.Records, compensationQuery).routes)
		})

		r.Route("/"+factory.Relations, func(r chi.Router) {
			h.moduleRoutes(r, h.describe(factory.Relations))
			r.Route("/records", newCollection[relations.Case](h, m.Relations.Cases, relationsQuery).routes)
		})
	})

	r.Get("/", h.index)
	return r
}

func (h *Handler) describe(name string) factory.Descriptor {
	d, ok := h.Modules.Lookup(name)
	if !ok {
		panic("api: module not in catalog: " + name)
	}
	return d
}

func (h *Handler) index(w http.ResponseWriter, _ *http.Request) {
	var links strings.Builder
	for _, d := range h.Modules.Catalog() {
		fmt.Fprintf(&links, "<li>%s: <a href=\"/api/%s/records\">records</a>, <a href=\"/api/%s/stats\">stats</a>, <a href=\"/api/%s/logs\">logs</a></li>\n",
			d.Title, d.Name, d.Name, d.Name)
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>HR Records</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>HR Records API</h1>
<h2>Modules</h2>
<ul>
%s</ul>
<p><a href="/api/modules">/api/modules</a> - Module catalog</p>
<p><a href="/api/scenarios">/api/scenarios</a> - Demo scenarios</p>
<p><a href="/api/integrity">/api/integrity</a> - Orphaned link records</p>
<p><a href="/api/planning/calendar">/api/planning/calendar</a> - Planning reminders by date</p>
</body>
</html>`, links.String())
}
