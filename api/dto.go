/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Records themselves go over the wire in their persisted layout (the same
  JSON the data files hold), so there is no per-domain DTO. The types here
  cover the envelopes around them.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Operation results

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/hr-records/generic"
)

// =============================================================================
// CATALOG
// =============================================================================

// ModuleDTO describes one module for the menu.
type ModuleDTO struct {
	Name       string    `json:"name"`
	Title      string    `json:"title"`
	Lists      []ListDTO `json:"lists"`
	LogEntries int       `json:"log_entries"`
}

// ListDTO is one persisted list of a module.
type ListDTO struct {
	Key   string `json:"key"`
	File  string `json:"file"`
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// =============================================================================
// OPERATIONS
// =============================================================================

// BatchDeleteRequest selects records to delete.
type BatchDeleteRequest struct {
	IDs []string `json:"ids"`
}

type BatchDeleteResponse struct {
	Deleted int `json:"deleted"`
}

type ImportResponse struct {
	Imported int `json:"imported"`
	Total    int `json:"total"`
}

// LogsResponse wraps a module's audit log.
type LogsResponse struct {
	Module  string             `json:"module"`
	Entries []generic.LogEntry `json:"entries"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
	// Reset deletes every existing record before seeding.
	Reset bool `json:"reset"`
}

type LoadScenarioResponse struct {
	Scenario string         `json:"scenario"`
	Created  map[string]int `json:"created"`
}

// =============================================================================
// INTEGRITY
// =============================================================================

// IntegrityReportDTO is the result of one sweep over the link lists.
type IntegrityReportDTO struct {
	CheckedAt time.Time          `json:"checked_at"`
	Lists     []IntegrityListDTO `json:"lists"`
	Orphans   int                `json:"orphans"`
}

type IntegrityListDTO struct {
	File      string   `json:"file"`
	Kind      string   `json:"kind"`
	Parent    string   `json:"parent"`
	Records   int      `json:"records"`
	OrphanIDs []string `json:"orphan_ids"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
