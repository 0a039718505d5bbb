/*
Package generic provides the domain-agnostic record engine.

PURPOSE:
  Every HR module (planning, recruitment, training, performance,
  compensation, employee relations) keeps a flat list of records in a JSON
  file, writes an audit entry for each mutation, and derives a few
  statistics on demand. This package implements that pattern once; the
  domain packages only declare a schema.

KEY CONCEPTS IN THIS FILE (types.go):
  - Meta:   id / created_at / updated_at carried by every record
  - Record: anything embedding Meta
  - Schema: per-domain validation, derived fields and audit wording

LAYERS:
  Backend/Blob   raw bytes for one named list (store/jsonfile, generic/store)
  Document[T]    typed load/save of one list (document.go)
  AuditLog       append-only history of mutations (audit.go)
  Store[T]       in-memory ordered collection + CRUD (store.go)
  LinkStore[T]   Store whose records point at a parent store (link.go)
  aggregate.go   pure statistics over a Store's current contents

USAGE:
  type Review struct {
      generic.Meta
      Emp   string `json:"emp"`
      Score int    `json:"score"`
  }

  reviews, err := generic.Open(ctx, backend, "kpi_data", audit, generic.Schema[Review]{
      Name:     "review",
      Validate: func(r *Review) error { ... },
  })
  created, err := reviews.Create(ctx, Review{Emp: "Alice", Score: 80})

SEE ALSO:
  - store.go: Store operations
  - errors.go: Error taxonomy
*/
package generic

// =============================================================================
// META - Fields the store owns on every record
// =============================================================================

// Meta is embedded by every domain record. The store assigns ID and
// CreatedAt on create and stamps UpdatedAt on every update; callers never
// set them.
type Meta struct {
	ID        string     `json:"id"`
	CreatedAt Timestamp  `json:"created_at"`
	UpdatedAt *Timestamp `json:"updated_at,omitempty"`
}

// GetMeta gives the store access to the embedded Meta of a record pointer.
func (m *Meta) GetMeta() *Meta { return m }

// Record is satisfied by a pointer to any struct embedding Meta.
type Record interface {
	GetMeta() *Meta
}

// RecordPtr constrains PT to be *T and a Record. Stores hold values of T
// and mutate them through PT.
type RecordPtr[T any] interface {
	*T
	Record
}

// =============================================================================
// SCHEMA - Per-domain behaviour plugged into the generic store
// =============================================================================

// Schema describes one domain's record type.
type Schema[T any] struct {
	// Name is the singular label used in audit entries and errors ("candidate").
	Name string

	// Validate rejects records with missing or out-of-range fields. It should
	// return a *ValidationError naming the offending field. It may normalize
	// the record (trim) before checking it. It runs on create and update.
	Validate func(*T) error

	// Defaults fills fields left at their zero value on create only, before
	// Validate. An update never re-defaults, so a cleared field is rejected.
	Defaults func(*T)

	// Derive recomputes derived fields (e.g. compensation total) after
	// validation on every create and update. Optional.
	Derive func(*T)

	// Describe renders the audit detail for one record. Optional; the id is
	// used when nil.
	Describe func(*T) string
}

func (s Schema[T]) describe(rec *T, id string) string {
	if s.Describe == nil {
		return id
	}
	return s.Describe(rec)
}
