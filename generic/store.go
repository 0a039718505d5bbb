/*
store.go - Generic record store (one schema, one list, one audit log)

PURPOSE:
  Store[T] owns the in-memory, insertion-ordered collection of one domain's
  records for the lifetime of the process. It is loaded once from its
  Document at Open, and every mutation is followed by a full Save of the
  collection and one or more AuditLog entries.

OPERATIONS:
  Create       default, validate, assign id/created_at, derive, append, save, log
  All / List   read-only, optionally filtered view (never mutates)
  Get / Has    lookup by id
  Update       NotFound for unknown ids; re-validate, derive, stamp updated_at
  Delete       unknown ids are a silent no-op; removes, then cascades
  BatchDelete  same as Delete for many ids, one log entry per removed record
  DeleteWhere  predicate delete, same logging policy
  Import       JSON array of objects appended verbatim; FormatError otherwise
  Export       indented JSON of the full collection; never logged

ERROR POLICY:
  - Update/Get of an unknown id:  *NotFoundError
  - Delete of an unknown id:      no-op, nil error, no log entry
  - Invalid record:               *ValidationError, no mutation, no log entry
  - Failed save:                  in-memory state rolled back, error returned
  - Failed cascade save:          parent and earlier cascades restored and
                                  re-saved, error returned, nothing logged
  - Failed audit append:          the record change stands and is reported
                                  as success; the gap is logged at error level

CONCURRENCY:
  Operations are serialized with an RWMutex so the HTTP layer can call in
  from several goroutines. Several processes writing the same data directory
  still race: the last full-file save wins and there is no merge.

SEE ALSO:
  - link.go: Stores that reference a parent store and cascade with it
  - document.go: Persistence of the collection
  - audit.go: The log written on every mutation
*/
package generic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// CascadeFunc is run with the ids a store has just removed and saved. It
// removes and saves the dependants of those ids and returns them as a
// PendingDelete, nil when there were none. Returning an error aborts the
// whole delete: the parent restores and re-saves its records.
type CascadeFunc func(ctx context.Context, ids []string) (*PendingDelete, error)

// PendingDelete is a removal that has been saved but not yet logged. Exactly
// one of Commit or Rollback must be called; until then the store that
// staged it may still hold its lock.
type PendingDelete struct {
	commit   func(context.Context)
	rollback func(context.Context) error
}

// Commit writes the audit entries of the removal.
func (p *PendingDelete) Commit(ctx context.Context) {
	if p != nil {
		p.commit(ctx)
	}
}

// Rollback restores the removed records and saves them again.
func (p *PendingDelete) Rollback(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.rollback(ctx)
}

// then runs fn after whichever of Commit or Rollback happens.
func (p *PendingDelete) then(fn func()) *PendingDelete {
	return &PendingDelete{
		commit: func(ctx context.Context) {
			defer fn()
			p.commit(ctx)
		},
		rollback: func(ctx context.Context) error {
			defer fn()
			return p.rollback(ctx)
		},
	}
}

// Store is an ordered collection of records of one schema.
type Store[T any, PT RecordPtr[T]] struct {
	mu       sync.RWMutex
	schema   Schema[T]
	doc      *Document[T]
	audit    *AuditLog
	records  []T
	cascades []CascadeFunc

	clock  Clock
	newID  func() string
	logger *zap.Logger
}

// Open loads the list name from backend. A corrupt list is quarantined and
// reported as a warning; the store then starts empty rather than failing.
func Open[T any, PT RecordPtr[T]](ctx context.Context, backend Backend, name string, audit *AuditLog, schema Schema[T], opts ...Option) (*Store[T, PT], error) {
	o := newOptions(opts)
	doc := NewDocument[T](backend.Blob(name))
	logger := o.logger.With(zap.String("store", name))

	records, err := doc.Load(ctx)
	if err != nil {
		var corrupt *CorruptStoreError
		if !errors.As(err, &corrupt) {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		logger.Warn("data file was unreadable and has been quarantined; starting empty",
			zap.String("quarantined_to", corrupt.QuarantinedTo),
			zap.Error(corrupt.Err))
	}

	logger.Debug("store opened", zap.Int("records", len(records)))
	return &Store[T, PT]{
		schema:  schema,
		doc:     doc,
		audit:   audit,
		records: records,
		clock:   o.clock,
		newID:   o.newID,
		logger:  logger,
	}, nil
}

// Name is the persisted list name.
func (s *Store[T, PT]) Name() string { return s.doc.Name() }

// Kind is the schema's singular label.
func (s *Store[T, PT]) Kind() string { return s.schema.Name }

// Audit returns the log this store writes to.
func (s *Store[T, PT]) Audit() *AuditLog { return s.audit }

// OnDelete registers a cascade hook run before records are removed.
func (s *Store[T, PT]) OnDelete(fn CascadeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cascades = append(s.cascades, fn)
}

// =============================================================================
// CREATE / UPDATE
// =============================================================================

// Create validates rec, assigns its id and created_at, and appends it.
func (s *Store[T, PT]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	if s.schema.Defaults != nil {
		s.schema.Defaults(&rec)
	}
	if err := s.prepare(&rec); err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	meta := PT(&rec).GetMeta()
	meta.ID = s.newID()
	meta.CreatedAt = NewTimestamp(s.clock())
	meta.UpdatedAt = nil

	prev := s.records
	s.records = append(slices.Clip(s.records), rec)
	if err := s.doc.Save(ctx, s.records); err != nil {
		s.records = prev
		return zero, err
	}

	s.logger.Debug("record created", zap.String("id", meta.ID))
	s.record(ctx, AuditCreate, &rec, meta.ID)
	return rec, nil
}

// Update applies mutate to a copy of the record with the given id. The id
// and created_at survive whatever mutate does; updated_at is stamped.
func (s *Store[T, PT]) Update(ctx context.Context, id string, mutate func(PT) error) (T, error) {
	var zero T

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return zero, &NotFoundError{Kind: s.schema.Name, ID: id}
	}

	next := s.records[i]
	orig := *PT(&s.records[i]).GetMeta()
	// next shares the stored updated_at pointer; mutate must not reach it.
	PT(&next).GetMeta().UpdatedAt = nil
	if err := mutate(PT(&next)); err != nil {
		return zero, err
	}

	meta := PT(&next).GetMeta()
	meta.ID = orig.ID
	meta.CreatedAt = orig.CreatedAt
	if err := s.prepare(&next); err != nil {
		return zero, err
	}
	now := NewTimestamp(s.clock())
	meta.UpdatedAt = &now

	prev := s.records[i]
	s.records[i] = next
	if err := s.doc.Save(ctx, s.records); err != nil {
		s.records[i] = prev
		return zero, err
	}

	s.logger.Debug("record updated", zap.String("id", id))
	s.record(ctx, AuditUpdate, &next, id)
	return next, nil
}

func (s *Store[T, PT]) prepare(rec *T) error {
	if s.schema.Validate != nil {
		if err := s.schema.Validate(rec); err != nil {
			return err
		}
	}
	if s.schema.Derive != nil {
		s.schema.Derive(rec)
	}
	return nil
}

// =============================================================================
// READ
// =============================================================================

// All returns a view over the current collection narrowed by filters. Each
// iteration observes the collection as it is when the iteration starts.
func (s *Store[T, PT]) All(filters ...Filter[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		s.mu.RLock()
		snapshot := slices.Clone(s.records)
		s.mu.RUnlock()

		for _, rec := range snapshot {
			if !matchAll(rec, filters) {
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}

// List collects All into a slice. The result is never nil.
func (s *Store[T, PT]) List(filters ...Filter[T]) []T {
	out := slices.Collect(s.All(filters...))
	if out == nil {
		out = []T{}
	}
	return out
}

func (s *Store[T, PT]) Get(id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.records[i], nil
	}
	var zero T
	return zero, &NotFoundError{Kind: s.schema.Name, ID: id}
}

func (s *Store[T, PT]) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id) >= 0
}

// Resolve calls fn with whether id exists. The store is read-locked until fn
// returns, so id cannot be deleted in between.
func (s *Store[T, PT]) Resolve(id string, fn func(found bool) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.indexOf(id) >= 0)
}

func (s *Store[T, PT]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *Store[T, PT]) indexOf(id string) int {
	return slices.IndexFunc(s.records, func(rec T) bool {
		return PT(&rec).GetMeta().ID == id
	})
}

// =============================================================================
// DELETE
// =============================================================================

// Delete removes the record with the given id. Unknown ids are a no-op.
func (s *Store[T, PT]) Delete(ctx context.Context, id string) error {
	_, err := s.removeIDs(ctx, []string{id}, AuditDelete)
	return err
}

// BatchDelete removes every record whose id is in ids and returns how many
// were removed. Unknown ids are ignored.
func (s *Store[T, PT]) BatchDelete(ctx context.Context, ids []string) (int, error) {
	return s.removeIDs(ctx, ids, AuditBatchDelete)
}

// DeleteWhere removes every record matching pred.
func (s *Store[T, PT]) DeleteWhere(ctx context.Context, pred func(T) bool) (int, error) {
	return s.removeWhere(ctx, pred, AuditDelete)
}

func (s *Store[T, PT]) removeIDs(ctx context.Context, ids []string, action AuditAction) (int, error) {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	return s.removeWhere(ctx, func(rec T) bool {
		_, ok := want[PT(&rec).GetMeta().ID]
		return ok
	}, action)
}

func (s *Store[T, PT]) removeWhere(ctx context.Context, pred func(T) bool, action AuditAction) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, n, err := s.stageRemoval(ctx, pred, action)
	if err != nil {
		return 0, err
	}
	pending.Commit(ctx)
	return n, nil
}

// cascadeWhere stages the removal of the records matching pred on behalf of
// a parent's delete. The store stays locked until the parent commits or
// rolls back.
func (s *Store[T, PT]) cascadeWhere(ctx context.Context, pred func(T) bool) (*PendingDelete, error) {
	s.mu.Lock()
	pending, _, err := s.stageRemoval(ctx, pred, AuditCascade)
	if err != nil || pending == nil {
		s.mu.Unlock()
		return nil, err
	}
	return pending.then(s.mu.Unlock), nil
}

// stageRemoval removes and saves the records matching pred, then runs the
// cascades for their ids. Nothing is logged until the result is committed.
// The caller holds s.mu.
func (s *Store[T, PT]) stageRemoval(ctx context.Context, pred func(T) bool, action AuditAction) (*PendingDelete, int, error) {
	kept := make([]T, 0, len(s.records))
	var removed []T
	var ids []string
	for _, rec := range s.records {
		if pred(rec) {
			removed = append(removed, rec)
			ids = append(ids, PT(&rec).GetMeta().ID)
		} else {
			kept = append(kept, rec)
		}
	}
	if len(removed) == 0 {
		return nil, 0, nil
	}

	prev := s.records
	s.records = kept
	if err := s.doc.Save(ctx, s.records); err != nil {
		s.records = prev
		return nil, 0, err
	}

	var children []*PendingDelete
	rollback := func(ctx context.Context) error {
		var errs []error
		for i := len(children) - 1; i >= 0; i-- {
			errs = append(errs, children[i].Rollback(ctx))
		}
		s.records = prev
		if err := s.doc.Save(ctx, s.records); err != nil {
			errs = append(errs, fmt.Errorf("restore %s: %w", s.doc.Name(), err))
		}
		return errors.Join(errs...)
	}

	for _, cascade := range s.cascades {
		child, err := cascade(ctx, ids)
		if err != nil {
			err = fmt.Errorf("cascade delete from %s: %w", s.doc.Name(), err)
			if rerr := rollback(ctx); rerr != nil {
				s.logger.Error("cascade rollback incomplete; disk may hold orphaned records",
					zap.Error(rerr))
				err = errors.Join(err, rerr)
			}
			return nil, 0, err
		}
		if child != nil {
			children = append(children, child)
		}
	}

	commit := func(ctx context.Context) {
		for _, child := range children {
			child.Commit(ctx)
		}
		s.logger.Debug("records deleted", zap.Int("count", len(removed)), zap.String("action", string(action)))
		for i := range removed {
			s.record(ctx, action, &removed[i], ids[i])
		}
	}
	return &PendingDelete{commit: commit, rollback: rollback}, len(removed), nil
}

// =============================================================================
// IMPORT / EXPORT
// =============================================================================

// Import appends every record of a JSON array payload verbatim: ids are kept
// as given and not checked against existing ones. Anything other than an
// array of objects is rejected as a whole with a *FormatError.
func (s *Store[T, PT]) Import(ctx context.Context, payload []byte) (int, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return 0, &FormatError{Reason: "payload is not a JSON array"}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return 0, &FormatError{Reason: "payload is not a JSON array", Err: err}
	}

	items := make([]T, 0, len(raw))
	for i, elem := range raw {
		elem = bytes.TrimSpace(elem)
		if len(elem) == 0 || elem[0] != '{' {
			return 0, &FormatError{Reason: fmt.Sprintf("element %d is not an object", i)}
		}
		var item T
		if err := json.Unmarshal(elem, &item); err != nil {
			return 0, &FormatError{Reason: fmt.Sprintf("element %d does not match %s", i, s.schema.Name), Err: err}
		}
		items = append(items, item)
	}
	return s.ImportRecords(ctx, items)
}

// ImportRecords appends already-decoded records verbatim.
func (s *Store[T, PT]) ImportRecords(ctx context.Context, items []T) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.records
	s.records = append(slices.Clip(s.records), items...)
	if err := s.doc.Save(ctx, s.records); err != nil {
		s.records = prev
		return 0, err
	}

	s.logger.Debug("records imported", zap.Int("count", len(items)))
	s.appendAudit(ctx, AuditImport, fmt.Sprintf("%d %s records", len(items), s.schema.Name))
	return len(items), nil
}

// Export renders the full collection in its persisted layout.
func (s *Store[T, PT]) Export() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Encode(s.records)
}

func (s *Store[T, PT]) record(ctx context.Context, action AuditAction, rec *T, id string) {
	s.appendAudit(ctx, action, fmt.Sprintf("%s: %s", s.schema.Name, s.schema.describe(rec, id)))
}

// appendAudit logs a change that has already been saved. The change is not
// undone when the log cannot be written.
func (s *Store[T, PT]) appendAudit(ctx context.Context, action AuditAction, details string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Append(ctx, action, details); err != nil {
		s.logger.Error("change saved but not recorded in the audit log",
			zap.String("action", string(action)),
			zap.String("details", details),
			zap.Error(err))
	}
}
