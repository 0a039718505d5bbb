/*
link.go - Auxiliary stores whose records reference a parent store

PURPOSE:
  Interviews belong to candidates, attendance sessions and certificates to
  courses, calendar reminders to planning requirements. A LinkStore is an
  ordinary Store plus a foreign-key field into a parent store.

INVARIANT:
  No link record survives a successful delete of its parent. Link registers
  a cascade hook on the parent, so the parent's Delete/BatchDelete removes
  dependent link records inside the same operation, once the parent's own
  save has succeeded. If the cascade fails, the parent is restored.

REFERENCES:
  - Create rejects an empty or unresolvable parent id. The parent stays
    read-locked from the check until the record is saved.
  - Update rejects a change of the parent id; a link record cannot be moved.
  - Import is verbatim and does not check parents; Orphans reports any
    dangling references that slipped in that way.

LOCK ORDER:
  parent -> child only. The parent holds its lock while cascading into the
  child; the child never holds its own lock while asking the parent.
*/
package generic

import (
	"context"
	"fmt"
)

// Parent is the side of a link that owns the referenced ids.
type Parent interface {
	Kind() string
	Has(id string) bool
	Resolve(id string, fn func(found bool) error) error
	OnDelete(fn CascadeFunc)
}

// LinkStore is a Store whose records carry a foreign id into a Parent.
type LinkStore[T any, PT RecordPtr[T]] struct {
	*Store[T, PT]
	parent  Parent
	field   string
	foreign func(*T) *string
}

// Link binds child to parent through the foreign-key field (named field in
// errors) and registers the cascade on the parent.
func Link[T any, PT RecordPtr[T]](child *Store[T, PT], parent Parent, field string, foreign func(*T) *string) *LinkStore[T, PT] {
	l := &LinkStore[T, PT]{
		Store:   child,
		parent:  parent,
		field:   field,
		foreign: foreign,
	}
	parent.OnDelete(func(ctx context.Context, ids []string) (*PendingDelete, error) {
		return l.cascadeWhere(ctx, l.parentsFilter(ids))
	})
	return l
}

// Create checks the parent reference, then creates rec while the parent
// cannot delete it.
func (l *LinkStore[T, PT]) Create(ctx context.Context, rec T) (T, error) {
	parentID := *l.foreign(&rec)
	if parentID == "" {
		var zero T
		return zero, Required(l.field)
	}

	var created T
	err := l.parent.Resolve(parentID, func(found bool) error {
		if !found {
			return &OrphanReferenceError{Kind: l.Kind(), Field: l.field, ParentID: parentID}
		}
		var err error
		created, err = l.Store.Create(ctx, rec)
		return err
	})
	return created, err
}

// Update behaves like Store.Update but rejects a change of the parent id.
func (l *LinkStore[T, PT]) Update(ctx context.Context, id string, mutate func(PT) error) (T, error) {
	return l.Store.Update(ctx, id, func(p PT) error {
		keep := *l.foreign((*T)(p))
		if err := mutate(p); err != nil {
			return err
		}
		if moved := *l.foreign((*T)(p)); moved != keep {
			return &ValidationError{Field: l.field, Message: fmt.Sprintf("cannot move a %s to another %s", l.Kind(), l.parent.Kind())}
		}
		return nil
	})
}

// ParentID returns the foreign id of rec.
func (l *LinkStore[T, PT]) ParentID(rec T) string { return *l.foreign(&rec) }

// ByParent returns the link records of one parent, in insertion order.
func (l *LinkStore[T, PT]) ByParent(parentID string) []T {
	return l.List(l.ParentFilter(parentID))
}

// ParentFilter matches link records of parentID. Empty matches everything.
func (l *LinkStore[T, PT]) ParentFilter(parentID string) Filter[T] {
	if parentID == "" {
		return nil
	}
	return func(rec T) bool { return *l.foreign(&rec) == parentID }
}

// DeleteByParent removes every link record referencing one of parentIDs.
func (l *LinkStore[T, PT]) DeleteByParent(ctx context.Context, parentIDs ...string) (int, error) {
	return l.removeWhere(ctx, l.parentsFilter(parentIDs), AuditCascade)
}

func (l *LinkStore[T, PT]) parentsFilter(parentIDs []string) func(T) bool {
	want := make(map[string]struct{}, len(parentIDs))
	for _, id := range parentIDs {
		want[id] = struct{}{}
	}
	return func(rec T) bool {
		_, ok := want[*l.foreign(&rec)]
		return ok
	}
}

// Orphans returns link records whose parent no longer resolves.
func (l *LinkStore[T, PT]) Orphans() []T {
	var out []T
	for _, rec := range l.List() {
		if !l.parent.Has(*l.foreign(&rec)) {
			out = append(out, rec)
		}
	}
	return out
}

// OrphanIDs returns the ids of Orphans.
func (l *LinkStore[T, PT]) OrphanIDs() []string {
	orphans := l.Orphans()
	ids := make([]string, len(orphans))
	for i := range orphans {
		ids[i] = PT(&orphans[i]).GetMeta().ID
	}
	return ids
}

// ParentKind is the parent store's record label.
func (l *LinkStore[T, PT]) ParentKind() string { return l.parent.Kind() }
