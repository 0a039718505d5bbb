/*
document.go - Typed load/save of one persisted list

PURPOSE:
  A Document owns one named list on a Backend. Load reads the whole list,
  Save overwrites the whole list. There is no partial write, no append and
  no versioning: every Store mutation is followed by a full Save.

CORRUPTION:
  A list that exists but does not parse is never silently replaced. Load
  asks the Blob to quarantine the unreadable bytes, then returns an empty
  list together with a *CorruptStoreError naming where the bytes went.
  Callers log the error and carry on with an empty collection.

BACKENDS:
  - store/jsonfile: one <name>.json file per list in a data directory
  - generic/store:  in-memory, for tests

SEE ALSO:
  - store.go: The Store calls Load once at Open and Save after each mutation
*/
package generic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrBlobNotFound is returned by Blob.Read when nothing has been written yet.
var ErrBlobNotFound = errors.New("blob not found")

// Blob is the raw persisted bytes of one named list.
type Blob interface {
	// Name identifies the list ("comp_data").
	Name() string

	// Read returns the full contents, or ErrBlobNotFound.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the full contents.
	Write(ctx context.Context, data []byte) error

	// Quarantine moves the current contents aside and returns where they went.
	Quarantine(ctx context.Context) (string, error)
}

// Backend hands out one Blob per list name. No two stores may share a name.
type Backend interface {
	Blob(name string) Blob
}

// Document loads and saves a list of T through a Blob.
type Document[T any] struct {
	blob Blob
}

func NewDocument[T any](blob Blob) *Document[T] {
	return &Document[T]{blob: blob}
}

func (d *Document[T]) Name() string { return d.blob.Name() }

// Load returns the persisted list. A missing list is empty. An unparsable
// list is quarantined and reported with a *CorruptStoreError; the returned
// slice is empty in that case.
func (d *Document[T]) Load(ctx context.Context) ([]T, error) {
	data, err := d.blob.Read(ctx)
	if errors.Is(err, ErrBlobNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.blob.Name(), err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	var items []T
	if perr := json.Unmarshal(data, &items); perr != nil {
		where, qerr := d.blob.Quarantine(ctx)
		if qerr != nil {
			return nil, fmt.Errorf("quarantine %s: %w", d.blob.Name(), qerr)
		}
		return []T{}, &CorruptStoreError{Name: d.blob.Name(), QuarantinedTo: where, Err: perr}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save overwrites the persisted list with items.
func (d *Document[T]) Save(ctx context.Context, items []T) error {
	data, err := Encode(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.blob.Name(), err)
	}
	if err := d.blob.Write(ctx, data); err != nil {
		return fmt.Errorf("write %s: %w", d.blob.Name(), err)
	}
	return nil
}

// Encode renders items as indented JSON without HTML escaping, the layout
// used for data files and exports alike.
func Encode[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
