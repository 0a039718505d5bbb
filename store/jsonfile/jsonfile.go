/*
Package jsonfile provides the on-disk Backend: one JSON file per list.

PURPOSE:
  Every list (records, link records, audit logs) lives in its own
  <data-dir>/<name>.json file, UTF-8, indented, human readable. The
  directory is the unit of deployment; copying it copies the whole system.

WRITES:
  Each Write replaces the whole file through renameio: the bytes go to a
  temporary file in the same directory, are fsynced, and the temporary file
  is renamed over the target. A crash mid-write leaves either the old or the
  new contents. Unix only, like renameio itself.

CORRUPTION:
  Quarantine renames an unreadable file to <name>.json.corrupt-<unix-nanos>
  so the next Write cannot destroy it. An operator can inspect and repair
  the file, then move it back.

CONCURRENCY:
  Nothing here guards against two processes sharing a directory. The last
  full-file write wins.

USAGE:
  backend, err := jsonfile.New("./data")
  store, err := generic.Open[compensation.Record](ctx, backend, "comp_data", audit, schema)
*/
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"

	"github.com/warp/hr-records/generic"
)

// Dir is a data directory holding one file per list.
type Dir struct {
	path string
	now  func() time.Time
}

// New returns a backend rooted at path, creating the directory if needed.
func New(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", path, err)
	}
	return &Dir{path: path, now: time.Now}, nil
}

// Path is the data directory.
func (d *Dir) Path() string { return d.path }

func (d *Dir) Blob(name string) generic.Blob {
	return &file{dir: d, name: name, path: filepath.Join(d.path, name+".json")}
}

type file struct {
	dir  *Dir
	name string
	path string
}

func (f *file) Name() string { return f.name }

func (f *file) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, generic.ErrBlobNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (f *file) Write(_ context.Context, data []byte) error {
	return renameio.WriteFile(f.path, data, 0o640)
}

func (f *file) Quarantine(_ context.Context) (string, error) {
	target := fmt.Sprintf("%s.corrupt-%d", f.path, f.dir.now().UnixNano())
	if err := os.Rename(f.path, target); err != nil {
		return "", err
	}
	return target, nil
}
