package generic_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/warp/hr-records/generic"
	"github.com/warp/hr-records/generic/store"
)

// =============================================================================
// TEST RECORDS
// =============================================================================

// note is a minimal record: a required title and free text.
type note struct {
	generic.Meta
	Title string `json:"title"`
	Body  string `json:"body"`
	Words int    `json:"words"`
}

var noteSchema = generic.Schema[note]{
	Name: "note",
	Validate: func(n *note) error {
		n.Title = strings.TrimSpace(n.Title)
		if n.Title == "" {
			return generic.Required("title")
		}
		return nil
	},
	Derive:   func(n *note) { n.Words = len(strings.Fields(n.Body)) },
	Describe: func(n *note) string { return n.Title },
}

// comment links to a note.
type comment struct {
	generic.Meta
	NoteID string `json:"note_id"`
	Text   string `json:"text"`
}

var commentSchema = generic.Schema[comment]{Name: "comment"}

// =============================================================================
// FIXTURES
// =============================================================================

var testTime = time.Date(2025, 3, 10, 9, 30, 0, 0, time.Local)

// ticker advances one minute on every call.
type ticker struct{ now time.Time }

func (c *ticker) Now() time.Time {
	c.now = c.now.Add(time.Minute)
	return c.now
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%03d", n)
	}
}

func testOptions() []generic.Option {
	clock := &ticker{now: testTime}
	return []generic.Option{generic.WithClock(clock.Now), generic.WithIDGenerator(sequentialIDs())}
}

type notebook struct {
	notes    *generic.Store[note, *note]
	comments *generic.LinkStore[comment, *comment]
	log      *generic.AuditLog
}

func openNotebook(t *testing.T, backend generic.Backend, opts ...generic.Option) notebook {
	t.Helper()
	ctx := context.Background()
	if opts == nil {
		opts = testOptions()
	}

	log, err := generic.OpenAuditLog(ctx, backend, "note_logs", opts...)
	require.NoError(t, err)
	notes, err := generic.Open[note](ctx, backend, "notes", log, noteSchema, opts...)
	require.NoError(t, err)
	comments, err := generic.Open[comment](ctx, backend, "comments", log, commentSchema, opts...)
	require.NoError(t, err)

	return notebook{
		notes:    notes,
		comments: generic.Link(comments, notes, "note_id", func(c *comment) *string { return &c.NoteID }),
		log:      log,
	}
}

func mustCreate[T any](t *testing.T, s interface {
	Create(context.Context, T) (T, error)
}, rec T) T {
	t.Helper()
	created, err := s.Create(context.Background(), rec)
	require.NoError(t, err)
	return created
}

func actions(entries []generic.LogEntry) []generic.AuditAction {
	out := make([]generic.AuditAction, len(entries))
	for i, e := range entries {
		out[i] = e.Action
	}
	return out
}

// =============================================================================
// FAILING BACKEND
// =============================================================================

var errDiskFull = errors.New("disk full")

// flakyBackend fails every write while failWrites is set, or only writes to
// the blob named failBlob when that is set.
type flakyBackend struct {
	*store.Memory
	failWrites bool
	failBlob   string
}

func (b *flakyBackend) Blob(name string) generic.Blob {
	return &flakyBlob{Blob: b.Memory.Blob(name), name: name, parent: b}
}

type flakyBlob struct {
	generic.Blob
	name   string
	parent *flakyBackend
}

func (f *flakyBlob) Write(ctx context.Context, data []byte) error {
	if f.parent.failWrites || (f.parent.failBlob != "" && f.parent.failBlob == f.name) {
		return errDiskFull
	}
	return f.Blob.Write(ctx, data)
}
