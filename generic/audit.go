package generic

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// =============================================================================
// AUDIT LOG - Append-only history of mutating actions
// =============================================================================

// AuditAction labels what a log entry records.
type AuditAction string

const (
	AuditCreate      AuditAction = "create"
	AuditUpdate      AuditAction = "update"
	AuditDelete      AuditAction = "delete"
	AuditBatchDelete AuditAction = "batch_delete"
	AuditCascade     AuditAction = "cascade_delete"
	AuditImport      AuditAction = "import"
)

// LogEntry is one immutable audit record.
type LogEntry struct {
	ID        string      `json:"id"`
	Action    AuditAction `json:"action"`
	Details   string      `json:"details"`
	Timestamp Timestamp   `json:"timestamp"`
}

// AuditLog appends entries in chronological order and persists the whole
// log after each append. Entries are never edited or removed.
type AuditLog struct {
	mu      sync.Mutex
	doc     *Document[LogEntry]
	entries []LogEntry
	clock   Clock
	newID   func() string
}

// OpenAuditLog loads the log named name from backend. A corrupt log is
// quarantined, reported as a warning, and started afresh.
func OpenAuditLog(ctx context.Context, backend Backend, name string, opts ...Option) (*AuditLog, error) {
	o := newOptions(opts)
	doc := NewDocument[LogEntry](backend.Blob(name))

	entries, err := doc.Load(ctx)
	if err != nil {
		var corrupt *CorruptStoreError
		if !errors.As(err, &corrupt) {
			return nil, err
		}
		o.logger.Sugar().Warnw("audit log was unreadable and has been quarantined",
			"log", name, "error", err)
	}

	return &AuditLog{
		doc:     doc,
		entries: entries,
		clock:   o.clock,
		newID:   o.newID,
	}, nil
}

// Append records action with details and persists the log. When the save
// fails the entry is dropped again, so Entries matches what is on disk.
func (l *AuditLog) Append(ctx context.Context, action AuditAction, details string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.entries
	l.entries = append(slices.Clip(l.entries), LogEntry{
		ID:        l.newID(),
		Action:    action,
		Details:   details,
		Timestamp: NewTimestamp(l.clock()),
	})
	if err := l.doc.Save(ctx, l.entries); err != nil {
		l.entries = prev
		return fmt.Errorf("audit %s: %w", action, err)
	}
	return nil
}

// Entries returns a copy of the log, oldest first.
func (l *AuditLog) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *AuditLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Export renders the log in its persisted layout.
func (l *AuditLog) Export() ([]byte, error) {
	return Encode(l.Entries())
}

func newUUID() string { return uuid.NewString() }
