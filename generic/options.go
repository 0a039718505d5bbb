package generic

import "go.uber.org/zap"

// Option configures a Store or AuditLog.
type Option func(*options)

type options struct {
	clock  Clock
	newID  func() string
	logger *zap.Logger
}

func newOptions(opts []Option) options {
	o := options{
		clock:  SystemClock,
		newID:  newUUID,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock pins the time source used for created_at, updated_at and log
// timestamps.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithIDGenerator replaces the UUID generator used for new records and log
// entries.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

// WithLogger sets the logger used for warnings (quarantined files) and
// debug traces of mutations.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
