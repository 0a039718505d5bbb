package generic

import "strings"

// Filter narrows a Store view. A nil Filter matches everything.
type Filter[T any] func(T) bool

// Contains matches records whose field contains substr, ignoring case.
// An empty substr matches everything.
func Contains[T any](field func(T) string, substr string) Filter[T] {
	if substr == "" {
		return nil
	}
	needle := strings.ToLower(substr)
	return func(rec T) bool {
		return strings.Contains(strings.ToLower(field(rec)), needle)
	}
}

// Equals matches records whose field is exactly value. An empty value
// matches everything.
func Equals[T any](field func(T) string, value string) Filter[T] {
	if value == "" {
		return nil
	}
	return func(rec T) bool { return field(rec) == value }
}

// CreatedPrefix matches records whose created_at text starts with prefix,
// e.g. "2025" or "2025-03".
func CreatedPrefix[T any, PT RecordPtr[T]](prefix string) Filter[T] {
	if prefix == "" {
		return nil
	}
	return func(rec T) bool {
		return PT(&rec).GetMeta().CreatedAt.HasPrefix(prefix)
	}
}

// AnyOf matches records accepted by at least one non-nil filter. With no
// non-nil filters it matches everything.
func AnyOf[T any](filters ...Filter[T]) Filter[T] {
	var active []Filter[T]
	for _, f := range filters {
		if f != nil {
			active = append(active, f)
		}
	}
	if len(active) == 0 {
		return nil
	}
	return func(rec T) bool {
		for _, f := range active {
			if f(rec) {
				return true
			}
		}
		return false
	}
}

func matchAll[T any](rec T, filters []Filter[T]) bool {
	for _, f := range filters {
		if f != nil && !f(rec) {
			return false
		}
	}
	return true
}
