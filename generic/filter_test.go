package generic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warp/hr-records/generic"
	"github.com/warp/hr-records/generic/store"
)

func TestFilters(t *testing.T) {
	title := func(n note) string { return n.Title }
	body := func(n note) string { return n.Body }

	rec := note{Title: "Budget Review", Body: "numbers"}
	rec.CreatedAt = generic.NewTimestamp(testTime)

	tests := []struct {
		name   string
		filter generic.Filter[note]
		want   bool
	}{
		{"contains ignores case", generic.Contains(title, "budget"), true},
		{"contains misses", generic.Contains(title, "hiring"), false},
		{"equals exact", generic.Equals(title, "Budget Review"), true},
		{"equals is case sensitive", generic.Equals(title, "budget review"), false},
		{"created year", generic.CreatedPrefix[note]("2025"), true},
		{"created month", generic.CreatedPrefix[note]("2025-03"), true},
		{"created other year", generic.CreatedPrefix[note]("2024"), false},
		{"any of, second matches", generic.AnyOf(generic.Contains(title, "zzz"), generic.Contains(body, "NUM")), true},
		{"any of, none match", generic.AnyOf(generic.Contains(title, "zzz"), generic.Contains(body, "zzz")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter(rec))
		})
	}
}

func TestFilters_EmptyCriteriaMatchEverything(t *testing.T) {
	title := func(n note) string { return n.Title }

	assert.Nil(t, generic.Contains(title, ""))
	assert.Nil(t, generic.Equals(title, ""))
	assert.Nil(t, generic.CreatedPrefix[note](""))
	assert.Nil(t, generic.AnyOf(generic.Contains(title, ""), nil))

	nb := openNotebook(t, store.NewMemory())
	mustCreate[note](t, nb.notes, note{Title: "a"})
	mustCreate[note](t, nb.notes, note{Title: "b"})
	assert.Len(t, nb.notes.List(generic.Contains(title, ""), nil), 2)
}
