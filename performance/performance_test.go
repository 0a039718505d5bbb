package performance_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/hr-records/generic"
	"github.com/warp/hr-records/generic/store"
	"github.com/warp/hr-records/performance"
)

func TestReview_ScoreRange(t *testing.T) {
	mod, err := performance.Open(context.Background(), store.NewMemory())
	require.NoError(t, err)
	ctx := context.Background()

	for _, score := range []int{0, 100} {
		_, err := mod.Reviews.Create(ctx, performance.Review{Emp: "Alice", Score: score})
		assert.NoError(t, err, "score %d", score)
	}
	for _, score := range []int{-1, 101} {
		_, err := mod.Reviews.Create(ctx, performance.Review{Emp: "Alice", Score: score})
		assert.ErrorIs(t, err, generic.ErrValidation, "score %d", score)
	}
	assert.Equal(t, 2, mod.Reviews.Len())
}

func TestReview_Stats(t *testing.T) {
	// GIVEN: No reviews
	mod, err := performance.Open(context.Background(), store.NewMemory())
	require.NoError(t, err)
	ctx := context.Background()

	// THEN: The mean is undefined, not zero
	empty := mod.Stats()
	assert.Zero(t, empty.Count)
	assert.Nil(t, empty.AvgScore)
	assert.Nil(t, empty.ScoreHistogram)

	// WHEN: Reviews are recorded
	for _, r := range []performance.Review{
		{Emp: "Alice", Score: 90, Comments: "great ownership"},
		{Emp: "Bob", Score: 60, Comments: "needs ownership of deadlines"},
		{Emp: "Chen", Score: 75, Comments: "steady"},
	} {
		_, err := mod.Reviews.Create(ctx, r)
		require.NoError(t, err)
	}

	// THEN: Stats summarize them
	st := mod.Stats()
	assert.Equal(t, 3, st.Count)
	require.NotNil(t, st.AvgScore)
	assert.InDelta(t, 75.0, *st.AvgScore, 1e-9)
	require.Len(t, st.ScoreHistogram, performance.ScoreBins)
	assert.Equal(t, 1, st.ScoreHistogram[0].Count)
	assert.Equal(t, 1, st.ScoreHistogram[performance.ScoreBins-1].Count)
	assert.Equal(t, generic.Bucket{Key: "ownership", Count: 2}, st.TopComments[0])

	assert.Len(t, mod.Reviews.List(performance.Query{Employee: "bo"}.Filters()...), 1)
}
