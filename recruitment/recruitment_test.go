package recruitment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/hr-records/generic"
	"github.com/warp/hr-records/generic/store"
	"github.com/warp/hr-records/recruitment"
)

func openModule(t *testing.T) *recruitment.Module {
	t.Helper()
	mod, err := recruitment.Open(context.Background(), store.NewMemory())
	require.NoError(t, err)
	return mod
}

func TestCandidate_DefaultsAndRange(t *testing.T) {
	mod := openModule(t)
	ctx := context.Background()

	c, err := mod.Candidates.Create(ctx, recruitment.Candidate{Name: "Priya", Position: "Engineer"})
	require.NoError(t, err)
	assert.Equal(t, recruitment.DefaultRating, c.Rating)

	_, err = mod.Candidates.Create(ctx, recruitment.Candidate{Name: "Tom", Position: "Engineer", Rating: 6})
	assert.ErrorIs(t, err, generic.ErrValidation)

	_, err = mod.Candidates.Create(ctx, recruitment.Candidate{Name: "Tom"})
	var verr *generic.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "position", verr.Field)
}

func TestCandidate_UpdateToZeroRatingIsRejected(t *testing.T) {
	// GIVEN: A candidate rated 4
	mod := openModule(t)
	ctx := context.Background()
	c, err := mod.Candidates.Create(ctx, recruitment.Candidate{Name: "Priya", Position: "Engineer", Rating: 4})
	require.NoError(t, err)

	// WHEN: An update sets the rating to 0
	_, err = mod.Candidates.Update(ctx, c.ID, func(c *recruitment.Candidate) error {
		c.Rating = 0
		return nil
	})

	// THEN: It is out of range rather than reset to the default
	var verr *generic.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "rating", verr.Field)
	got, err := mod.Candidates.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Rating)
}

func TestInterview_LinkedToCandidate(t *testing.T) {
	// GIVEN: A candidate with two interviews
	mod := openModule(t)
	ctx := context.Background()
	c, err := mod.Candidates.Create(ctx, recruitment.Candidate{Name: "Priya", Position: "Engineer"})
	require.NoError(t, err)

	iv, err := mod.Interviews.Create(ctx, recruitment.Interview{CandidateID: c.ID, DateTime: "2025-04-02 10:30"})
	require.NoError(t, err)
	_, err = mod.Interviews.Create(ctx, recruitment.Interview{CandidateID: c.ID, DateTime: "2025-04-09 14:00", Location: "Room 4"})
	require.NoError(t, err)

	// THEN: The default location applies
	assert.Equal(t, recruitment.DefaultLocation, iv.Location)
	assert.Len(t, mod.Interviews.ByParent(c.ID), 2)

	// AND: Bad slots and unknown candidates are rejected
	_, err = mod.Interviews.Create(ctx, recruitment.Interview{CandidateID: c.ID, DateTime: "next tuesday"})
	assert.ErrorIs(t, err, generic.ErrValidation)
	_, err = mod.Interviews.Create(ctx, recruitment.Interview{CandidateID: "ghost", DateTime: "2025-04-02 10:30"})
	assert.ErrorIs(t, err, generic.ErrOrphanReference)

	// WHEN: The candidate is deleted
	require.NoError(t, mod.Candidates.Delete(ctx, c.ID))

	// THEN: No interview survives
	assert.Zero(t, mod.Interviews.Len())
}

func TestCandidate_SearchMatchesNameOrPosition(t *testing.T) {
	mod := openModule(t)
	ctx := context.Background()
	for _, c := range []recruitment.Candidate{
		{Name: "Ana Backend", Position: "Designer"},
		{Name: "Lena", Position: "Backend Engineer", Rating: 5},
		{Name: "Tom", Position: "Data Analyst", Rating: 1},
	} {
		_, err := mod.Candidates.Create(ctx, c)
		require.NoError(t, err)
	}

	assert.Len(t, mod.Candidates.List(recruitment.Query{Keyword: "backend"}.Filters()...), 2)
	assert.Len(t, mod.Candidates.List(recruitment.Query{Position: "Data Analyst"}.Filters()...), 1)
	assert.Len(t, mod.Candidates.List(recruitment.Query{}.Filters()...), 3)

	st := mod.Stats()
	assert.Equal(t, 3, st.Count)
	require.NotNil(t, st.AvgRating)
	assert.InDelta(t, 3.0, *st.AvgRating, 1e-9)
	assert.Len(t, st.ByPosition, 3)
	assert.Zero(t, st.Interviews)
}
