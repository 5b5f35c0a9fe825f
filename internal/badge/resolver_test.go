package badge

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryo246912/gh-review-registry/internal/review"
)

const reviewID = "550e8400-e29b-41d4-a716-446655440000"

func registryWith(state review.State) *review.Registry {
	return &review.Registry{Reviews: map[string]review.Entry{
		reviewID: {
			State:          state,
			ReviewIssueURL: "https://github.com/o/r/issues/1",
			DOIURL:         "https://doi.org/10.1/x",
			Reviewers:      []string{"reviewer-a", "reviewer-b"},
		},
	}}
}

func TestResolve_AbsentIdentifier(t *testing.T) {
	b := Resolve("f47ac10b-58cc-4372-a567-0e02b2c3d479", registryWith(review.StateReviewed))

	assert.Equal(t, StateUnreviewed, b.State)
	assert.Empty(t, b.IssueURL)
	assert.Empty(t, b.DOIURL)
	assert.Empty(t, b.Reviewers)
}

func TestResolve_QueuedLooksUnreviewed(t *testing.T) {
	queued := Resolve(reviewID, registryWith(review.StateQueued))
	absent := Resolve(reviewID, &review.Registry{Reviews: map[string]review.Entry{}})

	assert.Equal(t, absent, queued)
	assert.Equal(t, StateUnreviewed, queued.State)
}

func TestResolve_CarriesFields(t *testing.T) {
	tests := []struct {
		state review.State
		want  DisplayState
	}{
		{review.StateInProgress, StateInProgress},
		{review.StateReviewed, StateReviewed},
		{review.StateStale, StateStale},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			b := Resolve(reviewID, registryWith(tt.state))
			assert.Equal(t, tt.want, b.State)
			assert.Equal(t, "https://github.com/o/r/issues/1", b.IssueURL)
			assert.Equal(t, "https://doi.org/10.1/x", b.DOIURL)
			assert.Equal(t, []string{"reviewer-a", "reviewer-b"}, b.Reviewers)
		})
	}
}

func TestResolve_NormalizesPageIdentifier(t *testing.T) {
	b := Resolve("  550E8400-E29B-41D4-A716-446655440000 ", registryWith(review.StateReviewed))
	assert.Equal(t, StateReviewed, b.State)
	assert.Equal(t, reviewID, b.ReviewID)
}

func TestResolve_NilRegistry(t *testing.T) {
	assert.Equal(t, StateUnreviewed, Resolve(reviewID, nil).State)
}

func TestResolve_RoundTripThroughArtifact(t *testing.T) {
	original := &review.Registry{
		GeneratedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Reviews: map[string]review.Entry{
			reviewID: {
				State:          review.StateStale,
				ReviewIssueURL: "https://github.com/o/r/issues/9",
				Reviewers:      []string{"a"},
			},
			"f47ac10b-58cc-4372-a567-0e02b2c3d479": {
				State:          review.StateQueued,
				ReviewIssueURL: "https://github.com/o/r/issues/10",
			},
		},
	}
	data, err := review.Marshal(original)
	require.NoError(t, err)
	decoded, err := review.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	stale := Resolve(reviewID, decoded)
	assert.Equal(t, Badge{
		ReviewID:  reviewID,
		State:     StateStale,
		IssueURL:  "https://github.com/o/r/issues/9",
		Reviewers: []string{"a"},
	}, stale)

	queued := Resolve("f47ac10b-58cc-4372-a567-0e02b2c3d479", decoded)
	assert.Equal(t, StateUnreviewed, queued.State)
	assert.Empty(t, queued.IssueURL)
}
