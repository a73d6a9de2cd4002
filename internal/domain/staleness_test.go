package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func daysAgo(days int) *time.Time {
	t := fixedNow.Add(-time.Duration(days) * 24 * time.Hour)
	return &t
}

func TestScore(t *testing.T) {
	testCases := []struct {
		name     string
		meta     RepositoryMetadata
		expected StalenessResult
	}{
		{
			name: "every signal adds up",
			meta: RepositoryMetadata{Archived: true, Fork: true, Stars: 3, PushedAt: daysAgo(6 * 365)},
			expected: StalenessResult{
				Score: 105,
				Reasons: []string{
					"Repository is archived",
					"Repository is a fork",
					"No commits in 6 years",
					"Low adoption (3 stars)",
				},
				IsStale:  true,
				Category: CategoryVeryStale,
			},
		},
		{
			name:     "healthy repository",
			meta:     RepositoryMetadata{Stars: 1200, PushedAt: daysAgo(3)},
			expected: StalenessResult{Score: 0, Reasons: []string{}, Category: CategoryActive},
		},
		{
			name: "366 days falls in the one year bracket only",
			meta: RepositoryMetadata{Stars: 100, PushedAt: daysAgo(366)},
			expected: StalenessResult{
				Score:    20,
				Reasons:  []string{"No commits in 366 days"},
				Category: CategoryActive,
			},
		},
		{
			name: "two year bracket reports years",
			meta: RepositoryMetadata{Stars: 100, PushedAt: daysAgo(800)},
			expected: StalenessResult{
				Score:    30,
				Reasons:  []string{"No commits in 2 years"},
				Category: CategoryPossiblyStale,
			},
		},
		{
			name: "six month bracket",
			meta: RepositoryMetadata{Stars: 100, PushedAt: daysAgo(181)},
			expected: StalenessResult{
				Score:    10,
				Reasons:  []string{"No commits in 181 days"},
				Category: CategoryActive,
			},
		},
		{
			name:     "exactly 180 days adds nothing",
			meta:     RepositoryMetadata{Stars: 100, PushedAt: daysAgo(180)},
			expected: StalenessResult{Score: 0, Reasons: []string{}, Category: CategoryActive},
		},
		{
			name: "archived alone is stale",
			meta: RepositoryMetadata{Archived: true, Stars: 50, PushedAt: daysAgo(10)},
			expected: StalenessResult{
				Score:    50,
				Reasons:  []string{"Repository is archived"},
				IsStale:  true,
				Category: CategoryStale,
			},
		},
		{
			name: "missing push date skips the age rule",
			meta: RepositoryMetadata{Stars: 0},
			expected: StalenessResult{
				Score:    5,
				Reasons:  []string{"Low adoption (0 stars)"},
				Category: CategoryActive,
			},
		},
		{
			name: "recent low star fork crosses possibly stale",
			meta: RepositoryMetadata{Fork: true, Stars: 2, PushedAt: daysAgo(400)},
			expected: StalenessResult{
				Score:    35,
				Reasons:  []string{"Repository is a fork", "No commits in 400 days", "Low adoption (2 stars)"},
				Category: CategoryPossiblyStale,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Score(tc.meta, fixedNow))
		})
	}
}

func TestScore_StarBoundary(t *testing.T) {
	for _, tc := range []struct {
		stars    int
		expected int
	}{
		{stars: 9, expected: 5},
		{stars: 10, expected: 0},
	} {
		t.Run(fmt.Sprintf("%d stars", tc.stars), func(t *testing.T) {
			res := Score(RepositoryMetadata{Stars: tc.stars, PushedAt: daysAgo(1)}, fixedNow)
			assert.Equal(t, tc.expected, res.Score)
		})
	}
}

func TestScore_Deterministic(t *testing.T) {
	meta := RepositoryMetadata{Fork: true, Stars: 4, PushedAt: daysAgo(900)}
	assert.Equal(t, Score(meta, fixedNow), Score(meta, fixedNow))
}

func TestEvaluate_ErrorShortCircuits(t *testing.T) {
	meta := &RepositoryMetadata{Archived: true, Fork: true, Stars: 1, PushedAt: daysAgo(5000)}
	res := Evaluate(meta, NewFetchError(404, errors.New("404 Not Found")), fixedNow)

	assert.Equal(t, StalenessResult{
		Score:    100,
		Reasons:  []string{"Repository not found"},
		IsStale:  true,
		Category: CategoryError,
	}, res)
}

func TestEvaluate_NilMetadata(t *testing.T) {
	res := Evaluate(nil, nil, fixedNow)
	assert.Equal(t, CategoryError, res.Category)
	assert.Equal(t, ErrorScore, res.Score)
}

func TestCategoryFor(t *testing.T) {
	testCases := map[int]Category{
		0:   CategoryActive,
		29:  CategoryActive,
		30:  CategoryPossiblyStale,
		49:  CategoryPossiblyStale,
		50:  CategoryStale,
		69:  CategoryStale,
		70:  CategoryVeryStale,
		105: CategoryVeryStale,
	}
	for score, expected := range testCases {
		assert.Equal(t, expected, CategoryFor(score), "score %d", score)
	}
}

func TestFetchError(t *testing.T) {
	testCases := []struct {
		status  int
		kind    ErrorKind
		message string
	}{
		{status: 404, kind: ErrorNotFound, message: "Repository not found"},
		{status: 403, kind: ErrorRateLimited, message: "Rate limited or access denied"},
		{status: 500, kind: ErrorHTTP, message: "HTTP 500"},
		{status: 451, kind: ErrorHTTP, message: "HTTP 451"},
		{status: 0, kind: ErrorUnknown, message: "connection refused"},
	}
	for _, tc := range testCases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			cause := errors.New("connection refused")
			fe := NewFetchError(tc.status, cause)
			assert.Equal(t, tc.kind, fe.Kind)
			assert.Equal(t, tc.message, fe.Error())
			assert.ErrorIs(t, fe, cause)
		})
	}

	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", NewFetchError(404, nil))))
	assert.False(t, IsNotFound(NewFetchError(500, nil)))
}
