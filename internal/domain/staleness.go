package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Category is the score-derived label of a repository.
type Category string

const (
	CategoryError         Category = "error"
	CategoryVeryStale     Category = "very_stale"
	CategoryStale         Category = "stale"
	CategoryPossiblyStale Category = "possibly_stale"
	CategoryActive        Category = "active"
)

// Score thresholds.
const (
	VeryStaleThreshold     = 70
	StaleThreshold         = 50
	PossiblyStaleThreshold = 30
	ErrorScore             = 100
)

const (
	archivedPoints    = 50
	forkPoints        = 10
	lowStarsPoints    = 5
	lowStarsThreshold = 10
	daysPerYear       = 365
)

// ageBrackets are ordered from the highest threshold down; only the first one
// exceeded contributes.
var ageBrackets = []struct {
	days    int
	points  int
	inYears bool
}{
	{days: 3 * daysPerYear, points: 40, inYears: true},
	{days: 2 * daysPerYear, points: 30, inYears: true},
	{days: daysPerYear, points: 20},
	{days: 180, points: 10},
}

// StalenessResult is the outcome of scoring one repository.
type StalenessResult struct {
	Score    int      `json:"staleness_score"`
	Reasons  []string `json:"reasons"`
	IsStale  bool     `json:"is_stale"`
	Category Category `json:"category"`
}

// Score applies the additive staleness heuristic to meta.
// now is the reference instant for the push age; the function has no other inputs.
func Score(meta RepositoryMetadata, now time.Time) StalenessResult {
	score := 0
	reasons := []string{}

	if meta.Archived {
		score += archivedPoints
		reasons = append(reasons, "Repository is archived")
	}

	if meta.Fork {
		score += forkPoints
		reasons = append(reasons, "Repository is a fork")
	}

	if meta.PushedAt != nil {
		days := DaysSince(*meta.PushedAt, now)
		for _, b := range ageBrackets {
			if days <= b.days {
				continue
			}
			score += b.points
			if b.inYears {
				reasons = append(reasons, fmt.Sprintf("No commits in %d years", days/daysPerYear))
			} else {
				reasons = append(reasons, fmt.Sprintf("No commits in %d days", days))
			}
			break
		}
	}

	// Few stars can mean lack of adoption.
	if meta.Stars < lowStarsThreshold {
		score += lowStarsPoints
		reasons = append(reasons, fmt.Sprintf("Low adoption (%d stars)", meta.Stars))
	}

	return StalenessResult{
		Score:    score,
		Reasons:  reasons,
		IsStale:  score >= StaleThreshold,
		Category: CategoryFor(score),
	}
}

// ScoreError converts a fetch failure into a terminal result.
func ScoreError(err error) StalenessResult {
	if err == nil {
		err = errors.New("unknown error")
	}
	return StalenessResult{
		Score:    ErrorScore,
		Reasons:  []string{err.Error()},
		IsStale:  true,
		Category: CategoryError,
	}
}

// Evaluate scores meta, or err when the fetch failed. An error always wins.
func Evaluate(meta *RepositoryMetadata, err error, now time.Time) StalenessResult {
	if err != nil {
		return ScoreError(err)
	}
	if meta == nil {
		return ScoreError(errors.New("no repository metadata"))
	}
	return Score(*meta, now)
}

// CategoryFor maps a total score to its category.
func CategoryFor(score int) Category {
	switch {
	case score >= VeryStaleThreshold:
		return CategoryVeryStale
	case score >= StaleThreshold:
		return CategoryStale
	case score >= PossiblyStaleThreshold:
		return CategoryPossiblyStale
	default:
		return CategoryActive
	}
}

// DaysSince returns the number of whole days elapsed between t and now.
func DaysSince(t, now time.Time) int {
	return int(math.Floor(now.Sub(t).Hours() / 24))
}
