package report

import (
	"github.com/montanaflynn/stats"
)

// ScoreStats describes the distribution of staleness scores of a run.
type ScoreStats struct {
	Count  int
	Mean   float64
	Median float64
	P90    float64
}

// SummarizeScores computes the distribution of scores. An empty input yields zero stats.
func SummarizeScores(scores []int) ScoreStats {
	if len(scores) == 0 {
		return ScoreStats{}
	}
	data := make(stats.Float64Data, 0, len(scores))
	for _, s := range scores {
		data = append(data, float64(s))
	}
	// Errors only occur on empty input, handled above.
	mean, _ := data.Mean()
	median, _ := data.Median()
	p90, _ := data.Percentile(90)
	return ScoreStats{Count: len(scores), Mean: mean, Median: median, P90: p90}
}
