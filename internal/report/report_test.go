package report

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/naka-gawa/stale-stars/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reportDate = time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)

func sampleAnalysisReport() *domain.AnalysisReport {
	r := domain.NewAnalysisReport(reportDate, 4)
	r.Add(domain.RepoAnalysis{
		Repo:        "old/tool",
		URL:         "https://github.com/old/tool",
		Staleness:   domain.StalenessResult{Score: 75, Reasons: []string{"Repository is archived", "No commits in 4 years"}, IsStale: true, Category: domain.CategoryVeryStale},
		RepoDetails: &domain.RepoDetails{Description: strings.Repeat("d", 120), Language: "Go", Stars: 40},
	})
	r.Add(domain.RepoAnalysis{
		Repo:        "maybe/lib",
		URL:         "https://github.com/maybe/lib",
		Staleness:   domain.StalenessResult{Score: 35, Reasons: []string{"Repository is a fork"}, Category: domain.CategoryPossiblyStale},
		RepoDetails: &domain.RepoDetails{Language: "Rust", Stars: 3},
	})
	r.Add(domain.RepoAnalysis{
		Repo:        "fine/app",
		Staleness:   domain.StalenessResult{Score: 0, Reasons: []string{}, Category: domain.CategoryActive},
		RepoDetails: &domain.RepoDetails{Stars: 900},
	})
	r.Add(domain.RepoAnalysis{
		Repo:      "gone/repo",
		URL:       "https://github.com/gone/repo",
		Staleness: domain.ScoreError(domain.NewFetchError(404, nil)),
	})
	r.Sort()
	return r
}

func sampleFocusedReport() *domain.FocusedReport {
	r := domain.NewFocusedReport(reportDate, 8)
	r.AddScored(domain.FocusedEntry{Repo: "old/tool", StalenessScore: 60, Stars: 2, Reasons: []string{"No commits in 3 years"}})
	for i, stars := range []int{5, 50, 500} {
		r.AddScored(domain.FocusedEntry{Repo: "arch/" + string(rune('a'+i)), Archived: true, Stars: stars, StalenessScore: 50})
	}
	r.AddScored(domain.FocusedEntry{Repo: "fine/app", StalenessScore: 0})
	r.AddMissing("gone/repo")
	r.AddError("limited/repo", "Rate limited or access denied")
	r.Sort()
	return r
}

func TestPrintAnalysisSummary(t *testing.T) {
	var buf bytes.Buffer
	err := PrintAnalysisSummary(&buf, sampleAnalysisReport(), PrintOptions{Top: 10})
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "STALENESS ANALYSIS SUMMARY")
	assert.Contains(t, output, "Total repositories analyzed: 4")
	assert.Contains(t, output, "Stale repositories: 1")
	assert.Contains(t, output, "Error repositories: 1")
	assert.Contains(t, output, "old/tool")
	assert.Contains(t, output, "maybe/lib")
	assert.Contains(t, output, "• gone/repo: Repository not found")
	assert.Contains(t, output, "Score distribution: mean 36.7, median 35.0")
	assert.NotContains(t, output, strings.Repeat("d", 81), "descriptions are truncated")
}

func TestPrintFocusedSummary(t *testing.T) {
	var buf bytes.Buffer
	err := PrintFocusedSummary(&buf, sampleFocusedReport(), "out.json", PrintOptions{Top: 2})
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Total repositories found: 8")
	assert.Contains(t, output, "Successfully analyzed: 5")
	assert.Contains(t, output, "ARCHIVED REPOSITORIES (3)")
	assert.Contains(t, output, "... and 1 more")
	assert.Contains(t, output, "• gone/repo")
	assert.Contains(t, output, "5 repositories (62.5%) may need attention")
	assert.Contains(t, output, "Check out.json for detailed results")
}

func TestPrintSummary_TopHeadings(t *testing.T) {
	testCases := []struct {
		name        string
		top         int
		contains    []string
		notContains []string
	}{
		{
			name:        "zero top lists every entry",
			top:         0,
			contains:    []string{"TOP 1 STALE REPOSITORIES", "TOP 1 POSSIBLY STALE REPOSITORIES", "arch/a"},
			notContains: []string{"TOP 0", "... and"},
		},
		{
			name:        "top larger than bucket shows the real count",
			top:         10,
			contains:    []string{"TOP 1 STALE REPOSITORIES", "arch/a"},
			notContains: []string{"TOP 10", "... and"},
		},
		{
			name:        "top smaller than bucket hides the rest",
			top:         1,
			contains:    []string{"TOP 1 STALE REPOSITORIES", "... and 2 more"},
			notContains: []string{"arch/a"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := PrintOptions{Top: tc.top}
			require.NoError(t, PrintAnalysisSummary(&buf, sampleAnalysisReport(), opts))
			require.NoError(t, PrintFocusedSummary(&buf, sampleFocusedReport(), "", opts))

			output := buf.String()
			for _, want := range tc.contains {
				assert.Contains(t, output, want)
			}
			for _, unwanted := range tc.notContains {
				assert.NotContains(t, output, unwanted)
			}
		})
	}
}

func TestConsoleProgress(t *testing.T) {
	var buf bytes.Buffer
	progress := NewConsoleProgress(&buf, false)
	ref := domain.Reference{Owner: "a", Name: "b"}

	progress.BatchStarted(2, 51, 100, 120)
	progress.RepoStarted(51, 120, ref)
	progress.RepoFinished(ref, domain.BucketStale, domain.StalenessResult{Score: 65})
	progress.RepoStarted(52, 120, ref)
	progress.RepoFinished(ref, domain.BucketMissing, domain.StalenessResult{})
	progress.BatchPaused(2 * time.Second)

	output := buf.String()
	assert.Contains(t, output, "Processing batch 2: repos 51-100")
	assert.Contains(t, output, "[ 51/120] a/b")
	assert.Contains(t, output, "🔴 STALE (65)")
	assert.Contains(t, output, "❌ NOT FOUND")
	assert.Contains(t, output, "Pausing 2s between batches")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 80))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "日本", TruncateRunes("日本語", 2))
	assert.Equal(t, "", TruncateRunes("", 2))
}

func TestSummarizeScores(t *testing.T) {
	assert.Equal(t, ScoreStats{}, SummarizeScores(nil))

	s := SummarizeScores([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	assert.Equal(t, 10, s.Count)
	assert.InDelta(t, 5.5, s.Mean, 0.001)
	assert.InDelta(t, 5.5, s.Median, 0.001)
	assert.InDelta(t, 9.0, s.P90, 0.001)
}

func TestWriteJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteJSONFile(path, sampleAnalysisReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(4), decoded["total_repos"])
	assert.Len(t, decoded["stale_repos"], 1)
	assert.Contains(t, string(data), "\n  \"analysis_date\"")
}

func TestWriteJSONFile_BadPath(t *testing.T) {
	err := WriteJSONFile(filepath.Join(t.TempDir(), "missing", "report.json"), struct{}{})
	assert.Error(t, err)
}

func TestWriteMarkdown(t *testing.T) {
	t.Run("analysis", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteAnalysisMarkdown(&buf, sampleAnalysisReport(), 10))
		output := buf.String()
		assert.Contains(t, output, "# Staleness Analysis")
		assert.Contains(t, output, "## Stale repositories")
		assert.Contains(t, output, "[old/tool](https://github.com/old/tool)")
		assert.Contains(t, output, "## Repositories with errors")
	})

	t.Run("focused", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.md")
		require.NoError(t, WriteMarkdownFile(path, func(w io.Writer) error {
			return WriteFocusedMarkdown(w, sampleFocusedReport(), 10)
		}))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "## Archived repositories")
		assert.Contains(t, string(data), "## Missing repositories")
		assert.Contains(t, string(data), "may need attention")
	})
}
