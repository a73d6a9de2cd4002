package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/naka-gawa/stale-stars/internal/domain"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// DescriptionWidth is the console budget for repository descriptions.
const DescriptionWidth = 80

// PrintOptions controls console rendering.
type PrintOptions struct {
	// Top bounds every ranked list; zero lists everything.
	Top      int
	UseColor bool
}

// palette holds the color functions of one rendering.
type palette struct {
	red, yellow, green, cyan, bold func(...any) string
}

func newPalette(useColor bool) palette {
	if !useColor {
		return palette{red: fmt.Sprint, yellow: fmt.Sprint, green: fmt.Sprint, cyan: fmt.Sprint, bold: fmt.Sprint}
	}
	return palette{
		red:    color.New(color.FgRed).SprintFunc(),
		yellow: color.New(color.FgYellow).SprintFunc(),
		green:  color.New(color.FgGreen).SprintFunc(),
		cyan:   color.New(color.FgCyan).SprintFunc(),
		bold:   color.New(color.Bold).SprintFunc(),
	}
}

// printer keeps the first write error so sections can be written without
// checking every call.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) rule() {
	p.printf("%s\n", strings.Repeat("=", 80))
}

func (p *printer) table(headers []string, rows [][]string) {
	if p.err != nil {
		return
	}
	table := tablewriter.NewWriter(p.w)
	defer func() { _ = table.Close() }()
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	if err := table.Bulk(rows); err != nil {
		p.err = err
		return
	}
	p.err = table.Render()
}

// ConsoleProgress prints one status line per repository.
type ConsoleProgress struct {
	w       io.Writer
	palette palette
}

// NewConsoleProgress creates a ConsoleProgress writing to w.
func NewConsoleProgress(w io.Writer, useColor bool) *ConsoleProgress {
	return &ConsoleProgress{w: w, palette: newPalette(useColor)}
}

// BatchStarted announces a chunk.
func (c *ConsoleProgress) BatchStarted(batch, first, last, _ int) {
	fmt.Fprintf(c.w, "\n📦 Processing batch %d: repos %d-%d\n", batch, first, last)
}

// RepoStarted prints the position and name without a line break.
func (c *ConsoleProgress) RepoStarted(index, total int, ref domain.Reference) {
	fmt.Fprintf(c.w, "[%3d/%d] %-40s ", index, total, ref)
}

// RepoFinished completes the line started by RepoStarted.
func (c *ConsoleProgress) RepoFinished(_ domain.Reference, bucket domain.Bucket, result domain.StalenessResult) {
	p := c.palette
	var label string
	switch bucket {
	case domain.BucketMissing:
		label = p.red("❌ NOT FOUND")
	case domain.BucketError:
		label = p.yellow("⚠️  ERROR: " + strings.Join(result.Reasons, ", "))
	case domain.BucketArchived:
		label = p.cyan("🗄️  ARCHIVED")
	case domain.BucketStale:
		label = p.red(fmt.Sprintf("🔴 STALE (%d)", result.Score))
	case domain.BucketPossiblyStale:
		label = p.yellow(fmt.Sprintf("🟡 POSSIBLY STALE (%d)", result.Score))
	default:
		label = p.green(fmt.Sprintf("✅ ACTIVE (%d)", result.Score))
	}
	fmt.Fprintln(c.w, label)
}

// BatchPaused announces the pause between chunks.
func (c *ConsoleProgress) BatchPaused(pause time.Duration) {
	fmt.Fprintf(c.w, "\n⏸️  Pausing %s between batches...\n", pause)
}

func topN[T any](entries []T, n int) []T {
	if n > 0 && len(entries) > n {
		return entries[:n]
	}
	return entries
}

func analysisRows(entries []domain.RepoAnalysis) [][]string {
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		description := ""
		stars := "-"
		if e.RepoDetails != nil {
			description = Truncate(e.Description, DescriptionWidth)
			stars = strconv.Itoa(e.Stars)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			e.Repo,
			strconv.Itoa(e.Staleness.Score),
			stars,
			strings.Join(e.Staleness.Reasons, ", "),
			description,
		})
	}
	return rows
}

func focusedRows(entries []domain.FocusedEntry) [][]string {
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			e.Repo,
			strconv.Itoa(e.StalenessScore),
			strconv.Itoa(e.Stars),
			strings.Join(e.Reasons, ", "),
			Truncate(e.Description, DescriptionWidth),
		})
	}
	return rows
}

var rankedHeaders = []string{"#", "Repository", "Score", "Stars", "Reasons", "Description"}

// PrintAnalysisSummary renders the summary of a full run.
func PrintAnalysisSummary(w io.Writer, r *domain.AnalysisReport, opts PrintOptions) error {
	p := &printer{w: w}
	c := newPalette(opts.UseColor)

	p.printf("\n")
	p.rule()
	p.printf("%s\n", c.bold("STALENESS ANALYSIS SUMMARY"))
	p.rule()
	p.printf("Total repositories analyzed: %d\n", r.TotalRepos)
	p.printf("Stale repositories: %d\n", len(r.StaleRepos))
	p.printf("Possibly stale repositories: %d\n", len(r.PossiblyStaleRepos))
	p.printf("Active repositories: %d\n", len(r.ActiveRepos))
	p.printf("Error repositories: %d\n", len(r.ErrorRepos))

	if s := SummarizeScores(r.Scores()); s.Count > 0 {
		p.printf("Score distribution: mean %.1f, median %.1f, p90 %.1f\n", s.Mean, s.Median, s.P90)
	}

	if stale := topN(r.StaleRepos, opts.Top); len(stale) > 0 {
		p.printf("\n%s\n", c.red(fmt.Sprintf("🔴 TOP %d STALE REPOSITORIES:", len(stale))))
		p.table(rankedHeaders, analysisRows(stale))
	}

	if possibly := topN(r.PossiblyStaleRepos, opts.Top); len(possibly) > 0 {
		p.printf("\n%s\n", c.yellow(fmt.Sprintf("🟡 TOP %d POSSIBLY STALE REPOSITORIES:", len(possibly))))
		p.table(rankedHeaders, analysisRows(possibly))
	}

	if len(r.ErrorRepos) > 0 {
		p.printf("\n%s\n", c.red("❌ REPOSITORIES WITH ERRORS:"))
		p.printf("%s\n", strings.Repeat("-", 50))
		for _, e := range r.ErrorRepos {
			p.printf("• %s: %s\n", e.Repo, strings.Join(e.Staleness.Reasons, ", "))
		}
	}
	return p.err
}

// PrintFocusedSummary renders the summary of a chunked run, including the
// share of repositories that may need attention.
func PrintFocusedSummary(w io.Writer, r *domain.FocusedReport, outputFile string, opts PrintOptions) error {
	p := &printer{w: w}
	c := newPalette(opts.UseColor)

	p.printf("\n")
	p.rule()
	p.printf("%s\n", c.bold("📈 ANALYSIS SUMMARY"))
	p.rule()
	p.printf("Total repositories found: %d\n", r.TotalFound)
	p.printf("Successfully analyzed: %d\n", r.TotalAnalyzed)
	p.printf("Archived repositories: %d\n", len(r.ArchivedRepos))
	p.printf("Stale repositories: %d\n", len(r.StaleRepos))
	p.printf("Possibly stale repositories: %d\n", len(r.PossiblyStaleRepos))
	p.printf("Missing/deleted repositories: %d\n", len(r.MissingRepos))
	p.printf("Errors encountered: %d\n", r.ErrorCount)

	if stale := topN(r.StaleRepos, opts.Top); len(stale) > 0 {
		p.printf("\n%s\n", c.red(fmt.Sprintf("🔴 TOP %d STALE REPOSITORIES:", len(stale))))
		p.table(rankedHeaders, focusedRows(stale))
	}

	if archived := topN(r.ArchivedRepos, opts.Top); len(archived) > 0 {
		p.printf("\n%s\n", c.cyan(fmt.Sprintf("🗄️  ARCHIVED REPOSITORIES (%d):", len(r.ArchivedRepos))))
		p.table(rankedHeaders, focusedRows(archived))
		if hidden := len(r.ArchivedRepos) - len(archived); hidden > 0 {
			p.printf("  ... and %d more\n", hidden)
		}
	}

	if len(r.MissingRepos) > 0 {
		p.printf("\n%s\n", c.red(fmt.Sprintf("❌ MISSING/DELETED REPOSITORIES (%d):", len(r.MissingRepos))))
		p.printf("%s\n", strings.Repeat("-", 60))
		for _, e := range r.MissingRepos {
			p.printf("• %s\n", e.Repo)
		}
	}

	if problematic := r.ProblematicCount(); problematic > 0 && r.TotalFound > 0 {
		percentage := float64(problematic) / float64(r.TotalFound) * 100
		p.printf("\n💡 RECOMMENDATIONS:\n")
		p.printf("   %d repositories (%.1f%%) may need attention:\n", problematic, percentage)
		p.printf("   - Consider removing %d missing repositories\n", len(r.MissingRepos))
		p.printf("   - Review %d archived repositories\n", len(r.ArchivedRepos))
		p.printf("   - Evaluate %d stale repositories\n", len(r.StaleRepos))
		p.printf("   - Monitor %d possibly stale repositories\n", len(r.PossiblyStaleRepos))
	}

	if outputFile != "" {
		p.printf("\n%s\n", c.green(fmt.Sprintf("✅ Analysis complete! Check %s for detailed results.", outputFile)))
	}
	return p.err
}
