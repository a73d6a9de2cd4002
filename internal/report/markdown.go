package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/naka-gawa/stale-stars/internal/domain"
)

// WriteMarkdownFile renders a report with render into the file at path.
func WriteMarkdownFile(path string, render func(io.Writer) error) error {
	return writeFile(path, render)
}

func repoLink(repo, url string) string {
	return fmt.Sprintf("[%s](%s)", repo, url)
}

// cell keeps table cells on one line.
func cell(s string) string {
	return strings.NewReplacer("|", "\\|", "\n", " ").Replace(s)
}

// WriteAnalysisMarkdown renders a full run as Markdown.
func WriteAnalysisMarkdown(w io.Writer, r *domain.AnalysisReport, top int) error {
	md := markdown.NewMarkdown(w)

	md.H1("Staleness Analysis")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Bucket", "Repositories"},
		Rows: [][]string{
			{"Analyzed", strconv.Itoa(r.TotalRepos)},
			{"🔴 Stale", strconv.Itoa(len(r.StaleRepos))},
			{"🟡 Possibly stale", strconv.Itoa(len(r.PossiblyStaleRepos))},
			{"✅ Active", strconv.Itoa(len(r.ActiveRepos))},
			{"❌ Errors", strconv.Itoa(len(r.ErrorRepos))},
		},
	})
	md.PlainText("")
	md.PlainTextf("Generated on %s.", r.AnalysisDate.Format("2006-01-02 15:04:05 MST"))
	md.PlainText("")

	writeAnalysisSection(md, "Stale repositories", topN(r.StaleRepos, top))
	writeAnalysisSection(md, "Possibly stale repositories", topN(r.PossiblyStaleRepos, top))

	if len(r.ErrorRepos) > 0 {
		md.H2("Repositories with errors")
		md.PlainText("")
		items := make([]string, 0, len(r.ErrorRepos))
		for _, e := range r.ErrorRepos {
			items = append(items, fmt.Sprintf("%s: %s", repoLink(e.Repo, e.URL), strings.Join(e.Staleness.Reasons, ", ")))
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	return md.Build()
}

func writeAnalysisSection(md *markdown.Markdown, title string, entries []domain.RepoAnalysis) {
	if len(entries) == 0 {
		return
	}
	md.H2(title)
	md.PlainText("")
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		stars := "-"
		description := ""
		if e.RepoDetails != nil {
			stars = strconv.Itoa(e.Stars)
			description = Truncate(e.Description, DescriptionWidth)
		}
		rows = append(rows, []string{
			repoLink(e.Repo, e.URL),
			strconv.Itoa(e.Staleness.Score),
			stars,
			cell(strings.Join(e.Staleness.Reasons, ", ")),
			cell(description),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Repository", "Score", "Stars", "Reasons", "Description"},
		Rows:   rows,
	})
	md.PlainText("")
}

// WriteFocusedMarkdown renders a chunked run as Markdown.
func WriteFocusedMarkdown(w io.Writer, r *domain.FocusedReport, top int) error {
	md := markdown.NewMarkdown(w)

	md.H1("Staleness Analysis")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Bucket", "Repositories"},
		Rows: [][]string{
			{"Found", strconv.Itoa(r.TotalFound)},
			{"Analyzed", strconv.Itoa(r.TotalAnalyzed)},
			{"🗄️ Archived", strconv.Itoa(len(r.ArchivedRepos))},
			{"🔴 Stale", strconv.Itoa(len(r.StaleRepos))},
			{"🟡 Possibly stale", strconv.Itoa(len(r.PossiblyStaleRepos))},
			{"❌ Missing", strconv.Itoa(len(r.MissingRepos))},
			{"⚠️ Errors", strconv.Itoa(r.ErrorCount)},
		},
	})
	md.PlainText("")

	if problematic := r.ProblematicCount(); problematic > 0 && r.TotalFound > 0 {
		md.Warningf("%d repositories (%.1f%%) may need attention.",
			problematic, float64(problematic)/float64(r.TotalFound)*100)
	} else {
		md.Tip("No repository needs attention.")
	}
	md.PlainText("")

	writeFocusedSection(md, "Stale repositories", topN(r.StaleRepos, top))
	writeFocusedSection(md, "Possibly stale repositories", topN(r.PossiblyStaleRepos, top))
	writeFocusedSection(md, "Archived repositories", topN(r.ArchivedRepos, top))

	if len(r.MissingRepos) > 0 {
		md.H2("Missing repositories")
		md.PlainText("")
		items := make([]string, 0, len(r.MissingRepos))
		for _, e := range r.MissingRepos {
			items = append(items, e.Repo)
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	return md.Build()
}

func writeFocusedSection(md *markdown.Markdown, title string, entries []domain.FocusedEntry) {
	if len(entries) == 0 {
		return
	}
	md.H2(title)
	md.PlainText("")
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			repoLink(e.Repo, e.URL),
			strconv.Itoa(e.StalenessScore),
			strconv.Itoa(e.Stars),
			cell(strings.Join(e.Reasons, ", ")),
			cell(Truncate(e.Description, DescriptionWidth)),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Repository", "Score", "Stars", "Reasons", "Description"},
		Rows:   rows,
	})
	md.PlainText("")
}
