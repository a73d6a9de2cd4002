package domain

import (
	"sort"
	"time"
)

// Bucket names the report section a repository was filed under.
type Bucket string

const (
	BucketStale         Bucket = "stale"
	BucketPossiblyStale Bucket = "possibly_stale"
	BucketActive        Bucket = "active"
	BucketError         Bucket = "error"
	BucketArchived      Bucket = "archived"
	BucketMissing       Bucket = "missing"
)

// UnknownLanguage is reported for repositories without a detected language.
const UnknownLanguage = "Unknown"

// RepoDetails holds the descriptive fields of a successfully fetched repository.
type RepoDetails struct {
	Description   string     `json:"description"`
	Language      string     `json:"language"`
	Stars         int        `json:"stars"`
	LastPush      *time.Time `json:"last_push"`
	CreatedAt     *time.Time `json:"created_at"`
	Archived      bool       `json:"archived"`
	LatestRelease *Release   `json:"latest_release,omitempty"`
}

// NewRepoDetails copies the descriptive fields out of meta.
func NewRepoDetails(meta RepositoryMetadata) *RepoDetails {
	lang := meta.Language
	if lang == "" {
		lang = UnknownLanguage
	}
	return &RepoDetails{
		Description: meta.Description,
		Language:    lang,
		Stars:       meta.Stars,
		LastPush:    meta.PushedAt,
		CreatedAt:   meta.CreatedAt,
		Archived:    meta.Archived,
	}
}

// RepoAnalysis is one repository entry of an AnalysisReport.
// Details is nil when the repository could not be fetched.
type RepoAnalysis struct {
	Repo      string          `json:"repo"`
	URL       string          `json:"url"`
	Staleness StalenessResult `json:"staleness"`
	*RepoDetails
}

// AnalysisReport is the result of a full run, bucketed by category.
type AnalysisReport struct {
	AnalysisDate       time.Time      `json:"analysis_date"`
	TotalRepos         int            `json:"total_repos"`
	StaleRepos         []RepoAnalysis `json:"stale_repos"`
	PossiblyStaleRepos []RepoAnalysis `json:"possibly_stale_repos"`
	ActiveRepos        []RepoAnalysis `json:"active_repos"`
	ErrorRepos         []RepoAnalysis `json:"error_repos"`
}

// NewAnalysisReport creates an empty report for total repositories.
func NewAnalysisReport(date time.Time, total int) *AnalysisReport {
	return &AnalysisReport{
		AnalysisDate:       date,
		TotalRepos:         total,
		StaleRepos:         []RepoAnalysis{},
		PossiblyStaleRepos: []RepoAnalysis{},
		ActiveRepos:        []RepoAnalysis{},
		ErrorRepos:         []RepoAnalysis{},
	}
}

// BucketForCategory merges very_stale and stale into a single bucket.
func BucketForCategory(c Category) Bucket {
	switch c {
	case CategoryError:
		return BucketError
	case CategoryVeryStale, CategoryStale:
		return BucketStale
	case CategoryPossiblyStale:
		return BucketPossiblyStale
	default:
		return BucketActive
	}
}

// Add files entry under the bucket of its category and returns that bucket.
func (r *AnalysisReport) Add(entry RepoAnalysis) Bucket {
	bucket := BucketForCategory(entry.Staleness.Category)
	switch bucket {
	case BucketError:
		r.ErrorRepos = append(r.ErrorRepos, entry)
	case BucketStale:
		r.StaleRepos = append(r.StaleRepos, entry)
	case BucketPossiblyStale:
		r.PossiblyStaleRepos = append(r.PossiblyStaleRepos, entry)
	default:
		r.ActiveRepos = append(r.ActiveRepos, entry)
	}
	return bucket
}

// Sort orders the stale buckets by descending score.
func (r *AnalysisReport) Sort() {
	byScore := func(entries []RepoAnalysis) {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Staleness.Score > entries[j].Staleness.Score
		})
	}
	byScore(r.StaleRepos)
	byScore(r.PossiblyStaleRepos)
}

// Scores returns the scores of every successfully analyzed repository.
func (r *AnalysisReport) Scores() []int {
	scores := make([]int, 0, len(r.StaleRepos)+len(r.PossiblyStaleRepos)+len(r.ActiveRepos))
	for _, bucket := range [][]RepoAnalysis{r.StaleRepos, r.PossiblyStaleRepos, r.ActiveRepos} {
		for _, e := range bucket {
			scores = append(scores, e.Staleness.Score)
		}
	}
	return scores
}

// FocusedEntry is one scored repository of a FocusedReport.
type FocusedEntry struct {
	Repo           string     `json:"repo"`
	URL            string     `json:"url"`
	Description    string     `json:"description"`
	Language       string     `json:"language"`
	Stars          int        `json:"stars"`
	LastPush       *time.Time `json:"last_push"`
	Archived       bool       `json:"archived"`
	Fork           bool       `json:"fork"`
	StalenessScore int        `json:"staleness_score"`
	Reasons        []string   `json:"reasons"`
}

// FailedEntry records a repository that could not be analyzed.
type FailedEntry struct {
	Repo  string `json:"repo"`
	Error string `json:"error"`
}

// FocusedReport is the result of a chunked run.
type FocusedReport struct {
	AnalysisDate       time.Time      `json:"analysis_date"`
	TotalFound         int            `json:"total_found"`
	TotalAnalyzed      int            `json:"total_analyzed"`
	StaleRepos         []FocusedEntry `json:"stale_repos"`
	PossiblyStaleRepos []FocusedEntry `json:"possibly_stale_repos"`
	ArchivedRepos      []FocusedEntry `json:"archived_repos"`
	MissingRepos       []FailedEntry  `json:"missing_repos"`
	ErrorRepos         []FailedEntry  `json:"error_repos"`
	ErrorCount         int            `json:"error_count"`
	ActiveCount        int            `json:"active_count"`
}

// NewFocusedReport creates an empty chunked report for total repositories.
func NewFocusedReport(date time.Time, total int) *FocusedReport {
	return &FocusedReport{
		AnalysisDate:       date,
		TotalFound:         total,
		StaleRepos:         []FocusedEntry{},
		PossiblyStaleRepos: []FocusedEntry{},
		ArchivedRepos:      []FocusedEntry{},
		MissingRepos:       []FailedEntry{},
		ErrorRepos:         []FailedEntry{},
	}
}

// AddScored files a scored entry. Archived repositories go to the archived
// bucket whatever their score.
func (r *FocusedReport) AddScored(entry FocusedEntry) Bucket {
	r.TotalAnalyzed++
	switch {
	case entry.Archived:
		r.ArchivedRepos = append(r.ArchivedRepos, entry)
		return BucketArchived
	case entry.StalenessScore >= StaleThreshold:
		r.StaleRepos = append(r.StaleRepos, entry)
		return BucketStale
	case entry.StalenessScore >= PossiblyStaleThreshold:
		r.PossiblyStaleRepos = append(r.PossiblyStaleRepos, entry)
		return BucketPossiblyStale
	default:
		r.ActiveCount++
		return BucketActive
	}
}

// AddMissing records a repository the platform no longer knows about.
func (r *FocusedReport) AddMissing(repo string) {
	r.MissingRepos = append(r.MissingRepos, FailedEntry{Repo: repo, Error: "Repository not found (deleted/moved)"})
}

// AddError records any other fetch failure.
func (r *FocusedReport) AddError(repo, message string) {
	r.ErrorCount++
	r.ErrorRepos = append(r.ErrorRepos, FailedEntry{Repo: repo, Error: message})
}

// Sort orders every bucket: stale ones by descending score, archived by
// descending stars, failures alphabetically.
func (r *FocusedReport) Sort() {
	byScore := func(entries []FocusedEntry) {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].StalenessScore > entries[j].StalenessScore
		})
	}
	byName := func(entries []FailedEntry) {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Repo < entries[j].Repo
		})
	}
	byScore(r.StaleRepos)
	byScore(r.PossiblyStaleRepos)
	sort.SliceStable(r.ArchivedRepos, func(i, j int) bool {
		return r.ArchivedRepos[i].Stars > r.ArchivedRepos[j].Stars
	})
	byName(r.MissingRepos)
	byName(r.ErrorRepos)
}

// ProblematicCount is the number of stale, archived and missing repositories.
func (r *FocusedReport) ProblematicCount() int {
	return len(r.StaleRepos) + len(r.ArchivedRepos) + len(r.MissingRepos)
}
