// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"log"
	"time"

	"github.com/naka-gawa/stale-stars/internal/domain"
	"github.com/naka-gawa/stale-stars/internal/gateway"
	"github.com/naka-gawa/stale-stars/internal/report"
)

// Progress receives notifications while a run advances.
type Progress interface {
	BatchStarted(batch, first, last, total int)
	RepoStarted(index, total int, ref domain.Reference)
	RepoFinished(ref domain.Reference, bucket domain.Bucket, result domain.StalenessResult)
	BatchPaused(pause time.Duration)
}

type nopProgress struct{}

func (nopProgress) BatchStarted(int, int, int, int) {}
func (nopProgress) RepoStarted(int, int, domain.Reference) {}
func (nopProgress) RepoFinished(domain.Reference, domain.Bucket, domain.StalenessResult) {}
func (nopProgress) BatchPaused(time.Duration) {}

// Options tunes the pacing and content of a run.
type Options struct {
	// Host builds the browser URL of each entry.
	Host string
	// Delay separates consecutive repositories.
	Delay time.Duration
	// BatchSize is the chunk size of AnalyzeFocused.
	BatchSize int
	// BatchPause separates consecutive chunks of AnalyzeFocused.
	BatchPause time.Duration
	// FetchReleases records the latest release of each repository in Analyze.
	FetchReleases bool
	Progress      Progress
}

// Analyzer is the use case scoring every referenced repository.
// It processes repositories strictly one after another.
type Analyzer struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
	opts    Options
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer(fetcher gateway.Fetcher, logger *log.Logger, opts Options) *Analyzer {
	if opts.Progress == nil {
		opts.Progress = nopProgress{}
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	return &Analyzer{
		fetcher: fetcher,
		logger:  logger,
		opts:    opts,
		now:     time.Now,
		sleep:   sleepContext,
	}
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// fetch loads ref. A cancelled context is returned as abort, separately from
// the per-repository fetch error.
func (a *Analyzer) fetch(ctx context.Context, ref domain.Reference) (meta *domain.RepositoryMetadata, fetchErr, abort error) {
	meta, fetchErr = a.fetcher.FetchRepository(ctx, ref)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return meta, fetchErr, nil
}

// Analyze performs the full run: every reference is fetched, scored and filed
// by category. The report is written to outputPath when it is not empty.
// Only context cancellation stops the run early; nothing is written then.
func (a *Analyzer) Analyze(ctx context.Context, refs []domain.Reference, outputPath string) (*domain.AnalysisReport, error) {
	a.logger.Printf("Usecase: Starting analysis of %d repositories...", len(refs))
	now := a.now()
	result := domain.NewAnalysisReport(now, len(refs))

	for i, ref := range refs {
		if i > 0 {
			if err := a.sleep(ctx, a.opts.Delay); err != nil {
				return nil, err
			}
		}
		a.opts.Progress.RepoStarted(i+1, len(refs), ref)

		meta, fetchErr, err := a.fetch(ctx, ref)
		if err != nil {
			return nil, err
		}

		entry := domain.RepoAnalysis{
			Repo:      ref.String(),
			URL:       ref.URL(a.opts.Host),
			Staleness: domain.Evaluate(meta, fetchErr, now),
		}
		if fetchErr == nil && meta != nil {
			entry.RepoDetails = domain.NewRepoDetails(*meta)
			if a.opts.FetchReleases {
				if release, ok := a.fetcher.FetchLatestRelease(ctx, ref); ok {
					entry.LatestRelease = &release
				}
			}
		}

		bucket := result.Add(entry)
		a.opts.Progress.RepoFinished(ref, bucket, entry.Staleness)
	}

	result.Sort()
	a.logger.Println("Usecase: Analysis complete.")

	if outputPath != "" {
		if err := report.WriteJSONFile(outputPath, result); err != nil {
			return result, err
		}
		a.logger.Printf("Usecase: Results saved to %s", outputPath)
	}
	return result, nil
}
