package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/naka-gawa/stale-stars/internal/domain"
	"github.com/naka-gawa/stale-stars/internal/report"
)

// focusedDescriptionLimit bounds the description stored per entry.
const focusedDescriptionLimit = 100

// FocusedOutputPath returns the timestamped report path used by chunked runs.
func FocusedOutputPath(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("staleness_analysis_%s.json", now.Format("20060102_150405")))
}

// AnalyzeFocused performs the chunked run. Repositories are processed in
// chunks of Options.BatchSize with Options.BatchPause between chunks.
// Archived repositories are filed as archived whatever their score; missing
// repositories and other failures are recorded separately.
func (a *Analyzer) AnalyzeFocused(ctx context.Context, refs []domain.Reference, outputPath string) (*domain.FocusedReport, error) {
	a.logger.Printf("Usecase: Starting focused analysis of %d repositories...", len(refs))
	now := a.now()
	result := domain.NewFocusedReport(now, len(refs))
	size := a.opts.BatchSize

	for start := 0; start < len(refs); start += size {
		end := min(start+size, len(refs))
		a.opts.Progress.BatchStarted(start/size+1, start+1, end, len(refs))

		for i, ref := range refs[start:end] {
			if i > 0 {
				if err := a.sleep(ctx, a.opts.Delay); err != nil {
					return nil, err
				}
			}
			a.opts.Progress.RepoStarted(start+i+1, len(refs), ref)

			meta, fetchErr, err := a.fetch(ctx, ref)
			if err != nil {
				return nil, err
			}
			staleness := domain.Evaluate(meta, fetchErr, now)

			var bucket domain.Bucket
			switch {
			case domain.IsNotFound(fetchErr):
				result.AddMissing(ref.String())
				bucket = domain.BucketMissing
			case fetchErr != nil:
				result.AddError(ref.String(), fetchErr.Error())
				bucket = domain.BucketError
			case meta == nil:
				result.AddError(ref.String(), staleness.Reasons[0])
				bucket = domain.BucketError
			default:
				bucket = result.AddScored(a.focusedEntry(ref, *meta, staleness))
			}
			a.opts.Progress.RepoFinished(ref, bucket, staleness)
		}

		if end < len(refs) {
			a.opts.Progress.BatchPaused(a.opts.BatchPause)
			if err := a.sleep(ctx, a.opts.BatchPause); err != nil {
				return nil, err
			}
		}
	}

	result.Sort()
	a.logger.Println("Usecase: Focused analysis complete.")

	if outputPath != "" {
		if err := report.WriteJSONFile(outputPath, result); err != nil {
			return result, err
		}
		a.logger.Printf("Usecase: Results saved to %s", outputPath)
	}
	return result, nil
}

func (a *Analyzer) focusedEntry(ref domain.Reference, meta domain.RepositoryMetadata, staleness domain.StalenessResult) domain.FocusedEntry {
	details := domain.NewRepoDetails(meta)
	return domain.FocusedEntry{
		Repo:           ref.String(),
		URL:            ref.URL(a.opts.Host),
		Description:    report.TruncateRunes(details.Description, focusedDescriptionLimit),
		Language:       details.Language,
		Stars:          details.Stars,
		LastPush:       details.LastPush,
		Archived:       meta.Archived,
		Fork:           meta.Fork,
		StalenessScore: staleness.Score,
		Reasons:        staleness.Reasons,
	}
}
