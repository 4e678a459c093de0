package analysis

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"skinscan/capture"
	"skinscan/models"
)

// FileResult is the outcome of analyzing one file in a batch. Exactly one
// of Result and Err is set.
type FileResult struct {
	Path   string
	Image  *capture.CapturedImage
	Result *models.AnalysisResult
	Err    error
}

// AnalyzeFiles analyzes paths with at most concurrency files in flight and
// returns one FileResult per path, in input order. A file that cannot be
// read or decoded is recorded in its FileResult and does not stop the
// others; only cancellation of ctx is returned as an error. With WithSeed
// the results are the same for every concurrency.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, paths []string, profile models.UserProfile, concurrency int, limit int64) ([]FileResult, error) {
	if concurrency <= 0 {
		concurrency = 1
	}
	results := make([]FileResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = FileResult{Path: path, Err: err}
				return err
			}

			img, err := readImage(path, limit)
			if err != nil {
				a.logger.Warn("skipping file", "path", path, "error", err)
				results[i] = FileResult{Path: path, Err: err}
				return nil
			}

			result, err := a.analyze(ctx, img, profile, a.sourceFor(i))
			results[i] = FileResult{Path: path, Image: img, Result: result, Err: err}
			if err != nil {
				a.logger.Warn("analysis failed", "path", path, "error", err)
			}
			return nil
		})
	}

	err := g.Wait()
	return results, err
}

// sourceFor returns the random source for the file at index i.
func (a *Analyzer) sourceFor(i int) RandomSource {
	if !a.seeded {
		return a.rng
	}
	return NewSeededRandom(a.seed + uint64(i))
}

func readImage(path string, limit int64) (*capture.CapturedImage, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided input file
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := capture.FromReader(f, limit, capture.SourceUpload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}
