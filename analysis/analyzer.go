package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"skinscan/capture"
	"skinscan/models"
	"skinscan/recommend"
)

// Analyzer turns a captured image plus the user's profile into a result.
type Analyzer struct {
	rng    RandomSource
	logger *slog.Logger
	now    func() time.Time

	seed   uint64
	seeded bool
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithRandom sets the random source. A nil source keeps the default.
func WithRandom(rng RandomSource) Option {
	return func(a *Analyzer) {
		if rng != nil {
			a.rng = rng
		}
	}
}

// WithSeed makes the analyzer reproducible. Analyze draws from a source
// seeded with seed; AnalyzeFiles gives the file at index i its own source
// seeded with seed+i, so results do not depend on scheduling.
func WithSeed(seed uint64) Option {
	return func(a *Analyzer) {
		a.seed = seed
		a.seeded = true
		a.rng = NewSeededRandom(seed)
	}
}

// WithLogger sets the logger. A nil logger keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		rng:    DefaultRandom(),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs the full heuristic on img. It fails with ErrImageDecode for a
// missing or empty image, in which case no recommendation is selected.
func (a *Analyzer) Analyze(ctx context.Context, img *capture.CapturedImage, profile models.UserProfile) (*models.AnalysisResult, error) {
	return a.analyze(ctx, img, profile, a.rng)
}

func (a *Analyzer) analyze(ctx context.Context, img *capture.CapturedImage, profile models.UserProfile, rng RandomSource) (*models.AnalysisResult, error) {
	if img == nil || img.Image == nil {
		return nil, fmt.Errorf("%w: no image captured", ErrImageDecode)
	}

	start := time.Now()
	stats, err := ComputeStatistics(ctx, img.Image)
	if err != nil {
		return nil, err
	}

	profile = profile.Clone()
	diagnosis := Diagnose(stats, profile, rng)
	ingredients, guidelines := recommend.Select(diagnosis, profile)

	result := &models.AnalysisResult{
		ID:          uuid.New().String(),
		Diagnosis:   diagnosis,
		Ingredients: ingredients,
		Guidelines:  guidelines,
		Statistics:  stats,
		SkinAnalysis: models.SkinAnalysis{
			AverageBrightness: stats.AverageBrightness,
			RedTones:          strconv.FormatFloat(stats.RedTonePercentage, 'f', 2, 64),
			DarkSpots:         strconv.FormatFloat(stats.DarkSpotPercentage, 'f', 2, 64),
			SkinType:          profile.SkinType,
			SkinColor:         profile.SkinColor,
			Environment:       profile.Environment,
		},
		Profile:   profile,
		Timestamp: a.now().UTC(),
	}

	a.logger.Debug("analysis completed",
		"id", result.ID,
		"pixels", stats.PixelCount,
		"primary", diagnosis.PrimaryType,
		"confidence", diagnosis.Confidence,
		"detections", len(diagnosis.Detections),
		"ingredients", len(ingredients),
		"elapsed", time.Since(start),
	)

	return result, nil
}

// AnalyzeBytes decodes data and analyzes it.
func (a *Analyzer) AnalyzeBytes(ctx context.Context, data []byte, profile models.UserProfile) (*models.AnalysisResult, error) {
	img, err := capture.Decode(data, capture.SourceUpload)
	if err != nil {
		return nil, err
	}
	return a.Analyze(ctx, img, profile)
}
