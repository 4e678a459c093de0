package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"skinscan/analysis"
	"skinscan/database"
	"skinscan/models"
	"skinscan/report"
)

var errConflictingFormats = errors.New("--json and --markdown cannot be used together")

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [flags] IMAGE...",
		Short: "Analyze one or more face photos",
		Long: `Runs the skin analysis on each image and prints the diagnosis and the
recommended ingredients.

The profile flags feed the same rules as the intake form: --skin-type
decides hydrating or oil-control additions and --condition "Acne Scarring"
adds a scarring detection.`,
		Example: `  skinscan analyze face.jpg
  skinscan analyze --skin-type oily --markdown face.jpg > report.md
  skinscan analyze --seed 42 --json --save photos/*.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().String("skin-color", "", "Skin color ("+strings.Join(models.SkinColors, ", ")+")")
	cmd.Flags().String("skin-type", "", "Skin type ("+strings.Join(models.SkinTypes, ", ")+")")
	cmd.Flags().String("environment", "", "Daily environment")
	cmd.Flags().StringSlice("condition", nil, "Skin condition, repeatable ("+strings.Join(models.Conditions, ", ")+")")
	cmd.Flags().Uint64("seed", 0, "Seed for reproducible results")
	cmd.Flags().BoolP("json", "j", false, "Output JSON")
	cmd.Flags().BoolP("markdown", "m", false, "Output Markdown")
	cmd.Flags().IntP("concurrency", "n", 4, "Number of images analyzed at once")
	cmd.Flags().Bool("save", false, "Save results to the history database")
	cmd.Flags().String("db", "", "SQLite database path")

	return cmd
}

func profileFromFlags(cmd *cobra.Command) (models.UserProfile, error) {
	var p models.UserProfile
	p.SkinColor, _ = cmd.Flags().GetString("skin-color")
	p.SkinType, _ = cmd.Flags().GetString("skin-type")
	p.Environment, _ = cmd.Flags().GetString("environment")
	p.Conditions, _ = cmd.Flags().GetStringSlice("condition")
	return models.NormalizeProfile(p)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	jsonOut, _ := cmd.Flags().GetBool("json")
	markdownOut, _ := cmd.Flags().GetBool("markdown")
	if jsonOut && markdownOut {
		return errConflictingFormats
	}

	profile, err := profileFromFlags(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []analysis.Option{}
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetUint64("seed")
		opts = append(opts, analysis.WithSeed(seed))
	}
	analyzer := analysis.New(opts...)

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	files, err := analyzer.AnalyzeFiles(cmd.Context(), args, profile, concurrency, cfg.MaxUploadSize)
	if err != nil {
		return err
	}

	var results []*models.AnalysisResult
	failed := 0
	for _, f := range files {
		if f.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", f.Path, f.Err)
			continue
		}
		results = append(results, f.Result)
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		if err := saveResults(cmd, cfg.DBPath, files); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	switch {
	case jsonOut:
		if _, err := report.NewJSONWriter(out, report.WithPrettyPrint()).WriteBatch(results); err != nil {
			return err
		}
	case markdownOut:
		for _, r := range results {
			if _, err := report.NewMarkdownWriter(out).Write(r); err != nil {
				return err
			}
			fmt.Fprintln(out)
		}
	default:
		for _, f := range files {
			if f.Err == nil {
				printSummary(out, f)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d images could not be analyzed", failed, len(files))
	}
	return nil
}

func printSummary(w io.Writer, f analysis.FileResult) {
	d := f.Result.Diagnosis
	fmt.Fprintf(w, "%s: %s (%s, %d%% confidence)\n", filepath.Base(f.Path), d.PrimaryType, d.Severity, d.Confidence)
	for _, det := range d.Detections {
		fmt.Fprintf(w, "  %-22s %3d  %-8s %s\n", det.Type, det.Count, det.Severity, det.Location)
	}
	fmt.Fprintf(w, "  ingredients: %s\n", strings.Join(f.Result.IngredientNames(), ", "))
}

func saveResults(cmd *cobra.Command, dbPath string, files []analysis.FileResult) error {
	store, err := database.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	saved := 0
	for _, f := range files {
		if f.Err != nil {
			continue
		}
		abs, err := filepath.Abs(f.Path)
		if err != nil {
			abs = f.Path
		}
		record := models.NewAnalysisRecord(f.Result, abs, filepath.Base(f.Path), f.Image.Metadata)
		if err := store.Create(cmd.Context(), &record); err != nil {
			return err
		}
		saved++
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "saved %d analyses to %s\n", saved, dbPath)
	return nil
}
