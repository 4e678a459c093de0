package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"skinscan/models"
)

// HistoryRow is the flat Parquet schema of one stored analysis.
type HistoryRow struct {
	ID                 string    `parquet:"id"`
	CreatedAt          time.Time `parquet:"created_at"`
	PrimaryType        string    `parquet:"primary_type,dict"`
	Severity           string    `parquet:"severity,dict"`
	Confidence         int32     `parquet:"confidence"`
	AverageBrightness  float64   `parquet:"average_brightness"`
	RedTonePercentage  float64   `parquet:"red_tone_percentage"`
	DarkSpotPercentage float64   `parquet:"dark_spot_percentage"`
	SkinColor          string    `parquet:"skin_color,dict"`
	SkinType           string    `parquet:"skin_type,dict"`
	Environment        string    `parquet:"environment,dict"`
	Conditions         string    `parquet:"conditions"`
	Ingredients        string    `parquet:"ingredients"`
	DetectionCount     int32     `parquet:"detection_count"`
	OriginalName       string    `parquet:"original_name"`
}

func NewHistoryRow(a models.Analysis) HistoryRow {
	lesions := 0
	for _, d := range a.Detections {
		lesions += d.Count
	}
	return HistoryRow{
		ID:                 a.ID,
		CreatedAt:          a.CreatedAt.UTC(),
		PrimaryType:        a.PrimaryType,
		Severity:           string(a.Severity),
		Confidence:         int32(a.Confidence),
		AverageBrightness:  a.AverageBrightness,
		RedTonePercentage:  a.RedTonePercentage,
		DarkSpotPercentage: a.DarkSpotPercentage,
		SkinColor:          a.SkinColor,
		SkinType:           a.SkinType,
		Environment:        a.Environment,
		Conditions:         strings.Join(a.Conditions, "; "),
		Ingredients:        strings.Join(a.Ingredients, "; "),
		DetectionCount:     int32(lesions),
		OriginalName:       a.OriginalName,
	}
}

// WriteParquet writes analyses to w as a Parquet file and returns the
// number of rows written.
func WriteParquet(w io.Writer, analyses []models.Analysis) (int, error) {
	rows := make([]HistoryRow, len(analyses))
	for i, a := range analyses {
		rows[i] = NewHistoryRow(a)
	}

	pw := parquet.NewGenericWriter[HistoryRow](w)
	n, err := pw.Write(rows)
	if err != nil {
		_ = pw.Close()
		return n, fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return n, fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return n, nil
}

// ReadParquet reads back a file produced by WriteParquet.
func ReadParquet(r io.ReaderAt, size int64) ([]HistoryRow, error) {
	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[HistoryRow](pf)
	defer reader.Close()

	var records []HistoryRow
	batch := make([]HistoryRow, 128)
	for {
		n, err := reader.Read(batch)
		records = append(records, batch[:n]...)
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}
}
