package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"skinscan/models"
	"skinscan/recommend"
)

func testResult() *models.AnalysisResult {
	ing, _ := recommend.Lookup(recommend.SalicylicAcid)
	return &models.AnalysisResult{
		ID: "3f1c",
		Diagnosis: models.Diagnosis{
			PrimaryType: "Inflammatory Acne",
			Severity:    models.SeverityModerate,
			Indicators:  []string{"Papules", "Pustules"},
			Confidence:  93,
			Detections: []models.Detection{
				{Type: "Inflammatory Lesions", Count: 12, Severity: models.SeverityModerate, Location: "Cheeks, Forehead"},
				{Type: "Comedones", Count: 8, Severity: models.SeverityMild, Location: "T-zone"},
			},
		},
		Ingredients: []models.IngredientRecommendation{ing},
		Guidelines:  recommend.Guidelines(),
		SkinAnalysis: models.SkinAnalysis{
			AverageBrightness: 142.5,
			RedTones:          "18.25",
			DarkSpots:         "3.10",
			SkinType:          "Oily",
		},
		Timestamp: time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes full report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(testResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()

		for _, want := range []string{
			"# Skin Analysis Report",
			"Inflammatory Acne",
			"93%",
			"18.25%",
			"## Detections",
			"Cheeks, Forehead",
			"```mermaid",
			"Detections by Type",
			"Salicylic Acid",
			"## Treatment Guidelines",
			"FDA: Treating Acne",
			"Medical disclaimer",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
		if !strings.Contains(output, "[!WARNING]") {
			t.Error("expected a warning alert for moderate severity")
		}
	})

	t.Run("writes no data state", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "No Analysis Data") {
			t.Error("expected no data heading")
		}
		if strings.Contains(output, "Detections") {
			t.Error("no data state must not render diagnosis sections")
		}
	})

	t.Run("skips chart without detections", func(t *testing.T) {
		t.Parallel()

		r := testResult()
		r.Diagnosis.Detections = nil
		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "mermaid") {
			t.Error("expected no chart")
		}
		if !strings.Contains(buf.String(), "No lesions detected.") {
			t.Error("expected empty detections message")
		}
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes result", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(testResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var decoded models.AnalysisResult
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if decoded.Diagnosis.Confidence != 93 || len(decoded.Guidelines) != 5 {
			t.Errorf("unexpected decoded result %+v", decoded)
		}
		if strings.Contains(buf.String(), "\n  ") {
			t.Error("expected compact output")
		}
	})

	t.Run("writes no data for nil", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"status": "no_data"`) {
			t.Errorf("unexpected output %s", buf.String())
		}
	})

	t.Run("writes batch", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteBatch(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.TrimSpace(buf.String()) != "[]" {
			t.Errorf("expected empty array, got %s", buf.String())
		}
	})
}

func TestParquetRoundTrip(t *testing.T) {
	t.Parallel()

	r := testResult()
	r.Profile = models.UserProfile{SkinColor: "Tan", SkinType: "Oily", Conditions: []string{"Eczema", "Acne Scarring"}, Environment: "Mixed indoor/outdoor"}
	first := models.NewAnalysisRecord(r, "uploads/a.png", "a.png", nil)
	second := first
	second.ID = "other"
	second.Detections = nil

	var buf bytes.Buffer
	n, err := WriteParquet(&buf, []models.Analysis{first, second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows, got %d", n)
	}

	rows, err := ReadParquet(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows back, got %d", len(rows))
	}
	got := rows[0]
	if got.ID != "3f1c" || got.PrimaryType != "Inflammatory Acne" || got.Confidence != 93 {
		t.Errorf("unexpected row %+v", got)
	}
	if got.DetectionCount != 20 || rows[1].DetectionCount != 0 {
		t.Errorf("unexpected detection counts %d, %d", got.DetectionCount, rows[1].DetectionCount)
	}
	if got.Conditions != "Eczema; Acne Scarring" || got.Ingredients != recommend.SalicylicAcid {
		t.Errorf("unexpected joined columns %q %q", got.Conditions, got.Ingredients)
	}
}
