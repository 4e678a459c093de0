package models

import (
	"strings"
	"time"
)

type Severity string

const (
	SeverityMild     Severity = "Mild"
	SeverityModerate Severity = "Moderate"
	SeveritySevere   Severity = "Severe"
)

// PixelStatistics are the per-image aggregates the heuristic works from.
type PixelStatistics struct {
	AverageBrightness  float64 `json:"average_brightness"`
	RedTonePercentage  float64 `json:"red_tone_percentage"`  // 0 - 100
	DarkSpotPercentage float64 `json:"dark_spot_percentage"` // 0 - 100
	MidTonePercentage  float64 `json:"mid_tone_percentage"`  // telemetry only
	PixelCount         int     `json:"pixel_count"`
}

type Detection struct {
	Type     string   `json:"type"` // "Inflammatory Acne", "Comedones", ...
	Count    int      `json:"count"`
	Severity Severity `json:"severity"`
	Location string   `json:"location"` // "T-zone", "Cheeks", ...
}

type Diagnosis struct {
	PrimaryType string      `json:"primary_type"`
	Severity    Severity    `json:"severity"`
	Indicators  []string    `json:"indicators"`
	Confidence  int         `json:"confidence"` // 88 - 97
	Detections  []Detection `json:"detections"`

	// Statistics the diagnosis was derived from; the recommendation rules read them too.
	Statistics PixelStatistics `json:"statistics"`
}

// HasDetection reports whether any detection type contains substr.
func (d Diagnosis) HasDetection(substr string) bool {
	for _, det := range d.Detections {
		if strings.Contains(det.Type, substr) {
			return true
		}
	}
	return false
}

type Product struct {
	Name     string `json:"name"`
	Link     string `json:"link"`
	Verified bool   `json:"verified"`
}

type IngredientRecommendation struct {
	Name          string    `json:"name"`
	Concentration string    `json:"concentration"`
	Purpose       string    `json:"purpose"`
	Products      []Product `json:"products"`
}

// SkinAnalysis echoes the inputs of a run in display form.
type SkinAnalysis struct {
	AverageBrightness float64 `json:"avg_brightness"`
	RedTones          string  `json:"red_tones"`  // 2 decimals
	DarkSpots         string  `json:"dark_spots"` // 2 decimals
	SkinType          string  `json:"skin_type"`
	SkinColor         string  `json:"skin_color"`
	Environment       string  `json:"environment"`
}

// AnalysisResult is everything the results screen shows for one scan.
type AnalysisResult struct {
	ID           string                     `json:"id"`
	Diagnosis    Diagnosis                  `json:"diagnosis"`
	Ingredients  []IngredientRecommendation `json:"ingredients"`
	Guidelines   []string                   `json:"recommendations"`
	Statistics   PixelStatistics            `json:"statistics"`
	SkinAnalysis SkinAnalysis               `json:"skin_analysis"`
	Profile      UserProfile                `json:"profile"`
	Timestamp    time.Time                  `json:"timestamp"`
}

// IngredientNames lists the selected ingredient names in order.
func (r *AnalysisResult) IngredientNames() []string {
	names := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		names = append(names, ing.Name)
	}
	return names
}

// Analysis is the persisted history row for a completed analysis.
type Analysis struct {
	ID                 string            `json:"id" gorm:"primaryKey"`
	ImagePath          string            `json:"image_path"`
	OriginalName       string            `json:"original_name"`
	PrimaryType        string            `json:"primary_type" gorm:"index"`
	Severity           Severity          `json:"severity"`
	Confidence         int               `json:"confidence"`
	AverageBrightness  float64           `json:"average_brightness"`
	RedTonePercentage  float64           `json:"red_tone_percentage"`
	DarkSpotPercentage float64           `json:"dark_spot_percentage"`
	SkinColor          string            `json:"skin_color"`
	SkinType           string            `json:"skin_type"`
	Environment        string            `json:"environment"`
	Conditions         []string          `json:"conditions" gorm:"serializer:json"`
	Detections         []Detection       `json:"detections" gorm:"serializer:json"`
	Ingredients        []string          `json:"ingredients" gorm:"serializer:json"`
	ImageMetadata      map[string]string `json:"image_metadata,omitempty" gorm:"serializer:json"`
	Result             *AnalysisResult   `json:"result,omitempty" gorm:"serializer:json"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// NewAnalysisRecord flattens a result into a history row.
func NewAnalysisRecord(result *AnalysisResult, imagePath, originalName string, metadata map[string]string) Analysis {
	now := time.Now()
	return Analysis{
		ID:                 result.ID,
		ImagePath:          imagePath,
		OriginalName:       originalName,
		PrimaryType:        result.Diagnosis.PrimaryType,
		Severity:           result.Diagnosis.Severity,
		Confidence:         result.Diagnosis.Confidence,
		AverageBrightness:  result.Statistics.AverageBrightness,
		RedTonePercentage:  result.Statistics.RedTonePercentage,
		DarkSpotPercentage: result.Statistics.DarkSpotPercentage,
		SkinColor:          result.Profile.SkinColor,
		SkinType:           result.Profile.SkinType,
		Environment:        result.Profile.Environment,
		Conditions:         result.Profile.Conditions,
		Detections:         result.Diagnosis.Detections,
		Ingredients:        result.IngredientNames(),
		ImageMetadata:      metadata,
		Result:             result,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}
