package analysis

import (
	"slices"

	"skinscan/models"
)

// AcneType is one of the fixed primary classifications.
type AcneType struct {
	Name       string
	Severity   models.Severity
	Indicators []string
}

var (
	Comedonal = AcneType{
		Name:       "Comedonal Acne",
		Severity:   models.SeverityMild,
		Indicators: []string{"blackheads", "whiteheads"},
	}
	Inflammatory = AcneType{
		Name:       "Inflammatory Acne",
		Severity:   models.SeverityModerate,
		Indicators: []string{"papules", "pustules"},
	}
	Cystic = AcneType{
		Name:       "Cystic Acne",
		Severity:   models.SeveritySevere,
		Indicators: []string{"deep cysts", "nodules"},
	}
	Hormonal = AcneType{
		Name:       "Hormonal Acne",
		Severity:   models.SeverityModerate,
		Indicators: []string{"jawline breakouts", "cyclic patterns"},
	}
	Papulopustular = AcneType{
		Name:       "Papulopustular",
		Severity:   models.SeverityModerate,
		Indicators: []string{"red bumps", "pus-filled lesions"},
	}
)

// Classification thresholds. The rules in Classify are evaluated in order and
// the first match wins; reordering them changes outcomes for boundary images.
const (
	primaryRedTone    = 15.0
	primaryDarkSpot   = 20.0
	primaryBrightness = 100.0

	inflammatoryRedTone  = 10.0
	inflammatoryModerate = 15.0
	inflammatorySevere   = 20.0

	hyperpigmentationDarkSpot = 15.0
	hyperpigmentationModerate = 25.0
)

// Classify picks the primary acne type: red tone first, then dark spots, then
// overall brightness. A reddish image flips a coin between Inflammatory and
// Papulopustular.
func Classify(stats models.PixelStatistics, rng RandomSource) AcneType {
	switch {
	case stats.RedTonePercentage > primaryRedTone:
		if rng.Float64() > 0.5 {
			return Inflammatory
		}
		return Papulopustular
	case stats.DarkSpotPercentage > primaryDarkSpot:
		return Comedonal
	case stats.AverageBrightness < primaryBrightness:
		return Cystic
	default:
		return Hormonal
	}
}

// Detect evaluates each detection rule independently and returns the
// findings in rule order. A Comedones finding is always present.
func Detect(stats models.PixelStatistics, profile models.UserProfile, rng RandomSource) []models.Detection {
	detections := make([]models.Detection, 0, 5)

	if stats.RedTonePercentage > inflammatoryRedTone {
		severity := models.SeverityMild
		switch {
		case stats.RedTonePercentage > inflammatorySevere:
			severity = models.SeveritySevere
		case stats.RedTonePercentage > inflammatoryModerate:
			severity = models.SeverityModerate
		}
		detections = append(detections, models.Detection{
			Type:     "Inflammatory Acne",
			Count:    between(rng, 8, 23),
			Severity: severity,
			Location: "Cheeks, Forehead",
		})
	}

	if stats.DarkSpotPercentage > hyperpigmentationDarkSpot {
		severity := models.SeverityMild
		if stats.DarkSpotPercentage > hyperpigmentationModerate {
			severity = models.SeverityModerate
		}
		detections = append(detections, models.Detection{
			Type:     "Hyperpigmentation",
			Count:    between(rng, 5, 17),
			Severity: severity,
			Location: "Post-inflammatory marks",
		})
	}

	detections = append(detections, models.Detection{
		Type:     "Comedones",
		Count:    between(rng, 6, 24),
		Severity: models.SeverityMild,
		Location: "T-zone",
	})

	if profile.SkinType == models.SkinTypeOily {
		detections = append(detections, models.Detection{
			Type:     "Sebum Overproduction",
			Count:    between(rng, 10, 18),
			Severity: models.SeverityModerate,
			Location: "T-zone, Nose",
		})
	}

	if profile.HasCondition(models.ConditionAcneScarring) {
		detections = append(detections, models.Detection{
			Type:     "Atrophic Scarring",
			Count:    between(rng, 4, 12),
			Severity: models.SeverityMild,
			Location: "Cheeks",
		})
	}

	return detections
}

// Confidence draws a score in [88, 98).
func Confidence(rng RandomSource) int {
	return between(rng, 88, 98)
}

// Diagnose runs classification, detection and confidence in that order so a
// scripted source sees its draws in a fixed sequence.
func Diagnose(stats models.PixelStatistics, profile models.UserProfile, rng RandomSource) models.Diagnosis {
	primary := Classify(stats, rng)
	detections := Detect(stats, profile, rng)
	return models.Diagnosis{
		PrimaryType: primary.Name,
		Severity:    primary.Severity,
		Indicators:  slices.Clone(primary.Indicators),
		Confidence:  Confidence(rng),
		Detections:  detections,
		Statistics:  stats,
	}
}
