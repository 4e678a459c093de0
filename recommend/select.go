// Package recommend picks treatment ingredients for a diagnosis from a fixed
// catalog of ten entries.
package recommend

import (
	"slices"

	"skinscan/models"
)

const (
	inflammationRedTone = 15.0
	pigmentDarkSpot     = 15.0
)

// Select applies the selection clauses in order. Every matching clause
// contributes; an ingredient is never added twice. Salicylic Acid,
// Niacinamide and Tea Tree Oil are always present.
func Select(diagnosis models.Diagnosis, profile models.UserProfile) ([]models.IngredientRecommendation, []string) {
	var names []string
	add := func(ns ...string) {
		for _, n := range ns {
			if !slices.Contains(names, n) {
				names = append(names, n)
			}
		}
	}

	stats := diagnosis.Statistics

	add(SalicylicAcid, Niacinamide)

	if stats.RedTonePercentage > inflammationRedTone || diagnosis.HasDetection("Inflammatory") {
		add(BenzoylPeroxide)
	}

	if stats.DarkSpotPercentage > pigmentDarkSpot || diagnosis.HasDetection("Hyperpigmentation") {
		add(AzelaicAcid, VitaminC, AlphaArbutin)
	}

	if diagnosis.Severity == models.SeverityModerate || diagnosis.Severity == models.SeveritySevere {
		add(Retinoids)
	}

	switch profile.SkinType {
	case models.SkinTypeDry, models.SkinTypeCombination:
		add(HyaluronicAcid)
	case models.SkinTypeOily:
		add(Sulfur)
	}

	add(TeaTreeOil)

	ingredients := make([]models.IngredientRecommendation, 0, len(names))
	for _, n := range names {
		if ing, ok := Lookup(n); ok {
			ingredients = append(ingredients, ing)
		}
	}
	return ingredients, Guidelines()
}
