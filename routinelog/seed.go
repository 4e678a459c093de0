package routinelog

import "skinscan/models"

func seedEntries() []models.LogEntry {
	return []models.LogEntry{
		{
			Date:    "Dec 19, 2024",
			Time:    "7:30 PM",
			Routine: models.RoutineEvening,
			Products: []models.LoggedProduct{
				{Type: "Cleanser", Name: "CeraVe Foaming Cleanser", Applied: true},
				{Type: "Treatment", Name: "The Ordinary Niacinamide 10%", Applied: true},
				{Type: "Treatment", Name: "Differin Gel 0.1%", Applied: true},
				{Type: "Moisturizer", Name: "CeraVe PM Lotion", Applied: true},
			},
			Notes:         "Skin feels less oily today",
			SkinCondition: models.SkinImproved,
		},
		{
			Date:    "Dec 19, 2024",
			Time:    "8:00 AM",
			Routine: models.RoutineMorning,
			Products: []models.LoggedProduct{
				{Type: "Cleanser", Name: "CeraVe Foaming Cleanser", Applied: true},
				{Type: "Treatment", Name: "Vitamin C Serum 15%", Applied: true},
				{Type: "Moisturizer", Name: "Neutrogena Hydro Boost", Applied: true},
				{Type: "Sunscreen", Name: "La Roche-Posay SPF 50", Applied: true},
			},
			Notes:         "Morning routine completed",
			SkinCondition: models.SkinSame,
		},
		{
			Date:    "Dec 18, 2024",
			Time:    "9:15 PM",
			Routine: models.RoutineEvening,
			Products: []models.LoggedProduct{
				{Type: "Cleanser", Name: "CeraVe Foaming Cleanser", Applied: true},
				{Type: "Treatment", Name: "Salicylic Acid 2%", Applied: true},
				{Type: "Treatment", Name: "Azelaic Acid 10%", Applied: false},
				{Type: "Moisturizer", Name: "CeraVe PM Lotion", Applied: true},
			},
			Notes:         "Skipped azelaic acid - skin felt sensitive",
			SkinCondition: models.SkinSame,
		},
		{
			Date:    "Dec 18, 2024",
			Time:    "7:45 AM",
			Routine: models.RoutineMorning,
			Products: []models.LoggedProduct{
				{Type: "Cleanser", Name: "CeraVe Foaming Cleanser", Applied: true},
				{Type: "Treatment", Name: "Niacinamide 10%", Applied: true},
				{Type: "Moisturizer", Name: "Neutrogena Hydro Boost", Applied: true},
				{Type: "Sunscreen", Name: "La Roche-Posay SPF 50", Applied: true},
			},
			Notes:         "Good skin day!",
			SkinCondition: models.SkinImproved,
		},
		{
			Date:    "Dec 17, 2024",
			Time:    "10:00 PM",
			Routine: models.RoutineEvening,
			Products: []models.LoggedProduct{
				{Type: "Cleanser", Name: "CeraVe Foaming Cleanser", Applied: true},
				{Type: "Treatment", Name: "Benzoyl Peroxide 2.5%", Applied: true},
				{Type: "Moisturizer", Name: "CeraVe PM Lotion", Applied: true},
			},
			Notes:         "Noticed new breakout on chin",
			SkinCondition: models.SkinWorse,
		},
	}
}
