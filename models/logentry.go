package models

type Routine string

const (
	RoutineMorning Routine = "morning"
	RoutineEvening Routine = "evening"
)

type SkinCondition string

const (
	SkinImproved SkinCondition = "improved"
	SkinSame     SkinCondition = "same"
	SkinWorse    SkinCondition = "worse"
)

type LoggedProduct struct {
	Type    string `json:"type"` // "Cleanser", "Treatment", "Moisturizer", "Sunscreen"
	Name    string `json:"name"`
	Applied bool   `json:"applied"`
}

// LogEntry is one morning or evening routine in the treatment log.
type LogEntry struct {
	Date          string          `json:"date"` // "Dec 19, 2024"
	Time          string          `json:"time"` // "7:30 PM"
	Routine       Routine         `json:"routine"`
	Products      []LoggedProduct `json:"products"`
	Notes         string          `json:"notes"`
	SkinCondition SkinCondition   `json:"skin_condition"`
}

// AppliedCount is the number of products ticked off for the entry.
func (e LogEntry) AppliedCount() int {
	n := 0
	for _, p := range e.Products {
		if p.Applied {
			n++
		}
	}
	return n
}
