// Package routinelog keeps the treatment log: morning and evening skincare
// routines with the products applied and how the skin looked afterwards.
package routinelog

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"skinscan/models"
)

const (
	DateLayout = "Jan 2, 2006"
	TimeLayout = "3:04 PM"
)

var (
	ErrInvalidRoutine   = errors.New("routine must be morning or evening")
	ErrInvalidCondition = errors.New("skin condition must be improved, same or worse")
)

// Stats summarizes a log for the header of the log screen.
type Stats struct {
	CompletedRoutines int `json:"completed_routines"`
	AdherenceRate     int `json:"adherence_rate"`
}

// Book is an in-memory, newest-first list of log entries. Safe for
// concurrent use.
type Book struct {
	mu      sync.RWMutex
	entries []models.LogEntry
}

// NewBook returns a book pre-filled with a few days of example entries.
func NewBook() *Book {
	return &Book{entries: seedEntries()}
}

func NewEmptyBook() *Book {
	return &Book{}
}

// Entries returns a copy of the log, newest first.
func (b *Book) Entries() []models.LogEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.LogEntry, len(b.entries))
	for i, e := range b.entries {
		e.Products = slices.Clone(e.Products)
		out[i] = e
	}
	return out
}

func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// Add records a routine performed at now with the default product set and
// puts it at the top of the log. An empty condition means "same".
func (b *Book) Add(routine models.Routine, condition models.SkinCondition, notes string, now time.Time) (models.LogEntry, error) {
	switch routine {
	case models.RoutineMorning, models.RoutineEvening:
	default:
		return models.LogEntry{}, fmt.Errorf("%w: %q", ErrInvalidRoutine, routine)
	}
	if condition == "" {
		condition = models.SkinSame
	}
	switch condition {
	case models.SkinImproved, models.SkinSame, models.SkinWorse:
	default:
		return models.LogEntry{}, fmt.Errorf("%w: %q", ErrInvalidCondition, condition)
	}

	entry := models.LogEntry{
		Date:          now.Format(DateLayout),
		Time:          now.Format(TimeLayout),
		Routine:       routine,
		Products:      DefaultProducts(routine),
		Notes:         notes,
		SkinCondition: condition,
	}

	b.mu.Lock()
	b.entries = slices.Insert(b.entries, 0, entry)
	b.mu.Unlock()

	entry.Products = slices.Clone(entry.Products)
	return entry, nil
}

// Stats counts the routines and the share of them where at most one
// product was skipped, rounded to a whole percent. An empty book is 0%.
func (b *Book) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	total := len(b.entries)
	if total == 0 {
		return Stats{}
	}
	adherent := 0
	for _, e := range b.entries {
		if e.AppliedCount() >= len(e.Products)-1 {
			adherent++
		}
	}
	return Stats{
		CompletedRoutines: total,
		AdherenceRate:     int(math.Round(float64(adherent) / float64(total) * 100)),
	}
}

// DefaultProducts is the product set logged for a new entry. Morning
// routines add sunscreen.
func DefaultProducts(routine models.Routine) []models.LoggedProduct {
	products := []models.LoggedProduct{
		{Type: "Cleanser", Name: "CeraVe Foaming Cleanser", Applied: true},
		{Type: "Treatment", Name: "Niacinamide 10%", Applied: true},
		{Type: "Moisturizer", Name: "CeraVe PM Lotion", Applied: true},
	}
	if routine == models.RoutineMorning {
		products = append(products, models.LoggedProduct{Type: "Sunscreen", Name: "La Roche-Posay SPF 50", Applied: true})
	}
	return products
}
