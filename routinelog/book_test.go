package routinelog

import (
	"errors"
	"testing"
	"time"

	"skinscan/models"
)

func TestSeededBook(t *testing.T) {
	t.Parallel()

	b := NewBook()
	entries := b.Entries()
	if len(entries) != 5 {
		t.Fatalf("expected 5 seeded entries, got %d", len(entries))
	}
	if entries[0].Date != "Dec 19, 2024" || entries[0].Time != "7:30 PM" {
		t.Errorf("unexpected newest entry %+v", entries[0])
	}

	stats := b.Stats()
	if stats.CompletedRoutines != 5 || stats.AdherenceRate != 100 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestAdd(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 4, 21, 5, 0, 0, time.UTC)

	t.Run("evening prepends without sunscreen", func(t *testing.T) {
		t.Parallel()

		b := NewBook()
		entry, err := b.Add(models.RoutineEvening, models.SkinImproved, "calm", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if entry.Date != "Mar 4, 2025" || entry.Time != "9:05 PM" {
			t.Errorf("unexpected timestamp %q %q", entry.Date, entry.Time)
		}
		if len(entry.Products) != 3 {
			t.Errorf("expected 3 products, got %d", len(entry.Products))
		}
		if got := b.Entries()[0]; got.Notes != "calm" {
			t.Errorf("new entry not at top: %+v", got)
		}
		if b.Len() != 6 {
			t.Errorf("expected 6 entries, got %d", b.Len())
		}
	})

	t.Run("morning adds sunscreen and defaults condition", func(t *testing.T) {
		t.Parallel()

		b := NewEmptyBook()
		entry, err := b.Add(models.RoutineMorning, "", "", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entry.Products) != 4 || entry.Products[3].Type != "Sunscreen" {
			t.Errorf("expected sunscreen last, got %+v", entry.Products)
		}
		if entry.SkinCondition != models.SkinSame {
			t.Errorf("expected same, got %q", entry.SkinCondition)
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		t.Parallel()

		b := NewEmptyBook()
		if _, err := b.Add("noon", models.SkinSame, "", now); !errors.Is(err, ErrInvalidRoutine) {
			t.Errorf("expected ErrInvalidRoutine, got %v", err)
		}
		if _, err := b.Add(models.RoutineMorning, "great", "", now); !errors.Is(err, ErrInvalidCondition) {
			t.Errorf("expected ErrInvalidCondition, got %v", err)
		}
		if b.Len() != 0 {
			t.Errorf("rejected entries must not be stored")
		}
	})
}

func TestStats(t *testing.T) {
	t.Parallel()

	if got := NewEmptyBook().Stats(); got != (Stats{}) {
		t.Errorf("expected zero stats, got %+v", got)
	}

	skipped := func(n int) models.LogEntry {
		e := models.LogEntry{Products: DefaultProducts(models.RoutineMorning)}
		for i := range n {
			e.Products[i].Applied = false
		}
		return e
	}

	b := &Book{entries: []models.LogEntry{skipped(0), skipped(1), skipped(2)}}
	stats := b.Stats()
	if stats.CompletedRoutines != 3 {
		t.Errorf("expected 3 routines, got %d", stats.CompletedRoutines)
	}
	if stats.AdherenceRate != 67 {
		t.Errorf("expected 67%%, got %d", stats.AdherenceRate)
	}
}

func TestEntriesIsACopy(t *testing.T) {
	t.Parallel()

	b := NewBook()
	entries := b.Entries()
	entries[0].Products[0].Applied = false
	entries[0].Notes = "changed"

	fresh := b.Entries()
	if !fresh[0].Products[0].Applied || fresh[0].Notes == "changed" {
		t.Error("mutating returned entries changed the book")
	}
}
