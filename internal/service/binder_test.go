package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rscoates/magic-library/internal/domain"
	"github.com/rscoates/magic-library/internal/domain/models"
	"github.com/rscoates/magic-library/internal/domain/services"
)

// binderEnv seeds a file container plus a catalog with two printings of the
// same card, one older than the other.
func binderEnv(t *testing.T, columns int, fillRow bool) (*testEnv, *models.Container) {
	t.Helper()
	env := newTestEnv()
	fileType := env.seedType("file")

	binder := &models.Container{
		Name:          "Trade Binder",
		TypeID:        fileType,
		BinderColumns: columns,
		BinderFillRow: fillRow,
	}
	if err := env.containers.Create(context.Background(), binder); err != nil {
		t.Fatalf("seed binder: %v", err)
	}

	env.catalog.addCard("LEA", "161", "Lightning Bolt", "common")
	env.catalog.addCard("M10", "146", "Lightning Bolt", "common")
	env.catalog.addCard("LEA", "48", "Counterspell", "uncommon")
	env.catalog.addSet("LEA", "Limited Edition Alpha", time.Date(1993, 8, 5, 0, 0, 0, 0, time.UTC))
	env.catalog.addSet("M10", "Magic 2010", time.Date(2009, 7, 17, 0, 0, 0, 0, time.UTC))

	return env, binder
}

func TestBinderGetPageRejectsNonBinder(t *testing.T) {
	env := newTestEnv()
	boxType := env.seedType("box")
	box := env.seedContainer("Box", boxType, nil, 0)

	if _, err := env.binderSvc.GetPage(context.Background(), box.ID, 1); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("GetPage() error = %v, want ErrValidation", err)
	}
}

func TestBinderGetPage(t *testing.T) {
	env, binder := binderEnv(t, 3, false)

	env.seedEntry("LEA", "161", binder.ID, 2, nil, 1, intPtr(1))
	env.seedEntry("LEA", "48", binder.ID, 1, nil, 1, intPtr(5))
	env.seedEntry("LEA", "48", binder.ID, 1, int64Ptr(1), 1, intPtr(11))

	page, err := env.binderSvc.GetPage(context.Background(), binder.ID, 1)
	if err != nil {
		t.Fatalf("GetPage() error = %v", err)
	}

	if page.BinderColumns != 3 {
		t.Errorf("BinderColumns = %d, want 3", page.BinderColumns)
	}
	if len(page.Slots) != 9 {
		t.Fatalf("len(Slots) = %d, want 9", len(page.Slots))
	}
	if page.MaxPosition != 11 {
		t.Errorf("MaxPosition = %d, want 11", page.MaxPosition)
	}
	if page.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", page.TotalPages)
	}

	slot1 := page.Slots[0]
	if slot1.IsEmpty || slot1.CardName == nil || *slot1.CardName != "Lightning Bolt" {
		t.Errorf("slot 1 = %+v, want Lightning Bolt", slot1)
	}
	if slot1.Quantity != 2 {
		t.Errorf("slot 1 quantity = %d, want 2", slot1.Quantity)
	}
	if !page.Slots[1].IsEmpty {
		t.Errorf("slot 2 not empty")
	}
	if page.Slots[4].IsEmpty || *page.Slots[4].CardName != "Counterspell" {
		t.Errorf("slot 5 = %+v, want Counterspell", page.Slots[4])
	}

	// Second page holds positions 10..18
	page2, err := env.binderSvc.GetPage(context.Background(), binder.ID, 2)
	if err != nil {
		t.Fatalf("GetPage(2) error = %v", err)
	}
	if page2.Slots[0].Position != 10 {
		t.Errorf("page 2 first position = %d, want 10", page2.Slots[0].Position)
	}
	if page2.Slots[1].IsEmpty || *page2.Slots[1].CardName != "Counterspell" {
		t.Errorf("page 2 slot 11 = %+v, want Counterspell", page2.Slots[1])
	}

	// A page past the data is all empty slots, not an error
	page9, err := env.binderSvc.GetPage(context.Background(), binder.ID, 9)
	if err != nil {
		t.Fatalf("GetPage(9) error = %v", err)
	}
	for _, slot := range page9.Slots {
		if !slot.IsEmpty {
			t.Errorf("slot %d on empty page not empty", slot.Position)
		}
	}
}

func TestBinderTwoColumnCapacity(t *testing.T) {
	env, binder := binderEnv(t, 2, false)

	page, err := env.binderSvc.GetPage(context.Background(), binder.ID, 1)
	if err != nil {
		t.Fatalf("GetPage() error = %v", err)
	}
	// 2 columns use a 2x2 page
	if len(page.Slots) != 4 {
		t.Errorf("len(Slots) = %d, want 4", len(page.Slots))
	}
}

func TestBinderRepresentativeAtSharedPosition(t *testing.T) {
	env, binder := binderEnv(t, 3, false)

	// Japanese M10 and English LEA share position 1; English wins the slot
	env.seedEntry("M10", "146", binder.ID, 1, nil, 2, intPtr(1))
	english := env.seedEntry("LEA", "161", binder.ID, 1, nil, 1, intPtr(1))

	page, err := env.binderSvc.GetPage(context.Background(), binder.ID, 1)
	if err != nil {
		t.Fatalf("GetPage() error = %v", err)
	}

	slot := page.Slots[0]
	if slot.EntryID == nil || *slot.EntryID != english.ID {
		t.Errorf("representative entry = %v, want %d", slot.EntryID, english.ID)
	}
	// The slot stacks both entries' quantities
	if slot.Quantity != 2 {
		t.Errorf("slot quantity = %d, want 2", slot.Quantity)
	}
}

func TestBinderFillRow(t *testing.T) {
	env, binder := binderEnv(t, 3, true)

	// 5 copies at position 1 fill the whole first row and overflow by 2
	entry := env.seedEntry("LEA", "161", binder.ID, 5, nil, 1, intPtr(1))

	page, err := env.binderSvc.GetPage(context.Background(), binder.ID, 1)
	if err != nil {
		t.Fatalf("GetPage() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		slot := page.Slots[i]
		if slot.IsEmpty || slot.EntryID == nil || *slot.EntryID != entry.ID {
			t.Errorf("slot %d = %+v, want filled by entry %d", i+1, slot, entry.ID)
		}
	}
	// The last filled slot of the run reports the copies that did not fit
	if page.Slots[2].OverflowCount == nil || *page.Slots[2].OverflowCount != 2 {
		t.Errorf("slot 3 OverflowCount = %v, want 2", page.Slots[2].OverflowCount)
	}
	if page.Slots[0].OverflowCount != nil || page.Slots[1].OverflowCount != nil {
		t.Errorf("earlier slots of the run carry an overflow count")
	}
	// The run never crosses the row boundary
	if !page.Slots[3].IsEmpty {
		t.Errorf("slot 4 filled across row boundary")
	}
}

func TestBinderFillRowStopsAtExplicitPosition(t *testing.T) {
	env, binder := binderEnv(t, 3, true)

	// 3 copies at position 1, but position 2 is explicitly taken
	bolt := env.seedEntry("LEA", "161", binder.ID, 3, nil, 1, intPtr(1))
	counter := env.seedEntry("LEA", "48", binder.ID, 1, nil, 1, intPtr(2))

	page, err := env.binderSvc.GetPage(context.Background(), binder.ID, 1)
	if err != nil {
		t.Fatalf("GetPage() error = %v", err)
	}

	if *page.Slots[0].EntryID != bolt.ID {
		t.Errorf("slot 1 entry = %d, want %d", *page.Slots[0].EntryID, bolt.ID)
	}
	if *page.Slots[1].EntryID != counter.ID {
		t.Errorf("slot 2 entry = %d, want %d", *page.Slots[1].EntryID, counter.ID)
	}
	// The run truncates to one slot, so that slot reports the copies that
	// did not fit; the neighboring stack is untouched
	if page.Slots[0].OverflowCount == nil || *page.Slots[0].OverflowCount != 2 {
		t.Errorf("slot 1 OverflowCount = %v, want 2", page.Slots[0].OverflowCount)
	}
	if page.Slots[1].OverflowCount != nil {
		t.Errorf("slot 2 OverflowCount = %v, want nil", page.Slots[1].OverflowCount)
	}
}

func TestBinderFillRowExactFit(t *testing.T) {
	env, binder := binderEnv(t, 3, true)

	env.seedEntry("LEA", "161", binder.ID, 2, nil, 1, intPtr(2))

	page, err := env.binderSvc.GetPage(context.Background(), binder.ID, 1)
	if err != nil {
		t.Fatalf("GetPage() error = %v", err)
	}

	if page.Slots[0].IsEmpty != true {
		t.Errorf("slot 1 should stay empty")
	}
	if page.Slots[1].IsEmpty || page.Slots[2].IsEmpty {
		t.Errorf("slots 2 and 3 should be filled")
	}
	if page.Slots[1].OverflowCount != nil {
		t.Errorf("OverflowCount = %v, want nil", page.Slots[1].OverflowCount)
	}
}

func TestBinderUpdatePositions(t *testing.T) {
	env, binder := binderEnv(t, 3, false)
	boxType := env.seedType("box")
	otherBox := env.seedContainer("Box", boxType, nil, 0)

	first := env.seedEntry("LEA", "161", binder.ID, 1, nil, 1, nil)
	second := env.seedEntry("LEA", "48", binder.ID, 1, nil, 1, intPtr(3))
	foreign := env.seedEntry("M10", "146", otherBox.ID, 1, nil, 1, nil)

	updated, err := env.binderSvc.UpdatePositions(context.Background(), binder.ID, []services.PositionUpdate{
		{EntryID: first.ID, Position: intPtr(1)},
		{EntryID: second.ID, Position: nil},
		{EntryID: foreign.ID, Position: intPtr(2)}, // wrong container, skipped
		{EntryID: 999, Position: intPtr(4)},        // unknown entry, skipped
	})
	if err != nil {
		t.Fatalf("UpdatePositions() error = %v", err)
	}
	if updated != 2 {
		t.Errorf("updated = %d, want 2", updated)
	}

	moved, _ := env.entries.GetByID(context.Background(), first.ID)
	if moved.Position == nil || *moved.Position != 1 {
		t.Errorf("first position = %v, want 1", moved.Position)
	}
	cleared, _ := env.entries.GetByID(context.Background(), second.ID)
	if cleared.Position != nil {
		t.Errorf("second position = %v, want nil", cleared.Position)
	}
	untouched, _ := env.entries.GetByID(context.Background(), foreign.ID)
	if untouched.Position != nil {
		t.Errorf("foreign entry position = %v, want nil", untouched.Position)
	}
}

func TestBinderGetPosition(t *testing.T) {
	env, binder := binderEnv(t, 3, false)

	env.seedEntry("M10", "146", binder.ID, 1, nil, 1, intPtr(1))
	env.seedEntry("LEA", "161", binder.ID, 2, int64Ptr(1), 1, intPtr(1))

	result, err := env.binderSvc.GetPosition(context.Background(), binder.ID, 1)
	if err != nil {
		t.Fatalf("GetPosition() error = %v", err)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(result.Entries))
	}
	if result.TotalQuantity != 3 {
		t.Errorf("TotalQuantity = %d, want 3", result.TotalQuantity)
	}
	if result.CardName != "Lightning Bolt" {
		t.Errorf("CardName = %q, want Lightning Bolt", result.CardName)
	}
	// Oldest printing leads
	if result.Entries[0].SetCode != "LEA" {
		t.Errorf("first entry set = %q, want LEA", result.Entries[0].SetCode)
	}
	if result.Entries[0].ReleaseDate == nil || *result.Entries[0].ReleaseDate != "1993-08-05" {
		t.Errorf("ReleaseDate = %v, want 1993-08-05", result.Entries[0].ReleaseDate)
	}

	if _, err := env.binderSvc.GetPosition(context.Background(), binder.ID, 7); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetPosition(empty) error = %v, want ErrNotFound", err)
	}
}
