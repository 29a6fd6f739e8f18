package scheduling

import (
	"errors"
	"testing"

	"masterbook/models"
)

func tod(t *testing.T, s string) models.TimeOfDay {
	t.Helper()
	v, err := models.ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}

// dayWith builds a day from "HH:MM" times; a trailing "*" marks the slot occupied.
func dayWith(t *testing.T, entries ...string) *models.CalendarDay {
	t.Helper()
	day := &models.CalendarDay{ID: "day-1", MasterID: "m-1", Date: "2024-05-01"}
	for _, entry := range entries {
		occupied := false
		if entry[len(entry)-1] == '*' {
			occupied = true
			entry = entry[:len(entry)-1]
		}
		slot := models.Slot{ID: entry, Time: tod(t, entry), Occupied: occupied}
		if occupied {
			slot.LegID = "other-leg"
		}
		day.Slots = append(day.Slots, slot)
	}
	return day
}

func slotTimes(slots []models.Slot) []string {
	var out []string
	for _, s := range slots {
		out = append(out, s.Time.String())
	}
	return out
}

func TestCreateSlotsIsIdempotent(t *testing.T) {
	day := &models.CalendarDay{Date: "2024-05-01"}
	first := []models.TimeOfDay{tod(t, "11:00"), tod(t, "10:30"), tod(t, "11:00")}
	second := []models.TimeOfDay{tod(t, "11:00"), tod(t, "11:30")}

	added, err := CreateSlots(day, first, 30)
	if err != nil {
		t.Fatalf("CreateSlots: %v", err)
	}
	if len(added) != 2 {
		t.Fatalf("expected 2 new slots, got %d", len(added))
	}
	if _, err := CreateSlots(day, second, 30); err != nil {
		t.Fatalf("CreateSlots: %v", err)
	}
	snapshot := slotTimes(day.Slots)

	again, err := CreateSlots(day, append(first, second...), 30)
	if err != nil {
		t.Fatalf("CreateSlots: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("repeat call added %d slots", len(again))
	}

	want := []string{"10:30", "11:00", "11:30"}
	got := slotTimes(day.Slots)
	if len(got) != len(want) {
		t.Fatalf("slots = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] || snapshot[i] != want[i] {
			t.Fatalf("slots = %v, want %v", got, want)
		}
	}
}

func TestCreateSlotsKeepsOccupiedSlots(t *testing.T) {
	day := dayWith(t, "10:00*")
	if _, err := CreateSlots(day, []models.TimeOfDay{tod(t, "10:00"), tod(t, "09:30")}, 30); err != nil {
		t.Fatalf("CreateSlots: %v", err)
	}
	slot, ok := FindSlot(day, tod(t, "10:00"))
	if !ok || !slot.Occupied || slot.LegID != "other-leg" {
		t.Fatalf("existing slot was altered: %+v", slot)
	}
	if day.Slots[0].Time.String() != "09:30" {
		t.Fatalf("slots not sorted: %v", slotTimes(day.Slots))
	}
}

func TestCreateSlotsRejectsTimesOutsideDay(t *testing.T) {
	day := &models.CalendarDay{}
	_, err := CreateSlots(day, []models.TimeOfDay{models.EndOfDay}, 30)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if len(day.Slots) != 0 {
		t.Fatalf("day modified on error")
	}
}

func TestCreateSlotsRejectsOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		times    []string
	}{
		{"off the grid", nil, []string{"10:15"}},
		{"overlapping new times", nil, []string{"10:00", "10:15", "10:20"}},
		{"overlaps an existing slot", []string{"10:00"}, []string{"10:20"}},
		{"existing slots already overlap", []string{"10:00", "10:10"}, []string{"11:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day := dayWith(t, tt.existing...)
			before := slotTimes(day.Slots)
			var times []models.TimeOfDay
			for _, hhmm := range tt.times {
				times = append(times, tod(t, hhmm))
			}

			added, err := CreateSlots(day, times, 30)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("err = %v, want ErrInvalidArgument", err)
			}
			if len(added) != 0 {
				t.Fatalf("added %d slots", len(added))
			}
			if got := slotTimes(day.Slots); len(got) != len(before) {
				t.Fatalf("slots = %v, want %v", got, before)
			}
		})
	}
}

func TestRemoveSlot(t *testing.T) {
	tests := []struct {
		name    string
		day     []string
		remove  string
		wantErr error
		left    int
	}{
		{"free slot", []string{"10:00", "10:30"}, "10:00", nil, 1},
		{"absent slot is a no-op", []string{"10:00"}, "12:00", nil, 1},
		{"occupied slot conflicts", []string{"10:00*", "10:30"}, "10:00", ErrConflict, 2},
		{"last slot empties the day", []string{"10:00"}, "10:00", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day := dayWith(t, tt.day...)
			err := RemoveSlot(day, tod(t, tt.remove))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(day.Slots) != tt.left {
				t.Fatalf("left %d slots, want %d", len(day.Slots), tt.left)
			}
		})
	}
}

func TestOccupySlotRange(t *testing.T) {
	day := dayWith(t, "11:00", "11:30", "12:00", "12:30")

	next, err := OccupySlotRange(day, tod(t, "11:00"), 3, "leg-1")
	if err != nil {
		t.Fatalf("OccupySlotRange: %v", err)
	}
	if next.String() != "12:30" {
		t.Fatalf("next = %s, want 12:30", next)
	}
	for i, s := range day.Slots {
		if i < 3 && (!s.Occupied || s.LegID != "leg-1") {
			t.Fatalf("slot %s not occupied by leg-1: %+v", s.Time, s)
		}
		if i == 3 && s.Occupied {
			t.Fatalf("slot 12:30 should stay free")
		}
	}
}

func TestOccupySlotRangeReachesEndOfDay(t *testing.T) {
	day := dayWith(t, "11:00", "11:30")
	next, err := OccupySlotRange(day, tod(t, "11:00"), 2, "leg-1")
	if err != nil {
		t.Fatalf("OccupySlotRange: %v", err)
	}
	if next != models.EndOfDay {
		t.Fatalf("next = %s, want end of day", next)
	}
}

func TestOccupySlotRangeFailuresLeaveDayUntouched(t *testing.T) {
	tests := []struct {
		name    string
		day     []string
		start   string
		count   int
		wantErr error
	}{
		{"unknown start", []string{"11:00", "11:30"}, "10:00", 1, ErrNotFound},
		{"run past last slot", []string{"11:00", "11:30"}, "11:00", 3, ErrOutOfRange},
		{"double occupancy", []string{"11:00", "11:30*", "12:00"}, "11:00", 3, ErrConflict},
		{"occupied start", []string{"11:00*", "11:30"}, "11:00", 1, ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day := dayWith(t, tt.day...)
			before := make([]models.Slot, len(day.Slots))
			copy(before, day.Slots)

			_, err := OccupySlotRange(day, tod(t, tt.start), tt.count, "leg-new")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			for i := range before {
				if before[i] != day.Slots[i] {
					t.Fatalf("slot %s changed on failure", before[i].Time)
				}
			}
		})
	}
}

func TestReleaseLeg(t *testing.T) {
	day := dayWith(t, "11:00", "11:30", "12:00")
	if _, err := OccupySlotRange(day, tod(t, "11:00"), 2, "leg-1"); err != nil {
		t.Fatalf("OccupySlotRange: %v", err)
	}
	if n := ReleaseLeg(day, "leg-1"); n != 2 {
		t.Fatalf("freed %d, want 2", n)
	}
	for _, s := range day.Slots {
		if s.Occupied || s.LegID != "" {
			t.Fatalf("slot %s still held", s.Time)
		}
	}
}

func TestSlotsNeeded(t *testing.T) {
	tests := []struct {
		max  int
		want int
	}{
		{30, 2},
		{45, 3},
		{60, 3},
		{61, 4},
		{120, 5},
	}
	for _, tt := range tests {
		if got := SlotsNeeded(models.Service{MaxDuration: tt.max}, 30); got != tt.want {
			t.Errorf("SlotsNeeded(%d) = %d, want %d", tt.max, got, tt.want)
		}
	}
}
