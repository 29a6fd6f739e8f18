package scheduling

import (
	"sort"

	"masterbook/models"

	"github.com/google/uuid"
)

// ServiceSlots is the number of slots a service itself occupies.
func ServiceSlots(service models.Service, slotMinutes int) int {
	if slotMinutes <= 0 || service.MaxDuration <= 0 {
		return 0
	}
	return (service.MaxDuration + slotMinutes - 1) / slotMinutes
}

// SlotsNeeded is the service run plus one trailing buffer slot.
func SlotsNeeded(service models.Service, slotMinutes int) int {
	return ServiceSlots(service, slotMinutes) + 1
}

// CreateSlots adds a free slot for every time not yet present in the day.
// Existing slots, occupied or not, are left untouched and duplicate input
// times collapse, so repeating a call changes nothing. Every time must sit
// on the slotMinutes grid and no two slots of the day may overlap. It
// returns the slots that were added.
func CreateSlots(day *models.CalendarDay, times []models.TimeOfDay, slotMinutes int) ([]models.Slot, error) {
	if slotMinutes <= 0 {
		slotMinutes = DefaultSlotMinutes
	}
	for _, t := range times {
		if t < 0 || t >= models.EndOfDay {
			return nil, InvalidArgument("slot time %d is outside the day", int(t))
		}
		if int(t)%slotMinutes != 0 {
			return nil, InvalidArgument("slot time %s is not on the %d minute grid", t, slotMinutes)
		}
	}

	present := make(map[models.TimeOfDay]bool, len(day.Slots)+len(times))
	for _, s := range day.Slots {
		present[s.Time] = true
	}

	var added []models.Slot
	for _, t := range times {
		if present[t] {
			continue
		}
		present[t] = true
		added = append(added, models.Slot{ID: uuid.New().String(), Time: t})
	}
	if len(added) == 0 {
		return nil, nil
	}

	merged := make([]models.Slot, 0, len(day.Slots)+len(added))
	merged = append(merged, day.Slots...)
	merged = append(merged, added...)
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Time < merged[j].Time
	})
	for i := 1; i < len(merged); i++ {
		if int(merged[i].Time-merged[i-1].Time) < slotMinutes {
			return nil, InvalidArgument("slot %s overlaps slot %s", merged[i].Time, merged[i-1].Time)
		}
	}
	day.Slots = merged
	return added, nil
}

// indexOf returns the position of the slot starting at t, or -1.
func indexOf(day *models.CalendarDay, t models.TimeOfDay) int {
	i := sort.Search(len(day.Slots), func(i int) bool { return day.Slots[i].Time >= t })
	if i < len(day.Slots) && day.Slots[i].Time == t {
		return i
	}
	return -1
}

// FindSlot returns the slot starting at t.
func FindSlot(day *models.CalendarDay, t models.TimeOfDay) (*models.Slot, bool) {
	i := indexOf(day, t)
	if i < 0 {
		return nil, false
	}
	return &day.Slots[i], true
}

// RemoveSlot deletes the slot at t. Removing an absent slot is a no-op;
// removing an occupied one is a conflict. The caller drops the day once it
// has no slots left.
func RemoveSlot(day *models.CalendarDay, t models.TimeOfDay) error {
	i := indexOf(day, t)
	if i < 0 {
		return nil
	}
	if day.Slots[i].Occupied {
		return Conflict("slot %s on %s is occupied", t, day.Date)
	}
	day.Slots = append(day.Slots[:i], day.Slots[i+1:]...)
	return nil
}

// OccupySlotRange marks count consecutive slots (in sorted order) starting at
// start as occupied by legID. Nothing is modified unless the whole run is
// free. It returns the start time of the slot right after the run, or
// models.EndOfDay when the run reaches the last slot.
func OccupySlotRange(day *models.CalendarDay, start models.TimeOfDay, count int, legID string) (models.TimeOfDay, error) {
	if count <= 0 {
		return 0, InvalidArgument("slot count must be positive, got %d", count)
	}
	i := indexOf(day, start)
	if i < 0 {
		return 0, NotFound("no slot at %s on %s", start, day.Date)
	}
	if i+count > len(day.Slots) {
		return 0, OutOfRange("%d slots from %s exceed the %d slots of %s", count, start, len(day.Slots)-i, day.Date)
	}
	for _, s := range day.Slots[i : i+count] {
		if s.Occupied {
			return 0, Conflict("slot %s on %s is already occupied", s.Time, day.Date)
		}
	}

	for k := i; k < i+count; k++ {
		day.Slots[k].Occupied = true
		day.Slots[k].LegID = legID
	}

	if i+count < len(day.Slots) {
		return day.Slots[i+count].Time, nil
	}
	return models.EndOfDay, nil
}

// ReleaseLeg frees every slot held by legID and returns how many were freed.
func ReleaseLeg(day *models.CalendarDay, legID string) int {
	freed := 0
	for k := range day.Slots {
		if day.Slots[k].Occupied && day.Slots[k].LegID == legID {
			day.Slots[k].Occupied = false
			day.Slots[k].LegID = ""
			freed++
		}
	}
	return freed
}
