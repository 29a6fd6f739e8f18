package scheduling

import (
	"sort"

	"masterbook/models"
)

// DefaultSlotMinutes is the length of a calendar slot when none is configured.
const DefaultSlotMinutes = 30

// Engine answers feasibility questions over plain slot lists.
type Engine struct {
	SlotMinutes int
}

func NewEngine(slotMinutes int) *Engine {
	if slotMinutes <= 0 {
		slotMinutes = DefaultSlotMinutes
	}
	return &Engine{SlotMinutes: slotMinutes}
}

// FindAvailableStartingSlots returns every slot that can begin the service:
// it heads a run of SlotsNeeded free slots (adjacent in the sorted list), or
// it heads the last SlotsNeeded-1 slots of a free run that closes the day,
// where no trailing buffer is required.
func (e *Engine) FindAvailableStartingSlots(service models.Service, slots []models.Slot) []models.Slot {
	need := SlotsNeeded(service, e.SlotMinutes)
	if need < 2 || len(slots) == 0 {
		return nil
	}
	slots = sortedSlots(slots)

	var starts []models.Slot
	run := 0
	for i, s := range slots {
		if s.Occupied {
			run = 0
			continue
		}
		run++
		if run == need {
			starts = append(starts, slots[i-need+1])
			run--
		}
	}
	if run > 0 && run >= need-1 {
		starts = append(starts, slots[len(slots)-(need-1)])
	}
	return starts
}

// ServiceFitsIntoSlots reports whether the service can start somewhere in
// the half-open window [from, to).
func (e *Engine) ServiceFitsIntoSlots(service models.Service, slots []models.Slot, from, to models.TimeOfDay) (bool, error) {
	if len(slots) == 0 {
		return false, InvalidArgument("no slots to fit service %s into", service.ID)
	}
	if to <= from {
		return false, InvalidArgument("window end %s is not after start %s", to, from)
	}

	var window []models.Slot
	for _, s := range slots {
		if s.Time >= from && s.Time < to {
			window = append(window, s)
		}
	}
	return len(e.FindAvailableStartingSlots(service, window)) > 0, nil
}

// ServiceFitsFrom is ServiceFitsIntoSlots with the window closing one slot
// after the last slot of the list.
func (e *Engine) ServiceFitsFrom(service models.Service, slots []models.Slot, from models.TimeOfDay) (bool, error) {
	if len(slots) == 0 {
		return false, InvalidArgument("no slots to fit service %s into", service.ID)
	}
	last := sortedSlots(slots)[len(slots)-1]
	return e.ServiceFitsIntoSlots(service, slots, from, last.Time.Add(e.SlotMinutes))
}

// StartsWithin lists the feasible start times inside [from, to).
func (e *Engine) StartsWithin(service models.Service, slots []models.Slot, from, to models.TimeOfDay) []models.TimeOfDay {
	var window []models.Slot
	for _, s := range slots {
		if s.Time >= from && s.Time < to {
			window = append(window, s)
		}
	}
	var times []models.TimeOfDay
	for _, s := range e.FindAvailableStartingSlots(service, window) {
		times = append(times, s.Time)
	}
	return times
}

func sortedSlots(slots []models.Slot) []models.Slot {
	if sort.SliceIsSorted(slots, func(i, j int) bool { return slots[i].Time < slots[j].Time }) {
		return slots
	}
	cp := make([]models.Slot, len(slots))
	copy(cp, slots)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].Time < cp[j].Time })
	return cp
}
