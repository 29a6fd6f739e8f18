package models

import "time"

// Slot is one fixed-length unit of a master's working day.
type Slot struct {
	ID       string    `bson:"id" json:"id"`
	Time     TimeOfDay `bson:"time" json:"time"`
	Occupied bool      `bson:"occupied" json:"occupied"`
	LegID    string    `bson:"legId,omitempty" json:"legId,omitempty"` // set while occupied
}

// CalendarDay holds one master's slots for one date, sorted by Time.
// Version is bumped on every save and guards concurrent writers.
type CalendarDay struct {
	ID        string    `bson:"id" json:"id"`
	MasterID  string    `bson:"masterId" json:"masterId"`
	Date      string    `bson:"date" json:"date"` // DateLayout
	Slots     []Slot    `bson:"slots" json:"slots"`
	Version   int       `bson:"version" json:"version"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Clone returns a deep copy so tentative occupancy never touches the original.
func (d *CalendarDay) Clone() *CalendarDay {
	if d == nil {
		return nil
	}
	cp := *d
	cp.Slots = make([]Slot, len(d.Slots))
	copy(cp.Slots, d.Slots)
	return &cp
}

type PublishSlotsRequest struct {
	Times []TimeOfDay `json:"times" binding:"required"`
}
