package scheduling

import "time"

const (
	// BufferMinutes is the mandatory idle time after every appointment
	// before the next may start.
	BufferMinutes = 15

	// PendingExpiryMinutes is how long a `pending` booking may sit before
	// the sweeper cancels it.
	PendingExpiryMinutes = 15
)

// Slot is a derived candidate interval; never persisted, recomputed on
// every query.
type Slot struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Available bool      `json:"available"`
}

// ValidDuration reports whether a requested service duration is bookable.
func ValidDuration(minutes int) bool {
	return minutes == 30 || minutes == 60 || minutes == 90
}

// GenerateSlots produces the fixed scheduling grid between open and close.
// The cursor always advances to slotEnd+buffer, even when the slot itself
// does not fit, so the grid is buffer-aligned rather than repacked around
// rejected slots. A slot is emitted only when slotEnd+buffer <= close.
func GenerateSlots(open, close time.Time, duration time.Duration) []Slot {
	buffer := BufferMinutes * time.Minute

	var slots []Slot
	for cur := open; cur.Before(close); {
		slotEnd := cur.Add(duration)

		if !slotEnd.Add(buffer).After(close) {
			slots = append(slots, Slot{
				StartTime: cur,
				EndTime:   slotEnd,
			})
		}

		cur = slotEnd.Add(buffer)
	}

	return slots
}
