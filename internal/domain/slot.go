// Package domain holds the value types shared by the finder, the upstream clients and the API.
package domain

// SlotCount is the number of preference slots in a finder session.
const SlotCount = 3

// SelectionHint is shown under a slot whose text was typed but never confirmed.
const SelectionHint = "You must click a valid item from the search list."

//nolint:gochecknoglobals // fixed per-slot prompts
var slotPlaceholders = [SlotCount]string{
	"super awesome movie here...",
	"or maybe your favorite book...",
	"or the song that's been on repeat...",
}

// Slot is one preference input. A slot is confirmed when it holds a
// selection the user picked from the search candidates; ConfirmedKey and
// ConfirmedTitle are either both set or both empty.
type Slot struct {
	ID             int    `json:"id"`
	Placeholder    string `json:"placeholder"`
	ConfirmedKey   string `json:"confirmed_key,omitempty"`
	ConfirmedTitle string `json:"confirmed_title,omitempty"`
}

// NewSlots returns the fixed set of empty slots, numbered from 1.
func NewSlots() [SlotCount]Slot {
	var slots [SlotCount]Slot
	for i := range slots {
		slots[i] = Slot{ID: i + 1, Placeholder: slotPlaceholders[i]}
	}
	return slots
}

// ValidSlotID reports whether id names one of the slots.
func ValidSlotID(id int) bool {
	return id >= 1 && id <= SlotCount
}

// Confirmed reports whether the slot holds a selection.
func (s *Slot) Confirmed() bool {
	return s.ConfirmedKey != ""
}

// Confirm records a selection. It is a no-op for an empty key; a missing
// title is derived from the key.
func (s *Slot) Confirm(c Candidate) {
	if c.Key == "" {
		return
	}
	s.ConfirmedKey = c.Key
	s.ConfirmedTitle = c.Title
	if s.ConfirmedTitle == "" {
		s.ConfirmedTitle = TitleFromKey(c.Key)
	}
}

// Clear removes the selection.
func (s *Slot) Clear() {
	s.ConfirmedKey = ""
	s.ConfirmedTitle = ""
}

// SlotState is the lifecycle state of a slot as seen by a client.
type SlotState string

// Slot states.
const (
	SlotEmpty     SlotState = "empty"
	SlotSearching SlotState = "searching"
	SlotBrowsing  SlotState = "browsing"
	SlotConfirmed SlotState = "confirmed"
)
