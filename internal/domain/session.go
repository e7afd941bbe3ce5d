package domain

import (
	"slices"
	"time"
)

// SelectionState enumerates the tag selection state machine states.
type SelectionState string

const (
	StateCollecting  SelectionState = "collecting"
	StateAwaitingURL SelectionState = "awaiting_url"
	StateExpired     SelectionState = "expired"
)

// SelectionSession is the ephemeral per-invocation tag selection.
// Selected keeps insertion order so the persisted categories follow the
// order in which the user picked them.
type SelectionSession struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	ChannelID string    `json:"channel_id"`
	Selected  []string  `json:"selected"`
	CreatedAt time.Time `json:"created_at"`
}

// Has reports whether value is currently selected.
func (s SelectionSession) Has(value string) bool {
	return slices.Contains(s.Selected, value)
}

// Toggle deselects a selected value or selects a new one. Selecting a value
// while MaxCategories are already selected returns ErrSelectionFull and
// leaves the session untouched.
func (s *SelectionSession) Toggle(value string) error {
	if i := slices.Index(s.Selected, value); i >= 0 {
		s.Selected = slices.Delete(s.Selected, i, i+1)
		return nil
	}
	if len(s.Selected) >= MaxCategories {
		return ErrSelectionFull
	}
	s.Selected = append(s.Selected, value)
	return nil
}
