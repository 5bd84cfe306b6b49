package models

// AppState is everything the nametag editor knows about.
// Tags is the working list; when ActiveEventID is set it mirrors that event's tags.
type AppState struct {
	Events           []Event `json:"events"`
	ActiveEventID    string  `json:"activeEventId,omitempty"`
	Tags             []Tag   `json:"tags"`
	ShowSelectedOnly bool    `json:"showSelectedOnly"`
}

// ActiveEvent returns the active event, if any.
func (s AppState) ActiveEvent() (Event, bool) {
	if s.ActiveEventID == "" {
		return Event{}, false
	}
	for _, e := range s.Events {
		if e.ID == s.ActiveEventID {
			return e, true
		}
	}
	return Event{}, false
}

// SelectedCount returns how many working tags are selected.
func (s AppState) SelectedCount() int {
	n := 0
	for _, t := range s.Tags {
		if t.Selected {
			n++
		}
	}
	return n
}
