// Package state holds the pure transitions of the nametag editor. Every
// function takes the full AppState and returns the next one; inputs are never
// modified, so a caller can compare before and after or simply drop the result.
package state

import (
	"strings"
	"time"

	"ms-nametags/internal/models"
	"ms-nametags/internal/utils"
)

// ApplyTagListChange is the only way the working list changes. It installs
// tags as the working list, overwrites the active event's tags with the same
// list and turns the selected-only filter off once nothing is selected.
func ApplyTagListChange(s models.AppState, tags []models.Tag) models.AppState {
	next := Clone(s)
	next.Tags = copyTags(tags)

	if next.ActiveEventID != "" {
		for i := range next.Events {
			if next.Events[i].ID == next.ActiveEventID {
				next.Events[i].Tags = copyTags(tags)
				break
			}
		}
	}

	if next.ShowSelectedOnly && next.SelectedCount() == 0 {
		next.ShowSelectedOnly = false
	}
	return next
}

// CreateEvent appends a new empty event, activates it and clears the working
// list. A blank name leaves the state unchanged and reports false.
func CreateEvent(s models.AppState, name string, now time.Time) (models.AppState, models.Event, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, models.Event{}, false
	}

	event := models.Event{
		ID:        utils.GenerateEventID(now, func(id string) bool { return hasEvent(s, id) }),
		Name:      name,
		Tags:      []models.Tag{},
		CreatedAt: now,
	}

	next := Clone(s)
	next.Events = append(next.Events, event)
	next.ActiveEventID = event.ID
	return ApplyTagListChange(next, []models.Tag{}), event, true
}

// SwitchEvent activates id and loads its stored tags into the working list.
func SwitchEvent(s models.AppState, id string) (models.AppState, bool) {
	idx := indexOf(s, id)
	if idx < 0 {
		return s, false
	}
	next := Clone(s)
	next.ActiveEventID = id
	return ApplyTagListChange(next, s.Events[idx].Tags), true
}

// DeleteEvent removes id. Deleting the active event also clears the active
// pointer and the working list; any other deletion leaves them alone.
func DeleteEvent(s models.AppState, id string) (models.AppState, bool) {
	idx := indexOf(s, id)
	if idx < 0 {
		return s, false
	}

	next := Clone(s)
	next.Events = append(next.Events[:idx], next.Events[idx+1:]...)
	if s.ActiveEventID != id {
		return next, true
	}

	next.ActiveEventID = ""
	return ApplyTagListChange(next, []models.Tag{}), true
}

// RenameEvent changes the name of id in place. A blank name is a no-op.
func RenameEvent(s models.AppState, id, name string) (models.AppState, bool) {
	name = strings.TrimSpace(name)
	idx := indexOf(s, id)
	if idx < 0 || name == "" {
		return s, false
	}
	next := Clone(s)
	next.Events[idx].Name = name
	return next, true
}

// UpdateField sets one editable field of tag id. Unknown ids are a no-op.
func UpdateField(s models.AppState, id string, field models.TagField, value string) (models.AppState, error) {
	if !field.IsEditable() {
		return s, models.ErrUnknownField
	}
	return mapTag(s, id, func(t *models.Tag) { t.Set(field, value) }), nil
}

// ToggleSelection flips the selected flag of tag id.
func ToggleSelection(s models.AppState, id string) models.AppState {
	return mapTag(s, id, func(t *models.Tag) { t.Selected = !t.Selected })
}

// SelectAll marks every working tag as selected.
func SelectAll(s models.AppState) models.AppState {
	return setAllSelected(s, true)
}

// DeselectAll clears every selection, which also disables the filter.
func DeselectAll(s models.AppState) models.AppState {
	return setAllSelected(s, false)
}

// Clear empties the working list (and the active event's tags).
func Clear(s models.AppState) models.AppState {
	return ApplyTagListChange(s, []models.Tag{})
}

// SetShowSelectedOnly toggles the filter. Enabling it with nothing selected
// is rejected with models.ErrNothingSelected and the state is unchanged.
func SetShowSelectedOnly(s models.AppState, enabled bool) (models.AppState, error) {
	if enabled && s.SelectedCount() == 0 {
		return s, models.ErrNothingSelected
	}
	next := Clone(s)
	next.ShowSelectedOnly = enabled
	return next, nil
}

// VisibleTags is the list the editor shows: every tag, or only the selected
// ones while the filter is on.
func VisibleTags(s models.AppState) []models.Tag {
	if !s.ShowSelectedOnly {
		return copyTags(s.Tags)
	}
	out := make([]models.Tag, 0, len(s.Tags))
	for _, t := range s.Tags {
		if t.Selected {
			out = append(out, t)
		}
	}
	return out
}

// LoadEvents installs a freshly loaded event collection with nothing active.
func LoadEvents(events []models.Event) models.AppState {
	s := models.AppState{Tags: []models.Tag{}}
	s.Events = make([]models.Event, len(events))
	for i, e := range events {
		e.Tags = copyTags(e.Tags)
		s.Events[i] = e
	}
	return s
}

func setAllSelected(s models.AppState, selected bool) models.AppState {
	tags := copyTags(s.Tags)
	for i := range tags {
		tags[i].Selected = selected
	}
	return ApplyTagListChange(s, tags)
}

func mapTag(s models.AppState, id string, fn func(*models.Tag)) models.AppState {
	for i := range s.Tags {
		if s.Tags[i].ID == id {
			tags := copyTags(s.Tags)
			fn(&tags[i])
			return ApplyTagListChange(s, tags)
		}
	}
	return s
}

func indexOf(s models.AppState, id string) int {
	for i, e := range s.Events {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func hasEvent(s models.AppState, id string) bool {
	return indexOf(s, id) >= 0
}

// Clone copies the state deeply enough that writes to the result never reach s.
func Clone(s models.AppState) models.AppState {
	next := s
	next.Tags = copyTags(s.Tags)
	next.Events = make([]models.Event, len(s.Events))
	for i, e := range s.Events {
		e.Tags = copyTags(e.Tags)
		next.Events[i] = e
	}
	return next
}

func copyTags(tags []models.Tag) []models.Tag {
	out := make([]models.Tag, len(tags))
	copy(out, tags)
	return out
}
