package models

import "time"

// Activity kinds published on the activity feed.
const (
	ActivityEventCreated   = "event.created"
	ActivityEventRenamed   = "event.renamed"
	ActivityEventDeleted   = "event.deleted"
	ActivityTagsImported   = "tags.imported"
	ActivityTagsCleared    = "tags.cleared"
	ActivitySheetsExported = "sheets.exported"
)

// Activity is a single message on the activity feed.
type Activity struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	EventID   string    `json:"event_id,omitempty"`
	EventName string    `json:"event_name,omitempty"`
	Count     int       `json:"count,omitempty"`
	Mode      string    `json:"mode,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
