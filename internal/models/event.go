package models

import (
	"time"
)

// Event is a named, independently persisted collection of tags.
type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Tags      []Tag     `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
}
