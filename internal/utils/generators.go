package utils

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// GenerateEventID derives an event id from its creation time in milliseconds.
// When taken reports a collision the id is bumped one millisecond at a time.
func GenerateEventID(now time.Time, taken func(string) bool) string {
	ms := now.UnixMilli()
	id := strconv.FormatInt(ms, 10)
	for taken != nil && taken(id) {
		ms++
		id = strconv.FormatInt(ms, 10)
	}
	return id
}

// FallbackTagID names a tag that arrived without an identifier, by its position in the list.
func FallbackTagID(position int) string {
	return fmt.Sprintf("tag-%d", position)
}

// GenerateUUID creates a random UUID v4
func GenerateUUID() string {
	return uuid.NewString()
}
