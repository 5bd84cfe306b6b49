package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateEventID_FromCreationTime(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	assert.Equal(t, "1700000000123", GenerateEventID(now, nil))
}

func TestGenerateEventID_SkipsTakenIDs(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	taken := map[string]bool{"1700000000123": true, "1700000000124": true}

	id := GenerateEventID(now, func(id string) bool { return taken[id] })

	assert.Equal(t, "1700000000125", id)
}

func TestFallbackTagID(t *testing.T) {
	assert.Equal(t, "tag-0", FallbackTagID(0))
	assert.Equal(t, "tag-17", FallbackTagID(17))
}

func TestGenerateUUID_Unique(t *testing.T) {
	assert.NotEqual(t, GenerateUUID(), GenerateUUID())
	assert.Len(t, GenerateUUID(), 36)
}
