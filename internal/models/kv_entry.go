package models

import (
	"time"

	"github.com/uptrace/bun"
)

// KVEntry is a single persisted key/value pair. The event collection lives in one row.
type KVEntry struct {
	bun.BaseModel `bun:"table:kv_entries"`

	Key       string    `bun:"name,pk"`
	Value     string    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
