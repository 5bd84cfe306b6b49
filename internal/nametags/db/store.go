package db

import (
	"context"
	"encoding/json"
	"fmt"

	"ms-nametags/internal/logger"
	"ms-nametags/internal/models"
)

// KV is the opaque persistent map the event collection is written to.
type KV interface {
	// Get returns the stored value and whether key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// EventRepository keeps the whole event collection as one JSON array under Key.
type EventRepository struct {
	KV     KV
	Key    string
	Logger *logger.Logger
}

func NewEventRepository(kv KV, key string, log *logger.Logger) *EventRepository {
	return &EventRepository{KV: kv, Key: key, Logger: log}
}

// LoadEvents reads the collection. A missing entry or one that does not decode
// is logged and treated as no events; only store failures are returned.
func (r *EventRepository) LoadEvents(ctx context.Context) ([]models.Event, error) {
	raw, ok, err := r.KV.Get(ctx, r.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.Key, err)
	}
	if !ok || raw == "" {
		r.Logger.LogStore("LOAD", r.Key, "no saved events")
		return []models.Event{}, nil
	}

	var events []models.Event
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		r.Logger.Error("STORE", fmt.Sprintf("Saved events under %s are malformed, starting empty: %v", r.Key, err))
		return []models.Event{}, nil
	}
	if events == nil {
		events = []models.Event{}
	}
	for i := range events {
		if events[i].Tags == nil {
			events[i].Tags = []models.Tag{}
		}
	}

	r.Logger.LogStore("LOAD", r.Key, fmt.Sprintf("%d events", len(events)))
	return events, nil
}

// SaveEvents overwrites the collection.
func (r *EventRepository) SaveEvents(ctx context.Context, events []models.Event) error {
	if events == nil {
		events = []models.Event{}
	}
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("failed to encode events: %w", err)
	}
	if err := r.KV.Set(ctx, r.Key, string(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.Key, err)
	}
	r.Logger.LogStore("SAVE", r.Key, fmt.Sprintf("%d events", len(events)))
	return nil
}
