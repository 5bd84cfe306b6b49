package nametags

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"sync"
	"time"

	"ms-nametags/internal/auth"
	"ms-nametags/internal/kafka"
	"ms-nametags/internal/logger"
	"ms-nametags/internal/metrics"
	"ms-nametags/internal/models"
	"ms-nametags/internal/nametags/state"
	"ms-nametags/internal/prompt"
	"ms-nametags/internal/roster"
	"ms-nametags/internal/sheets"
)

// Questions put to the Decider.
const (
	CreateEventPrompt = "Name for the new event:"
	RenameEventPrompt = "New name for the event:"
	ClearPrompt       = "Remove every tag from the list?"
)

// DeletePrompt is the confirmation shown before an event is deleted.
func DeletePrompt(name string) string {
	return fmt.Sprintf("Delete event %q and all of its tags?", name)
}

type EventStore interface {
	LoadEvents(ctx context.Context) ([]models.Event, error)
	SaveEvents(ctx context.Context, events []models.Event) error
}

type SheetExporter interface {
	Export(w io.Writer, tags []models.Tag) (int, error)
}

// NametagService owns the editor state. Every operation runs under one lock,
// so requests are applied one at a time.
type NametagService struct {
	Store    EventStore
	Exporter SheetExporter
	Activity kafka.Publisher
	Metrics  *metrics.Metrics
	Logger   *logger.Logger
	Now      func() time.Time

	mu    sync.Mutex
	state models.AppState
}

func NewNametagService(store EventStore, exporter SheetExporter, activity kafka.Publisher, m *metrics.Metrics, log *logger.Logger) *NametagService {
	if activity == nil {
		activity = kafka.NopPublisher{}
	}
	if m == nil {
		m = metrics.New()
	}
	return &NametagService{
		Store:    store,
		Exporter: exporter,
		Activity: activity,
		Metrics:  m,
		Logger:   log,
		Now:      time.Now,
		state:    state.LoadEvents(nil),
	}
}

// Load reads the saved events. Nothing is active afterwards. A store failure
// leaves the service empty and is returned so the caller can report it.
func (s *NametagService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.Store.LoadEvents(ctx)
	if err != nil {
		s.Metrics.StoreErrors.WithLabelValues("load").Inc()
		s.Logger.Error("STORE", fmt.Sprintf("Failed to load events: %v", err))
		s.state = state.LoadEvents(nil)
		s.observe()
		return err
	}
	s.state = state.LoadEvents(events)
	s.observe()
	s.Logger.Info("EVENT", fmt.Sprintf("Loaded %d events", len(events)))
	return nil
}

// Snapshot returns a copy of the whole state.
func (s *NametagService) Snapshot() models.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return state.Clone(s.state)
}

// VisibleTags is the working list with the selected-only filter applied.
func (s *NametagService) VisibleTags() []models.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return state.VisibleTags(s.state)
}

// Sheets paginates the visible tags for printing.
func (s *NametagService) Sheets() []sheets.Sheet {
	return sheets.Paginate(s.VisibleTags())
}

// ImportCSV reads a roster into the working list, asking d whether to append
// when the list is not empty.
func (s *NametagService) ImportCSV(ctx context.Context, r io.Reader, d prompt.Decider) (roster.Result, error) {
	var (
		res roster.Result
		err error
	)
	s.withLock(ctx, func() *models.Activity {
		res, err = roster.Import(r, s.state.Tags, d)
		if err != nil {
			s.Logger.Error("IMPORT", err.Error())
			return nil
		}

		s.commit(ctx, state.ApplyTagListChange(s.state, res.Tags))
		s.Metrics.Imports.WithLabelValues(res.Mode()).Inc()
		s.Metrics.ImportedRows.Add(float64(res.Added))
		s.Logger.LogImport(res.Mode(), res.Added, fmt.Sprintf("working list now has %d tags", len(res.Tags)))
		return s.activity(ctx, models.Activity{
			Kind:    models.ActivityTagsImported,
			EventID: s.state.ActiveEventID,
			Count:   res.Added,
			Mode:    res.Mode(),
		})
	})
	if err != nil {
		return roster.Result{}, err
	}
	return res, nil
}

// CreateEvent prompts for a name and makes the new event active. A cancelled
// or blank name creates nothing and reports false.
func (s *NametagService) CreateEvent(ctx context.Context, d prompt.Decider) (models.Event, bool) {
	var (
		event   models.Event
		created bool
	)
	s.withLock(ctx, func() *models.Activity {
		name, ok := d.PromptText(CreateEventPrompt, "")
		if !ok {
			return nil
		}
		var next models.AppState
		next, event, created = state.CreateEvent(s.state, name, s.Now())
		if !created {
			return nil
		}

		s.commit(ctx, next)
		s.Logger.LogEvent("CREATE", event.ID, event.Name)
		return s.activity(ctx, models.Activity{Kind: models.ActivityEventCreated, EventID: event.ID, EventName: event.Name})
	})
	if !created {
		return models.Event{}, false
	}
	return event, true
}

// SwitchEvent activates id and loads its tags.
func (s *NametagService) SwitchEvent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := state.SwitchEvent(s.state, id)
	if !ok {
		return fmt.Errorf("event %s: %w", id, models.ErrNotFound)
	}
	s.commit(ctx, next)
	s.Logger.LogEvent("SWITCH", id, fmt.Sprintf("%d tags loaded", len(next.Tags)))
	return nil
}

// DeleteEvent removes id once d confirms. Declining is not an error.
func (s *NametagService) DeleteEvent(ctx context.Context, id string, d prompt.Decider) (bool, error) {
	var (
		deleted bool
		err     error
	)
	s.withLock(ctx, func() *models.Activity {
		event, ok := s.findEvent(id)
		if !ok {
			err = fmt.Errorf("event %s: %w", id, models.ErrNotFound)
			return nil
		}
		if !d.Confirm(DeletePrompt(event.Name)) {
			return nil
		}

		next, _ := state.DeleteEvent(s.state, id)
		s.commit(ctx, next)
		deleted = true
		s.Logger.LogEvent("DELETE", id, event.Name)
		return s.activity(ctx, models.Activity{Kind: models.ActivityEventDeleted, EventID: id, EventName: event.Name})
	})
	return deleted, err
}

// RenameEvent prompts for a new name, offering the current one. A cancelled
// or blank answer leaves the name as it was.
func (s *NametagService) RenameEvent(ctx context.Context, id string, d prompt.Decider) (bool, error) {
	var (
		renamed bool
		err     error
	)
	s.withLock(ctx, func() *models.Activity {
		event, ok := s.findEvent(id)
		if !ok {
			err = fmt.Errorf("event %s: %w", id, models.ErrNotFound)
			return nil
		}
		name, ok := d.PromptText(RenameEventPrompt, event.Name)
		if !ok {
			return nil
		}
		next, ok := state.RenameEvent(s.state, id, name)
		if !ok {
			return nil
		}

		s.commit(ctx, next)
		renamed = true
		current, _ := s.findEvent(id)
		s.Logger.LogEvent("RENAME", id, fmt.Sprintf("%q -> %q", event.Name, current.Name))
		return s.activity(ctx, models.Activity{Kind: models.ActivityEventRenamed, EventID: id, EventName: current.Name})
	})
	return renamed, err
}

// UpdateField edits one field of a working tag.
func (s *NametagService) UpdateField(ctx context.Context, id string, field models.TagField, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !field.IsEditable() {
		return fmt.Errorf("%s: %w", field, models.ErrUnknownField)
	}
	if !s.hasTag(id) {
		return fmt.Errorf("tag %s: %w", id, models.ErrNotFound)
	}
	next, err := state.UpdateField(s.state, id, field, value)
	if err != nil {
		return err
	}
	s.commit(ctx, next)
	return nil
}

func (s *NametagService) ToggleSelection(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasTag(id) {
		return fmt.Errorf("tag %s: %w", id, models.ErrNotFound)
	}
	s.commit(ctx, state.ToggleSelection(s.state, id))
	return nil
}

func (s *NametagService) SelectAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(ctx, state.SelectAll(s.state))
}

func (s *NametagService) DeselectAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(ctx, state.DeselectAll(s.state))
}

// Clear empties the working list once d confirms.
func (s *NametagService) Clear(ctx context.Context, d prompt.Decider) bool {
	var cleared bool
	s.withLock(ctx, func() *models.Activity {
		if !d.Confirm(ClearPrompt) {
			return nil
		}
		removed := len(s.state.Tags)
		s.commit(ctx, state.Clear(s.state))
		cleared = true
		s.Logger.Info("TAGS", fmt.Sprintf("Cleared %d tags", removed))
		return s.activity(ctx, models.Activity{Kind: models.ActivityTagsCleared, EventID: s.state.ActiveEventID, Count: removed})
	})
	return cleared
}

// SetShowSelectedOnly turns the filter on or off. Turning it on with nothing
// selected returns models.ErrNothingSelected.
func (s *NametagService) SetShowSelectedOnly(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := state.SetShowSelectedOnly(s.state, enabled)
	if err != nil {
		return err
	}
	s.commit(ctx, next)
	return nil
}

// ExportPDF writes the visible tags as printable sheets and returns the page count.
func (s *NametagService) ExportPDF(ctx context.Context, w io.Writer) (int, error) {
	var (
		pages int
		err   error
	)
	s.withLock(ctx, func() *models.Activity {
		pages, err = s.Exporter.Export(w, state.VisibleTags(s.state))
		if err != nil {
			return nil
		}
		s.Metrics.Exports.WithLabelValues("pdf").Inc()
		s.Metrics.PagesPrinted.Add(float64(pages))
		s.Logger.Info("EXPORT", fmt.Sprintf("Wrote %d sheet pages", pages))
		return s.activity(ctx, models.Activity{Kind: models.ActivitySheetsExported, EventID: s.state.ActiveEventID, Count: pages})
	})
	if err != nil {
		return 0, err
	}
	return pages, nil
}

// ExportCSV writes the whole working list as a roster that imports back unchanged.
func (s *NametagService) ExportCSV(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := roster.WriteCSV(w, s.state.Tags); err != nil {
		return err
	}
	s.Metrics.Exports.WithLabelValues("csv").Inc()
	return nil
}

// commit installs next and saves the event collection if it changed. A failed
// save is logged; the in-memory state stays authoritative.
func (s *NametagService) commit(ctx context.Context, next models.AppState) {
	changed := !reflect.DeepEqual(s.state.Events, next.Events)
	s.state = next
	s.observe()
	if !changed {
		return
	}
	if err := s.Store.SaveEvents(ctx, s.state.Events); err != nil {
		s.Metrics.StoreErrors.WithLabelValues("save").Inc()
		s.Logger.Error("STORE", fmt.Sprintf("Failed to save events: %v", err))
	}
}

func (s *NametagService) observe() {
	s.Metrics.Events.Set(float64(len(s.state.Events)))
	s.Metrics.WorkingTags.Set(float64(len(s.state.Tags)))
	s.Metrics.SelectedTags.Set(float64(s.state.SelectedCount()))
}

// withLock runs fn under the service lock and publishes the activity it
// returns after the lock is released, so a slow broker only delays the caller.
func (s *NametagService) withLock(ctx context.Context, fn func() *models.Activity) {
	activity := func() *models.Activity {
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn()
	}()
	if activity == nil {
		return
	}
	// Failures are logged by the publisher.
	_ = s.Activity.Publish(ctx, *activity)
}

// activity completes a feed message from the current state. Call it with the lock held.
func (s *NametagService) activity(ctx context.Context, a models.Activity) *models.Activity {
	if a.EventID != "" && a.EventName == "" {
		if e, ok := s.findEvent(a.EventID); ok {
			a.EventName = e.Name
		}
	}
	a.Actor = auth.UserID(ctx)
	return &a
}

func (s *NametagService) findEvent(id string) (models.Event, bool) {
	for _, e := range s.state.Events {
		if e.ID == id {
			return e, true
		}
	}
	return models.Event{}, false
}

func (s *NametagService) hasTag(id string) bool {
	for _, t := range s.state.Tags {
		if t.ID == id {
			return true
		}
	}
	return false
}
