package portal

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Backend is the external collaborator that persists events and predicts
// their tags.
type Backend interface {
	AddEvent(ctx context.Context, draft Draft) (Event, error)
	EditEvent(ctx context.Context, id EventID, draft Draft) (Event, error)
	DeleteEvent(ctx context.Context, id EventID) error
	ListEvents(ctx context.Context) ([]Event, error)
}

// ChangeType identifies a confirmed store mutation.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeEdited  ChangeType = "edited"
	ChangeDeleted ChangeType = "deleted"
	ChangeLoaded  ChangeType = "loaded"
)

// Change describes a mutation after the collaborator confirmed it.
type Change struct {
	Type  ChangeType
	Event Event // zero for ChangeLoaded
	Count int   // events held after the change
	At    time.Time
}

// Publisher receives store changes. *bus.Bus[Change] satisfies it.
type Publisher interface {
	Publish(change Change) error
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithPublisher sends every confirmed change to p.
func WithPublisher(p Publisher) StoreOption {
	return func(s *Store) { s.publisher = p }
}

// WithClock overrides the time source used to stamp changes.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// Store is the client-side cache of events. Mutations are delegated to the
// Backend and applied locally only after the Backend confirms them.
// Mutating calls are serialized so at most one request is outstanding.
type Store struct {
	backend   Backend
	publisher Publisher
	now       func() time.Time

	ops sync.Mutex // serializes backend round-trips

	mu     sync.RWMutex
	events []Event
}

// NewStore creates an empty store backed by backend.
func NewStore(backend Backend, opts ...StoreOption) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the events in store order. Callers may modify
// the result freely.
func (s *Store) Snapshot() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Event, len(s.events))
	for i, ev := range s.events {
		out[i] = ev.clone()
	}
	return out
}

// Len returns the number of events held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Get returns the event with the given identifier.
func (s *Store) Get(id EventID) (Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexLocked(id); i >= 0 {
		return s.events[i].clone(), true
	}
	return Event{}, false
}

// Create validates the fields, asks the backend to persist the event and
// appends the confirmed record. On any failure the store is unchanged.
func (s *Store) Create(ctx context.Context, title, date, description string) (Event, error) {
	draft := Draft{Title: title, Date: date, Description: description}
	if err := draft.Validate(); err != nil {
		return Event{}, err
	}

	s.ops.Lock()
	defer s.ops.Unlock()

	created, err := s.backend.AddEvent(ctx, draft)
	if err != nil {
		log.Printf("[portal][store] add %q failed: %v", title, err)
		return Event{}, err
	}
	if !created.Persisted() {
		return Event{}, &RemoteError{Op: "add", Message: "response carried no event id"}
	}

	s.mu.Lock()
	if s.indexLocked(created.ID) >= 0 {
		s.mu.Unlock()
		return Event{}, &RemoteError{Op: "add", Message: fmt.Sprintf("duplicate event id %s", created.ID)}
	}
	s.events = append(s.events, created.clone())
	count := len(s.events)
	s.mu.Unlock()

	log.Printf("[portal][store] added event %s (tags: %v)", created.ID, created.Tags)
	s.publish(ChangeCreated, created, count)
	return created.clone(), nil
}

// Edit replaces the fields of a held event. The record keeps its position;
// its tags are whatever the backend predicts for the new description.
func (s *Store) Edit(ctx context.Context, id EventID, title, date, description string) (Event, error) {
	if id.IsZero() {
		return Event{}, ErrNotPersisted
	}
	draft := Draft{Title: title, Date: date, Description: description}
	if err := draft.Validate(); err != nil {
		return Event{}, err
	}
	if _, ok := s.Get(id); !ok {
		return Event{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s.ops.Lock()
	defer s.ops.Unlock()

	updated, err := s.backend.EditEvent(ctx, id, draft)
	if err != nil {
		log.Printf("[portal][store] edit %s failed: %v", id, err)
		return Event{}, err
	}
	if updated.ID.IsZero() {
		updated.ID = id
	}
	if updated.ID != id {
		return Event{}, &RemoteError{Op: "edit", Message: fmt.Sprintf("response named event %s, want %s", updated.ID, id)}
	}

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return Event{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.events[i] = updated.clone()
	count := len(s.events)
	s.mu.Unlock()

	s.publish(ChangeEdited, updated, count)
	return updated.clone(), nil
}

// Delete asks the backend to remove the event and, once it confirms, drops
// the matching record locally. A change is published only when a held
// record was dropped.
func (s *Store) Delete(ctx context.Context, id EventID) error {
	if id.IsZero() {
		return ErrNotPersisted
	}

	s.ops.Lock()
	defer s.ops.Unlock()

	if err := s.backend.DeleteEvent(ctx, id); err != nil {
		log.Printf("[portal][store] delete %s failed: %v", id, err)
		return err
	}

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		log.Printf("[portal][store] deleted event %s, not held locally", id)
		return nil
	}
	removed := s.events[i]
	s.events = append(s.events[:i:i], s.events[i+1:]...)
	count := len(s.events)
	s.mu.Unlock()

	log.Printf("[portal][store] deleted event %s", id)
	s.publish(ChangeDeleted, removed, count)
	return nil
}

// Load replaces the held events with the backend's listing. A failed
// listing leaves the store empty and returns the error for logging.
func (s *Store) Load(ctx context.Context) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	listed, err := s.backend.ListEvents(ctx)
	if err != nil {
		listed = nil
	}

	events := make([]Event, 0, len(listed))
	seen := make(map[EventID]bool, len(listed))
	for _, ev := range listed {
		if ev.Persisted() {
			if seen[ev.ID] {
				log.Printf("[portal][store] skipping duplicate event id %s", ev.ID)
				continue
			}
			seen[ev.ID] = true
		}
		events = append(events, ev.clone())
	}

	s.mu.Lock()
	s.events = events
	count := len(s.events)
	s.mu.Unlock()

	s.publish(ChangeLoaded, Event{}, count)
	if err != nil {
		log.Printf("[portal][store] listing failed, showing no events: %v", err)
		return err
	}
	return nil
}

func (s *Store) indexLocked(id EventID) int {
	if id.IsZero() {
		return -1
	}
	for i, ev := range s.events {
		if ev.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) publish(t ChangeType, ev Event, count int) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(Change{Type: t, Event: ev.clone(), Count: count, At: s.now()})
}
