package portal

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Announcement is a society notice. It is never sent to the backend.
type Announcement struct {
	ID       uuid.UUID `json:"id"`
	Text     string    `json:"text"`
	PostedAt time.Time `json:"posted_at"`
}

// Board holds announcements in posting order.
type Board struct {
	mu    sync.RWMutex
	items []Announcement
	now   func() time.Time

	// OnPost, if set, is called after every successful post.
	OnPost func(Announcement)
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{now: time.Now}
}

// Post appends text as a new announcement. IDs are UUIDv7 and therefore
// increase with posting time.
func (b *Board) Post(text string) (Announcement, error) {
	if strings.TrimSpace(text) == "" {
		return Announcement{}, &ValidationError{Field: "announcement", Message: "Announcement cannot be empty!"}
	}
	id, err := uuid.NewV7()
	if err != nil {
		return Announcement{}, err
	}

	b.mu.Lock()
	now := time.Now
	if b.now != nil {
		now = b.now
	}
	a := Announcement{ID: id, Text: text, PostedAt: now()}
	b.items = append(b.items, a)
	b.mu.Unlock()

	if b.OnPost != nil {
		b.OnPost(a)
	}
	return a, nil
}

// List returns a copy of the announcements.
func (b *Board) List() []Announcement {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Announcement(nil), b.items...)
}
