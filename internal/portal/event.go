// Package portal holds the client-side core of the club portal.
//
// It owns the event store, the session gate, the announcement board and the
// interest-based recommendation filter. Persistence is delegated to an external
// collaborator reached through the Backend interface; nothing here is kept
// across process restarts.
package portal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar date format exchanged with the collaborator.
const DateLayout = "2006-01-02"

// EventID is the opaque, server-assigned identifier of an event.
// The zero value means the event has not been persisted.
type EventID string

// IsZero reports whether the identifier is unassigned.
func (id EventID) IsZero() bool {
	return id == ""
}

func (id EventID) String() string {
	return string(id)
}

// UnmarshalJSON accepts both numeric and string identifiers.
func (id *EventID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = EventID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("event id: %v", err)
	}
	*id = EventID(n.String())
	return nil
}

// MarshalJSON emits identifiers in canonical integer form as numbers and
// everything else, including zero-padded digits like "007", as strings.
func (id EventID) MarshalJSON() ([]byte, error) {
	if id.isNumeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id EventID) isNumeric() bool {
	n, err := strconv.ParseUint(string(id), 10, 64)
	return err == nil && strconv.FormatUint(n, 10) == string(id)
}

// Event is a club event as returned by the collaborator.
type Event struct {
	ID          EventID  `json:"id"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Description string   `json:"desc"`
	Tags        []string `json:"tags,omitempty"`
}

// Persisted reports whether the collaborator has confirmed this event.
func (e Event) Persisted() bool {
	return !e.ID.IsZero()
}

// Day parses Date as a calendar date.
func (e Event) Day() (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(e.Date))
}

// clone returns a copy that shares no backing storage with e.
func (e Event) clone() Event {
	if e.Tags != nil {
		e.Tags = append([]string(nil), e.Tags...)
	}
	return e
}

// Draft carries the user-supplied fields of an event before the
// collaborator assigns an identifier and predicts tags.
type Draft struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"desc"`
}

// Validate rejects drafts with any empty field.
func (d Draft) Validate() error {
	switch {
	case strings.TrimSpace(d.Title) == "":
		return &ValidationError{Field: "title", Message: "Fill all event details!"}
	case strings.TrimSpace(d.Date) == "":
		return &ValidationError{Field: "date", Message: "Fill all event details!"}
	case strings.TrimSpace(d.Description) == "":
		return &ValidationError{Field: "desc", Message: "Fill all event details!"}
	}
	return nil
}
