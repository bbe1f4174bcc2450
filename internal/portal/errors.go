package portal

import (
	"errors"
	"fmt"
)

// GenericRemoteMessage is shown when a failure body cannot be parsed.
const GenericRemoteMessage = "Unknown server error or network issue."

var (
	// ErrNotFound is returned when an operation names an event the local
	// store does not hold.
	ErrNotFound = errors.New("event not found")

	// ErrNotPersisted is returned for events without a server identifier.
	ErrNotPersisted = errors.New("event has not been persisted")

	// ErrAlreadyAuthenticated is returned by a second Login on one session.
	ErrAlreadyAuthenticated = errors.New("session already authenticated")

	// ErrNotAuthenticated is returned when an operation needs a login first.
	ErrNotAuthenticated = errors.New("session not authenticated")

	// ErrUnknownTag is returned when an interest is outside the vocabulary.
	ErrUnknownTag = errors.New("unknown tag")
)

// ValidationError reports a required field that was empty or malformed.
// It is always raised before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RemoteError reports a non-success reply from the collaborator.
type RemoteError struct {
	Op      string // add, delete, edit, list, predict
	Status  int    // HTTP status, 0 when the reply was 2xx but signalled failure
	Message string // server-supplied message or GenericRemoteMessage
}

func (e *RemoteError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s event: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s event: %s (status %d)", e.Op, e.Message, e.Status)
}

// UserMessage renders err as text suitable for showing to the person who
// triggered the action.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}

	var rerr *RemoteError
	if errors.As(err, &rerr) {
		switch rerr.Op {
		case "add":
			return "Could not add event. Error: Failed to add event: " + rerr.Message
		case "delete":
			return "Failed to delete event on server."
		default:
			return fmt.Sprintf("Could not %s event. Error: %s", rerr.Op, rerr.Message)
		}
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return "That event is not in your list."
	case errors.Is(err, ErrNotAuthenticated):
		return "Please log in first."
	case errors.Is(err, ErrAlreadyAuthenticated):
		return "You are already logged in."
	}
	return err.Error()
}
