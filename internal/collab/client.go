// Package collab talks to the external event collaborator: the HTTP service
// that persists events and predicts their tags from descriptions.
package collab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pearcec/clubportal/internal/portal"
)

// DefaultBaseURL is where the prototype collaborator listens.
const DefaultBaseURL = "http://localhost:8000"

// Observer receives one observation per round-trip.
type Observer interface {
	ObserveRequest(op, outcome string, d time.Duration)
}

// Client implements portal.Backend over HTTP.
type Client struct {
	baseURL  string
	http     *http.Client
	observer Observer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithObserver reports every request to o.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// NewHTTPClient returns an http.Client with conservative transport limits.
// A zero timeout leaves requests unbounded.
func NewHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

// New creates a client for the collaborator at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid collaborator url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid collaborator url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: baseURL,
		http:    NewHTTPClient(30 * time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized collaborator address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// eventReply is a 2xx body that may still name a failure.
type eventReply struct {
	portal.Event
	Error string `json:"error"`
}

// AddEvent persists draft and returns the stored record with predicted tags.
func (c *Client) AddEvent(ctx context.Context, draft portal.Draft) (portal.Event, error) {
	var reply eventReply
	if err := c.do(ctx, "add", http.MethodPost, "/add_event", draft, &reply); err != nil {
		return portal.Event{}, err
	}
	if reply.Error != "" {
		return portal.Event{}, &portal.RemoteError{Op: "add", Message: reply.Error}
	}
	log.Printf("[collab][add] created event %s with tags %v", reply.ID, reply.Tags)
	return reply.Event, nil
}

// EditEvent replaces the fields of event id. The collaborator answers a
// missing id with a 2xx body carrying an error field.
func (c *Client) EditEvent(ctx context.Context, id portal.EventID, draft portal.Draft) (portal.Event, error) {
	var reply eventReply
	if err := c.do(ctx, "edit", http.MethodPut, "/edit_event/"+url.PathEscape(id.String()), draft, &reply); err != nil {
		return portal.Event{}, err
	}
	if reply.Error != "" {
		return portal.Event{}, &portal.RemoteError{Op: "edit", Message: reply.Error}
	}
	return reply.Event, nil
}

// DeleteEvent removes event id. Any 2xx reply is success.
func (c *Client) DeleteEvent(ctx context.Context, id portal.EventID) error {
	return c.do(ctx, "delete", http.MethodDelete, "/delete_event/"+url.PathEscape(id.String()), nil, nil)
}

// ListEvents returns every stored event. An absent events field is an
// empty listing.
func (c *Client) ListEvents(ctx context.Context) ([]portal.Event, error) {
	var reply struct {
		Events []portal.Event `json:"events"`
	}
	if err := c.do(ctx, "list", http.MethodGet, "/get_events", nil, &reply); err != nil {
		return nil, err
	}
	if reply.Events == nil {
		return []portal.Event{}, nil
	}
	return reply.Events, nil
}

// PredictTags asks the collaborator which tags it would assign to draft
// without storing anything.
func (c *Client) PredictTags(ctx context.Context, draft portal.Draft) ([]string, error) {
	var reply struct {
		Tags []string `json:"tags"`
	}
	if err := c.do(ctx, "predict", http.MethodPost, "/predict_tags", draft, &reply); err != nil {
		return nil, err
	}
	return reply.Tags, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	start := time.Now()
	outcome := "ok"
	defer func() {
		if c.observer != nil {
			c.observer.ObserveRequest(op, outcome, time.Since(start))
		}
	}()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			outcome = "transport"
			return fmt.Errorf("%s event: encode request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		outcome = "transport"
		return fmt.Errorf("%s event: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		outcome = "transport"
		log.Printf("[collab][%s] %s %s failed: %v", op, method, path, err)
		return fmt.Errorf("%s event: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		outcome = "transport"
		return fmt.Errorf("%s event: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = "error"
		rerr := &portal.RemoteError{Op: op, Status: resp.StatusCode, Message: failureMessage(data)}
		log.Printf("[collab][%s] %s %s: %v", op, method, path, rerr)
		return rerr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		if out != nil && op != "list" {
			outcome = "error"
			return &portal.RemoteError{Op: op, Message: "empty response"}
		}
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		outcome = "error"
		return &portal.RemoteError{Op: op, Message: fmt.Sprintf("malformed response: %v", err)}
	}
	return nil
}

// failureMessage extracts the best human-readable message from an error
// body, falling back to a generic one.
func failureMessage(body []byte) string {
	var reply struct {
		Message string          `json:"message"`
		Error   string          `json:"error"`
		Detail  json.RawMessage `json:"detail"`
	}
	if len(bytes.TrimSpace(body)) == 0 || json.Unmarshal(body, &reply) != nil {
		return portal.GenericRemoteMessage
	}
	switch {
	case reply.Message != "":
		return reply.Message
	case reply.Error != "":
		return reply.Error
	case len(reply.Detail) > 0:
		var s string
		if json.Unmarshal(reply.Detail, &s) == nil && s != "" {
			return s
		}
	}
	return portal.GenericRemoteMessage
}

var _ portal.Backend = (*Client)(nil)
