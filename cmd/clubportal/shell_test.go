package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/pearcec/clubportal/internal/config"
	"github.com/pearcec/clubportal/internal/portal"
)

// eventService is an in-memory stand-in for the portal's event service.
type eventService struct {
	mu     sync.Mutex
	nextID int
	events []map[string]any
}

func (s *eventService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var body struct {
		Title string `json:"title"`
		Date  string `json:"date"`
		Desc  string `json:"desc"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/get_events":
		_ = json.NewEncoder(w).Encode(map[string]any{"events": s.events})

	case r.Method == http.MethodPost && r.URL.Path == "/add_event":
		s.nextID++
		ev := map[string]any{"id": s.nextID, "title": body.Title, "date": body.Date, "desc": body.Desc, "tags": predict(body.Desc)}
		s.events = append(s.events, ev)
		_ = json.NewEncoder(w).Encode(ev)

	case r.Method == http.MethodPost && r.URL.Path == "/predict_tags":
		_ = json.NewEncoder(w).Encode(map[string]any{"tags": predict(body.Desc)})

	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/edit_event/"):
		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/edit_event/"))
		for _, ev := range s.events {
			if ev["id"] == id {
				ev["title"], ev["date"], ev["desc"], ev["tags"] = body.Title, body.Date, body.Desc, predict(body.Desc)
				_ = json.NewEncoder(w).Encode(ev)
				return
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "Event not found"})

	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/delete_event/"):
		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/delete_event/"))
		for i, ev := range s.events {
			if ev["id"] == id {
				s.events = append(s.events[:i], s.events[i+1:]...)
				break
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "Event deleted"})

	default:
		http.NotFound(w, r)
	}
}

// predict tags descriptions by keyword.
func predict(desc string) []string {
	var tags []string
	lower := strings.ToLower(desc)
	for _, kw := range []struct{ word, tag string }{
		{"code", "coding"}, {"robot", "robotics"}, {"song", "music"}, {"stage", "drama"},
	} {
		if strings.Contains(lower, kw.word) {
			tags = append(tags, kw.tag)
		}
	}
	return tags
}

func newTestApp(t *testing.T, h http.Handler) (*app, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.API.BaseURL = srv.URL
	cfg.Reminders.Dir = t.TempDir()

	var out bytes.Buffer
	a, err := newApp(cfg, &out)
	if err != nil {
		t.Fatalf("newApp() failed: %v", err)
	}
	t.Cleanup(func() { _ = a.close() })
	return a, &out
}

func loggedIn(t *testing.T, a *app, role portal.Role, email string) *portal.Session {
	t.Helper()
	sess := a.session(role)
	if err := sess.Login(context.Background(), email); err != nil {
		t.Fatalf("Login(%q) failed: %v", email, err)
	}
	return sess
}

func script(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func TestShellAskDefault(t *testing.T) {
	var out bytes.Buffer
	sh := newShell(script("", "new"), &out, true)

	got, ok := sh.askDefault("Title", "old")
	if !ok || got != "old" {
		t.Errorf("blank answer = %q, %v; want old, true", got, ok)
	}
	got, ok = sh.askDefault("Title", "old")
	if !ok || got != "new" {
		t.Errorf("answer = %q, %v; want new, true", got, ok)
	}
	if _, ok := sh.askDefault("Title", "old"); ok {
		t.Error("expected ok=false at EOF")
	}
	if !strings.Contains(out.String(), "Title [old]: ") {
		t.Errorf("prompt missing from output: %q", out.String())
	}
}

func TestShellLoginRetriesEmptyEmail(t *testing.T) {
	a, _ := newTestApp(t, &eventService{})
	var out bytes.Buffer
	sh := newShell(script("   ", "chess@college.edu"), &out, false)

	sess := a.session(portal.RoleSociety)
	if err := sh.login(context.Background(), sess); err != nil {
		t.Fatalf("login() failed: %v", err)
	}
	if sess.Identity() != "chess@college.edu" {
		t.Errorf("Identity() = %q", sess.Identity())
	}
	if !strings.Contains(out.String(), "Enter society email!") {
		t.Errorf("expected society email message, got %q", out.String())
	}
}

func TestSocietyShellLifecycle(t *testing.T) {
	svc := &eventService{}
	a, _ := newTestApp(t, svc)
	var out bytes.Buffer
	sh := newShell(script(
		"add",
		"Bot Wars", "2025-03-01", "Build a robot and write code",
		"add",
		"", "2025-03-02", "missing title",
		"events",
		"edit 1",
		"", "2025-03-08", "",
		"delete 1",
		"events",
		"announce",
		"Meeting moved to Friday",
		"announcements",
		"quit",
	), &out, false)

	if err := runSocietyShell(context.Background(), a, sh, loggedIn(t, a, portal.RoleSociety, "robotics@college.edu")); err != nil {
		t.Fatalf("runSocietyShell() failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Event Added! Predicted Tags: coding, robotics",
		"Fill all event details!",
		"[1] Bot Wars (2025-03-01)",
		"Event updated!",
		"Event deleted!",
		msgNoEvents,
		"Announcement posted.",
		"Meeting moved to Friday",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n%s", want, got)
		}
	}
	if a.store.Len() != 0 {
		t.Errorf("store.Len() = %d, want 0", a.store.Len())
	}
	if len(svc.events) != 0 {
		t.Errorf("service holds %d events, want 0", len(svc.events))
	}
}

func TestSocietyShellEditUnknownEvent(t *testing.T) {
	a, _ := newTestApp(t, &eventService{})
	var out bytes.Buffer
	sh := newShell(script("edit 42", "quit"), &out, false)

	if err := runSocietyShell(context.Background(), a, sh, loggedIn(t, a, portal.RoleSociety, "chess@college.edu")); err != nil {
		t.Fatalf("runSocietyShell() failed: %v", err)
	}

	if !strings.Contains(out.String(), "That event is not in your list.") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestStudentShellRecommend(t *testing.T) {
	svc := &eventService{}
	svc.nextID = 2
	svc.events = []map[string]any{
		{"id": 1, "title": "Hack Night", "date": "2025-04-01", "desc": "code", "tags": []string{"coding", "tech"}},
		{"id": 2, "title": "Open Mic", "date": "2025-04-02", "desc": "song", "tags": []string{"music"}},
	}
	a, _ := newTestApp(t, svc)
	sess := loggedIn(t, a, portal.RoleStudent, "me@college.edu")

	var out bytes.Buffer
	sh := newShell(script(
		"recommend",
		"toggle coding",
		"toggle knitting",
		"recommend",
		"interests",
		"remind",
		"toggle coding",
		"recommend",
		"quit",
	), &out, false)

	if err := runStudentShell(context.Background(), a, sh, sess, portal.InterestSet{}); err != nil {
		t.Fatalf("runStudentShell() failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		msgSelectInterest,
		"Selected coding",
		`Unknown tag "knitting"`,
		"Hack Night",
		"Matched Interests: coding",
		"Interests: coding",
		"Wrote 1 reminder(s)",
		"Cleared coding",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n%s", want, got)
		}
	}
	if strings.Contains(got, "Open Mic") {
		t.Errorf("unmatched event rendered:\n%s", got)
	}

	path := filepath.Join(a.cfg.ReminderDir(), reminderFile)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading reminders: %v", err)
	}
	if !strings.Contains(string(data), "SUMMARY:Hack Night") {
		t.Errorf("reminder file missing event:\n%s", data)
	}
}

func TestRunLoginChoosesRole(t *testing.T) {
	a, _ := newTestApp(t, &eventService{})
	var out bytes.Buffer
	sh := newShell(script("staff", "student", "", "me@college.edu", "tags", "quit"), &out, false)

	if err := runLogin(context.Background(), a, sh); err != nil {
		t.Fatalf("runLogin() failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Choose society or student.",
		"Please enter your college email!",
		"Logged in as me@college.edu",
		"Select Your Interests.",
		"[ ] AI/ML",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n%s", want, got)
		}
	}
}

func TestReminderEventsUnknownID(t *testing.T) {
	a, _ := newTestApp(t, &eventService{})
	_, err := reminderEvents(a.store, portal.InterestSet{}, []string{"9"})
	if got := portal.UserMessage(err); got != "That event is not in your list." {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestShellsRequireLogin(t *testing.T) {
	a, _ := newTestApp(t, &eventService{})
	var out bytes.Buffer

	err := runSocietyShell(context.Background(), a, newShell(script("events"), &out, false), a.session(portal.RoleSociety))
	if err == nil || err.Error() != "Please log in first." {
		t.Errorf("society shell err = %v", err)
	}
	err = runStudentShell(context.Background(), a, newShell(script("tags"), &out, false), a.session(portal.RoleStudent), portal.InterestSet{})
	if err == nil || err.Error() != "Please log in first." {
		t.Errorf("student shell err = %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("shell ran without a login: %q", out.String())
	}
}
