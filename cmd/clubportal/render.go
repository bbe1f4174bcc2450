package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pearcec/clubportal/internal/portal"
)

const (
	msgSelectInterest = "Please select at least one interest to see recommended events."
	msgNoMatches      = "No events currently match your selected interests. Try selecting more interests!"
	msgNoEvents       = "No events yet. Add an event above to see it here."
	msgNoTags         = "No Tags Predicted"
)

func joinTags(tags []string, empty string) string {
	if len(tags) == 0 {
		return empty
	}
	return strings.Join(tags, ", ")
}

// printEvents renders the society's posted events.
func printEvents(w io.Writer, events []portal.Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, msgNoEvents)
		return
	}
	for _, ev := range events {
		fmt.Fprintf(w, "[%s] %s (%s)\n", ev.ID, ev.Title, ev.Date)
		fmt.Fprintf(w, "    %s\n", ev.Description)
		fmt.Fprintf(w, "    Predicted Tags: %s\n", joinTags(ev.Tags, msgNoTags))
	}
}

// printRecommendations renders the student's recommended events.
func printRecommendations(w io.Writer, recs []portal.Recommendation, interests portal.InterestSet) {
	if interests.Len() == 0 {
		fmt.Fprintln(w, msgSelectInterest)
		return
	}
	if len(recs) == 0 {
		fmt.Fprintln(w, msgNoMatches)
		return
	}
	for _, rec := range recs {
		ev := rec.Event
		fmt.Fprintf(w, "📅 [%s] %s (%s)\n", ev.ID, ev.Title, ev.Date)
		fmt.Fprintf(w, "    %s\n", ev.Description)
		fmt.Fprintf(w, "    All Tags: %s\n", joinTags(ev.Tags, "N/A"))
		fmt.Fprintf(w, "    Matched Interests: %s\n", strings.Join(rec.Matched, ", "))
	}
}

// printTagGrid lists the vocabulary, marking selected interests.
func printTagGrid(w io.Writer, interests portal.InterestSet) {
	for _, tag := range portal.Vocabulary {
		mark := " "
		if interests.Has(tag) {
			mark = "x"
		}
		fmt.Fprintf(w, "  [%s] %s\n", mark, tag)
	}
}

func printAnnouncements(w io.Writer, items []portal.Announcement) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No announcements yet.")
		return
	}
	fmt.Fprintln(w, "Announcements")
	for _, a := range items {
		fmt.Fprintf(w, "  %s  %s\n", a.PostedAt.Format("2006-01-02 15:04"), a.Text)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
