package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pearcec/clubportal/internal/portal"
)

func TestPrintRecommendations(t *testing.T) {
	music, _ := portal.NewInterestSet("music")
	recs := []portal.Recommendation{{
		Event:   portal.Event{ID: "3", Title: "Open Mic", Date: "2025-04-02", Description: "Bring a song", Tags: []string{"music", "cultural"}},
		Matched: []string{"music"},
	}}

	tests := []struct {
		name      string
		recs      []portal.Recommendation
		interests portal.InterestSet
		want      []string
	}{
		{"no interests", recs, portal.InterestSet{}, []string{msgSelectInterest}},
		{"no matches", nil, music, []string{msgNoMatches}},
		{"match", recs, music, []string{"[3] Open Mic (2025-04-02)", "All Tags: music, cultural", "Matched Interests: music"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printRecommendations(&buf, tt.recs, tt.interests)
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestPrintEvents(t *testing.T) {
	var buf bytes.Buffer
	printEvents(&buf, nil)
	if strings.TrimSpace(buf.String()) != msgNoEvents {
		t.Errorf("empty list rendered %q", buf.String())
	}

	buf.Reset()
	printEvents(&buf, []portal.Event{{ID: "1", Title: "Quiz", Date: "2025-01-01", Description: "Trivia"}})
	if !strings.Contains(buf.String(), "Predicted Tags: "+msgNoTags) {
		t.Errorf("untagged event rendered %q", buf.String())
	}
}

func TestPrintTagGrid(t *testing.T) {
	interests, _ := portal.NewInterestSet("sports")
	var buf bytes.Buffer
	printTagGrid(&buf, interests)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != len(portal.Vocabulary) {
		t.Fatalf("got %d lines, want %d", len(lines), len(portal.Vocabulary))
	}
	if !strings.Contains(buf.String(), "[x] sports") || !strings.Contains(buf.String(), "[ ] music") {
		t.Errorf("grid marks wrong:\n%s", buf.String())
	}
}
