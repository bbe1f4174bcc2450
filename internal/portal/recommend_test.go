package portal

import (
	"reflect"
	"testing"
)

func mustInterests(t *testing.T, tags ...string) InterestSet {
	t.Helper()
	s, err := NewInterestSet(tags...)
	if err != nil {
		t.Fatalf("NewInterestSet(%v): %v", tags, err)
	}
	return s
}

func TestRecommend(t *testing.T) {
	events := []Event{
		{ID: "1", Title: "Hack night", Tags: []string{"AI/ML", "coding"}},
		{ID: "2", Title: "Salsa", Tags: []string{"dance"}},
		{ID: "3", Title: "Untagged"},
		{ID: "4", Title: "Empty tags", Tags: []string{}},
		{ID: "5", Title: "Robot wars", Tags: []string{"tech", "robotics", "coding"}},
	}

	tests := []struct {
		name      string
		interests []string
		wantIDs   []EventID
		wantMatch [][]string
	}{
		{
			name:      "single interest",
			interests: []string{"coding"},
			wantIDs:   []EventID{"1", "5"},
			wantMatch: [][]string{{"coding"}, {"coding"}},
		},
		{
			name:      "matched tags follow event order",
			interests: []string{"coding", "robotics", "tech"},
			wantIDs:   []EventID{"1", "5"},
			wantMatch: [][]string{{"coding"}, {"tech", "robotics", "coding"}},
		},
		{
			name:      "no overlap",
			interests: []string{"finance"},
		},
		{
			name:      "dance only",
			interests: []string{"dance"},
			wantIDs:   []EventID{"2"},
			wantMatch: [][]string{{"dance"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recommend(events, mustInterests(t, tt.interests...))
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Recommend() returned %d events, want %d", len(got), len(tt.wantIDs))
			}
			for i, rec := range got {
				if rec.Event.ID != tt.wantIDs[i] {
					t.Errorf("result[%d].ID = %s, want %s", i, rec.Event.ID, tt.wantIDs[i])
				}
				if !reflect.DeepEqual(rec.Matched, tt.wantMatch[i]) {
					t.Errorf("result[%d].Matched = %v, want %v", i, rec.Matched, tt.wantMatch[i])
				}
			}
		})
	}
}

func TestRecommendEmptyInterests(t *testing.T) {
	events := []Event{
		{ID: "1", Tags: []string{"AI/ML", "coding"}},
		{ID: "2", Tags: []string{"dance"}},
	}
	if got := Recommend(events, InterestSet{}); len(got) != 0 {
		t.Errorf("Recommend() with no interests = %v, want empty", got)
	}
	if got := Recommend(nil, InterestSet{}); len(got) != 0 {
		t.Errorf("Recommend(nil) = %v, want empty", got)
	}
}

func TestRecommendSpecExample(t *testing.T) {
	events := []Event{
		{Tags: []string{"AI/ML", "coding"}},
		{Tags: []string{"dance"}},
	}
	got := Recommend(events, mustInterests(t, "coding"))
	if len(got) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(got))
	}
	if !reflect.DeepEqual(got[0].Matched, []string{"coding"}) {
		t.Errorf("Matched = %v, want [coding]", got[0].Matched)
	}
	if !reflect.DeepEqual(got[0].Event.Tags, []string{"AI/ML", "coding"}) {
		t.Errorf("Event.Tags = %v", got[0].Event.Tags)
	}
}

func TestRecommendDeterministicAndPure(t *testing.T) {
	events := []Event{
		{ID: "1", Tags: []string{"music", "art"}},
		{ID: "2", Tags: []string{"sports"}},
		{ID: "3", Tags: []string{"art"}},
	}
	before := make([]Event, len(events))
	for i, ev := range events {
		before[i] = ev.clone()
	}
	interests := mustInterests(t, "art", "sports")

	first := Recommend(events, interests)
	second := Recommend(events, interests)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Recommend() not deterministic:\n%v\n%v", first, second)
	}
	if !reflect.DeepEqual(events, before) {
		t.Errorf("Recommend() modified its input: %v", events)
	}
	if interests.Len() != 2 {
		t.Errorf("Recommend() modified interests: %v", interests.Tags())
	}

	// Results must not alias the input tags.
	first[0].Event.Tags[0] = "changed"
	if events[0].Tags[0] != "music" {
		t.Error("Recommend() result aliases input tags")
	}
}

func TestRecommendCompleteness(t *testing.T) {
	events := []Event{
		{ID: "a", Tags: []string{"drama"}},
		{ID: "b", Tags: []string{"theatre", "drama"}},
		{ID: "c", Tags: []string{"gaming"}},
		{ID: "d", Tags: []string{"drama", "drama"}},
	}
	interests := mustInterests(t, "drama")
	got := Recommend(events, interests)

	seen := map[EventID]int{}
	for _, rec := range got {
		seen[rec.Event.ID]++
		if len(rec.Matched) == 0 {
			t.Errorf("event %s recommended without a match", rec.Event.ID)
		}
	}
	for _, id := range []EventID{"a", "b", "d"} {
		if seen[id] != 1 {
			t.Errorf("event %s appeared %d times, want 1", id, seen[id])
		}
	}
	if seen["c"] != 0 {
		t.Error("event c should not be recommended")
	}
	if !reflect.DeepEqual(got[2].Matched, []string{"drama"}) {
		t.Errorf("duplicate event tags should match once, got %v", got[2].Matched)
	}
}
