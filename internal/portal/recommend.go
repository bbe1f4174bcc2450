package portal

// Recommendation is an event that overlaps the interest set, together with
// the overlapping tags in the event's own tag order.
type Recommendation struct {
	Event   Event    `json:"event"`
	Matched []string `json:"matched"`
}

// Recommend returns the events whose tags intersect interests, preserving
// the order of events. An empty interest set yields no recommendations.
// Events without tags never match. Recommend does not modify its inputs.
func Recommend(events []Event, interests InterestSet) []Recommendation {
	if interests.Len() == 0 {
		return nil
	}

	var out []Recommendation
	for _, ev := range events {
		var matched []string
		for _, tag := range ev.Tags {
			if interests.Has(tag) && !containsTag(matched, tag) {
				matched = append(matched, tag)
			}
		}
		if len(matched) > 0 {
			out = append(out, Recommendation{Event: ev.clone(), Matched: matched})
		}
	}
	return out
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
