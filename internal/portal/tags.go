package portal

import (
	"fmt"
	"sort"
)

// Vocabulary is the fixed tag list the collaborator predicts from.
var Vocabulary = []string{
	"AI/ML", "art", "coding", "cultural", "cybersecurity", "dance", "design", "drama",
	"electronics", "entrepreneurship", "finance", "gaming", "literature", "marketing",
	"music", "photography", "robotics", "social service", "sports", "tech", "theatre",
}

var vocabularyIndex = func() map[string]int {
	m := make(map[string]int, len(Vocabulary))
	for i, t := range Vocabulary {
		m[t] = i
	}
	return m
}()

// IsKnownTag reports whether tag belongs to the vocabulary.
func IsKnownTag(tag string) bool {
	_, ok := vocabularyIndex[tag]
	return ok
}

// InterestSet is a student's selection of tags. The zero value is empty and
// ready to use. It is not safe for concurrent mutation.
type InterestSet struct {
	tags map[string]struct{}
}

// NewInterestSet builds a set from tags, rejecting any outside the vocabulary.
func NewInterestSet(tags ...string) (InterestSet, error) {
	var s InterestSet
	for _, t := range tags {
		if err := s.Add(t); err != nil {
			return InterestSet{}, err
		}
	}
	return s, nil
}

// Add selects tag. Adding a selected tag is a no-op.
func (s *InterestSet) Add(tag string) error {
	if !IsKnownTag(tag) {
		return fmt.Errorf("%w: %q", ErrUnknownTag, tag)
	}
	if s.tags == nil {
		s.tags = make(map[string]struct{})
	}
	s.tags[tag] = struct{}{}
	return nil
}

// Toggle selects tag if it is not selected and deselects it otherwise.
// It reports whether tag is selected afterwards.
func (s *InterestSet) Toggle(tag string) (bool, error) {
	if s.Has(tag) {
		delete(s.tags, tag)
		return false, nil
	}
	if err := s.Add(tag); err != nil {
		return false, err
	}
	return true, nil
}

// Has reports whether tag is selected.
func (s InterestSet) Has(tag string) bool {
	_, ok := s.tags[tag]
	return ok
}

// Len returns the number of selected tags.
func (s InterestSet) Len() int {
	return len(s.tags)
}

// Tags returns the selection in vocabulary order.
func (s InterestSet) Tags() []string {
	out := make([]string, 0, len(s.tags))
	for t := range s.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return vocabularyIndex[out[i]] < vocabularyIndex[out[j]]
	})
	return out
}
