package core

import "strings"

// TagSet is a set of free-text labels. Membership is a case-sensitive exact
// match; duplicates collapse and the first-seen order is kept for display.
type TagSet struct {
	tags []string
}

func NewTagSet(tags ...string) TagSet {
	var s TagSet
	for _, t := range tags {
		s = s.With(t)
	}
	return s
}

func (s TagSet) Contains(tag string) bool {
	for _, t := range s.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// With returns a set holding tag in addition to the tags of s.
func (s TagSet) With(tag string) TagSet {
	if s.Contains(tag) {
		return s
	}
	out := make([]string, len(s.tags), len(s.tags)+1)
	copy(out, s.tags)
	return TagSet{tags: append(out, tag)}
}

func (s TagSet) Len() int {
	return len(s.tags)
}

// Values returns the tags in first-seen order. The slice is a copy.
func (s TagSet) Values() []string {
	if len(s.tags) == 0 {
		return nil
	}
	return append([]string(nil), s.tags...)
}

// Equal ignores order.
func (s TagSet) Equal(other TagSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, t := range s.tags {
		if !other.Contains(t) {
			return false
		}
	}
	return true
}

func (s TagSet) Clone() TagSet {
	return TagSet{tags: s.Values()}
}

func (s TagSet) String() string {
	return strings.Join(s.tags, ", ")
}
