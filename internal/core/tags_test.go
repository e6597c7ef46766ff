package core

import "testing"

func TestTagSetMembership(t *testing.T) {
	s := NewTagSet("Monthly", "Essential", "Monthly")
	if s.Len() != 2 {
		t.Fatalf("duplicates must collapse, got %v", s.Values())
	}
	if !s.Contains("Monthly") {
		t.Fatalf("expected Monthly")
	}
	if s.Contains("monthly") || s.Contains("Month") {
		t.Fatalf("membership must be exact and case-sensitive")
	}
	if got := s.String(); got != "Monthly, Essential" {
		t.Fatalf("unexpected order %q", got)
	}
}

func TestTagSetEqualIgnoresOrder(t *testing.T) {
	a := NewTagSet("a", "b", "c")
	b := NewTagSet("c", "a", "b", "a")
	if !a.Equal(b) {
		t.Fatalf("expected equal sets")
	}
	if a.Equal(NewTagSet("a", "b")) {
		t.Fatalf("expected different sets")
	}
}

func TestTagSetValuesIsCopy(t *testing.T) {
	s := NewTagSet("x")
	v := s.Values()
	v[0] = "y"
	if !s.Contains("x") {
		t.Fatalf("Values must return a copy")
	}
	var empty TagSet
	if empty.Values() != nil || empty.Contains("") {
		t.Fatalf("zero TagSet must be empty")
	}
}
