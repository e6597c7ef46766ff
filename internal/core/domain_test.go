package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2025-09-03 ")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.String() != "2025-09-03" {
		t.Fatalf("unexpected date %s", d)
	}
	for _, in := range []string{"", "03/09/2025", "2025-13-01", "yesterday"} {
		if _, err := ParseDate(in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%q expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestMonth(t *testing.T) {
	m := MonthOf(time.Date(2025, time.October, 17, 13, 0, 0, 0, time.UTC))
	if m != NewMonth(2025, time.October) {
		t.Fatalf("unexpected month %v", m)
	}
	if m.String() != "2025-10" {
		t.Fatalf("unexpected rendering %s", m)
	}
	parsed, err := ParseMonth("2025-10")
	if err != nil || parsed != m {
		t.Fatalf("parse month: %v %v", parsed, err)
	}
	if err := (Month{}).Validate(); err == nil {
		t.Fatalf("expected error for zero month")
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Date:   NewDate(2025, 1, 1),
		Amount: decimal.NewFromInt(0),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("zero amount and empty text should be ok, got %v", err)
	}

	bads := []Expense{
		{Date: Date{}, Amount: decimal.NewFromInt(1)},
		{Date: NewDate(2025, 1, 1), Amount: decimal.NewFromInt(-1)},
	}
	for i, e := range bads {
		if err := e.Validate(); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestBudgetValidateAndClone(t *testing.T) {
	b := Budget{Category: "Food", Limit: decimal.NewFromInt(0), Month: NewMonth(2025, 10), Tags: NewTagSet("a")}
	if err := b.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	b.Limit = decimal.NewFromInt(-5)
	if err := b.Validate(); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}

	c := b.Clone()
	c.Tags = c.Tags.With("b")
	if b.Tags.Contains("b") {
		t.Fatalf("clone leaked tags into original")
	}
}

func TestStorageErrorWrapping(t *testing.T) {
	base := errors.New("disk full")
	err := WrapStorage("insert expense", base)
	if !IsStorageFailure(err) || !errors.Is(err, base) {
		t.Fatalf("expected storage failure wrapping base, got %v", err)
	}
	if WrapStorage("x", nil) != nil {
		t.Fatalf("nil must stay nil")
	}
	if IsStorageFailure(WrapStorage("x", ErrNotFound)) {
		t.Fatalf("not found must not become a storage failure")
	}
}

func TestSampleData(t *testing.T) {
	if n := len(SampleExpenses()); n != 25 {
		t.Fatalf("expected 25 sample expenses, got %d", n)
	}
	monthly := 0
	for _, b := range SampleBudgets() {
		if err := b.Validate(); err != nil {
			t.Fatalf("sample budget invalid: %v", err)
		}
		if b.Tags.Contains(MonthlyTag) {
			monthly++
		}
	}
	if monthly != 3 {
		t.Fatalf("expected 3 Monthly budgets, got %d", monthly)
	}
}
