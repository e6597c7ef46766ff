package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DateLayout is the calendar day format used for input, CSV and storage.
	DateLayout = "2006-01-02"
	// MonthLayout is the storage format of a budget month.
	MonthLayout = "2006-01"
)

type (
	// Date is a calendar day. The time of day is always midnight UTC.
	Date struct {
		time.Time
	}

	// Month marks a budget period. Only year and month are meaningful.
	Month struct {
		Year  int
		Month time.Month
	}

	Expense struct {
		ID          int64 // Assigned by storage on insert
		Date        Date
		Amount      decimal.Decimal
		Category    string
		Description string
	}

	Budget struct {
		ID       int64 // Assigned by storage on insert
		Category string
		Limit    decimal.Decimal
		Month    Month
		Tags     TagSet
	}
)

var (
	ErrZeroDate  = fmt.Errorf("%w: date cannot be zero", ErrInvalidInput)
	ErrZeroMonth = fmt.Errorf("%w: month cannot be zero", ErrInvalidInput)
)

// NewDate creates a new Date from year, month, day
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a yyyy-MM-dd string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: date %q must be yyyy-MM-dd", ErrInvalidInput, s)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrZeroDate
	}
	return nil
}

func NewMonth(year int, month time.Month) Month {
	return Month{Year: year, Month: month}
}

// MonthOf returns the month t falls in; the day is dropped.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses a yyyy-MM string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(s))
	if err != nil {
		return Month{}, fmt.Errorf("%w: month %q must be yyyy-MM", ErrInvalidInput, s)
	}
	return MonthOf(t), nil
}

func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) Validate() error {
	if m.IsZero() {
		return ErrZeroMonth
	}
	if m.Month < time.January || m.Month > time.December {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidInput, m.Month)
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// Clone returns a copy that shares no mutable state with e.
func (e Expense) Clone() Expense {
	return e
}

func (b Budget) Validate() error {
	if err := b.Month.Validate(); err != nil {
		return err
	}
	if b.Limit.IsNegative() {
		return ErrInvalidLimit
	}
	return nil
}

// Clone returns a copy that shares no mutable state with b.
func (b Budget) Clone() Budget {
	b.Tags = b.Tags.Clone()
	return b
}
