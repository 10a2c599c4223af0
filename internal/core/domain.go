package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	Income       RecordType = "income"
	FixedExpense RecordType = "fixed"
	CardExpense  RecordType = "card"
	MiscExpense  RecordType = "misc"
)

type (
	RecordType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// TransactionRecord is the single ledger entity. Type is set once at
	// creation; toggling Paid is the only supported mutation besides
	// deletion. CardName and Installments are meaningful only when
	// Type == CardExpense.
	TransactionRecord struct {
		ID           string     `json:"id"`
		Description  string     `json:"description"`
		Amount       Money      `json:"amount"`
		Date         Date       `json:"date"`
		Type         RecordType `json:"type"`
		Category     string     `json:"category"`
		Paid         bool       `json:"isPaid"`
		CardName     string     `json:"cardName,omitempty"`
		Installments string     `json:"installments,omitempty"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidType      = errors.New("invalid record type")

	// ErrValidationSkip marks an add that was silently ignored because a
	// required field was missing or unparseable. No record is created.
	ErrValidationSkip = errors.New("record skipped: missing or invalid field")
)

// IsValid returns true for one of the four supported record types.
func (t RecordType) IsValid() bool {
	switch t {
	case Income, FixedExpense, CardExpense, MiscExpense:
		return true
	default:
		return false
	}
}

// IsExpense returns true for every non-income type.
func (t RecordType) IsExpense() bool {
	return t.IsValid() && t != Income
}

func (t RecordType) String() string {
	return string(t)
}

// NewDate creates a Date at day precision in the local timezone.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)}
}

// ParseDate parses a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), time.Local)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Truncate drops the time-of-day component in the date's location.
func (d Date) Truncate() time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format("2006-01-02"))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (r TransactionRecord) Validate() error {
	if len(strings.TrimSpace(r.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if !r.Type.IsValid() {
		return ErrInvalidType
	}
	return nil
}

// Overdue reports whether the record is unpaid and strictly past its due
// date. Dates are compared at midnight in now's location; a paid record is
// never overdue regardless of date.
func (r TransactionRecord) Overdue(now time.Time) bool {
	if r.Paid {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return r.Date.Truncate().Before(today)
}
