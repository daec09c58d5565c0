package model

import (
	"encoding/json"
	"time"
)

// NullFloat is a float64 that may be absent. Absent values are excluded from
// means and serialize as JSON null.
type NullFloat struct {
	Value float64
	Valid bool
}

func Float(v float64) NullFloat { return NullFloat{Value: v, Valid: true} }

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n *NullFloat) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = NullFloat{Value: v, Valid: true}
	return nil
}

// Order is a maintenance order after timestamp assembly.
type Order struct {
	ID             string
	Text           string
	Priority       string
	WorkCenter     string
	Notification   string
	Start          time.Time
	End            time.Time
	HasStart       bool
	HasEnd         bool
	DurationMinute NullFloat
	Category       DamageCategory
}

// Valid reports whether both timestamps parsed and the duration lies in (0, 10000).
func (o Order) Valid() bool {
	if !o.HasStart || !o.HasEnd || !o.DurationMinute.Valid {
		return false
	}
	return o.DurationMinute.Value > 0 && o.DurationMinute.Value < MaxOrderMinutes
}

// MatchDay is the calendar day of the order start.
func (o Order) MatchDay() (time.Time, bool) {
	if !o.HasStart {
		return time.Time{}, false
	}
	return TruncateDay(o.Start), true
}

// MaxOrderMinutes is the exclusive upper bound of a valid order duration.
const MaxOrderMinutes = 10000

// MachineLogEntry is one machine report row after forward-fill and parsing.
type MachineLogEntry struct {
	Row        int
	Plant      string
	WorkCenter string
	Day        time.Time
	HasDay     bool
	Start      time.Time
	End        time.Time
	Downtime   NullFloat
	// Categories holds the per-category downtime columns in minutes.
	Categories map[DamageCategory]NullFloat
}

// Notification links an order to a failure code.
type Notification struct {
	ID        string
	CodeGroup string
	Code      string
}

// FailureCode is an entry of the SAP failure-code catalogue.
type FailureCode struct {
	CodeGroup   string
	Code        string
	Description string
}

// TruncateDay drops the time-of-day, keeping the calendar date in UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
