package preprocess

import (
	"time"

	"dtrecon/internal/model"
	"dtrecon/internal/source"
)

// Maintenance order columns.
const (
	ColOrderID      = "Auftrag"
	ColShortText    = "Kurztext"
	ColPriority     = "Priorität"
	ColStartDate    = "Eckstarttermin"
	ColStartTime    = "Iststart Uhrzeit"
	ColEndDate      = "Eckendtermin"
	ColEndTime      = "Term. Ende Uhrzeit"
	ColWorkPlace    = "Arbeitsplatz"
	ColNotification = "Meldung"
)

// Orders holds the valid orders together with the columns their source had.
type Orders struct {
	Rows []model.Order
	src  *source.Table
}

// HasColumn reports whether the order source carried col.
func (o *Orders) HasColumn(col string) bool { return o.src != nil && o.src.Has(col) }

// OrderStats counts what preprocessing did to the order source.
type OrderStats struct {
	Read          int
	Kept          int
	StartUnparsed int
	EndUnparsed   int
	OutOfRange    int
}

// PrepareOrders assembles start and end timestamps from their split date and
// time columns and keeps orders whose duration lies in (0, 10000) minutes.
// A missing date or time column yields a *model.MissingColumnError.
func PrepareOrders(t *source.Table) (*Orders, OrderStats, error) {
	st := OrderStats{Read: t.Len()}
	if err := model.RequireColumns(source.Orders, t.Has, ColStartDate, ColStartTime, ColEndDate, ColEndTime); err != nil {
		return nil, st, err
	}
	out := &Orders{src: t}
	for r := range t.Rows {
		o := model.Order{
			ID:           model.NormalizeKey(t.Value(r, ColOrderID)),
			Text:         t.Value(r, ColShortText),
			Priority:     t.Value(r, ColPriority),
			WorkCenter:   model.NormalizeKey(t.Value(r, ColWorkPlace)),
			Notification: model.NormalizeKey(t.Value(r, ColNotification)),
		}
		o.Start, o.HasStart = combine(t.Value(r, ColStartDate), t.Value(r, ColStartTime))
		o.End, o.HasEnd = combine(t.Value(r, ColEndDate), t.Value(r, ColEndTime))
		if !o.HasStart {
			st.StartUnparsed++
		}
		if !o.HasEnd {
			st.EndUnparsed++
		}
		if o.HasStart && o.HasEnd {
			o.DurationMinute = model.Float(o.End.Sub(o.Start).Minutes())
		}
		if !o.Valid() {
			if o.DurationMinute.Valid {
				st.OutOfRange++
			}
			continue
		}
		out.Rows = append(out.Rows, o)
	}
	st.Kept = len(out.Rows)
	return out, st, nil
}

func combine(date, clock string) (ts time.Time, ok bool) {
	d, ok := parseDate(date)
	if !ok {
		return ts, false
	}
	c, ok := parseClock(clock)
	if !ok {
		return ts, false
	}
	return d.Add(c), true
}
