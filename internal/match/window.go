package match

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"dtrecon/internal/model"
	"dtrecon/internal/state"
)

// DefaultDowntimeThreshold is the bucket sum, in minutes, a day at a work
// center must exceed before its orders are matched.
const DefaultDowntimeThreshold = 60.0

const dayLayout = "2006-01-02"

// BucketKey returns the composite key day#workCenter.
func BucketKey(day time.Time, workCenter string) string {
	return fmt.Sprintf("%s#%s", model.TruncateDay(day).Format(dayLayout), workCenter)
}

// ParseBucketKey splits a BucketKey.
func ParseBucketKey(key string) (day time.Time, workCenter string, err error) {
	d, wc, ok := strings.Cut(key, "#")
	if !ok {
		return time.Time{}, "", fmt.Errorf("bucket key %q: missing separator", key)
	}
	day, err = time.Parse(dayLayout, d)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("bucket key %q: %w", key, err)
	}
	return day, wc, nil
}

// Bucket is the summed downtime of one match day at one work center.
type Bucket struct {
	Day        time.Time
	WorkCenter string
	Minutes    float64
	Events     int64
}

// DowntimeMatch pairs an order with the whole bucket of its start day.
type DowntimeMatch struct {
	Order  model.Order
	Bucket Bucket
}

// Accumulate adds every machine entry with a day, a work center and a parsed
// downtime into st. The entry's row number is the store sequence, so applying
// the same log twice does not double count. It returns how many entries
// contributed.
func Accumulate(st state.Store, entries []model.MachineLogEntry) (int, error) {
	n := 0
	for _, e := range entries {
		if !e.HasDay || e.WorkCenter == "" || !e.Downtime.Valid {
			continue
		}
		applied, _, err := st.Apply(BucketKey(e.Day, e.WorkCenter), e.Downtime.Value, int64(e.Row)+1)
		if err != nil {
			return n, fmt.Errorf("accumulate row %d: %w", e.Row, err)
		}
		if applied {
			n++
		}
	}
	return n, nil
}

// BucketsAbove returns the buckets whose summed downtime exceeds threshold,
// in key order.
func BucketsAbove(st state.Store, threshold float64) ([]Bucket, error) {
	var out []Bucket
	err := st.Range(func(key string, rs state.RecordState) error {
		if rs.SumMinutes <= threshold {
			return nil
		}
		day, wc, err := ParseBucketKey(key)
		if err != nil {
			return err
		}
		out = append(out, Bucket{Day: day, WorkCenter: wc, Minutes: rs.SumMinutes, Events: rs.Events})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return BucketKey(out[i].Day, out[i].WorkCenter) < BucketKey(out[j].Day, out[j].WorkCenter)
	})
	return out, nil
}

// ByDay sums machine downtime per (match day, work center), keeps buckets
// above threshold, then inner-joins them to orders that started on that day
// at that work center. Every such order receives the full bucket sum, so a
// work center with several orders on one day reports its downtime once per
// order.
func ByDay(st state.Store, entries []model.MachineLogEntry, orders []model.Order, threshold float64) ([]DowntimeMatch, error) {
	if _, err := Accumulate(st, entries); err != nil {
		return nil, err
	}
	buckets, err := BucketsAbove(st, threshold)
	if err != nil {
		return nil, err
	}
	pairs := Merge(orders, buckets,
		func(o model.Order) string {
			day, ok := o.MatchDay()
			if !ok || o.WorkCenter == "" {
				return ""
			}
			return BucketKey(day, o.WorkCenter)
		},
		func(b Bucket) string { return BucketKey(b.Day, b.WorkCenter) },
		Inner,
	)
	out := make([]DowntimeMatch, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, DowntimeMatch{Order: p.Left, Bucket: p.Right})
	}
	return out, nil
}
