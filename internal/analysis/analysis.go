package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"dtrecon/internal/match"
	"dtrecon/internal/model"
)

// PriorityStat is the mean valid-order duration of one priority.
type PriorityStat struct {
	Priority string          `json:"priority"`
	Orders   int             `json:"orders"`
	Mean     model.NullFloat `json:"mean_minutes"`
}

// ByPriority groups valid orders by their priority label.
func ByPriority(orders []model.Order) []PriorityStat {
	groups := make(map[string][]float64)
	for _, o := range orders {
		if !o.Valid() {
			continue
		}
		groups[o.Priority] = append(groups[o.Priority], o.DurationMinute.Value)
	}
	out := make([]PriorityStat, 0, len(groups))
	for p, durations := range groups {
		out = append(out, PriorityStat{Priority: p, Orders: len(durations), Mean: model.Float(stat.Mean(durations, nil))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

// Correlation is the Pearson coefficient between order duration and machine
// downtime over the work-center merge of both sources.
type Correlation struct {
	Coefficient float64 `json:"coefficient"`
	Pairs       int     `json:"pairs"`
}

// CorrelateDowntime inner-joins machine entries to orders on work center and
// correlates order duration with entry downtime over rows where both are
// present.
func CorrelateDowntime(entries []model.MachineLogEntry, orders []model.Order) model.Result[Correlation] {
	pairs := match.Merge(entries, orders,
		func(e model.MachineLogEntry) string { return e.WorkCenter },
		func(o model.Order) string { return o.WorkCenter },
		match.Inner,
	)
	if len(pairs) == 0 {
		return model.Unavailable[Correlation]("no machine entry shares a work center with an order")
	}
	xs := make([]float64, 0, len(pairs))
	ys := make([]float64, 0, len(pairs))
	for _, p := range pairs {
		if !p.Right.DurationMinute.Valid || !p.Left.Downtime.Valid {
			continue
		}
		xs = append(xs, p.Right.DurationMinute.Value)
		ys = append(ys, p.Left.Downtime.Value)
	}
	if len(xs) < 2 {
		return model.Unavailable[Correlation](fmt.Sprintf("%d rows with both duration and downtime", len(xs)))
	}
	r, ok := pearson(xs, ys)
	if !ok {
		return model.Unavailable[Correlation]("duration or downtime has zero variance")
	}
	return model.Available(Correlation{Coefficient: r, Pairs: len(xs)})
}

// pearson returns the correlation coefficient, or false when either series
// has zero variance.
func pearson(xs, ys []float64) (float64, bool) {
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}

// TopMatch is one order matched to a high-downtime day.
type TopMatch struct {
	Label           string          `json:"label"`
	OrderID         string          `json:"order_id"`
	WorkCenter      string          `json:"work_center"`
	Day             string          `json:"day"`
	DowntimeMinutes float64         `json:"downtime_minutes"`
	OrderMinutes    model.NullFloat `json:"order_minutes"`
}

// TopMatches orders day-window matches by bucket downtime, highest first,
// and keeps the first n. Ties keep match order.
func TopMatches(matches []match.DowntimeMatch, n int) []TopMatch {
	sorted := make([]match.DowntimeMatch, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Bucket.Minutes > sorted[j].Bucket.Minutes })
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make([]TopMatch, 0, len(sorted))
	for _, m := range sorted {
		out = append(out, TopMatch{
			Label:           fmt.Sprintf("%s (Auftrag: %s)", m.Order.Text, m.Order.ID),
			OrderID:         m.Order.ID,
			WorkCenter:      m.Bucket.WorkCenter,
			Day:             m.Bucket.Day.Format("2006-01-02"),
			DowntimeMinutes: m.Bucket.Minutes,
			OrderMinutes:    m.Order.DurationMinute,
		})
	}
	return out
}
