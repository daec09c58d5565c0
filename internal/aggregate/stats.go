// Package aggregate computes per-category duration and downtime statistics
// for each source and joins them into the comparison table.
package aggregate

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"dtrecon/internal/canon"
	"dtrecon/internal/match"
	"dtrecon/internal/model"
	"dtrecon/internal/preprocess"
)

// Stat is the per-category aggregate of one source. Mean is in minutes.
type Stat struct {
	Label string
	Count int
	Mean  model.NullFloat
}

// acc collects the non-null values of one group.
type acc struct {
	vals []float64
}

func (a *acc) add(v model.NullFloat) {
	if v.Valid {
		a.vals = append(a.vals, v.Value)
	}
}

func (a acc) mean() model.NullFloat {
	if len(a.vals) == 0 {
		return model.NullFloat{}
	}
	return model.Float(stat.Mean(a.vals, nil))
}

func collect(groups map[string]*acc) []Stat {
	out := make([]Stat, 0, len(groups))
	for label, a := range groups {
		out = append(out, Stat{Label: label, Count: len(a.vals), Mean: a.mean()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

func group(groups map[string]*acc, label string) *acc {
	a, ok := groups[label]
	if !ok {
		a = &acc{}
		groups[label] = a
	}
	return a
}

// ByTextCategory groups classified valid orders by canonical category.
func ByTextCategory(orders []model.Order) []Stat {
	groups := make(map[string]*acc)
	for _, o := range orders {
		if !o.Valid() {
			continue
		}
		group(groups, canon.Category(o.Category)).add(o.DurationMinute)
	}
	return collect(groups)
}

// BySAPCode joins orders to notifications (inner) and failure codes (left)
// and groups order durations by the canonicalized code description.
// It is unavailable when no order matches a notification or no matched
// order has a code description.
func BySAPCode(orders []model.Order, notifs []model.Notification, codes []model.FailureCode) model.Result[[]Stat] {
	withNotif := match.Merge(orders, notifs,
		func(o model.Order) string { return o.Notification },
		func(n model.Notification) string { return n.ID },
		match.Inner,
	)
	if len(withNotif) == 0 {
		return model.Unavailable[[]Stat]("no order matched a notification")
	}
	withCode := match.Merge(withNotif, codes,
		func(p match.Pair[model.Order, model.Notification]) string {
			return match.CompositeKey(p.Right.CodeGroup, p.Right.Code)
		},
		func(c model.FailureCode) string { return match.CompositeKey(c.CodeGroup, c.Code) },
		match.Left,
	)
	groups := make(map[string]*acc)
	for _, p := range withCode {
		if !p.HasRight || p.Right.Description == "" {
			continue
		}
		group(groups, canon.Label(p.Right.Description)).add(p.Left.Left.DurationMinute)
	}
	if len(groups) == 0 {
		return model.Unavailable[[]Stat]("no matched order carries a failure-code description")
	}
	return model.Available(collect(groups))
}

// Period is an inclusive range of calendar days.
type Period struct {
	From, To time.Time
	Set      bool
}

// OrderPeriod spans the earliest order start day to the latest order end day.
func OrderPeriod(orders []model.Order) Period {
	var p Period
	for _, o := range orders {
		if !o.HasStart || !o.HasEnd {
			continue
		}
		s, e := model.TruncateDay(o.Start), model.TruncateDay(o.End)
		if !p.Set {
			p = Period{From: s, To: e, Set: true}
			continue
		}
		if s.Before(p.From) {
			p.From = s
		}
		if e.After(p.To) {
			p.To = e
		}
	}
	return p
}

func (p Period) contains(day time.Time) bool {
	if !p.Set {
		return true
	}
	return !day.Before(p.From) && !day.After(p.To)
}

// ByMachineColumn averages each per-category downtime column over the
// machine rows whose calendar day lies in period. An unset period keeps
// every row with a day.
func ByMachineColumn(ml *preprocess.MachineLog, period Period) model.Result[[]Stat] {
	if !ml.HasDay {
		return model.Unavailable[[]Stat]("machine log has no " + preprocess.ColCalendarDay + " column")
	}
	if len(ml.CategoryColumns) == 0 {
		return model.Unavailable[[]Stat]("machine log has no per-category downtime columns")
	}
	groups := make(map[string]*acc, len(ml.CategoryColumns))
	for _, c := range ml.CategoryColumns {
		group(groups, canon.Category(c))
	}
	for _, e := range ml.Entries {
		if !e.HasDay || !period.contains(e.Day) {
			continue
		}
		for _, c := range ml.CategoryColumns {
			groups[canon.Category(c)].add(e.Categories[c])
		}
	}
	return model.Available(collect(groups))
}
