// Package match associates records from different sources, either by exact
// keys or by calendar-day buckets.
package match

import "strings"

// Mode selects which unmatched rows a merge keeps.
type Mode int

const (
	Inner Mode = iota
	Left
	Outer
)

func (m Mode) String() string {
	switch m {
	case Inner:
		return "inner"
	case Left:
		return "left"
	case Outer:
		return "outer"
	}
	return "unknown"
}

// Pair is one merge output row. HasLeft/HasRight are false on the side an
// unmatched row lacks; that side holds its zero value.
type Pair[L, R any] struct {
	Left     L
	Right    R
	HasLeft  bool
	HasRight bool
}

// Merge equality-joins left and right on the string keys produced by lkey and
// rkey. An empty key never matches. Output keeps left order, each left row
// followed by its matches in right order; in Outer mode the unmatched right
// rows follow at the end in right order.
func Merge[L, R any](left []L, right []R, lkey func(L) string, rkey func(R) string, mode Mode) []Pair[L, R] {
	byKey := make(map[string][]int, len(right))
	for i, r := range right {
		if k := rkey(r); k != "" {
			byKey[k] = append(byKey[k], i)
		}
	}
	used := make([]bool, len(right))
	var out []Pair[L, R]
	for _, l := range left {
		var hits []int
		if k := lkey(l); k != "" {
			hits = byKey[k]
		}
		if len(hits) == 0 {
			if mode != Inner {
				out = append(out, Pair[L, R]{Left: l, HasLeft: true})
			}
			continue
		}
		for _, i := range hits {
			used[i] = true
			out = append(out, Pair[L, R]{Left: l, Right: right[i], HasLeft: true, HasRight: true})
		}
	}
	if mode == Outer {
		for i, r := range right {
			if !used[i] {
				out = append(out, Pair[L, R]{Right: r, HasRight: true})
			}
		}
	}
	return out
}

const keySep = "\x1f"

// CompositeKey joins key parts into one comparable key. If any part is blank
// the whole key is blank and will not match.
func CompositeKey(parts ...string) string {
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return ""
		}
	}
	return strings.Join(parts, keySep)
}
