package aggregate

import (
	"fmt"
	"io"
	"math"
	"sort"
	"text/tabwriter"

	"dtrecon/internal/match"
	"dtrecon/internal/model"
)

// Row is one canonical category of the comparison table. A source that has
// no data for the category leaves its columns null.
type Row struct {
	DamageType        string          `json:"Damage_Type"`
	OrderDurationText model.NullFloat `json:"Order_Duration_Text"`
	OrderDuration     model.NullFloat `json:"Order_Duration"`
	DowntimeMachine   model.NullFloat `json:"Downtime_Machine"`
	OrdersText        int             `json:"Orders_Text"`
	OrdersSAP         int             `json:"Orders_SAP"`
	MachineSamples    int             `json:"Machine_Samples"`
}

// Comparison is the outer join of the three per-category aggregates.
type Comparison struct {
	Rows []Row `json:"rows"`
	// Unavailable records sources that contributed nothing, with the reason.
	Unavailable map[string]string `json:"unavailable,omitempty"`
}

// Source names used in Comparison.Unavailable.
const (
	SourceText    = "text"
	SourceSAP     = "sap"
	SourceMachine = "machine"
)

// Compare outer-joins the per-source stats on canonical label and rounds the
// means to one decimal. Rows are sorted by label.
func Compare(text, sap, machine model.Result[[]Stat]) Comparison {
	cmp := Comparison{}
	note := func(name string, res model.Result[[]Stat]) []Stat {
		stats, ok := res.Get()
		if !ok {
			if cmp.Unavailable == nil {
				cmp.Unavailable = make(map[string]string)
			}
			cmp.Unavailable[name] = res.Reason()
		}
		return stats
	}
	statLabel := func(s Stat) string { return s.Label }

	orderSide := match.Merge(note(SourceText, text), note(SourceSAP, sap), statLabel, statLabel, match.Outer)
	partial := make([]Row, 0, len(orderSide))
	for _, p := range orderSide {
		var r Row
		if p.HasLeft {
			r.DamageType = p.Left.Label
			r.OrderDurationText, r.OrdersText = Round1(p.Left.Mean), p.Left.Count
		}
		if p.HasRight {
			r.DamageType = p.Right.Label
			r.OrderDuration, r.OrdersSAP = Round1(p.Right.Mean), p.Right.Count
		}
		partial = append(partial, r)
	}

	full := match.Merge(partial, note(SourceMachine, machine),
		func(r Row) string { return r.DamageType }, statLabel, match.Outer)
	cmp.Rows = make([]Row, 0, len(full))
	for _, p := range full {
		r := p.Left
		if p.HasRight {
			r.DamageType = p.Right.Label
			r.DowntimeMachine, r.MachineSamples = Round1(p.Right.Mean), p.Right.Count
		}
		cmp.Rows = append(cmp.Rows, r)
	}
	sort.SliceStable(cmp.Rows, func(i, j int) bool { return cmp.Rows[i].DamageType < cmp.Rows[j].DamageType })
	return cmp
}

// Round1 rounds to one decimal place, ties to even.
func Round1(v model.NullFloat) model.NullFloat {
	if !v.Valid {
		return v
	}
	return model.Float(math.RoundToEven(v.Value*10) / 10)
}

// WriteTable renders the comparison as aligned text columns.
func (c Comparison) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Damage_Type\tOrder_Duration_Text\tOrder_Duration\tDowntime_Machine\t")
	for _, r := range c.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", r.DamageType, cell(r.OrderDurationText), cell(r.OrderDuration), cell(r.DowntimeMachine))
	}
	return tw.Flush()
}

func cell(v model.NullFloat) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf("%.1f", v.Value)
}
