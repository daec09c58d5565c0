// Package preprocess turns raw source tables into typed, validated records.
package preprocess

import (
	"regexp"

	"dtrecon/internal/model"
	"dtrecon/internal/source"
)

// Machine log columns.
const (
	ColPlant          = "Plant"
	ColWorkCenter     = "Work Center"
	ColArticle        = "ArticleNr - new (MD)"
	ColMaterial       = "Material"
	ColProdOrder      = "Production Order"
	ColStartDateTime  = "Start date / time"
	ColEndDateTime    = "End date / time"
	ColCalendarDay    = "Calendar day"
	ColRawMalfunction = "[-] Malfunction"
)

// Group-header columns printed only on the first row of each block.
var machineFillColumns = []string{
	ColPlant, ColWorkCenter, ColArticle, ColMaterial, ColProdOrder, ColStartDateTime, ColEndDateTime,
}

// CategoryColumnCodes maps the catalogue code embedded in a per-category
// column header to its category.
var CategoryColumnCodes = []struct {
	Code     string
	Category model.DamageCategory
}{
	{"(1201)", model.Malfunction},
	{"(1401)", model.Machine},
	{"(1402)", model.Infrastructure},
	{"(1403)", model.FormMold},
	{"(1404)", model.PeripheralEquipment},
	{"(1405)", model.HydraulicAutomation},
}

var calendarDayRe = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}`)

// MachineLog is the cleaned machine report.
type MachineLog struct {
	Entries []model.MachineLogEntry
	// HasDay, HasWorkCenter and HasDowntime record which optional columns
	// the source carried.
	HasDay        bool
	HasWorkCenter bool
	HasDowntime   bool
	// CategoryColumns lists the per-category columns found, in catalogue order.
	CategoryColumns []model.DamageCategory
}

// MachineStats counts what preprocessing did to the machine log.
type MachineStats struct {
	Read             int
	Kept             int
	DroppedBadDay    int
	DayParseFailures int
	DowntimeFailures int
	CategoryFailures int
	DateTimeFailures int
}

// PrepareMachineLog forward-fills group columns, drops rows whose calendar
// day is not DD.MM.YYYY shaped, and parses dates and downtimes. Unparseable
// values become null; they never drop the row.
func PrepareMachineLog(t *source.Table) (*MachineLog, MachineStats) {
	st := MachineStats{Read: t.Len()}
	filled := ForwardFill(t, machineFillColumns)

	out := &MachineLog{
		HasDay:        filled.Has(ColCalendarDay),
		HasWorkCenter: filled.Has(ColWorkCenter),
		HasDowntime:   filled.Has(ColRawMalfunction),
	}
	catCols := make(map[model.DamageCategory]string)
	for _, cc := range CategoryColumnCodes {
		if col, ok := filled.FindColumn(cc.Code); ok {
			catCols[cc.Category] = col
			out.CategoryColumns = append(out.CategoryColumns, cc.Category)
		}
	}

	for r := range filled.Rows {
		e := model.MachineLogEntry{
			Row:        r,
			Plant:      filled.Value(r, ColPlant),
			WorkCenter: model.NormalizeKey(filled.Value(r, ColWorkCenter)),
		}
		if out.HasDay {
			raw := filled.Value(r, ColCalendarDay)
			if !calendarDayRe.MatchString(raw) {
				st.DroppedBadDay++
				continue
			}
			if d, ok := parseDate(raw[:10]); ok {
				e.Day, e.HasDay = model.TruncateDay(d), true
			} else {
				st.DayParseFailures++
			}
		}
		if v := filled.Value(r, ColStartDateTime); v != "" {
			if ts, ok := parseMachineDateTime(v); ok {
				e.Start = ts
			} else {
				st.DateTimeFailures++
			}
		}
		if v := filled.Value(r, ColEndDateTime); v != "" {
			if ts, ok := parseMachineDateTime(v); ok {
				e.End = ts
			} else {
				st.DateTimeFailures++
			}
		}
		if out.HasDowntime {
			raw := filled.Value(r, ColRawMalfunction)
			e.Downtime = ParseDowntime(raw)
			if raw != "" && !e.Downtime.Valid {
				st.DowntimeFailures++
			}
		}
		if len(catCols) > 0 {
			e.Categories = make(map[model.DamageCategory]model.NullFloat, len(catCols))
			for cat, col := range catCols {
				raw := filled.Value(r, col)
				v := ParseCategoryDowntime(raw)
				if raw != "" && !v.Valid {
					st.CategoryFailures++
				}
				e.Categories[cat] = v
			}
		}
		out.Entries = append(out.Entries, e)
	}
	st.Kept = len(out.Entries)
	return out, st
}
