package preprocess

import (
	"errors"
	"testing"
	"time"

	"dtrecon/internal/model"
	"dtrecon/internal/source"
)

func TestParseDowntime(t *testing.T) {
	cases := []struct {
		in    string
		want  float64
		valid bool
	}{
		{"2H", 120, true},
		{"45 MIN", 45, true},
		{"1,5H", 90, true},
		{"1.5 h", 90, true},
		{"30", 30, true},
		{"12 M", 12, true},
		{"7,", 7, true},
		{"abc", 0, false},
		{"", 0, false},
		{"-", 0, false},
	}
	for _, c := range cases {
		got := ParseDowntime(c.in)
		if got.Valid != c.valid || (c.valid && got.Value != c.want) {
			t.Fatalf("ParseDowntime(%q): got=%+v want=%v valid=%v", c.in, got, c.want, c.valid)
		}
	}
}

func TestParseCategoryDowntime_BareNumbersAreHours(t *testing.T) {
	if got := ParseCategoryDowntime("1,5"); !got.Valid || got.Value != 90 {
		t.Fatalf("got=%+v want=90", got)
	}
	if got := ParseCategoryDowntime("20 MIN"); !got.Valid || got.Value != 20 {
		t.Fatalf("got=%+v want=20", got)
	}
}

func TestForwardFill_SequentialScan(t *testing.T) {
	tbl := source.NewTable("m", []string{"Work Center", "Note"}, [][]string{
		{"", "a"},
		{"WC1", ""},
		{"", "b"},
		{" ", ""},
		{"WC2", ""},
		{"", ""},
	})
	got := ForwardFill(tbl, []string{"Work Center", "Missing"})
	want := []string{"", "WC1", "WC1", "WC1", "WC2", "WC2"}
	for i, w := range want {
		if v := got.Value(i, "Work Center"); v != w {
			t.Fatalf("row %d: got=%q want=%q", i, v, w)
		}
	}
	// untouched column
	if v := got.Value(1, "Note"); v != "" {
		t.Fatalf("Note must not be filled: %q", v)
	}
	// input unchanged
	if v := tbl.Value(2, "Work Center"); v != "" {
		t.Fatalf("input mutated: %q", v)
	}
}

func TestPrepareMachineLog(t *testing.T) {
	tbl := source.NewTable("m", []string{
		"Plant", "Work Center", "Calendar day", "[-] Malfunction", "Mold\n(1403)", "Automation\n(1405)",
	}, [][]string{
		{"P1", "WC1", "01.03.2024", "2H", "1,5", ""},
		{"", "", "01.03.2024", "45 MIN", "", "30 MIN"},
		{"", "WC2", "02.03.2024", "n/a", "x", ""},
		{"", "", "Summe", "9H", "", ""},
		{"", "", "31.02.2024", "10", "", ""},
	})
	ml, st := PrepareMachineLog(tbl)
	if st.Read != 5 || st.Kept != 4 || st.DroppedBadDay != 1 {
		t.Fatalf("stats: %+v", st)
	}
	if st.DowntimeFailures != 1 || st.CategoryFailures != 1 || st.DayParseFailures != 1 {
		t.Fatalf("failure stats: %+v", st)
	}
	if !ml.HasDay || !ml.HasDowntime || !ml.HasWorkCenter {
		t.Fatalf("column flags: %+v", ml)
	}
	if len(ml.CategoryColumns) != 2 || ml.CategoryColumns[0] != model.FormMold || ml.CategoryColumns[1] != model.HydraulicAutomation {
		t.Fatalf("category columns: %v", ml.CategoryColumns)
	}
	e := ml.Entries
	if e[1].WorkCenter != "WC1" || e[1].Plant != "P1" {
		t.Fatalf("forward fill: %+v", e[1])
	}
	if !e[0].Downtime.Valid || e[0].Downtime.Value != 120 || e[1].Downtime.Value != 45 {
		t.Fatalf("downtime: %+v %+v", e[0].Downtime, e[1].Downtime)
	}
	if e[2].Downtime.Valid {
		t.Fatalf("unparseable downtime must be null: %+v", e[2].Downtime)
	}
	if want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC); !e[0].HasDay || !e[0].Day.Equal(want) {
		t.Fatalf("day: %v", e[0].Day)
	}
	if e[3].HasDay {
		t.Fatalf("31.02.2024 must not parse")
	}
	if v := e[0].Categories[model.FormMold]; !v.Valid || v.Value != 90 {
		t.Fatalf("mold column: %+v", v)
	}
	if v := e[1].Categories[model.HydraulicAutomation]; !v.Valid || v.Value != 30 {
		t.Fatalf("automation column: %+v", v)
	}
}

func orderTable(rows ...[]string) *source.Table {
	return source.NewTable("orders", []string{
		"Auftrag", "Kurztext", "Priorität", "Eckstarttermin", "Iststart Uhrzeit",
		"Eckendtermin", "Term. Ende Uhrzeit", "Arbeitsplatz", "Meldung",
	}, rows)
}

func TestPrepareOrders_DurationFilter(t *testing.T) {
	tbl := orderTable(
		[]string{"1", "ok", "1", "01.03.2024", "08:00:00", "01.03.2024", "10:30:00", "WC1", "100"},
		[]string{"2", "reversed", "1", "01.03.2024", "10:00:00", "01.03.2024", "09:00:00", "WC1", ""},
		[]string{"3", "zero", "1", "01.03.2024", "10:00:00", "01.03.2024", "10:00:00", "WC1", ""},
		[]string{"4", "exactly 10000", "1", "01.03.2024", "00:00:00", "07.03.2024", "22:40:00", "WC1", ""},
		[]string{"5", "9999.9", "1", "01.03.2024", "00:00:00", "07.03.2024", "22:39:54", "WC1", ""},
		[]string{"6", "bad date", "1", "soon", "08:00", "01.03.2024", "09:00", "WC1", ""},
		[]string{"7.0", "iso", "2", "2024-03-02", "0.25", "2024-03-02", "07:00", "WC2", "101.0"},
	)
	orders, st, err := PrepareOrders(tbl)
	if err != nil {
		t.Fatalf("PrepareOrders: %v", err)
	}
	var ids []string
	for _, o := range orders.Rows {
		ids = append(ids, o.ID)
	}
	if len(ids) != 3 || ids[0] != "1" || ids[1] != "5" || ids[2] != "7" {
		t.Fatalf("kept ids: %v", ids)
	}
	if st.OutOfRange != 3 || st.StartUnparsed != 1 || st.Kept != 3 {
		t.Fatalf("stats: %+v", st)
	}
	if d := orders.Rows[0].DurationMinute.Value; d != 150 {
		t.Fatalf("duration: got=%v want=150", d)
	}
	if d := orders.Rows[2].DurationMinute.Value; d != 60 {
		t.Fatalf("excel fraction start: got=%v want=60", d)
	}
	if orders.Rows[2].Notification != "101" {
		t.Fatalf("notification key: %q", orders.Rows[2].Notification)
	}
	if !orders.HasColumn(ColNotification) {
		t.Fatalf("HasColumn")
	}
}

func TestPrepareOrders_MissingColumn(t *testing.T) {
	tbl := source.NewTable("orders", []string{"Auftrag", "Eckstarttermin"}, nil)
	_, _, err := PrepareOrders(tbl)
	if !errors.Is(err, model.ErrMissingColumn) {
		t.Fatalf("want ErrMissingColumn, got %v", err)
	}
}

func TestPrepareLinks(t *testing.T) {
	n, err := PrepareNotifications(source.NewTable("n", []string{"Meldung", "Codegruppe", "Codierungscode"}, [][]string{
		{"100.0", "G1", "1"},
	}))
	if err != nil || len(n) != 1 || n[0].ID != "100" || n[0].CodeGroup != "G1" {
		t.Fatalf("notifications: %+v err=%v", n, err)
	}
	_, err = PrepareFailureCodes(source.NewTable("f", []string{"Codegruppe", "Code"}, nil))
	if !errors.Is(err, model.ErrMissingColumn) {
		t.Fatalf("want ErrMissingColumn, got %v", err)
	}
}
