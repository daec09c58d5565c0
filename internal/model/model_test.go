package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestOrderValid_DurationBounds(t *testing.T) {
	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	cases := []struct {
		minutes float64
		want    bool
	}{
		{-5, false},
		{0, false},
		{0.5, true},
		{9999.9, true},
		{10000, false},
		{12000, false},
	}
	for _, c := range cases {
		o := Order{Start: start, HasStart: true, HasEnd: true, DurationMinute: Float(c.minutes)}
		if got := o.Valid(); got != c.want {
			t.Fatalf("Valid(%v): got=%v want=%v", c.minutes, got, c.want)
		}
	}
	if (Order{HasStart: true, DurationMinute: Float(10)}).Valid() {
		t.Fatalf("order without end must be invalid")
	}
}

func TestNullFloatJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A NullFloat
		B NullFloat
	}{A: Float(1.5)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"A":1.5,"B":null}` {
		t.Fatalf("got=%s", b)
	}
	var back struct{ A, B NullFloat }
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.A.Valid || back.A.Value != 1.5 || back.B.Valid {
		t.Fatalf("round trip: %+v", back)
	}
}

func TestNormalizeKey(t *testing.T) {
	cases := map[string]string{
		" 70004528 ":  "70004528",
		"70004528.0":  "70004528",
		"70004528.00": "70004528",
		"12.5":        "12.5",
		"WC-01":       "WC-01",
		"0100":        "0100",
		"":            "",
	}
	for in, want := range cases {
		if got := NormalizeKey(in); got != want {
			t.Fatalf("NormalizeKey(%q): got=%q want=%q", in, got, want)
		}
	}
}

func TestMissingColumnError(t *testing.T) {
	has := func(c string) bool { return c == "A" }
	err := RequireColumns("orders", has, "A", "B")
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("want ErrMissingColumn, got %v", err)
	}
	wrapped := fmt.Errorf("prepare: %w", err)
	var mc *MissingColumnError
	if !errors.As(wrapped, &mc) || mc.Column != "B" {
		t.Fatalf("want column B, got %v", wrapped)
	}
	if RequireColumns("orders", has, "A") != nil {
		t.Fatalf("no error expected")
	}
}

func TestResult(t *testing.T) {
	r := Available(3)
	if v, ok := r.Get(); !ok || v != 3 {
		t.Fatalf("available: v=%d ok=%v", v, ok)
	}
	u := Unavailable[int]("no rows")
	if _, ok := u.Get(); ok || u.Reason() != "no rows" {
		t.Fatalf("unavailable: %+v", u)
	}
}

func TestCategoryLabels(t *testing.T) {
	for _, c := range Categories() {
		if c.String() == "unset" || c.Label() == "" {
			t.Fatalf("category %d lacks key or label", c)
		}
	}
	if FormMold.String() != "form" || FormMold.Label() != "Mold" {
		t.Fatalf("form/mold: %s %s", FormMold, FormMold.Label())
	}
	if DamageCategory(0).Valid() {
		t.Fatalf("zero category must be invalid")
	}
}
