package canon

import (
	"testing"

	"dtrecon/internal/model"
)

func TestLabel(t *testing.T) {
	cases := map[string]string{
		"mechanisch":           "Mechanical",
		"mechanical":           "Mechanical",
		"  Mechanical ":        "Mechanical",
		"hydraulic":            "Automation",
		"Automation":           "Automation",
		"form":                 "Mold",
		"MOLD":                 "Mold",
		"Peripheral Equipment": "Peripheral Equipment",
		"zzz":                  "zzz",
		"Verschleiß":           "Verschleiß",
		"":                     "",
	}
	for in, want := range cases {
		if got := Label(in); got != want {
			t.Fatalf("Label(%q): got=%q want=%q", in, got, want)
		}
	}
}

func TestEveryCategoryKeyIsASynonym(t *testing.T) {
	for _, c := range model.Categories() {
		got, ok := Lookup(c.String())
		if !ok || got != c {
			t.Fatalf("classifier key %q does not map back to %v", c.String(), c)
		}
		if Category(c) != c.Label() {
			t.Fatalf("Category(%v) = %q", c, Category(c))
		}
	}
}
