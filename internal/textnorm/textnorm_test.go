package textnorm

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Kardán", "kardan"},
		{"", ""},
		{"Výměna LOŽISKA #3!", "vymena loziska 3"},
		{"Motor defekt", "motor defekt"},
		{"Öl-Leck (Hydraulik)", "ol-leck hydraulik"},
		{"Straße", "straße"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q): got=%q want=%q", c.in, got, c.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"Kardán", "Výměna LOŽISKA #3!", "Öl-Leck (Hydraulik)", "  čidlo / snímač ", "Straße"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}
