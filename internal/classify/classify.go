// Package classify assigns a damage category to order short texts by ordered
// keyword matching.
package classify

import (
	"regexp"

	"dtrecon/internal/model"
	"dtrecon/internal/textnorm"
)

// Rule binds a category to its stem patterns. Patterns are tried in order.
type Rule struct {
	Category model.DamageCategory
	Patterns []*regexp.Regexp
}

// Classifier walks its rules in declaration order and returns the first
// category with a matching pattern. Rule order is the tie-break when a text
// contains stems of several categories.
type Classifier struct {
	rules []Rule
}

func New(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify expects text already passed through textnorm.Normalize.
// A text that matches nothing, including "", yields model.Other.
func (c *Classifier) Classify(normalized string) model.DamageCategory {
	for _, r := range c.rules {
		for _, p := range r.Patterns {
			if p.MatchString(normalized) {
				return r.Category
			}
		}
	}
	return model.Other
}

// ClassifyText normalizes raw before classifying it.
func (c *Classifier) ClassifyText(raw string) model.DamageCategory {
	return c.Classify(textnorm.Normalize(raw))
}

// Rules returns a copy of the rule table.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

func stems(words string) *regexp.Regexp {
	return regexp.MustCompile(`\b(` + words + `)\b`)
}

var defaultRules = []Rule{
	{model.Mechanical, []*regexp.Regexp{stems(`kardan|lozisk|valec|kloub|hrabe|hrabi|sroub|rameno|vibr|unwucht|mechan|welle|cep|zavit|drzak|pravitko|uvoln|ulomen|zamek|ozuben`)}},
	{model.Electrical, []*regexp.Regexp{stems(`elektr|elektro|motor|jistic|kontakt|civka|frekven|invert|servomotor|servo|encoder|napajeni|spinac|koncak|rele|elektroskrin|elporucha|ridici|elektron|prevodnik|kabel`)}},
	{model.FormMold, []*regexp.Regexp{stems(`form|forma|forme|strizn|vlozka|brous|prebrous|deska|kalandr|matrice|tvarovac|dira|lem|otisk|klise|segment|kontura|hlava|rozděl|rozdell`)}},
	{model.HydraulicAutomation, []*regexp.Regexp{stems(`pistnic|hydraul|tlak|tesn|netes|pruzin|pritlak|vzduch|unik vzduch|membran|vakuum|vakuova|tlumic|hadic|olej|filtr|voda|pneu|pneumat`)}},
	{model.Sensor, []*regexp.Regexp{stems(`snimac|cidlo|sensor|senzor|indikator|enkoder|detektor|meric|mereni`)}},
	{model.Infrastructure, []*regexp.Regexp{stems(`infrastruktura|budova|osvetlen|klimatizace|zasuvka|branka|brana|okno|dver|mazan|mazani|mazaci|ventilace|kanal|vytapeni|strop|podlaha`)}},
	{model.SoftwareControl, []*regexp.Regexp{stems(`software|softwar|program|reset|komunikace|chyba plc|siemens|ovlad|rizeni|system|parametr|aktualizace|modul|firmware`)}},
	{model.Safety, []*regexp.Regexp{stems(`bezpecnost|zamek dveri|zabezpeceni|kryt|ochrana|svetelna zavora|havari|alarm|notaus|emergency`)}},
	{model.Maintenance, []*regexp.Regexp{stems(`udrzba|cisteni|mazani|serizeni|kalibrace|kontrola|vymena|prohlidka|oprava`)}},
	{model.Unknown, nil},
}

// Default returns the classifier configured with the plant's keyword table.
func Default() *Classifier {
	return New(defaultRules)
}
