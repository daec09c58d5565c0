// Package canon maps the category spellings of the text classifier, the SAP
// failure-code catalogue and the machine log onto one label set.
package canon

import (
	"strings"

	"dtrecon/internal/model"
)

// synonyms is keyed by lowercased, trimmed label.
var synonyms = map[string]model.DamageCategory{
	"mechanical":           model.Mechanical,
	"mechanisch":           model.Mechanical,
	"mechanik":             model.Mechanical,
	"electrical":           model.Electrical,
	"elektrisch":           model.Electrical,
	"elektrik":             model.Electrical,
	"form":                 model.FormMold,
	"mold":                 model.FormMold,
	"mould":                model.FormMold,
	"werkzeug":             model.FormMold,
	"hydraulic":            model.HydraulicAutomation,
	"hydraulik":            model.HydraulicAutomation,
	"automation":           model.HydraulicAutomation,
	"automatisierung":      model.HydraulicAutomation,
	"sensor":               model.Sensor,
	"sensorik":             model.Sensor,
	"infrastructure":       model.Infrastructure,
	"infrastruktur":        model.Infrastructure,
	"software/control":     model.SoftwareControl,
	"steuerung":            model.SoftwareControl,
	"safety":               model.Safety,
	"sicherheit":           model.Safety,
	"maintenance":          model.Maintenance,
	"wartung":              model.Maintenance,
	"instandhaltung":       model.Maintenance,
	"unknown":              model.Unknown,
	"unbekannt":            model.Unknown,
	"other":                model.Other,
	"sonstige":             model.Other,
	"malfunction":          model.Malfunction,
	"störung":              model.Malfunction,
	"machine":              model.Machine,
	"maschine":             model.Machine,
	"peripheral equipment": model.PeripheralEquipment,
	"peripherie":           model.PeripheralEquipment,
}

// Lookup returns the category a label denotes, if the synonym table knows it.
func Lookup(label string) (model.DamageCategory, bool) {
	c, ok := synonyms[strings.ToLower(strings.TrimSpace(label))]
	return c, ok
}

// Label canonicalizes a raw label. Unknown labels pass through unchanged so
// they stay visible in the comparison instead of being dropped.
func Label(raw string) string {
	if c, ok := Lookup(raw); ok {
		return c.Label()
	}
	return raw
}

// Category canonicalizes a classifier or machine-log category.
func Category(c model.DamageCategory) string {
	if l := c.Label(); l != "" {
		return l
	}
	return c.String()
}
