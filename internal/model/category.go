package model

// DamageCategory is the closed set of damage categories shared by all sources.
type DamageCategory int

const (
	Mechanical DamageCategory = iota + 1
	Electrical
	FormMold
	HydraulicAutomation
	Sensor
	Infrastructure
	SoftwareControl
	Safety
	Maintenance
	Unknown
	Other
	// Machine-log only.
	Malfunction
	Machine
	PeripheralEquipment
)

var categoryKeys = map[DamageCategory]string{
	Mechanical:          "mechanical",
	Electrical:          "electrical",
	FormMold:            "form",
	HydraulicAutomation: "hydraulic",
	Sensor:              "sensor",
	Infrastructure:      "infrastructure",
	SoftwareControl:     "software/control",
	Safety:              "safety",
	Maintenance:         "maintenance",
	Unknown:             "unknown",
	Other:               "other",
	Malfunction:         "malfunction",
	Machine:             "machine",
	PeripheralEquipment: "peripheral equipment",
}

var categoryLabels = map[DamageCategory]string{
	Mechanical:          "Mechanical",
	Electrical:          "Electrical",
	FormMold:            "Mold",
	HydraulicAutomation: "Automation",
	Sensor:              "Sensor",
	Infrastructure:      "Infrastructure",
	SoftwareControl:     "Software/Control",
	Safety:              "Safety",
	Maintenance:         "Maintenance",
	Unknown:             "Unknown",
	Other:               "Other",
	Malfunction:         "Malfunction",
	Machine:             "Machine",
	PeripheralEquipment: "Peripheral Equipment",
}

// String returns the lowercase key the keyword classifier emits.
func (c DamageCategory) String() string {
	if k, ok := categoryKeys[c]; ok {
		return k
	}
	return "unset"
}

// Label returns the canonical display label used in the comparison table.
func (c DamageCategory) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return ""
}

func (c DamageCategory) Valid() bool {
	_, ok := categoryKeys[c]
	return ok
}

// Categories lists every category in declaration order.
func Categories() []DamageCategory {
	out := make([]DamageCategory, 0, len(categoryKeys))
	for c := Mechanical; c <= PeripheralEquipment; c++ {
		out = append(out, c)
	}
	return out
}
