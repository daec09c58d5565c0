package preprocess

import (
	"regexp"
	"strconv"
	"strings"

	"dtrecon/internal/model"
)

var durationRe = regexp.MustCompile(`^(\d+(?:[.,]\d*)?)\s*(H|MIN|M)?`)

// ParseDowntime reads a machine-log downtime cell such as "2H", "45 MIN" or
// "1,5H". Bare numbers are minutes. Cells that do not start with a number
// are null, never zero.
func ParseDowntime(val string) model.NullFloat {
	return parseDuration(val, false)
}

// ParseCategoryDowntime reads a per-category cell. The report prints these in
// hours, so bare numbers are hours; an explicit MIN/M suffix is honoured.
func ParseCategoryDowntime(val string) model.NullFloat {
	return parseDuration(val, true)
}

func parseDuration(val string, bareHours bool) model.NullFloat {
	val = strings.ToUpper(strings.TrimSpace(val))
	m := durationRe.FindStringSubmatch(val)
	if m == nil {
		return model.NullFloat{}
	}
	num := strings.TrimSuffix(strings.ReplaceAll(m[1], ",", "."), ".")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return model.NullFloat{}
	}
	unit := m[2]
	switch {
	case strings.HasPrefix(unit, "H"):
		return model.Float(n * 60)
	case unit == "" && bareHours:
		return model.Float(n * 60)
	default:
		return model.Float(n)
	}
}
