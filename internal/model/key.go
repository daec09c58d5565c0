package model

import "strings"

// NormalizeKey coerces an identifier to the string form used for joins.
// Spreadsheet exports sometimes render integer ids as floats ("70004528.0"),
// so a fraction of only zeros is dropped.
func NormalizeKey(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '.'); i > 0 && isDigits(s[:i]) && strings.Trim(s[i+1:], "0") == "" {
		return s[:i]
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
