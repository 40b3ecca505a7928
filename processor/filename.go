package processor

import (
	"strings"
	"time"
)

const fallbackName = "paperwork"

// SanitizeFilename makes s safe as one path component. Surrounding space is
// trimmed, then every character outside [A-Za-z0-9._-] becomes "_", one for
// one, and leading dots become "_" too.
func SanitizeFilename(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	leading := true
	for _, r := range s {
		switch {
		case r == '.' && leading:
			b.WriteByte('_')
			continue
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
		leading = false
	}
	if b.Len() == 0 {
		return fallbackName
	}
	return b.String()
}

// LoadsheetFilename is "<load number>_<collection>.xlsx".
func LoadsheetFilename(loadNumber, collection string) string {
	return SanitizeFilename(loadNumber) + "_" + SanitizeFilename(collection) + ".xlsx"
}

// TimesheetFilename is "timesheet_<YYYY-MM-DD>_<driver>.xlsx", dated by the
// Sunday that names the week.
func TimesheetFilename(sunday time.Time, driver string) string {
	return "timesheet_" + sunday.Format("2006-01-02") + "_" + SanitizeFilename(driver) + ".xlsx"
}
