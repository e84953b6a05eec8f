package domain

import "time"

// dateLayouts are the stored date shapes FormatDate understands.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
}

// FormatDate renders a stored task date as day/month/year. Storage is format
// agnostic, so anything that does not parse is returned unchanged.
func FormatDate(value string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return value
}
