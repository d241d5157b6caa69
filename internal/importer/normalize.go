package importer

// normalize.go holds the heuristics that turn free-text source values
// into canonical internal form: name splitting, placeholder email
// synthesis, appointment status normalization, and date/time parsing.

import (
	"strings"
	"time"
)

// Date layouts accepted for appointment and birth dates. Ordered so
// unambiguous ISO forms are tried before locale-dependent ones.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"1/2/2006",
	"01/02/2006",
	"1-2-2006",
	"01-02-2006",
	"1.2.2006",
	"01.02.2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"20060102",
}

// Time layouts accepted for the appointment time component.
var timeLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
}

// SplitName derives discrete first/last names from a combined name by
// splitting on whitespace. Everything after the first token becomes the
// last name.
func SplitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	first = parts[0]
	last = strings.Join(parts[1:], " ")
	return first, last
}

// SynthesizeEmail builds a placeholder dedup key for patients imported
// without an email address: firstname.lastname@imported.local, lowercased
// with non-letter characters stripped.
func SynthesizeEmail(first, last string) string {
	f := letters(first)
	l := letters(last)
	if l == "" {
		return f + "@imported.local"
	}
	return f + "." + l + "@imported.local"
}

// letters lowercases s and drops every non-letter character.
func letters(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// statusKeywords maps each normalized status to the source keywords that
// select it. Membership is exact after lowercasing and trimming.
var statusKeywords = []struct {
	status   string
	keywords []string
}{
	{StatusCompleted, []string{"completed", "complete", "done", "finished", "attended", "seen"}},
	{StatusCancelled, []string{"cancelled", "canceled", "cancel", "no show", "no-show"}},
	{StatusPending, []string{"pending", "tentative", "waiting", "unconfirmed"}},
	{StatusConfirmed, []string{"confirmed", "scheduled", "booked", "approved", "upcoming"}},
}

// NormalizeStatus maps a free-text appointment status onto the fixed
// internal set. Unrecognized or missing values default to confirmed.
func NormalizeStatus(raw string) string {
	needle := strings.ToLower(strings.TrimSpace(raw))
	if needle == "" {
		return StatusConfirmed
	}
	for _, entry := range statusKeywords {
		for _, kw := range entry.keywords {
			if needle == kw {
				return entry.status
			}
		}
	}
	return StatusConfirmed
}

// ParseDateTime combines a date string and an optional time string into a
// single timestamp. When the time is absent the appointment defaults to
// 09:00. An unparsable combination is a row-level validation error.
func ParseDateTime(dateStr, timeStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	timeStr = strings.TrimSpace(timeStr)
	if dateStr == "" {
		return time.Time{}, validationErr("Invalid date/time format")
	}
	if timeStr == "" {
		timeStr = DefaultAppointmentTime
	}

	combined := dateStr + " " + timeStr
	for _, dl := range dateLayouts {
		for _, tl := range timeLayouts {
			if t, err := time.Parse(dl+" "+tl, combined); err == nil {
				return t, nil
			}
		}
	}

	// The date cell may already carry its own time component.
	for _, dl := range dateLayouts {
		for _, tl := range timeLayouts {
			if t, err := time.Parse(dl+" "+tl, dateStr); err == nil {
				return t, nil
			}
		}
	}

	return time.Time{}, validationErr("Invalid date/time format")
}

// ParseDate parses a bare date, used leniently for fields such as date
// of birth where failure should not reject the row.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, dl := range dateLayouts {
		if t, err := time.Parse(dl, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
