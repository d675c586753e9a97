package template

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DefaultDateFormat is used by {time} without a format and by formdate defaults.
const DefaultDateFormat = "YYYY-MM-DD"

// dateTokens is the token table, longest token first. Alternation in
// tokenPattern is leftmost-first, so this order gives longer tokens
// precedence over their prefixes (MMMM before MMM before MM before M).
var dateTokens = []string{
	"YYYY", "MMMM", "dddd",
	"MMM", "ddd",
	"YY", "MM", "DD", "HH", "hh", "mm", "ss",
	"M", "D", "H", "h", "m", "s", "A", "a",
}

var tokenPattern = regexp.MustCompile(joinAlternatives(dateTokens))

func joinAlternatives(tokens []string) string {
	pattern := ""
	for i, tok := range tokens {
		if i > 0 {
			pattern += "|"
		}
		pattern += regexp.QuoteMeta(tok)
	}
	return pattern
}

// FormatDate renders t through the date-format mini-language.
//
// Every token is replaced wherever it appears in format, including inside
// words (a literal "A" becomes AM/PM). Replaced values are never scanned
// again, so "MMMM" yields "March" rather than a corrupted month name.
func FormatDate(t time.Time, format string) string {
	return tokenPattern.ReplaceAllStringFunc(format, func(tok string) string {
		return dateToken(t, tok)
	})
}

func dateToken(t time.Time, tok string) string {
	hour12 := t.Hour() % 12
	if hour12 == 0 {
		hour12 = 12
	}

	switch tok {
	case "YYYY":
		return strconv.Itoa(t.Year())
	case "YY":
		return fmt.Sprintf("%02d", t.Year()%100)
	case "MMMM":
		return t.Month().String()
	case "MMM":
		return t.Month().String()[:3]
	case "MM":
		return fmt.Sprintf("%02d", int(t.Month()))
	case "M":
		return strconv.Itoa(int(t.Month()))
	case "DD":
		return fmt.Sprintf("%02d", t.Day())
	case "D":
		return strconv.Itoa(t.Day())
	case "dddd":
		return t.Weekday().String()
	case "ddd":
		return t.Weekday().String()[:3]
	case "HH":
		return fmt.Sprintf("%02d", t.Hour())
	case "H":
		return strconv.Itoa(t.Hour())
	case "hh":
		return fmt.Sprintf("%02d", hour12)
	case "h":
		return strconv.Itoa(hour12)
	case "mm":
		return fmt.Sprintf("%02d", t.Minute())
	case "m":
		return strconv.Itoa(t.Minute())
	case "ss":
		return fmt.Sprintf("%02d", t.Second())
	case "s":
		return strconv.Itoa(t.Second())
	case "A":
		if t.Hour() >= 12 {
			return "PM"
		}
		return "AM"
	case "a":
		if t.Hour() >= 12 {
			return "pm"
		}
		return "am"
	default:
		return tok
	}
}
