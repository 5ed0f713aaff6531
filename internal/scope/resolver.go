package scope

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/omcar04/clave-take-home/internal/plan"
)

// Context is the per-request reference data every downstream stage shares:
// the canonical location names and the inclusive date bounds of stored
// data. It is what keeps the model from inventing out-of-range dates or
// misspelled locations undetected.
type Context struct {
	Locations []string
	MinDate   string
	MaxDate   string
}

// Hints are signals derived from the raw question text alone. Absent
// signals are zero values, never errors.
type Hints struct {
	Locations []string
	Metric    plan.Metric
	Date      string
}

const maxDetectedLocations = 5

var revenueCues = []string{"revenue", "gross", "total"}

var monthNumbers = map[string]int{
	"jan": 1, "january": 1,
	"feb": 2, "february": 2,
	"mar": 3, "march": 3,
	"apr": 4, "april": 4,
	"may": 5,
	"jun": 6, "june": 6,
	"jul": 7, "july": 7,
	"aug": 8, "august": 8,
	"sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10,
	"nov": 11, "november": 11,
	"dec": 12, "december": 12,
}

const monthAlt = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

var (
	reISODate  = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	reMonthDay = regexp.MustCompile(`(?i)\b(` + monthAlt + `)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	reDayMonth = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(` + monthAlt + `)\b`)
)

// Resolve derives bounded query context from the question text and the
// known reference data. Pure: no side effects, no error conditions.
func Resolve(text string, ref Context) Hints {
	lower := strings.ToLower(text)

	var h Hints
	h.Locations = detectLocations(lower, ref.Locations)
	h.Metric = detectMetric(lower)
	h.Date = detectDate(text, ref.MaxDate)
	return h
}

// detectLocations does case-insensitive substring matching against the
// canonical names, deduplicated in reference order, capped at five.
func detectLocations(lower string, known []string) []string {
	var found []string
	for _, name := range known {
		if strings.Contains(lower, strings.ToLower(name)) {
			found = append(found, name)
			if len(found) == maxDetectedLocations {
				break
			}
		}
	}
	return found
}

func detectMetric(lower string) plan.Metric {
	for _, cue := range revenueCues {
		if strings.Contains(lower, cue) {
			return plan.MetricRevenue
		}
	}
	return plan.MetricSales
}

// detectDate finds a single calendar date in free text: an exact ISO date,
// or a month-name + day pattern in either order mapped onto the year of
// the data's max date. Invalid calendar dates yield "".
func detectDate(text, maxDate string) string {
	if m := reISODate.FindString(text); m != "" {
		return validDate(m)
	}

	year := 0
	if len(maxDate) >= 4 {
		year, _ = strconv.Atoi(maxDate[:4])
	}
	if year == 0 {
		return ""
	}

	if m := reMonthDay.FindStringSubmatch(text); m != nil {
		return buildDate(year, m[1], m[2])
	}
	if m := reDayMonth.FindStringSubmatch(text); m != nil {
		return buildDate(year, m[2], m[1])
	}
	return ""
}

func buildDate(year int, monthWord, dayDigits string) string {
	month, ok := monthNumbers[strings.ToLower(monthWord)]
	if !ok {
		return ""
	}
	day, err := strconv.Atoi(dayDigits)
	if err != nil {
		return ""
	}
	return validDate(fmt.Sprintf("%04d-%02d-%02d", year, month, day))
}

func validDate(s string) string {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return ""
	}
	return s
}
