package courseparse

import (
	"regexp"
	"strings"
)

// ScheduleParse is the structured view of a schedule string. It is
// derived on demand, the raw string is what gets persisted.
type ScheduleParse struct {
	Days      []string
	StartTime string
	EndTime   string
	// "12h", "24h" or empty when no time range was found
	Format string
	IsTBA  bool
}

// two-letter codes first so "Th" doesn't decay into "T"
var dayRegex = regexp.MustCompile(`Th|Su|M|T|W|F|S`)

var timeRangeRegex = regexp.MustCompile(
	`(\d{1,2}):(\d{2})\s*(AM|PM|am|pm)?\s*[-–]\s*(\d{1,2}):(\d{2})\s*(AM|PM|am|pm)?`)

var firstDigitRegex = regexp.MustCompile(`\d`)

// ParseScheduleTime reads strings like "MWF 10:00 AM - 11:30 AM" or
// "TTh 14:00-15:30". Only the first time range is captured; the
// original pages never carry more than one. "TBA" and "N/A" in any
// case mean the schedule is unannounced.
func ParseScheduleTime(schedule string) ScheduleParse {
	trimmed := strings.TrimSpace(schedule)
	if trimmed == "" ||
		strings.EqualFold(trimmed, "TBA") ||
		strings.EqualFold(trimmed, "N/A") {
		return ScheduleParse{IsTBA: true}
	}

	result := ScheduleParse{}

	// day codes are only looked for ahead of the first digit,
	// otherwise the M in "AM"/"PM" would count as a Monday
	dayPortion := trimmed
	if loc := firstDigitRegex.FindStringIndex(trimmed); loc != nil {
		dayPortion = trimmed[:loc[0]]
	}
	seen := map[string]bool{}
	for _, day := range dayRegex.FindAllString(dayPortion, -1) {
		if seen[day] {
			continue
		}
		seen[day] = true
		result.Days = append(result.Days, day)
	}

	match := timeRangeRegex.FindStringSubmatch(trimmed)
	if match == nil {
		return result
	}
	startHour, startMin, startPeriod := match[1], match[2], match[3]
	endHour, endMin, endPeriod := match[4], match[5], match[6]

	if startPeriod != "" || endPeriod != "" {
		result.Format = "12h"
		if startPeriod == "" {
			startPeriod = "AM"
		}
		if endPeriod == "" {
			endPeriod = "PM"
		}
		result.StartTime = startHour + ":" + startMin + " " + startPeriod
		result.EndTime = endHour + ":" + endMin + " " + endPeriod
	} else {
		result.Format = "24h"
		result.StartTime = startHour + ":" + startMin
		result.EndTime = endHour + ":" + endMin
	}

	return result
}
