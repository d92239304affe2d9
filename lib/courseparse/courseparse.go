// Package courseparse turns the loosely structured text found on
// course listing pages into typed values. Every function here is total:
// malformed input produces a safe default, never an error.
package courseparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"enrollmate-backend/lib/textutil"
)

type Status string

const (
	StatusOK        Status = "OK"
	StatusFull      Status = "FULL"
	StatusAvailable Status = "AVAILABLE"
	StatusAtRisk    Status = "AT-RISK"
	StatusUnknown   Status = "UNKNOWN"
)

// Course is the canonical record handed to the import transport. The
// JSON field names are part of the wire contract with the scheduling
// service.
type Course struct {
	CourseCode      string    `json:"courseCode"`
	CourseName      string    `json:"courseName"`
	SectionGroup    int       `json:"sectionGroup"`
	Schedule        string    `json:"schedule"`
	EnrolledCurrent int       `json:"enrolledCurrent"`
	EnrolledTotal   int       `json:"enrolledTotal"`
	Instructor      string    `json:"instructor"`
	Room            string    `json:"room"`
	Status          Status    `json:"status"`
	ExtractedAt     time.Time `json:"extractedAt"`
}

// Key is the identity used for deduplication. Two records sharing it
// describe the same section.
func (c Course) Key() string {
	return fmt.Sprintf("%s|%d|%s", c.CourseCode, c.SectionGroup, c.Schedule)
}

type Enrollment struct {
	Enrolled int
	Total    int
}

var courseCodeRegex = regexp.MustCompile(`([A-Z]{2,4})\s*(\d{4})`)

// ExtractCourseCode normalizes text like "CIS2103" or "CIS  2103 - 001"
// into "CIS 2103". Text without a recognizable code comes back trimmed,
// empty input comes back empty.
func ExtractCourseCode(text string) string {
	if text == "" {
		return ""
	}
	match := courseCodeRegex.FindStringSubmatch(text)
	if match == nil {
		return strings.TrimSpace(text)
	}
	return match[1] + " " + match[2]
}

var enrollmentRegex = regexp.MustCompile(`(\d+)\s*/\s*(\d+)`)

// ParseEnrollment reads "25/30" style ratios. Anything else is 0/0.
func ParseEnrollment(text string) Enrollment {
	match := enrollmentRegex.FindStringSubmatch(text)
	if match == nil {
		return Enrollment{}
	}
	enrolled, _ := strconv.Atoi(match[1])
	total, _ := strconv.Atoi(match[2])
	return Enrollment{Enrolled: enrolled, Total: total}
}

var groupRegex = regexp.MustCompile(`(?i)group\s*(\d+)`)
var sectionSuffixRegex = regexp.MustCompile(`-\s*(\d+)`)

// ExtractSectionGroup pulls a section number out of text like
// "CIS 2103 - Group 2" or "CIS 2103-001". Defaults to 1.
func ExtractSectionGroup(text string) int {
	if text == "" {
		return 1
	}
	match := groupRegex.FindStringSubmatch(text)
	if match == nil {
		match = sectionSuffixRegex.FindStringSubmatch(text)
	}
	if match == nil {
		return 1
	}
	num, err := strconv.Atoi(match[1])
	if err != nil || num == 0 {
		return 1
	}
	return num
}

// DetermineStatus derives the status enum from an enrollment
// snapshot. The ratio threshold for AT-RISK is 85% full.
func DetermineStatus(current, total int) Status {
	if current < 0 || total < 0 || total == 0 {
		return StatusUnknown
	}
	if current >= total {
		return StatusFull
	}
	if current == 0 {
		return StatusAvailable
	}
	if float64(current)/float64(total) >= 0.85 {
		return StatusAtRisk
	}
	return StatusOK
}

// CleanText collapses whitespace runs and trims the ends.
func CleanText(text string) string {
	return textutil.Clean(text)
}
