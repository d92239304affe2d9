package courseparse

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestExtractCourseCode(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "CIS 2103", expected: "CIS 2103"},
		{input: "CIS2103", expected: "CIS 2103"},
		{input: "CIS  2103 - 001", expected: "CIS 2103"},
		{input: "MATH1120 Calculus I", expected: "MATH 1120"},
		// pattern is case sensitive, lowercase falls through trimmed
		{input: "cis 2103", expected: "cis 2103"},
		{input: "  Database Systems  ", expected: "Database Systems"},
		{input: "", expected: ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, ExtractCourseCode(test.input), "input: %q", test.input)
	}
}

func TestParseEnrollment(t *testing.T) {
	testCases := []struct {
		input    string
		expected Enrollment
	}{
		{input: "25/30", expected: Enrollment{Enrolled: 25, Total: 30}},
		{input: "25 / 30", expected: Enrollment{Enrolled: 25, Total: 30}},
		{input: "Enrolled: 12/120", expected: Enrollment{Enrolled: 12, Total: 120}},
		{input: "garbage", expected: Enrollment{}},
		{input: "", expected: Enrollment{}},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, ParseEnrollment(test.input), "input: %q", test.input)
	}
}

func TestExtractSectionGroup(t *testing.T) {
	testCases := []struct {
		input    string
		expected int
	}{
		{input: "CIS 2103 - Group 2", expected: 2},
		{input: "group 14", expected: 14},
		{input: "CIS 2103-001", expected: 1},
		{input: "CIS 2103-003", expected: 3},
		{input: "CIS 2103", expected: 1},
		{input: "", expected: 1},
		// zero is not a valid group
		{input: "Group 0", expected: 1},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, ExtractSectionGroup(test.input), "input: %q", test.input)
	}
}

func TestDetermineStatus(t *testing.T) {
	testCases := []struct {
		current  int
		total    int
		expected Status
	}{
		{current: 30, total: 30, expected: StatusFull},
		{current: 31, total: 30, expected: StatusFull},
		{current: 0, total: 30, expected: StatusAvailable},
		// 26/30 is 86.6% full
		{current: 26, total: 30, expected: StatusAtRisk},
		{current: 25, total: 30, expected: StatusOK},
		{current: 5, total: 0, expected: StatusUnknown},
		{current: -1, total: 30, expected: StatusUnknown},
	}

	for _, test := range testCases {
		require.Equal(
			t, test.expected,
			DetermineStatus(test.current, test.total),
			"%d/%d", test.current, test.total,
		)
	}
}

func TestParseScheduleTime(t *testing.T) {
	testCases := []struct {
		input    string
		expected ScheduleParse
	}{
		{
			input: "MWF 10:00 AM - 11:30 AM",
			expected: ScheduleParse{
				Days:      []string{"M", "W", "F"},
				StartTime: "10:00 AM",
				EndTime:   "11:30 AM",
				Format:    "12h",
			},
		},
		{
			input: "TTh 14:00 - 15:30",
			expected: ScheduleParse{
				Days:      []string{"T", "Th"},
				StartTime: "14:00",
				EndTime:   "15:30",
				Format:    "24h",
			},
		},
		{
			input: "Su 9:00AM-10:15AM",
			expected: ScheduleParse{
				Days:      []string{"Su"},
				StartTime: "9:00 AM",
				EndTime:   "10:15 AM",
				Format:    "12h",
			},
		},
		{
			// a single period marker forces 12h, the missing end
			// marker defaults to PM
			input: "MW 10:00 AM - 11:30",
			expected: ScheduleParse{
				Days:      []string{"M", "W"},
				StartTime: "10:00 AM",
				EndTime:   "11:30 PM",
				Format:    "12h",
			},
		},
		{
			// days only, no time range
			input: "MWF",
			expected: ScheduleParse{
				Days: []string{"M", "W", "F"},
			},
		},
		{input: "TBA", expected: ScheduleParse{IsTBA: true}},
		{input: "tba", expected: ScheduleParse{IsTBA: true}},
		{input: "N/A", expected: ScheduleParse{IsTBA: true}},
		{input: "", expected: ScheduleParse{IsTBA: true}},
	}

	for _, test := range testCases {
		diff := cmp.Diff(test.expected, ParseScheduleTime(test.input))
		if diff != "" {
			t.Fatalf("input %q: (-expected +got):\n%s", test.input, diff)
		}
	}
}

func TestParseScheduleTimeTBAEquivalence(t *testing.T) {
	require.Equal(t, ParseScheduleTime("TBA"), ParseScheduleTime("tba"))
	require.Equal(t, ParseScheduleTime("TBA"), ParseScheduleTime(""))
}

func TestCleanText(t *testing.T) {
	require.Equal(t, "Database Systems", CleanText("  Database \n\t Systems  "))
	require.Equal(t, "", CleanText("   "))
}

func TestCourseKey(t *testing.T) {
	a := Course{CourseCode: "CIS 2103", SectionGroup: 1, Schedule: "TBA", Instructor: "Dr. Smith"}
	b := Course{CourseCode: "CIS 2103", SectionGroup: 1, Schedule: "TBA", Instructor: "Dr. Jones"}
	c := Course{CourseCode: "CIS 2103", SectionGroup: 2, Schedule: "TBA"}
	require.Equal(t, a.Key(), b.Key())
	require.NotEqual(t, a.Key(), c.Key())
}
