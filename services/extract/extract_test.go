package extract

import (
	"context"
	"strings"
	"testing"
	"time"

	"enrollmate-backend/lib/courseparse"
	"enrollmate-backend/lib/scrapers/courselist"
	"enrollmate-backend/lib/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	cleanup := telemetry.SetupForTesting("test:services/extract")
	defer cleanup()
	m.Run()
}

func TestValidate(t *testing.T) {
	now := time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		input    courseparse.Course
		expected courseparse.Course
		dropped  bool
	}{
		{
			name:    "missing name",
			input:   courseparse.Course{CourseCode: "CIS 2103"},
			dropped: true,
		},
		{
			name:    "whitespace only code",
			input:   courseparse.Course{CourseCode: "  ", CourseName: "Database Systems"},
			dropped: true,
		},
		{
			name: "defaults applied",
			input: courseparse.Course{
				CourseCode:      "CIS 2103",
				CourseName:      " Database   Systems ",
				SectionGroup:    0,
				EnrolledCurrent: -2,
			},
			expected: courseparse.Course{
				CourseCode:   "CIS 2103",
				CourseName:   "Database Systems",
				SectionGroup: 1,
				Schedule:     "TBA",
				Status:       courseparse.StatusUnknown,
				ExtractedAt:  now,
			},
		},
		{
			name: "tba schedule canonicalized",
			input: courseparse.Course{
				CourseCode: "CIS 2103",
				CourseName: "Database Systems",
				Schedule:   "n/a",
			},
			expected: courseparse.Course{
				CourseCode:   "CIS 2103",
				CourseName:   "Database Systems",
				SectionGroup: 1,
				Schedule:     "TBA",
				Status:       courseparse.StatusUnknown,
				ExtractedAt:  now,
			},
		},
		{
			name: "status computed",
			input: courseparse.Course{
				CourseCode:      "CIS 2103",
				CourseName:      "Database Systems",
				SectionGroup:    2,
				Schedule:        "MWF 10:00 AM - 11:30 AM",
				EnrolledCurrent: 25,
				EnrolledTotal:   30,
				Instructor:      " Dr.  Smith ",
				Room:            "LB201",
			},
			expected: courseparse.Course{
				CourseCode:      "CIS 2103",
				CourseName:      "Database Systems",
				SectionGroup:    2,
				Schedule:        "MWF 10:00 AM - 11:30 AM",
				EnrolledCurrent: 25,
				EnrolledTotal:   30,
				Instructor:      "Dr. Smith",
				Room:            "LB201",
				Status:          courseparse.StatusOK,
				ExtractedAt:     now,
			},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			course, ok := Validate(test.input, now)
			if test.dropped {
				require.False(t, ok)
				return
			}
			require.True(t, ok)
			diff := cmp.Diff(test.expected, course)
			if diff != "" {
				t.Fatalf("(-expected +got):\n%s", diff)
			}
		})
	}
}

func TestDedup(t *testing.T) {
	a := courseparse.Course{CourseCode: "CIS 2103", SectionGroup: 1, Schedule: "TBA", Instructor: "Dr. Smith"}
	b := courseparse.Course{CourseCode: "CIS 2103", SectionGroup: 1, Schedule: "TBA", Instructor: "Dr. Jones"}
	c := courseparse.Course{CourseCode: "CIS 2203", SectionGroup: 1, Schedule: "TBA"}

	out := Dedup([]courseparse.Course{a, b, c})
	require.Len(t, out, 2)
	// the first occurrence survives
	require.Equal(t, "Dr. Smith", out[0].Instructor)
	require.Equal(t, "CIS 2203", out[1].CourseCode)

	// idempotent
	again := Dedup(out)
	diff := cmp.Diff(out, again, cmpopts.EquateEmpty())
	if diff != "" {
		t.Fatalf("dedup is not idempotent:\n%s", diff)
	}
}

func TestSort(t *testing.T) {
	courses := []courseparse.Course{
		{CourseCode: "MATH 1120", SectionGroup: 1},
		{CourseCode: "CIS 2103", SectionGroup: 2},
		{CourseCode: "CIS 2103", SectionGroup: 1},
	}
	Sort(courses)
	require.Equal(t, "CIS 2103", courses[0].CourseCode)
	require.Equal(t, 1, courses[0].SectionGroup)
	require.Equal(t, 2, courses[1].SectionGroup)
	require.Equal(t, "MATH 1120", courses[2].CourseCode)
}

const duplicateRowsMarkup = `<html><body><table>
<tr>
	<td>CIS 2103</td><td>Database Systems</td><td></td>
	<td>MWF 10:00 AM - 11:30 AM</td><td>25/30</td>
	<td>Dr. Smith</td><td>LB201</td>
</tr>
<tr>
	<td>CIS 2103</td><td>Database Systems</td><td></td>
	<td>MWF 10:00 AM - 11:30 AM</td><td>25/30</td>
	<td>Dr. Smith</td><td>LB201</td>
</tr>
</table></body></html>`

func TestScrapeHTMLEndToEnd(t *testing.T) {
	result, err := ScrapeHTML(
		context.Background(),
		"https://portal.example.edu/courses",
		strings.NewReader(duplicateRowsMarkup),
	)
	require.NoError(t, err)
	require.Equal(t, courselist.LayoutGenericTable, result.Layout)
	require.Equal(t, 1, result.CourseCount)
	require.Len(t, result.Courses, 1)

	course := result.Courses[0]
	require.Equal(t, "CIS 2103", course.CourseCode)
	require.Equal(t, "Database Systems", course.CourseName)
	require.Equal(t, 1, course.SectionGroup)
	require.Equal(t, "MWF 10:00 AM - 11:30 AM", course.Schedule)
	require.Equal(t, 25, course.EnrolledCurrent)
	require.Equal(t, 30, course.EnrolledTotal)
	require.Equal(t, courseparse.StatusOK, course.Status)
	require.False(t, course.ExtractedAt.IsZero())
}

func TestScrapeHTMLMalformedRow(t *testing.T) {
	result, err := ScrapeHTML(
		context.Background(),
		"https://portal.example.edu/courses",
		strings.NewReader(`<html><body><table>
			<tr><td>CIS 2103</td><td>Database Systems</td></tr>
		</table></body></html>`),
	)
	require.NoError(t, err)
	require.Equal(t, courselist.LayoutGenericTable, result.Layout)
	require.Empty(t, result.Courses)
	require.Equal(t, 0, result.CourseCount)
}
