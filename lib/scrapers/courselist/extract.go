package courselist

import (
	"regexp"
	"strings"

	"enrollmate-backend/lib/courseparse"
	"enrollmate-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

type extractFunc func(doc *goquery.Document) []courseparse.Course

// the set of layouts is closed, so dispatch is a fixed table rather
// than any kind of plugin registry
var extractors = map[Layout]extractFunc{
	LayoutCanvas:       extractCanvas,
	LayoutBanner:       extractBanner,
	LayoutGenericTable: extractGenericTable,
	LayoutGeneric:      extractGeneric,
}

// Extract walks the document with the strategy for the given layout
// and returns raw candidate records. Candidates are not validated,
// deduplicated or stamped here.
func Extract(layout Layout, doc *goquery.Document) []courseparse.Course {
	extract, ok := extractors[layout]
	if !ok {
		extract = extractGeneric
	}
	return extract(doc)
}

var canvasSelectors = []string{
	".course-listing-table tbody tr",
	".course-row",
	"[data-course-id]",
}

var bannerSelectors = []string{
	".course-row",
	`[class*="course"]`,
	"[data-course]",
}

func extractCanvas(doc *goquery.Document) []courseparse.Course {
	return extractRowGroup(doc, canvasSelectors)
}

func extractBanner(doc *goquery.Document) []courseparse.Course {
	return extractRowGroup(doc, bannerSelectors)
}

// first selector producing any matches wins
func extractRowGroup(doc *goquery.Document, selectors []string) []courseparse.Course {
	for _, selector := range selectors {
		rows := doc.Find(selector)
		if rows.Length() == 0 {
			continue
		}

		var courses []courseparse.Course
		rows.Each(func(_ int, row *goquery.Selection) {
			course, ok := extractFromRow(row)
			if ok {
				courses = append(courses, course)
			}
		})
		return courses
	}
	return nil
}

func extractGenericTable(doc *goquery.Document) []courseparse.Course {
	var courses []courseparse.Course
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			course, ok := extractFromRow(row)
			if ok {
				courses = append(courses, course)
			}
		})
	})
	return courses
}

var genericSelectors = []string{
	`.course, [class*="course-item"], [class*="course-section"]`,
	`[data-course], [data-section], .section, .class`,
	`.course-card, .course-box, .course-container`,
}

func extractGeneric(doc *goquery.Document) []courseparse.Course {
	for _, selector := range genericSelectors {
		elements := doc.Find(selector)
		if elements.Length() == 0 {
			continue
		}

		var courses []courseparse.Course
		elements.Each(func(_ int, element *goquery.Selection) {
			course, ok := extractFromElement(element)
			if ok {
				courses = append(courses, course)
			}
		})
		return courses
	}
	return nil
}

const cellSelector = `td, div[class*="cell"], [class*="column"]`

// extractFromRow maps the cells of a row-like element onto a
// candidate: 0 code, 1 name, 3 schedule, 4 enrollment, 5 instructor,
// 6 room. Rows with fewer than 3 cells or without both code and name
// are discarded.
func extractFromRow(row *goquery.Selection) (courseparse.Course, bool) {
	cells := row.Find(cellSelector)
	if cells.Length() < 3 {
		return courseparse.Course{}, false
	}

	rawCode := htmlutil.SelectionText(cells.Eq(0))
	name := htmlutil.SelectionText(cells.Eq(1))
	if rawCode == "" || name == "" {
		return courseparse.Course{}, false
	}

	schedule := "TBA"
	if cells.Length() > 3 {
		schedule = htmlutil.SelectionText(cells.Eq(3))
	}
	var enrollment courseparse.Enrollment
	if cells.Length() > 4 {
		enrollment = courseparse.ParseEnrollment(htmlutil.SelectionText(cells.Eq(4)))
	}
	instructor := ""
	if cells.Length() > 5 {
		instructor = htmlutil.SelectionText(cells.Eq(5))
	}
	room := ""
	if cells.Length() > 6 {
		room = htmlutil.SelectionText(cells.Eq(6))
	}

	return courseparse.Course{
		CourseCode:      courseparse.ExtractCourseCode(rawCode),
		CourseName:      name,
		SectionGroup:    courseparse.ExtractSectionGroup(rawCode),
		Schedule:        schedule,
		EnrolledCurrent: enrollment.Enrolled,
		EnrolledTotal:   enrollment.Total,
		Instructor:      instructor,
		Room:            room,
	}, true
}

var looseCodeRegex = regexp.MustCompile(`[A-Z]{2,4}\s?\d{4}`)
var looseTimeRegex = regexp.MustCompile(`(?i)(M|T|W|Th|F)+\s*\d{1,2}:\d{2}\s*(AM|PM)?`)
var looseEnrollmentRegex = regexp.MustCompile(`(\d+)\s*/\s*(\d+)`)

// extractFromElement scans an unstructured element's rendered text. A
// candidate needs a course code and, on the following line, a name;
// schedule and enrollment are optional.
func extractFromElement(element *goquery.Selection) (courseparse.Course, bool) {
	if len(element.Nodes) == 0 {
		return courseparse.Course{}, false
	}
	text := htmlutil.BlockText(element.Nodes[0])

	rawCode := looseCodeRegex.FindString(text)
	if rawCode == "" {
		return courseparse.Course{}, false
	}

	name := ""
	lines := nonBlankLines(text)
	for i, line := range lines {
		if strings.Contains(line, rawCode) {
			if i+1 < len(lines) {
				name = lines[i+1]
			}
			break
		}
	}
	if name == "" {
		return courseparse.Course{}, false
	}

	schedule := looseTimeRegex.FindString(text)
	if schedule == "" {
		schedule = "TBA"
	}
	enrollment := courseparse.ParseEnrollment(looseEnrollmentRegex.FindString(text))

	return courseparse.Course{
		CourseCode:      courseparse.ExtractCourseCode(rawCode),
		CourseName:      name,
		SectionGroup:    courseparse.ExtractSectionGroup(rawCode),
		Schedule:        schedule,
		EnrolledCurrent: enrollment.Enrolled,
		EnrolledTotal:   enrollment.Total,
	}, true
}

func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
