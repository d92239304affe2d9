// Package extract runs the full scrape pipeline: layout detection,
// candidate extraction, validation and deduplication.
package extract

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"enrollmate-backend/lib/courseparse"
	"enrollmate-backend/lib/scrapers/courselist"
	"enrollmate-backend/lib/telemetry"
	"enrollmate-backend/lib/timezone"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("enrollmate.services.extract")

// Result is what a single page scrape produces. Courses are validated,
// deduplicated and in first-seen order.
type Result struct {
	Courses     []courseparse.Course `json:"courses"`
	Layout      courselist.Layout    `json:"pageType"`
	ScrapedAt   time.Time            `json:"scrapedAt"`
	CourseCount int                  `json:"courseCount"`
}

// ScrapeHTML parses markup from a reader and scrapes it. A document
// that cannot be parsed at all is the single error path of the
// pipeline; everything downstream is total.
func ScrapeHTML(ctx context.Context, pageUrl string, r io.Reader) (Result, error) {
	ctx, span := tracer.Start(ctx, "ScrapeHTML")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse page html")
		return Result{}, err
	}
	return ScrapeDocument(ctx, pageUrl, doc), nil
}

// ScrapeDocument runs detection, extraction, validation and dedup over
// an already parsed document.
func ScrapeDocument(ctx context.Context, pageUrl string, doc *goquery.Document) Result {
	ctx, span := tracer.Start(ctx, "ScrapeDocument")
	defer span.End()

	layout := courselist.DetectLayout(pageUrl, doc)
	span.SetAttributes(attribute.String("layout", string(layout)))

	raw := courselist.Extract(layout, doc)
	slog.DebugContext(ctx, "extracted raw candidates", "layout", layout, "count", len(raw))

	now := timezone.Now()
	var courses []courseparse.Course
	for _, candidate := range raw {
		course, ok := Validate(candidate, now)
		if !ok {
			continue
		}
		courses = append(courses, course)
	}
	courses = Dedup(courses)

	slog.InfoContext(
		ctx, "scraped page",
		"url", pageUrl,
		"layout", layout,
		"courses", len(courses),
	)

	return Result{
		Courses:     courses,
		Layout:      layout,
		ScrapedAt:   now,
		CourseCount: len(courses),
	}
}

// Validate turns a raw candidate into a well formed record. Candidates
// without both a course code and a name are dropped; every other flaw
// is coerced to a safe default.
func Validate(course courseparse.Course, now time.Time) (courseparse.Course, bool) {
	course.CourseCode = courseparse.CleanText(course.CourseCode)
	course.CourseName = courseparse.CleanText(course.CourseName)
	if course.CourseCode == "" || course.CourseName == "" {
		return courseparse.Course{}, false
	}

	course.Schedule = courseparse.CleanText(course.Schedule)
	if courseparse.ParseScheduleTime(course.Schedule).IsTBA {
		course.Schedule = "TBA"
	}
	course.Instructor = courseparse.CleanText(course.Instructor)
	course.Room = courseparse.CleanText(course.Room)

	if course.SectionGroup < 1 {
		course.SectionGroup = 1
	}
	if course.EnrolledCurrent < 0 {
		course.EnrolledCurrent = 0
	}
	if course.EnrolledTotal < 0 {
		course.EnrolledTotal = 0
	}

	course.Status = courseparse.DetermineStatus(course.EnrolledCurrent, course.EnrolledTotal)
	course.ExtractedAt = now

	return course, true
}

// Dedup removes records sharing the composite key, keeping the first
// occurrence. The pass is stable and idempotent.
func Dedup(courses []courseparse.Course) []courseparse.Course {
	seen := map[string]bool{}
	var out []courseparse.Course
	for _, course := range courses {
		key := course.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, course)
	}
	return out
}

// Sort orders records by course code, then section group. It is an
// explicit step, the pipeline itself preserves first-seen order.
func Sort(courses []courseparse.Course) {
	slices.SortFunc(courses, func(a, b courseparse.Course) int {
		if c := strings.Compare(a.CourseCode, b.CourseCode); c != 0 {
			return c
		}
		return a.SectionGroup - b.SectionGroup
	})
}
