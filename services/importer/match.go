package importer

import (
	"enrollmate-backend/lib/textutil"

	"github.com/antzucaro/matchr"
)

// correlation below this is considered noise rather than a match
const minSemesterSimilarity = 0.75

// MatchSemester resolves a user supplied name like "fall 2026" against
// the semesters the API returned. Exact normalized matches win, then
// the most similar name above the noise floor.
func MatchSemester(name string, semesters []Semester) (Semester, bool) {
	normalized := textutil.NormalizeName(name)

	for _, semester := range semesters {
		if textutil.NormalizeName(semester.Name) == normalized {
			return semester, true
		}
	}

	var best Semester
	var bestSimilarity float64
	for _, semester := range semesters {
		similarity := matchr.JaroWinkler(
			normalized,
			textutil.NormalizeName(semester.Name),
			false,
		)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = semester
		}
	}

	if bestSimilarity < minSemesterSimilarity {
		return Semester{}, false
	}
	return best, true
}
