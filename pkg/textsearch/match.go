package textsearch

import (
	"strconv"
	"strings"

	"github.com/noah-isme/advocates-api/internal/models"
)

// Term is a search term prepared once and matched against many candidates.
type Term struct {
	norm string
	stem string
}

// NewTerm normalizes and stems raw search input.
func NewTerm(raw string) Term {
	n := Normalize(raw)
	return Term{norm: n, stem: Stem(n)}
}

// Empty reports whether the term matches everything.
func (t Term) Empty() bool {
	return t.norm == ""
}

// MatchesField reports whether candidate contains the term, either as plain
// normalized text or after stemming both sides.
func (t Term) MatchesField(candidate string) bool {
	n := Normalize(candidate)
	if strings.Contains(n, t.norm) {
		return true
	}
	return strings.Contains(Stem(n), t.stem)
}

// MatchesAdvocate checks names, city, degree and every specialty, and finally
// the years of experience as digits against the unstemmed term.
func (t Term) MatchesAdvocate(a models.Advocate) bool {
	if t.Empty() {
		return true
	}
	for _, field := range []string{a.FirstName, a.LastName, a.City, a.Degree} {
		if t.MatchesField(field) {
			return true
		}
	}
	for _, s := range a.Specialties {
		if t.MatchesField(s) {
			return true
		}
	}
	return strings.Contains(strconv.Itoa(a.YearsOfExperience), t.norm)
}

// Filter returns the advocates matching raw, preserving order. A blank term
// returns the input unchanged.
func Filter(advocates []models.Advocate, raw string) []models.Advocate {
	term := NewTerm(strings.TrimSpace(raw))
	if term.Empty() {
		return advocates
	}
	out := make([]models.Advocate, 0, len(advocates))
	for _, a := range advocates {
		if term.MatchesAdvocate(a) {
			out = append(out, a)
		}
	}
	return out
}
