package repository

import (
	"fmt"
	"strings"

	"github.com/noah-isme/advocates-api/internal/models"
)

// advocateDocument is the text-search vector over names, city, degree and
// specialties. It must match the expression behind advocates_document_idx.
const advocateDocument = "advocate_document(a.first_name, a.last_name, a.city, a.degree, a.specialties)"

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// advocatePredicate accumulates AND-ed SQL conditions with positional args.
type advocatePredicate struct {
	conditions []string
	args       []interface{}
}

// bind appends a positional argument and returns its placeholder.
func (p *advocatePredicate) bind(value interface{}) string {
	p.args = append(p.args, value)
	return fmt.Sprintf("$%d", len(p.args))
}

func (p *advocatePredicate) add(condition string) {
	p.conditions = append(p.conditions, condition)
}

// where renders the WHERE body. Without conditions it is always true.
func (p *advocatePredicate) where() string {
	if len(p.conditions) == 0 {
		return "1=1"
	}
	return strings.Join(p.conditions, " AND ")
}

// buildAdvocatePredicate translates a filter set into SQL conditions.
func buildAdvocatePredicate(filter models.AdvocateFilter) *advocatePredicate {
	filter = filter.Normalized()
	p := &advocatePredicate{}

	if filter.Query != "" {
		p.add(fmt.Sprintf("%s @@ plainto_tsquery('english', %s)", advocateDocument, p.bind(filter.Query)))
	}
	if filter.City != "" {
		p.add(fmt.Sprintf("LOWER(a.city) LIKE %s", p.bind(containsPattern(filter.City))))
	}
	if filter.Degree != "" {
		p.add(fmt.Sprintf("LOWER(a.degree) LIKE %s", p.bind(containsPattern(filter.Degree))))
	}
	if filter.Specialty != "" {
		// Stemmed search misses multi-word phrases the substring check catches.
		text := p.bind(filter.Specialty)
		pattern := p.bind(containsPattern(filter.Specialty))
		p.add(fmt.Sprintf("(%s @@ plainto_tsquery('english', %s) OR EXISTS (SELECT 1 FROM unnest(a.specialties) AS s(name) WHERE LOWER(s.name) LIKE %s))",
			advocateDocument, text, pattern))
	}
	if filter.MinYears != nil {
		p.add(fmt.Sprintf("a.years_of_experience >= %s", p.bind(*filter.MinYears)))
	}
	if filter.MaxYears != nil {
		p.add(fmt.Sprintf("a.years_of_experience <= %s", p.bind(*filter.MaxYears)))
	}

	return p
}

// containsPattern builds a lowercase LIKE pattern treating the input literally.
func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(value)) + "%"
}
