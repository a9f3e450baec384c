package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// Advocate is a member of the advisory roster. Records are created by bulk
// seeding and are read-only afterwards.
type Advocate struct {
	ID                int64          `db:"id" json:"id"`
	FirstName         string         `db:"first_name" json:"firstName" validate:"required"`
	LastName          string         `db:"last_name" json:"lastName" validate:"required"`
	City              string         `db:"city" json:"city" validate:"required"`
	Degree            string         `db:"degree" json:"degree" validate:"required"`
	Specialties       pq.StringArray `db:"specialties" json:"specialties" validate:"min=1,dive,required"`
	YearsOfExperience int            `db:"years_of_experience" json:"yearsOfExperience" validate:"gte=0"`
	PhoneNumber       int64          `db:"phone_number" json:"phoneNumber" validate:"gte=1000000000,lte=9999999999"`
	CreatedAt         time.Time      `db:"created_at" json:"createdAt"`
}

// AdvocateFilter encapsulates the search filters. All present filters are
// ANDed; zero values mean "no constraint".
type AdvocateFilter struct {
	Query     string `json:"q,omitempty"`
	City      string `json:"city,omitempty"`
	Degree    string `json:"degree,omitempty"`
	Specialty string `json:"specialty,omitempty"`
	MinYears  *int   `json:"minYears,omitempty"`
	MaxYears  *int   `json:"maxYears,omitempty"`
}

// Normalized returns a copy with surrounding whitespace trimmed from the text
// filters.
func (f AdvocateFilter) Normalized() AdvocateFilter {
	f.Query = strings.TrimSpace(f.Query)
	f.City = strings.TrimSpace(f.City)
	f.Degree = strings.TrimSpace(f.Degree)
	f.Specialty = strings.TrimSpace(f.Specialty)
	return f
}
