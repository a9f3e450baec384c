// Package seed produces synthetic advocates for local and test environments.
package seed

import (
	"sync"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/noah-isme/advocates-api/internal/models"
)

// Specialties lists the tags assigned to generated advocates.
var Specialties = []string{
	"Bipolar",
	"LGBTQ",
	"Medication/Prescribing",
	"Suicide History/Attempts",
	"General Mental Health (anxiety, depression, stress, grief, life transitions)",
	"Men's issues",
	"Relationship Issues (family, friends, couple, etc)",
	"Trauma & PTSD",
	"Personality disorders",
	"Personal growth",
	"Substance use/abuse",
	"Pediatrics",
	"Women's issues (post-partum, infertility, family planning)",
	"Chronic pain",
	"Weight loss & nutrition",
	"Eating disorders",
	"Diabetic Diet and nutrition",
	"Coaching (leadership, career, academic and wellness)",
	"Life coaching",
	"Obsessive-compulsive disorders",
	"Neuropsychological evaluations & testing (ADHD testing)",
	"Attention and Hyperactivity (ADHD)",
	"Sleep issues",
	"Schizophrenia and psychotic disorders",
	"Learning disorders",
	"Domestic abuse",
}

// Degrees lists the credentials assigned to generated advocates.
var Degrees = []string{"MD", "PhD", "MSW", "PsyD", "NP"}

const (
	minSpecialties = 2
	maxSpecialties = 5
	maxYears       = 40
	phoneFloor     = 2000000000
	phoneSpan      = 8000000000
)

// Generator builds random advocates. It is safe for concurrent use.
type Generator struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
}

// NewGenerator returns a generator. A zero seed draws a random one.
func NewGenerator(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Advocates returns count new advocates without ids or timestamps.
func (g *Generator) Advocates(count int) []models.Advocate {
	if count <= 0 {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]models.Advocate, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, models.Advocate{
			FirstName:         g.faker.FirstName(),
			LastName:          g.faker.LastName(),
			City:              g.faker.City(),
			Degree:            g.faker.RandomString(Degrees),
			Specialties:       g.specialties(),
			YearsOfExperience: g.faker.Number(0, maxYears),
			PhoneNumber:       phoneFloor + int64(g.faker.Uint64()%phoneSpan),
		})
	}
	return out
}

func (g *Generator) specialties() []string {
	shuffled := append([]string(nil), Specialties...)
	g.faker.ShuffleStrings(shuffled)
	return shuffled[:g.faker.Number(minSpecialties, maxSpecialties)]
}
