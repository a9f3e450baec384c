package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/advocates-api/internal/models"
	"github.com/noah-isme/advocates-api/pkg/pagination"
)

const advocateColumns = "a.id, a.first_name, a.last_name, a.city, a.degree, a.specialties, a.years_of_experience, a.phone_number, a.created_at"

// AdvocateRepository manages persistence for advocate records.
type AdvocateRepository struct {
	db *sqlx.DB
}

// NewAdvocateRepository constructs an AdvocateRepository.
func NewAdvocateRepository(db *sqlx.DB) *AdvocateRepository {
	return &AdvocateRepository{db: db}
}

// Search returns up to fetch advocates matching filter, newest first, strictly
// after the given cursor when one is provided.
func (r *AdvocateRepository) Search(ctx context.Context, filter models.AdvocateFilter, after *pagination.Cursor, fetch int) ([]models.Advocate, error) {
	p := buildAdvocatePredicate(filter)
	if after != nil {
		createdAt := p.bind(after.CreatedAt)
		id := p.bind(after.ID)
		p.add(fmt.Sprintf("(a.created_at < %s OR (a.created_at = %s AND a.id < %s))", createdAt, createdAt, id))
	}
	if fetch < 1 {
		fetch = 1
	}

	query := fmt.Sprintf("SELECT %s FROM advocates a WHERE %s ORDER BY a.created_at DESC, a.id DESC LIMIT %d",
		advocateColumns, p.where(), fetch)

	advocates := make([]models.Advocate, 0, fetch)
	if err := r.db.SelectContext(ctx, &advocates, query, p.args...); err != nil {
		return nil, fmt.Errorf("search advocates: %w", err)
	}
	return advocates, nil
}

// InsertBatch stores advocates in a single statement and returns the number
// of rows written. CreatedAt defaults to now, truncated to milliseconds.
func (r *AdvocateRepository) InsertBatch(ctx context.Context, advocates []models.Advocate) (int, error) {
	if len(advocates) == 0 {
		return 0, nil
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	for i := range advocates {
		if advocates[i].CreatedAt.IsZero() {
			advocates[i].CreatedAt = now
		} else {
			advocates[i].CreatedAt = advocates[i].CreatedAt.UTC().Truncate(time.Millisecond)
		}
		if advocates[i].Specialties == nil {
			advocates[i].Specialties = []string{}
		}
	}

	const query = `INSERT INTO advocates (first_name, last_name, city, degree, specialties, years_of_experience, phone_number, created_at)
        VALUES (:first_name, :last_name, :city, :degree, :specialties, :years_of_experience, :phone_number, :created_at)`
	res, err := r.db.NamedExecContext(ctx, query, advocates)
	if err != nil {
		return 0, fmt.Errorf("insert advocates: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return len(advocates), nil
	}
	return int(affected), nil
}

// Migrate creates the advocates table, search function and indexes.
func (r *AdvocateRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, advocateSchema); err != nil {
		return fmt.Errorf("migrate advocates: %w", err)
	}
	return nil
}

// Truncate removes every advocate and resets the id sequence.
func (r *AdvocateRepository) Truncate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "TRUNCATE TABLE advocates RESTART IDENTITY"); err != nil {
		return fmt.Errorf("truncate advocates: %w", err)
	}
	return nil
}

// Ping checks store connectivity.
func (r *AdvocateRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
