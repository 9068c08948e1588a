package counseling

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sekolah-adp/sekolah-adp/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const recordColumns = `id, student_id, counselor_id, topic, notes, held_at, created_at`

// Create stores a new counseling session record.
func (r *Repository) Create(ctx context.Context, rec SessionRecord) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO counseling_records (id, student_id, counselor_id, topic, notes, held_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())`,
		rec.ID, rec.StudentID, rec.CounselorID, rec.Topic, rec.Notes, rec.HeldAt)
	return err
}

// ListByStudent returns counseling history for one student, newest first.
func (r *Repository) ListByStudent(ctx context.Context, studentID string) ([]SessionRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+recordColumns+` FROM counseling_records
		 WHERE student_id = $1
		 ORDER BY held_at DESC`,
		studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.CounselorID,
			&rec.Topic, &rec.Notes, &rec.HeldAt, &rec.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// Get returns a single record by id.
func (r *Repository) Get(ctx context.Context, id string) (SessionRecord, error) {
	var rec SessionRecord
	err := r.pool.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM counseling_records WHERE id = $1`, id).
		Scan(&rec.ID, &rec.StudentID, &rec.CounselorID,
			&rec.Topic, &rec.Notes, &rec.HeldAt, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return SessionRecord{}, shared.ErrNotFound
	}
	if err != nil {
		return SessionRecord{}, err
	}
	return rec, nil
}
