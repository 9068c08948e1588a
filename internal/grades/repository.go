package grades

import (
	"context"
	"errors"
	"time"

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

// ListByClass returns grades for a class/subject/term combination.
func (r *Repository) ListByClass(ctx context.Context, classID, subjectID, termID string) ([]Grade, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, student_id, class_id, subject_id, term_id, score, recorded_by, recorded_at
		 FROM grades
		 WHERE class_id = $1 AND subject_id = $2 AND term_id = $3
		 ORDER BY student_id`,
		classID, subjectID, termID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Grade
	for rows.Next() {
		var g Grade
		if err := rows.Scan(&g.ID, &g.StudentID, &g.ClassID, &g.SubjectID,
			&g.TermID, &g.Score, &g.RecordedBy, &g.RecordedAt); err != nil {
			return nil, err
		}
		list = append(list, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// Upsert inserts or replaces a grade for (student, subject, term).
func (r *Repository) Upsert(ctx context.Context, g Grade) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO grades (id, student_id, class_id, subject_id, term_id, score, recorded_by, recorded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		 ON CONFLICT (student_id, subject_id, term_id)
		 DO UPDATE SET score = EXCLUDED.score, recorded_by = EXCLUDED.recorded_by, recorded_at = now()`,
		g.ID, g.StudentID, g.ClassID, g.SubjectID, g.TermID, g.Score, g.RecordedBy)
	return err
}

// CreateExport records a pending export request.
func (r *Repository) CreateExport(ctx context.Context, exp Export) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO grade_exports (id, requested_by, class_id, subject_id, term_id, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())`,
		exp.ID, exp.RequestedBy, exp.ClassID, exp.SubjectID, exp.TermID, exp.Status)
	return err
}

// GetExport fetches an export request by id.
func (r *Repository) GetExport(ctx context.Context, id string) (Export, error) {
	var exp Export
	err := r.pool.QueryRow(ctx,
		`SELECT id, requested_by, class_id, subject_id, term_id, status, COALESCE(file_path, ''), created_at, completed_at
		 FROM grade_exports WHERE id = $1`, id).
		Scan(&exp.ID, &exp.RequestedBy, &exp.ClassID, &exp.SubjectID, &exp.TermID,
			&exp.Status, &exp.FilePath, &exp.CreatedAt, &exp.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Export{}, shared.ErrNotFound
		}
		return Export{}, err
	}
	return exp, nil
}

// FinishExport marks an export done or failed.
func (r *Repository) FinishExport(ctx context.Context, id, status, filePath string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE grade_exports
		 SET status = $2, file_path = NULLIF($3, ''), completed_at = $4
		 WHERE id = $1`,
		id, status, filePath, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
