package attendance

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListByClassDate returns attendance entries for a class on a date.
func (r *Repository) ListByClassDate(ctx context.Context, classID string, date time.Time) ([]Entry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, student_id, class_id, date, status, marked_by, marked_at
		 FROM attendance_entries
		 WHERE class_id = $1 AND date = $2
		 ORDER BY student_id`,
		classID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.StudentID, &e.ClassID, &e.Date,
			&e.Status, &e.MarkedBy, &e.MarkedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// ClassesMissingEntries returns homeroom classes with no attendance
// marked for the given date, together with the homeroom teacher's email.
func (r *Repository) ClassesMissingEntries(ctx context.Context, date time.Time) ([]DigestRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT t.homeroom_class_id, t.email
		 FROM teachers t
		 WHERE t.homeroom_class_id IS NOT NULL AND t.is_active
		   AND NOT EXISTS (
			SELECT 1 FROM attendance_entries e
			WHERE e.class_id = t.homeroom_class_id AND e.date = $1
		 )
		 ORDER BY t.homeroom_class_id`,
		date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []DigestRow
	for rows.Next() {
		var d DigestRow
		if err := rows.Scan(&d.ClassID, &d.TeacherEmail); err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// Mark inserts or replaces an attendance entry for (student, date).
func (r *Repository) Mark(ctx context.Context, e Entry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO attendance_entries (id, student_id, class_id, date, status, marked_by, marked_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())
		 ON CONFLICT (student_id, date)
		 DO UPDATE SET status = EXCLUDED.status, marked_by = EXCLUDED.marked_by, marked_at = now()`,
		e.ID, e.StudentID, e.ClassID, e.Date, e.Status, e.MarkedBy)
	return err
}
