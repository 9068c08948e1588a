package students

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

const studentColumns = `id, name, class_id, parent_name, parent_phone, parent_email, created_at, updated_at`

// ListByClass returns all students enrolled in a class.
func (r *Repository) ListByClass(ctx context.Context, classID string) ([]Student, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+studentColumns+` FROM students WHERE class_id = $1`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Student
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.ID, &st.Name, &st.ClassID, &st.ParentName,
			&st.ParentPhone, &st.ParentEmail, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// Get fetches a student by id.
func (r *Repository) Get(ctx context.Context, id string) (Student, error) {
	var st Student
	err := r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1`, id).
		Scan(&st.ID, &st.Name, &st.ClassID, &st.ParentName,
			&st.ParentPhone, &st.ParentEmail, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Student{}, shared.ErrNotFound
		}
		return Student{}, err
	}
	return st, nil
}

// UpdateInfo persists editable student fields.
func (r *Repository) UpdateInfo(ctx context.Context, id string, update InfoUpdate) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE students
		 SET name = $2, parent_name = $3, parent_phone = $4, parent_email = $5, updated_at = now()
		 WHERE id = $1`,
		id, update.Name, update.ParentName, update.ParentPhone, update.ParentEmail)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
