package roster

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for teaching
// relationships.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TeachesClass reports whether the teacher has any assignment in the class.
func (r *Repository) TeachesClass(ctx context.Context, teacherID, classID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM teacher_assignments
			WHERE teacher_id = $1 AND class_id = $2
		)`, teacherID, classID).Scan(&exists)
	return exists, err
}

// TeachesStudent reports whether the teacher teaches the student, either
// through a subject assignment in the student's class or as the homeroom
// teacher of that class.
func (r *Repository) TeachesStudent(ctx context.Context, teacherID, studentID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1
			FROM class_enrollments e
			JOIN teacher_assignments a ON a.class_id = e.class_id
			WHERE e.student_id = $2 AND a.teacher_id = $1
		) OR EXISTS (
			SELECT 1
			FROM class_enrollments e
			JOIN teachers t ON t.homeroom_class_id = e.class_id
			WHERE e.student_id = $2 AND t.id = $1
		)`, teacherID, studentID).Scan(&exists)
	return exists, err
}

// TaughtSubjectIDs returns the distinct subject ids the teacher is
// assigned to teach.
func (r *Repository) TaughtSubjectIDs(ctx context.Context, teacherID string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT subject_id FROM teacher_assignments WHERE teacher_id = $1 ORDER BY subject_id`,
		teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// ListAssignments returns all assignments for a teacher ordered by class.
func (r *Repository) ListAssignments(ctx context.Context, teacherID string) ([]TeacherAssignment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, teacher_id, class_id, subject_id, term_id, created_at
		 FROM teacher_assignments WHERE teacher_id = $1 ORDER BY class_id, subject_id`,
		teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var assignments []TeacherAssignment
	for rows.Next() {
		var a TeacherAssignment
		if err := rows.Scan(&a.ID, &a.TeacherID, &a.ClassID, &a.SubjectID, &a.TermID, &a.CreatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assignments, nil
}

// CreateAssignment inserts a teacher assignment.
func (r *Repository) CreateAssignment(ctx context.Context, a TeacherAssignment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO teacher_assignments (id, teacher_id, class_id, subject_id, term_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, now())`,
		a.ID, a.TeacherID, a.ClassID, a.SubjectID, a.TermID)
	return err
}

// DeleteAssignment removes a teacher assignment by id.
func (r *Repository) DeleteAssignment(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM teacher_assignments WHERE id = $1`, id)
	return err
}
