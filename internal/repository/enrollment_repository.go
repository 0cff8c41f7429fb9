package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AijiY/StudentManagement/internal/models"
	"github.com/AijiY/StudentManagement/pkg/database"
)

const enrollmentColumns = "id, student_id, course_id, start_date, end_due_date"

// EnrollmentRepository manages student to course enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// FindEnrollment fetches an enrollment by ID.
func (r *EnrollmentRepository) FindEnrollment(ctx context.Context, id string) (*models.Enrollment, error) {
	query := r.db.Rebind("SELECT " + enrollmentColumns + " FROM enrollments WHERE id = ?")
	var enrollment models.Enrollment
	if err := database.Conn(ctx, r.db).GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// ListEnrollments returns all enrollments in registration order.
func (r *EnrollmentRepository) ListEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	query := "SELECT " + enrollmentColumns + " FROM enrollments ORDER BY created_at, id"
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &enrollments, query); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// ListEnrollmentsByStudent returns the enrollments of one student.
func (r *EnrollmentRepository) ListEnrollmentsByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	query := r.db.Rebind("SELECT " + enrollmentColumns + " FROM enrollments WHERE student_id = ? ORDER BY created_at, id")
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &enrollments, query, studentID); err != nil {
		return nil, fmt.Errorf("list enrollments by student: %w", err)
	}
	return enrollments, nil
}

// InsertEnrollment stores an enrollment and assigns its ID.
func (r *EnrollmentRepository) InsertEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	const query = `INSERT INTO enrollments (` + enrollmentColumns + `)
        VALUES (:id, :student_id, :course_id, :start_date, :end_due_date)`
	if _, err := database.Conn(ctx, r.db).NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}
	return nil
}

// UpdateEnrollment rewrites the schedule of an enrollment.
func (r *EnrollmentRepository) UpdateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	const query = `UPDATE enrollments SET start_date = :start_date, end_due_date = :end_due_date WHERE id = :id`
	res, err := database.Conn(ctx, r.db).NamedExecContext(ctx, query, enrollment)
	if err != nil {
		return fmt.Errorf("update enrollment: %w", err)
	}
	return requireAffected(res)
}
