package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/AijiY/StudentManagement/internal/models"
	appErrors "github.com/AijiY/StudentManagement/pkg/errors"
)

// EntityStore is the persistence surface the enrollment workflows run on.
// Find methods report absence with sql.ErrNoRows, and Insert methods assign
// the record ID.
type EntityStore interface {
	FindStudent(ctx context.Context, id string) (*models.Student, error)
	ListStudents(ctx context.Context, excludeDeleted bool) ([]models.Student, error)
	InsertStudent(ctx context.Context, student *models.Student) error
	UpdateStudent(ctx context.Context, student *models.Student) error
	MarkStudentDeleted(ctx context.Context, id string) error

	FindCourse(ctx context.Context, id string) (*models.Course, error)
	ListCourses(ctx context.Context) ([]models.Course, error)
	InsertCourse(ctx context.Context, course *models.Course) error

	FindEnrollment(ctx context.Context, id string) (*models.Enrollment, error)
	ListEnrollments(ctx context.Context) ([]models.Enrollment, error)
	ListEnrollmentsByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error)
	InsertEnrollment(ctx context.Context, enrollment *models.Enrollment) error
	UpdateEnrollment(ctx context.Context, enrollment *models.Enrollment) error

	FindStatus(ctx context.Context, id string) (*models.EnrollmentStatusRecord, error)
	FindStatusByEnrollment(ctx context.Context, enrollmentID string) (*models.EnrollmentStatusRecord, error)
	ListStatuses(ctx context.Context, status *models.EnrollmentStatus) ([]models.EnrollmentStatusRecord, error)
	InsertStatus(ctx context.Context, record *models.EnrollmentStatusRecord) error
	UpdateStatusInProgress(ctx context.Context, enrollmentID string) error
	UpdateStatusCompleted(ctx context.Context, enrollmentID string) error

	// WithinTx runs fn as one unit of work. Calls made with the context
	// handed to fn either all persist or none do.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

func lookupError(err error, notFound, failure string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return internalError(err, failure)
}

// internalError passes application errors through and wraps anything else.
func internalError(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func validationError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}
