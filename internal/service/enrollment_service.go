package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/AijiY/StudentManagement/internal/models"
	appErrors "github.com/AijiY/StudentManagement/pkg/errors"
)

// studentViewPrefix namespaces every cached student read model.
const studentViewPrefix = "students:"

// EnrollmentService drives the enrollment status lifecycle.
type EnrollmentService struct {
	store   EntityStore
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewEnrollmentService constructs the enrollment service. cache and metrics may be nil.
func NewEnrollmentService(store EntityStore, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{store: store, cache: cache, metrics: metrics, logger: logger, now: time.Now}
}

// RegisterEnrollment enrolls an existing student in a course with a
// tentative status.
func (s *EnrollmentService) RegisterEnrollment(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	var enrollment *models.Enrollment
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		enrollment, err = enroll(ctx, s.store, studentID, courseID, today(s.now))
		return err
	})
	if err != nil {
		return nil, internalError(err, "failed to register enrollment")
	}

	s.afterWrite(ctx)
	s.metrics.RecordRegistration()
	s.logger.Info("enrollment registered",
		zap.String("enrollment_id", enrollment.ID),
		zap.String("student_id", studentID),
		zap.String("course_id", courseID))
	return enrollment, nil
}

// AdvanceToInProgress moves a tentative enrollment to in progress and
// reschedules it to start today.
func (s *EnrollmentService) AdvanceToInProgress(ctx context.Context, enrollmentID string) (*models.EnrollmentWithStatus, error) {
	var result *models.EnrollmentWithStatus
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		record, err := s.store.FindStatusByEnrollment(ctx, enrollmentID)
		if err != nil {
			return lookupError(err, "enrollment status not found", "failed to load enrollment status")
		}
		switch record.Status {
		case models.EnrollmentStatusTentative:
		case models.EnrollmentStatusInProgress:
			return appErrors.Clone(appErrors.ErrConflict, "enrollment already in progress")
		case models.EnrollmentStatusCompleted:
			return appErrors.Clone(appErrors.ErrConflict, "enrollment already completed")
		default:
			return appErrors.Clone(appErrors.ErrConflict, "invalid enrollment status")
		}

		enrollment, err := s.store.FindEnrollment(ctx, enrollmentID)
		if err != nil {
			return lookupError(err, "enrollment not found", "failed to load enrollment")
		}

		if err := s.store.UpdateStatusInProgress(ctx, enrollmentID); err != nil {
			return transitionError(err)
		}
		enrollment.Schedule(today(s.now))
		if err := s.store.UpdateEnrollment(ctx, enrollment); err != nil {
			return lookupError(err, "enrollment not found", "failed to update enrollment")
		}

		result = &models.EnrollmentWithStatus{Enrollment: *enrollment, Status: models.EnrollmentStatusInProgress}
		return nil
	})
	if err != nil {
		return nil, internalError(err, "failed to start enrollment")
	}

	s.afterTransition(ctx, enrollmentID, models.EnrollmentStatusInProgress)
	s.attachCourseName(ctx, &result.Enrollment)
	return result, nil
}

// AdvanceToCompleted moves an in progress enrollment to completed. Dates are
// left unchanged.
func (s *EnrollmentService) AdvanceToCompleted(ctx context.Context, enrollmentID string) (*models.EnrollmentWithStatus, error) {
	var result *models.EnrollmentWithStatus
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		record, err := s.store.FindStatusByEnrollment(ctx, enrollmentID)
		if err != nil {
			return lookupError(err, "enrollment status not found", "failed to load enrollment status")
		}
		switch record.Status {
		case models.EnrollmentStatusInProgress:
		case models.EnrollmentStatusCompleted:
			return appErrors.Clone(appErrors.ErrConflict, "enrollment already completed")
		case models.EnrollmentStatusTentative:
			return appErrors.Clone(appErrors.ErrConflict, "tentative enrollments cannot be completed")
		default:
			return appErrors.Clone(appErrors.ErrConflict, "invalid enrollment status")
		}

		enrollment, err := s.store.FindEnrollment(ctx, enrollmentID)
		if err != nil {
			return lookupError(err, "enrollment not found", "failed to load enrollment")
		}

		if err := s.store.UpdateStatusCompleted(ctx, enrollmentID); err != nil {
			return transitionError(err)
		}

		result = &models.EnrollmentWithStatus{Enrollment: *enrollment, Status: models.EnrollmentStatusCompleted}
		return nil
	})
	if err != nil {
		return nil, internalError(err, "failed to complete enrollment")
	}

	s.afterTransition(ctx, enrollmentID, models.EnrollmentStatusCompleted)
	s.attachCourseName(ctx, &result.Enrollment)
	return result, nil
}

// ListEnrollments returns every enrollment joined with its status, optionally
// restricted to one status.
func (s *EnrollmentService) ListEnrollments(ctx context.Context, status *models.EnrollmentStatus) ([]models.EnrollmentWithStatus, error) {
	enrollments, err := s.store.ListEnrollments(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list enrollments")
	}
	statuses, err := s.store.ListStatuses(ctx, status)
	if err != nil {
		return nil, internalError(err, "failed to list enrollment statuses")
	}

	byEnrollment := make(map[string]models.EnrollmentStatus, len(statuses))
	for _, st := range statuses {
		byEnrollment[st.EnrollmentID] = st.Status
	}
	kept := make([]models.Enrollment, 0, len(enrollments))
	for _, e := range enrollments {
		if _, ok := byEnrollment[e.ID]; ok {
			kept = append(kept, e)
		}
	}
	if err := attachCourseNames(ctx, s.store, kept); err != nil {
		return nil, err
	}

	result := make([]models.EnrollmentWithStatus, 0, len(kept))
	for _, e := range kept {
		result = append(result, models.EnrollmentWithStatus{Enrollment: e, Status: byEnrollment[e.ID]})
	}
	return result, nil
}

// GetEnrollment returns one enrollment with its status.
func (s *EnrollmentService) GetEnrollment(ctx context.Context, id string) (*models.EnrollmentWithStatus, error) {
	enrollment, err := s.store.FindEnrollment(ctx, id)
	if err != nil {
		return nil, lookupError(err, "enrollment not found", "failed to load enrollment")
	}
	record, err := s.store.FindStatusByEnrollment(ctx, id)
	if err != nil {
		return nil, lookupError(err, "enrollment status not found", "failed to load enrollment status")
	}
	course, err := s.store.FindCourse(ctx, enrollment.CourseID)
	if err != nil {
		return nil, lookupError(err, "course not found", "failed to load course")
	}
	enrollment.CourseName = course.Name
	return &models.EnrollmentWithStatus{Enrollment: *enrollment, Status: record.Status}, nil
}

func (s *EnrollmentService) afterTransition(ctx context.Context, enrollmentID string, status models.EnrollmentStatus) {
	s.afterWrite(ctx)
	s.metrics.RecordTransition(status)
	s.logger.Info("enrollment status changed",
		zap.String("enrollment_id", enrollmentID),
		zap.Stringer("status", status))
}

// attachCourseName resolves the display name of a transitioned enrollment.
// The transition has committed by then, so a missing course only leaves the
// name empty.
func (s *EnrollmentService) attachCourseName(ctx context.Context, enrollment *models.Enrollment) {
	course, err := s.store.FindCourse(ctx, enrollment.CourseID)
	if err != nil {
		s.logger.Warn("course name unresolved",
			zap.String("enrollment_id", enrollment.ID),
			zap.String("course_id", enrollment.CourseID),
			zap.Error(err))
		return
	}
	enrollment.CourseName = course.Name
}

func (s *EnrollmentService) afterWrite(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, studentViewPrefix)
}

// enroll validates both foreign keys, then writes a tentative enrollment
// scheduled one provisioning buffer after day.
func enroll(ctx context.Context, store EntityStore, studentID, courseID string, day time.Time) (*models.Enrollment, error) {
	enrollment := &models.Enrollment{StudentID: studentID, CourseID: courseID}
	enrollment.Schedule(day.Add(models.ProvisioningBuffer))

	course, err := store.FindCourse(ctx, courseID)
	if err != nil {
		return nil, lookupError(err, "course not found", "failed to load course")
	}
	if _, err := store.FindStudent(ctx, studentID); err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}

	if err := store.InsertEnrollment(ctx, enrollment); err != nil {
		return nil, internalError(err, "failed to insert enrollment")
	}
	status := &models.EnrollmentStatusRecord{EnrollmentID: enrollment.ID, Status: models.EnrollmentStatusTentative}
	if err := store.InsertStatus(ctx, status); err != nil {
		return nil, internalError(err, "failed to insert enrollment status")
	}

	enrollment.CourseName = course.Name
	return enrollment, nil
}

func transitionError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrConflict, "enrollment status changed concurrently")
	}
	return internalError(err, "failed to update enrollment status")
}

// today is the current UTC calendar day.
func today(now func() time.Time) time.Time {
	return now().UTC().Truncate(24 * time.Hour)
}
