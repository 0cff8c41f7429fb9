package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/AijiY/StudentManagement/internal/models"
	appErrors "github.com/AijiY/StudentManagement/pkg/errors"
)

// StudentService handles student registration and the student detail views.
type StudentService struct {
	store     EntityStore
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewStudentService constructs the student service. cache and metrics may be nil.
func NewStudentService(store EntityStore, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{store: store, cache: cache, metrics: metrics, validator: validate, logger: logger, now: time.Now}
}

// SearchStudents lists student details. Deleted students are skipped unless
// requested. With a status filter only matching enrollments are shown and
// students without one are left out.
func (s *StudentService) SearchStudents(ctx context.Context, filter models.StudentSearchFilter) ([]models.StudentDetail, error) {
	key := searchCacheKey(filter)
	var cached []models.StudentDetail
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}
	gen := s.cache.Generation()

	students, err := s.store.ListStudents(ctx, !filter.IncludeDeleted)
	if err != nil {
		return nil, internalError(err, "failed to list students")
	}
	enrollments, err := s.store.ListEnrollments(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list enrollments")
	}
	if err := attachCourseNames(ctx, s.store, enrollments); err != nil {
		return nil, err
	}

	var details []models.StudentDetail
	if filter.Status != nil {
		statuses, err := s.store.ListStatuses(ctx, filter.Status)
		if err != nil {
			return nil, internalError(err, "failed to list enrollment statuses")
		}
		details = JoinStudentsWithEnrollmentsFilteredByStatus(students, enrollments, statuses)
	} else {
		details = JoinStudentsWithEnrollments(students, enrollments)
	}

	_ = s.cache.SetIfCurrent(ctx, key, details, 0, gen)
	return details, nil
}

// SearchStudentDetailByID returns one student with all of its enrollments.
func (s *StudentService) SearchStudentDetailByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	key := detailCacheKey(id)
	var cached models.StudentDetail
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}
	gen := s.cache.Generation()

	detail, err := s.loadDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.cache.SetIfCurrent(ctx, key, detail, 0, gen)
	return detail, nil
}

// RegisterStudent creates a student together with a tentative enrollment in
// req.CourseID. Nothing is persisted when any step fails.
func (s *StudentService) RegisterStudent(ctx context.Context, req models.RegisterStudentRequest) (*models.StudentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}

	var detail *models.StudentDetail
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		student := &models.Student{}
		req.StudentProfile.Apply(student)
		if err := s.store.InsertStudent(ctx, student); err != nil {
			return internalError(err, "failed to insert student")
		}
		enrollment, err := enroll(ctx, s.store, student.ID, req.CourseID, today(s.now))
		if err != nil {
			return err
		}
		detail = &models.StudentDetail{Student: *student, Enrollments: []models.Enrollment{*enrollment}}
		return nil
	})
	if err != nil {
		return nil, internalError(err, "failed to register student")
	}

	s.invalidate(ctx)
	s.metrics.RecordRegistration()
	s.logger.Info("student registered",
		zap.String("student_id", detail.Student.ID),
		zap.String("course_id", req.CourseID))
	return detail, nil
}

// UpdateStudent replaces the profile of an existing student. The deleted
// flag, enrollments and statuses are not touched.
func (s *StudentService) UpdateStudent(ctx context.Context, id string, req models.UpdateStudentRequest) (*models.StudentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		student, err := s.store.FindStudent(ctx, id)
		if err != nil {
			return lookupError(err, "student not found", "failed to load student")
		}
		req.StudentProfile.Apply(student)
		if err := s.store.UpdateStudent(ctx, student); err != nil {
			return lookupError(err, "student not found", "failed to update student")
		}
		return nil
	})
	if err != nil {
		return nil, internalError(err, "failed to update student")
	}

	s.invalidate(ctx)
	s.logger.Info("student updated", zap.String("student_id", id))
	return s.loadDetail(ctx, id)
}

// DeleteStudent flags a student as deleted. Deleting twice is a conflict.
func (s *StudentService) DeleteStudent(ctx context.Context, id string) (*models.DeleteResult, error) {
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		student, err := s.store.FindStudent(ctx, id)
		if err != nil {
			return lookupError(err, "student not found", "failed to load student")
		}
		if student.Deleted {
			return appErrors.Clone(appErrors.ErrConflict, "student already deleted")
		}
		if err := s.store.MarkStudentDeleted(ctx, id); err != nil {
			return lookupError(err, "student not found", "failed to delete student")
		}
		return nil
	})
	if err != nil {
		return nil, internalError(err, "failed to delete student")
	}

	s.invalidate(ctx)
	s.logger.Info("student deleted", zap.String("student_id", id))
	return &models.DeleteResult{ID: id, Deleted: true}, nil
}

func (s *StudentService) loadDetail(ctx context.Context, id string) (*models.StudentDetail, error) {
	student, err := s.store.FindStudent(ctx, id)
	if err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}
	enrollments, err := s.store.ListEnrollmentsByStudent(ctx, id)
	if err != nil {
		return nil, internalError(err, "failed to list enrollments")
	}
	if enrollments == nil {
		enrollments = []models.Enrollment{}
	}
	if err := attachCourseNames(ctx, s.store, enrollments); err != nil {
		return nil, err
	}
	return &models.StudentDetail{Student: *student, Enrollments: enrollments}, nil
}

func (s *StudentService) invalidate(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, studentViewPrefix)
}

func searchCacheKey(filter models.StudentSearchFilter) string {
	status := "all"
	if filter.Status != nil {
		status = filter.Status.String()
	}
	return fmt.Sprintf("%ssearch:%s:%t", studentViewPrefix, status, filter.IncludeDeleted)
}

func detailCacheKey(id string) string {
	return studentViewPrefix + "detail:" + id
}
