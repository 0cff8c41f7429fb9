package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/AijiY/StudentManagement/internal/models"
	appErrors "github.com/AijiY/StudentManagement/pkg/errors"
)

type courseStore interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	InsertCourse(ctx context.Context, course *models.Course) error
}

// CourseService manages the course catalogue.
type CourseService struct {
	store     courseStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(store courseStore, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{store: store, validator: validate, logger: logger}
}

// RegisterCourse stores a new course.
func (s *CourseService) RegisterCourse(ctx context.Context, req models.RegisterCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid course payload")
	}
	course := &models.Course{Name: req.Name, Price: req.Price}
	if err := s.store.InsertCourse(ctx, course); err != nil {
		return nil, internalError(err, "failed to register course")
	}
	s.logger.Info("course registered", zap.String("course_id", course.ID), zap.String("name", course.Name))
	return course, nil
}

// ListCourses returns the whole catalogue.
func (s *CourseService) ListCourses(ctx context.Context) ([]models.Course, error) {
	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list courses")
	}
	return courses, nil
}

// attachCourseNames fills CourseName on every enrollment. An enrollment that
// points at an unknown course is reported as NotFound.
func attachCourseNames(ctx context.Context, store courseStore, enrollments []models.Enrollment) error {
	if len(enrollments) == 0 {
		return nil
	}
	courses, err := store.ListCourses(ctx)
	if err != nil {
		return internalError(err, "failed to list courses")
	}
	names := make(map[string]string, len(courses))
	for _, c := range courses {
		names[c.ID] = c.Name
	}
	for i := range enrollments {
		name, ok := names[enrollments[i].CourseID]
		if !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		enrollments[i].CourseName = name
	}
	return nil
}
