package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AijiY/StudentManagement/internal/models"
	"github.com/AijiY/StudentManagement/pkg/database"
)

// CourseRepository manages persistence for courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindCourse fetches a course by ID.
func (r *CourseRepository) FindCourse(ctx context.Context, id string) (*models.Course, error) {
	query := r.db.Rebind("SELECT id, name, price FROM courses WHERE id = ?")
	var course models.Course
	if err := database.Conn(ctx, r.db).GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// ListCourses returns every course ordered by name.
func (r *CourseRepository) ListCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &courses, "SELECT id, name, price FROM courses ORDER BY name, id"); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// InsertCourse stores a course and assigns its ID.
func (r *CourseRepository) InsertCourse(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	const query = `INSERT INTO courses (id, name, price) VALUES (:id, :name, :price)`
	if _, err := database.Conn(ctx, r.db).NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	return nil
}
