package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AijiY/StudentManagement/internal/models"
)

func TestCourseRepositoryListAndFind(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, price FROM courses ORDER BY name, id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price"}).
			AddRow("c-1", "Java", 300000).
			AddRow("c-2", "AWS", 200000))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, price FROM courses WHERE id = ?")).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price"}).AddRow("c-1", "Java", 300000))

	courses, err := repo.ListCourses(context.Background())
	require.NoError(t, err)
	assert.Len(t, courses, 2)

	course, err := repo.FindCourse(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, models.Course{ID: "c-1", Name: "Java", Price: 300000}, *course)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryInsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("INSERT INTO courses").
		WithArgs(sqlmock.AnyArg(), "Design", 150000).
		WillReturnResult(sqlmock.NewResult(1, 1))

	course := &models.Course{Name: "Design", Price: 150000}
	require.NoError(t, repo.InsertCourse(context.Background(), course))
	assert.NotEmpty(t, course.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
