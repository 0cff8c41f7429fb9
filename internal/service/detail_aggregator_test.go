package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AijiY/StudentManagement/internal/models"
)

func TestJoinStudentsWithEnrollments(t *testing.T) {
	students := []models.Student{{ID: "s1"}, {ID: "s2"}}
	enrollments := []models.Enrollment{
		{ID: "e1", StudentID: "s1"},
		{ID: "e2", StudentID: "s1"},
		{ID: "orphan", StudentID: "s9"},
	}

	details := JoinStudentsWithEnrollments(students, enrollments)
	require.Len(t, details, 2)
	assert.Equal(t, "s1", details[0].Student.ID)
	require.Len(t, details[0].Enrollments, 2)
	assert.Equal(t, "e1", details[0].Enrollments[0].ID)
	assert.Equal(t, "e2", details[0].Enrollments[1].ID)
	assert.Equal(t, "s2", details[1].Student.ID)
	assert.NotNil(t, details[1].Enrollments)
	assert.Empty(t, details[1].Enrollments)
}

func TestJoinStudentsWithEnrollmentsFilteredByStatus(t *testing.T) {
	students := []models.Student{{ID: "s1"}, {ID: "s2"}}
	enrollments := []models.Enrollment{
		{ID: "e1", StudentID: "s1"},
		{ID: "e2", StudentID: "s2"},
	}
	statuses := []models.EnrollmentStatusRecord{{ID: "st1", EnrollmentID: "e1", Status: models.EnrollmentStatusInProgress}}

	details := JoinStudentsWithEnrollmentsFilteredByStatus(students, enrollments, statuses)
	require.Len(t, details, 1)
	assert.Equal(t, "s1", details[0].Student.ID)
	require.Len(t, details[0].Enrollments, 1)
	assert.Equal(t, "e1", details[0].Enrollments[0].ID)
}

func TestJoinEmptyInputs(t *testing.T) {
	assert.Empty(t, JoinStudentsWithEnrollments(nil, nil))
	assert.NotNil(t, JoinStudentsWithEnrollmentsFilteredByStatus(nil, nil, nil))
}
