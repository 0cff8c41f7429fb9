package handler

import (
	"context"

	"github.com/AijiY/StudentManagement/internal/models"
	"github.com/AijiY/StudentManagement/internal/service"
)

type studentServiceMock struct {
	details    []models.StudentDetail
	detail     *models.StudentDetail
	deleted    *models.DeleteResult
	err        error
	lastFilter models.StudentSearchFilter
	lastID     string
	registered models.RegisterStudentRequest
	updated    models.UpdateStudentRequest
}

func (m *studentServiceMock) SearchStudents(ctx context.Context, filter models.StudentSearchFilter) ([]models.StudentDetail, error) {
	m.lastFilter = filter
	return m.details, m.err
}

func (m *studentServiceMock) SearchStudentDetailByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	m.lastID = id
	return m.detail, m.err
}

func (m *studentServiceMock) RegisterStudent(ctx context.Context, req models.RegisterStudentRequest) (*models.StudentDetail, error) {
	m.registered = req
	return m.detail, m.err
}

func (m *studentServiceMock) UpdateStudent(ctx context.Context, id string, req models.UpdateStudentRequest) (*models.StudentDetail, error) {
	m.lastID = id
	m.updated = req
	return m.detail, m.err
}

func (m *studentServiceMock) DeleteStudent(ctx context.Context, id string) (*models.DeleteResult, error) {
	m.lastID = id
	return m.deleted, m.err
}

type exporterMock struct {
	result     *service.ExportResult
	err        error
	lastFormat service.ExportFormat
	lastFilter models.StudentSearchFilter
}

func (m *exporterMock) ExportStudents(ctx context.Context, format service.ExportFormat, filter models.StudentSearchFilter) (*service.ExportResult, error) {
	m.lastFormat = format
	m.lastFilter = filter
	return m.result, m.err
}

type enrollmentServiceMock struct {
	item       *models.EnrollmentWithStatus
	items      []models.EnrollmentWithStatus
	enrollment *models.Enrollment
	err        error
	lastStatus *models.EnrollmentStatus
	calls      []string
}

func (m *enrollmentServiceMock) RegisterEnrollment(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	m.calls = append(m.calls, "register:"+studentID+":"+courseID)
	return m.enrollment, m.err
}

func (m *enrollmentServiceMock) AdvanceToInProgress(ctx context.Context, enrollmentID string) (*models.EnrollmentWithStatus, error) {
	m.calls = append(m.calls, "start:"+enrollmentID)
	return m.item, m.err
}

func (m *enrollmentServiceMock) AdvanceToCompleted(ctx context.Context, enrollmentID string) (*models.EnrollmentWithStatus, error) {
	m.calls = append(m.calls, "complete:"+enrollmentID)
	return m.item, m.err
}

func (m *enrollmentServiceMock) ListEnrollments(ctx context.Context, status *models.EnrollmentStatus) ([]models.EnrollmentWithStatus, error) {
	m.lastStatus = status
	return m.items, m.err
}

func (m *enrollmentServiceMock) GetEnrollment(ctx context.Context, id string) (*models.EnrollmentWithStatus, error) {
	m.calls = append(m.calls, "get:"+id)
	return m.item, m.err
}

type courseServiceMock struct {
	courses []models.Course
	course  *models.Course
	err     error
	req     models.RegisterCourseRequest
}

func (m *courseServiceMock) RegisterCourse(ctx context.Context, req models.RegisterCourseRequest) (*models.Course, error) {
	m.req = req
	return m.course, m.err
}

func (m *courseServiceMock) ListCourses(ctx context.Context) ([]models.Course, error) {
	return m.courses, m.err
}
