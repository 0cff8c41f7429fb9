package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AijiY/StudentManagement/internal/models"
	"github.com/AijiY/StudentManagement/internal/service"
	appErrors "github.com/AijiY/StudentManagement/pkg/errors"
)

func newTestContext(method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	return payload
}

func TestStudentHandlerListParsesFilter(t *testing.T) {
	mockSvc := &studentServiceMock{details: []models.StudentDetail{{Student: models.Student{ID: "s-1"}, Enrollments: []models.Enrollment{}}}}
	h := NewStudentHandler(mockSvc, nil)

	c, w := newTestContext(http.MethodGet, "/students?status=in-progress&includeDeleted=true", nil)
	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mockSvc.lastFilter.Status)
	assert.Equal(t, models.EnrollmentStatusInProgress, *mockSvc.lastFilter.Status)
	assert.True(t, mockSvc.lastFilter.IncludeDeleted)

	payload := decodeEnvelope(t, w)
	assert.Len(t, payload["data"], 1)
	assert.Equal(t, float64(1), payload["pagination"].(map[string]interface{})["total_count"])
}

func TestStudentHandlerListRejectsUnknownStatus(t *testing.T) {
	h := NewStudentHandler(&studentServiceMock{}, nil)

	c, w := newTestContext(http.MethodGet, "/students?status=archived", nil)
	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStudentHandlerListEmptyIsArray(t *testing.T) {
	h := NewStudentHandler(&studentServiceMock{}, nil)

	c, w := newTestContext(http.MethodGet, "/students", nil)
	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, decodeEnvelope(t, w)["data"])
}

func TestStudentHandlerGetNotFound(t *testing.T) {
	mockSvc := &studentServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "student not found")}
	h := NewStudentHandler(mockSvc, nil)

	c, w := newTestContext(http.MethodGet, "/students/s-9", nil)
	c.Params = gin.Params{{Key: "id", Value: "s-9"}}
	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "s-9", mockSvc.lastID)
	errBody := decodeEnvelope(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "student not found", errBody["message"])
}

func TestStudentHandlerRegisterUsesCourseQuery(t *testing.T) {
	mockSvc := &studentServiceMock{detail: &models.StudentDetail{Student: models.Student{ID: "s-1"}}}
	h := NewStudentHandler(mockSvc, nil)

	body := []byte(`{"name":"Taro","kana_name":"タロウ","email":"taro@example.com","age":20,"course_id":"c-body"}`)
	c, w := newTestContext(http.MethodPost, "/students?courseId=c-query", body)
	h.Register(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "c-query", mockSvc.registered.CourseID)
	assert.Equal(t, "Taro", mockSvc.registered.Name)
}

func TestStudentHandlerRegisterInvalidBody(t *testing.T) {
	h := NewStudentHandler(&studentServiceMock{}, nil)

	c, w := newTestContext(http.MethodPost, "/students", []byte(`{"name":`))
	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStudentHandlerDeleteConflict(t *testing.T) {
	mockSvc := &studentServiceMock{err: appErrors.Clone(appErrors.ErrConflict, "student already deleted")}
	h := NewStudentHandler(mockSvc, nil)

	c, w := newTestContext(http.MethodPatch, "/students/s-1/delete", nil)
	c.Params = gin.Params{{Key: "id", Value: "s-1"}}
	h.Delete(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestStudentHandlerExport(t *testing.T) {
	exporter := &exporterMock{result: &service.ExportResult{Filename: "students.xlsx", ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Data: []byte("PK")}}
	h := NewStudentHandler(&studentServiceMock{}, exporter)

	c, w := newTestContext(http.MethodGet, "/students/export?format=xlsx&status=COMPLETED", nil)
	h.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.ExportFormatXLSX, exporter.lastFormat)
	assert.Equal(t, models.EnrollmentStatusCompleted, *exporter.lastFilter.Status)
	assert.Equal(t, `attachment; filename="students.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "PK", w.Body.String())
}

func TestStudentHandlerExportRejectsFormat(t *testing.T) {
	exporter := &exporterMock{}
	h := NewStudentHandler(&studentServiceMock{}, exporter)

	c, w := newTestContext(http.MethodGet, "/students/export?format=docx", nil)
	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, exporter.lastFormat)
}
