package handler

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AijiY/StudentManagement/internal/models"
	appErrors "github.com/AijiY/StudentManagement/pkg/errors"
)

func TestEnrollmentHandlerStartAndComplete(t *testing.T) {
	mockSvc := &enrollmentServiceMock{item: &models.EnrollmentWithStatus{Enrollment: models.Enrollment{ID: "e-1"}, Status: models.EnrollmentStatusInProgress}}
	h := NewEnrollmentHandler(mockSvc)

	c, w := newTestContext(http.MethodPatch, "/enrollments/e-1/in-progress", nil)
	c.Params = gin.Params{{Key: "id", Value: "e-1"}}
	h.Start(c)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "IN_PROGRESS", data["status"])
	assert.Equal(t, "e-1", data["id"])

	c, w = newTestContext(http.MethodPatch, "/enrollments/e-1/complete", nil)
	c.Params = gin.Params{{Key: "id", Value: "e-1"}}
	h.Complete(c)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{"start:e-1", "complete:e-1"}, mockSvc.calls)
}

func TestEnrollmentHandlerConflict(t *testing.T) {
	mockSvc := &enrollmentServiceMock{err: appErrors.Clone(appErrors.ErrConflict, "enrollment already completed")}
	h := NewEnrollmentHandler(mockSvc)

	c, w := newTestContext(http.MethodPatch, "/enrollments/e-1/complete", nil)
	c.Params = gin.Params{{Key: "id", Value: "e-1"}}
	h.Complete(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	errBody := decodeEnvelope(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "CONFLICT", errBody["code"])
}

func TestEnrollmentHandlerRegister(t *testing.T) {
	mockSvc := &enrollmentServiceMock{enrollment: &models.Enrollment{ID: "e-2"}}
	h := NewEnrollmentHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/students/s-1/enrollments/c-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "s-1"}, {Key: "courseId", Value: "c-1"}}
	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"register:s-1:c-1"}, mockSvc.calls)
}

func TestEnrollmentHandlerListFilter(t *testing.T) {
	mockSvc := &enrollmentServiceMock{}
	h := NewEnrollmentHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/enrollments?status="+url.QueryEscape("仮申し込み"), nil)
	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mockSvc.lastStatus)
	assert.Equal(t, models.EnrollmentStatusTentative, *mockSvc.lastStatus)
}
