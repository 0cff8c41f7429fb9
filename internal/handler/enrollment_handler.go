package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AijiY/StudentManagement/internal/models"
	"github.com/AijiY/StudentManagement/pkg/response"
)

type enrollmentService interface {
	RegisterEnrollment(ctx context.Context, studentID, courseID string) (*models.Enrollment, error)
	AdvanceToInProgress(ctx context.Context, enrollmentID string) (*models.EnrollmentWithStatus, error)
	AdvanceToCompleted(ctx context.Context, enrollmentID string) (*models.EnrollmentWithStatus, error)
	ListEnrollments(ctx context.Context, status *models.EnrollmentStatus) ([]models.EnrollmentWithStatus, error)
	GetEnrollment(ctx context.Context, id string) (*models.EnrollmentWithStatus, error)
}

// EnrollmentHandler exposes enrollment endpoints.
type EnrollmentHandler struct {
	enrollments enrollmentService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments enrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// List godoc
// @Summary List enrollments with their status
// @Tags Enrollments
// @Produce json
// @Param status query string false "TENTATIVE, IN_PROGRESS or COMPLETED"
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	status, err := statusQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.enrollments.ListEnrollments(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, items)
}

// Get godoc
// @Summary Get an enrollment with its status
// @Tags Enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id} [get]
func (h *EnrollmentHandler) Get(c *gin.Context) {
	item, err := h.enrollments.GetEnrollment(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Register godoc
// @Summary Enroll an existing student in a course
// @Tags Enrollments
// @Produce json
// @Param id path string true "Student ID"
// @Param courseId path string true "Course ID"
// @Success 201 {object} response.Envelope
// @Router /students/{id}/enrollments/{courseId} [post]
func (h *EnrollmentHandler) Register(c *gin.Context) {
	enrollment, err := h.enrollments.RegisterEnrollment(c.Request.Context(), c.Param("id"), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// Start godoc
// @Summary Move a tentative enrollment to in progress
// @Tags Enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /enrollments/{id}/in-progress [patch]
func (h *EnrollmentHandler) Start(c *gin.Context) {
	item, err := h.enrollments.AdvanceToInProgress(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Complete godoc
// @Summary Complete an in progress enrollment
// @Tags Enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /enrollments/{id}/complete [patch]
func (h *EnrollmentHandler) Complete(c *gin.Context) {
	item, err := h.enrollments.AdvanceToCompleted(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}
