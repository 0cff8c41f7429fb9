package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AijiY/StudentManagement/internal/models"
	"github.com/AijiY/StudentManagement/internal/service"
	"github.com/AijiY/StudentManagement/pkg/response"
)

type studentService interface {
	SearchStudents(ctx context.Context, filter models.StudentSearchFilter) ([]models.StudentDetail, error)
	SearchStudentDetailByID(ctx context.Context, id string) (*models.StudentDetail, error)
	RegisterStudent(ctx context.Context, req models.RegisterStudentRequest) (*models.StudentDetail, error)
	UpdateStudent(ctx context.Context, id string, req models.UpdateStudentRequest) (*models.StudentDetail, error)
	DeleteStudent(ctx context.Context, id string) (*models.DeleteResult, error)
}

type rosterExporter interface {
	ExportStudents(ctx context.Context, format service.ExportFormat, filter models.StudentSearchFilter) (*service.ExportResult, error)
}

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students studentService
	exports  rosterExporter
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService, exports rosterExporter) *StudentHandler {
	return &StudentHandler{students: students, exports: exports}
}

// List godoc
// @Summary List student details
// @Tags Students
// @Produce json
// @Param status query string false "Only enrollments in this status (TENTATIVE, IN_PROGRESS, COMPLETED)"
// @Param includeDeleted query bool false "Include logically deleted students"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	filter, err := studentFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	details, err := h.students.SearchStudents(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, details)
}

// Get godoc
// @Summary Get student detail
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	detail, err := h.students.SearchStudentDetailByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail)
}

// Register godoc
// @Summary Register a student with a first course
// @Tags Students
// @Accept json
// @Produce json
// @Param courseId query string false "Course ID, overrides course_id in the body"
// @Param payload body models.RegisterStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Register(c *gin.Context) {
	var req models.RegisterStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	if courseID := c.Query("courseId"); courseID != "" {
		req.CourseID = courseID
	}
	detail, err := h.students.RegisterStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, detail)
}

// Update godoc
// @Summary Update student profile
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body models.UpdateStudentRequest true "Student payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	var req models.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	detail, err := h.students.UpdateStudent(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail)
}

// Delete godoc
// @Summary Logically delete a student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students/{id}/delete [patch]
func (h *StudentHandler) Delete(c *gin.Context) {
	result, err := h.students.DeleteStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Export godoc
// @Summary Export the student roster
// @Tags Students
// @Produce text/csv,application/pdf,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv (default), pdf or xlsx"
// @Param status query string false "Only enrollments in this status"
// @Param includeDeleted query bool false "Include logically deleted students"
// @Success 200 {file} file
// @Router /students/export [get]
func (h *StudentHandler) Export(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	filter, err := studentFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.exports.ExportStudents(c.Request.Context(), format, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
