package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/AijiY/StudentManagement/internal/models"
	"github.com/AijiY/StudentManagement/pkg/response"
)

type courseService interface {
	RegisterCourse(ctx context.Context, req models.RegisterCourseRequest) (*models.Course, error)
	ListCourses(ctx context.Context) ([]models.Course, error)
}

// CourseHandler exposes the course catalogue.
type CourseHandler struct {
	courses courseService
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses courseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courses.ListCourses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, courses)
}

// Create godoc
// @Summary Register a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body models.RegisterCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req models.RegisterCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	course, err := h.courses.RegisterCourse(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}
