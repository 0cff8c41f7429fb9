package handler

import "github.com/gin-gonic/gin"

// Handlers bundles every API handler mounted by RegisterRoutes.
type Handlers struct {
	Students    *StudentHandler
	Courses     *CourseHandler
	Enrollments *EnrollmentHandler
}

// RegisterRoutes mounts the API on api. write runs in front of every
// mutating route.
func RegisterRoutes(api *gin.RouterGroup, h Handlers, write ...gin.HandlerFunc) {
	students := api.Group("/students")
	{
		students.GET("", h.Students.List)
		students.GET("/export", h.Students.Export)
		students.GET("/:id", h.Students.Get)
	}
	courses := api.Group("/courses")
	{
		courses.GET("", h.Courses.List)
	}
	enrollments := api.Group("/enrollments")
	{
		enrollments.GET("", h.Enrollments.List)
		enrollments.GET("/:id", h.Enrollments.Get)
	}

	guarded := api.Group("", write...)
	{
		guarded.POST("/students", h.Students.Register)
		guarded.PUT("/students/:id", h.Students.Update)
		guarded.PATCH("/students/:id/delete", h.Students.Delete)
		guarded.POST("/students/:id/enrollments/:courseId", h.Enrollments.Register)
		guarded.POST("/courses", h.Courses.Create)
		guarded.PATCH("/enrollments/:id/in-progress", h.Enrollments.Start)
		guarded.PATCH("/enrollments/:id/complete", h.Enrollments.Complete)
	}
}

// RegisterOpsRoutes mounts health, readiness and metrics endpoints on r.
func RegisterOpsRoutes(r gin.IRoutes, h *MetricsHandler) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/metrics", h.Prometheus)
	r.GET("/metrics/summary", h.Summary)
}
