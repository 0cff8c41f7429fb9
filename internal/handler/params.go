package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AijiY/StudentManagement/internal/models"
	appErrors "github.com/AijiY/StudentManagement/pkg/errors"
)

func statusQuery(c *gin.Context) (*models.EnrollmentStatus, error) {
	raw := strings.TrimSpace(c.Query("status"))
	if raw == "" {
		return nil, nil
	}
	status, err := models.ParseEnrollmentStatus(raw)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status filter")
	}
	return &status, nil
}

func studentFilter(c *gin.Context) (models.StudentSearchFilter, error) {
	var filter models.StudentSearchFilter
	status, err := statusQuery(c)
	if err != nil {
		return filter, err
	}
	filter.Status = status
	if raw := c.Query("includeDeleted"); raw != "" {
		includeDeleted, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid includeDeleted flag")
		}
		filter.IncludeDeleted = includeDeleted
	}
	return filter, nil
}

func invalidPayload(err error) *appErrors.Error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
}
