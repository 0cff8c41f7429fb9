package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AijiY/StudentManagement/internal/models"
	"github.com/AijiY/StudentManagement/internal/service"
)

func guardedRouter(auth *service.AuthService, metrics *service.MetricsService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(metrics))
	r.POST("/courses", JWT(auth), RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		c.String(http.StatusCreated, Claims(c).UserID)
	})
	return r
}

func post(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/courses", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAndRBAC(t *testing.T) {
	auth := service.NewAuthService("secret")
	r := guardedRouter(auth, nil)

	admin, err := auth.IssueToken("admin-1", models.RoleAdmin, time.Hour)
	require.NoError(t, err)
	staff, err := auth.IssueToken("staff-1", models.RoleStaff, time.Hour)
	require.NoError(t, err)

	w := post(r, "Bearer "+admin)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "admin-1", w.Body.String())

	assert.Equal(t, http.StatusForbidden, post(r, "Bearer "+staff).Code)
	assert.Equal(t, http.StatusUnauthorized, post(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, post(r, "Token "+admin).Code)
	assert.Equal(t, http.StatusUnauthorized, post(r, "Bearer not-a-token").Code)
}

func TestRequireRolesWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/courses", nil)

	RequireRoles(models.RoleAdmin)(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
}

func TestMetricsRecordsRoutePattern(t *testing.T) {
	auth := service.NewAuthService("secret")
	metrics := service.NewMetricsService()
	r := guardedRouter(auth, metrics)

	post(r, "")
	assert.Equal(t, uint64(1), metrics.Snapshot().RequestsTotal)
}
