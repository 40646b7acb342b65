package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matte1240/app-mezzi/internal/auth"
	"github.com/matte1240/app-mezzi/internal/model"
)

func testRouter(parser *auth.Parser, adminOnly bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	group := router.Group("/", Auth(parser))
	if adminOnly {
		group.Use(RequireAdmin())
	}
	group.GET("/ping", func(c *gin.Context) {
		principal, ok := MustPrincipal(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "missing principal"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": principal.UserID.String()})
	})
	return router
}

func request(router *gin.Engine, header string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestAuthMiddleware(t *testing.T) {
	issuer := auth.NewIssuer("test-secret", time.Hour)
	parser := auth.NewParser("test-secret")
	router := testRouter(parser, false)

	token, err := issuer.Issue(&model.User{ID: uuid.New(), Role: model.RoleEmployee})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, request(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(router, "Bearer garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, request(router, token).Code)
	assert.Equal(t, http.StatusOK, request(router, "Bearer "+token).Code)
}

func TestRequireAdmin(t *testing.T) {
	issuer := auth.NewIssuer("test-secret", time.Hour)
	parser := auth.NewParser("test-secret")
	router := testRouter(parser, true)

	employeeToken, err := issuer.Issue(&model.User{ID: uuid.New(), Role: model.RoleEmployee})
	require.NoError(t, err)
	adminToken, err := issuer.Issue(&model.User{ID: uuid.New(), Role: model.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, request(router, "Bearer "+employeeToken).Code)
	assert.Equal(t, http.StatusOK, request(router, "Bearer "+adminToken).Code)
}
