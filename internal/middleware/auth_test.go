package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"loja_backend/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", RequireAuth(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": UserID(c), "role": Role(c)})
	})
	r.GET("/admin", RequireAuth(testSecret), RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r := newAuthRouter()

	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "token-invalido").Code)

	token, err := auth.IssueToken(testSecret, 9, "user", time.Hour)
	require.NoError(t, err)
	w := get(r, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"uid":9`)
	assert.Contains(t, w.Body.String(), `"role":"user"`)
}

func TestRequireAdmin(t *testing.T) {
	r := newAuthRouter()

	userToken, err := auth.IssueToken(testSecret, 9, "user", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, get(r, "/admin", userToken).Code)

	adminToken, err := auth.IssueToken(testSecret, 1, "admin", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, get(r, "/admin", adminToken).Code)
}
