package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"requisition-api-server/internal/auth"
	"requisition-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(issuer *auth.TokenIssuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Authenticate(issuer), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": c.GetString(ContextUsername)})
	})
	r.GET("/admin", Authenticate(issuer), Authorize(models.RoleSuperUser), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func request(r http.Handler, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	r := newRouter(issuer)
	token, _, err := issuer.Generate("ana", models.RoleUser)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"no bearer prefix", token, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := request(r, "/me", tt.header)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	w := request(r, "/me", "Bearer "+token)
	assert.JSONEq(t, `{"username":"ana"}`, w.Body.String())
}

func TestAuthorize(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	r := newRouter(issuer)

	userToken, _, err := issuer.Generate("ana", models.RoleUser)
	require.NoError(t, err)
	adminToken, _, err := issuer.Generate("IT", models.RoleSuperUser)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, request(r, "/admin", "Bearer "+userToken).Code)
	assert.Equal(t, http.StatusNoContent, request(r, "/admin", "Bearer "+adminToken).Code)
}
