package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"habitrpg/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type staticValidator struct {
	token string
	id    uuid.UUID
}

func (v staticValidator) ValidateAccess(token string) (uuid.UUID, error) {
	if token != v.token {
		return uuid.Nil, errors.New("bad token")
	}
	return v.id, nil
}

func TestAuthMiddleware(t *testing.T) {
	id := uuid.New()
	r := gin.New()
	r.Use(AuthMiddleware(staticValidator{token: "good", id: id}))
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, c.MustGet(UserIDKey).(uuid.UUID).String())
	})

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"good token", "Bearer good", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, id.String(), w.Body.String())
			}
		})
	}
}

func TestAdminKey(t *testing.T) {
	serve := func(key, header string) int {
		r := gin.New()
		r.POST("/op", AdminKey(key), func(c *gin.Context) { c.Status(http.StatusNoContent) })
		req := httptest.NewRequest(http.MethodPost, "/op", nil)
		if header != "" {
			req.Header.Set("X-Admin-Key", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, serve("k", "k"))
	assert.Equal(t, http.StatusForbidden, serve("k", "x"))
	assert.Equal(t, http.StatusForbidden, serve("", ""))
}

func TestRateLimiter_NilClientPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(logger.Discard()))
	r.POST("/login", NewRateLimiter(nil).Limit("login", 1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for range 3 {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
