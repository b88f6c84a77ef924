package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flicky/printdrop/internal/model"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, secret string, userID uuid.UUID, role model.UserType, ttl time.Duration) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID.String(),
		"role": string(role),
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.UserID, "role": id.Role})
	})
	r.GET("/me", handlers...)
	return r
}

func TestAuth(t *testing.T) {
	userID := uuid.New()
	r := newRouter(Auth(testSecret, "session"))

	tests := []struct {
		name   string
		setup  func(req *http.Request)
		status int
	}{
		{"no credentials", func(*http.Request) {}, http.StatusUnauthorized},
		{"bearer token", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, userID, model.UserTypeCustomer, time.Hour))
		}, http.StatusOK},
		{"session cookie", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "session", Value: signToken(t, testSecret, userID, model.UserTypeCustomer, time.Hour)})
		}, http.StatusOK},
		{"wrong secret", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+signToken(t, "other", userID, model.UserTypeCustomer, time.Hour))
		}, http.StatusUnauthorized},
		{"expired", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, userID, model.UserTypeCustomer, -time.Hour))
		}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), userID.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	r := newRouter(Auth(testSecret, ""), RequireRole(model.UserTypeAdmin))

	for role, status := range map[model.UserType]int{
		model.UserTypeAdmin:    http.StatusOK,
		model.UserTypeArtist:   http.StatusForbidden,
		model.UserTypeCustomer: http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, uuid.New(), role, time.Hour))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, status, w.Code, role)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	r := newRouter(RequestLogger(log))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, buf.String(), `"route":"/me"`)
	assert.Contains(t, buf.String(), `"status":200`)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	r := newRouter(m.Handler())

	for i := 0; i < 3; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/me", nil))
	}
	assert.Equal(t, float64(3), testutil.ToFloat64(m.requests.WithLabelValues("/me", http.MethodGet, "200")))
}
