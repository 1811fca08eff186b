package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"fittrack/internal/domain"
)

const testSecret = "middleware-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, secret, userID string, role domain.Role, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"uid":  userID,
		"role": string(role),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(expiresIn).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newAuthTestRouter(extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(testSecret)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := getUserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": id})
	})
	router.GET("/protected", handlers...)
	return router
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	router := newAuthTestRouter()

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "Bearer " + signToken(t, testSecret, "user-1", domain.RoleUser, time.Hour), http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "Token abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", "user-1", domain.RoleUser, time.Hour), http.StatusUnauthorized},
		{"expired token", "Bearer " + signToken(t, testSecret, "user-1", domain.RoleUser, -time.Minute), http.StatusUnauthorized},
		{"missing uid claim", "Bearer " + signToken(t, testSecret, "", domain.RoleUser, time.Hour), http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(router, tc.authHeader)
			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d; body: %s", w.Code, tc.wantStatus, w.Body.String())
			}
		})
	}
}

func TestRoleMiddleware(t *testing.T) {
	router := newAuthTestRouter(RoleMiddleware(domain.RoleAdmin))

	adminToken := "Bearer " + signToken(t, testSecret, "admin-1", domain.RoleAdmin, time.Hour)
	if w := doRequest(router, adminToken); w.Code != http.StatusOK {
		t.Errorf("admin request status = %d, want %d", w.Code, http.StatusOK)
	}

	userToken := "Bearer " + signToken(t, testSecret, "user-1", domain.RoleUser, time.Hour)
	if w := doRequest(router, userToken); w.Code != http.StatusForbidden {
		t.Errorf("user request status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.GET("/limited", RateLimitMiddleware(1, 2), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}
	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Fatalf("first two requests = %v, want within burst", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want %d", statuses[2], http.StatusTooManyRequests)
	}
}
