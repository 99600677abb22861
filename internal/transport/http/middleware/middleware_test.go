package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/4-in-a-row/engine/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ClientKey))
	})
	return r
}

func TestCORSMiddleware(t *testing.T) {
	r := newRouter(CORSMiddleware([]string{"https://play.example"}))

	cases := []struct {
		name   string
		method string
		origin string
		status int
	}{
		{"same origin", http.MethodGet, "", http.StatusOK},
		{"allowed", http.MethodGet, "https://play.example", http.StatusOK},
		{"rejected", http.MethodGet, "https://evil.example", http.StatusForbidden},
		{"preflight", http.MethodOptions, "https://play.example", http.StatusOK},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, "/ping", nil)
		if tc.origin != "" {
			req.Header.Set("Origin", tc.origin)
		}
		r.ServeHTTP(w, req)
		if w.Code != tc.status {
			t.Fatalf("%s: status %d, want %d", tc.name, w.Code, tc.status)
		}
		if tc.status == http.StatusOK && tc.origin != "" && w.Header().Get("Access-Control-Allow-Origin") != tc.origin {
			t.Fatalf("%s: missing allow-origin header", tc.name)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	open := newRouter(AuthMiddleware(""))
	w := httptest.NewRecorder()
	open.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("empty secret should leave the API open, got %d", w.Code)
	}

	guarded := newRouter(AuthMiddleware("s3cret"))
	w = httptest.NewRecorder()
	guarded.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: status %d", w.Code)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	guarded.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status %d", w.Code)
	}

	token, err := auth.GenerateServiceToken("s3cret", "lobby", time.Minute)
	if err != nil {
		t.Fatalf("GenerateServiceToken: %v", err)
	}
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	guarded.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "lobby" {
		t.Fatalf("valid token: status %d body %q", w.Code, w.Body.String())
	}
}
