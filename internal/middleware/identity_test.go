package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func resolveVia(t *testing.T, secret []byte, decorate func(*http.Request)) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var got string
	r := gin.New()
	r.Use(Identity(secret))
	r.GET("/", func(c *gin.Context) {
		got = ResolveUser(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	decorate(req)
	r.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func signToken(t *testing.T, secret []byte, sub string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestResolveUserPrecedence(t *testing.T) {
	secret := []byte("k")
	token := signToken(t, secret, "token-user")

	got := resolveVia(t, secret, func(req *http.Request) {
		req.Header.Set("X-User-ID", "header-user")
		req.URL.RawQuery = "user=query-user"
		req.Header.Set("Authorization", "Bearer "+token)
	})
	if got != "header-user" {
		t.Errorf("header should win, got %q", got)
	}

	got = resolveVia(t, secret, func(req *http.Request) {
		req.URL.RawQuery = "user=query-user"
		req.Header.Set("Authorization", "Bearer "+token)
	})
	if got != "query-user" {
		t.Errorf("query should beat token, got %q", got)
	}

	got = resolveVia(t, secret, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	if got != "token-user" {
		t.Errorf("token subject expected, got %q", got)
	}

	got = resolveVia(t, secret, func(*http.Request) {})
	if got != "default" {
		t.Errorf("default user expected, got %q", got)
	}
}

func TestBadTokenFallsThrough(t *testing.T) {
	secret := []byte("k")

	// Signed with the wrong key: ignored, not rejected.
	forged := signToken(t, []byte("other"), "evil")
	got := resolveVia(t, secret, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+forged)
	})
	if got != "default" {
		t.Errorf("forged token must be ignored, got %q", got)
	}

	got = resolveVia(t, secret, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer not.a.token")
	})
	if got != "default" {
		t.Errorf("garbage token must be ignored, got %q", got)
	}
}
