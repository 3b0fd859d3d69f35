package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func TestJWTRoundTrip(t *testing.T) {
	userID := uuid.New()
	token, err := GenerateJWT(userID)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := AuthMiddleware(func(c echo.Context) error {
		got, err := GetUserID(c)
		if err != nil {
			t.Fatalf("GetUserID failed: %v", err)
		}
		if got != userID {
			t.Errorf("user id = %s, want %s", got, userID)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("middleware rejected valid token: %v", err)
	}
}

func TestAuthMiddlewareReadsCookie(t *testing.T) {
	userID := uuid.New()
	token, err := GenerateJWT(userID)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := AuthMiddleware(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("middleware rejected valid cookie token: %v", err)
	}
	if !called {
		t.Error("next handler was not invoked")
	}
}

func TestAuthMiddlewareRejectsMissingAndBadTokens(t *testing.T) {
	e := echo.New()
	handler := AuthMiddleware(func(c echo.Context) error {
		t.Fatal("next handler must not run")
		return nil
	})

	cases := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"missing token", func(r *http.Request) {}},
		{"malformed header", func(r *http.Request) { r.Header.Set("Authorization", "nonsense") }},
		{"garbage token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer not.a.jwt") }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := handler(c)
			httpErr, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected *echo.HTTPError, got %v", err)
			}
			if httpErr.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", httpErr.Code)
			}
		})
	}
}
