package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/tourio/travel-reservation-api/internal/model"
	"github.com/tourio/travel-reservation-api/internal/utils"
)

const testSecret = "test-secret"

func runProtected(t *testing.T, authHeader string, mw ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"role": c.Get("role")})
	}
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestJWTAuth(t *testing.T) {
	t.Run("missing header is rejected", func(t *testing.T) {
		rec := runProtected(t, "", JWTAuth(testSecret))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		rec := runProtected(t, "Bearer not-a-jwt", JWTAuth(testSecret))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		tok, err := utils.NewAccessToken("other-secret", 7, model.RoleCustomer, 15)
		if err != nil {
			t.Fatalf("NewAccessToken: %v", err)
		}
		rec := runProtected(t, "Bearer "+tok.Token, JWTAuth(testSecret))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("valid token passes through", func(t *testing.T) {
		tok, err := utils.NewAccessToken(testSecret, 7, model.RoleCustomer, 15)
		if err != nil {
			t.Fatalf("NewAccessToken: %v", err)
		}
		rec := runProtected(t, "Bearer "+tok.Token, JWTAuth(testSecret))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})
}

func TestRequireRole(t *testing.T) {
	t.Run("wrong role is forbidden", func(t *testing.T) {
		tok, err := utils.NewAccessToken(testSecret, 7, model.RoleCustomer, 15)
		if err != nil {
			t.Fatalf("NewAccessToken: %v", err)
		}
		rec := runProtected(t, "Bearer "+tok.Token, JWTAuth(testSecret), RequireRole(model.RoleAdmin))
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("allowed role passes", func(t *testing.T) {
		tok, err := utils.NewAccessToken(testSecret, 7, model.RoleAdmin, 15)
		if err != nil {
			t.Fatalf("NewAccessToken: %v", err)
		}
		rec := runProtected(t, "Bearer "+tok.Token, JWTAuth(testSecret), RequireRole(model.RoleAdmin, model.RoleCustomer))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("missing role claim is forbidden", func(t *testing.T) {
		rec := runProtected(t, "", RequireRole(model.RoleAdmin))
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
	})
}
