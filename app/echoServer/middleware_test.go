package echoServer

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newCtx(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestExtractIdentity_SetsContextKeys(t *testing.T) {
	c, rec := newCtx(t)
	c.Set("user", &jwt.Token{Claims: jwt.MapClaims{
		"sub":   float64(42),
		"email": "user@example.com",
		"role":  "WORKER",
	}})

	err := ExtractIdentity()(okHandler)(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(42), c.Get("user_id"))
	require.Equal(t, "user@example.com", c.Get("email"))
	require.Equal(t, "WORKER", c.Get("role"))
}

func TestExtractIdentity_MissingToken(t *testing.T) {
	c, rec := newCtx(t)

	err := ExtractIdentity()(okHandler)(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireStaff(t *testing.T) {
	cases := []struct {
		role string
		want int
	}{
		{"WORKER", http.StatusOK},
		{"ADMIN", http.StatusOK},
		{"CUSTOMER", http.StatusForbidden},
		{"", http.StatusForbidden},
	}
	for _, tc := range cases {
		c, rec := newCtx(t)
		if tc.role != "" {
			c.Set("role", tc.role)
		}

		err := RequireStaff()(okHandler)(c)
		require.NoError(t, err)
		require.Equal(t, tc.want, rec.Code, "role %q", tc.role)
	}
}
