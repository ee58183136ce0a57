// app/echoServer/jwtx/user.go
package jwtx

import (
	"errors"

	"github.com/labstack/echo/v4"
)

func UserIDFromContext(c echo.Context) (int64, error) {
	if id, ok := c.Get("user_id").(int64); ok && id > 0 {
		return id, nil
	}
	return 0, errors.New("no user id in context")
}

func RoleFromContext(c echo.Context) (string, error) {
	if r, ok := c.Get("role").(string); ok && r != "" {
		return r, nil
	}
	return "", errors.New("no role in context")
}
