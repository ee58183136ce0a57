package card

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/SilaSerdar/library-systeem/app/echoServer/jwtx"
	authsvc "github.com/SilaSerdar/library-systeem/service/auth"
	cardsvc "github.com/SilaSerdar/library-systeem/service/card"
)

type Controller struct {
	Svc   cardsvc.Service
	Users authsvc.Service
	Log   *slog.Logger
}

// GET /api/users/me/card
func (h *Controller) MyCard(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	return h.render(c, uid)
}

// GET /api/users/:id/card  (staff)
func (h *Controller) MemberCard(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	return h.render(c, id)
}

func (h *Controller) render(c echo.Context, userID int64) error {
	u, err := h.Users.UserByID(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
	}
	pdf, err := h.Svc.Render(u)
	if err != nil {
		h.Log.Error("card render", "user_id", userID, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "card render failed"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="library-card.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
