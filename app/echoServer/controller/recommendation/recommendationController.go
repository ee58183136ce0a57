package recommendation

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SilaSerdar/library-systeem/app/echoServer/jwtx"
	recsvc "github.com/SilaSerdar/library-systeem/service/recommendation"
)

type Controller struct {
	Svc recsvc.Service
	Log *slog.Logger
}

// GET /api/recommendations
func (h *Controller) ForMe(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	recs, err := h.Svc.ForUser(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("recommendations", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"recommendations": recs})
}
