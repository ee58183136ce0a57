package suggestion

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/SilaSerdar/library-systeem/app/echoServer/jwtx"
	"github.com/SilaSerdar/library-systeem/model"
	ss "github.com/SilaSerdar/library-systeem/service/suggestion"
)

type Controller struct {
	Svc ss.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /api/purchase-suggestions  (staff)
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("suggestion list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if rows == nil {
		rows = []model.PurchaseSuggestion{}
	}
	return c.JSON(http.StatusOK, echo.Map{"suggestions": rows})
}

// POST /api/purchase-suggestions  (staff)
func (h *Controller) Create(c echo.Context) error {
	var req model.CreateSuggestionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "book title and reason are required"})
	}
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	sug, err := h.Svc.Create(c.Request().Context(), uid, req)
	if err != nil {
		if ss.Code(err) == ss.ErrBadInput {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "book title and reason are required"})
		}
		h.Log.Error("suggestion create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":    "purchase suggestion created",
		"suggestion": sug,
	})
}

// PATCH /api/purchase-suggestions/:id/status  (staff)
func (h *Controller) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req model.UpdateSuggestionStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "status is required"})
	}

	sug, err := h.Svc.UpdateStatus(c.Request().Context(), id, model.SuggestionStatus(req.Status))
	if err != nil {
		switch ss.Code(err) {
		case ss.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "suggestion not found"})
		case ss.ErrBadTransition:
			return c.JSON(http.StatusConflict, echo.Map{"message": "invalid status transition"})
		case ss.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid status"})
		default:
			h.Log.Error("suggestion status", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "suggestion status updated",
		"suggestion": sug,
	})
}
