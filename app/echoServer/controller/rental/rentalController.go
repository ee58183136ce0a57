package rental

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/SilaSerdar/library-systeem/app/echoServer/jwtx"
	"github.com/SilaSerdar/library-systeem/model"
	rs "github.com/SilaSerdar/library-systeem/service/rental"
)

type Controller struct {
	Svc rs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /api/rentals  (staff)
func (h *Controller) Issue(c echo.Context) error {
	var req model.CreateRentalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	workerID, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	rental, err := h.Svc.Issue(c.Request().Context(), workerID, req)
	if err != nil {
		h.Log.Error("rental issue", "err", err)
		switch rs.Code(err) {
		case rs.ErrBookNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		case rs.ErrNoCopies:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "no copies available"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "book rented",
		"rental":  rental,
	})
}

// POST /api/rentals/:id/return  (staff)
func (h *Controller) Return(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	rental, err := h.Svc.Return(c.Request().Context(), id)
	if err != nil {
		h.Log.Error("rental return", "err", err)
		switch rs.Code(err) {
		case rs.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "rental not found"})
		case rs.ErrAlreadyReturned:
			return c.JSON(http.StatusConflict, echo.Map{"message": "book already returned"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "book returned",
		"rental":  rental,
	})
}

// GET /api/rentals/my-rentals
func (h *Controller) MyRentals(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	rows, err := h.Svc.MyRentals(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("my rentals", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if rows == nil {
		rows = []model.RentalRow{}
	}
	return c.JSON(http.StatusOK, echo.Map{"rentals": rows})
}

// GET /api/rentals/all  (staff)
func (h *Controller) All(c echo.Context) error {
	status := c.QueryParam("status")
	switch status {
	case "", string(model.RentalBorrowed), string(model.RentalOverdue), string(model.RentalReturned):
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid status filter"})
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	rows, p, err := h.Svc.AllRentals(c.Request().Context(), status, page, limit)
	if err != nil {
		h.Log.Error("all rentals", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if rows == nil {
		rows = []model.RentalRow{}
	}
	return c.JSON(http.StatusOK, echo.Map{"rentals": rows, "pagination": p})
}
