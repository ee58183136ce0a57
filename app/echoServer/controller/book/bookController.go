package book

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/SilaSerdar/library-systeem/model"
	bibliorepo "github.com/SilaSerdar/library-systeem/repository/biblio"
	booksvc "github.com/SilaSerdar/library-systeem/service/book"
)

type Controller struct {
	Svc    booksvc.Service
	Biblio bibliorepo.Repo
	V      *validator.Validate
	Log    *slog.Logger
}

// GET /api/books
func (h *Controller) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	books, p, err := h.Svc.List(c.Request().Context(), c.QueryParam("search"), c.QueryParam("category"), page, limit)
	if err != nil {
		h.Log.Error("book list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if books == nil {
		books = []model.Book{}
	}
	return c.JSON(http.StatusOK, echo.Map{"books": books, "pagination": p})
}

// GET /api/books/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	b, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		if booksvc.Code(err) == booksvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		}
		h.Log.Error("book detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"book": b})
}

// GET /api/books/search/location?search=
func (h *Controller) SearchLocation(c echo.Context) error {
	rows, err := h.Svc.SearchLocation(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		if booksvc.Code(err) == booksvc.ErrBadInput {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "search term required"})
		}
		h.Log.Error("book location search", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if rows == nil {
		rows = []model.BookLocation{}
	}
	return c.JSON(http.StatusOK, echo.Map{"books": rows})
}

// GET /api/books/search-isbn/:isbn
func (h *Controller) SearchISBN(c echo.Context) error {
	isbn := c.Param("isbn")
	if isbn == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "isbn required"})
	}

	res, err := h.Biblio.LookupISBN(c.Request().Context(), isbn)
	if err != nil {
		if errors.Is(err, bibliorepo.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"message": "no book found for this ISBN, please enter the details manually",
			})
		}
		h.Log.Error("isbn lookup", "isbn", isbn, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "isbn lookup failed"})
	}
	return c.JSON(http.StatusOK, res)
}

// POST /api/books  (staff)
func (h *Controller) Create(c echo.Context) error {
	var req model.CreateBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	book, merged, err := h.Svc.AddOrMerge(c.Request().Context(), req)
	if err != nil {
		switch booksvc.Code(err) {
		case booksvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "title, author and location are required"})
		case booksvc.ErrISBNConflict:
			return c.JSON(http.StatusConflict, echo.Map{"message": "a book with this ISBN already exists"})
		default:
			h.Log.Error("book create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	if merged {
		return c.JSON(http.StatusOK, echo.Map{
			"message": "book already existed, copy count increased",
			"book":    book,
			"action":  "updated",
		})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "book created",
		"book":    book,
		"action":  "created",
	})
}

// PATCH /api/books/:id  (staff)
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req model.UpdateBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
	}

	book, err := h.Svc.Update(c.Request().Context(), id, req)
	if err != nil {
		switch booksvc.Code(err) {
		case booksvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		case booksvc.ErrBadCopies:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "available copies cannot exceed total copies"})
		case booksvc.ErrISBNConflict:
			return c.JSON(http.StatusConflict, echo.Map{"message": "another book already has this ISBN"})
		default:
			h.Log.Error("book update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "book updated", "book": book})
}

// DELETE /api/books/:id  (staff)
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		switch booksvc.Code(err) {
		case booksvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		case booksvc.ErrActiveRentals:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "book has active rentals, all copies must be returned first"})
		default:
			h.Log.Error("book delete", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "book deleted"})
}
