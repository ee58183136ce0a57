package booksvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/SilaSerdar/library-systeem/model"
	bookrepo "github.com/SilaSerdar/library-systeem/repository/book"
)

type ErrCode string

const (
	ErrNotFound      ErrCode = "NOT_FOUND"
	ErrBadInput      ErrCode = "BAD_INPUT"
	ErrISBNConflict  ErrCode = "ISBN_CONFLICT"
	ErrBadCopies     ErrCode = "BAD_COPIES"
	ErrActiveRentals ErrCode = "ACTIVE_RENTALS"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Repo = bookrepo.Repo

type Service interface {
	List(ctx context.Context, search, category string, page, limit int) ([]model.Book, model.Pagination, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
	SearchLocation(ctx context.Context, search string) ([]model.BookLocation, error)

	// AddOrMerge either inserts a new book or, when the ISBN already
	// exists, folds the new copies into the existing row. The bool
	// reports whether a merge happened.
	AddOrMerge(ctx context.Context, req model.CreateBookReq) (*model.Book, bool, error)
	Update(ctx context.Context, id int64, req model.UpdateBookReq) (*model.Book, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	db *sql.DB
	r  Repo
}

func New(db *sql.DB, r Repo) Service { return &service{db: db, r: r} }

func (s *service) List(ctx context.Context, search, category string, page, limit int) ([]model.Book, model.Pagination, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	books, total, err := s.r.List(ctx, search, category, limit, (page-1)*limit)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	p := model.Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int((total + int64(limit) - 1) / int64(limit)),
	}
	return books, p, nil
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Book, error) {
	b, err := s.r.ByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, makeErr(ErrNotFound)
	}
	return b, err
}

func (s *service) SearchLocation(ctx context.Context, search string) ([]model.BookLocation, error) {
	if search == "" {
		return nil, makeErr(ErrBadInput)
	}
	return s.r.SearchLocation(ctx, search)
}

func (s *service) AddOrMerge(ctx context.Context, req model.CreateBookReq) (book *model.Book, merged bool, err error) {
	if req.Title == "" || req.Author == "" || req.Location == "" {
		return nil, false, makeErr(ErrBadInput)
	}
	copies := req.TotalCopies
	if copies <= 0 {
		copies = 1
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if req.ISBN != "" {
		existing, ferr := s.r.ByISBNForUpdate(ctx, tx, req.ISBN)
		if ferr != nil && !errors.Is(ferr, sql.ErrNoRows) {
			err = ferr
			return nil, false, err
		}
		if existing != nil {
			book, err = s.r.MergeCopies(ctx, tx, existing.ID, copies,
				req.Location, req.Description, req.Category, req.ImageURL)
			if err != nil {
				return nil, false, err
			}
			if err = tx.Commit(); err != nil {
				return nil, false, err
			}
			return book, true, nil
		}
	}

	book = &model.Book{
		Title:       req.Title,
		Author:      req.Author,
		TotalCopies: copies,
		Location:    req.Location,
	}
	if req.ISBN != "" {
		book.ISBN = &req.ISBN
	}
	if req.Description != "" {
		book.Description = &req.Description
	}
	if req.Category != "" {
		book.Category = &req.Category
	}
	if req.PublishedYear > 0 {
		book.PublishedYear = &req.PublishedYear
	}
	if req.ImageURL != "" {
		book.ImageURL = &req.ImageURL
	}

	if err = s.r.Insert(ctx, tx, book); err != nil {
		// Another request inserted the same ISBN between our lock probe
		// and this insert.
		if isUniqueViolation(err) {
			err = makeErr(ErrISBNConflict)
		}
		return nil, false, err
	}
	if err = tx.Commit(); err != nil {
		return nil, false, err
	}
	return book, false, nil
}

func (s *service) Update(ctx context.Context, id int64, req model.UpdateBookReq) (*model.Book, error) {
	cur, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}

	finalTotal := cur.TotalCopies
	if req.TotalCopies != nil {
		finalTotal = *req.TotalCopies
	}
	finalAvailable := cur.AvailableCopies
	if req.AvailableCopies != nil {
		finalAvailable = *req.AvailableCopies
	}
	if finalAvailable > finalTotal {
		return nil, makeErr(ErrBadCopies)
	}

	if req.ISBN != nil && *req.ISBN != "" && (cur.ISBN == nil || *cur.ISBN != *req.ISBN) {
		other, ferr := s.r.ByISBN(ctx, *req.ISBN)
		if ferr != nil && !errors.Is(ferr, sql.ErrNoRows) {
			return nil, ferr
		}
		if other != nil && other.ID != id {
			return nil, makeErr(ErrISBNConflict)
		}
	}

	b, err := s.r.Update(ctx, id, req)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, makeErr(ErrNotFound)
		case isUniqueViolation(err):
			return nil, makeErr(ErrISBNConflict)
		case isCheckViolation(err):
			// Raced with a rental changing available_copies.
			return nil, makeErr(ErrBadCopies)
		}
		return nil, err
	}
	return b, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	active, err := s.r.ActiveRentals(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return makeErr(ErrActiveRentals)
	}
	ok, err := s.r.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation
}
