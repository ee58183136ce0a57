package rental

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/SilaSerdar/library-systeem/model"
)

// errors used by controllers

type ErrCode string

const (
	ErrBookNotFound    ErrCode = "BOOK_NOT_FOUND"
	ErrNoCopies        ErrCode = "NO_COPIES"
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrAlreadyReturned ErrCode = "ALREADY_RETURNED"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

const defaultDueDays = 14

type Repo interface {
	BookExists(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error)
	DecrementAvailable(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error)
	IncrementAvailable(ctx context.Context, tx *sql.Tx, bookID int64) error

	Insert(ctx context.Context, tx *sql.Tx, r *model.Rental) error
	GetForUpdate(ctx context.Context, tx *sql.Tx, rentalID int64) (bookID int64, status model.RentalStatus, err error)
	MarkReturned(ctx context.Context, tx *sql.Tx, rentalID int64) (*model.Rental, error)

	SweepOverdueByCustomer(ctx context.Context, customerID int64) (int64, error)
	SweepOverdueAll(ctx context.Context) (int64, error)

	ListByCustomer(ctx context.Context, customerID int64) ([]model.RentalRow, error)
	ListAll(ctx context.Context, status string, limit, offset int) ([]model.RentalRow, int64, error)
}

type Service interface {
	// Issue: lend one copy of a book to a customer, recorded against the
	// worker who handled it.
	Issue(ctx context.Context, workerID int64, req model.CreateRentalReq) (*model.Rental, error)

	// Return: mark a BORROWED or OVERDUE rental returned and free the copy.
	Return(ctx context.Context, rentalID int64) (*model.Rental, error)

	// MyRentals: a customer's rentals, overdue statuses reconciled first.
	MyRentals(ctx context.Context, customerID int64) ([]model.RentalRow, error)

	// AllRentals: staff view over every rental, paginated.
	AllRentals(ctx context.Context, status string, page, limit int) ([]model.RentalRow, model.Pagination, error)

	// SweepOverdue: flip every due BORROWED rental to OVERDUE.
	SweepOverdue(ctx context.Context) (int64, error)
}

// ----- Service implementation -----

type service struct {
	db *sql.DB
	r  Repo
}

func New(db *sql.DB, r Repo) Service {
	return &service{db: db, r: r}
}

// Issue decrements the book's available copies and inserts the rental in a
// single transaction. The conditional decrement is the guard: with one copy
// left and two concurrent requests, exactly one sees a row affected.
func (s *service) Issue(ctx context.Context, workerID int64, req model.CreateRentalReq) (rental *model.Rental, err error) {
	dueDays := req.DueDays
	if dueDays <= 0 {
		dueDays = defaultDueDays
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	ok, err := s.r.DecrementAvailable(ctx, tx, req.BookID)
	if err != nil {
		return nil, err
	}
	if !ok {
		exists, eerr := s.r.BookExists(ctx, tx, req.BookID)
		if eerr != nil {
			return nil, eerr
		}
		if !exists {
			err = makeErr(ErrBookNotFound)
		} else {
			err = makeErr(ErrNoCopies)
		}
		return nil, err
	}

	rental = &model.Rental{
		BookID:     req.BookID,
		CustomerID: req.CustomerID,
		WorkerID:   workerID,
		DueDate:    time.Now().UTC().AddDate(0, 0, dueDays),
	}
	if err = s.r.Insert(ctx, tx, rental); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return rental, nil
}

// Return flips the rental to RETURNED and frees the copy. The row lock plus
// the status check make a second return fail instead of double-incrementing
// the inventory. OVERDUE returns the same way BORROWED does.
func (s *service) Return(ctx context.Context, rentalID int64) (rental *model.Rental, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	bookID, status, err := s.r.GetForUpdate(ctx, tx, rentalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = makeErr(ErrNotFound)
		}
		return nil, err
	}
	if status == model.RentalReturned {
		err = makeErr(ErrAlreadyReturned)
		return nil, err
	}

	rental, err = s.r.MarkReturned(ctx, tx, rentalID)
	if err != nil {
		return nil, err
	}
	if err = s.r.IncrementAvailable(ctx, tx, bookID); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return rental, nil
}

func (s *service) MyRentals(ctx context.Context, customerID int64) ([]model.RentalRow, error) {
	if _, err := s.r.SweepOverdueByCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.r.ListByCustomer(ctx, customerID)
}

func (s *service) AllRentals(ctx context.Context, status string, page, limit int) ([]model.RentalRow, model.Pagination, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}

	if _, err := s.r.SweepOverdueAll(ctx); err != nil {
		return nil, model.Pagination{}, err
	}

	rows, total, err := s.r.ListAll(ctx, status, limit, (page-1)*limit)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	p := model.Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int((total + int64(limit) - 1) / int64(limit)),
	}
	return rows, p, nil
}

func (s *service) SweepOverdue(ctx context.Context) (int64, error) {
	return s.r.SweepOverdueAll(ctx)
}
