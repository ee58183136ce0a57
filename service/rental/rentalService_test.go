package rental

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/SilaSerdar/library-systeem/model"
)

type mockRepo struct {
	bookExistsFn   func(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error)
	decrementFn    func(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error)
	incrementFn    func(ctx context.Context, tx *sql.Tx, bookID int64) error
	insertFn       func(ctx context.Context, tx *sql.Tx, r *model.Rental) error
	getForUpdateFn func(ctx context.Context, tx *sql.Tx, rentalID int64) (int64, model.RentalStatus, error)
	markReturnedFn func(ctx context.Context, tx *sql.Tx, rentalID int64) (*model.Rental, error)
	sweepByCustFn  func(ctx context.Context, customerID int64) (int64, error)
	sweepAllFn     func(ctx context.Context) (int64, error)
	listByCustFn   func(ctx context.Context, customerID int64) ([]model.RentalRow, error)
	listAllFn      func(ctx context.Context, status string, limit, offset int) ([]model.RentalRow, int64, error)
}

func (m *mockRepo) BookExists(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error) {
	return m.bookExistsFn(ctx, tx, bookID)
}
func (m *mockRepo) DecrementAvailable(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error) {
	return m.decrementFn(ctx, tx, bookID)
}
func (m *mockRepo) IncrementAvailable(ctx context.Context, tx *sql.Tx, bookID int64) error {
	return m.incrementFn(ctx, tx, bookID)
}
func (m *mockRepo) Insert(ctx context.Context, tx *sql.Tx, r *model.Rental) error {
	return m.insertFn(ctx, tx, r)
}
func (m *mockRepo) GetForUpdate(ctx context.Context, tx *sql.Tx, rentalID int64) (int64, model.RentalStatus, error) {
	return m.getForUpdateFn(ctx, tx, rentalID)
}
func (m *mockRepo) MarkReturned(ctx context.Context, tx *sql.Tx, rentalID int64) (*model.Rental, error) {
	return m.markReturnedFn(ctx, tx, rentalID)
}
func (m *mockRepo) SweepOverdueByCustomer(ctx context.Context, customerID int64) (int64, error) {
	return m.sweepByCustFn(ctx, customerID)
}
func (m *mockRepo) SweepOverdueAll(ctx context.Context) (int64, error) {
	return m.sweepAllFn(ctx)
}
func (m *mockRepo) ListByCustomer(ctx context.Context, customerID int64) ([]model.RentalRow, error) {
	return m.listByCustFn(ctx, customerID)
}
func (m *mockRepo) ListAll(ctx context.Context, status string, limit, offset int) ([]model.RentalRow, int64, error) {
	return m.listAllFn(ctx, status, limit, offset)
}

func newTxDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestIssue_Success(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	var inserted *model.Rental
	r := &mockRepo{
		decrementFn: func(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error) {
			require.Equal(t, int64(3), bookID)
			return true, nil
		},
		insertFn: func(ctx context.Context, tx *sql.Tx, m *model.Rental) error {
			m.ID = 11
			m.Status = model.RentalBorrowed
			m.BorrowedAt = time.Now()
			inserted = m
			return nil
		},
	}
	svc := New(db, r)

	out, err := svc.Issue(context.Background(), 99, model.CreateRentalReq{BookID: 3, CustomerID: 5})
	require.NoError(t, err)
	require.Equal(t, int64(11), out.ID)
	require.Equal(t, model.RentalBorrowed, out.Status)
	require.Equal(t, int64(99), inserted.WorkerID)
	require.Equal(t, int64(5), inserted.CustomerID)

	// default loan period
	days := int(time.Until(inserted.DueDate).Hours()/24 + 0.5)
	require.Equal(t, 14, days)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIssue_CustomDueDays(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	var due time.Time
	r := &mockRepo{
		decrementFn: func(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error) { return true, nil },
		insertFn: func(ctx context.Context, tx *sql.Tx, m *model.Rental) error {
			due = m.DueDate
			return nil
		},
	}
	svc := New(db, r)

	_, err := svc.Issue(context.Background(), 1, model.CreateRentalReq{BookID: 1, CustomerID: 2, DueDays: 30})
	require.NoError(t, err)
	days := int(time.Until(due).Hours()/24 + 0.5)
	require.Equal(t, 30, days)
}

func TestIssue_NoCopies(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	r := &mockRepo{
		decrementFn: func(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error) {
			return false, nil
		},
		bookExistsFn: func(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error) {
			return true, nil
		},
	}
	svc := New(db, r)

	_, err := svc.Issue(context.Background(), 1, model.CreateRentalReq{BookID: 3, CustomerID: 5})
	require.Error(t, err)
	require.Equal(t, ErrNoCopies, Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIssue_BookNotFound(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	r := &mockRepo{
		decrementFn: func(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error) {
			return false, nil
		},
		bookExistsFn: func(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error) {
			return false, nil
		},
	}
	svc := New(db, r)

	_, err := svc.Issue(context.Background(), 1, model.CreateRentalReq{BookID: 404, CustomerID: 5})
	require.Equal(t, ErrBookNotFound, Code(err))
}

func TestReturn_Success(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	incremented := int64(0)
	r := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, rentalID int64) (int64, model.RentalStatus, error) {
			return 3, model.RentalBorrowed, nil
		},
		markReturnedFn: func(ctx context.Context, tx *sql.Tx, rentalID int64) (*model.Rental, error) {
			now := time.Now()
			return &model.Rental{ID: rentalID, BookID: 3, Status: model.RentalReturned, ReturnedAt: &now}, nil
		},
		incrementFn: func(ctx context.Context, tx *sql.Tx, bookID int64) error {
			incremented = bookID
			return nil
		},
	}
	svc := New(db, r)

	out, err := svc.Return(context.Background(), 11)
	require.NoError(t, err)
	require.Equal(t, model.RentalReturned, out.Status)
	require.NotNil(t, out.ReturnedAt)
	require.Equal(t, int64(3), incremented)
	require.NoError(t, mock.ExpectationsWereMet())
}

// An OVERDUE rental returns the same way a BORROWED one does.
func TestReturn_Overdue(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	r := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, rentalID int64) (int64, model.RentalStatus, error) {
			return 3, model.RentalOverdue, nil
		},
		markReturnedFn: func(ctx context.Context, tx *sql.Tx, rentalID int64) (*model.Rental, error) {
			return &model.Rental{ID: rentalID, Status: model.RentalReturned}, nil
		},
		incrementFn: func(ctx context.Context, tx *sql.Tx, bookID int64) error { return nil },
	}
	svc := New(db, r)

	out, err := svc.Return(context.Background(), 11)
	require.NoError(t, err)
	require.Equal(t, model.RentalReturned, out.Status)
}

func TestReturn_AlreadyReturned(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	incremented := false
	r := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, rentalID int64) (int64, model.RentalStatus, error) {
			return 3, model.RentalReturned, nil
		},
		incrementFn: func(ctx context.Context, tx *sql.Tx, bookID int64) error {
			incremented = true
			return nil
		},
	}
	svc := New(db, r)

	_, err := svc.Return(context.Background(), 11)
	require.Equal(t, ErrAlreadyReturned, Code(err))
	require.False(t, incremented, "failed return must not touch inventory")
}

func TestReturn_NotFound(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	r := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, rentalID int64) (int64, model.RentalStatus, error) {
			return 0, "", sql.ErrNoRows
		},
	}
	svc := New(db, r)

	_, err := svc.Return(context.Background(), 404)
	require.Equal(t, ErrNotFound, Code(err))
}

func TestMyRentals_SweepsBeforeListing(t *testing.T) {
	var order []string
	r := &mockRepo{
		sweepByCustFn: func(ctx context.Context, customerID int64) (int64, error) {
			order = append(order, "sweep")
			require.Equal(t, int64(5), customerID)
			return 2, nil
		},
		listByCustFn: func(ctx context.Context, customerID int64) ([]model.RentalRow, error) {
			order = append(order, "list")
			return []model.RentalRow{{Rental: model.Rental{ID: 1, Status: model.RentalOverdue}}}, nil
		},
	}
	svc := New(nil, r)

	rows, err := svc.MyRentals(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, []string{"sweep", "list"}, order)
	require.Len(t, rows, 1)
	require.Equal(t, model.RentalOverdue, rows[0].Status)
}

func TestMyRentals_SweepFailure(t *testing.T) {
	r := &mockRepo{
		sweepByCustFn: func(ctx context.Context, customerID int64) (int64, error) {
			return 0, errors.New("db down")
		},
	}
	svc := New(nil, r)

	_, err := svc.MyRentals(context.Background(), 5)
	require.Error(t, err)
}

func TestAllRentals_PaginationAndSweep(t *testing.T) {
	var gotLimit, gotOffset int
	r := &mockRepo{
		sweepAllFn: func(ctx context.Context) (int64, error) { return 0, nil },
		listAllFn: func(ctx context.Context, status string, limit, offset int) ([]model.RentalRow, int64, error) {
			gotLimit, gotOffset = limit, offset
			require.Equal(t, "OVERDUE", status)
			return make([]model.RentalRow, 10), 101, nil
		},
	}
	svc := New(nil, r)

	rows, p, err := svc.AllRentals(context.Background(), "OVERDUE", 3, 10)
	require.NoError(t, err)
	require.Len(t, rows, 10)
	require.Equal(t, 10, gotLimit)
	require.Equal(t, 20, gotOffset)
	require.Equal(t, model.Pagination{Page: 3, Limit: 10, Total: 101, Pages: 11}, p)
}

func TestAllRentals_Defaults(t *testing.T) {
	r := &mockRepo{
		sweepAllFn: func(ctx context.Context) (int64, error) { return 0, nil },
		listAllFn: func(ctx context.Context, status string, limit, offset int) ([]model.RentalRow, int64, error) {
			require.Equal(t, 50, limit)
			require.Equal(t, 0, offset)
			return nil, 0, nil
		},
	}
	svc := New(nil, r)

	_, p, err := svc.AllRentals(context.Background(), "", 0, 0)
	require.NoError(t, err)
	require.Equal(t, 1, p.Page)
	require.Equal(t, 50, p.Limit)
}
