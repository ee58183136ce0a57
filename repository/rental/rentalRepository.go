// repository/rental/rentalRepository.go
package rental

import (
	"context"
	"database/sql"

	"github.com/SilaSerdar/library-systeem/model"
)

type Repo interface {
	// Inventory
	BookExists(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error)
	DecrementAvailable(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error)
	IncrementAvailable(ctx context.Context, tx *sql.Tx, bookID int64) error

	// Rentals
	Insert(ctx context.Context, tx *sql.Tx, r *model.Rental) error
	GetForUpdate(ctx context.Context, tx *sql.Tx, rentalID int64) (bookID int64, status model.RentalStatus, err error)
	MarkReturned(ctx context.Context, tx *sql.Tx, rentalID int64) (*model.Rental, error)

	// Overdue sweep
	SweepOverdueByCustomer(ctx context.Context, customerID int64) (int64, error)
	SweepOverdueAll(ctx context.Context) (int64, error)

	// Listings
	ListByCustomer(ctx context.Context, customerID int64) ([]model.RentalRow, error)
	ListAll(ctx context.Context, status string, limit, offset int) ([]model.RentalRow, int64, error)
}

type repo struct {
	db *sql.DB
}

func New(db *sql.DB) Repo { return &repo{db: db} }

// Inventory

func (r *repo) BookExists(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`
	var ok bool
	err := tx.QueryRowContext(ctx, q, bookID).Scan(&ok)
	return ok, err
}

// DecrementAvailable is the compare-and-set that keeps two concurrent
// issuances of a last copy from both succeeding. Returns false when no
// copy was available.
func (r *repo) DecrementAvailable(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error) {
	const q = `
			UPDATE books
			SET available_copies = available_copies - 1
			WHERE id = $1
			AND available_copies > 0`
	res, err := tx.ExecContext(ctx, q, bookID)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) IncrementAvailable(ctx context.Context, tx *sql.Tx, bookID int64) error {
	const q = `
			UPDATE books
			SET available_copies = available_copies + 1
			WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, bookID)
	return err
}

// Rentals

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, m *model.Rental) error {
	const q = `
		INSERT INTO rentals (book_id, customer_id, worker_id, due_date, status)
		VALUES ($1, $2, $3, $4, 'BORROWED')
		RETURNING id, borrowed_at, status`
	return tx.QueryRowContext(ctx, q, m.BookID, m.CustomerID, m.WorkerID, m.DueDate).
		Scan(&m.ID, &m.BorrowedAt, &m.Status)
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, rentalID int64) (int64, model.RentalStatus, error) {
	const q = `
		SELECT book_id, status
		FROM rentals
		WHERE id = $1
		FOR UPDATE`
	var bookID int64
	var status model.RentalStatus
	err := tx.QueryRowContext(ctx, q, rentalID).Scan(&bookID, &status)
	return bookID, status, err
}

func (r *repo) MarkReturned(ctx context.Context, tx *sql.Tx, rentalID int64) (*model.Rental, error) {
	const q = `
		UPDATE rentals
		SET status = 'RETURNED',
			returned_at = NOW()
		WHERE id = $1
		RETURNING id, book_id, customer_id, worker_id, borrowed_at, due_date, status, returned_at`
	var m model.Rental
	err := tx.QueryRowContext(ctx, q, rentalID).Scan(
		&m.ID, &m.BookID, &m.CustomerID, &m.WorkerID,
		&m.BorrowedAt, &m.DueDate, &m.Status, &m.ReturnedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Overdue sweep

// The WHERE clause makes concurrent sweeps converge: an already-OVERDUE
// row matches nothing, and RETURNED rows are never touched.
func (r *repo) SweepOverdueByCustomer(ctx context.Context, customerID int64) (int64, error) {
	const q = `
		UPDATE rentals
		SET status = 'OVERDUE'
		WHERE customer_id = $1
		AND status = 'BORROWED'
		AND due_date < NOW()`
	res, err := r.db.ExecContext(ctx, q, customerID)
	if err != nil {
		return 0, err
	}
	aff, _ := res.RowsAffected()
	return aff, nil
}

func (r *repo) SweepOverdueAll(ctx context.Context) (int64, error) {
	const q = `
		UPDATE rentals
		SET status = 'OVERDUE'
		WHERE status = 'BORROWED'
		AND due_date < NOW()`
	res, err := r.db.ExecContext(ctx, q)
	if err != nil {
		return 0, err
	}
	aff, _ := res.RowsAffected()
	return aff, nil
}

// Listings

const rentalBookCols = `
			r.id, r.book_id, r.customer_id, r.worker_id,
			r.borrowed_at, r.due_date, r.status, r.returned_at,
			b.id, b.title, b.author, b.isbn, b.description, b.category,
			b.published_year, b.image_url, b.total_copies, b.available_copies,
			b.location, b.created_at`

func scanRentalRow(rows *sql.Rows, row *model.RentalRow, withCustomer bool) error {
	dest := []any{
		&row.ID, &row.BookID, &row.CustomerID, &row.WorkerID,
		&row.BorrowedAt, &row.DueDate, &row.Status, &row.ReturnedAt,
		&row.Book.ID, &row.Book.Title, &row.Book.Author, &row.Book.ISBN,
		&row.Book.Description, &row.Book.Category, &row.Book.PublishedYear,
		&row.Book.ImageURL, &row.Book.TotalCopies, &row.Book.AvailableCopies,
		&row.Book.Location, &row.Book.CreatedAt,
	}
	if withCustomer {
		row.Customer = &model.CustomerInfo{}
		dest = append(dest, &row.Customer.ID, &row.Customer.Name, &row.Customer.Email)
	}
	return rows.Scan(dest...)
}

func (r *repo) ListByCustomer(ctx context.Context, customerID int64) ([]model.RentalRow, error) {
	const q = `
		SELECT ` + rentalBookCols + `
		FROM rentals r
		JOIN books b ON b.id = r.book_id
		WHERE r.customer_id = $1
		ORDER BY r.borrowed_at DESC, r.id DESC`
	rows, err := r.db.QueryContext(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RentalRow
	for rows.Next() {
		var row model.RentalRow
		if err := scanRentalRow(rows, &row, false); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *repo) ListAll(ctx context.Context, status string, limit, offset int) ([]model.RentalRow, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM rentals WHERE ($1 = '' OR status = $1)`, status).Scan(&total); err != nil {
		return nil, 0, err
	}

	const q = `
		SELECT ` + rentalBookCols + `,
			c.id, c.name, c.email
		FROM rentals r
		JOIN books b ON b.id = r.book_id
		JOIN users c ON c.id = r.customer_id
		WHERE ($1 = '' OR r.status = $1)
		ORDER BY r.borrowed_at DESC, r.id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.RentalRow
	for rows.Next() {
		var row model.RentalRow
		if err := scanRentalRow(rows, &row, true); err != nil {
			return nil, 0, err
		}
		out = append(out, row)
	}
	return out, total, rows.Err()
}
