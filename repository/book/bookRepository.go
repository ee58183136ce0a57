package bookrepo

import (
	"context"
	"database/sql"

	"github.com/SilaSerdar/library-systeem/model"
)

const bookCols = `id, title, author, isbn, description, category, published_year,
       image_url, total_copies, available_copies, location, created_at`

type Repo interface {
	List(ctx context.Context, search, category string, limit, offset int) ([]model.Book, int64, error)
	ByID(ctx context.Context, id int64) (*model.Book, error)
	ByISBN(ctx context.Context, isbn string) (*model.Book, error)
	SearchLocation(ctx context.Context, search string) ([]model.BookLocation, error)

	ByISBNForUpdate(ctx context.Context, tx *sql.Tx, isbn string) (*model.Book, error)
	Insert(ctx context.Context, tx *sql.Tx, b *model.Book) error
	MergeCopies(ctx context.Context, tx *sql.Tx, id int64, n int, location, description, category, imageURL string) (*model.Book, error)

	Update(ctx context.Context, id int64, req model.UpdateBookReq) (*model.Book, error)
	ActiveRentals(ctx context.Context, bookID int64) (int64, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func scanBook(row interface{ Scan(...any) error }, b *model.Book) error {
	return row.Scan(
		&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Description, &b.Category,
		&b.PublishedYear, &b.ImageURL, &b.TotalCopies, &b.AvailableCopies,
		&b.Location, &b.CreatedAt,
	)
}

func (r *repo) List(ctx context.Context, search, category string, limit, offset int) ([]model.Book, int64, error) {
	const where = `
	WHERE ($1 = ''
	       OR title ILIKE '%' || $1 || '%'
	       OR author ILIKE '%' || $1 || '%'
	       OR COALESCE(isbn, '') ILIKE '%' || $1 || '%')
	  AND ($2 = '' OR category = $2)`

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`+where, search, category).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
	SELECT `+bookCols+`
	FROM books`+where+`
	ORDER BY title ASC
	LIMIT $3 OFFSET $4`, search, category, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := scanBook(rows, &b); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Book, error) {
	var b model.Book
	row := r.db.QueryRowContext(ctx, `SELECT `+bookCols+` FROM books WHERE id = $1`, id)
	if err := scanBook(row, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) ByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	var b model.Book
	row := r.db.QueryRowContext(ctx, `SELECT `+bookCols+` FROM books WHERE isbn = $1`, isbn)
	if err := scanBook(row, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) SearchLocation(ctx context.Context, search string) ([]model.BookLocation, error) {
	const q = `
	SELECT id, title, author, location, available_copies, total_copies
	FROM books
	WHERE title ILIKE '%' || $1 || '%'
	   OR author ILIKE '%' || $1 || '%'
	   OR COALESCE(isbn, '') ILIKE '%' || $1 || '%'
	ORDER BY title ASC`
	rows, err := r.db.QueryContext(ctx, q, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BookLocation
	for rows.Next() {
		var l model.BookLocation
		if err := rows.Scan(&l.ID, &l.Title, &l.Author, &l.Location, &l.AvailableCopies, &l.TotalCopies); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *repo) ByISBNForUpdate(ctx context.Context, tx *sql.Tx, isbn string) (*model.Book, error) {
	var b model.Book
	row := tx.QueryRowContext(ctx, `SELECT `+bookCols+` FROM books WHERE isbn = $1 FOR UPDATE`, isbn)
	if err := scanBook(row, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, b *model.Book) error {
	const q = `
	INSERT INTO books (title, author, isbn, description, category, published_year,
	                   total_copies, available_copies, location, image_url)
	VALUES ($1, $2, NULLIF($3,''), NULLIF($4,''), NULLIF($5,''), NULLIF($6,0),
	        $7, $7, $8, NULLIF($9,''))
	RETURNING id, isbn, description, category, published_year, image_url,
	          total_copies, available_copies, created_at`
	var isbn, desc, cat, img string
	var year int
	if b.ISBN != nil {
		isbn = *b.ISBN
	}
	if b.Description != nil {
		desc = *b.Description
	}
	if b.Category != nil {
		cat = *b.Category
	}
	if b.PublishedYear != nil {
		year = *b.PublishedYear
	}
	if b.ImageURL != nil {
		img = *b.ImageURL
	}
	return tx.QueryRowContext(ctx, q,
		b.Title, b.Author, isbn, desc, cat, year, b.TotalCopies, b.Location, img,
	).Scan(&b.ID, &b.ISBN, &b.Description, &b.Category, &b.PublishedYear,
		&b.ImageURL, &b.TotalCopies, &b.AvailableCopies, &b.CreatedAt)
}

// MergeCopies bumps both counters by n and refreshes optional fields only
// when a non-empty value was supplied.
func (r *repo) MergeCopies(ctx context.Context, tx *sql.Tx, id int64, n int, location, description, category, imageURL string) (*model.Book, error) {
	const q = `
	UPDATE books SET
		total_copies     = total_copies + $2,
		available_copies = available_copies + $2,
		location         = COALESCE(NULLIF($3,''), location),
		description      = COALESCE(NULLIF($4,''), description),
		category         = COALESCE(NULLIF($5,''), category),
		image_url        = COALESCE(NULLIF($6,''), image_url)
	WHERE id = $1
	RETURNING ` + bookCols
	var b model.Book
	row := tx.QueryRowContext(ctx, q, id, n, location, description, category, imageURL)
	if err := scanBook(row, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) Update(ctx context.Context, id int64, req model.UpdateBookReq) (*model.Book, error) {
	// NULL params keep the current value; empty strings clear nullable fields.
	const q = `
	UPDATE books SET
		title            = COALESCE($2, title),
		author           = COALESCE($3, author),
		isbn             = CASE WHEN $4::text IS NULL THEN isbn WHEN $4 = '' THEN NULL ELSE $4 END,
		description      = CASE WHEN $5::text IS NULL THEN description WHEN $5 = '' THEN NULL ELSE $5 END,
		category         = CASE WHEN $6::text IS NULL THEN category WHEN $6 = '' THEN NULL ELSE $6 END,
		published_year   = COALESCE($7, published_year),
		total_copies     = COALESCE($8, total_copies),
		available_copies = COALESCE($9, available_copies),
		location         = COALESCE($10, location),
		image_url        = CASE WHEN $11::text IS NULL THEN image_url WHEN $11 = '' THEN NULL ELSE $11 END
	WHERE id = $1
	RETURNING ` + bookCols
	var b model.Book
	row := r.db.QueryRowContext(ctx, q, id,
		req.Title, req.Author, req.ISBN, req.Description, req.Category,
		req.PublishedYear, req.TotalCopies, req.AvailableCopies, req.Location, req.ImageURL)
	if err := scanBook(row, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) ActiveRentals(ctx context.Context, bookID int64) (int64, error) {
	const q = `
	SELECT COUNT(*)
	FROM rentals
	WHERE book_id = $1
	  AND status IN ('BORROWED', 'OVERDUE')`
	var n int64
	err := r.db.QueryRowContext(ctx, q, bookID).Scan(&n)
	return n, err
}

func (r *repo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}
