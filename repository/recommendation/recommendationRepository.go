package recrepo

import (
	"context"
	"database/sql"

	"github.com/SilaSerdar/library-systeem/model"
)

// HistoryEntry is the slice of a rented book the scorer cares about.
type HistoryEntry struct {
	BookID   int64
	Author   string
	Category *string
}

type Repo interface {
	History(ctx context.Context, userID int64) ([]HistoryEntry, error)
	Candidates(ctx context.Context, userID int64, categories []string, limit int) ([]model.Book, error)
	Exists(ctx context.Context, userID, bookID int64) (bool, error)
	Insert(ctx context.Context, rec *model.Recommendation) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) History(ctx context.Context, userID int64) ([]HistoryEntry, error) {
	const q = `
	SELECT r.book_id, b.author, b.category
	FROM rentals r
	JOIN books b ON b.id = r.book_id
	WHERE r.customer_id = $1`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var h HistoryEntry
		if err := rows.Scan(&h.BookID, &h.Author, &h.Category); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Candidates returns available books from the given categories that the
// user has never rented, newest first.
func (r *repo) Candidates(ctx context.Context, userID int64, categories []string, limit int) ([]model.Book, error) {
	const q = `
	SELECT id, title, author, isbn, description, category, published_year,
	       image_url, total_copies, available_copies, location, created_at
	FROM books
	WHERE category = ANY($2)
	  AND available_copies > 0
	  AND id NOT IN (SELECT book_id FROM rentals WHERE customer_id = $1)
	ORDER BY created_at DESC
	LIMIT $3`
	rows, err := r.db.QueryContext(ctx, q, userID, categories, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Description, &b.Category,
			&b.PublishedYear, &b.ImageURL, &b.TotalCopies, &b.AvailableCopies,
			&b.Location, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) Exists(ctx context.Context, userID, bookID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM recommendations WHERE user_id = $1 AND book_id = $2)`
	var ok bool
	err := r.db.QueryRowContext(ctx, q, userID, bookID).Scan(&ok)
	return ok, err
}

func (r *repo) Insert(ctx context.Context, rec *model.Recommendation) error {
	const q = `
	INSERT INTO recommendations (user_id, book_id, score, reason)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (user_id, book_id) DO NOTHING
	RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, q, rec.UserID, rec.BookID, rec.Score, rec.Reason).
		Scan(&rec.ID, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		// Lost a race with a concurrent identical insert; first write wins.
		return nil
	}
	return err
}
