package suggestionrepo

import (
	"context"
	"database/sql"

	"github.com/SilaSerdar/library-systeem/model"
)

type Repo interface {
	List(ctx context.Context) ([]model.PurchaseSuggestion, error)
	Insert(ctx context.Context, s *model.PurchaseSuggestion) error
	GetStatus(ctx context.Context, id int64) (model.SuggestionStatus, error)
	// UpdateStatusFrom flips status only when the row is still in `from`,
	// so concurrent transitions cannot clobber each other.
	UpdateStatusFrom(ctx context.Context, id int64, from, to model.SuggestionStatus) (*model.PurchaseSuggestion, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const cols = `id, book_title, author, isbn, reason, priority, status, suggested_by, created_at`

func (r *repo) List(ctx context.Context) ([]model.PurchaseSuggestion, error) {
	const q = `
	SELECT ` + cols + `
	FROM purchase_suggestions
	ORDER BY priority DESC, created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PurchaseSuggestion
	for rows.Next() {
		var s model.PurchaseSuggestion
		if err := rows.Scan(&s.ID, &s.BookTitle, &s.Author, &s.ISBN, &s.Reason,
			&s.Priority, &s.Status, &s.SuggestedBy, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repo) Insert(ctx context.Context, s *model.PurchaseSuggestion) error {
	const q = `
	INSERT INTO purchase_suggestions (book_title, author, isbn, reason, priority, status, suggested_by)
	VALUES ($1, NULLIF($2,''), NULLIF($3,''), $4, $5, 'PENDING', $6)
	RETURNING id, author, isbn, status, created_at`
	var author, isbn string
	if s.Author != nil {
		author = *s.Author
	}
	if s.ISBN != nil {
		isbn = *s.ISBN
	}
	return r.db.QueryRowContext(ctx, q, s.BookTitle, author, isbn, s.Reason, s.Priority, s.SuggestedBy).
		Scan(&s.ID, &s.Author, &s.ISBN, &s.Status, &s.CreatedAt)
}

func (r *repo) GetStatus(ctx context.Context, id int64) (model.SuggestionStatus, error) {
	const q = `SELECT status FROM purchase_suggestions WHERE id = $1`
	var st model.SuggestionStatus
	err := r.db.QueryRowContext(ctx, q, id).Scan(&st)
	return st, err
}

func (r *repo) UpdateStatusFrom(ctx context.Context, id int64, from, to model.SuggestionStatus) (*model.PurchaseSuggestion, error) {
	const q = `
	UPDATE purchase_suggestions
	SET status = $3
	WHERE id = $1
	AND status = $2
	RETURNING ` + cols
	var s model.PurchaseSuggestion
	err := r.db.QueryRowContext(ctx, q, id, from, to).Scan(
		&s.ID, &s.BookTitle, &s.Author, &s.ISBN, &s.Reason,
		&s.Priority, &s.Status, &s.SuggestedBy, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
