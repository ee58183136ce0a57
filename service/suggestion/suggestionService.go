package suggestionsvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/SilaSerdar/library-systeem/model"
)

type ErrCode string

const (
	ErrNotFound      ErrCode = "NOT_FOUND"
	ErrBadInput      ErrCode = "BAD_INPUT"
	ErrBadTransition ErrCode = "BAD_TRANSITION"
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

type Repo interface {
	List(ctx context.Context) ([]model.PurchaseSuggestion, error)
	Insert(ctx context.Context, s *model.PurchaseSuggestion) error
	GetStatus(ctx context.Context, id int64) (model.SuggestionStatus, error)
	UpdateStatusFrom(ctx context.Context, id int64, from, to model.SuggestionStatus) (*model.PurchaseSuggestion, error)
}

type Service interface {
	List(ctx context.Context) ([]model.PurchaseSuggestion, error)
	Create(ctx context.Context, userID int64, req model.CreateSuggestionReq) (*model.PurchaseSuggestion, error)
	UpdateStatus(ctx context.Context, id int64, to model.SuggestionStatus) (*model.PurchaseSuggestion, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) List(ctx context.Context) ([]model.PurchaseSuggestion, error) {
	return s.r.List(ctx)
}

func (s *service) Create(ctx context.Context, userID int64, req model.CreateSuggestionReq) (*model.PurchaseSuggestion, error) {
	if req.BookTitle == "" || req.Reason == "" {
		return nil, makeErr(ErrBadInput)
	}

	priority := req.Priority
	if priority == 0 {
		priority = 5
	}
	if priority < 1 {
		priority = 1
	}
	if priority > 10 {
		priority = 10
	}

	sug := &model.PurchaseSuggestion{
		BookTitle:   req.BookTitle,
		Reason:      req.Reason,
		Priority:    priority,
		SuggestedBy: userID,
	}
	if req.Author != "" {
		sug.Author = &req.Author
	}
	if req.ISBN != "" {
		sug.ISBN = &req.ISBN
	}
	if err := s.r.Insert(ctx, sug); err != nil {
		return nil, err
	}
	return sug, nil
}

// UpdateStatus enforces PENDING -> APPROVED|REJECTED and APPROVED -> PURCHASED.
func (s *service) UpdateStatus(ctx context.Context, id int64, to model.SuggestionStatus) (*model.PurchaseSuggestion, error) {
	var from model.SuggestionStatus
	switch to {
	case model.SuggestionApproved, model.SuggestionRejected:
		from = model.SuggestionPending
	case model.SuggestionPurchased:
		from = model.SuggestionApproved
	default:
		return nil, makeErr(ErrBadInput)
	}

	sug, err := s.r.UpdateStatusFrom(ctx, id, from, to)
	if err == nil {
		return sug, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// Either the row is missing or it was not in the required state.
	if _, gerr := s.r.GetStatus(ctx, id); gerr != nil {
		if errors.Is(gerr, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, gerr
	}
	return nil, makeErr(ErrBadTransition)
}
