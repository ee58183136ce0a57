package recsvc

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/SilaSerdar/library-systeem/model"
	recrepo "github.com/SilaSerdar/library-systeem/repository/recommendation"
)

const (
	baseScore     = 0.5
	categoryBoost = 0.3
	authorBoost   = 0.2
	maxCandidates = 10
)

type HistoryEntry = recrepo.HistoryEntry

type Repo interface {
	History(ctx context.Context, userID int64) ([]HistoryEntry, error)
	Candidates(ctx context.Context, userID int64, categories []string, limit int) ([]model.Book, error)
	Exists(ctx context.Context, userID, bookID int64) (bool, error)
	Insert(ctx context.Context, rec *model.Recommendation) error
}

type Service interface {
	// ForUser scores available books from the user's read categories.
	// Every response carries freshly computed scores; the stored
	// recommendation row is only ever written once per (user, book).
	ForUser(ctx context.Context, userID int64) ([]model.RecommendedBook, error)
}

type service struct {
	r   Repo
	log *slog.Logger
}

func New(r Repo, log *slog.Logger) Service { return &service{r: r, log: log} }

func (s *service) ForUser(ctx context.Context, userID int64) ([]model.RecommendedBook, error) {
	history, err := s.r.History(ctx, userID)
	if err != nil {
		return nil, err
	}

	categories := make(map[string]bool)
	authors := make(map[string]bool)
	for _, h := range history {
		if h.Category != nil && *h.Category != "" {
			categories[*h.Category] = true
		}
		authors[h.Author] = true
	}
	if len(categories) == 0 {
		// Nothing to go on yet.
		return []model.RecommendedBook{}, nil
	}

	catList := make([]string, 0, len(categories))
	for c := range categories {
		catList = append(catList, c)
	}
	sort.Strings(catList)

	candidates, err := s.r.Candidates(ctx, userID, catList, maxCandidates)
	if err != nil {
		return nil, err
	}

	out := make([]model.RecommendedBook, 0, len(candidates))
	for _, b := range candidates {
		score := baseScore
		reason := ""

		// The pool is already category-filtered, but recompute anyway so a
		// widened pool can't hand out unearned boosts.
		if b.Category != nil && categories[*b.Category] {
			score += categoryBoost
			reason += fmt.Sprintf("You have read books in the %s category. ", *b.Category)
		}
		if authors[b.Author] {
			score += authorBoost
			reason += fmt.Sprintf("You have read books by %s. ", b.Author)
		}
		if score > 1.0 {
			score = 1.0
		}
		if reason == "" {
			reason = "Looks like a good fit for you."
		}

		exists, err := s.r.Exists(ctx, userID, b.ID)
		if err != nil {
			return nil, err
		}
		if !exists {
			rec := &model.Recommendation{
				UserID: userID,
				BookID: b.ID,
				Score:  score,
				Reason: reason,
			}
			if err := s.r.Insert(ctx, rec); err != nil {
				return nil, err
			}
		}

		out = append(out, model.RecommendedBook{Book: b, Score: score, Reason: reason})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}
