package recsvc

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SilaSerdar/library-systeem/model"
)

type mockRepo struct {
	historyFn    func(ctx context.Context, userID int64) ([]HistoryEntry, error)
	candidatesFn func(ctx context.Context, userID int64, categories []string, limit int) ([]model.Book, error)
	existsFn     func(ctx context.Context, userID, bookID int64) (bool, error)
	insertFn     func(ctx context.Context, rec *model.Recommendation) error
}

func (m *mockRepo) History(ctx context.Context, userID int64) ([]HistoryEntry, error) {
	return m.historyFn(ctx, userID)
}
func (m *mockRepo) Candidates(ctx context.Context, userID int64, categories []string, limit int) ([]model.Book, error) {
	return m.candidatesFn(ctx, userID, categories, limit)
}
func (m *mockRepo) Exists(ctx context.Context, userID, bookID int64) (bool, error) {
	if m.existsFn == nil {
		return false, nil
	}
	return m.existsFn(ctx, userID, bookID)
}
func (m *mockRepo) Insert(ctx context.Context, rec *model.Recommendation) error {
	if m.insertFn == nil {
		return nil
	}
	return m.insertFn(ctx, rec)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strp(s string) *string { return &s }

func TestForUser_EmptyHistory(t *testing.T) {
	r := &mockRepo{
		historyFn: func(ctx context.Context, userID int64) ([]HistoryEntry, error) {
			return nil, nil
		},
	}
	svc := New(r, testLogger())

	recs, err := svc.ForUser(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, recs)
	require.Empty(t, recs)
}

// History without categories gives the scorer nothing to match on.
func TestForUser_HistoryWithoutCategories(t *testing.T) {
	r := &mockRepo{
		historyFn: func(ctx context.Context, userID int64) ([]HistoryEntry, error) {
			return []HistoryEntry{{BookID: 1, Author: "Tolkien"}}, nil
		},
	}
	svc := New(r, testLogger())

	recs, err := svc.ForUser(context.Background(), 5)
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestForUser_Scoring(t *testing.T) {
	r := &mockRepo{
		historyFn: func(ctx context.Context, userID int64) ([]HistoryEntry, error) {
			return []HistoryEntry{
				{BookID: 1, Author: "Tolkien", Category: strp("Fantasy")},
				{BookID: 2, Author: "Herbert", Category: strp("Sci-Fi")},
			}, nil
		},
		candidatesFn: func(ctx context.Context, userID int64, categories []string, limit int) ([]model.Book, error) {
			require.Equal(t, []string{"Fantasy", "Sci-Fi"}, categories)
			require.Equal(t, 10, limit)
			return []model.Book{
				{ID: 10, Author: "Pratchett", Category: strp("Fantasy")},
				{ID: 11, Author: "Tolkien", Category: strp("Fantasy")},
			}, nil
		},
	}
	svc := New(r, testLogger())

	recs, err := svc.ForUser(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// category + author match sorts first
	require.Equal(t, int64(11), recs[0].ID)
	require.InDelta(t, 1.0, recs[0].Score, 1e-9)
	require.Equal(t, "You have read books in the Fantasy category. You have read books by Tolkien. ", recs[0].Reason)

	require.Equal(t, int64(10), recs[1].ID)
	require.InDelta(t, 0.8, recs[1].Score, 1e-9)
	require.Equal(t, "You have read books in the Fantasy category. ", recs[1].Reason)
}

func TestForUser_ScoreClamped(t *testing.T) {
	r := &mockRepo{
		historyFn: func(ctx context.Context, userID int64) ([]HistoryEntry, error) {
			return []HistoryEntry{{BookID: 1, Author: "Tolkien", Category: strp("Fantasy")}}, nil
		},
		candidatesFn: func(ctx context.Context, userID int64, categories []string, limit int) ([]model.Book, error) {
			return []model.Book{{ID: 11, Author: "Tolkien", Category: strp("Fantasy")}}, nil
		},
	}
	svc := New(r, testLogger())

	recs, err := svc.ForUser(context.Background(), 5)
	require.NoError(t, err)
	require.LessOrEqual(t, recs[0].Score, 1.0)
}

func TestForUser_PersistsOnce(t *testing.T) {
	seen := map[int64]bool{}
	inserts := 0
	r := &mockRepo{
		historyFn: func(ctx context.Context, userID int64) ([]HistoryEntry, error) {
			return []HistoryEntry{{BookID: 1, Author: "Tolkien", Category: strp("Fantasy")}}, nil
		},
		candidatesFn: func(ctx context.Context, userID int64, categories []string, limit int) ([]model.Book, error) {
			return []model.Book{{ID: 10, Author: "Pratchett", Category: strp("Fantasy")}}, nil
		},
		existsFn: func(ctx context.Context, userID, bookID int64) (bool, error) {
			return seen[bookID], nil
		},
		insertFn: func(ctx context.Context, rec *model.Recommendation) error {
			inserts++
			seen[rec.BookID] = true
			require.Equal(t, int64(5), rec.UserID)
			require.InDelta(t, 0.8, rec.Score, 1e-9)
			return nil
		},
	}
	svc := New(r, testLogger())

	// two calls, the row is written only on the first
	_, err := svc.ForUser(context.Background(), 5)
	require.NoError(t, err)
	recs, err := svc.ForUser(context.Background(), 5)
	require.NoError(t, err)

	require.Equal(t, 1, inserts)
	// the second response still carries the freshly computed score
	require.InDelta(t, 0.8, recs[0].Score, 1e-9)
}
