package suggestionsvc

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SilaSerdar/library-systeem/model"
)

type mockRepo struct {
	listFn             func(ctx context.Context) ([]model.PurchaseSuggestion, error)
	insertFn           func(ctx context.Context, s *model.PurchaseSuggestion) error
	getStatusFn        func(ctx context.Context, id int64) (model.SuggestionStatus, error)
	updateStatusFromFn func(ctx context.Context, id int64, from, to model.SuggestionStatus) (*model.PurchaseSuggestion, error)
}

func (m *mockRepo) List(ctx context.Context) ([]model.PurchaseSuggestion, error) {
	return m.listFn(ctx)
}
func (m *mockRepo) Insert(ctx context.Context, s *model.PurchaseSuggestion) error {
	return m.insertFn(ctx, s)
}
func (m *mockRepo) GetStatus(ctx context.Context, id int64) (model.SuggestionStatus, error) {
	return m.getStatusFn(ctx, id)
}
func (m *mockRepo) UpdateStatusFrom(ctx context.Context, id int64, from, to model.SuggestionStatus) (*model.PurchaseSuggestion, error) {
	return m.updateStatusFromFn(ctx, id, from, to)
}

func TestCreate_Defaults(t *testing.T) {
	var got *model.PurchaseSuggestion
	r := &mockRepo{
		insertFn: func(ctx context.Context, s *model.PurchaseSuggestion) error {
			s.ID = 3
			got = s
			return nil
		},
	}
	svc := New(r)

	out, err := svc.Create(context.Background(), 9, model.CreateSuggestionReq{
		BookTitle: "Dune Messiah",
		Reason:    "Members keep asking for the sequel",
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), out.ID)
	require.Equal(t, 5, got.Priority)
	require.Equal(t, int64(9), got.SuggestedBy)
	require.Nil(t, got.Author)
	require.Nil(t, got.ISBN)
}

func TestCreate_PriorityClamped(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{-3, 1},
		{1, 1},
		{7, 7},
		{10, 10},
		{42, 10},
	}
	for _, tc := range cases {
		var got int
		r := &mockRepo{
			insertFn: func(ctx context.Context, s *model.PurchaseSuggestion) error {
				got = s.Priority
				return nil
			},
		}
		svc := New(r)
		_, err := svc.Create(context.Background(), 1, model.CreateSuggestionReq{
			BookTitle: "t",
			Reason:    "r",
			Priority:  tc.in,
		})
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "priority %d", tc.in)
	}
}

func TestCreate_BadInput(t *testing.T) {
	svc := New(&mockRepo{})
	_, err := svc.Create(context.Background(), 1, model.CreateSuggestionReq{BookTitle: "no reason"})
	require.Equal(t, ErrBadInput, Code(err))

	_, err = svc.Create(context.Background(), 1, model.CreateSuggestionReq{Reason: "no title"})
	require.Equal(t, ErrBadInput, Code(err))
}

func TestUpdateStatus_Transitions(t *testing.T) {
	cases := []struct {
		to       model.SuggestionStatus
		wantFrom model.SuggestionStatus
	}{
		{model.SuggestionApproved, model.SuggestionPending},
		{model.SuggestionRejected, model.SuggestionPending},
		{model.SuggestionPurchased, model.SuggestionApproved},
	}
	for _, tc := range cases {
		r := &mockRepo{
			updateStatusFromFn: func(ctx context.Context, id int64, from, to model.SuggestionStatus) (*model.PurchaseSuggestion, error) {
				require.Equal(t, tc.wantFrom, from)
				require.Equal(t, tc.to, to)
				return &model.PurchaseSuggestion{ID: id, Status: to}, nil
			},
		}
		svc := New(r)
		out, err := svc.UpdateStatus(context.Background(), 3, tc.to)
		require.NoError(t, err)
		require.Equal(t, tc.to, out.Status)
	}
}

func TestUpdateStatus_UnknownTarget(t *testing.T) {
	svc := New(&mockRepo{})
	_, err := svc.UpdateStatus(context.Background(), 3, model.SuggestionStatus("SHELVED"))
	require.Equal(t, ErrBadInput, Code(err))

	// PENDING is never a target
	_, err = svc.UpdateStatus(context.Background(), 3, model.SuggestionPending)
	require.Equal(t, ErrBadInput, Code(err))
}

func TestUpdateStatus_WrongState(t *testing.T) {
	r := &mockRepo{
		updateStatusFromFn: func(ctx context.Context, id int64, from, to model.SuggestionStatus) (*model.PurchaseSuggestion, error) {
			return nil, sql.ErrNoRows
		},
		getStatusFn: func(ctx context.Context, id int64) (model.SuggestionStatus, error) {
			return model.SuggestionRejected, nil
		},
	}
	svc := New(r)

	// a REJECTED suggestion cannot be purchased
	_, err := svc.UpdateStatus(context.Background(), 3, model.SuggestionPurchased)
	require.Equal(t, ErrBadTransition, Code(err))
}

func TestUpdateStatus_NotFound(t *testing.T) {
	r := &mockRepo{
		updateStatusFromFn: func(ctx context.Context, id int64, from, to model.SuggestionStatus) (*model.PurchaseSuggestion, error) {
			return nil, sql.ErrNoRows
		},
		getStatusFn: func(ctx context.Context, id int64) (model.SuggestionStatus, error) {
			return "", sql.ErrNoRows
		},
	}
	svc := New(r)

	_, err := svc.UpdateStatus(context.Background(), 404, model.SuggestionApproved)
	require.Equal(t, ErrNotFound, Code(err))
}
