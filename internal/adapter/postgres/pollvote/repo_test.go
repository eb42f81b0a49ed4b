package pollvote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/heartmarshall/creatorfeed/internal/domain"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestRepo_Upsert(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := New(mock)
	postID, userID := uuid.New(), uuid.New()

	mock.ExpectExec(`INSERT INTO poll_votes \(post_id,user_id,option_index\) VALUES \(\$1,\$2,\$3\) ON CONFLICT \(post_id, user_id\) DO UPDATE SET option_index = EXCLUDED.option_index`).
		WithArgs(postID, userID, 1).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Upsert(context.Background(), postID, userID, 1); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRepo_Upsert_PostGone(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := New(mock)

	mock.ExpectExec(`INSERT INTO poll_votes`).WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.Upsert(context.Background(), uuid.New(), uuid.New(), 0)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_ListByPost(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := New(mock)
	postID := uuid.New()
	u1, u2 := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT post_id, user_id, option_index, created_at FROM poll_votes WHERE post_id = \$1`).
		WithArgs(postID).
		WillReturnRows(pgxmock.NewRows([]string{"post_id", "user_id", "option_index", "created_at"}).
			AddRow(postID, u1, 0, now).
			AddRow(postID, u2, 1, now))

	votes, err := repo.ListByPost(context.Background(), postID)
	if err != nil {
		t.Fatalf("ListByPost: %v", err)
	}
	if len(votes) != 2 || votes[0].UserID != u1 || votes[1].OptionIndex != 1 {
		t.Errorf("unexpected votes %+v", votes)
	}
}
