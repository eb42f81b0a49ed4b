package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
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

func TestRepo_GetByID(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := New(mock)
	id := uuid.New()

	mock.ExpectQuery(`SELECT id, username, display_name, avatar_url, bio, is_verified, user_type, created_at FROM profiles WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "display_name", "avatar_url", "bio", "is_verified", "user_type", "created_at"}).
			AddRow(id, "maker", "Maker", (*string)(nil), (*string)(nil), true, "creator", time.Now()))

	got, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.IsPremiumCreator() {
		t.Errorf("expected verified creator, got %+v", got)
	}
}

func TestRepo_FollowerCount(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := New(mock)
	id := uuid.New()

	mock.ExpectQuery(`SELECT get_follower_count\(\$1\)`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"get_follower_count"}).AddRow(42))

	got, err := repo.FollowerCount(context.Background(), id)
	if err != nil || got != 42 {
		t.Fatalf("FollowerCount() = %d, %v", got, err)
	}
}

func TestRepo_SetAvatarURL(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := New(mock)
	id := uuid.New()
	old := "https://cdn/avatars/old.png"

	mock.ExpectQuery(`UPDATE profiles p SET avatar_url = \$2`).
		WithArgs(id, "https://cdn/avatars/new.png").
		WillReturnRows(pgxmock.NewRows([]string{"avatar_url"}).AddRow(&old))

	got, err := repo.SetAvatarURL(context.Background(), id, "https://cdn/avatars/new.png")
	if err != nil {
		t.Fatalf("SetAvatarURL: %v", err)
	}
	if got == nil || *got != old {
		t.Errorf("expected previous URL %q, got %v", old, got)
	}
}

func TestRepo_SetAvatarURL_Missing(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := New(mock)

	mock.ExpectQuery(`UPDATE profiles`).WillReturnError(pgx.ErrNoRows)

	_, err := repo.SetAvatarURL(context.Background(), uuid.New(), "x")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
