// Package profile implements the profiles table and the follower-count RPC
// using PostgreSQL.
package profile

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/creatorfeed/internal/adapter/postgres"
	"github.com/heartmarshall/creatorfeed/internal/domain"
)

const table = "profiles"

// Repo provides profile persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new profile repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// GetByID returns a profile by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	q := postgres.Builder().
		Select("id", "username", "display_name", "avatar_url", "bio", "is_verified", "user_type", "created_at").
		From(table).
		Where(sq.Eq{"id": id})

	var row profileRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, q); err != nil {
		return nil, postgres.MapError(err, "profile", id)
	}

	p := row.toDomain()
	return &p, nil
}

// FollowerCount calls the get_follower_count RPC.
func (r *Repo) FollowerCount(ctx context.Context, profileID uuid.UUID) (int, error) {
	var count int
	err := postgres.QuerierFromCtx(ctx, r.db).
		QueryRow(ctx, `SELECT get_follower_count($1)`, profileID).
		Scan(&count)
	if err != nil {
		return 0, postgres.MapError(err, "get_follower_count", profileID)
	}
	return count, nil
}

// SetAvatarURL replaces the avatar of a profile and returns the previous URL.
func (r *Repo) SetAvatarURL(ctx context.Context, id uuid.UUID, url string) (*string, error) {
	var previous *string
	err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx,
		`UPDATE profiles p SET avatar_url = $2
		 FROM (SELECT avatar_url FROM profiles WHERE id = $1 FOR UPDATE) old
		 WHERE p.id = $1
		 RETURNING old.avatar_url`,
		id, url,
	).Scan(&previous)
	if err != nil {
		return nil, postgres.MapError(err, "profile", id)
	}
	return previous, nil
}

type profileRow struct {
	ID          uuid.UUID `db:"id"`
	Username    string    `db:"username"`
	DisplayName string    `db:"display_name"`
	AvatarURL   *string   `db:"avatar_url"`
	Bio         *string   `db:"bio"`
	IsVerified  bool      `db:"is_verified"`
	UserType    string    `db:"user_type"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r profileRow) toDomain() domain.Profile {
	return domain.Profile{
		ID:          r.ID,
		Username:    r.Username,
		DisplayName: r.DisplayName,
		AvatarURL:   r.AvatarURL,
		Bio:         r.Bio,
		IsVerified:  r.IsVerified,
		UserType:    domain.UserType(r.UserType),
		CreatedAt:   r.CreatedAt,
	}
}
