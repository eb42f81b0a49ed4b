package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/creatorfeed/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedProfile creates a member profile.
func SeedProfile(t *testing.T, pool *pgxpool.Pool) domain.Profile {
	t.Helper()
	return seedProfile(t, pool, domain.UserTypeMember, false)
}

// SeedCreator creates a verified creator profile.
func SeedCreator(t *testing.T, pool *pgxpool.Pool) domain.Profile {
	t.Helper()
	return seedProfile(t, pool, domain.UserTypeCreator, true)
}

func seedProfile(t *testing.T, pool *pgxpool.Pool, kind domain.UserType, verified bool) domain.Profile {
	t.Helper()

	suffix := uniqueSuffix()
	p := domain.Profile{
		ID:          uuid.New(),
		Username:    "user_" + suffix,
		DisplayName: "Test User " + suffix,
		IsVerified:  verified,
		UserType:    kind,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO profiles (id, username, display_name, is_verified, user_type, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Username, p.DisplayName, p.IsVerified, string(p.UserType), p.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedProfile: %v", err)
	}
	return p
}

// SeedPost creates a published post by author. poll may be nil.
func SeedPost(t *testing.T, pool *pgxpool.Pool, authorID uuid.UUID, poll *domain.PollDefinition) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO posts (user_id, content, poll, status)
		 VALUES ($1, $2, $3, 'published') RETURNING id`,
		authorID, "post "+uniqueSuffix(), poll,
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedPost: %v", err)
	}
	return id
}

// SeedFollow makes follower follow following.
func SeedFollow(t *testing.T, pool *pgxpool.Pool, followerID, followingID uuid.UUID) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO follows (follower_id, following_id) VALUES ($1, $2)`,
		followerID, followingID,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedFollow: %v", err)
	}
}
