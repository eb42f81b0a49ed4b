// Package post implements the posts table of the backend using PostgreSQL.
package post

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/creatorfeed/internal/adapter/postgres"
	"github.com/heartmarshall/creatorfeed/internal/domain"
)

const table = "posts"

var columns = []string{
	"p.id", "p.user_id", "p.content", "p.media_urls", "p.is_premium", "p.price",
	"p.subscriber_discount", "p.tags", "p.poll", "p.preview_video_url", "p.scheduled_for",
	"p.status", "p.like_count", "p.comment_count", "p.share_count", "p.view_count",
	"p.created_at", "p.updated_at",
	"a.username AS author_username", "a.display_name AS author_display_name",
	"a.avatar_url AS author_avatar_url", "a.is_verified AS author_is_verified",
	"a.user_type AS author_user_type",
}

// Repo provides post persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new post repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func (r *Repo) selectPosts() sq.SelectBuilder {
	return postgres.Builder().
		Select(columns...).
		From(table + " p").
		LeftJoin("profiles a ON a.id = p.user_id")
}

// ListPublished returns one page of published posts, newest first.
func (r *Repo) ListPublished(ctx context.Context, limit, offset int) ([]domain.Post, error) {
	q := r.selectPosts().
		Where(sq.Eq{"p.status": domain.PostStatusPublished.String()}).
		OrderBy("p.created_at DESC", "p.id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	var rows []postRow
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, q); err != nil {
		return nil, postgres.MapError(err, "posts", nil)
	}

	return toDomainPosts(rows)
}

// ListByUser returns one page of a user's posts of any status, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Post, error) {
	q := r.selectPosts().
		Where(sq.Eq{"p.user_id": userID}).
		OrderBy("p.created_at DESC", "p.id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	var rows []postRow
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, q); err != nil {
		return nil, postgres.MapError(err, "posts of user", userID)
	}

	return toDomainPosts(rows)
}

// GetByID returns a post by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	q := r.selectPosts().Where(sq.Eq{"p.id": id})

	var row postRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, q); err != nil {
		return nil, postgres.MapError(err, "post", id)
	}

	p, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a post and returns its ID.
func (r *Repo) Create(ctx context.Context, p *domain.Post) (uuid.UUID, error) {
	var poll []byte
	if p.Poll != nil {
		b, err := json.Marshal(p.Poll)
		if err != nil {
			return uuid.Nil, fmt.Errorf("encode poll: %w", err)
		}
		poll = b
	}

	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	status := p.Status
	if status == "" {
		status = domain.PostStatusPublished
	}

	q := postgres.Builder().
		Insert(table).
		Columns("id", "user_id", "content", "media_urls", "is_premium", "price",
			"subscriber_discount", "tags", "poll", "preview_video_url", "scheduled_for", "status").
		Values(id, p.UserID, p.Content, nonNil(p.MediaURLs), p.IsPremium, p.Price,
			p.SubscriberDiscount, nonNil(p.Tags), poll, p.PreviewVideoURL, p.ScheduledFor, status.String()).
		Suffix("RETURNING id")

	var created uuid.UUID
	sql, args, err := q.ToSql()
	if err != nil {
		return uuid.Nil, err
	}
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&created); err != nil {
		return uuid.Nil, postgres.MapError(err, "post", id)
	}

	return created, nil
}

// Delete removes a post owned by ownerID. Returns ErrNotFound when no such
// post belongs to the owner.
func (r *Repo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	q := postgres.Builder().
		Delete(table).
		Where(sq.Eq{"id": id, "user_id": ownerID})

	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q)
	if err != nil {
		return postgres.MapError(err, "post", id)
	}
	if n == 0 {
		return fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// AdjustLikeCount adds delta to the denormalized like counter, clamped at
// zero, and returns the new value.
func (r *Repo) AdjustLikeCount(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	q := postgres.Builder().
		Update(table).
		Set("like_count", sq.Expr("GREATEST(like_count + ?, 0)", delta)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING like_count")

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, postgres.MapError(err, "post", id)
	}

	return count, nil
}

// CountByUser returns the number of posts authored by userID.
func (r *Repo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	q := postgres.Builder().
		Select("count(*)").
		From(table).
		Where(sq.Eq{"user_id": userID})

	var count int
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &count, q); err != nil {
		return 0, postgres.MapError(err, "posts of user", userID)
	}

	return count, nil
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

type postRow struct {
	ID                 uuid.UUID  `db:"id"`
	UserID             uuid.UUID  `db:"user_id"`
	Content            string     `db:"content"`
	MediaURLs          []string   `db:"media_urls"`
	IsPremium          bool       `db:"is_premium"`
	Price              float64    `db:"price"`
	SubscriberDiscount int        `db:"subscriber_discount"`
	Tags               []string   `db:"tags"`
	Poll               []byte     `db:"poll"`
	PreviewVideoURL    *string    `db:"preview_video_url"`
	ScheduledFor       *time.Time `db:"scheduled_for"`
	Status             string     `db:"status"`
	LikeCount          int        `db:"like_count"`
	CommentCount       int        `db:"comment_count"`
	ShareCount         int        `db:"share_count"`
	ViewCount          int        `db:"view_count"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`

	AuthorUsername    *string `db:"author_username"`
	AuthorDisplayName *string `db:"author_display_name"`
	AuthorAvatarURL   *string `db:"author_avatar_url"`
	AuthorIsVerified  *bool   `db:"author_is_verified"`
	AuthorUserType    *string `db:"author_user_type"`
}

func (r postRow) toDomain() (domain.Post, error) {
	p := domain.Post{
		ID:                 r.ID,
		UserID:             r.UserID,
		Content:            r.Content,
		MediaURLs:          r.MediaURLs,
		IsPremium:          r.IsPremium,
		Price:              r.Price,
		SubscriberDiscount: r.SubscriberDiscount,
		Tags:               r.Tags,
		PreviewVideoURL:    r.PreviewVideoURL,
		ScheduledFor:       r.ScheduledFor,
		Status:             domain.PostStatus(r.Status),
		LikeCount:          r.LikeCount,
		CommentCount:       r.CommentCount,
		ShareCount:         r.ShareCount,
		ViewCount:          r.ViewCount,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}

	if len(r.Poll) > 0 && string(r.Poll) != "null" {
		var poll domain.PollDefinition
		if err := json.Unmarshal(r.Poll, &poll); err != nil {
			return domain.Post{}, fmt.Errorf("post %s: decode poll: %w", r.ID, err)
		}
		p.Poll = &poll
	}

	if r.AuthorUsername != nil {
		p.Author = &domain.ProfileSummary{
			ID:          r.UserID,
			Username:    *r.AuthorUsername,
			DisplayName: deref(r.AuthorDisplayName),
			AvatarURL:   r.AuthorAvatarURL,
			IsVerified:  r.AuthorIsVerified != nil && *r.AuthorIsVerified,
		}
		if r.AuthorUserType != nil {
			p.Author.UserType = domain.UserType(*r.AuthorUserType)
		}
	}

	return p, nil
}

func toDomainPosts(rows []postRow) ([]domain.Post, error) {
	posts := make([]domain.Post, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
