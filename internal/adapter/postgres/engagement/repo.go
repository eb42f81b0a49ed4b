// Package engagement implements the per-viewer post_likes and post_saves
// tables. Both share the (post_id, user_id) row shape.
package engagement

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/creatorfeed/internal/adapter/postgres"
)

// Tables served by Repo.
const (
	LikesTable = "post_likes"
	SavesTable = "post_saves"
)

// Repo provides insert/delete/lookup of engagement rows in one table.
type Repo struct {
	db    postgres.Querier
	table string
}

// NewLikes creates a repository over post_likes.
func NewLikes(db postgres.Querier) *Repo {
	return &Repo{db: db, table: LikesTable}
}

// NewSaves creates a repository over post_saves.
func NewSaves(db postgres.Querier) *Repo {
	return &Repo{db: db, table: SavesTable}
}

// Table returns the table name served by the repository.
func (r *Repo) Table() string { return r.table }

// Insert records that userID engaged with postID. It returns false when the
// row already existed.
func (r *Repo) Insert(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	q := postgres.Builder().
		Insert(r.table).
		Columns("post_id", "user_id").
		Values(postID, userID).
		Suffix("ON CONFLICT (post_id, user_id) DO NOTHING")

	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q)
	if err != nil {
		return false, postgres.MapError(err, r.table, postID)
	}

	return n == 1, nil
}

// Delete removes the engagement row. It returns false when there was none.
func (r *Repo) Delete(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	q := postgres.Builder().
		Delete(r.table).
		Where(sq.Eq{"post_id": postID, "user_id": userID})

	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q)
	if err != nil {
		return false, postgres.MapError(err, r.table, postID)
	}

	return n == 1, nil
}

// Among returns the subset of postIDs userID has engaged with.
func (r *Repo) Among(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	result := make(map[uuid.UUID]bool, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	q := postgres.Builder().
		Select("post_id").
		From(r.table).
		Where(sq.Eq{"user_id": userID}).
		Where("post_id = ANY(?)", postIDs)

	var ids []uuid.UUID
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &ids, q); err != nil {
		return nil, postgres.MapError(err, r.table, userID)
	}

	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}
