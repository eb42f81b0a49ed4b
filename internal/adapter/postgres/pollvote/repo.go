// Package pollvote implements the poll_votes table using PostgreSQL.
package pollvote

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/creatorfeed/internal/adapter/postgres"
	"github.com/heartmarshall/creatorfeed/internal/domain"
)

const table = "poll_votes"

// Repo provides poll vote persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new poll vote repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Upsert records userID's vote on postID, replacing any previous choice.
func (r *Repo) Upsert(ctx context.Context, postID, userID uuid.UUID, optionIndex int) error {
	q := postgres.Builder().
		Insert(table).
		Columns("post_id", "user_id", "option_index").
		Values(postID, userID, optionIndex).
		Suffix("ON CONFLICT (post_id, user_id) DO UPDATE SET option_index = EXCLUDED.option_index, created_at = now()")

	if _, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q); err != nil {
		return postgres.MapError(err, "poll vote on post", postID)
	}

	return nil
}

// ListByPost returns every vote cast on postID.
func (r *Repo) ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.PollVote, error) {
	q := postgres.Builder().
		Select("post_id", "user_id", "option_index", "created_at").
		From(table).
		Where(sq.Eq{"post_id": postID})

	var rows []voteRow
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, q); err != nil {
		return nil, postgres.MapError(err, "poll votes of post", postID)
	}

	votes := make([]domain.PollVote, len(rows))
	for i, row := range rows {
		votes[i] = domain.PollVote{
			PostID:      row.PostID,
			UserID:      row.UserID,
			OptionIndex: row.OptionIndex,
			CreatedAt:   row.CreatedAt,
		}
	}
	return votes, nil
}

type voteRow struct {
	PostID      uuid.UUID `db:"post_id"`
	UserID      uuid.UUID `db:"user_id"`
	OptionIndex int       `db:"option_index"`
	CreatedAt   time.Time `db:"created_at"`
}
