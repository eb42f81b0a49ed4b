package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

// Builder returns a squirrel statement builder using $N placeholders.
func Builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// Select runs a built query and scans every row into dst.
func Select(ctx context.Context, q Querier, dst any, b sq.Sqlizer) error {
	sql, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return pgxscan.Select(ctx, q, dst, sql, args...)
}

// Get runs a built query and scans exactly one row into dst.
func Get(ctx context.Context, q Querier, dst any, b sq.Sqlizer) error {
	sql, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return pgxscan.Get(ctx, q, dst, sql, args...)
}

// Exec runs a built statement and returns the number of affected rows.
func Exec(ctx context.Context, q Querier, b sq.Sqlizer) (int64, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
