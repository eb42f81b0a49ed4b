package domain

import (
	"fmt"
	"strconv"
)

// Cursor is the page marker of a paginated collection. Pages are zero-based.
type Cursor int

// String renders the cursor as an opaque string.
func (c Cursor) String() string { return strconv.Itoa(int(c)) }

// Next returns the cursor of the following page.
func (c Cursor) Next() Cursor { return c + 1 }

// Offset returns the row offset of the page for the given page size.
func (c Cursor) Offset(pageSize int) int { return int(c) * pageSize }

// ParseCursor parses a cursor previously produced by Cursor.String.
func ParseCursor(s string) (Cursor, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, NewValidationError("cursor", fmt.Sprintf("invalid cursor %q", s))
	}
	return Cursor(n), nil
}

// Page is one slice of a paginated collection.
type Page[T any] struct {
	Items      []T
	NextCursor Cursor
	HasMore    bool
}
