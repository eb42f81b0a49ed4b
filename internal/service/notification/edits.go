package notification

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/heartmarshall/creatorfeed/internal/domain"
	"github.com/heartmarshall/creatorfeed/internal/service/mutation"
)

// MarkAsRead flags one cached notification read and decrements the unread
// counter at once. A failed write restores both.
func (i *Inbox) MarkAsRead(ctx context.Context, id uuid.UUID) (*mutation.Ticket, error) {
	ticket, err := i.edits.Submit(ctx, mutation.Mutation{
		Key:  i.laneKey(),
		Kind: "mark_read",
		Apply: func() (mutation.Change, error) {
			i.mu.Lock()
			defer i.mu.Unlock()

			idx := i.indexOf(id)
			if idx < 0 {
				return mutation.Change{}, fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
			}
			if i.items[idx].IsRead {
				return mutation.Change{Previous: true, Pending: true}, nil
			}

			i.items[idx].IsRead = true
			i.readingID = id
			applied := i.unread.Add(-1)
			return mutation.Change{
				Previous: false,
				Pending:  true,
				Undo: func() {
					i.mu.Lock()
					i.readingID = uuid.Nil
					if j := i.indexOf(id); j >= 0 {
						i.items[j].IsRead = false
					}
					i.mu.Unlock()
					i.unread.Add(-applied)
				},
				Commit: func() {
					i.mu.Lock()
					i.readingID = uuid.Nil
					i.mu.Unlock()
				},
			}, nil
		},
		Remote: func(ctx context.Context) error {
			return i.svc.repo.MarkRead(ctx, i.viewer, id)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("notification.MarkAsRead: %w", err)
	}
	return ticket, nil
}

// MarkAllAsRead flags every cached notification read and zeroes the unread
// counter at once. A failed write restores exactly the flipped items and the
// count that was removed.
func (i *Inbox) MarkAllAsRead(ctx context.Context) (*mutation.Ticket, error) {
	ticket, err := i.edits.Submit(ctx, mutation.Mutation{
		Key:  i.laneKey(),
		Kind: "mark_all_read",
		Apply: func() (mutation.Change, error) {
			i.mu.Lock()
			defer i.mu.Unlock()

			var flipped []uuid.UUID
			for j := range i.items {
				if !i.items[j].IsRead {
					i.items[j].IsRead = true
					flipped = append(flipped, i.items[j].ID)
				}
			}
			hadNew := i.hasNew
			i.hasNew = false
			i.readingAll = true
			prev := i.unread.Reset()

			return mutation.Change{
				Previous: prev,
				Pending:  0,
				Undo: func() {
					i.mu.Lock()
					i.readingAll = false
					for _, id := range flipped {
						if j := i.indexOf(id); j >= 0 {
							i.items[j].IsRead = false
						}
					}
					i.hasNew = i.hasNew || hadNew
					i.mu.Unlock()
					i.unread.Add(prev)
				},
				Commit: func() {
					i.mu.Lock()
					i.readingAll = false
					i.mu.Unlock()
				},
			}, nil
		},
		Remote: func(ctx context.Context) error {
			return i.svc.repo.MarkAllRead(ctx, i.viewer)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("notification.MarkAllAsRead: %w", err)
	}
	return ticket, nil
}

// Delete removes a cached notification at once. Nothing happens until the
// deletion was confirmed; a failed write puts the item back in place.
func (i *Inbox) Delete(ctx context.Context, input DeleteInput) (*mutation.Ticket, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if !input.Confirmed {
		return nil, domain.ErrNotConfirmed
	}

	id := input.ID
	ticket, err := i.edits.Submit(ctx, mutation.Mutation{
		Key:  i.laneKey(),
		Kind: "delete_notification",
		Apply: func() (mutation.Change, error) {
			i.mu.Lock()
			defer i.mu.Unlock()

			idx := i.indexOf(id)
			if idx < 0 {
				return mutation.Change{}, fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
			}
			n := i.items[idx]
			i.items = slices.Delete(i.items, idx, idx+1)
			i.removed[id] = struct{}{}
			applied := 0
			if !n.IsRead {
				applied = i.unread.Add(-1)
			}

			return mutation.Change{
				Previous: true,
				Pending:  false,
				Undo: func() {
					i.mu.Lock()
					delete(i.removed, id)
					if i.indexOf(id) < 0 {
						i.insertOrdered(n)
					}
					i.mu.Unlock()
					i.unread.Add(-applied)
				},
			}, nil
		},
		Remote: func(ctx context.Context) error {
			return i.svc.repo.Delete(ctx, i.viewer, id)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("notification.Delete: %w", err)
	}
	return ticket, nil
}
