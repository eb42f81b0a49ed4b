package notification

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/heartmarshall/creatorfeed/internal/domain"
)

func (i *Inbox) onChange(ctx context.Context, ev domain.ChangeEvent) {
	switch ev.Type {
	case domain.ChangeInsert:
		i.onInsert(ctx, ev)
	case domain.ChangeUpdate:
		i.onUpdate(ctx, ev)
	case domain.ChangeDelete:
		i.onDelete(ctx, ev)
	}
}

// onInsert prepends a new notification with its sender profile. Rows already
// cached are ignored so a replayed insert never counts twice.
func (i *Inbox) onInsert(ctx context.Context, ev domain.ChangeEvent) {
	var row domain.Notification
	if err := ev.DecodeNew(&row); err != nil || row.ID == uuid.Nil {
		i.log.WarnContext(ctx, "malformed notification insert", slog.Any("error", err))
		return
	}

	i.mu.Lock()
	cached := i.indexOf(row.ID) >= 0
	i.mu.Unlock()
	if cached {
		return
	}

	n := row
	full, err := i.svc.repo.GetByID(ctx, i.viewer, row.ID)
	switch {
	case err == nil:
		n = *full
	case errors.Is(err, domain.ErrNotFound):
		// Deleted before we got to it.
		return
	default:
		i.log.WarnContext(ctx, "fetch inserted notification", slog.String("error", err.Error()))
	}

	i.mu.Lock()
	if i.closed || i.indexOf(n.ID) >= 0 {
		i.mu.Unlock()
		return
	}
	i.items = append([]domain.Notification{n}, i.items...)
	alert := !n.IsRead
	if alert {
		i.unread.Add(1)
		i.hasNew = true
	}
	i.mu.Unlock()

	if alert && i.svc.alerts != nil {
		i.svc.alerts.Alert(ctx, n)
	}
}

// onUpdate merges changed fields into the cached row and moves the unread
// counter on read-state transitions. For rows outside the cache the counter
// is resynced from the backend instead.
func (i *Inbox) onUpdate(ctx context.Context, ev domain.ChangeEvent) {
	var row domain.Notification
	if err := ev.DecodeNew(&row); err != nil || row.ID == uuid.Nil {
		i.log.WarnContext(ctx, "malformed notification update", slog.Any("error", err))
		return
	}

	i.mu.Lock()
	idx := i.indexOf(row.ID)
	if idx >= 0 {
		cur := &i.items[idx]
		was := cur.IsRead
		if !row.IsRead && i.pendingRead(row.ID) {
			row.IsRead = true
		}
		cur.Type = row.Type
		cur.ContentID = row.ContentID
		cur.Message = row.Message
		cur.Metadata = row.Metadata
		cur.IsRead = row.IsRead
		switch {
		case !was && row.IsRead:
			i.unread.Add(-1)
		case was && !row.IsRead:
			i.unread.Add(1)
		}
		i.mu.Unlock()
		return
	}
	i.mu.Unlock()

	if len(ev.Old) == 0 {
		return
	}
	var prev domain.Notification
	if err := ev.DecodeOld(&prev); err != nil || prev.IsRead == row.IsRead {
		return
	}
	i.syncUnread(ctx)
}

// onDelete drops the row and its unread contribution. The echo of a local
// delete was already accounted for when it was applied.
func (i *Inbox) onDelete(ctx context.Context, ev domain.ChangeEvent) {
	id, err := uuid.Parse(ev.Field("id").String())
	if err != nil {
		i.log.WarnContext(ctx, "malformed notification delete", slog.String("error", err.Error()))
		return
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if _, ok := i.removed[id]; ok {
		delete(i.removed, id)
		return
	}
	if idx := i.indexOf(id); idx >= 0 {
		n := i.items[idx]
		i.items = slices.Delete(i.items, idx, idx+1)
		if !n.IsRead {
			i.unread.Add(-1)
		}
		return
	}
	if read := ev.Field("is_read"); read.Exists() && !read.Bool() {
		i.unread.Add(-1)
	}
}

func (i *Inbox) syncUnread(ctx context.Context) {
	count, err := i.svc.repo.CountUnread(ctx, i.viewer)
	if err != nil {
		i.log.WarnContext(ctx, "resync unread count", slog.String("error", err.Error()))
		return
	}
	i.edits.IfIdle(i.laneKey(), func() { i.unread.Set(count) })
}
