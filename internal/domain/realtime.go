package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ChangeType is the kind of row change carried by a realtime event.
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

func (c ChangeType) String() string { return string(c) }

func (c ChangeType) IsValid() bool {
	switch c {
	case ChangeInsert, ChangeUpdate, ChangeDelete:
		return true
	}
	return false
}

// Tables that emit change events.
const (
	TablePosts         = "posts"
	TablePostLikes     = "post_likes"
	TablePollVotes     = "poll_votes"
	TableNotifications = "notifications"
)

// ChangeEvent is one row change delivered by a realtime source.
// Old is empty for inserts, New is empty for deletes.
type ChangeEvent struct {
	Table string          `json:"table"`
	Type  ChangeType      `json:"type"`
	Old   json.RawMessage `json:"old,omitempty"`
	New   json.RawMessage `json:"new,omitempty"`

	ReceivedAt time.Time `json:"-"`
}

// ParseChangeEvent decodes the JSON payload emitted by the change trigger.
func ParseChangeEvent(payload []byte) (ChangeEvent, error) {
	var ev ChangeEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return ChangeEvent{}, fmt.Errorf("decode change event: %w", err)
	}
	if ev.Table == "" {
		return ChangeEvent{}, NewValidationError("table", "required")
	}
	if !ev.Type.IsValid() {
		return ChangeEvent{}, NewValidationError("type", fmt.Sprintf("unknown change type %q", ev.Type))
	}
	if isJSONNull(ev.Old) {
		ev.Old = nil
	}
	if isJSONNull(ev.New) {
		ev.New = nil
	}
	ev.ReceivedAt = time.Now().UTC()
	return ev, nil
}

// DecodeNew unmarshals the new row image into v.
func (e ChangeEvent) DecodeNew(v any) error {
	if len(e.New) == 0 {
		return fmt.Errorf("%s %s: no new row", e.Table, e.Type)
	}
	return json.Unmarshal(e.New, v)
}

// DecodeOld unmarshals the old row image into v.
func (e ChangeEvent) DecodeOld(v any) error {
	if len(e.Old) == 0 {
		return fmt.Errorf("%s %s: no old row", e.Table, e.Type)
	}
	return json.Unmarshal(e.Old, v)
}

// Row returns the row image a filter applies to: old for deletes, new otherwise.
func (e ChangeEvent) Row() json.RawMessage {
	if e.Type == ChangeDelete {
		return e.Old
	}
	return e.New
}

// Field reads a column from the row image without decoding the whole row.
func (e ChangeEvent) Field(column string) gjson.Result {
	return gjson.GetBytes(e.Row(), column)
}

// ChangeFilter scopes a subscription to one table and, optionally, one column value.
// It mirrors the "column=eq.value" filter expression of the hosted backend.
type ChangeFilter struct {
	Table  string
	Column string
	Value  string
}

// String renders the filter in "table:column=eq.value" form.
func (f ChangeFilter) String() string {
	if f.Column == "" {
		return f.Table
	}
	return fmt.Sprintf("%s:%s=eq.%s", f.Table, f.Column, f.Value)
}

// ParseChangeFilter parses "table" or "table:column=eq.value".
func ParseChangeFilter(expr string) (ChangeFilter, error) {
	table, cond, hasCond := strings.Cut(expr, ":")
	if table == "" {
		return ChangeFilter{}, NewValidationError("filter", "table required")
	}
	if !hasCond {
		return ChangeFilter{Table: table}, nil
	}
	column, value, ok := strings.Cut(cond, "=eq.")
	if !ok || column == "" {
		return ChangeFilter{}, NewValidationError("filter", fmt.Sprintf("unsupported expression %q", cond))
	}
	return ChangeFilter{Table: table, Column: column, Value: value}, nil
}

// Matches reports whether ev falls inside the filter.
func (f ChangeFilter) Matches(ev ChangeEvent) bool {
	if ev.Table != f.Table {
		return false
	}
	if f.Column == "" {
		return true
	}
	return ev.Field(f.Column).String() == f.Value
}

func isJSONNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}

// ChangeSink receives the events of one realtime subscription.
// Reconnected is called after the transport lost and re-established its
// connection; events emitted in between are lost.
type ChangeSink interface {
	Event(ev ChangeEvent)
	Reconnected()
}
