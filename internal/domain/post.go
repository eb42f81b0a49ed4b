package domain

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus is the publication state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPublished PostStatus = "published"
)

func (s PostStatus) String() string { return string(s) }

func (s PostStatus) IsValid() bool {
	switch s {
	case PostStatusDraft, PostStatusScheduled, PostStatusPublished:
		return true
	}
	return false
}

// Post is a feed item authored by a profile. Counts are server-owned.
type Post struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	Content            string
	MediaURLs          []string
	IsPremium          bool
	Price              float64
	SubscriberDiscount int
	Tags               []string
	Poll               *PollDefinition
	PreviewVideoURL    *string
	ScheduledFor       *time.Time
	Status             PostStatus
	LikeCount          int
	CommentCount       int
	ShareCount         int
	ViewCount          int
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Author *ProfileSummary
}

// HasPoll reports whether the post carries a poll with at least one option.
func (p *Post) HasPoll() bool {
	return p.Poll != nil && len(p.Poll.Options) > 0
}

// ViewerState holds the client-derived fields of a post for the current viewer.
type ViewerState struct {
	IsLiked bool
	IsSaved bool
	IsMine  bool
}
