package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserType distinguishes creators from regular members.
type UserType string

const (
	UserTypeMember  UserType = "member"
	UserTypeCreator UserType = "creator"
)

// Profile is the public profile of a user.
type Profile struct {
	ID          uuid.UUID
	Username    string
	DisplayName string
	AvatarURL   *string
	Bio         *string
	IsVerified  bool
	UserType    UserType
	CreatedAt   time.Time
}

// IsPremiumCreator reports whether the profile is a verified creator.
func (p *Profile) IsPremiumCreator() bool {
	return p.UserType == UserTypeCreator && p.IsVerified
}

// ProfileSummary is the subset of a profile embedded in posts and notifications.
type ProfileSummary struct {
	ID          uuid.UUID
	Username    string
	DisplayName string
	AvatarURL   *string
	IsVerified  bool
	UserType    UserType
}

// ProfileStats holds derived counts shown in a profile header or creator grid.
type ProfileStats struct {
	ProfileID     uuid.UUID
	FollowerCount int
	PostCount     int
}
