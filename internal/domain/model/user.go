package model

import (
	"time"
)

// CategoryUser is the fixed category marker stored in the sort key of
// every user item. It doubles as the partition of the email index.
const CategoryUser = "user"

// RoleUser is the only role granted at creation. Roles are not mutable
// through this API and are never returned to callers.
const RoleUser = "user"

type User struct {
	ID           string
	Email        string
	Fullname     string
	Roles        []string
	Verified     bool
	VerifiedDate *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EmailSortValue returns the secondary-index sort value: the email
// joined with the creation date (date only). The "#" separator is what
// makes an exact-email existence check a prefix match on "email#".
func (u *User) EmailSortValue() string {
	return u.Email + "#" + u.CreatedAt.UTC().Format("2006-01-02")
}

// Projection is the public view of a user. Internal fields (roles,
// storage keys) are excluded.
type Projection struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Fullname     string     `json:"fullname"`
	Verified     bool       `json:"verified"`
	VerifiedDate *time.Time `json:"verified_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) Public() Projection {
	return Projection{
		ID:           u.ID,
		Email:        u.Email,
		Fullname:     u.Fullname,
		Verified:     u.Verified,
		VerifiedDate: u.VerifiedDate,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
