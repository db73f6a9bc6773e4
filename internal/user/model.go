package user

import "time"

// User represents a person the engine can resolve to an identity. External
// users have no account of their own: they are free-text name/email/phone
// records created so a split can obligate someone without the app.
type User struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      *string   `json:"email,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	AvatarURL  *string   `json:"avatar_url,omitempty"`
	IsExternal bool      `json:"is_external"`
	CreatedAt  time.Time `json:"created_at"`
}
