package models

import "time"

type User struct {
	ID                int64      `json:"id" db:"id"`
	Email             string     `json:"email" db:"email"`
	PasswordHash      string     `json:"-" db:"password_hash"`
	FirstName         string     `json:"first_name" db:"first_name"`
	LastName          string     `json:"last_name" db:"last_name"`
	Role              string     `json:"role" db:"role"`
	EmailConfirmed    bool       `json:"email_confirmed" db:"email_confirmed"`
	ConfirmationToken string     `json:"-" db:"confirmation_token"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
	ResetExpiresAt    *time.Time `json:"-" db:"reset_token_expires_at"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
