package models

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is an author account. Posts, comments and follow edges hang off it.
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Username    string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email       string    `json:"email,omitempty" gorm:"size:254"`
	FirstName   string    `json:"first_name,omitempty" gorm:"size:150"`
	LastName    string    `json:"last_name,omitempty" gorm:"size:150"`
	Password    string    `json:"-"`                                // bcrypt hash
	FirebaseUID *string   `json:"-" gorm:"size:128;uniqueIndex"` // nil for local accounts
	CreatedAt   time.Time `json:"created_at"`
}

// DisplayName is the full name when one is set, otherwise the username.
func (u User) DisplayName() string {
	if full := strings.TrimSpace(u.FirstName + " " + u.LastName); full != "" {
		return full
	}
	return u.Username
}

type SignupRequest struct {
	Username  string `form:"username" validate:"required,username,max=150"`
	Email     string `form:"email" validate:"omitempty,email"`
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Password  string `form:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

// SessionClaims are carried in the session cookie.
type SessionClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
