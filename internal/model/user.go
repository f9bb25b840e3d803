package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StartingCash is the virtual balance every account opens with.
var StartingCash = decimal.NewFromInt(100000)

// User represents a registered account. PasswordHash never leaves the service layer.
type User struct {
	ID           string          `json:"id"`
	FullName     string          `json:"fullName"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	CashBalance  decimal.Decimal `json:"cashBalance"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// UserProfile is the public subset of a User returned after login.
type UserProfile struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	CreatedAt time.Time `json:"createdAt"`
}

// LoginResult bundles the issued bearer token with the profile it belongs to.
type LoginResult struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}
