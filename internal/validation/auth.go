package validation

import (
	"net/mail"
	"strings"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/request"
)

// Password length bounds accepted at registration. The maximum is in bytes,
// the longest input bcrypt will hash.
const (
	MinPasswordLength = 8
	MaxPasswordBytes  = 72
)

// ValidateRegister validates an account registration request.
func ValidateRegister(req request.RegisterRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.FullName) == "" {
		errors["fullName"] = "fullName is required"
	} else if len(req.FullName) > 100 {
		errors["fullName"] = "fullName must be 100 characters or less"
	}

	if strings.TrimSpace(req.Email) == "" {
		errors["email"] = "email is required"
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		errors["email"] = "invalid email address"
	}

	if len(req.Password) < MinPasswordLength {
		errors["password"] = "password must be at least 8 characters"
	} else if len(req.Password) > MaxPasswordBytes {
		errors["password"] = "password must be 72 bytes or less"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateLogin validates a login request. Only presence is checked.
func ValidateLogin(req request.LoginRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Email) == "" {
		errors["email"] = "email is required"
	}
	if req.Password == "" {
		errors["password"] = "password is required"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// MaxQuoteSymbols bounds a single quotes request.
const MaxQuoteSymbols = 50

// ValidateQuotes validates a quotes request.
func ValidateQuotes(req request.QuotesRequest) error {
	if len(req.Symbols) == 0 {
		return &Error{Fields: map[string]string{"symbols": ErrEmptySlice.Error()}}
	}
	if len(req.Symbols) > MaxQuoteSymbols {
		return &Error{Fields: map[string]string{"symbols": "too many symbols"}}
	}
	for _, s := range req.Symbols {
		if err := ValidateSymbol(s); err != nil {
			return &Error{Fields: map[string]string{"symbols": err.Error()}}
		}
	}
	return nil
}
