package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/repository"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/service"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/testutil"
)

// TestUserService_Register tests account creation.
//
// WHY: Every simulated account must open with the fixed starting balance, and an
// email can only be registered once regardless of case.
func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user with starting cash and hashed password", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestUserService(t, db)

		// Execute
		user, err := svc.Register(ctx, "  Jane Doe ", "Jane@Example.com", "secret-pass")

		// Assert
		if err != nil {
			t.Fatalf("Register() returned unexpected error: %v", err)
		}
		if !user.CashBalance.Equal(model.StartingCash) {
			t.Errorf("Expected starting cash %s, got %s", model.StartingCash, user.CashBalance)
		}
		if user.FullName != "Jane Doe" || user.Email != "jane@example.com" {
			t.Errorf("Expected normalized name and email, got %q %q", user.FullName, user.Email)
		}
		if user.PasswordHash == "" || user.PasswordHash == "secret-pass" {
			t.Error("Expected password to be hashed")
		}
		testutil.AssertRowCount(t, db, "user", 1)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestUserService(t, db)
		if _, err := svc.Register(ctx, "A", "dup@example.com", "pw-one-two"); err != nil {
			t.Fatalf("Register() returned unexpected error: %v", err)
		}

		// Execute
		_, err := svc.Register(ctx, "B", "DUP@example.com", "pw-three-four")

		// Assert
		if !errors.Is(err, apperrors.ErrDuplicateEntry) {
			t.Errorf("Expected ErrDuplicateEntry, got %v", err)
		}
		testutil.AssertRowCount(t, db, "user", 1)
	})
}

// TestUserService_Login tests credential checks and token issuing.
func TestUserService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials return a token for the user", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestUserService(t, db)
		user := testutil.NewUser().WithEmail("login@example.com").WithPassword("hunter22").Build(t, db)

		// Execute
		result, err := svc.Login(ctx, "LOGIN@example.com", "hunter22")

		// Assert
		if err != nil {
			t.Fatalf("Login() returned unexpected error: %v", err)
		}
		if result.Token == "" {
			t.Fatal("Expected a token")
		}
		if result.User.ID != user.ID || result.User.FullName != user.FullName {
			t.Errorf("Unexpected profile: %+v", result.User)
		}

		userID, err := svc.ParseToken(result.Token)
		if err != nil {
			t.Fatalf("ParseToken() returned unexpected error: %v", err)
		}
		if userID != user.ID {
			t.Errorf("Expected token for %s, got %s", user.ID, userID)
		}
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestUserService(t, db)
		testutil.NewUser().WithEmail("known@example.com").Build(t, db)

		// Execute
		_, errWrong := svc.Login(ctx, "known@example.com", "not-the-password")
		_, errUnknown := svc.Login(ctx, "unknown@example.com", testutil.DefaultPassword)

		// Assert
		if !errors.Is(errWrong, apperrors.ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials for wrong password, got %v", errWrong)
		}
		if !errors.Is(errUnknown, apperrors.ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials for unknown email, got %v", errUnknown)
		}
	})
}

func TestUserService_ParseToken(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestUserService(t, db)
	testutil.NewUser().WithEmail("tok@example.com").Build(t, db)

	result, err := svc.Login(ctx, "tok@example.com", testutil.DefaultPassword)
	if err != nil {
		t.Fatalf("Login() returned unexpected error: %v", err)
	}

	tests := []struct {
		name  string
		svc   *service.UserService
		token string
	}{
		{name: "garbage", svc: svc, token: "not-a-jwt"},
		{name: "empty", svc: svc, token: ""},
		{name: "tampered", svc: svc, token: result.Token + "x"},
		{
			name:  "signed with another secret",
			svc:   service.NewUserService(repository.NewUserRepository(db), "other-secret", 0),
			token: result.Token,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.svc.ParseToken(tt.token); !errors.Is(err, apperrors.ErrInvalidToken) {
				t.Errorf("Expected ErrInvalidToken, got %v", err)
			}
		})
	}

	t.Run("expired token", func(t *testing.T) {
		expiring := service.NewUserService(repository.NewUserRepository(db), testutil.TestJWTSecret, -time.Minute)
		res, err := expiring.Login(ctx, "tok@example.com", testutil.DefaultPassword)
		if err != nil {
			t.Fatalf("Login() returned unexpected error: %v", err)
		}
		if _, err := svc.ParseToken(res.Token); !errors.Is(err, apperrors.ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken for expired token, got %v", err)
		}
	})
}
