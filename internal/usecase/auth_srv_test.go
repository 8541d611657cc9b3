package usecase

import (
	"context"
	"testing"
	"time"

	"bus-booking/internal/dto/request"
)

func TestRegisterLoginLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registered, err := env.svc.Auth.Register(ctx, &request.RegisterRequest{
		Username: "rina",
		Email:    "Rina@Example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if registered.Token == "" || registered.Email != "rina@example.com" {
		t.Fatalf("Register() = %+v, want session token and normalised email", registered)
	}

	_, err = env.svc.Auth.Register(ctx, &request.RegisterRequest{Username: "rina2", Email: "rina@example.com", Password: "secret123"})
	assertErrorIs(t, err, ErrEmailRegistered)
	_, err = env.svc.Auth.Register(ctx, &request.RegisterRequest{Username: "rina", Email: "other@example.com", Password: "secret123"})
	assertErrorIs(t, err, ErrUsernameTaken)

	testCases := []struct {
		name     string
		login    request.LoginRequest
		wantErr  error
		wantUser string
	}{
		{name: "by username", login: request.LoginRequest{Username: "rina", Password: "secret123"}, wantUser: "rina"},
		{name: "by email", login: request.LoginRequest{Username: "RINA@example.com", Password: "secret123"}, wantUser: "rina"},
		{name: "wrong password", login: request.LoginRequest{Username: "rina", Password: "wrong-pass"}, wantErr: ErrInvalidCredentials},
		{name: "unknown user", login: request.LoginRequest{Username: "ghost", Password: "secret123"}, wantErr: ErrInvalidCredentials},
		{name: "short password", login: request.LoginRequest{Username: "rina", Password: "123"}, wantErr: ErrValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := env.svc.Auth.Login(ctx, &tc.login)
			if tc.wantErr != nil {
				assertErrorIs(t, err, tc.wantErr)
				return
			}
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			if resp.Username != tc.wantUser || resp.Token == "" {
				t.Fatalf("Login() = %+v, want %s with token", resp, tc.wantUser)
			}
		})
	}

	if err := env.svc.Auth.Logout(ctx, registered.Token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if session, _ := env.sessions.FindValidSession(ctx, registered.Token); session != nil {
		t.Fatal("session still valid after logout")
	}
	assertErrorIs(t, env.svc.Auth.Logout(ctx, "not-a-token"), ErrInvalidID)
}

func TestSessionExpiresAfterConfiguredHours(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.svc.Auth.Register(ctx, &request.RegisterRequest{Username: "sari", Email: "sari@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	env.clock.Advance(23 * time.Hour)
	if session, _ := env.sessions.FindValidSession(ctx, resp.Token); session == nil {
		t.Fatal("session expired before 24h")
	}
	env.clock.Advance(time.Hour)
	if session, _ := env.sessions.FindValidSession(ctx, resp.Token); session != nil {
		t.Fatal("session still valid after 24h")
	}
}

func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.svc.Auth.Register(ctx, &request.RegisterRequest{Username: "budi", Email: "budi@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	for _, user := range env.users.users {
		if user.ID.String() == resp.UserID {
			user.IsActive = false
		}
	}

	_, err = env.svc.Auth.Login(ctx, &request.LoginRequest{Username: "budi", Password: "secret123"})
	assertErrorIs(t, err, ErrAccountDeactivated)
}

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.svc.Auth.Register(ctx, &request.RegisterRequest{Username: "sari", Email: "sari@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	var userID = env.alice
	for id := range env.users.users {
		if id.String() == resp.UserID {
			userID = id
		}
	}

	profile, err := env.svc.User.GetProfile(ctx, userID)
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if profile.Username != "sari" {
		t.Fatalf("GetProfile() = %+v, want sari", profile)
	}

	_, err = env.svc.User.GetProfile(ctx, env.bob)
	assertErrorIs(t, err, ErrUserNotFound)
}
