package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "fx-alert-hub/internal/domain/auth"
)

type fakeUserRepo struct {
	user domain.User
	err  error
}

func (f fakeUserRepo) FindByEmail(_ context.Context, _ string) (domain.User, error) {
	if f.err != nil {
		return domain.User{}, f.err
	}
	return f.user, nil
}

func (f fakeUserRepo) FindByID(_ context.Context, _ string) (domain.User, error) {
	if f.err != nil {
		return domain.User{}, f.err
	}
	return f.user, nil
}

type fakeHasher struct{ ok bool }

func (f fakeHasher) Compare(_, _ string) bool { return f.ok }

type fakeIssuer struct{ err error }

func (f fakeIssuer) Issue(_ domain.User) (domain.Token, error) {
	if f.err != nil {
		return domain.Token{}, f.err
	}
	return domain.Token{AccessToken: "signed", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func activeUser() domain.User {
	return domain.User{ID: "u-1", Email: "admin@example.com", Role: domain.RoleAdmin, Status: domain.StatusActive, Password: "$hash"}
}

func TestLoginUseCase_Execute(t *testing.T) {
	uc := NewLoginUseCase(fakeUserRepo{user: activeUser()}, fakeHasher{ok: true}, fakeIssuer{})

	res, err := uc.Execute(context.Background(), LoginInput{Email: " Admin@Example.com ", Password: "pw"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Token.AccessToken != "signed" {
		t.Errorf("expected issued token, got %+v", res.Token)
	}
	if res.User.ID != "u-1" {
		t.Errorf("expected user in result, got %+v", res.User)
	}
}

func TestLoginUseCase_Execute_Errors(t *testing.T) {
	tests := []struct {
		name   string
		repo   fakeUserRepo
		hasher fakeHasher
		issuer fakeIssuer
		input  LoginInput
	}{
		{"empty_input", fakeUserRepo{user: activeUser()}, fakeHasher{ok: true}, fakeIssuer{}, LoginInput{}},
		{"user_not_found", fakeUserRepo{err: errors.New("no rows")}, fakeHasher{ok: true}, fakeIssuer{}, LoginInput{Email: "x@y.com", Password: "pw"}},
		{"disabled_user", fakeUserRepo{user: domain.User{ID: "u-2", Status: domain.StatusDisabled}}, fakeHasher{ok: true}, fakeIssuer{}, LoginInput{Email: "x@y.com", Password: "pw"}},
		{"wrong_password", fakeUserRepo{user: activeUser()}, fakeHasher{ok: false}, fakeIssuer{}, LoginInput{Email: "x@y.com", Password: "pw"}},
		{"issue_failure", fakeUserRepo{user: activeUser()}, fakeHasher{ok: true}, fakeIssuer{err: errors.New("boom")}, LoginInput{Email: "x@y.com", Password: "pw"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewLoginUseCase(tt.repo, tt.hasher, tt.issuer)
			if _, err := uc.Execute(context.Background(), tt.input); err == nil {
				t.Error("expected error")
			}
		})
	}
}
