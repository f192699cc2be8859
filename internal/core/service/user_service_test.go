package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/marketsquare/account-system/internal/core/domain"
	"github.com/marketsquare/account-system/internal/core/ports"
)

func strPtr(s string) *string { return &s }

func TestUserService_Get_NotFoundNamesID(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), zerolog.Nop())

	_, err := svc.Get(context.Background(), "missing-id")
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err.Error() != `User with id "missing-id" not found` {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestUserService_Update_UsernamePattern(t *testing.T) {
	repo := newStubUserRepo(&domain.User{UUID: "u1", Username: "jane"})
	svc := NewUserService(repo, zerolog.Nop())

	_, err := svc.Update(context.Background(), "u1", ports.UserUpdate{Username: strPtr("jane doe")})
	if !domain.IsKind(err, domain.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err.Error() != "Username can only contain letters and numbers" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestUserService_Update_UsernameConflict(t *testing.T) {
	repo := newStubUserRepo(
		&domain.User{UUID: "u1", Username: "jane"},
		&domain.User{UUID: "u2", Username: "Bob"},
	)
	svc := NewUserService(repo, zerolog.Nop())

	if _, err := svc.Update(context.Background(), "u1", ports.UserUpdate{Username: strPtr("BOB")}); !domain.IsKind(err, domain.KindConflict) {
		t.Fatalf("expected conflict for case-variant of taken username, got %v", err)
	}

	// Renaming to a casing variant of your own username is fine.
	updated, err := svc.Update(context.Background(), "u1", ports.UserUpdate{Username: strPtr("Jane")})
	if err != nil {
		t.Fatalf("self-rename failed: %v", err)
	}
	if updated.Username != "Jane" {
		t.Fatalf("expected original casing stored, got %q", updated.Username)
	}
}

func TestUserService_Update_NamesValidated(t *testing.T) {
	repo := newStubUserRepo(&domain.User{UUID: "u1", Username: "jane"})
	svc := NewUserService(repo, zerolog.Nop())

	if _, err := svc.Update(context.Background(), "u1", ports.UserUpdate{FirstName: strPtr("J4ne")}); !domain.IsKind(err, domain.KindValidation) {
		t.Fatalf("expected validation error for first name, got %v", err)
	}

	updated, err := svc.Update(context.Background(), "u1", ports.UserUpdate{
		FirstName: strPtr("Anne-Marie"),
		LastName:  strPtr("O'Brien"),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.FirstName != "Anne-Marie" || updated.LastName != "O'Brien" {
		t.Fatalf("unexpected names: %q %q", updated.FirstName, updated.LastName)
	}
}

func TestUserService_Update_RoleParsed(t *testing.T) {
	repo := newStubUserRepo(&domain.User{UUID: "u1", Username: "jane", Role: domain.RoleUser})
	svc := NewUserService(repo, zerolog.Nop())

	if _, err := svc.Update(context.Background(), "u1", ports.UserUpdate{Role: strPtr("superadmin")}); !domain.IsKind(err, domain.KindValidation) {
		t.Fatalf("expected validation error for unknown role, got %v", err)
	}

	updated, err := svc.Update(context.Background(), "u1", ports.UserUpdate{Role: strPtr("seller")})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Role != domain.RoleSeller {
		t.Fatalf("expected seller role, got %s", updated.Role)
	}
}

func TestUserService_Delete(t *testing.T) {
	repo := newStubUserRepo(&domain.User{UUID: "u1", Username: "jane"})
	svc := NewUserService(repo, zerolog.Nop())

	if err := svc.Delete(context.Background(), "u1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete(context.Background(), "u1"); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestUserService_Availability(t *testing.T) {
	repo := newStubUserRepo(&domain.User{UUID: "u1", Username: "Jane", Email: "jane@example.com"})
	svc := NewUserService(repo, zerolog.Nop())

	cases := []struct {
		username string
		want     bool
	}{
		{"jane", false},
		{"JANE", false},
		{"bob", true},
		{"", false},
	}
	for _, tc := range cases {
		got, err := svc.UsernameAvailable(context.Background(), tc.username)
		if err != nil {
			t.Fatalf("UsernameAvailable(%q) error: %v", tc.username, err)
		}
		if got != tc.want {
			t.Fatalf("UsernameAvailable(%q) = %v, want %v", tc.username, got, tc.want)
		}
	}

	if got, _ := svc.EmailAvailable(context.Background(), "jane@example.com"); got {
		t.Fatalf("expected taken email to be unavailable")
	}
	if got, _ := svc.EmailAvailable(context.Background(), "new@example.com"); !got {
		t.Fatalf("expected fresh email to be available")
	}
}
