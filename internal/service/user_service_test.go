package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	dom "github.com/yokanm/task-management-app/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(h)
}

func TestValidateCredentials(t *testing.T) {
	users := &mockUserRepo{
		GetByUsernameFunc: func(_ context.Context, username string) (dom.User, error) {
			if username == "alice" {
				return dom.User{ID: 1, Username: "alice", PasswordHash: hashOf(t, "secret"), IsActive: true}, nil
			}
			return dom.User{}, errNoRows()
		},
	}
	svc := NewUserService(users)

	u, err := svc.ValidateCredentials(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("valid credentials: %v", err)
	}
	if u.ID != 1 {
		t.Errorf("user id = %d, want 1", u.ID)
	}

	if _, err := svc.ValidateCredentials(context.Background(), "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.ValidateCredentials(context.Background(), "nobody", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.ValidateCredentials(context.Background(), "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("empty credentials err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	var storedHash string
	users := &mockUserRepo{
		CreateFunc: func(_ context.Context, username, passwordHash string) (dom.User, error) {
			storedHash = passwordHash
			return dom.User{ID: 1, Username: username, PasswordHash: passwordHash, IsActive: true}, nil
		},
	}
	svc := NewUserService(users)

	if _, err := svc.Register(context.Background(), "bob", "hunter2"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if storedHash == "hunter2" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("hunter2")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestDeactivateRequiresPassword(t *testing.T) {
	deactivated := false
	var salted string
	users := &mockUserRepo{
		GetByIDFunc: func(_ context.Context, id int64) (dom.User, error) {
			return dom.User{ID: id, Username: "carol", PasswordHash: hashOf(t, "pw"), IsActive: true}, nil
		},
		DeactivateFunc: func(_ context.Context, _ int64, saltedUsername string) error {
			deactivated = true
			salted = saltedUsername
			return nil
		},
	}
	svc := NewUserService(users)

	if err := svc.Deactivate(context.Background(), 1, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if deactivated {
		t.Fatal("account deactivated despite wrong password")
	}

	if err := svc.Deactivate(context.Background(), 1, "pw"); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if !deactivated {
		t.Fatal("deactivate never reached the store")
	}
	if !strings.HasPrefix(salted, "deleted_") || !strings.HasSuffix(salted, "_carol") {
		t.Errorf("salted username = %q, want deleted_<ts>_carol", salted)
	}
}
