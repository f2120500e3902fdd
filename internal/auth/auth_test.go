package auth

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/minhdang/planboard/internal/apperr"
	"github.com/minhdang/planboard/internal/store"
)

func testService(t *testing.T, ttl time.Duration) (*Service, *store.DB) {
	t.Helper()
	dbFile, err := os.CreateTemp("", "planboard-auth-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return NewService(db, ttl), db
}

func addAccount(t *testing.T, db *store.DB, username, password string) {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.CreateAccount(username, hash); err != nil {
		t.Fatal(err)
	}
}

func TestLoginAndValidate(t *testing.T) {
	svc, db := testService(t, time.Hour)
	addAccount(t, db, "admin", "s3cret")

	sess, err := svc.Login(context.Background(), "admin", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.Token == "" {
		t.Fatal("empty token")
	}
	if sess.Username != "admin" {
		t.Errorf("Username = %q", sess.Username)
	}
	if time.Until(sess.ExpiresAt) <= 0 {
		t.Errorf("session already expired: %v", sess.ExpiresAt)
	}

	got, err := svc.Validate(context.Background(), sess.Token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got.Username != "admin" {
		t.Errorf("Validate username = %q", got.Username)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, db := testService(t, time.Hour)
	addAccount(t, db, "admin", "s3cret")

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "nope"},
		{"unknown user", "ghost", "s3cret"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.username, tc.password)
			if !errors.Is(err, apperr.ErrUnauthorized) {
				t.Errorf("err = %v, want ErrUnauthorized", err)
			}
		})
	}
}

func TestValidateRejectsUnknownToken(t *testing.T) {
	svc, _ := testService(t, time.Hour)

	_, err := svc.Validate(context.Background(), "not-a-token")
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestValidateRejectsExpiredSession(t *testing.T) {
	svc, db := testService(t, time.Millisecond)
	addAccount(t, db, "admin", "s3cret")

	sess, err := svc.Login(context.Background(), "admin", "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, err := svc.Validate(context.Background(), sess.Token); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}
