package session

import (
	"context"
	"errors"
	"testing"

	"github.com/visioncare/records/internal/platform/kvstore"
)

func newTestGate() (*Gate, kvstore.Store) {
	store := kvstore.NewMemory()
	return NewGate(store, "admin", "secret", []byte("test-signing-key")), store
}

func TestGateLogin(t *testing.T) {
	gate, store := newTestGate()
	ctx := context.Background()

	token, err := gate.Login(ctx, "admin", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Error("expected a session token")
	}

	v, ok, _ := store.Get(ctx, kvstore.KeyLoggedIn)
	if !ok || string(v) != "true" {
		t.Errorf("expected persisted flag \"true\", got %q ok=%v", v, ok)
	}

	loggedIn, err := gate.IsLoggedIn(ctx)
	if err != nil || !loggedIn {
		t.Errorf("expected logged in, got %v err=%v", loggedIn, err)
	}

	if err := gate.VerifyToken(token); err != nil {
		t.Errorf("expected issued token to verify, got %v", err)
	}
}

func TestGateLoginRejectsBadCredentials(t *testing.T) {
	gate, store := newTestGate()
	ctx := context.Background()

	for _, pair := range [][2]string{
		{"admin", "wrong"},
		{"wrong", "secret"},
		{"", ""},
	} {
		if _, err := gate.Login(ctx, pair[0], pair[1]); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("credentials %q/%q: expected ErrInvalidCredentials, got %v", pair[0], pair[1], err)
		}
	}

	if _, ok, _ := store.Get(ctx, kvstore.KeyLoggedIn); ok {
		t.Error("expected flag untouched after failed login")
	}
}

func TestGateLogout(t *testing.T) {
	gate, store := newTestGate()
	ctx := context.Background()

	if _, err := gate.Login(ctx, "admin", "secret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := gate.Logout(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok, _ := store.Get(ctx, kvstore.KeyLoggedIn); ok {
		t.Error("expected flag cleared after logout")
	}
	loggedIn, _ := gate.IsLoggedIn(ctx)
	if loggedIn {
		t.Error("expected logged out")
	}
}

func TestGateFlagIgnoresOtherValues(t *testing.T) {
	gate, store := newTestGate()
	ctx := context.Background()

	if err := store.Set(ctx, kvstore.KeyLoggedIn, []byte("yes")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loggedIn, err := gate.IsLoggedIn(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loggedIn {
		t.Error("expected only the literal \"true\" to count as logged in")
	}
}

func TestGateFlagSurvivesReload(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	gate := NewGate(store, "admin", "secret", []byte("k"))

	if _, err := gate.Login(ctx, "admin", "secret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A fresh gate over the same store sees the persisted session.
	gate2 := NewGate(store, "admin", "secret", []byte("k"))
	loggedIn, err := gate2.IsLoggedIn(ctx)
	if err != nil || !loggedIn {
		t.Errorf("expected persisted session visible to new gate, got %v err=%v", loggedIn, err)
	}
}

func TestGateVerifyTokenRejectsForged(t *testing.T) {
	gate, _ := newTestGate()
	other := NewGate(kvstore.NewMemory(), "admin", "secret", []byte("different-key"))

	token, err := other.Login(context.Background(), "admin", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := gate.VerifyToken(token); err == nil {
		t.Error("expected token signed with another key to fail")
	}
	if err := gate.VerifyToken("not-a-token"); err == nil {
		t.Error("expected garbage token to fail")
	}
}
