package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tablescape/foodweb/pkg/disclosure"
)

func TestNewSession(t *testing.T) {
	st := disclosure.NewState()
	sess := New(st, time.Hour)

	if sess.ID == "" {
		t.Error("expected non-empty session ID")
	}
	if sess.ExpiresAt.Before(sess.CreatedAt) {
		t.Error("expected expiry after creation time")
	}
	if sess.IsExpired() {
		t.Error("fresh session should not be expired")
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess := New(disclosure.NewState(), time.Hour)
	sess.State.Phase = disclosure.Stage3

	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.State.Phase != disclosure.Stage3 {
		t.Errorf("expected phase %v, got %v", disclosure.Stage3, got.State.Phase)
	}

	// Mutating the returned session must not affect the store.
	got.State.Phase = disclosure.Full
	again, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if again.State.Phase != disclosure.Stage3 {
		t.Error("store returned aliased session state")
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess := New(disclosure.NewState(), -time.Minute)
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set: %v", err)
	}

	_, err := store.Get(ctx, sess.ID)
	if !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired, got %v", err)
	}

	// Expired sessions are evicted on read.
	_, err = store.Get(ctx, sess.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after eviction, got %v", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess := New(disclosure.NewState(), time.Hour)
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	live := New(disclosure.NewState(), time.Hour)
	dead := New(disclosure.NewState(), -time.Minute)
	for _, s := range []*Session{live, dead} {
		if err := store.Set(ctx, s); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	if err := store.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	if _, err := store.Get(ctx, live.ID); err != nil {
		t.Errorf("live session should survive cleanup: %v", err)
	}
	if _, err := store.Get(ctx, dead.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for swept session, got %v", err)
	}
}
