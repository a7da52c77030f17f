package store

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func setupTestRedis(t *testing.T) *RedisStore {
	s := miniredis.RunT(t)
	store, err := NewRedisStore("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRedisSaveAndLoad(t *testing.T) {
	store := setupTestRedis(t)
	ctx := context.Background()

	if err := store.Save(ctx, "alice", "# Alice's Resume"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != "# Alice's Resume" {
		t.Errorf("expected %q, got %q", "# Alice's Resume", got)
	}
}

func TestRedisLoadAbsent(t *testing.T) {
	store := setupTestRedis(t)

	_, err := store.Load(context.Background(), "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisSaveReplaces(t *testing.T) {
	store := setupTestRedis(t)
	ctx := context.Background()

	if err := store.Save(ctx, "bob", "first"); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	if err := store.Save(ctx, "bob", "second"); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := store.Load(ctx, "bob")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != "second" {
		t.Errorf("expected latest save to win, got %q", got)
	}
}

func TestRedisUserIsolation(t *testing.T) {
	store := setupTestRedis(t)
	ctx := context.Background()

	if err := store.Save(ctx, "alice", "alice doc"); err != nil {
		t.Fatalf("Save alice failed: %v", err)
	}
	if err := store.Save(ctx, "bob", "bob doc"); err != nil {
		t.Fatalf("Save bob failed: %v", err)
	}

	aliceDoc, err := store.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("Load alice failed: %v", err)
	}
	if aliceDoc != "alice doc" {
		t.Errorf("expected alice doc, got %q", aliceDoc)
	}

	bobDoc, err := store.Load(ctx, "bob")
	if err != nil {
		t.Fatalf("Load bob failed: %v", err)
	}
	if bobDoc != "bob doc" {
		t.Errorf("expected bob doc, got %q", bobDoc)
	}
}

func TestRedisPing(t *testing.T) {
	store := setupTestRedis(t)
	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}
