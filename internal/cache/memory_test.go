package cache

import (
	"context"
	"testing"
	"time"

	"github.com/fortunecookie-ai/fortune-api/internal/types"
)

func sample() *types.FortuneResult {
	return &types.FortuneResult{
		Message:      "A pleasant surprise is waiting for you.",
		LuckyNumbers: []int{4, 8, 15, 16, 23, 42},
		Theme:        "random",
		Source:       types.SourceDatabase,
		Timestamp:    types.NewTimestamp(time.Now()),
	}
}

func TestMemoryStore_PutGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, ok := s.Get(ctx, "missing"); ok {
		t.Fatal("expected miss on empty store")
	}

	s.Put(ctx, "fp1", sample(), time.Minute)
	got, ok := s.Get(ctx, "fp1")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Message != "A pleasant surprise is waiting for you." {
		t.Errorf("unexpected message: %q", got.Message)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore()
	current := time.Now()
	s.now = func() time.Time { return current }
	ctx := context.Background()

	s.Put(ctx, "fp1", sample(), time.Minute)

	current = current.Add(30 * time.Second)
	if _, ok := s.Get(ctx, "fp1"); !ok {
		t.Fatal("expected hit before expiry")
	}

	current = current.Add(31 * time.Second)
	if _, ok := s.Get(ctx, "fp1"); ok {
		t.Fatal("expected miss after expiry")
	}
	if s.Len() != 0 {
		t.Error("expected lazy expiry to drop the entry")
	}
}

func TestMemoryStore_Overwrite(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Put(ctx, "fp1", sample(), time.Minute)
	fresh := sample()
	fresh.Message = "New horizons open before you."
	s.Put(ctx, "fp1", fresh, time.Minute)

	got, ok := s.Get(ctx, "fp1")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Message != "New horizons open before you." {
		t.Errorf("expected overwrite, got %q", got.Message)
	}
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Put(ctx, "fp1", sample(), time.Minute)
	first, _ := s.Get(ctx, "fp1")
	first.Message = "mutated"

	second, _ := s.Get(ctx, "fp1")
	if second.Message == "mutated" {
		t.Error("cached entry must not be mutable through Get")
	}
}

func TestMemoryStore_ZeroTTLNotStored(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Put(ctx, "fp1", sample(), 0)
	if _, ok := s.Get(ctx, "fp1"); ok {
		t.Error("zero TTL entries must not be served")
	}
}
