package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)
	store.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	_ = store.GetOrCreate("quiz-1")
	if !mr.Exists("quiz:session:quiz-1") {
		t.Fatalf("expected redis key to be set")
	}
	if got, _ := mr.Get("quiz:session:quiz-1"); got != "1700000000" {
		t.Fatalf("expected start time marker, got %q", got)
	}
	if ttl := mr.TTL("quiz:session:quiz-1"); ttl != time.Minute {
		t.Fatalf("expected 1m ttl, got %v", ttl)
	}
	if store.Count() != 1 {
		t.Fatalf("expected 1 session, got %d", store.Count())
	}

	mr.FastForward(30 * time.Second)
	if _, ok := store.Get("quiz-1"); !ok {
		t.Fatalf("expected session present")
	}
	if ttl := mr.TTL("quiz:session:quiz-1"); ttl != time.Minute {
		t.Fatalf("expected ttl refreshed on access, got %v", ttl)
	}

	store.DeleteIfEmpty("quiz-1")
	if mr.Exists("quiz:session:quiz-1") {
		t.Fatalf("expected redis key to be removed")
	}
	if store.Count() != 0 {
		t.Fatalf("expected no sessions, got %d", store.Count())
	}
}
