package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestCache_SetGetRoundtrip(t *testing.T) {
	c := New("test", 1<<20, time.Hour)

	c.Set("doc1:extraction:", "extracted text")
	got, hit := c.Get("doc1:extraction:")
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if got.(string) != "extracted text" {
		t.Errorf("got %v", got)
	}

	if _, hit := c.Get("doc1:analysis:"); hit {
		t.Error("unexpected hit for unknown key")
	}
}

func TestCache_LRUEviction(t *testing.T) {
	//each []byte entry costs its length; cap fits exactly 5 entries
	c := New("test", 500, time.Hour)
	payload := make([]byte, 100)

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("key%d", i), payload)
	}
	//touch key0 so key1 is the LRU victim
	if _, hit := c.Get("key0"); !hit {
		t.Fatal("key0 should be resident")
	}

	c.Set("key5", payload)

	if _, hit := c.Get("key1"); hit {
		t.Error("key1 should have been evicted as least recently used")
	}
	if _, hit := c.Get("key0"); !hit {
		t.Error("key0 was recently used and should survive")
	}
	if _, hit := c.Get("key5"); !hit {
		t.Error("key5 was just inserted")
	}
	if evictions := c.Stats().Evictions; evictions != 1 {
		t.Errorf("expected 1 eviction, got %d", evictions)
	}
}

func TestCache_LazyTTLExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	c := NewWithClock("test", 1<<20, time.Hour, clock)

	c.Set("key", "value")
	if _, hit := c.Get("key"); !hit {
		t.Fatal("fresh entry should hit")
	}

	now = now.Add(2 * time.Hour)
	if _, hit := c.Get("key"); hit {
		t.Error("expired entry should miss")
	}
	//the expired entry must also be physically gone
	if items := c.Stats().Items; items != 0 {
		t.Errorf("expired entry still resident: %d items", items)
	}
}

func TestCache_SetTTLOverridesDefault(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	c := NewWithClock("test", 1<<20, time.Hour, clock)

	c.SetTTL("short", "v", time.Minute)
	c.Set("long", "v")

	now = now.Add(10 * time.Minute)
	if c.Has("short") {
		t.Error("short TTL entry should be expired")
	}
	if !c.Has("long") {
		t.Error("default TTL entry should still be alive")
	}
}

func TestCache_OversizedEntryRejected(t *testing.T) {
	c := New("test", 100, time.Hour)
	c.Set("huge", make([]byte, 1000))
	if c.Has("huge") {
		t.Error("entry larger than the whole cache must not be stored")
	}
}

func TestCache_DeletePrefix(t *testing.T) {
	c := New("test", 1<<20, time.Hour)
	c.Set(Key("doc1", "extraction", nil), "a")
	c.Set(Key("doc1", "analysis", nil), "b")
	c.Set(Key("doc2", "extraction", nil), "c")

	removed := c.DeletePrefix(DocumentPrefix("doc1"))
	if removed != 2 {
		t.Fatalf("expected 2 removals, got %d", removed)
	}
	if c.Has(Key("doc1", "extraction", nil)) || c.Has(Key("doc1", "analysis", nil)) {
		t.Error("doc1 entries should be gone")
	}
	if !c.Has(Key("doc2", "extraction", nil)) {
		t.Error("doc2 entry should be untouched")
	}
}

func TestKey_StableAcrossMapOrder(t *testing.T) {
	a := Key("doc1", "chunks", map[string]any{"max": 8000, "overlap": 200, "boundaries": true})
	b := Key("doc1", "chunks", map[string]any{"boundaries": true, "overlap": 200, "max": 8000})
	if a != b {
		t.Errorf("same options hashed differently: %s vs %s", a, b)
	}

	c := Key("doc1", "chunks", map[string]any{"max": 4000, "overlap": 200, "boundaries": true})
	if a == c {
		t.Error("different options must not collide")
	}
}

func TestKey_NilOptions(t *testing.T) {
	if got := Key("doc1", "extraction", nil); got != "doc1:extraction:" {
		t.Errorf("unexpected key %q", got)
	}
}

func TestCache_Stats(t *testing.T) {
	c := New("test", 1<<20, time.Hour)
	c.Set("a", "x")
	c.Get("a")
	c.Get("missing")

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Items != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}
