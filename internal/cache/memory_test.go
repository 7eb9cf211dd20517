package cache

import (
	"testing"
	"time"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	key := Key("model.json")
	if _, found := c.Get(key); found {
		t.Error("expected miss on empty cache")
	}

	if err := c.Set(key, []byte("artifact"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	value, found := c.Get(key)
	if !found {
		t.Fatal("expected hit after Set")
	}
	if string(value) != "artifact" {
		t.Errorf("Get = %q, want artifact", value)
	}
}

func TestMemoryCache_DeleteClear(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	_ = c.Set("a", []byte("1"), time.Minute)
	_ = c.Set("b", []byte("2"), time.Minute)

	if err := c.Delete("a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := c.Get("a"); found {
		t.Error("expected miss after Delete")
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, found := c.Get("b"); found {
		t.Error("expected miss after Clear")
	}
}

func TestKey_Stable(t *testing.T) {
	if Key("model.json") != Key("model.json") {
		t.Error("same path must produce the same key")
	}
	if Key("a.json") == Key("b.json") {
		t.Error("different paths must produce different keys")
	}
}
