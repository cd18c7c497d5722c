package cache

import (
	"context"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "svg:abc", []byte("<svg/>"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "svg:abc")
	if err != nil || !hit {
		t.Fatalf("Get = %v, %v, %v", data, hit, err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("data = %q", data)
	}

	if err := c.Delete(ctx, "svg:abc"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "svg:abc"); hit {
		t.Error("entry survived Delete")
	}

	// Deleting a missing key is fine.
	if err := c.Delete(ctx, "nope"); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), -time.Second); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash must be deterministic")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64", len(h1))
	}
	if Hash([]byte("a")) == Hash([]byte("b")) {
		t.Error("distinct inputs should hash differently")
	}
}

func TestArtifactKey(t *testing.T) {
	type fp struct {
		Phase string
		Mode  string
	}
	k1 := ArtifactKey("abc", "svg", fp{Phase: "full", Mode: "default"})
	k2 := ArtifactKey("abc", "svg", fp{Phase: "full", Mode: "default"})
	k3 := ArtifactKey("abc", "svg", fp{Phase: "full", Mode: "regen"})
	if k1 != k2 {
		t.Error("same fingerprint must yield the same key")
	}
	if k1 == k3 {
		t.Error("different fingerprints must yield different keys")
	}
	if k1 == ArtifactKey("abc", "dot", fp{Phase: "full", Mode: "default"}) {
		t.Error("format must participate in the key")
	}
}
