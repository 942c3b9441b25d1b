package cache

import (
	"context"
	"testing"
	"time"
)

func TestFileCacheSetGet(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "k1", []byte("payload"), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	data, found, err := c.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !found {
		t.Fatal("Get() miss, want hit")
	}
	if string(data) != "payload" {
		t.Errorf("Get() = %q, want payload", data)
	}
}

func TestFileCacheMiss(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	defer c.Close()

	_, found, err := c.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if found {
		t.Error("Get() hit on absent key")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "k1", []byte("old"), time.Nanosecond); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	_, found, err := c.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if found {
		t.Error("Get() hit on expired entry")
	}
}

func TestFileCacheDelete(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	defer c.Close()

	ctx := context.Background()
	c.Set(ctx, "k1", []byte("x"), 0)
	if err := c.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, found, _ := c.Get(ctx, "k1"); found {
		t.Error("Get() hit after delete")
	}

	// Deleting a missing key is fine.
	if err := c.Delete(ctx, "never-existed"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}
}

func TestFileCacheOverwrite(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	defer c.Close()

	ctx := context.Background()
	c.Set(ctx, "k1", []byte("first"), 0)
	c.Set(ctx, "k1", []byte("second"), 0)

	data, _, _ := c.Get(ctx, "k1")
	if string(data) != "second" {
		t.Errorf("Get() = %q, want second", data)
	}
}

func TestNullCacheNeverStores(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k1", []byte("x"), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if _, found, _ := c.Get(ctx, "k1"); found {
		t.Error("NullCache returned a hit")
	}
}

func TestHashStable(t *testing.T) {
	a := Hash([]byte("same input"))
	b := Hash([]byte("same input"))
	if a != b {
		t.Errorf("Hash() not stable: %s != %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("Hash() length = %d, want 64", len(a))
	}
	if Hash([]byte("other")) == a {
		t.Error("Hash() collided on different inputs")
	}
}

func TestKeyerDeterministic(t *testing.T) {
	k := NewDefaultKeyer()
	opts := GraphKeyOpts{BuildDir: "/src", Context: 2, Offset: 1000, Analyze: true}

	if k.GraphKey("abc", opts) != k.GraphKey("abc", opts) {
		t.Error("GraphKey() not deterministic")
	}
	if k.GraphKey("abc", opts) == k.GraphKey("def", opts) {
		t.Error("GraphKey() ignores the errors hash")
	}

	other := opts
	other.Context = 3
	if k.GraphKey("abc", opts) == k.GraphKey("abc", other) {
		t.Error("GraphKey() ignores build options")
	}
}

func TestKeyerSeparatesGraphAndLayout(t *testing.T) {
	k := NewDefaultKeyer()
	g := k.GraphKey("h", GraphKeyOpts{})
	l := k.LayoutKey("h", LayoutKeyOpts{})
	if g == l {
		t.Error("graph and layout keys collide for the same hash")
	}
}

func TestLayoutKeyCoversConfig(t *testing.T) {
	k := NewDefaultKeyer()
	base := LayoutKeyOpts{Algorithm: "layered", NodeWidth: 180, NodeHeight: 100, GapX: 60, GapY: 40}

	changed := base
	changed.GapX = 80
	if k.LayoutKey("h", base) == k.LayoutKey("h", changed) {
		t.Error("LayoutKey() ignores gap changes")
	}

	algo := base
	algo.Algorithm = "force"
	if k.LayoutKey("h", base) == k.LayoutKey("h", algo) {
		t.Error("LayoutKey() ignores the algorithm")
	}
}
