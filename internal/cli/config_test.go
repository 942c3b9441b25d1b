package cli

import (
	"os"
	"path/filepath"
	"testing"

	"relaymap/pkg/pipeline"
)

func TestLoadConfigMissingFile(t *testing.T) {
	c := &CLI{ConfigPath: filepath.Join(t.TempDir(), "nope.toml")}

	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg != (fileConfig{}) {
		t.Errorf("loadConfig() = %+v, want zero config", cfg)
	}
}

func TestLoadConfigParsesTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[build]
build_dir = "/src/project"
context_lines = 4

[layout]
algorithm = "force"
gap_x = 80.0

[cache]
backend = "sqlite"
path = "/tmp/cache.db"

[store]
mongo_uri = "mongodb://localhost:27017"
database = "graphs"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	c := &CLI{ConfigPath: path}
	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}

	if cfg.Build.BuildDir != "/src/project" || cfg.Build.ContextLines != 4 {
		t.Errorf("build = %+v", cfg.Build)
	}
	if cfg.Layout.Algorithm != "force" || cfg.Layout.GapX != 80 {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Cache.Backend != "sqlite" || cfg.Cache.Path != "/tmp/cache.db" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Store.MongoURI != "mongodb://localhost:27017" || cfg.Store.Database != "graphs" {
		t.Errorf("store = %+v", cfg.Store)
	}
}

func TestLoadConfigRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[build\nbroken"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := &CLI{ConfigPath: path}
	if _, err := c.loadConfig(); err == nil {
		t.Error("loadConfig() accepted malformed TOML")
	}
}

func TestApplyConfigFlagsWin(t *testing.T) {
	cfg := fileConfig{
		Build:  buildConfig{BuildDir: "/from/file", ContextLines: 4},
		Layout: layoutConfig{Algorithm: "force", GapX: 80},
	}
	opts := pipeline.Options{BuildDir: "/from/flag", Algorithm: "layered"}

	applyConfig(&opts, cfg)

	if opts.BuildDir != "/from/flag" {
		t.Errorf("BuildDir = %q, flag value must win", opts.BuildDir)
	}
	if opts.Algorithm != "layered" {
		t.Errorf("Algorithm = %q, flag value must win", opts.Algorithm)
	}
	// Unset fields come from the file.
	if opts.ContextLines != 4 {
		t.Errorf("ContextLines = %d, want 4 from file", opts.ContextLines)
	}
	if opts.GapX != 80 {
		t.Errorf("GapX = %g, want 80 from file", opts.GapX)
	}
}

func TestApplyConfigZeroConfigIsNoop(t *testing.T) {
	opts := pipeline.Options{BuildDir: "/src", GapY: 55}
	applyConfig(&opts, fileConfig{})

	if opts.BuildDir != "/src" || opts.GapY != 55 {
		t.Errorf("opts changed by empty config: %+v", opts)
	}
}
