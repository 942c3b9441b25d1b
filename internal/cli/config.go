package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"relaymap/pkg/pipeline"
)

// fileConfig is the on-disk configuration, read from
// ~/.config/relaymap/config.toml (or --config). Every field is optional;
// the zero value selects the built-in defaults.
type fileConfig struct {
	Build  buildConfig  `toml:"build"`
	Layout layoutConfig `toml:"layout"`
	Cache  cacheConfig  `toml:"cache"`
	Store  storeConfig  `toml:"store"`
}

type buildConfig struct {
	BuildDir        string `toml:"build_dir"`
	ContextLines    int    `toml:"context_lines"`
	ReferenceOffset int    `toml:"reference_offset"`
}

type layoutConfig struct {
	Algorithm  string  `toml:"algorithm"`
	NodeWidth  float64 `toml:"node_width"`
	NodeHeight float64 `toml:"node_height"`
	GapX       float64 `toml:"gap_x"`
	GapY       float64 `toml:"gap_y"`
	Iterations int     `toml:"iterations"`
	Repulsion  float64 `toml:"repulsion"`
	Attraction float64 `toml:"attraction"`
	Damping    float64 `toml:"damping"`
}

type cacheConfig struct {
	// Backend selects the cache implementation: file, sqlite, redis, none.
	Backend string `toml:"backend"`

	// Path is the cache directory (file backend) or database file (sqlite).
	Path string `toml:"path"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

type storeConfig struct {
	// MongoURI enables persisting built graphs when set.
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// loadConfig reads the config file. A missing file is not an error and
// yields the zero config.
func (c *CLI) loadConfig() (fileConfig, error) {
	path := c.ConfigPath
	if path == "" {
		var err error
		path, err = defaultConfigPath()
		if err != nil {
			return fileConfig{}, nil
		}
	}

	var cfg fileConfig
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return fileConfig{}, err
	}
	return cfg, nil
}

// defaultConfigPath returns the XDG config location (~/.config/relaymap/config.toml).
func defaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// applyConfig layers file config under pipeline options. Flags already set
// on opts win; only zero fields are filled in.
func applyConfig(opts *pipeline.Options, cfg fileConfig) {
	if opts.BuildDir == "" {
		opts.BuildDir = cfg.Build.BuildDir
	}
	if opts.ContextLines == 0 {
		opts.ContextLines = cfg.Build.ContextLines
	}
	if opts.ReferenceOffset == 0 {
		opts.ReferenceOffset = cfg.Build.ReferenceOffset
	}

	if opts.Algorithm == "" {
		opts.Algorithm = cfg.Layout.Algorithm
	}
	if opts.NodeWidth == 0 {
		opts.NodeWidth = cfg.Layout.NodeWidth
	}
	if opts.NodeHeight == 0 {
		opts.NodeHeight = cfg.Layout.NodeHeight
	}
	if opts.GapX == 0 {
		opts.GapX = cfg.Layout.GapX
	}
	if opts.GapY == 0 {
		opts.GapY = cfg.Layout.GapY
	}
	if opts.Iterations == 0 {
		opts.Iterations = cfg.Layout.Iterations
	}
	if opts.Repulsion == 0 {
		opts.Repulsion = cfg.Layout.Repulsion
	}
	if opts.Attraction == 0 {
		opts.Attraction = cfg.Layout.Attraction
	}
	if opts.Damping == 0 {
		opts.Damping = cfg.Layout.Damping
	}
}
