// Package profile loads the server configuration file. A profile names an
// input source plus default render options; the server multiplexes
// requests across profiles by name.
package profile

import (
	"time"

	"github.com/BurntSushi/toml"

	gserrors "github.com/graphspec/graphspec/pkg/errors"
	"github.com/graphspec/graphspec/pkg/source"
)

// Config is the full server configuration.
type Config struct {
	// Addr is the listen address, e.g. "127.0.0.1:8008".
	Addr string `toml:"addr"`

	Cache    CacheConfig        `toml:"cache"`
	Profiles map[string]Profile `toml:"profiles"`
}

// CacheConfig selects the rendered-page cache backend.
type CacheConfig struct {
	// Backend is "memory" (default), "redis", or "none".
	Backend   string   `toml:"backend"`
	Size      int      `toml:"size"` // memory backend capacity, default 128
	TTL       Duration `toml:"ttl"`  // entry lifetime, default 5m
	RedisAddr string   `toml:"redis_addr"`
}

// Profile is one named input source with its default render options.
// Exactly one of File, Shell, Paths, or Mongo must be set.
type Profile struct {
	Label string `toml:"label"`

	File  string       `toml:"file"`
	Shell string       `toml:"shell"`
	Paths []string     `toml:"paths"`
	Mongo *MongoSource `toml:"mongo"`

	Reduce            bool   `toml:"reduce"`
	IncludeEverything bool   `toml:"include_everything"`
	Engine            string `toml:"engine"`
}

// MongoSource configures a MongoDB-backed input source.
type MongoSource struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	Field      string `toml:"field"`
}

// Duration wraps time.Duration for TOML strings like "5m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Load reads and validates a TOML configuration file.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeInvalidInput, err, "load config %s", path)
	}

	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8008"
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.Size == 0 {
		cfg.Cache.Size = 128
	}
	if cfg.Cache.TTL.Duration == 0 {
		cfg.Cache.TTL.Duration = 5 * time.Minute
	}

	for name, p := range cfg.Profiles {
		if _, err := p.Source(); err != nil {
			return nil, gserrors.Wrap(gserrors.ErrCodeInvalidInput, err, "profile %q", name)
		}
	}
	return &cfg, nil
}

// Source builds the input source the profile describes.
func (p Profile) Source() (source.Source, error) {
	var sources []source.Source
	if p.File != "" {
		sources = append(sources, source.File{Path: p.File})
	}
	if p.Shell != "" {
		sources = append(sources, source.Exec{Command: p.Shell})
	}
	if len(p.Paths) > 0 {
		sources = append(sources, source.Scan{Paths: p.Paths})
	}
	if p.Mongo != nil {
		sources = append(sources, source.Mongo{
			URI:        p.Mongo.URI,
			Database:   p.Mongo.Database,
			Collection: p.Mongo.Collection,
			Field:      p.Mongo.Field,
		})
	}

	switch len(sources) {
	case 0:
		return nil, gserrors.New(gserrors.ErrCodeInvalidInput, "no input source: set file, shell, paths, or mongo")
	case 1:
		return sources[0], nil
	}
	return nil, gserrors.New(gserrors.ErrCodeInvalidInput, "multiple input sources: set exactly one of file, shell, paths, or mongo")
}
