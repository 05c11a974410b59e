package state

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Cfg is the engine configuration, usually read from thaum.yaml
type Cfg struct {
	Source        string `yaml:"source,omitempty"`          // entity definition file, empty means the bundled aspect list
	RelaxRounds   int    `yaml:"relax_rounds,omitempty"`    // upper bound on relaxation rounds
	MaxHops       int    `yaml:"max_hops,omitempty"`        // depth cap of the reference search used by check
	PathCacheTTL  string `yaml:"path_cache_ttl,omitempty"`  // e.g. "10m", "0" disables the cache
	PathCacheSize uint64 `yaml:"path_cache_size,omitempty"` // maximum number of cached path results
	LogPath       string `yaml:"log_path,omitempty"`        // if not empty, logs are also written to this file
	Watch         bool   `yaml:"watch,omitempty"`           // rebuild the graph when the source file changes
	DebugAddr     string `yaml:"debug_addr,omitempty"`      // if not empty, serves /debug/metrics and expvar
}

func DefaultCfg() Cfg {
	return Cfg{
		RelaxRounds:   RelaxRounds,
		MaxHops:       ReferenceMaxHops,
		PathCacheTTL:  PathCacheTTL.String(),
		PathCacheSize: PathCacheSize,
	}
}

// ApplyDefaults fills every zero field with its default value
func (c *Cfg) ApplyDefaults() {
	def := DefaultCfg()
	if c.RelaxRounds == 0 {
		c.RelaxRounds = def.RelaxRounds
	}
	if c.MaxHops == 0 {
		c.MaxHops = def.MaxHops
	}
	if c.PathCacheTTL == "" {
		c.PathCacheTTL = def.PathCacheTTL
	}
	if c.PathCacheSize == 0 {
		c.PathCacheSize = def.PathCacheSize
	}
}

// CacheTTL returns the parsed path cache ttl. The config must have been validated.
func (c *Cfg) CacheTTL() time.Duration {
	ttl, err := time.ParseDuration(c.PathCacheTTL)
	if err != nil {
		return 0
	}
	return ttl
}

// ReadConfig reads the config at path. A missing file yields the default config.
func ReadConfig(path string) (*Cfg, error) {
	cfg := DefaultCfg()
	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, err
	}
	err = yaml.Unmarshal(file, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

func WriteConfig(path string, cfg *Cfg) error {
	bytes, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, bytes, 0600)
}
