package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfig_Missing(t *testing.T) {
	cfg, err := ReadConfig(filepath.Join(t.TempDir(), "thaum.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultCfg(), *cfg)
	assert.NoError(t, ConfigValidator(cfg))
}

func TestReadConfig_Partial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thaum.yaml")
	require.NoError(t, os.WriteFile(path, []byte("relax_rounds: 40\npath_cache_ttl: 30s\n"), 0600))
	cfg, err := ReadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.RelaxRounds)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL())
	assert.Equal(t, ReferenceMaxHops, cfg.MaxHops)
	assert.Equal(t, PathCacheSize, cfg.PathCacheSize)
}

func TestReadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thaum.yaml")
	require.NoError(t, os.WriteFile(path, []byte("relax_rounds: [1, 2\n"), 0600))
	_, err := ReadConfig(path)
	assert.Error(t, err)
}

func TestWriteConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thaum.yaml")
	cfg := DefaultCfg()
	cfg.Watch = true
	cfg.Source = "aspects.txt"
	cfg.DebugAddr = "127.0.0.1:6060"
	require.NoError(t, WriteConfig(path, &cfg))
	read, err := ReadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, *read)
}

func TestCacheTTL_Disabled(t *testing.T) {
	cfg := DefaultCfg()
	cfg.PathCacheTTL = "0"
	assert.NoError(t, ConfigValidator(&cfg))
	assert.Equal(t, time.Duration(0), cfg.CacheTTL())
}

func TestConfigValidator_Invalid(t *testing.T) {
	src := filepath.Join(t.TempDir(), "aspects.txt")
	require.NoError(t, os.WriteFile(src, []byte("Air,ae\n"), 0600))

	cases := map[string]func(c *Cfg){
		"zero rounds":     func(c *Cfg) { c.RelaxRounds = 0 },
		"too many rounds": func(c *Cfg) { c.RelaxRounds = MaxRelaxRounds + 1 },
		"zero hops":       func(c *Cfg) { c.MaxHops = 0 },
		"bad ttl":         func(c *Cfg) { c.PathCacheTTL = "soon" },
		"negative ttl":    func(c *Cfg) { c.PathCacheTTL = "-1m" },
		"missing source":  func(c *Cfg) { c.Source = src + ".missing" },
		"watch bundled":   func(c *Cfg) { c.Watch = true },
		"log dir":         func(c *Cfg) { c.LogPath = "/nonexistent/dir/thaum.log" },
		"debug addr":      func(c *Cfg) { c.DebugAddr = "localhost" },
	}
	for name, mod := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultCfg()
			mod(&cfg)
			assert.Error(t, ConfigValidator(&cfg))
		})
	}

	cfg := DefaultCfg()
	cfg.Source = src
	cfg.Watch = true
	cfg.DebugAddr = "127.0.0.1:0"
	assert.NoError(t, ConfigValidator(&cfg))
}

func TestBindValidator(t *testing.T) {
	assert.NoError(t, BindValidator("127.0.0.1:6060"))
	assert.NoError(t, BindValidator("[::1]:80"))
	assert.Error(t, BindValidator(":6060"))
	assert.Error(t, BindValidator("host:80"))
}
