package state

import (
	"fmt"
	"net/netip"
	"os"
	"path"
	"path/filepath"
	"time"
)

func PathValidator(s string) error {
	_, err := os.Stat(path.Dir(s))
	if err != nil {
		return err
	}
	_, err = filepath.Abs(s)
	return err
}

func BindValidator(s string) error {
	_, err := netip.ParseAddrPort(s)
	return err
}

func ConfigValidator(cfg *Cfg) error {
	if cfg.RelaxRounds < 1 || cfg.RelaxRounds > MaxRelaxRounds {
		return fmt.Errorf("relax_rounds must be within [1, %d], got %d", MaxRelaxRounds, cfg.RelaxRounds)
	}
	if cfg.MaxHops < 1 {
		return fmt.Errorf("max_hops must be positive, got %d", cfg.MaxHops)
	}
	ttl, err := time.ParseDuration(cfg.PathCacheTTL)
	if err != nil {
		return fmt.Errorf("path_cache_ttl: %w", err)
	}
	if ttl < 0 {
		return fmt.Errorf("path_cache_ttl must not be negative")
	}
	if cfg.Source != "" {
		if _, err := os.Stat(cfg.Source); err != nil {
			return fmt.Errorf("source: %w", err)
		}
	}
	if cfg.Watch && cfg.Source == "" {
		return fmt.Errorf("watch requires a source file")
	}
	if cfg.LogPath != "" {
		if err := PathValidator(cfg.LogPath); err != nil {
			return fmt.Errorf("log_path: %w", err)
		}
	}
	if cfg.DebugAddr != "" {
		if err := BindValidator(cfg.DebugAddr); err != nil {
			return fmt.Errorf("debug_addr: %w", err)
		}
	}
	return nil
}
