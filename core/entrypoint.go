package core

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/encodeous/thaum/data"
	"github.com/encodeous/thaum/state"
	"github.com/encodeous/tint"
	slogmulti "github.com/samber/slog-multi"
)

// SourceLoader returns the loader for the configured source, falling back to
// the bundled aspect list.
func SourceLoader(cfg state.Cfg) SourceFunc {
	if cfg.Source == "" {
		return func() (*state.Catalog, error) {
			return state.ParseSource(data.AspectLines())
		}
	}
	return func() (*state.Catalog, error) {
		return state.LoadSourceFile(cfg.Source)
	}
}

func NewLogger(cfg state.Cfg, logLevel slog.Level) (*slog.Logger, func() error, error) {
	handlers := make([]slog.Handler, 0)
	handlers = append(handlers,
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:        logLevel,
			AddSource:    false,
			CustomPrefix: "thaum",
			ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
				if attr.Key == "time" {
					return slog.Attr{}
				}
				return attr
			},
		}))

	closer := func() error { return nil }
	if cfg.LogPath != "" {
		err := os.MkdirAll(path.Dir(cfg.LogPath), 0700)
		if err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(cfg.LogPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: logLevel}))
		closer = f.Close
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

// Setup reads and validates the config, builds the logger and returns an Env that is
// cancelled on SIGINT or SIGTERM. The returned function releases everything Setup acquired.
func Setup(configPath, sourceOverride string, verbose bool) (*state.Env, func(), error) {
	cfg, err := state.ReadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	if sourceOverride != "" {
		cfg.Source = sourceOverride
	}
	cfg.ApplyDefaults()
	err = state.ConfigValidator(cfg)
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger, closeLog, err := NewLogger(*cfg, level)
	if err != nil {
		return nil, nil, err
	}

	env := state.NewEnv(context.Background(), *cfg, logger)

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-c:
			env.Cancel(errors.New("received shutdown signal"))
		case <-env.Context.Done():
		}
	}()

	stopDebug := setupDebugging(env)

	return env, func() {
		signal.Stop(c)
		env.Cancel(context.Canceled)
		stopDebug()
		_ = closeLog()
	}, nil
}

// setupDebugging serves /debug/metrics and /debug/vars on the configured address
func setupDebugging(env *state.Env) func() {
	if env.DebugAddr == "" {
		return func() {}
	}
	srv := &http.Server{Addr: env.DebugAddr, Handler: http.DefaultServeMux}
	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			env.Log.Warn("debug server stopped", "error", err)
		}
	}()
	env.Log.Info("serving debug metrics", "addr", env.DebugAddr)
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
