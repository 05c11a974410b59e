package core

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/encodeous/thaum/state"
	"github.com/fsnotify/fsnotify"
)

// Reloader owns the current Engine. When watching is enabled, every change to the
// source file builds a complete new engine, which replaces the current one only
// once its route graph is ready. Graphs are never modified in place.
type Reloader struct {
	env     *state.Env
	ctx     context.Context
	cancel  context.CancelFunc
	current atomic.Pointer[Engine]
	watcher *fsnotify.Watcher
	path    string
	done    chan struct{}
}

func NewReloader(env *state.Env) (*Reloader, error) {
	ctx, cancel := context.WithCancel(env.Context)
	r := &Reloader{
		env:    env,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	r.current.Store(Start(env, SourceLoader(env.Cfg)))

	if !env.Watch {
		close(r.done)
		return r, nil
	}

	w, err := r.startWatcher()
	if err != nil {
		close(r.done)
		r.Close()
		return nil, fmt.Errorf("watch %s: %w", env.Source, err)
	}
	r.watcher = w
	go r.watch()
	return r, nil
}

func (r *Reloader) startWatcher() (*fsnotify.Watcher, error) {
	abs, err := filepath.Abs(r.env.Source)
	if err != nil {
		return nil, err
	}
	r.path = abs

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// watch the directory, editors often replace the file instead of writing to it
	err = w.Add(filepath.Dir(abs))
	if err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

// Engine returns the engine currently answering queries
func (r *Reloader) Engine() *Engine {
	return r.current.Load()
}

func (r *Reloader) watch() {
	defer close(r.done)
	var debounce <-chan time.Time
	for {
		select {
		case ev, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil || name != r.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				debounce = time.After(state.WatchDebounce)
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.env.Log.Warn("source watcher error", "error", err)
		case <-debounce:
			debounce = nil
			r.rebuild()
		case <-r.ctx.Done():
			return
		}
	}
}

func (r *Reloader) rebuild() {
	r.env.Log.Info("source changed, rebuilding", "source", r.env.Source)
	next := Start(r.env, SourceLoader(r.env.Cfg))
	err := next.Wait(r.ctx)
	if err != nil {
		r.env.Log.Error("rebuild failed, keeping the current graph", "error", err)
		next.Close()
		return
	}
	old := r.current.Swap(next)
	if old != nil {
		old.Close()
	}
	r.env.Log.Info("route graph replaced")
}

func (r *Reloader) Close() {
	r.cancel()
	if r.watcher != nil {
		_ = r.watcher.Close()
	}
	<-r.done
	if e := r.current.Load(); e != nil {
		e.Close()
	}
}
