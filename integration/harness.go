//go:build integration

package integration

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/encodeous/thaum/core"
	"github.com/encodeous/thaum/state"
	"github.com/encodeous/tint"
)

type Signal chan bool

func NewSignal() Signal {
	return make(chan bool)
}
func (s Signal) Trigger() {
	select {
	case <-s:
	default:
		close(s)
	}
}
func (s Signal) Triggered() bool {
	select {
	case <-s:
		return true
	default:
		return false
	}
}
func (s Signal) Wait() {
	<-s
}

// Harness runs engines against sources written to a temporary directory
type Harness struct {
	t   *testing.T
	Dir string
	Env *state.Env
}

func NewHarness(t *testing.T, mod func(cfg *state.Cfg)) *Harness {
	t.Helper()
	h := &Harness{t: t, Dir: t.TempDir()}
	cfg := state.DefaultCfg()
	cfg.Source = filepath.Join(h.Dir, "aspects.txt")
	if mod != nil {
		mod(&cfg)
	}
	cfg.ApplyDefaults()

	level := slog.LevelWarn
	if testing.Verbose() {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level, CustomPrefix: t.Name()}))
	h.Env = state.NewEnv(context.Background(), cfg, logger)
	t.Cleanup(func() {
		h.Env.Cancel(context.Canceled)
	})
	return h
}

func (h *Harness) WriteSource(src string) {
	h.t.Helper()
	err := os.WriteFile(h.Env.Source, []byte(src), 0600)
	if err != nil {
		h.t.Fatal(err)
	}
}

// Build starts an engine on the current source and waits for its route graph
func (h *Harness) Build() (*core.Engine, *core.RouteGraph) {
	h.t.Helper()
	e := core.Start(h.Env, core.SourceLoader(h.Env.Cfg))
	h.t.Cleanup(e.Close)
	g, err := e.Graph(h.t.Context())
	if err != nil {
		h.t.Fatal(err)
	}
	return e, g
}

// RandomSource generates a source of primals and composites, where every composite
// is derived from two random earlier entities. Lines are shuffled, so composites
// often appear before their components.
func RandomSource(rng *rand.Rand, primals, composites int) string {
	names := make([]string, 0, primals+composites)
	lines := make([]string, 0, primals+composites)
	for i := range primals {
		name := fmt.Sprintf("P%d", i)
		lines = append(lines, fmt.Sprintf("%s,p%d,%d", name, i, 1+rng.IntN(20)))
		names = append(names, name)
	}
	for i := range composites {
		a := names[rng.IntN(len(names))]
		b := names[rng.IntN(len(names))]
		name := fmt.Sprintf("C%d", i)
		lines = append(lines, fmt.Sprintf("%s,c%d,%s,%s,%d", name, i, a, b, 1+rng.IntN(30)))
		names = append(names, name)
	}
	rng.Shuffle(len(lines), func(i, j int) {
		lines[i], lines[j] = lines[j], lines[i]
	})
	return strings.Join(lines, "\n")
}

func AllPairs(n int) []state.Pair[state.EntityId, state.EntityId] {
	out := make([]state.Pair[state.EntityId, state.EntityId], 0, n*n)
	for a := range n {
		for b := range n {
			if a != b {
				out = append(out, state.Pair[state.EntityId, state.EntityId]{V1: state.EntityId(a), V2: state.EntityId(b)})
			}
		}
	}
	return out
}
