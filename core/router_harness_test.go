package core

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/encodeous/thaum/state"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type HarnessEvent struct {
	Message string
	Args    []any
}

func MakeEvent(msg string, args ...any) HarnessEvent {
	return HarnessEvent{
		Message: msg,
		Args:    args,
	}
}

// RouterHarness records every event emitted while a route graph is built
type RouterHarness struct {
	actions []HarnessEvent
}

func (h *RouterHarness) Log(event RouterEvent, desc string, args ...any) {
	h.actions = append(h.actions, MakeEvent(event.String(), args...))
}

type HarnessEvents []HarnessEvent

func (h HarnessEvents) String() string {
	out := make([]string, 0)
	for _, action := range h {
		cur := action.Message
		for _, arg := range action.Args {
			cur += " " + fmt.Sprint(arg)
		}
		out = append(out, cur)
	}
	slices.Sort(out)
	return strings.Join(out, "\n")
}

func (h *RouterHarness) GetActions() HarnessEvents {
	x := h.actions
	h.actions = make([]HarnessEvent, 0)
	return x
}

func (e HarnessEvents) Filter(msg string) HarnessEvents {
	x := make(HarnessEvents, 0)
	for _, event := range e {
		if event.Message == msg {
			x = append(x, event)
		}
	}
	return x
}

func (e HarnessEvents) contains(msg string, args ...any) bool {
	for _, event := range e {
		if event.Message == msg {
			if len(event.Args) >= len(args) {
				match := true
				for i, arg := range args {
					if !cmp.Equal(event.Args[i], arg) {
						match = false
						break
					}
				}
				if match {
					return true
				}
			}
		}
	}
	return false
}

func (e HarnessEvents) AssertContains(t *testing.T, msg string, args ...any) {
	if e.contains(msg, args...) {
		return
	}
	t.Fatal("Expected event not found: ", msg, " with args: ", args, " in ", e)
}

func (e HarnessEvents) AssertNotContains(t *testing.T, msg string, args ...any) {
	if e.contains(msg, args...) {
		t.Fatal("Unexpected event found: ", msg, " with args: ", args, " in ", e)
	}
}

const scenarioSource = "Air,ae\nFire,ig\nEarth,te\nSmoke,sm,Air,Fire\n"

func parseCatalogString(src string) (*state.Catalog, error) {
	return state.LoadSource(strings.NewReader(src))
}

func parseCatalog(t *testing.T, src string) *state.Catalog {
	t.Helper()
	c, err := parseCatalogString(src)
	require.NoError(t, err)
	return c
}

// buildGraph constructs a ready route graph with the default round limit
func buildGraph(t *testing.T, src string, r Router) *RouteGraph {
	t.Helper()
	g := NewRouteGraph(parseCatalog(t, src))
	require.NoError(t, g.Construct(t.Context(), state.RelaxRounds, r))
	return g
}

func idOf(t *testing.T, g *RouteGraph, name string) state.EntityId {
	t.Helper()
	e, err := g.Catalog.Find(name)
	require.NoError(t, err)
	return e.Id
}
