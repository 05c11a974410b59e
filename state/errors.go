package state

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedRecord      = errors.New("malformed record")
	ErrDuplicateEntity      = errors.New("duplicate entity")
	ErrDefinitionUnresolved = errors.New("definition unresolved")
	ErrEntityNotFound       = errors.New("entity not found")
	// ErrRouteNotFound and ErrRoutingCycle indicate a route table that cannot answer a
	// query. They are never caused by bad user input.
	ErrRouteNotFound = errors.New("route not found")
	ErrRoutingCycle  = errors.New("routing cycle detected")
	ErrNotReady      = errors.New("not yet constructed")
)

type MalformedRecordError struct {
	Line   int
	Record string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("line %d: malformed record %q: %s", e.Line, e.Record, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}

type DuplicateEntityError struct {
	Line int
	Name string
}

func (e *DuplicateEntityError) Error() string {
	return fmt.Sprintf("line %d: duplicate entity name or code %q", e.Line, e.Name)
}

func (e *DuplicateEntityError) Unwrap() error {
	return ErrDuplicateEntity
}

// UnresolvedError lists the composite records whose components never resolved
type UnresolvedError struct {
	Records []string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("%d definition(s) unresolved: [%s]", len(e.Records), strings.Join(e.Records, "; "))
}

func (e *UnresolvedError) Unwrap() error {
	return ErrDefinitionUnresolved
}

type EntityNotFoundError struct {
	Name string
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("entity %q not found", e.Name)
}

func (e *EntityNotFoundError) Unwrap() error {
	return ErrEntityNotFound
}

type RouteNotFoundError struct {
	At   string // node whose table has no entry for Goal
	Goal string
}

func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("route to %s not found in node %s", e.Goal, e.At)
}

func (e *RouteNotFoundError) Unwrap() error {
	return ErrRouteNotFound
}

type RoutingCycleError struct {
	Start string
	Goal  string
	Hops  int
}

func (e *RoutingCycleError) Error() string {
	return fmt.Sprintf("routing cycle detected between %s and %s after %d hops", e.Start, e.Goal, e.Hops)
}

func (e *RoutingCycleError) Unwrap() error {
	return ErrRoutingCycle
}

// IsEngineFault reports whether err comes from the route tables rather than from the query input
func IsEngineFault(err error) bool {
	return errors.Is(err, ErrRouteNotFound) || errors.Is(err, ErrRoutingCycle)
}
