package state

import "fmt"

// EntityId is the index of an entity in its Catalog. Every cross reference
// (components, neighbours, route tables) is an EntityId, never a pointer.
type EntityId int

// NoRoute marks a missing next hop in a route table.
const NoRoute EntityId = -1

// Entity is a single aspect in the derivation graph.
// Entities are owned by a Catalog and must not be mutated after loading.
type Entity struct {
	Id   EntityId
	Name string
	Code string // short keyword, e.g. "fire" for Ignis
	Cost int    // cost of stepping into this entity
	// Components is nil for primal entities. Composite entities always carry both.
	Components *Pair[EntityId, EntityId]
}

func (e *Entity) IsPrimal() bool {
	return e.Components == nil
}

// Names returns both the name and the code
func (e *Entity) Names() []string {
	return []string{e.Name, e.Code}
}

// HasComponent checks whether other is one of the two direct components of e
func (e *Entity) HasComponent(other EntityId) bool {
	if e.Components == nil {
		return false
	}
	return e.Components.V1 == other || e.Components.V2 == other
}

func (e *Entity) String() string {
	return fmt.Sprintf("%s (%s)", e.Name, e.Code)
}
