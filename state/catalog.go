package state

import (
	"slices"
	"strings"
)

// Catalog owns every loaded entity. Entities[i].Id == i holds for all entities.
type Catalog struct {
	Entities []*Entity
	// Neighbours is indexed by EntityId, each list sorted ascending
	Neighbours [][]EntityId
	byName     map[string]EntityId
	byCode     map[string]EntityId
}

func NewCatalog() *Catalog {
	return &Catalog{
		byName: make(map[string]EntityId),
		byCode: make(map[string]EntityId),
	}
}

func lookupKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (c *Catalog) add(name, code string, cost int, components *Pair[EntityId, EntityId]) *Entity {
	e := &Entity{
		Id:         EntityId(len(c.Entities)),
		Name:       name,
		Code:       code,
		Cost:       cost,
		Components: components,
	}
	c.Entities = append(c.Entities, e)
	c.byName[lookupKey(name)] = e.Id
	c.byCode[lookupKey(code)] = e.Id
	return e
}

func (c *Catalog) Len() int {
	return len(c.Entities)
}

func (c *Catalog) Get(id EntityId) *Entity {
	if id < 0 || int(id) >= len(c.Entities) {
		return nil
	}
	return c.Entities[id]
}

func (c *Catalog) lookupName(name string) (EntityId, bool) {
	id, ok := c.byName[lookupKey(name)]
	return id, ok
}

// Find resolves a name or code, case-insensitively. Names take precedence over codes.
// Names and codes are unique across the catalog, so at most one entity can match.
func (c *Catalog) Find(nameOrCode string) (*Entity, error) {
	key := lookupKey(nameOrCode)
	if id, ok := c.byName[key]; ok {
		return c.Entities[id], nil
	}
	if id, ok := c.byCode[key]; ok {
		return c.Entities[id], nil
	}
	return nil, &EntityNotFoundError{Name: nameOrCode}
}

// DerivesFrom checks whether other is e itself or appears anywhere in e's component tree
func (c *Catalog) DerivesFrom(e, other EntityId) bool {
	if e == other {
		return true
	}
	ent := c.Get(e)
	if ent == nil || ent.IsPrimal() {
		return false
	}
	return c.DerivesFrom(ent.Components.V1, other) || c.DerivesFrom(ent.Components.V2, other)
}

func (c *Catalog) IsNeighbour(a, b EntityId) bool {
	if int(a) >= len(c.Neighbours) {
		return false
	}
	_, found := slices.BinarySearch(c.Neighbours[a], b)
	return found
}

// Edges returns every undirected derivation link once
func (c *Catalog) Edges() []Pair[EntityId, EntityId] {
	edges := make([]Pair[EntityId, EntityId], 0)
	for id, neighs := range c.Neighbours {
		for _, n := range neighs {
			if EntityId(id) < n {
				edges = append(edges, MakeSortedPair(EntityId(id), n))
			}
		}
	}
	return edges
}
