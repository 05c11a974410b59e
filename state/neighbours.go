package state

// ComputeNeighbours builds the symmetric adjacency of the derivation relation:
// x is a neighbour of e iff x is a component of e, or e is a component of x.
// All entities must be loaded, since composites need their components resolved.
func ComputeNeighbours(entities []*Entity) [][]EntityId {
	neighbours := make([][]EntityId, len(entities))
	for i, e := range entities {
		neighbours[i] = make([]EntityId, 0)
		for _, x := range entities {
			if x.Id == e.Id {
				continue
			}
			if x.HasComponent(e.Id) || e.HasComponent(x.Id) {
				neighbours[i] = append(neighbours[i], x.Id)
			}
		}
	}
	return neighbours
}
