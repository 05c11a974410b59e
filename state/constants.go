package state

import "time"

const (
	// DefaultCost is used when a record has no trailing cost field
	DefaultCost = 10
	// MaxRelaxRounds bounds the configurable number of relaxation rounds
	MaxRelaxRounds = 1000
)

var (
	// RelaxRounds is the number of exchange rounds run when building a route graph
	RelaxRounds = 20
	// ReferenceMaxHops caps the depth of the brute-force reference search
	ReferenceMaxHops = 15

	PathCacheTTL  = 10 * time.Minute
	PathCacheSize = uint64(1024)

	// WatchDebounce coalesces bursts of writes to the source file into one rebuild
	WatchDebounce = 250 * time.Millisecond

	TraceBufferSize = 1024
)
