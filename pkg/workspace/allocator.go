package workspace

import "github.com/rs/zerolog"

// PortAllocator hands out dev-server ports for new members. The
// interface isolates the allocation heuristic so it can be replaced by a
// persisted high-water mark or a free list without touching the
// instantiator.
type PortAllocator interface {
	Next() (int, error)
	Release(port int)
}

// scanAllocator derives the next port by counting the existing named
// members: basePort + count, in creation order. Sequential creation
// yields pairwise-distinct sequential ports.
//
// Known limitation: the counting heuristic is not resilient to
// out-of-order deletion. Removing a middle member and instantiating a new
// one can reassign a port still held by a surviving member that was
// created after the deleted one. A detected collision is logged, but the
// count-based port is still assigned; fixing the semantics means
// replacing this allocator, not patching it.
type scanAllocator struct {
	ws     *Workspace
	logger zerolog.Logger
}

// NewScanAllocator returns the directory-scanning allocator for ws.
func NewScanAllocator(ws *Workspace, logger zerolog.Logger) PortAllocator {
	return &scanAllocator{
		ws:     ws,
		logger: logger.With().Str("component", "allocator").Logger(),
	}
}

func (a *scanAllocator) Next() (int, error) {
	members, err := a.ws.Members()
	if err != nil {
		return 0, err
	}
	port := a.ws.Config.BasePort + len(members)
	for _, m := range members {
		if m.Port == port {
			a.logger.Warn().
				Int("port", port).
				Str("member", m.Name).
				Msg("Allocated port collides with an existing member; a member was likely deleted out of order")
		}
	}
	return port, nil
}

// Release is a no-op: the counting heuristic keeps no free list.
func (a *scanAllocator) Release(int) {}
