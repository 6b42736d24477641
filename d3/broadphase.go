package d3

// endpoint is one end of a body's AABB interval on the sweep axis
type endpoint struct {
	position float64
	index    uint32
	isStart  bool
}

// before orders endpoints by coordinate; at equal coordinates an end event
// precedes a start event so that touching intervals do not count as
// overlapping
func (e endpoint) before(other endpoint) bool {
	if e.position != other.position {
		return e.position < other.position
	}
	return !e.isStart && other.isStart
}

// BroadPhase finds pairs of bodies with overlapping AABBs using
// sweep-and-prune along the x axis. Endpoints keep their order between steps,
// so the per-step insertion sort is nearly O(n). Sweeping a single axis is
// intentional; the y/z tests inside the inner loop are sufficient for
// typical scenes.
type BroadPhase struct {
	aabbs      []AABB
	endpoints  []endpoint
	active     []uint32
	activeSlot []uint32
}

// AABBs returns the bounding boxes computed during the last Update,
// indexed by body
func (bp *BroadPhase) AABBs() []AABB {
	return bp.aabbs
}

// clear drops all cached sweep state
func (bp *BroadPhase) clear() {
	bp.aabbs = bp.aabbs[:0]
	bp.endpoints = bp.endpoints[:0]
	bp.active = bp.active[:0]
	bp.activeSlot = bp.activeSlot[:0]
}

// Update rebuilds the AABBs and reports every unordered pair (i, j), i < j,
// whose AABBs overlap, excluding pairs where both bodies are static.
// Each overlapping pair is reported exactly once.
func (bp *BroadPhase) Update(bodies []Body, onPair func(indA, indB uint32)) {
	bp.aabbs = bp.aabbs[:0]
	for i := range bodies {
		bp.aabbs = append(bp.aabbs, bodyAABB(&bodies[i]))
	}

	for len(bp.activeSlot) < len(bodies) {
		bp.activeSlot = append(bp.activeSlot, 0)
	}

	// Endpoints are only appended to, so a shrink can only mean the world
	// was cleared and refilled; rebuild from scratch in that case
	if len(bp.endpoints) > 2*len(bodies) {
		bp.endpoints = bp.endpoints[:0]
	}

	// Add endpoints for bodies added since the last update
	for i := len(bp.endpoints) / 2; i < len(bodies); i++ {
		bp.endpoints = append(bp.endpoints,
			endpoint{index: uint32(i), isStart: true},
			endpoint{index: uint32(i), isStart: false})
	}

	for k := range bp.endpoints {
		e := &bp.endpoints[k]
		if e.isStart {
			e.position = bp.aabbs[e.index].Min.X()
		} else {
			e.position = bp.aabbs[e.index].Max.X()
		}
	}

	insertionSort(bp.endpoints)
	bp.sweep(bodies, onPair)
}

// insertionSort keeps the sort stable and exploits temporal coherence:
// the list is nearly sorted between consecutive steps
func insertionSort(endpoints []endpoint) {
	for i := 1; i < len(endpoints); i++ {
		e := endpoints[i]
		j := i - 1
		for j >= 0 && e.before(endpoints[j]) {
			endpoints[j+1] = endpoints[j]
			j--
		}
		endpoints[j+1] = e
	}
}

func (bp *BroadPhase) sweep(bodies []Body, onPair func(indA, indB uint32)) {
	bp.active = bp.active[:0]
	for _, e := range bp.endpoints {
		if e.isStart {
			i1 := e.index
			aabbA := &bp.aabbs[i1]

			for _, i2 := range bp.active {
				if bodies[i1].IsStatic() && bodies[i2].IsStatic() {
					continue
				}

				// If y or z intervals don't intersect
				aabbB := &bp.aabbs[i2]
				if aabbA.Max.Y() < aabbB.Min.Y() ||
					aabbB.Max.Y() < aabbA.Min.Y() ||
					aabbA.Max.Z() < aabbB.Min.Z() ||
					aabbB.Max.Z() < aabbA.Min.Z() {
					continue
				}

				if i1 < i2 {
					onPair(i1, i2)
				} else {
					onPair(i2, i1)
				}
			}
			bp.activeSlot[i1] = uint32(len(bp.active))
			bp.active = append(bp.active, i1)
		} else {
			// Swap and pop
			slot := bp.activeSlot[e.index]
			last := bp.active[len(bp.active)-1]
			bp.active[slot] = last
			bp.activeSlot[last] = slot
			bp.active = bp.active[:len(bp.active)-1]
		}
	}
}
