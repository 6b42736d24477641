package d2

import "github.com/akmonengine/quill"

// ContactSolver owns the persistent contact manifolds, keyed by body index
// pair. Manifolds live in a dense slice for cache-friendly iteration; the map
// resolves a pair key to its slot. Manifolds reference bodies by index, so
// growth of the world body slice needs no fix-up.
type ContactSolver struct {
	manifolds []ContactManifold
	pairs     map[uint64]int

	pending []pendingEvent
}

func newContactSolver() ContactSolver {
	return ContactSolver{pairs: make(map[uint64]int)}
}

// Manifolds returns the live manifolds in dense-array order. The slice is
// owned by the solver; callers must not retain it across a step.
func (s *ContactSolver) Manifolds() []ContactManifold {
	return s.manifolds
}

// clear drops all manifolds
func (s *ContactSolver) clear() {
	s.manifolds = s.manifolds[:0]
	s.pending = s.pending[:0]
	for key := range s.pairs {
		delete(s.pairs, key)
	}
}

// prepareManifoldsUpdate marks all manifolds obsolete; the narrow-phase
// callbacks that follow clear the flag for pairs that still collide
func (s *ContactSolver) prepareManifoldsUpdate() {
	for i := range s.manifolds {
		s.manifolds[i].markObsolete()
	}
}

// onCollision upserts the manifold for the pair (indA, indB), indA < indB
func (s *ContactSolver) onCollision(bodies []Body, indA, indB uint32, points []CollisionPoint) {
	key := quill.PairKey(indA, indB)
	if index, ok := s.pairs[key]; ok {
		s.manifolds[index].update(points)
		s.queue(collisionStay, indA, indB)
		return
	}

	s.manifolds = append(s.manifolds, newContactManifold(
		indA, indB,
		bodies[indA].Friction, bodies[indB].Friction,
		points))
	s.pairs[key] = len(s.manifolds) - 1
	s.queue(collisionEnter, indA, indB)
}

// finishManifoldsUpdate removes the manifolds that stayed obsolete through
// the narrow phase, keeping the pair map consistent via swap-and-pop
func (s *ContactSolver) finishManifoldsUpdate() {
	mi := 0
	for mi != len(s.manifolds) {
		if !s.manifolds[mi].isObsolete() {
			mi++
			continue
		}

		removed := &s.manifolds[mi]
		s.queue(collisionExit, removed.bodyA, removed.bodyB)
		delete(s.pairs, removed.Key())

		last := len(s.manifolds) - 1
		if mi != last {
			s.manifolds[mi] = s.manifolds[last]
			s.pairs[s.manifolds[mi].Key()] = mi
		}
		s.manifolds = s.manifolds[:last]
	}
}

// prepareToSolve precomputes the solver quantities of every contact and
// applies the warm-starting impulses
func (s *ContactSolver) prepareToSolve(bodies []Body) {
	for i := range s.manifolds {
		manifold := &s.manifolds[i]
		manifold.prepareToSolve(&bodies[manifold.bodyA], &bodies[manifold.bodyB])
	}
}

// solveVelocities runs the sequential-impulse velocity iterations
func (s *ContactSolver) solveVelocities(bodies []Body, iterations int) {
	for iter := 0; iter < iterations; iter++ {
		for i := range s.manifolds {
			manifold := &s.manifolds[i]
			manifold.solveVelocities(&bodies[manifold.bodyA], &bodies[manifold.bodyB])
		}
	}
}

// solvePositions runs the penetration-correction iterations
func (s *ContactSolver) solvePositions(bodies []Body, iterations int) {
	for iter := 0; iter < iterations; iter++ {
		for i := range s.manifolds {
			manifold := &s.manifolds[i]
			manifold.solvePositions(&bodies[manifold.bodyA], &bodies[manifold.bodyB])
		}
	}
}

func (s *ContactSolver) queue(kind eventKind, indA, indB uint32) {
	s.pending = append(s.pending, pendingEvent{
		kind:  kind,
		event: CollisionEvent{BodyA: indA, BodyB: indB},
	})
}

// flushEvents dispatches and drops the queued collision events
func (s *ContactSolver) flushEvents(events *Events) {
	events.dispatch(s.pending)
	s.pending = s.pending[:0]
}
