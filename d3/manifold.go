package d3

import (
	"math"

	"github.com/akmonengine/quill"
)

// ContactManifold is the persistent set of contacts between two bodies.
// It exploits temporal coherence: contacts whose feature pairs reappear on
// the next step keep their accumulated impulses, which warm-starts the
// solver and removes jitter from resting stacks.
type ContactManifold struct {
	// Indices of the two bodies in the world body array, bodyA < bodyB
	bodyA uint32
	bodyB uint32

	contacts     [MaxCollisionPoints]ContactPoint
	contactCount int

	obsolete bool

	// Pair friction coefficient, computed once at manifold construction
	friction float64
}

// newContactManifold builds a manifold from fresh collision points.
// The pair friction is the geometric mean of the body frictions, a
// well-known approximation for friction between two materials.
func newContactManifold(bodyA, bodyB uint32, frictionA, frictionB float64, points []CollisionPoint) ContactManifold {
	manifold := ContactManifold{
		bodyA:    bodyA,
		bodyB:    bodyB,
		friction: math.Sqrt(frictionA * frictionB),
	}
	for i, point := range points {
		manifold.contacts[i] = newContactPoint(point)
	}
	manifold.contactCount = len(points)
	return manifold
}

// BodyA returns the index of the first body
func (m *ContactManifold) BodyA() uint32 {
	return m.bodyA
}

// BodyB returns the index of the second body
func (m *ContactManifold) BodyB() uint32 {
	return m.bodyB
}

// Key returns the 64-bit cache key of the pair
func (m *ContactManifold) Key() uint64 {
	return quill.PairKey(m.bodyA, m.bodyB)
}

// ContactCount returns the number of contacts in the manifold
func (m *ContactManifold) ContactCount() int {
	return m.contactCount
}

// Contact returns the contact at the given index
func (m *ContactManifold) Contact(index int) *ContactPoint {
	return &m.contacts[index]
}

// Friction returns the pair friction coefficient
func (m *ContactManifold) Friction() float64 {
	return m.friction
}

// markObsolete flags the manifold for removal unless the pair collides again
// during the current step
func (m *ContactManifold) markObsolete() {
	m.obsolete = true
}

func (m *ContactManifold) isObsolete() bool {
	return m.obsolete
}

// update replaces the contacts with the new collision points, preserving the
// accumulated impulses of contacts whose feature pairs match
func (m *ContactManifold) update(points []CollisionPoint) {
	var oldContacts [MaxCollisionPoints]ContactPoint
	oldCount := m.contactCount
	for i := 0; i < oldCount; i++ {
		oldContacts[i] = m.contacts[i]
	}

	for i, point := range points {
		m.contacts[i] = newContactPoint(point)
		for oi := 0; oi < oldCount; oi++ {
			if point.FeaturePair == oldContacts[oi].point.FeaturePair {
				m.contacts[i].updateFrom(&oldContacts[oi])
				break
			}
		}
	}
	m.contactCount = len(points)
	m.obsolete = false
}

func (m *ContactManifold) prepareToSolve(bodyA, bodyB *Body) {
	for i := 0; i < m.contactCount; i++ {
		m.contacts[i].prepareToSolve(bodyA, bodyB)
	}
}

func (m *ContactManifold) solveVelocities(bodyA, bodyB *Body) {
	for i := 0; i < m.contactCount; i++ {
		m.contacts[i].solveVelocities(bodyA, bodyB, m.friction)
	}
}

func (m *ContactManifold) solvePositions(bodyA, bodyB *Body) {
	for i := 0; i < m.contactCount; i++ {
		m.contacts[i].solvePositions(bodyA, bodyB)
	}
}
