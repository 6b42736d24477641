package d3

// CollisionEvent carries the body indices of a manifold transition
type CollisionEvent struct {
	BodyA uint32
	BodyB uint32
}

// Events holds the optional collision callbacks of a world. Enter fires on
// the step a pair first touches, Stay on every following step while it keeps
// touching, Exit on the step the contact is lost. Callbacks run synchronously
// at the end of the manifold refresh, in deterministic order: enter and stay
// in broad-phase emission order, then exits in removal order. Unset callbacks
// are skipped.
type Events struct {
	OnCollisionEnter func(event CollisionEvent)
	OnCollisionStay  func(event CollisionEvent)
	OnCollisionExit  func(event CollisionEvent)
}

type eventKind uint8

const (
	collisionEnter eventKind = iota
	collisionStay
	collisionExit
)

type pendingEvent struct {
	kind  eventKind
	event CollisionEvent
}

func (e *Events) dispatch(pending []pendingEvent) {
	for _, p := range pending {
		switch p.kind {
		case collisionEnter:
			if e.OnCollisionEnter != nil {
				e.OnCollisionEnter(p.event)
			}
		case collisionStay:
			if e.OnCollisionStay != nil {
				e.OnCollisionStay(p.event)
			}
		case collisionExit:
			if e.OnCollisionExit != nil {
				e.OnCollisionExit(p.event)
			}
		}
	}
}
