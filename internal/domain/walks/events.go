package walks

import "time"

type EventType string

const (
	EventRequestCreated       EventType = "REQUEST_CREATED"
	EventApplicationSubmitted EventType = "APPLICATION_SUBMITTED"
	EventApplicationAccepted  EventType = "APPLICATION_ACCEPTED"
	EventApplicationRejected  EventType = "APPLICATION_REJECTED"
	EventWalkCompleted        EventType = "WALK_COMPLETED"
	EventWalkerRated          EventType = "WALKER_RATED"
)

// WalkEvent es una entrada append-only del timeline de un paseo.
// Se escribe en la misma transacción que la transición que la origina.
type WalkEvent struct {
	ID            string
	RequestID     string
	Type          EventType
	ActorID       string
	ApplicationID string // opcional

	OccurredAt time.Time
}
