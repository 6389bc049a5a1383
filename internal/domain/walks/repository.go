package walks

import (
	"context"
	"iter"
	"time"
)

// Tx agrupa las escrituras de una transición. Lock* toman lock de fila
// (SELECT ... FOR UPDATE en Postgres) hasta el commit o rollback.
type Tx interface {
	InsertRequest(ctx context.Context, r WalkRequest) error
	LockRequest(ctx context.Context, id string) (WalkRequest, error)
	LockApplications(ctx context.Context, requestID string) ([]WalkApplication, error)

	// InsertApplication devuelve ErrDuplicate si el par (request, walker) ya existe.
	InsertApplication(ctx context.Context, a WalkApplication) error
	UpdateApplicationStatus(ctx context.Context, id string, st ApplicationStatus, at time.Time) error
	RejectOtherApplications(ctx context.Context, requestID, acceptedID string, at time.Time) error
	UpdateRequestStatus(ctx context.Context, id string, st RequestStatus, at time.Time) error

	// InsertRating devuelve ErrDuplicate si el paseo ya fue calificado.
	InsertRating(ctx context.Context, r WalkRating) error
	AppendEvent(ctx context.Context, e WalkEvent) error
}

type Repository interface {
	// WithinTx corre fn en una transacción. Si fn devuelve error, nada se persiste.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error

	GetRequest(ctx context.Context, id string) (WalkRequest, error)
	ListApplications(ctx context.Context, requestID string) ([]WalkApplication, error)
	ListByOwner(ctx context.Context, ownerID string) ([]OwnerRequestView, error)
	// ListAvailable recorre los paseos open/accepted/completed, más nuevos primero.
	ListAvailable(ctx context.Context, walkerID string) iter.Seq2[AvailableRequest, error]
	CountApplications(ctx context.Context, walkerID string, st ApplicationStatus) (int, error)
	ListEvents(ctx context.Context, requestID string) ([]WalkEvent, error)
}
