package walks

import (
	"time"

	"dog-walk-service/internal/ports/auth"
)

type RequestStatus string

const (
	RequestOpen      RequestStatus = "open"
	RequestAccepted  RequestStatus = "accepted"
	RequestCompleted RequestStatus = "completed"
)

type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationCompleted ApplicationStatus = "completed"
)

// holdsWalk indica si la postulación ocupa el paseo (máximo una por request).
func (s ApplicationStatus) holdsWalk() bool {
	return s == ApplicationAccepted || s == ApplicationCompleted
}

// WalkRequest es un paseo publicado por el dueño de un perro.
// OwnerID se deriva del perro al leer; no se persiste en la tabla.
type WalkRequest struct {
	ID              string
	DogID           string
	OwnerID         string
	RequestedAt     time.Time
	DurationMinutes int
	Location        string
	Status          RequestStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WalkApplication es la postulación de un walker. Única por (request, walker).
type WalkApplication struct {
	ID        string
	RequestID string
	WalkerID  string
	Status    ApplicationStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WalkRating es la calificación del owner al walker. Única por request.
type WalkRating struct {
	ID        string
	RequestID string
	WalkerID  string
	OwnerID   string
	Rating    int
	Comments  string

	CreatedAt time.Time
}

// Caller es la identidad explícita con la que se invoca cada operación.
type Caller struct {
	UserID string
	Role   auth.Role
}

func CallerFrom(c auth.Claims) Caller {
	return Caller{UserID: c.UserID, Role: c.Role}
}

// Applicant es una postulación vista por el owner.
type Applicant struct {
	ApplicationID string
	WalkerID      string
	Username      string
	Status        ApplicationStatus
}

// OwnerRequestView es la proyección de "mis paseos" del owner.
type OwnerRequestView struct {
	Request     WalkRequest
	DogName     string
	DogImageURL string
	Applicants  []Applicant

	// Solo con Request.Status == completed.
	CompletedWalkerID string
	Rated             bool
}

// AvailableRequest es un paseo visto por un walker, con el estado de su propia
// postulación (vacío si no postuló).
type AvailableRequest struct {
	RequestID         string
	DogName           string
	RequestedAt       time.Time
	DurationMinutes   int
	Location          string
	WalkStatus        RequestStatus
	ApplicationStatus ApplicationStatus
}

type Bucket string

const (
	BucketPending   Bucket = "pending"
	BucketAccepted  Bucket = "accepted"
	BucketRejected  Bucket = "rejected"
	BucketCompleted Bucket = "completed"
	BucketNone      Bucket = "none"
)

func ParseBucket(s string) (Bucket, bool) {
	switch b := Bucket(s); b {
	case BucketPending, BucketAccepted, BucketRejected, BucketCompleted, BucketNone:
		return b, true
	default:
		return "", false
	}
}

// Bucket agrupa el paseo para la vista del walker.
func (a AvailableRequest) Bucket() Bucket {
	switch {
	case a.ApplicationStatus == "" && a.WalkStatus == RequestOpen:
		return BucketPending
	case a.ApplicationStatus == ApplicationPending:
		return BucketPending
	case a.ApplicationStatus == ApplicationAccepted:
		return BucketAccepted
	case a.ApplicationStatus == ApplicationRejected:
		return BucketRejected
	case a.ApplicationStatus == ApplicationCompleted, a.WalkStatus == RequestCompleted:
		return BucketCompleted
	default:
		return BucketNone
	}
}

// Summary resume la actividad de un walker.
type Summary struct {
	Completed     int
	Pending       int
	TotalEarnings int
}
