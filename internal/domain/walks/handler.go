package walks

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"dog-walk-service/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/walk-requests", func(wr chi.Router) {
		wr.Post("/", createRequestHandler(svc))
		wr.Get("/mine", listMineHandler(svc))
		wr.Get("/available", listAvailableHandler(svc))

		wr.Route("/{requestID}", func(rr chi.Router) {
			rr.Get("/events", timelineHandler(svc))
			rr.Post("/applications", applyHandler(svc))
			rr.Post("/applications/{applicationID}/accept", acceptHandler(svc))
			rr.Post("/complete", completeHandler(svc))
			rr.Post("/rating", rateHandler(svc))
		})
	})

	r.Get("/walkers/me/summary", summaryHandler(svc))
}

type createWalkRequest struct {
	DogID           string `json:"dog_id"`
	RequestedAt     string `json:"requested_at"` // RFC3339 o YYYY-MM-DDTHH:MM (UTC)
	DurationMinutes int    `json:"duration_minutes"`
	Location        string `json:"location"`
}

type walkRequestResponse struct {
	ID              string        `json:"id"`
	DogID           string        `json:"dog_id"`
	RequestedAt     time.Time     `json:"requested_at"`
	DurationMinutes int           `json:"duration_minutes"`
	Location        string        `json:"location"`
	Status          RequestStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

type applicationResponse struct {
	ID        string            `json:"id"`
	RequestID string            `json:"request_id"`
	WalkerID  string            `json:"walker_id"`
	Status    ApplicationStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type acceptResponse struct {
	Request  walkRequestResponse   `json:"request"`
	Accepted applicationResponse   `json:"accepted"`
	Rejected []applicationResponse `json:"rejected"`
}

type completeResponse struct {
	Request     walkRequestResponse `json:"request"`
	Application applicationResponse `json:"application"`
}

type rateRequest struct {
	WalkerID string `json:"walker_id"` // opcional
	Rating   int    `json:"rating"`
	Comments string `json:"comments"`
}

type ratingResponse struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id"`
	WalkerID  string    `json:"walker_id"`
	OwnerID   string    `json:"owner_id"`
	Rating    int       `json:"rating"`
	Comments  string    `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
}

type applicantResponse struct {
	ApplicationID string            `json:"application_id"`
	WalkerID      string            `json:"walker_id"`
	Username      string            `json:"username"`
	Status        ApplicationStatus `json:"status"`
}

type ownerRequestResponse struct {
	walkRequestResponse
	DogName      string              `json:"dog_name"`
	DogImageURL  string              `json:"dog_image_url"`
	Applications []applicantResponse `json:"applications"`
	WalkerID     string              `json:"walker_id,omitempty"`
	Rated        bool                `json:"rated"`
}

type availableResponse struct {
	RequestID         string             `json:"request_id"`
	DogName           string             `json:"dog_name"`
	Date              string             `json:"date"` // YYYY-MM-DD
	Time              string             `json:"time"` // HH:MM
	DurationMinutes   int                `json:"duration_minutes"`
	Location          string             `json:"location"`
	ApplicationStatus *ApplicationStatus `json:"application_status"`
	WalkStatus        RequestStatus      `json:"walk_status"`
	Bucket            Bucket             `json:"bucket"`
}

type summaryResponse struct {
	Completed     int `json:"completed"`
	Pending       int `json:"pending"`
	TotalEarnings int `json:"totalEarnings"`
}

type eventResponse struct {
	ID            string    `json:"id"`
	RequestID     string    `json:"request_id"`
	Type          EventType `json:"type"`
	ActorID       string    `json:"actor_id"`
	ApplicationID string    `json:"application_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// createRequestHandler godoc
// @Summary Publicar paseo
// @Description El owner publica un paseo para uno de sus perros. Queda en estado `open`. Autenticación: `X-Debug-User-ID` + `X-Debug-User-Role` (dev), cookie de sesión o `Authorization: Bearer <token>`.
// @Tags walks
// @Accept json
// @Produce json
// @Param payload body createWalkRequest true "Datos del paseo; requested_at en RFC3339"
// @Success 201 {object} walkRequestResponse
// @Failure 400 {string} string "invalid json / validación"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "rol sin permiso"
// @Router /walk-requests [post]
func createRequestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFrom(w, r)
		if !ok {
			return
		}

		var req createWalkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var at time.Time
		if strings.TrimSpace(req.RequestedAt) != "" {
			t, err := parseRequestedAt(req.RequestedAt)
			if err != nil {
				http.Error(w, "requested_at must be RFC3339 or YYYY-MM-DDTHH:MM", http.StatusBadRequest)
				return
			}
			at = t
		}

		wr, err := svc.CreateRequest(r.Context(), caller, CreateRequestInput{
			DogID:           req.DogID,
			RequestedAt:     at,
			DurationMinutes: req.DurationMinutes,
			Location:        req.Location,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toWalkRequestResponse(wr))
	}
}

// listMineHandler godoc
// @Summary Mis paseos (owner)
// @Description Paseos del owner con el nombre del perro y la lista de postulantes.
// @Tags walks
// @Produce json
// @Success 200 {array} ownerRequestResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "rol sin permiso"
// @Router /walk-requests/mine [get]
func listMineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFrom(w, r)
		if !ok {
			return
		}

		items, err := svc.ListMine(r.Context(), caller)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]ownerRequestResponse, 0, len(items))
		for _, v := range items {
			apps := make([]applicantResponse, 0, len(v.Applicants))
			for _, a := range v.Applicants {
				apps = append(apps, applicantResponse{
					ApplicationID: a.ApplicationID,
					WalkerID:      a.WalkerID,
					Username:      a.Username,
					Status:        a.Status,
				})
			}
			out = append(out, ownerRequestResponse{
				walkRequestResponse: toWalkRequestResponse(v.Request),
				DogName:             v.DogName,
				DogImageURL:         v.DogImageURL,
				Applications:        apps,
				WalkerID:            v.CompletedWalkerID,
				Rated:               v.Rated,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// listAvailableHandler godoc
// @Summary Paseos disponibles (walker)
// @Description Paseos open/accepted/completed con el estado de la postulación del walker. `bucket` filtra por pending, accepted, rejected, completed o none.
// @Tags walks
// @Produce json
// @Param bucket query string false "Filtro de bucket"
// @Success 200 {array} availableResponse
// @Failure 400 {string} string "bucket inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "rol sin permiso"
// @Router /walk-requests/available [get]
func listAvailableHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFrom(w, r)
		if !ok {
			return
		}

		var filter Bucket
		if q := strings.TrimSpace(r.URL.Query().Get("bucket")); q != "" {
			b, ok := ParseBucket(strings.ToLower(q))
			if !ok {
				http.Error(w, "bucket must be pending, accepted, rejected, completed or none", http.StatusBadRequest)
				return
			}
			filter = b
		}

		out := make([]availableResponse, 0)
		for item, err := range svc.ListAvailable(r.Context(), caller) {
			if err != nil {
				writeError(w, err)
				return
			}
			bucket := item.Bucket()
			if filter != "" && bucket != filter {
				continue
			}
			out = append(out, toAvailableResponse(item, bucket))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func timelineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFrom(w, r)
		if !ok {
			return
		}

		events, err := svc.Timeline(r.Context(), caller, chi.URLParam(r, "requestID"))
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]eventResponse, 0, len(events))
		for _, e := range events {
			out = append(out, eventResponse{
				ID:            e.ID,
				RequestID:     e.RequestID,
				Type:          e.Type,
				ActorID:       e.ActorID,
				ApplicationID: e.ApplicationID,
				OccurredAt:    e.OccurredAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// applyHandler godoc
// @Summary Postular a un paseo
// @Tags walks
// @Produce json
// @Param requestID path string true "ID del paseo"
// @Success 201 {object} applicationResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "rol sin permiso"
// @Failure 404 {string} string "walk request not found"
// @Failure 409 {string} string "ya postuló / paseo no está open"
// @Router /walk-requests/{requestID}/applications [post]
func applyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFrom(w, r)
		if !ok {
			return
		}

		app, err := svc.Apply(r.Context(), caller, chi.URLParam(r, "requestID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toApplicationResponse(app))
	}
}

// acceptHandler godoc
// @Summary Aceptar postulación
// @Description Acepta una postulación pending, rechaza las demás y pasa el paseo a `accepted` en una sola transacción.
// @Tags walks
// @Produce json
// @Param requestID path string true "ID del paseo"
// @Param applicationID path string true "ID de la postulación"
// @Success 200 {object} acceptResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "no es el dueño"
// @Failure 404 {string} string "walk request not found"
// @Failure 409 {string} string "estado inválido"
// @Router /walk-requests/{requestID}/applications/{applicationID}/accept [post]
func acceptHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFrom(w, r)
		if !ok {
			return
		}

		res, err := svc.AcceptApplication(r.Context(), caller,
			chi.URLParam(r, "applicationID"),
			chi.URLParam(r, "requestID"),
		)
		if err != nil {
			writeError(w, err)
			return
		}

		rejected := make([]applicationResponse, 0, len(res.Rejected))
		for _, a := range res.Rejected {
			rejected = append(rejected, toApplicationResponse(a))
		}
		writeJSON(w, http.StatusOK, acceptResponse{
			Request:  toWalkRequestResponse(res.Request),
			Accepted: toApplicationResponse(res.Accepted),
			Rejected: rejected,
		})
	}
}

func completeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFrom(w, r)
		if !ok {
			return
		}

		res, err := svc.CompleteWalk(r.Context(), caller, chi.URLParam(r, "requestID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, completeResponse{
			Request:     toWalkRequestResponse(res.Request),
			Application: toApplicationResponse(res.Application),
		})
	}
}

// rateHandler godoc
// @Summary Calificar walker
// @Description Solo una vez por paseo y solo con el paseo `completed`.
// @Tags walks
// @Accept json
// @Produce json
// @Param requestID path string true "ID del paseo"
// @Param payload body rateRequest true "rating 1-5"
// @Success 201 {object} ratingResponse
// @Failure 400 {string} string "rating fuera de rango"
// @Failure 403 {string} string "no es el dueño"
// @Failure 409 {string} string "ya calificado / paseo no completado"
// @Router /walk-requests/{requestID}/rating [post]
func rateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFrom(w, r)
		if !ok {
			return
		}

		var req rateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rt, err := svc.RateWalker(r.Context(), caller, RateInput{
			RequestID: chi.URLParam(r, "requestID"),
			WalkerID:  req.WalkerID,
			Rating:    req.Rating,
			Comments:  req.Comments,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, ratingResponse{
			ID:        rt.ID,
			RequestID: rt.RequestID,
			WalkerID:  rt.WalkerID,
			OwnerID:   rt.OwnerID,
			Rating:    rt.Rating,
			Comments:  rt.Comments,
			CreatedAt: rt.CreatedAt,
		})
	}
}

// summaryHandler godoc
// @Summary Resumen del walker
// @Tags walks
// @Produce json
// @Success 200 {object} summaryResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "rol sin permiso"
// @Router /walkers/me/summary [get]
func summaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFrom(w, r)
		if !ok {
			return
		}

		sum, err := svc.Summary(r.Context(), caller)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summaryResponse{
			Completed:     sum.Completed,
			Pending:       sum.Pending,
			TotalEarnings: sum.TotalEarnings,
		})
	}
}

func callerFrom(w http.ResponseWriter, r *http.Request) (Caller, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return Caller{}, false
	}
	return CallerFrom(claims), true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrAuth):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "walk request not found", http.StatusNotFound)
	case errors.Is(err, ErrState), errors.Is(err, ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

var requestedAtLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04"}

func parseRequestedAt(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var err error
	for _, layout := range requestedAtLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func toWalkRequestResponse(wr WalkRequest) walkRequestResponse {
	return walkRequestResponse{
		ID:              wr.ID,
		DogID:           wr.DogID,
		RequestedAt:     wr.RequestedAt,
		DurationMinutes: wr.DurationMinutes,
		Location:        wr.Location,
		Status:          wr.Status,
		CreatedAt:       wr.CreatedAt,
		UpdatedAt:       wr.UpdatedAt,
	}
}

func toApplicationResponse(a WalkApplication) applicationResponse {
	return applicationResponse{
		ID:        a.ID,
		RequestID: a.RequestID,
		WalkerID:  a.WalkerID,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toAvailableResponse(a AvailableRequest, bucket Bucket) availableResponse {
	out := availableResponse{
		RequestID:       a.RequestID,
		DogName:         a.DogName,
		Date:            a.RequestedAt.UTC().Format("2006-01-02"),
		Time:            a.RequestedAt.UTC().Format("15:04"),
		DurationMinutes: a.DurationMinutes,
		Location:        a.Location,
		WalkStatus:      a.WalkStatus,
		Bucket:          bucket,
	}
	if a.ApplicationStatus != "" {
		st := a.ApplicationStatus
		out.ApplicationStatus = &st
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
