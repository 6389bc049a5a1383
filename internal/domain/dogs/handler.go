package dogs

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
	r.Route("/dogs", func(dr chi.Router) {
		dr.Post("/", createDogHandler(svc))
		dr.Get("/", listDogsHandler(svc))
		dr.Delete("/{dogID}", deleteDogHandler(svc))
	})
}

type createDogRequest struct {
	Name string `json:"name"`
	Size string `json:"size"` // small | medium | large
}

type dogResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Size      Size      `json:"size"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// createDogHandler godoc
// @Summary Registrar perro
// @Description El owner registra un perro. La foto se obtiene de dog.ceo o de un fallback. Autenticación: `X-Debug-User-ID` (dev), cookie de sesión o `Authorization: Bearer <token>`.
// @Tags dogs
// @Accept json
// @Produce json
// @Param payload body createDogRequest true "Nombre y tamaño"
// @Success 201 {object} dogResponse
// @Failure 400 {string} string "invalid json / campos requeridos / size inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /dogs [post]
func createDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createDogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		d, err := svc.Create(r.Context(), claims, CreateInput{Name: req.Name, Size: req.Size})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toDogResponse(d))
	}
}

// listDogsHandler godoc
// @Summary Listar mis perros
// @Tags dogs
// @Produce json
// @Success 200 {array} dogResponse
// @Failure 401 {string} string "unauthorized"
// @Router /dogs [get]
func listDogsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]dogResponse, 0, len(items))
		for _, d := range items {
			out = append(out, toDogResponse(d))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func deleteDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), claims, chi.URLParam(r, "dogID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "dog not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toDogResponse(d Dog) dogResponse {
	return dogResponse{
		ID:        d.ID,
		OwnerID:   d.OwnerID,
		Name:      d.Name,
		Size:      d.Size,
		ImageURL:  d.ImageURL,
		CreatedAt: d.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
