package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"dog-walk-service/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// CookieConfig define la cookie de sesión que setea el login.
type CookieConfig struct {
	Name   string
	Secure bool
}

func RegisterRoutes(r chi.Router, svc *Service, cookie CookieConfig) {
	if strings.TrimSpace(cookie.Name) == "" {
		cookie.Name = middleware.DefaultSessionCookie
	}

	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/signup", signupHandler(svc))
		ar.Post("/login", loginHandler(svc, cookie))
		ar.Post("/logout", logoutHandler(cookie))
		ar.Get("/me", meHandler())
		ar.Post("/reset-password", resetPasswordHandler(svc))
	})
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // owner | walker
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type loginRequest struct {
	Identifier string `json:"identifier"` // username o email
	Password   string `json:"password"`
}

type loginResponse struct {
	User      userResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type resetPasswordRequest struct {
	Username    string `json:"username"`
	NewPassword string `json:"new_password"`
}

type meResponse struct {
	Authenticated bool   `json:"authenticated"`
	ID            string `json:"id,omitempty"`
	Username      string `json:"username,omitempty"`
	Role          string `json:"role,omitempty"`
}

// signupHandler godoc
// @Summary Registrar usuario
// @Description Crea un usuario owner o walker. Username y email deben ser únicos.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body signupRequest true "Datos del usuario"
// @Success 201 {object} userResponse
// @Failure 400 {string} string "invalid json / campos requeridos / rol inválido"
// @Failure 409 {string} string "username or email already exists"
// @Router /auth/signup [post]
func signupHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		u, err := svc.Signup(r.Context(), SignupInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			Role:     req.Role,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toUserResponse(u))
	}
}

// loginHandler godoc
// @Summary Login
// @Description Valida credenciales (username o email), setea la cookie de sesión y devuelve el token para usar como Bearer.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} loginResponse
// @Failure 400 {string} string "invalid json / campos requeridos"
// @Failure 401 {string} string "invalid credentials"
// @Router /auth/login [post]
func loginHandler(svc *Service, cookie CookieConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sess, err := svc.Login(r.Context(), req.Identifier, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     cookie.Name,
			Value:    sess.Token,
			Path:     "/",
			Expires:  sess.ExpiresAt,
			HttpOnly: true,
			Secure:   cookie.Secure,
			SameSite: http.SameSiteLaxMode,
		})

		writeJSON(w, http.StatusOK, loginResponse{
			User:      toUserResponse(sess.User),
			Token:     sess.Token,
			ExpiresAt: sess.ExpiresAt,
		})
	}
}

// logoutHandler borra la cookie. El JWT sigue siendo válido hasta expirar.
func logoutHandler(cookie CookieConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     cookie.Name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   cookie.Secure,
			SameSite: http.SameSiteLaxMode,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

// meHandler godoc
// @Summary Estado de la sesión
// @Tags auth
// @Produce json
// @Success 200 {object} meResponse
// @Failure 401 {object} meResponse
// @Router /auth/me [get]
func meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeJSON(w, http.StatusUnauthorized, meResponse{Authenticated: false})
			return
		}

		writeJSON(w, http.StatusOK, meResponse{
			Authenticated: true,
			ID:            claims.UserID,
			Username:      claims.Username,
			Role:          string(claims.Role),
		})
	}
}

func resetPasswordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resetPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if err := svc.ResetPassword(r.Context(), req.Username, req.NewPassword); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrInvalidCredentials):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
