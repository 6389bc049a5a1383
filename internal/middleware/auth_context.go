package middleware

import (
	"context"
	"net/http"
	"strings"

	"dog-walk-service/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

const (
	DefaultSessionCookie = "dogwalk_session"

	HeaderDebugUserID   = "X-Debug-User-ID"
	HeaderDebugUserRole = "X-Debug-User-Role"
)

type AuthOptions struct {
	// Verifier valida Bearer y cookie. Puede ser nil si solo se usa DevAuth.
	Verifier   auth.AuthVerifier
	CookieName string

	// DevAuth habilita X-Debug-User-ID / X-Debug-User-Role. Nunca en producción.
	DevAuth bool
}

// AuthContext resuelve claims en este orden:
// - Bearer token (Authorization)
// - cookie de sesión
// - headers de debug, solo con DevAuth
// Si no hay claims, el request sigue igual; los handlers decidirán si exigen auth.
func AuthContext(opts AuthOptions) func(http.Handler) http.Handler {
	cookieName := strings.TrimSpace(opts.CookieName)
	if cookieName == "" {
		cookieName = DefaultSessionCookie
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, ok := resolveClaims(r, opts, cookieName); ok {
				r = r.WithContext(WithClaims(r.Context(), claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func resolveClaims(r *http.Request, opts AuthOptions, cookieName string) (auth.Claims, bool) {
	if opts.Verifier != nil {
		if token := bearerToken(r.Header.Get("Authorization")); token != "" {
			// Token inválido: no cortamos aquí. El handler decide 401/403.
			if c, err := opts.Verifier.Verify(r.Context(), token); err == nil {
				return c, true
			}
		}
		if ck, err := r.Cookie(cookieName); err == nil && strings.TrimSpace(ck.Value) != "" {
			if c, err := opts.Verifier.Verify(r.Context(), ck.Value); err == nil {
				return c, true
			}
		}
	}

	if !opts.DevAuth {
		return auth.Claims{}, false
	}
	uid := strings.TrimSpace(r.Header.Get(HeaderDebugUserID))
	if uid == "" {
		return auth.Claims{}, false
	}
	role, ok := auth.ParseRole(r.Header.Get(HeaderDebugUserRole))
	if !ok {
		role = ""
	}
	return auth.Claims{UserID: uid, Username: uid, Role: role}, true
}

func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	return c, ok
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
