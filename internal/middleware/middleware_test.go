package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dog-walk-service/internal/platform/logger"
	"dog-walk-service/internal/ports/auth"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type stubVerifier map[string]auth.Claims

func (s stubVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	c, ok := s[token]
	if !ok {
		return auth.Claims{}, errors.New("bad token")
	}
	return c, nil
}

func claimsProbe(got *auth.Claims, ok *bool) http.Handler {
	return http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		*got, *ok = GetClaims(r.Context())
	})
}

func TestAuthContext_ResolutionOrder(t *testing.T) {
	verifier := stubVerifier{
		"bearer-tok": {UserID: "u-bearer", Role: auth.RoleOwner},
		"cookie-tok": {UserID: "u-cookie", Role: auth.RoleWalker},
	}

	cases := []struct {
		name    string
		devAuth bool
		setup   func(r *http.Request)
		wantOK  bool
		wantUID string
	}{
		{
			name: "bearer wins over cookie",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer bearer-tok")
				r.AddCookie(&http.Cookie{Name: DefaultSessionCookie, Value: "cookie-tok"})
			},
			wantOK: true, wantUID: "u-bearer",
		},
		{
			name: "invalid bearer falls back to cookie",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer nope")
				r.AddCookie(&http.Cookie{Name: DefaultSessionCookie, Value: "cookie-tok"})
			},
			wantOK: true, wantUID: "u-cookie",
		},
		{
			name: "debug headers ignored without dev auth",
			setup: func(r *http.Request) {
				r.Header.Set(HeaderDebugUserID, "dev-1")
			},
			wantOK: false,
		},
		{
			name:    "debug headers with dev auth",
			devAuth: true,
			setup: func(r *http.Request) {
				r.Header.Set(HeaderDebugUserID, "dev-1")
				r.Header.Set(HeaderDebugUserRole, "Walker")
			},
			wantOK: true, wantUID: "dev-1",
		},
		{
			name:   "anonymous",
			setup:  func(*http.Request) {},
			wantOK: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var (
				got auth.Claims
				ok  bool
			)
			h := AuthContext(AuthOptions{Verifier: verifier, DevAuth: tc.devAuth})(claimsProbe(&got, &ok))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tc.setup(req)
			h.ServeHTTP(httptest.NewRecorder(), req)

			if ok != tc.wantOK {
				t.Fatalf("expected ok=%v, got %v (%+v)", tc.wantOK, ok, got)
			}
			if ok && got.UserID != tc.wantUID {
				t.Fatalf("expected user %q, got %q", tc.wantUID, got.UserID)
			}
		})
	}
}

func TestAuthContext_DevRoleIsParsed(t *testing.T) {
	var (
		got auth.Claims
		ok  bool
	)
	h := AuthContext(AuthOptions{DevAuth: true})(claimsProbe(&got, &ok))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderDebugUserID, "dev-1")
	req.Header.Set(HeaderDebugUserRole, " WALKER ")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !ok || got.Role != auth.RoleWalker {
		t.Fatalf("expected walker role, got %+v ok=%v", got, ok)
	}
}

func TestRateLimit_PerCaller(t *testing.T) {
	h := RateLimit(RateLimitOptions{RPS: 1, Burst: 2})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := 0; i < 2; i++ {
		if code := call("10.0.0.1:1234"); code != http.StatusNoContent {
			t.Fatalf("request %d within burst: got %d", i, code)
		}
	}
	if code := call("10.0.0.1:5678"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", code)
	}
	if code := call("10.0.0.2:1234"); code != http.StatusNoContent {
		t.Fatalf("other ip should not be limited, got %d", code)
	}
}

func TestRateLimit_DisabledWhenRPSZero(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {})
	h := RateLimit(RateLimitOptions{})(next)
	for i := 0; i < 100; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected no limiting, got %d", rr.Code)
		}
	}
}

func TestRequestLogger_LogsStatusAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Debug, Format: logger.FormatText, Output: &buf})

	h := chimw.RequestID(RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dogs/x", nil))

	out := buf.String()
	for _, want := range []string{"level=warning", "status=404", "path=/dogs/x", "request_id="} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in log line, got %s", want, out)
		}
	}
}
