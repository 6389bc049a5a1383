package router

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"dog-walk-service/internal/adapters/auth/session"
	"dog-walk-service/internal/adapters/capabilities/rolematrix"
	mem "dog-walk-service/internal/adapters/storage/memory"
	pg "dog-walk-service/internal/adapters/storage/postgres"
	"dog-walk-service/internal/domain/dogs"
	"dog-walk-service/internal/domain/users"
	"dog-walk-service/internal/domain/walks"
	"dog-walk-service/internal/middleware"
	"dog-walk-service/internal/platform/logger"
	"dog-walk-service/internal/platform/metrics"
	"dog-walk-service/internal/ports/auth"

	_ "dog-walk-service/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Sessions emite y verifica los tokens de sesión (session.Manager).
type Sessions interface {
	auth.AuthVerifier
	auth.TokenIssuer
}

type Options struct {
	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger   logger.Logger
	Sessions Sessions // nil => manager efímero con secreto aleatorio
	Metrics  *metrics.Metrics

	// DevAuth habilita X-Debug-User-ID / X-Debug-User-Role.
	DevAuth bool
	Cookie  users.CookieConfig

	ImageSource dogs.ImageSource // nil => fallback de loremflickr
	RatePerWalk int
	RateLimit   middleware.RateLimitOptions
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}
	sessions := opts.Sessions
	if sessions == nil {
		mgr, err := session.NewManager(session.Config{Secret: uuid.NewString()})
		if err != nil {
			panic(err)
		}
		sessions = mgr
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(m.Instrument)

	r.Use(middleware.AuthContext(middleware.AuthOptions{
		Verifier:   sessions,
		CookieName: opts.Cookie.Name,
		DevAuth:    opts.DevAuth,
	}))
	r.Use(middleware.RateLimit(opts.RateLimit))

	r.Get("/health", healthHandler(opts.DB))
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	var (
		usersRepo users.Repository
		dogsRepo  dogs.Repository
		walksRepo walks.Repository
	)
	if opts.DB != nil {
		usersRepo = pg.NewUsersRepo(opts.DB)
		dogsRepo = pg.NewDogsRepo(opts.DB)
		walksRepo = pg.NewWalksRepo(opts.DB)
	} else {
		store := mem.NewStore()
		usersRepo = mem.NewUsersRepo(store)
		dogsRepo = mem.NewDogsRepo(store)
		walksRepo = mem.NewWalksRepo(store)
	}

	caps := rolematrix.NewResolver(nil)

	// Services por módulo
	usersSvc := users.NewService(usersRepo, sessions, users.WithLogger(log))

	dogOpts := []dogs.Option{dogs.WithLogger(log)}
	if opts.ImageSource != nil {
		dogOpts = append(dogOpts, dogs.WithImageSource(opts.ImageSource))
	}
	dogsSvc := dogs.NewService(dogsRepo, caps, dogOpts...)

	walkOpts := []walks.Option{
		walks.WithLogger(log),
		walks.WithTransitionRecorder(m),
	}
	if opts.RatePerWalk > 0 {
		walkOpts = append(walkOpts, walks.WithRatePerWalk(opts.RatePerWalk))
	}
	walksSvc := walks.NewService(walksRepo, dogsSvc, caps, walkOpts...)

	// Rutas por módulo
	users.RegisterRoutes(r, usersSvc, opts.Cookie)
	dogs.RegisterRoutes(r, dogsSvc)
	walks.RegisterRoutes(r, walksSvc)

	return r
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				http.Error(w, "db unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
