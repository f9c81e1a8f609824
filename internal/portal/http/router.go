package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/portal/internal/portal/observability"
	"github.com/aussiebroadwan/portal/internal/portal/service"
	"github.com/aussiebroadwan/portal/internal/portal/store"
	"github.com/aussiebroadwan/portal/pkg/httpx"
	"github.com/aussiebroadwan/portal/pkg/slogx"

	_ "github.com/aussiebroadwan/portal/api/portal" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	pages        *Pages

	store          store.Store
	AccountService *service.AccountService
	SessionService *service.SessionService
	SessionGuard   *service.SessionGuard
	Metrics        *observability.Metrics // Optional: nil disables /metrics
	Cookies        Cookies
}

// NewRouter builds a router over st. Services and cookie settings are
// assigned by the caller before ApplyRoutes.
func NewRouter(st store.Store, buildVersion string, logger *slog.Logger) (*Router, error) {
	pages, err := NewPages()
	if err != nil {
		return nil, err
	}

	return &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		pages:        pages,
		store:        st,
	}, nil
}

func (r *Router) ApplyRoutes() {
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		r.Metrics.HTTPMiddleware(),
	}

	r.registerPages()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Portal
//	@version		0.1.0
//	@description	Session-based sign-in for the portal web pages. Sessions are opaque tokens carried in the authToken cookie.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/portal
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerPages() {
	login := &LoginHandler{
		Accounts: r.AccountService,
		Guard:    r.SessionGuard,
		Cookies:  r.Cookies,
		Pages:    r.pages,
		Metrics:  r.Metrics,
	}
	r.Mux.HandleFunc("GET /login", login.HandleGet)
	r.Mux.HandleFunc("POST /login", login.HandlePost)

	r.Mux.Handle("GET /main", &MainHandler{
		Guard:   r.SessionGuard,
		Users:   r.store.Users(),
		Cookies: r.Cookies,
		Pages:   r.pages,
		Metrics: r.Metrics,
	})
	r.Mux.Handle("GET /admin", &AdminHandler{
		Guard:   r.SessionGuard,
		Cookies: r.Cookies,
		Pages:   r.pages,
		Metrics: r.Metrics,
	})
	r.Mux.Handle("POST /logout", &LogoutHandler{
		Sessions: r.SessionService,
		Cookies:  r.Cookies,
		Pages:    r.pages,
	})

	r.Mux.Handle("GET /{$}", http.RedirectHandler("/main", http.StatusFound))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))

	if r.Metrics != nil {
		r.Mux.Handle("GET /metrics", r.Metrics.Handler())
	}
}
