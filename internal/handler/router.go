package handler

import (
	"net/http"

	"github.com/firstpriority/website/internal/catalog"
	"github.com/firstpriority/website/internal/metrics"
	"github.com/firstpriority/website/internal/repository"
	"github.com/firstpriority/website/internal/service"
	"github.com/firstpriority/website/internal/web"
	"github.com/firstpriority/website/pkg/flash"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Catalog            *catalog.Catalog
	Intake             service.IntakeService
	Flash              *flash.Store
	Store              repository.HealthChecker
	MailerConfigured   bool
	Metrics            *metrics.Metrics
	RateLimitPerMinute int
}

// Router is the site's root http.Handler.
type Router struct {
	mux     chi.Router
	limiter *RateLimiter
}

// NewRouter builds every route. Close must be called to stop the rate
// limiter's background cleanup.
func NewRouter(d Deps) (*Router, error) {
	renderer, err := NewRenderer(web.Templates())
	if err != nil {
		return nil, err
	}

	pagesH := NewPageHandler(d.Catalog, renderer)
	intakeH := NewIntakeHandler(d.Intake, d.Catalog, renderer, d.Flash)
	opsH := New(d.Store, d.MailerConfigured)
	limiter := NewRateLimiter(d.RateLimitPerMinute, func(w http.ResponseWriter, r *http.Request) {
		renderer.renderError(w, http.StatusTooManyRequests)
	})

	r := chi.NewRouter()
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(SecurityHeaders)

	r.Get("/", pagesH.Home)
	r.Get("/about", pagesH.About)
	r.Get("/services", pagesH.Services)
	r.Get("/events", pagesH.Events)

	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Get("/contact", intakeH.ContactForm)
		r.Post("/contact", intakeH.ContactSubmit)
		r.Get("/hiring", intakeH.HiringForm)
		r.Post("/hiring", intakeH.HiringSubmit)
	})

	r.Get("/healthz", opsH.Health)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))
	r.NotFound(pagesH.NotFound)

	return &Router{mux: r, limiter: limiter}, nil
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.mux.ServeHTTP(w, r)
}

// Close releases background resources.
func (rt *Router) Close() {
	rt.limiter.Close()
}
