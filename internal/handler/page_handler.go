package handler

import (
	"net/http"

	"github.com/firstpriority/website/internal/catalog"
)

// PageHandler serves the informational pages built from the catalog.
type PageHandler struct {
	catalog  *catalog.Catalog
	renderer *Renderer
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(c *catalog.Catalog, r *Renderer) *PageHandler {
	return &PageHandler{catalog: c, renderer: r}
}

// Home handles GET /.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "home", pageData{Meta: h.catalog.Page("home")})
}

// About handles GET /about.
func (h *PageHandler) About(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "about", pageData{Meta: h.catalog.Page("about")})
}

// Services handles GET /services.
func (h *PageHandler) Services(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "services", pageData{
		Meta:     h.catalog.Page("services"),
		Services: h.catalog.Services(),
	})
}

// Events handles GET /events.
func (h *PageHandler) Events(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "events", pageData{
		Meta:           h.catalog.Page("events"),
		UpcomingEvents: h.catalog.UpcomingEvents(),
		PastEvents:     h.catalog.PastEvents(),
	})
}

// NotFound renders the 404 page.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderError(w, http.StatusNotFound)
}
