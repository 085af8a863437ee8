package handler

import (
	"github.com/firstpriority/website/internal/repository"
)

// Handler serves operational endpoints.
type Handler struct {
	store            repository.HealthChecker
	mailerConfigured bool
}

// New creates a Handler. mailerConfigured is reported by the health check
// so operators can tell when submissions are going to the fallback files.
func New(store repository.HealthChecker, mailerConfigured bool) *Handler {
	return &Handler{store: store, mailerConfigured: mailerConfigured}
}
