package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/firstpriority/website/internal/catalog"
	"github.com/firstpriority/website/internal/model"
	"github.com/firstpriority/website/internal/service"
	"github.com/firstpriority/website/pkg/flash"
)

// maxFormBytes caps the size of a form body.
const maxFormBytes = 64 << 10

// IntakeHandler serves the contact and hiring forms.
type IntakeHandler struct {
	intake   service.IntakeService
	catalog  *catalog.Catalog
	renderer *Renderer
	flash    *flash.Store
}

// NewIntakeHandler creates an IntakeHandler.
func NewIntakeHandler(intake service.IntakeService, c *catalog.Catalog, r *Renderer, f *flash.Store) *IntakeHandler {
	return &IntakeHandler{intake: intake, catalog: c, renderer: r, flash: f}
}

// ContactForm handles GET /contact.
func (h *IntakeHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	h.showForm(w, r, model.KindContact, http.StatusOK, "", model.Submission{})
}

// ContactSubmit handles POST /contact.
func (h *IntakeHandler) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, model.KindContact)
}

// HiringForm handles GET /hiring.
func (h *IntakeHandler) HiringForm(w http.ResponseWriter, r *http.Request) {
	h.showForm(w, r, model.KindHiring, http.StatusOK, "", model.Submission{})
}

// HiringSubmit handles POST /hiring.
func (h *IntakeHandler) HiringSubmit(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, model.KindHiring)
}

func (h *IntakeHandler) submit(w http.ResponseWriter, r *http.Request, kind model.Kind) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.renderer.renderError(w, http.StatusRequestEntityTooLarge)
			return
		}
		h.renderer.renderError(w, http.StatusBadRequest)
		return
	}

	raw := model.Submission{
		Name:    r.PostForm.Get("name"),
		Email:   r.PostForm.Get("email"),
		Message: r.PostForm.Get("message"),
	}

	// A started run finishes even if the visitor disconnects.
	out, err := h.intake.Submit(context.WithoutCancel(r.Context()), kind, raw)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			h.showForm(w, r, kind, http.StatusUnprocessableEntity, verr.Error(), raw)
			return
		}
		slog.Error("intake failed", "kind", kind, "request_id", RequestIDFromContext(r.Context()), "error", err)
		h.renderer.renderError(w, http.StatusInternalServerError)
		return
	}

	h.flash.Set(w, out.Notice)
	http.Redirect(w, r, formPath(kind), http.StatusSeeOther)
}

func (h *IntakeHandler) showForm(w http.ResponseWriter, r *http.Request, kind model.Kind, status int, errMsg string, form model.Submission) {
	data := pageData{
		Meta:  h.catalog.Page(string(kind)),
		Error: errMsg,
		Form:  form,
	}
	if status == http.StatusOK {
		data.Notice, _ = h.flash.Pop(w, r)
	}
	if kind == model.KindHiring {
		data.Jobs = h.catalog.Jobs()
	}
	h.renderer.Render(w, status, string(kind), data)
}

func formPath(kind model.Kind) string {
	return "/" + string(kind)
}
