package controllers

import (
	"net/http"
	"portal/internal/models"
	"portal/internal/services"

	"github.com/go-chi/chi/v5"
)

const templatesCacheKey = "creator:templates"

type CreatorController struct {
	*ApiController
	service services.CreatorServiceInterface
}

func NewCreatorController(api *ApiController, service services.CreatorServiceInterface) *CreatorController {
	return &CreatorController{
		ApiController: api,
		service:       service,
	}
}

func (cc *CreatorController) Templates(w http.ResponseWriter, r *http.Request) {
	cc.serveFromCacheOrCompute(w, r, templatesCacheKey, func() (any, error) {
		return cc.service.StarterTemplates(), nil
	})
}

func (cc *CreatorController) Preview(w http.ResponseWriter, r *http.Request) {
	var draft models.Draft
	if err := cc.decodeBody(w, r, &draft); err != nil {
		cc.writeError(w, r, err)
		return
	}
	preview, err := cc.service.Preview(draft)
	if err != nil {
		cc.writeError(w, r, err)
		return
	}
	cc.writeJSON(w, http.StatusOK, preview)
}

func (cc *CreatorController) SaveDraft(w http.ResponseWriter, r *http.Request) {
	user, ok := cc.user(w, r)
	if !ok {
		return
	}
	var draft models.Draft
	if err := cc.decodeBody(w, r, &draft); err != nil {
		cc.writeError(w, r, err)
		return
	}
	saved, err := cc.service.SaveDraft(r.Context(), user.Name, draft)
	if err != nil {
		cc.writeError(w, r, err)
		return
	}
	cc.writeJSON(w, http.StatusCreated, saved)
}

func (cc *CreatorController) GetDraft(w http.ResponseWriter, r *http.Request) {
	user, ok := cc.user(w, r)
	if !ok {
		return
	}
	draft, err := cc.service.GetDraft(r.Context(), user.Name, chi.URLParam(r, "id"))
	if err != nil {
		cc.writeError(w, r, err)
		return
	}
	cc.writeJSON(w, http.StatusOK, draft)
}

func (cc *CreatorController) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	user, ok := cc.user(w, r)
	if !ok {
		return
	}
	if err := cc.service.DeleteDraft(r.Context(), user.Name, chi.URLParam(r, "id")); err != nil {
		cc.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
