package controllers

import (
	"net/http"
	"portal/internal/errs"
	"portal/internal/models"
	"portal/internal/services"
	"portal/internal/widgets"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cast"
)

type WidgetController struct {
	*ApiController
	service services.WidgetServiceInterface
}

func NewWidgetController(api *ApiController, service services.WidgetServiceInterface) *WidgetController {
	return &WidgetController{
		ApiController: api,
		service:       service,
	}
}

type entryResponse struct {
	Widget *models.Widget `json:"widget"`
	Type   string         `json:"type"`
}

type weatherPreferenceRequest struct {
	Units models.Unit `json:"units"`
}

func (wc *WidgetController) GetView(w http.ResponseWriter, r *http.Request) {
	user, ok := wc.user(w, r)
	if !ok {
		return
	}
	opts := services.ViewOptions{WebPortletRender: cast.ToBool(r.URL.Query().Get("webPortletRender"))}
	view := wc.service.BuildView(r.Context(), user.Name, chi.URLParam(r, "fname"), opts)
	wc.writeJSON(w, http.StatusOK, view)
}

func (wc *WidgetController) GetEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := wc.user(w, r)
	if !ok {
		return
	}
	widget := wc.service.FetchSingleWidget(r.Context(), user.Name, chi.URLParam(r, "fname"))
	wc.writeJSON(w, http.StatusOK, entryResponse{Widget: widget, Type: widgets.ResolveType(widget)})
}

func (wc *WidgetController) GetExternalMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := wc.user(w, r)
	if !ok {
		return
	}
	fname := chi.URLParam(r, "fname")
	widget := wc.service.FetchSingleWidget(r.Context(), user.Name, fname)
	msg := wc.service.FetchExternalMessage(r.Context(), user.Name, widget)
	if msg == nil {
		wc.writeError(w, r, errs.NewNotFoundError("no external message for "+fname))
		return
	}
	wc.writeJSON(w, http.StatusOK, msg)
}

func (wc *WidgetController) SetWeatherPreference(w http.ResponseWriter, r *http.Request) {
	user, ok := wc.user(w, r)
	if !ok {
		return
	}
	var req weatherPreferenceRequest
	if err := wc.decodeBody(w, r, &req); err != nil {
		wc.writeError(w, r, err)
		return
	}
	if err := wc.service.SetWeatherPreference(r.Context(), user.Name, req.Units); err != nil {
		wc.writeError(w, r, err)
		return
	}
	wc.writeJSON(w, http.StatusOK, models.WeatherPreference{UserWeatherPreference: req.Units})
}
