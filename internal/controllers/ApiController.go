package controllers

import (
	"errors"
	"net/http"
	"portal/internal/errs"
	"portal/internal/providers"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

// ApiController holds what every portal controller needs to answer a request.
type ApiController struct {
	logger providers.Logger
	cache  providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger: logger,
		cache:  cache,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (ac *ApiController) writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		ac.logger.Errorf(providers.TypeApp, "Encode response: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// writeError maps typed errors onto HTTP statuses.
func (ac *ApiController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation  *errs.ValidationError
		notFound    *errs.NotFoundError
		unavailable *errs.UnavailableError
	)
	status := http.StatusInternalServerError
	msg := "Internal Server Error"
	switch {
	case errors.As(err, &validation):
		status, msg = http.StatusBadRequest, validation.Message
	case errors.As(err, &notFound):
		status, msg = http.StatusNotFound, notFound.Message
	case errors.As(err, &unavailable):
		status, msg = http.StatusServiceUnavailable, unavailable.Message
	default:
		ac.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s: %s", r.Method, r.URL.Path, err)
	}
	ac.writeJSON(w, status, errorResponse{Error: msg})
}

func (ac *ApiController) decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.NewValidationError("Bad Request: " + err.Error())
	}
	return nil
}

func (ac *ApiController) user(w http.ResponseWriter, r *http.Request) (providers.UserContext, bool) {
	user, ok := providers.UserFromContext(r.Context())
	if !ok {
		ac.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing user identity"})
	}
	return user, ok
}

// serveFromCacheOrCompute answers from the response cache when possible.
// Only responses that do not depend on the caller may go through here.
func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, r *http.Request, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.writeError(w, r, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}
