package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dummyHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestRouterProvider_GetAddsRoute(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/test", dummyHandler())

	routes := rp.GetRoutes()
	require.Len(t, routes, 1)
	assert.Equal(t, "/test", routes[0].Url)
	assert.Equal(t, http.MethodGet, routes[0].Method)
}

func TestRouterProvider_MethodsRecorded(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/a", dummyHandler())
	rp.Post("/b", dummyHandler())
	rp.Put("/c", dummyHandler())
	rp.Delete("/d/{id}", dummyHandler())

	routes := rp.GetRoutes()
	require.Len(t, routes, 4)
	methods := []string{routes[0].Method, routes[1].Method, routes[2].Method, routes[3].Method}
	assert.Equal(t, []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}, methods)
}

func TestRouterProvider_MountServesRoute(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/widgets/{fname}", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chi.URLParam(r, "fname")))
	}))

	r := chi.NewRouter()
	rp.Mount(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/widgets/weather", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "weather", rr.Body.String())
}

func TestRouterProvider_MountRejectsWrongMethod(t *testing.T) {
	rp := NewRouterProvider()
	rp.Post("/submit", dummyHandler())

	r := chi.NewRouter()
	rp.Mount(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/submit", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
