package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"portal/internal/errs"
	"portal/internal/models"
	"portal/internal/providers"
	"portal/internal/services"
	"portal/internal/testutil"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- local mocks (scoped to controller tests) ---

type mockWidgetService struct {
	widget       *models.Widget
	view         *models.WidgetView
	message      *models.ExternalMessage
	prefErr      error
	lastUser     string
	lastFname    string
	lastOpts     services.ViewOptions
	lastPrefUnit models.Unit
}

func (m *mockWidgetService) FetchSingleWidget(_ context.Context, user, fname string) *models.Widget {
	m.lastUser, m.lastFname = user, fname
	return m.widget
}
func (m *mockWidgetService) FetchWidgetJSON(_ context.Context, _ string, _ *models.Widget) (any, bool) {
	return nil, false
}
func (m *mockWidgetService) FetchRssAsJSON(_ context.Context, _, _ string) (*models.RssFeed, bool) {
	return nil, false
}
func (m *mockWidgetService) FetchActionItemQuantity(_ context.Context, _, _ string) (float64, bool) {
	return 0, false
}
func (m *mockWidgetService) FetchExternalMessage(_ context.Context, _ string, _ *models.Widget) *models.ExternalMessage {
	return m.message
}
func (m *mockWidgetService) BuildView(_ context.Context, user, fname string, opts services.ViewOptions) *models.WidgetView {
	m.lastUser, m.lastFname, m.lastOpts = user, fname, opts
	return m.view
}
func (m *mockWidgetService) BuildWidgetView(_ context.Context, _ string, _ *models.Widget, _ services.ViewOptions) *models.WidgetView {
	return m.view
}
func (m *mockWidgetService) GetWeatherPreference(_ context.Context, _ string) models.Unit {
	return models.Fahrenheit
}
func (m *mockWidgetService) SetWeatherPreference(_ context.Context, _ string, unit models.Unit) error {
	m.lastPrefUnit = unit
	return m.prefErr
}

type mockMessageService struct {
	visible     []models.Message
	seen        []int64
	lastAltered []int64
	lastAction  models.SeenAction
	lastGroups  []string
}

func (m *mockMessageService) GetAllMessages(_ context.Context, _ string) []models.Message {
	return m.visible
}
func (m *mockMessageService) FilterByData(_ context.Context, _ string, msgs []models.Message) []models.Message {
	return msgs
}
func (m *mockMessageService) GetVisibleMessages(_ context.Context, user providers.UserContext) []models.Message {
	m.lastGroups = user.Groups
	return m.visible
}
func (m *mockMessageService) GetSeenIDs(_ context.Context, _ string) []int64 { return m.seen }
func (m *mockMessageService) SetMessagesSeen(_ context.Context, _ string, original, altered []int64, action models.SeenAction) []int64 {
	m.lastAltered, m.lastAction = altered, action
	return append(append([]int64{}, original...), altered...)
}

type mockCreatorService struct {
	templateCalls int
	preview       *models.Preview
	previewErr    error
	draft         *models.Draft
	draftErr      error
	deleteErr     error
	savedUser     string
}

func (m *mockCreatorService) StarterTemplates() []models.StarterTemplate {
	m.templateCalls++
	return []models.StarterTemplate{{ID: 1, Title: "Search with Links"}}
}
func (m *mockCreatorService) Preview(_ models.Draft) (*models.Preview, error) {
	return m.preview, m.previewErr
}
func (m *mockCreatorService) SaveDraft(_ context.Context, user string, draft models.Draft) (*models.Draft, error) {
	m.savedUser = user
	if m.draftErr != nil {
		return nil, m.draftErr
	}
	draft.ID = "0b5f7c8e-1111-4d2a-9c6e-123456789abc"
	return &draft, nil
}
func (m *mockCreatorService) GetDraft(_ context.Context, _, _ string) (*models.Draft, error) {
	return m.draft, m.draftErr
}
func (m *mockCreatorService) DeleteDraft(_ context.Context, _, _ string) error {
	return m.deleteErr
}

// --- helpers ---

func newTestApi() *ApiController {
	return NewApiController(&testutil.MockLogger{}, testutil.NewMockCache())
}

// serve routes req through a chi router so URL params resolve, with the
// given user attached unless user is empty.
func serve(method, pattern string, h http.HandlerFunc, req *http.Request, user string, groups ...string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Method(method, pattern, h)
	if user != "" {
		req = req.WithContext(providers.WithUser(req.Context(), providers.UserContext{Name: user, Groups: groups}))
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

// --- ApiController tests ---

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"validation", errs.NewValidationError("bad units"), http.StatusBadRequest, `{"error":"bad units"}`},
		{"not found", errs.NewNotFoundError("draft not found"), http.StatusNotFound, `{"error":"draft not found"}`},
		{"unavailable", errs.NewUnavailableError("store off"), http.StatusServiceUnavailable, `{"error":"store off"}`},
		{"other", errors.New("boom"), http.StatusInternalServerError, `{"error":"Internal Server Error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ac := newTestApi()
			rr := httptest.NewRecorder()
			ac.writeError(rr, httptest.NewRequest(http.MethodGet, "/x", nil), tt.err)
			assert.Equal(t, tt.status, rr.Code)
			assert.JSONEq(t, tt.body, rr.Body.String())
		})
	}
}

func TestWriteError_LogsUnexpected(t *testing.T) {
	logger := &testutil.MockLogger{}
	ac := NewApiController(logger, testutil.NewMockCache())
	ac.writeError(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x", nil), errors.New("boom"))
	require.Len(t, logger.Logs, 1)
	assert.Equal(t, providers.TypePost, logger.Logs[0].Type)
}

func TestDecodeBody_TooLarge(t *testing.T) {
	ac := newTestApi()
	big := `{"units":"` + strings.Repeat("F", maxRequestBodySize) + `"}`
	req := httptest.NewRequest(http.MethodPut, "/x", strings.NewReader(big))
	var dst weatherPreferenceRequest
	err := ac.decodeBody(httptest.NewRecorder(), req, &dst)
	var validation *errs.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestUser_Missing(t *testing.T) {
	ac := newTestApi()
	rr := httptest.NewRecorder()
	_, ok := ac.user(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestServeFromCacheOrCompute_CachesResult(t *testing.T) {
	ac := newTestApi()
	calls := 0
	compute := func() (any, error) {
		calls++
		return map[string]int{"n": 1}, nil
	}

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		ac.serveFromCacheOrCompute(rr, httptest.NewRequest(http.MethodGet, "/x", nil), "k", compute)
		assert.Equal(t, http.StatusOK, rr.Code)
		body, _ := io.ReadAll(rr.Body)
		assert.JSONEq(t, `{"n":1}`, string(body))
	}
	assert.Equal(t, 1, calls)
}

func TestServeFromCacheOrCompute_ErrorNotCached(t *testing.T) {
	ac := newTestApi()
	rr := httptest.NewRecorder()
	ac.serveFromCacheOrCompute(rr, httptest.NewRequest(http.MethodGet, "/x", nil), "k", func() (any, error) {
		return nil, errs.NewUnavailableError("later")
	})
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	_, ok := ac.cache.Get("k")
	assert.False(t, ok)
}
