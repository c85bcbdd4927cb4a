package controllers

import (
	"net/http"
	"net/http/httptest"
	"portal/internal/errs"
	"portal/internal/models"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemplates_ServedFromCache(t *testing.T) {
	svc := &mockCreatorService{}
	cc := NewCreatorController(newTestApi(), svc)

	for i := 0; i < 3; i++ {
		rr := serve(http.MethodGet, "/creator/templates", cc.Templates, httptest.NewRequest(http.MethodGet, "/creator/templates", nil), "u")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Search with Links")
	}
	assert.Equal(t, 1, svc.templateCalls)
}

func TestPreview(t *testing.T) {
	svc := &mockCreatorService{preview: &models.Preview{ErrorJSON: "JSON NOT VALID"}}
	cc := NewCreatorController(newTestApi(), svc)

	req := httptest.NewRequest(http.MethodPost, "/creator/preview", strings.NewReader(`{"title":"x","widgetType":"custom","content":"{"}`))
	rr := serve(http.MethodPost, "/creator/preview", cc.Preview, req, "u")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "JSON NOT VALID")
}

func TestSaveDraft(t *testing.T) {
	svc := &mockCreatorService{}
	cc := NewCreatorController(newTestApi(), svc)

	req := httptest.NewRequest(http.MethodPost, "/creator/drafts", strings.NewReader(`{"title":"x","widgetType":"custom"}`))
	rr := serve(http.MethodPost, "/creator/drafts", cc.SaveDraft, req, "bucky")
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "bucky", svc.savedUser)
	assert.Contains(t, rr.Body.String(), `"id":"0b5f7c8e-1111-4d2a-9c6e-123456789abc"`)
}

func TestDraftErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unavailable", errs.NewUnavailableError("off"), http.StatusServiceUnavailable},
		{"not found", errs.NewNotFoundError("draft not found"), http.StatusNotFound},
		{"invalid id", errs.NewValidationError("draft id must be a uuid"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := NewCreatorController(newTestApi(), &mockCreatorService{draftErr: tt.err, deleteErr: tt.err})

			rr := serve(http.MethodGet, "/creator/drafts/{id}", cc.GetDraft, httptest.NewRequest(http.MethodGet, "/creator/drafts/abc", nil), "u")
			assert.Equal(t, tt.status, rr.Code)

			rr = serve(http.MethodDelete, "/creator/drafts/{id}", cc.DeleteDraft, httptest.NewRequest(http.MethodDelete, "/creator/drafts/abc", nil), "u")
			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestDeleteDraft_NoContent(t *testing.T) {
	cc := NewCreatorController(newTestApi(), &mockCreatorService{})
	rr := serve(http.MethodDelete, "/creator/drafts/{id}", cc.DeleteDraft, httptest.NewRequest(http.MethodDelete, "/creator/drafts/abc", nil), "u")
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
