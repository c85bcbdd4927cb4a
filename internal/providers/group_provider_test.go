package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"portal/internal/errs"
	"portal/internal/models"
	"portal/internal/structures"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderGroupProvider(t *testing.T) {
	p := NewGroupProvider(&structures.Config{}, nil)
	groups, err := p.GetGroups(context.Background(), UserContext{Name: "a", Groups: []string{"Staff"}})
	require.NoError(t, err)
	assert.Equal(t, []models.Group{{Name: "Staff"}}, groups)
}

func TestUrlGroupProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "jdoe", r.Header.Get("X-Remote-User"))
		_, _ = w.Write([]byte(`{"groups":[{"name":"Students","description":"all students"},{"name":"Everyone"}]}`))
	}))
	defer srv.Close()

	conf := &structures.Config{
		Upstream: structures.UpstreamConfig{UserHeader: "X-Remote-User"},
		Portal:   structures.PortalConfig{GroupsSource: "url", GroupsUrl: srv.URL},
	}
	client := NewHttpClientProvider(conf, &mapCache{data: map[string][]byte{}}, &mockMetrics{}, &cacheTestLogger{})
	p := NewGroupProvider(conf, client)

	groups, err := p.GetGroups(context.Background(), UserContext{Name: "jdoe"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Students", "Everyone"}, GroupNames(groups))
}

func TestUrlGroupProvider_Malformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	conf := &structures.Config{Portal: structures.PortalConfig{GroupsSource: "url", GroupsUrl: srv.URL}}
	client := NewHttpClientProvider(conf, &mapCache{data: map[string][]byte{}}, &mockMetrics{}, &cacheTestLogger{})

	_, err := NewGroupProvider(conf, client).GetGroups(context.Background(), UserContext{Name: "jdoe"})
	var malformed *errs.MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
}
