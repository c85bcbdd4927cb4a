package controllers

import (
	"context"
	"fmt"
	"net/http"
	"portal/internal/providers"
	"portal/internal/storage/interfaces"
	"time"

	json "github.com/goccy/go-json"
)

const healthStoreTimeout = 2 * time.Second

type HealthController struct {
	store     interfaces.KVStoreInterface
	cache     providers.CacheProviderInterface
	startTime time.Time
}

type healthResponse struct {
	Status        string               `json:"status"`
	Uptime        string               `json:"uptime"`
	UptimeSeconds float64              `json:"uptime_seconds"`
	KVDriver      string               `json:"kv_driver"`
	KVActive      bool                 `json:"kv_active"`
	KVKeys        int                  `json:"kv_keys"`
	Cache         providers.CacheStats `json:"cache"`
}

// Health reports liveness along with the key/value and cache state. A store
// that fails to count its keys marks the report degraded but still answers 200.
func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	body, err := json.Marshal(hc.report(r.Context()))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (hc *HealthController) report(ctx context.Context) healthResponse {
	up := time.Since(hc.startTime)
	rep := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(up),
		UptimeSeconds: up.Seconds(),
		KVDriver:      hc.store.Driver(),
		KVActive:      hc.store.IsActivated(),
		Cache:         hc.cache.Stats(),
	}
	if !rep.KVActive {
		return rep
	}

	ctx, cancel := context.WithTimeout(ctx, healthStoreTimeout)
	defer cancel()
	n, err := hc.store.Count(ctx)
	if err != nil {
		rep.Status = "degraded"
	}
	rep.KVKeys = n
	return rep
}

func formatDuration(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%dh%dm%ds", secs/3600, secs/60%60, secs%60)
}

func NewHealthController(store interfaces.KVStoreInterface, cache providers.CacheProviderInterface) *HealthController {
	return &HealthController{
		store:     store,
		cache:     cache,
		startTime: time.Now(),
	}
}
