package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
)

const (
	numUsers     = 200
	numMessages  = 40
	userHeader   = "X-Portal-User"
	groupsHeader = "X-Portal-Groups"
)

var (
	baseURL = envOr("PORTAL_LOADTEST_URL", "http://127.0.0.1:18090")
	fnames  = strings.Split(envOr("PORTAL_LOADTEST_WIDGETS", "weather,news,search,my-courses"), ",")
	groups  = []string{"Students", "Staff", "Faculty", "Students,Staff"}
	units   = []string{"F", "C", "K"}
)

var (
	workers    = flag.Int("workers", 50, "concurrent virtual users")
	phaseLen   = flag.Duration("phase", 10*time.Second, "length of each phase")
	httpClient = &http.Client{
		Timeout: 5 * time.Second,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 256,
			IdleConnTimeout:     time.Minute,
		},
	}
)

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	failed   bool
}

// recorder aggregates results per endpoint label.
type recorder struct {
	mu        sync.Mutex
	latencies map[string][]time.Duration
	failures  map[string]int
}

func newRecorder() *recorder {
	return &recorder{latencies: map[string][]time.Duration{}, failures: map[string]int{}}
}

func (r *recorder) add(res result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latencies[res.endpoint] = append(r.latencies[res.endpoint], res.latency)
	if res.failed {
		r.failures[res.endpoint]++
	}
}

type operation func(ctx context.Context, rng *rand.Rand) result

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func waitForServer(ctx context.Context) error {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
		if resp, err := httpClient.Do(req); err == nil {
			_ = resp.Body.Close()
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.New("server not responding")
		case <-ticker.C:
		}
	}
}

func main() {
	flag.Parse()
	fmt.Printf("portald load test against %s: %d workers, %s per phase, %d users, widgets %s\n",
		baseURL, *workers, *phaseLen, numUsers, strings.Join(fnames, ","))

	waitCtx, cancel := context.WithTimeout(context.Background(), 6*time.Second)
	err := waitForServer(waitCtx)
	cancel()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	phases := []struct {
		title string
		op    operation
	}{
		{"cold reads", mix(weighted{0.6, doGetView}, weighted{0.4, doGetMessages})},
		{"mixed portal traffic", mix(
			weighted{0.45, doGetView},
			weighted{0.20, doGetMessages},
			weighted{0.15, doGetSeen},
			weighted{0.10, doSetSeen},
			weighted{0.05, doSetPreference},
			weighted{0.05, doGetTemplates},
		)},
		{"key/value writes", mix(weighted{0.6, doSetSeen}, weighted{0.3, doSetPreference}, weighted{0.1, doGetSeen})},
	}
	for i, ph := range phases {
		fmt.Printf("\n[%d/%d] %s\n", i+1, len(phases), ph.title)
		report(runPhase(ph.op), *phaseLen)
	}
}

type weighted struct {
	share float64
	op    operation
}

func mix(ops ...weighted) operation {
	return func(ctx context.Context, rng *rand.Rand) result {
		pick := rng.Float64()
		for _, w := range ops {
			if pick < w.share {
				return w.op(ctx, rng)
			}
			pick -= w.share
		}
		return ops[len(ops)-1].op(ctx, rng)
	}
}

func runPhase(op operation) *recorder {
	ctx, cancel := context.WithTimeout(context.Background(), *phaseLen)
	defer cancel()

	rec := newRecorder()
	var g errgroup.Group
	for i := 0; i < *workers; i++ {
		seed := time.Now().UnixNano() + int64(i)
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed))
			for ctx.Err() == nil {
				res := op(ctx, rng)
				if ctx.Err() != nil {
					break
				}
				rec.add(res)
			}
			return nil
		})
	}
	_ = g.Wait()
	return rec
}

func report(rec *recorder, elapsed time.Duration) {
	labels := make([]string, 0, len(rec.latencies))
	for label := range rec.latencies {
		labels = append(labels, label)
	}
	slices.Sort(labels)

	rule := "  " + strings.Repeat("=", 92)
	fmt.Printf("  %-28s %8s %6s %10s %10s %10s %10s\n", "endpoint", "n", "fail", "mean", "p50", "p95", "p99")
	fmt.Println(rule)

	total, failed := 0, 0
	for _, label := range labels {
		lat := rec.latencies[label]
		slices.Sort(lat)
		total += len(lat)
		failed += rec.failures[label]
		fmt.Printf("  %-28s %8d %6d %10s %10s %10s %10s\n", label, len(lat), rec.failures[label],
			fmtDur(mean(lat)), fmtDur(quantile(lat, 0.50)), fmtDur(quantile(lat, 0.95)), fmtDur(quantile(lat, 0.99)))
	}
	fmt.Println(rule)
	if total == 0 {
		fmt.Println("  nothing completed")
		return
	}
	fmt.Printf("  %d requests, %d failed (%.2f%%), %.0f req/s\n",
		total, failed, 100*float64(failed)/float64(total), float64(total)/elapsed.Seconds())
}

// call sends one request as a random portal user. expected is the status
// that counts as success.
func call(ctx context.Context, rng *rand.Rand, endpoint, method, path string, body any, expected int) result {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return result{endpoint: endpoint, failed: true}
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, reader)
	if err != nil {
		return result{endpoint: endpoint, failed: true}
	}
	req.Header.Set(userHeader, fmt.Sprintf("user%d", rng.Intn(numUsers)))
	req.Header.Set(groupsHeader, groups[rng.Intn(len(groups))])
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	began := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return result{endpoint: endpoint, latency: time.Since(began), failed: true}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return result{endpoint: endpoint, status: resp.StatusCode, latency: time.Since(began), failed: resp.StatusCode != expected}
}

func doGetView(ctx context.Context, rng *rand.Rand) result {
	fname := fnames[rng.Intn(len(fnames))]
	return call(ctx, rng, "GET /widgets/{fname}", http.MethodGet, "/widgets/"+fname, nil, http.StatusOK)
}

func doGetMessages(ctx context.Context, rng *rand.Rand) result {
	return call(ctx, rng, "GET /messages", http.MethodGet, "/messages", nil, http.StatusOK)
}

func doGetSeen(ctx context.Context, rng *rand.Rand) result {
	return call(ctx, rng, "GET /messages/seen", http.MethodGet, "/messages/seen", nil, http.StatusOK)
}

func doSetSeen(ctx context.Context, rng *rand.Rand) result {
	n := rng.Intn(4) + 1
	altered := make([]int64, n)
	for i := range altered {
		altered[i] = int64(rng.Intn(numMessages) + 1)
	}
	action := "dismiss"
	if rng.Float64() < 0.3 {
		action = "restore"
	}
	body := map[string]any{"altered": altered, "action": action}
	return call(ctx, rng, "POST /messages/seen", http.MethodPost, "/messages/seen", body, http.StatusOK)
}

func doSetPreference(ctx context.Context, rng *rand.Rand) result {
	body := map[string]string{"units": units[rng.Intn(len(units))]}
	return call(ctx, rng, "PUT /weather/preference", http.MethodPut, "/weather/preference", body, http.StatusOK)
}

func doGetTemplates(ctx context.Context, rng *rand.Rand) result {
	return call(ctx, rng, "GET /creator/templates", http.MethodGet, "/creator/templates", nil, http.StatusOK)
}

func mean(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var total time.Duration
	for _, v := range d {
		total += v
	}
	return total / time.Duration(len(d))
}

// quantile expects d sorted ascending.
func quantile(d []time.Duration, q float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	return d[min(int(float64(len(d))*q), len(d)-1)]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
}
