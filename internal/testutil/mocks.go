package testutil

import (
	"context"
	"portal/internal/errs"
	"portal/internal/models"
	"portal/internal/providers"
	"strings"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Stats() providers.CacheStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return providers.CacheStats{Enabled: true, Entries: int64(len(m.Data))}
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu                  sync.Mutex
	Requests            map[string]int
	CacheHits           int
	CacheMisses         int
	Upstream            map[string]int
	PersistenceObserved int
	KVKeys              map[string]int
	VisibleMessages     []int
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Requests == nil {
		m.Requests = map[string]int{}
	}
	m.Requests[endpoint]++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) IncUpstreamFetches(kind string, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Upstream == nil {
		m.Upstream = map[string]int{}
	}
	m.Upstream[kind+":"+outcome]++
}
func (m *MockMetrics) ObserveUpstreamDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistenceObserved++
}
func (m *MockMetrics) SetKVKeys(driver string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.KVKeys == nil {
		m.KVKeys = map[string]int{}
	}
	m.KVKeys[driver] = count
}
func (m *MockMetrics) ObserveVisibleMessages(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VisibleMessages = append(m.VisibleMessages, count)
}

// MockKVStore implements interfaces.KVStoreInterface over a map.
type MockKVStore struct {
	mu       sync.Mutex
	Inactive bool
	Data     map[string][]byte
	SetErr   error
	GetErr   error
	CountErr error
	SetCalls int
}

func NewMockKVStore() *MockKVStore {
	return &MockKVStore{Data: make(map[string][]byte)}
}

func (m *MockKVStore) IsActivated() bool { return !m.Inactive }
func (m *MockKVStore) Driver() string    { return "mock" }

func (m *MockKVStore) GetValue(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Inactive {
		return nil, errs.NewUnavailableError("key/value store is not activated")
	}
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	val, ok := m.Data[key]
	if !ok {
		return nil, errs.NewNotFoundError("key not found: " + key)
	}
	return val, nil
}

func (m *MockKVStore) SetValue(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.Inactive {
		return errs.NewUnavailableError("key/value store is not activated")
	}
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Data[key] = value
	return nil
}

func (m *MockKVStore) DeleteValue(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Inactive {
		return errs.NewUnavailableError("key/value store is not activated")
	}
	delete(m.Data, key)
	return nil
}

func (m *MockKVStore) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	return len(m.Data), nil
}

// MockHttpClient implements providers.HttpClientInterface. Responses and
// Errors are keyed by URL; unknown URLs fail with a 404 network error.
type MockHttpClient struct {
	mu        sync.Mutex
	Responses map[string]string
	Errors    map[string]error
	Delays    map[string]time.Duration
	Calls     []MockHttpCall
}

type MockHttpCall struct {
	URL  string
	Opts providers.FetchOptions
}

func NewMockHttpClient() *MockHttpClient {
	return &MockHttpClient{
		Responses: make(map[string]string),
		Errors:    make(map[string]error),
		Delays:    make(map[string]time.Duration),
	}
}

func (m *MockHttpClient) Get(ctx context.Context, url string, opts providers.FetchOptions) ([]byte, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockHttpCall{URL: url, Opts: opts})
	delay := m.Delays[url]
	err, hasErr := m.Errors[url]
	body, hasBody := m.Responses[url]
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, errs.NewNetworkFailureError(url, 0, ctx.Err())
		}
	}
	if hasErr {
		return nil, err
	}
	if !hasBody {
		return nil, errs.NewNetworkFailureError(url, 404, nil)
	}
	return []byte(body), nil
}

// CallsTo returns the recorded calls whose URL starts with prefix.
func (m *MockHttpClient) CallsTo(prefix string) []MockHttpCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []MockHttpCall
	for _, c := range m.Calls {
		if strings.HasPrefix(c.URL, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// MockGroupProvider implements providers.GroupProviderInterface.
type MockGroupProvider struct {
	Groups []models.Group
	Err    error
}

func (m *MockGroupProvider) GetGroups(_ context.Context, _ providers.UserContext) ([]models.Group, error) {
	return m.Groups, m.Err
}
