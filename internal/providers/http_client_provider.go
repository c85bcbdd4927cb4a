package providers

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"portal/internal/errs"
	"portal/internal/structures"
	"time"
)

const maxUpstreamBody = 8 << 20

// FetchOptions describes one upstream GET. Cache is a hint: a cached body
// may be served for repeated calls with the same user and URL.
type FetchOptions struct {
	User  string
	Cache bool
	Kind  string
}

type HttpClientInterface interface {
	Get(ctx context.Context, url string, opts FetchOptions) ([]byte, error)
}

type HttpClientProvider struct {
	client     *http.Client
	cache      CacheProviderInterface
	metrics    MetricsProviderInterface
	logger     Logger
	userHeader string
}

func NewHttpClientProvider(conf *structures.Config, cache CacheProviderInterface, metrics MetricsProviderInterface, logger Logger) HttpClientInterface {
	return &HttpClientProvider{
		client: &http.Client{
			Timeout: conf.Upstream.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     30 * time.Second,
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
			},
		},
		cache:      cache,
		metrics:    metrics,
		logger:     logger,
		userHeader: conf.Upstream.UserHeader,
	}
}

func cacheKey(user, url string) string {
	return "upstream:" + user + "\x00" + url
}

func (c *HttpClientProvider) Get(ctx context.Context, url string, opts FetchOptions) ([]byte, error) {
	kind := opts.Kind
	if kind == "" {
		kind = "other"
	}

	key := cacheKey(opts.User, url)
	if opts.Cache {
		if body, ok := c.cache.Get(key); ok {
			return body, nil
		}
	}

	start := time.Now()
	body, err := c.do(ctx, url, opts.User)
	c.metrics.ObserveUpstreamDuration(kind, time.Since(start))
	if err != nil {
		c.metrics.IncUpstreamFetches(kind, "error")
		c.logger.Warnf(TypeUpstream, "GET %s (%s): %v", url, kind, err)
		return nil, err
	}
	c.metrics.IncUpstreamFetches(kind, "ok")
	c.logger.Debugf(TypeUpstream, "GET %s (%s): %d bytes in %s", url, kind, len(body), time.Since(start))

	if opts.Cache {
		c.cache.Set(key, body)
	}
	return body, nil
}

func (c *HttpClientProvider) do(ctx context.Context, url, user string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.NewNetworkFailureError(url, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userHeader != "" && user != "" {
		req.Header.Set(c.userHeader, user)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errs.NewNetworkFailureError(url, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxUpstreamBody))
		return nil, errs.NewNetworkFailureError(url, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody+1))
	if err != nil {
		return nil, errs.NewNetworkFailureError(url, resp.StatusCode, err)
	}
	if len(body) > maxUpstreamBody {
		return nil, errs.NewMalformedResponseError(fmt.Sprintf("response from %s exceeds %d bytes", url, maxUpstreamBody), nil)
	}
	return body, nil
}
