package httpclient

import (
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	sharedTransport http.RoundTripper
	once            sync.Once
)

// Transport returns the process-wide traced transport. Outbound clients
// share it so connections to the backend and ViaCEP are pooled.
func Transport() http.RoundTripper {
	once.Do(func() {
		sharedTransport = otelhttp.NewTransport(&http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		})
	})
	return sharedTransport
}

// New creates a client with its own timeout over the shared transport
func New(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: Transport(),
	}
}
