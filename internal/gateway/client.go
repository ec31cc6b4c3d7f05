package gateway

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/midtrans/midtrans-go"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/jouyai/midtrans-dik/internal/metrics"
)

// Config holds the gateway credentials.
type Config struct {
	ServerKey    string
	ClientKey    string
	IsProduction bool
	Timeout      time.Duration
}

func (c Config) environment() midtrans.EnvironmentType {
	if c.IsProduction {
		return midtrans.Production
	}
	return midtrans.Sandbox
}

// Option customizes a gateway client.
type Option func(*client)

// WithTransport replaces the default instrumented round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *client) {
		c.transport = rt
	}
}

// client holds what the Snap and Core clients share.
type client struct {
	serverKey string
	env       midtrans.EnvironmentType
	timeout   time.Duration
	transport http.RoundTripper
}

func newClient(cfg Config, opts []Option) *client {
	c := &client{
		serverKey: cfg.ServerKey,
		env:       cfg.environment(),
		timeout:   cfg.Timeout,
		// Calls made inside a New Relic transaction are recorded as external segments.
		transport: newrelic.NewRoundTripper(http.DefaultTransport),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// withTimeout bounds one gateway call.
func (c *client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// sdkClient returns a midtrans HTTP client whose requests run under ctx. The
// SDK builds requests without a context, so the transport attaches it.
func (c *client) sdkClient(ctx context.Context) midtrans.HttpClient {
	return &midtrans.HttpClientImplementation{
		HttpClient: &http.Client{Transport: contextTransport{ctx: ctx, next: c.transport}},
		Logger:     sdkLogger{},
	}
}

type contextTransport struct {
	ctx  context.Context
	next http.RoundTripper
}

func (t contextTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	return t.next.RoundTrip(r.WithContext(t.ctx))
}

// sdkLogger keeps SDK errors and drops its request traces, which include the
// Authorization header in sandbox mode.
type sdkLogger struct{}

func (sdkLogger) Error(format string, val ...interface{}) {
	log.Printf("midtrans: "+format, val...)
}

func (sdkLogger) Info(string, ...interface{}) {}

func (sdkLogger) Debug(string, ...interface{}) {}

func observe(operation string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.ObserveGateway(operation, outcome, time.Since(start).Seconds())
}
