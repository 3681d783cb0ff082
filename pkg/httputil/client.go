// Package httputil provides the shared outbound HTTP machinery for the
// honeypot: pooled clients sized per call class, bounded body reads, and a
// semaphore that caps fire-and-forget report deliveries.
package httputil

import (
	"io"
	"net"
	"net/http"
	"sync"
	"time"
)

// MaxResponseSize bounds body reads from upstream services. LLM providers
// and embedding servers should never send more than this.
const MaxResponseSize = 2 * 1024 * 1024 // 2MB

// One transport for every outbound call so connections to the LLM
// provider, the embedding server, and the callback endpoint are reused.
var sharedTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	ForceAttemptHTTP2:     true,
	MaxIdleConns:          50,
	MaxIdleConnsPerHost:   10,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
}

// TimeoutTier classifies outbound calls by how long the honeypot is
// willing to wait for them.
type TimeoutTier int

const (
	// TierFast for embedding lookups and provider health probes (5s).
	TierFast TimeoutTier = iota
	// TierPhrase for LLM reply generation. A reply that takes longer
	// than this is slower than the fallback line anyway (10s).
	TierPhrase
	// TierDeliver for report delivery to the callback endpoint (20s).
	TierDeliver
)

var timeoutDurations = map[TimeoutTier]time.Duration{
	TierFast:    5 * time.Second,
	TierPhrase:  10 * time.Second,
	TierDeliver: 20 * time.Second,
}

var (
	clientFast    *http.Client
	clientPhrase  *http.Client
	clientDeliver *http.Client
	clientOnce    sync.Once
)

func initClients() {
	clientFast = &http.Client{
		Timeout:   timeoutDurations[TierFast],
		Transport: sharedTransport,
	}
	clientPhrase = &http.Client{
		Timeout:   timeoutDurations[TierPhrase],
		Transport: sharedTransport,
	}
	clientDeliver = &http.Client{
		Timeout:   timeoutDurations[TierDeliver],
		Transport: sharedTransport,
	}
}

// Client returns the shared HTTP client for the tier. Callers must not
// create their own http.Client; these share the connection pool.
func Client(tier TimeoutTier) *http.Client {
	clientOnce.Do(initClients)
	switch tier {
	case TierFast:
		return clientFast
	case TierPhrase:
		return clientPhrase
	case TierDeliver:
		return clientDeliver
	default:
		return clientPhrase
	}
}

// ReadResponseBody reads a response body with a hard size limit.
func ReadResponseBody(r io.Reader, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = MaxResponseSize
	}
	return io.ReadAll(io.LimitReader(r, maxSize))
}

// ReadErrorBody reads an error response with a small limit, enough for
// the provider's error message.
func ReadErrorBody(r io.Reader) ([]byte, error) {
	const maxErrorSize = 64 * 1024
	return io.ReadAll(io.LimitReader(r, maxErrorSize))
}

// DrainAndClose drains and closes a response body so the underlying
// connection goes back to the pool.
func DrainAndClose(body io.ReadCloser) {
	if body != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(body, MaxResponseSize))
		_ = body.Close()
	}
}
