package httpclient

import (
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultTimeout bounds a whole request including reading the body
const DefaultTimeout = 30 * time.Second

// HTTPClientPool hands out traced HTTP clients sharing one transport
type HTTPClientPool struct {
	clients   chan *http.Client
	transport http.RoundTripper
	timeout   time.Duration
	mu        sync.RWMutex
	closed    bool
}

// NewHTTPClientPool creates a pool of maxClients clients with the given timeout
func NewHTTPClientPool(maxClients int, timeout time.Duration) *HTTPClientPool {
	if maxClients < 1 {
		maxClients = 1
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	pool := &HTTPClientPool{
		clients: make(chan *http.Client, maxClients),
		transport: otelhttp.NewTransport(&http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		}),
		timeout: timeout,
	}

	for i := 0; i < maxClients; i++ {
		pool.clients <- pool.newClient()
	}
	return pool
}

func (p *HTTPClientPool) newClient() *http.Client {
	return &http.Client{Timeout: p.timeout, Transport: p.transport}
}

// Timeout returns the per-request timeout of the pool's clients
func (p *HTTPClientPool) Timeout() time.Duration {
	return p.timeout
}

// Get retrieves a client, creating one when the pool is empty or closed
func (p *HTTPClientPool) Get() *http.Client {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return p.newClient()
	}

	select {
	case client := <-p.clients:
		return client
	default:
		return p.newClient()
	}
}

// Put returns a client to the pool. Clients beyond capacity are dropped.
func (p *HTTPClientPool) Put(client *http.Client) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed || client == nil {
		return
	}

	select {
	case p.clients <- client:
	default:
	}
}

// Close drains the pool and releases idle connections
func (p *HTTPClientPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	close(p.clients)
	for client := range p.clients {
		client.CloseIdleConnections()
	}
}
