package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/zaelmari/controle/internal/logger"
)

const (
	clientExpiration = 10 * time.Minute
	clientCleanup    = 15 * time.Minute
)

// clientLimiter hands out one token bucket per client address. Idle
// clients expire from the cache.
type clientLimiter struct {
	limit   rate.Limit
	burst   int
	mu      sync.Mutex
	clients *cache.Cache
}

func newClientLimiter(perSecond float64, burst int) *clientLimiter {
	return &clientLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		clients: cache.New(clientExpiration, clientCleanup),
	}
}

func (l *clientLimiter) get(client string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := l.clients.Get(client); ok {
		return v.(*rate.Limiter)
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	l.clients.SetDefault(client, lim)
	return lim
}

func (l *clientLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientAddr(r)
		if !l.get(client).Allow() {
			log := logger.FromContext(r.Context())
			log.Warn().Str("client", client).Str("path", r.URL.Path).Msg("rate limit exceeded")
			writeError(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
