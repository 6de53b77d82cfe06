package middleware

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/apperr"
	"github.com/poetbyte/poetbyte/backend/go-services/pkg/metrics"
	"golang.org/x/time/rate"
)

// MsgRateLimited is the client-facing message for a rejected request.
const MsgRateLimited = "Too many requests, please try again later"

const (
	// Buckets unused for limiterIdleTTL are dropped. Keep it above burst/rps
	// so a dropped bucket would have refilled anyway.
	limiterIdleTTL = 10 * time.Minute
	limiterSweep   = time.Minute
)

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// limiterSet holds one token bucket per client key and evicts idle ones.
type limiterSet struct {
	rps       rate.Limit
	burst     int
	idle      time.Duration
	now       func() time.Time
	m         sync.Map // map[string]*limiterEntry
	lastSweep atomic.Int64
}

func newLimiterSet(rps rate.Limit, burst int) *limiterSet {
	s := &limiterSet{rps: rps, burst: burst, idle: limiterIdleTTL, now: time.Now}
	s.lastSweep.Store(s.now().UnixNano())
	return s
}

func (s *limiterSet) get(key string) *rate.Limiter {
	now := s.now()
	s.maybeSweep(now)
	v, ok := s.m.Load(key)
	if !ok {
		v, _ = s.m.LoadOrStore(key, &limiterEntry{lim: rate.NewLimiter(s.rps, s.burst)})
	}
	e := v.(*limiterEntry)
	e.lastSeen.Store(now.UnixNano())
	return e.lim
}

// maybeSweep runs at most once per limiterSweep on the request path.
func (s *limiterSet) maybeSweep(now time.Time) {
	last := s.lastSweep.Load()
	if now.UnixNano()-last < int64(limiterSweep) || !s.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	cutoff := now.Add(-s.idle).UnixNano()
	s.m.Range(func(k, v interface{}) bool {
		if v.(*limiterEntry).lastSeen.Load() < cutoff {
			s.m.Delete(k)
		}
		return true
	})
}

func (s *limiterSet) size() int {
	n := 0
	s.m.Range(func(interface{}, interface{}) bool { n++; return true })
	return n
}

// clientKey identifies the caller: the verified subject when an admin token
// was checked upstream, the client IP otherwise.
func clientKey(c *gin.Context) string {
	if sub := Subject(c); sub != "" {
		return "sub:" + sub
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}

func rejectRateLimited(c *gin.Context, limiter, retryAfter string) {
	metrics.RateLimitRejected.WithLabelValues(limiter).Inc()
	c.Header("Retry-After", retryAfter)
	_ = c.Error(apperr.RateLimited(MsgRateLimited))
	c.Abort()
}

// RateLimitMiddleware enforces an in-process token bucket per client.
// rps is the refill rate, burst the bucket size. Each call gets its own
// bucket set, so separately limited routes do not share budgets.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	set := newLimiterSet(rate.Limit(rps), burst)
	return func(c *gin.Context) {
		if !set.get(clientKey(c)).Allow() {
			rejectRateLimited(c, "memory", "1")
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
		c.Next()
	}
}
