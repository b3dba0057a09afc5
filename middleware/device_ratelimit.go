package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/moto-nrw/project-phoenix/auth/device"
	"golang.org/x/time/rate"
)

// DeviceRateLimiter rate-limits by authenticated device ID rather than by
// client IP, the same visitor/cleanup shape RateLimiter uses for IP-keyed
// limiting. It is meant for endpoints that sit behind
// auth/device.DeviceOnlyAuthenticator (e.g. /recognize), where many cameras
// can share a NAT gateway but each device key identifies one physical
// device that should not be able to starve the others.
type DeviceRateLimiter struct {
	visitors map[int64]*visitor
	mu       sync.RWMutex
	r        rate.Limit
	b        int
	ttl      time.Duration
}

// NewDeviceRateLimiter creates a DeviceRateLimiter allowing
// requestsPerMinute sustained requests per device, with the given burst.
func NewDeviceRateLimiter(requestsPerMinute int, burst int) *DeviceRateLimiter {
	rl := &DeviceRateLimiter{
		visitors: make(map[int64]*visitor),
		r:        rate.Limit(float64(requestsPerMinute) / 60.0),
		b:        burst,
		ttl:      3 * time.Minute,
	}
	go rl.cleanupVisitors()
	return rl
}

func (rl *DeviceRateLimiter) getVisitor(deviceID int64) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[deviceID]
	if !exists {
		limiter := rate.NewLimiter(rl.r, rl.b)
		rl.visitors[deviceID] = &visitor{limiter: limiter, lastSeen: time.Now()}
		return limiter
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *DeviceRateLimiter) cleanupVisitors() {
	for {
		time.Sleep(time.Minute)

		rl.mu.Lock()
		for id, v := range rl.visitors {
			if time.Since(v.lastSeen) > rl.ttl {
				delete(rl.visitors, id)
			}
		}
		rl.mu.Unlock()
	}
}

// Middleware returns the per-device rate limiting middleware. It must be
// mounted after the device authenticator so device.DeviceFromCtx resolves;
// a request with no authenticated device is let through unthrottled since
// DeviceOnlyAuthenticator would already have rejected it.
func (rl *DeviceRateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			dev := device.DeviceFromCtx(r.Context())
			if dev == nil {
				next.ServeHTTP(w, r)
				return
			}

			limiter := rl.getVisitor(dev.ID)
			if !limiter.Allow() {
				w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", int(rl.r*60)))
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
