package alerts

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter throttles notifications per user.
type Limiter struct {
	mu       sync.Mutex
	visitors map[int64]*clientLimiter
	every    rate.Limit
	burst    int
}

func NewLimiter(every time.Duration, burst int) *Limiter {
	return &Limiter{
		visitors: make(map[int64]*clientLimiter),
		every:    rate.Every(every),
		burst:    burst,
	}
}

func (l *Limiter) Allow(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[userID]
	if !exists {
		v = &clientLimiter{limiter: rate.NewLimiter(l.every, l.burst)}
		l.visitors[userID] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

// Cleanup forgets users not seen for longer than maxIdle.
func (l *Limiter) Cleanup(maxIdle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, v := range l.visitors {
		if time.Since(v.lastSeen) > maxIdle {
			delete(l.visitors, id)
		}
	}
}

func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}
