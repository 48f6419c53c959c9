package middleware

import "time"

func (l *KeyedRateLimiter) SetClock(now func() time.Time) { l.now = now }

func (l *KeyedRateLimiter) Size() int { return l.size() }
