package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// PhoneLimiter caps OTP issuance per phone number. The OTP flow deliberately
// leaves prior codes valid, so without a cap one phone could accumulate an
// unbounded number of in-flight guesses.
type PhoneLimiter struct {
	RDB    *redis.Client
	Limit  int
	Window time.Duration
}

func NewPhoneLimiter(rdb *redis.Client, limit int) *PhoneLimiter {
	return &PhoneLimiter{RDB: rdb, Limit: limit, Window: time.Hour}
}

// Allow increments the per-phone counter and reports whether this issuance is
// still inside the window limit. INCR and the TTL are pipelined so a counter
// key can never be left without an expiry.
func (l *PhoneLimiter) Allow(ctx context.Context, phone string) (bool, error) {
	key := "otp:limit:" + phone

	pipe := l.RDB.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, err
	}
	return incr.Val() <= int64(l.Limit), nil
}
