package stats

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Decision is one admission verdict made by the rate limiter.
type Decision struct {
	Key     string
	Allowed bool
	At      time.Time
}

// Recorder accumulates admission decisions somewhere out of process.
// A nil *RedisRecorder is a valid no-op recorder.
type Recorder interface {
	Record(ctx context.Context, decision Decision)
}

// RedisRecorder keeps cumulative and per-minute allowed/denied counters in
// Redis hashes. Counters only; it does not coordinate admission decisions
// across instances.
type RedisRecorder struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisRecorder(rdb *redis.Client) *RedisRecorder {
	return &RedisRecorder{
		rdb:    rdb,
		prefix: "otp:admission",
		ttl:    24 * time.Hour,
	}
}

func (recorder *RedisRecorder) Record(ctx context.Context, decision Decision) {
	if recorder == nil || recorder.rdb == nil {
		return
	}

	at := decision.At
	if at.IsZero() {
		at = time.Now()
	}

	field := "denied"
	if decision.Allowed {
		field = "allowed"
	}

	pipe := recorder.rdb.Pipeline()
	pipe.HIncrBy(ctx, recorder.prefix+":total", field, 1)

	bucketKey := fmt.Sprintf("%s:minute:%s", recorder.prefix, at.UTC().Format("200601021504"))
	pipe.HIncrBy(ctx, bucketKey, field, 1)
	if recorder.ttl > 0 {
		pipe.Expire(ctx, bucketKey, recorder.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("admission stats record failed key=%s err=%v", decision.Key, err)
	}
}
