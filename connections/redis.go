package connections

import (
	"os"
	"sync"
	"time"

	"github.com/gomodule/redigo/redis"
)

var (
	redisPool *redis.Pool
	redisOnce sync.Once
)

func newRedisPool(addr string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     3,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr)
		},
	}
}

// Redis returns a connection from the shared Redis pool, creating the pool
// from REDIS_ADDR on first use. Callers must Close the connection.
func Redis() redis.Conn {
	redisOnce.Do(func() {
		if redisPool == nil {
			addr := os.Getenv("REDIS_ADDR")
			if addr == "" {
				addr = "localhost:6379"
			}
			redisPool = newRedisPool(addr)
		}
	})
	return redisPool.Get()
}

// InitRedis points the shared pool at addr before first use. Tests use it to
// target a miniredis instance.
func InitRedis(addr string) {
	redisPool = newRedisPool(addr)
	redisOnce.Do(func() {})
}
