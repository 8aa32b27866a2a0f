// Package counter keeps daily usage counters in Redis. Counters are best
// effort: a Redis failure is logged and never fails the request that bumped
// the counter.
package counter

import (
	"time"

	"github.com/gomodule/redigo/redis"
	log "github.com/sirupsen/logrus"

	"github.com/MrBreathe/mrbreathe/connections"
)

const keyPrefix = "counter:"

// Counter names used across the app.
const (
	Signup  = "signup"
	Predict = "predict"
)

func key(name string, day time.Time) string {
	return keyPrefix + name + ":" + day.Format("2006-01-02")
}

// Incr bumps today's counter for name.
func Incr(name string) {
	conn := connections.Redis()
	defer conn.Close()

	k := key(name, time.Now())
	if _, err := conn.Do("INCR", k); err != nil {
		log.WithField("key", k).WithError(err).Warn("Counter incr failed")
	}
}

// Get returns the counter for name on the given day, 0 when absent.
func Get(name string, day time.Time) int {
	conn := connections.Redis()
	defer conn.Close()

	k := key(name, day)
	n, err := redis.Int(conn.Do("GET", k))
	if err != nil {
		if err != redis.ErrNil {
			log.WithField("key", k).WithError(err).Warn("Counter get failed")
		}
		return 0
	}
	return n
}

// Today returns today's counter for name.
func Today(name string) int {
	return Get(name, time.Now())
}
