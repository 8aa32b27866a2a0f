package counter

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/MrBreathe/mrbreathe/connections"
)

func TestCounter(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run() error = %v", err)
	}
	defer mr.Close()
	connections.InitRedis(mr.Addr())

	Incr(Signup)
	Incr(Signup)
	Incr(Predict)

	if got := Today(Signup); got != 2 {
		t.Errorf("Today(Signup) = %d, want 2", got)
	}
	if got := Today(Predict); got != 1 {
		t.Errorf("Today(Predict) = %d, want 1", got)
	}
	if got := Get(Signup, time.Now().AddDate(0, 0, -1)); got != 0 {
		t.Errorf("Get(Signup, yesterday) = %d, want 0", got)
	}
}
