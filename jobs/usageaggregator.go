package jobs

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/MrBreathe/mrbreathe/connections"
	"github.com/MrBreathe/mrbreathe/models/counter"
)

// UsageAggregator rolls the daily Redis counters into the usage_stats table
// so usage history survives counter expiry and Redis restarts.
type UsageAggregator struct{}

// NewUsageAggregator creates a new UsageAggregator.
func NewUsageAggregator() *UsageAggregator {
	return &UsageAggregator{}
}

// Run executes the aggregation for today and yesterday. Yesterday is included
// so the run right after midnight still captures the final counts of the
// previous day.
func (ua UsageAggregator) Run() {
	log.Info("Usage Aggregator Started")

	now := time.Now()
	days := []time.Time{now, now.AddDate(0, 0, -1)}

	ctx := context.Background()
	pool := connections.Postgres()

	for _, day := range days {
		signups := counter.Get(counter.Signup, day)
		predicts := counter.Get(counter.Predict, day)

		_, err := pool.Exec(ctx, `
			INSERT INTO usage_stats (day, signups, predicts)
			VALUES ($1, $2, $3)
			ON CONFLICT (day) DO UPDATE
			SET signups = EXCLUDED.signups, predicts = EXCLUDED.predicts
		`, day.Format("2006-01-02"), signups, predicts)
		if err != nil {
			log.WithField("day", day.Format("2006-01-02")).WithError(err).Error("Usage Aggregator: Upsert Failed")
			continue
		}
	}

	log.Info("Usage Aggregator Completed")
}
