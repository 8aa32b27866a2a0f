// Package stats assembles usage statistics from the user store and the daily
// Redis counters.
package stats

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/MrBreathe/mrbreathe/connections"
	"github.com/MrBreathe/mrbreathe/models/counter"
)

// DayUsage is one rolled-up day of usage.
type DayUsage struct {
	Day      string `json:"day"`
	Signups  int    `json:"signups"`
	Predicts int    `json:"predicts"`
}

// UsageStats is the usage view served by the stats API.
type UsageStats struct {
	TotalUsers    int        `json:"totalUsers"`
	SignupsToday  int        `json:"signupsToday"`
	PredictsToday int        `json:"predictsToday"`
	History       []DayUsage `json:"history"`
}

// Usage returns current totals plus the rolled-up history of the last 30 days.
func Usage(ctx context.Context) (*UsageStats, error) {
	pool := connections.Postgres()

	var total int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, `
		SELECT to_char(day, 'YYYY-MM-DD'), signups, predicts
		FROM usage_stats
		WHERE day > CURRENT_DATE - INTERVAL '30 days'
		ORDER BY day DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := []DayUsage{}
	for rows.Next() {
		var d DayUsage
		if err := rows.Scan(&d.Day, &d.Signups, &d.Predicts); err != nil {
			log.WithError(err).Error("Usage stats scan failed")
			continue
		}
		history = append(history, d)
	}

	return &UsageStats{
		TotalUsers:    total,
		SignupsToday:  counter.Today(counter.Signup),
		PredictsToday: counter.Today(counter.Predict),
		History:       history,
	}, nil
}
