// Package jobs holds scheduled background maintenance tasks.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/roamstay/spot-booking/internal/repository"
	"github.com/roamstay/spot-booking/internal/utils"
)

// expiredTokenGrace keeps revoked and expired refresh tokens around for a
// week before the purge, so recent sessions remain debuggable.
const expiredTokenGrace = 7 * 24 * time.Hour

// StartTokenCleanup schedules a nightly purge of expired and revoked
// refresh tokens. The returned cron is already running; callers stop it on
// shutdown.
func StartTokenCleanup(tokens *repository.TokenRepo) *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc("15 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := tokens.DeleteExpired(ctx, expiredTokenGrace)
		if err != nil {
			utils.Error("token cleanup failed", map[string]any{"error": err.Error()})
			return
		}
		utils.Info("token cleanup", map[string]any{"deleted": n})
	})
	if err != nil {
		utils.Error("token cleanup schedule failed", map[string]any{"error": err.Error()})
		return c
	}
	c.Start()
	return c
}
