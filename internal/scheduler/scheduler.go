package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/toolhub/toolhub/internal/metrics"
	"github.com/toolhub/toolhub/internal/repo"
)

// Run starts a background cron job that refreshes the catalog size gauges
// every minute. It blocks until ctx is done, so call it from its own goroutine.
func Run(ctx context.Context, tools *repo.ToolRepo, users *repo.UserRepo) {
	c := cron.New()

	refresh := func() {
		if n, err := tools.Count(ctx); err == nil {
			metrics.SetCatalogSize("tool", n)
		} else {
			slog.Warn("scheduler: tool count failed", "error", err)
		}
		if n, err := users.Count(ctx); err == nil {
			metrics.SetCatalogSize("user", n)
		} else {
			slog.Warn("scheduler: user count failed", "error", err)
		}
	}

	if _, err := c.AddFunc("@every 1m", refresh); err != nil {
		slog.Error("scheduler: add job failed", "error", err)
		return
	}

	refresh()
	c.Start()

	<-ctx.Done()
	c.Stop()
}
