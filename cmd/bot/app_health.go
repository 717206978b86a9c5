package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexliesenfeld/health"
	"github.com/bwmarrin/discordgo"
)

func (a *App) statusListener(component string) func(ctx context.Context, name string, state health.CheckState) {
	return func(_ context.Context, name string, state health.CheckState) {
		a.Log().Info(component+" health check status changed",
			slog.String("name", name),
			slog.String("state", string(state.Status)),
		)
	}
}

func (a *App) healthCheck() Controller {
	opts := []health.CheckerOption{
		// Set a TTL of 1 second for the results of the checks.
		health.WithCacheDuration(1 * time.Second),

		// Set a timeout of 2 seconds for the checks.
		health.WithTimeout(2 * time.Second),

		// Monitor the storage of the guild configuration.
		health.WithCheck(health.Check{
			Name:           "Guild_Config_Store",
			Check:          a.backend.Ping,
			Timeout:        2 * time.Second,
			StatusListener: a.statusListener("Guild config store"),
		}),

		// Monitor the health of the Discord API.
		health.WithPeriodicCheck(15*time.Second, 5*time.Second, health.Check{
			Name: "Discord_API",
			Check: func(ctx context.Context) error {
				if _, err := a.Session().GatewayBot(discordgo.WithContext(ctx)); err != nil {
					return fmt.Errorf("failed to ping Discord API: %w", err)
				}
				return nil
			},
			Timeout:        3 * time.Second,
			StatusListener: a.statusListener("Discord API"),
		}),

		// Monitor the storefront API.
		health.WithPeriodicCheck(60*time.Second, 10*time.Second, health.Check{
			Name: "SellAuth_API",
			Check: func(ctx context.Context) error {
				if _, err := a.sellauth.Shop(ctx); err != nil {
					return fmt.Errorf("failed to reach SellAuth API: %w", err)
				}
				return nil
			},
			Timeout:        5 * time.Second,
			StatusListener: a.statusListener("SellAuth API"),
		}),
	}

	if a.cache != nil && a.cache.redis != nil {
		opts = append(opts, health.WithCheck(health.Check{
			Name:           "Redis",
			Check:          a.cache.redis.Ping,
			Timeout:        2 * time.Second,
			StatusListener: a.statusListener("Redis"),
		}))
	}

	return Controller(health.NewHandler(health.NewChecker(opts...)))
}
