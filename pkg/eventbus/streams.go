package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// DefaultStreams is one stream per publishing module.
func DefaultStreams() []jetstream.StreamConfig {
	return []jetstream.StreamConfig{
		{
			Name:      "game",
			Subjects:  []string{"game.>"},
			Storage:   jetstream.FileStorage,
			Retention: jetstream.LimitsPolicy,
			MaxAge:    7 * 24 * time.Hour,
		},
		{
			Name:      "pick",
			Subjects:  []string{"pick.>"},
			Storage:   jetstream.FileStorage,
			Retention: jetstream.LimitsPolicy,
			MaxAge:    7 * 24 * time.Hour,
		},
		{
			Name:      "leaderboard",
			Subjects:  []string{"leaderboard.>"},
			Storage:   jetstream.FileStorage,
			Retention: jetstream.LimitsPolicy,
			MaxAge:    24 * time.Hour,
		},
	}
}

// EnsureStreams creates missing streams and adds missing subjects to existing ones.
func EnsureStreams(ctx context.Context, js jetstream.JetStream, configs []jetstream.StreamConfig, logger *slog.Logger) error {
	for _, cfg := range configs {
		stream, err := js.Stream(ctx, cfg.Name)
		if errors.Is(err, jetstream.ErrStreamNotFound) {
			if _, err := js.CreateStream(ctx, cfg); err != nil {
				logger.Error("Failed to create JetStream stream", slog.String("stream", cfg.Name), slog.Any("error", err))
				return fmt.Errorf("failed to create stream %s: %w", cfg.Name, err)
			}
			logger.Info("Created JetStream stream", slog.String("stream", cfg.Name), slog.Any("subjects", cfg.Subjects))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to check stream %s: %w", cfg.Name, err)
		}

		info, err := stream.Info(ctx)
		if err != nil {
			return fmt.Errorf("failed to get stream info for %s: %w", cfg.Name, err)
		}

		missing := false
		for _, subject := range cfg.Subjects {
			if !slices.Contains(info.Config.Subjects, subject) {
				info.Config.Subjects = append(info.Config.Subjects, subject)
				missing = true
			}
		}
		if !missing {
			logger.Debug("Stream already provisioned", slog.String("stream", cfg.Name))
			continue
		}
		if _, err := js.UpdateStream(ctx, info.Config); err != nil {
			return fmt.Errorf("failed to update stream %s: %w", cfg.Name, err)
		}
		logger.Info("Stream updated with new subjects", slog.String("stream", cfg.Name), slog.Any("subjects", info.Config.Subjects))
	}
	return nil
}
