package cli

import (
	"fmt"

	"quizrank-service/internal/app"
	"quizrank-service/internal/infra/postgres"
	"quizrank-service/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewSnapshotCmd persists today's daily leaderboard; meant to run from cron once a day.
func NewSnapshotCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Persist today's leaderboard snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			store := postgres.NewStore(postgres.Open(cfg.Postgres.URL))
			defer store.Close()

			m := metrics.New(prometheus.NewRegistry())
			boards := app.NewLeaderboardService(store, app.NewCalendar(loc), log, m)
			saved, err := boards.SnapshotDaily(cmd.Context())
			if err != nil {
				return err
			}
			log.Info("leaderboard snapshot saved", zap.Int("rows", saved))
			return nil
		},
	}
}
