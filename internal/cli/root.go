package cli

import (
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"flagboard/internal/config"
	"flagboard/internal/db"
)

var (
	configPath string
	cfg        config.Config
	cache      *redis.Client // nil when no redis is configured
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("FLAGBOARD_CONFIG")
	if envConfig == "" {
		envConfig = "config.yaml"
	}

	cmd := &cobra.Command{
		Use:           "flagboard",
		Short:         "CTF scoring platform: challenges, flags and leaderboards",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if cfg.Redis.Addr != "" {
				cache = redis.NewClient(&redis.Options{
					Addr:     cfg.Redis.Addr,
					Password: cfg.Redis.Password,
					DB:       cfg.Redis.DB,
				})
			}
			return db.Init(cfg.DB.Path)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			db.Close()
			if cache != nil {
				cache.Close()
				cache = nil
			}
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(newLoadCmd())
	cmd.AddCommand(newSubmitCmd())
	cmd.AddCommand(newScoreboardCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newChallengesCmd())
	cmd.AddCommand(newUserCmd())
	cmd.AddCommand(newWriteupCmd())
	cmd.AddCommand(newEventCmd())
	return cmd
}
