package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"flagboard/internal/db"
)

func newLoadCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load challenge definitions from a directory of flagboard.yml files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = cfg.Challenges.Dir
			}
			if err := db.LoadChallenges(dir, cfg.Challenges.DefaultPoints); err != nil {
				return err
			}
			log.Info("challenges loaded", "dir", dir, "count", len(db.GetChallenges()))
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "challenge directory (defaults to config)")
	return cmd
}
