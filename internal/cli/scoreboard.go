package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"flagboard/internal/db"
	"flagboard/internal/leaderboard"
)

func newScoreboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scoreboard",
		Short: "Print the ranked leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			lb := leaderboard.New(leaderboard.SourceFunc(db.FetchScoreRecords), cache, cfg.CacheTTL())
			entries, err := lb.Get(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No players yet.")
				return nil
			}
			fmt.Printf("%4s  %-24s %8s %8s\n", "RANK", "PLAYER", "POINTS", "SOLVES")
			for _, e := range entries {
				fmt.Printf("%4d  %-24s %8d %8d\n", e.Rank, e.DisplayName, e.Points, e.SolvedCount)
			}
			return nil
		},
	}
}

func newChallengesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "challenges",
		Short: "List loaded challenges",
		RunE: func(cmd *cobra.Command, args []string) error {
			challenges := db.GetChallenges()
			if len(challenges) == 0 {
				fmt.Println("No challenges loaded.")
				return nil
			}
			for _, category := range db.GetChallengeCategories() {
				fmt.Printf("%s:\n", category)
				for _, chal := range challenges {
					if chal.Category != category {
						continue
					}
					if chal.MultiQuestion {
						total := 0
						for _, q := range chal.Questions {
							total += q.Points
						}
						fmt.Printf("  %-24s %5d pts  (%d questions)\n", chal.ID, total, len(chal.Questions))
					} else {
						fmt.Printf("  %-24s %5d pts\n", chal.ID, chal.Points)
					}
				}
			}
			return nil
		},
	}
}
