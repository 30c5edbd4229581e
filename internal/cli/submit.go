package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"flagboard/internal/db"
	"flagboard/internal/game"
	"flagboard/internal/leaderboard"
	"flagboard/internal/progress"
)

func newSubmitCmd() *cobra.Command {
	var (
		userName  string
		challenge string
		question  int
	)
	cmd := &cobra.Command{
		Use:   "submit FLAG",
		Short: "Submit a flag for a challenge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := db.GetUserByName(userName)
			if err != nil {
				return fmt.Errorf("unknown user %q: %w", userName, err)
			}

			lb := leaderboard.New(leaderboard.SourceFunc(db.FetchScoreRecords), cache, cfg.CacheTTL())
			svc := game.New(game.SQLStore{}, lb)

			res, err := svc.Submit(cmd.Context(), user.ID, challenge, question, args[0])
			switch {
			case errors.Is(err, progress.ErrAlreadyLocked):
				fmt.Println("Already solved: points were awarded for this question before.")
				return nil
			case errors.Is(err, progress.ErrEmptyFlag):
				return errors.New("flag must not be empty")
			case err != nil:
				return err
			}

			if res.Correct {
				fmt.Printf("Correct! +%d points\n", res.PointsAwarded)
			} else {
				fmt.Println("Incorrect flag.")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&userName, "user", "", "display name of the submitting user")
	cmd.Flags().StringVar(&challenge, "challenge", "", "challenge id")
	cmd.Flags().IntVar(&question, "question", 0, "question index for multi-question challenges")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("challenge")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var userName string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show a user's cumulative score over time",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := db.GetUserByName(userName)
			if err != nil {
				return fmt.Errorf("unknown user %q: %w", userName, err)
			}
			series, err := db.GetUserScoreTimeSeries(user.ID)
			if err != nil {
				return err
			}
			if len(series) == 0 {
				fmt.Println("No scored solves yet.")
				return nil
			}
			for _, point := range series {
				fmt.Printf("%s  %6d\n", point.Time.Format("2006-01-02 15:04:05"), point.Score)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&userName, "user", "", "display name of the user")
	cmd.MarkFlagRequired("user")
	return cmd
}
