package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"flagboard/internal/db"
	"flagboard/internal/rank"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserCreateCmd())
	cmd.AddCommand(newUserShowCmd())
	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch rank.Role(role) {
			case rank.RoleUser, rank.RoleModerator, rank.RoleAdmin:
			default:
				return fmt.Errorf("invalid role %q", role)
			}
			user, err := db.CreateUser(args[0], rank.Role(role))
			if err != nil {
				return err
			}
			log.Info("user created", "id", user.ID, "name", user.DisplayName, "role", user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", string(rank.RoleUser), "user role: user, moderator or admin")
	return cmd
}

func newUserShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show a user's standing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := db.GetUserByName(args[0])
			if err != nil {
				return fmt.Errorf("unknown user %q: %w", args[0], err)
			}
			solved, err := db.GetSolvedChallenges(user.ID)
			if err != nil {
				return err
			}
			fmt.Printf("%s (%s)\n", user.DisplayName, user.Role)
			fmt.Printf("  points: %d\n", user.Points)
			fmt.Printf("  solved: %d challenges\n", len(solved))
			if !user.LastActivity.IsZero() {
				fmt.Printf("  last activity: %s\n", user.LastActivity.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}
