package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"flagboard/internal/db"
)

func newWriteupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "writeup",
		Short: "Publish and browse challenge write-ups",
	}
	cmd.AddCommand(newWriteupPublishCmd())
	cmd.AddCommand(newWriteupListCmd())
	return cmd
}

func newWriteupPublishCmd() *cobra.Command {
	var (
		userName  string
		challenge string
		title     string
	)
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a write-up (body read from stdin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := db.GetUserByName(userName)
			if err != nil {
				return fmt.Errorf("unknown user %q: %w", userName, err)
			}
			body, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}

			wu, err := db.PublishWriteup(user.ID, challenge, title, string(body))
			if errors.Is(err, db.ErrWriteupNotAllowed) {
				return errors.New("write-ups are only allowed for challenges you solved")
			}
			if err != nil {
				return err
			}
			log.Info("write-up published", "id", wu.ID, "challenge", challenge)
			return nil
		},
	}
	cmd.Flags().StringVar(&userName, "user", "", "author display name")
	cmd.Flags().StringVar(&challenge, "challenge", "", "challenge id")
	cmd.Flags().StringVar(&title, "title", "", "write-up title")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("challenge")
	cmd.MarkFlagRequired("title")
	return cmd
}

func newWriteupListCmd() *cobra.Command {
	var challenge string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List write-ups for a challenge",
		RunE: func(cmd *cobra.Command, args []string) error {
			writeups, err := db.GetWriteups(challenge)
			if err != nil {
				return err
			}
			if len(writeups) == 0 {
				fmt.Println("No write-ups yet.")
				return nil
			}
			for _, wu := range writeups {
				fmt.Printf("%s  %s\n", wu.PublishedAt.Format("2006-01-02"), wu.Title)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&challenge, "challenge", "", "challenge id")
	cmd.MarkFlagRequired("challenge")
	return cmd
}
