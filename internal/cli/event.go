package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"flagboard/internal/db"
)

func newEventCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Manage competition events",
	}
	cmd.AddCommand(newEventCreateCmd())
	cmd.AddCommand(newEventListCmd())
	return cmd
}

func newEventCreateCmd() *cobra.Command {
	var (
		description string
		start       string
		end         string
	)
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startsAt, err := time.Parse(time.RFC3339, start)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			endsAt, err := time.Parse(time.RFC3339, end)
			if err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}
			if !endsAt.After(startsAt) {
				return fmt.Errorf("event must end after it starts")
			}

			ev, err := db.CreateEvent(args[0], description, startsAt, endsAt)
			if err != nil {
				return err
			}
			log.Info("event created", "id", ev.ID, "name", ev.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "event description")
	cmd.Flags().StringVar(&start, "start", "", "start time (RFC 3339)")
	cmd.Flags().StringVar(&end, "end", "", "end time (RFC 3339)")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	return cmd
}

func newEventListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List events",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := db.GetEvents()
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Println("No events.")
				return nil
			}
			now := time.Now().UTC()
			for _, ev := range events {
				status := "upcoming"
				switch {
				case now.After(ev.EndsAt):
					status = "finished"
				case now.After(ev.StartsAt):
					status = "running"
				}
				fmt.Printf("%-24s %s .. %s  [%s]\n", ev.Name,
					ev.StartsAt.Format("2006-01-02 15:04"),
					ev.EndsAt.Format("2006-01-02 15:04"),
					status)
			}
			return nil
		},
	}
}
