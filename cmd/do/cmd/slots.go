package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func SlotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Inspect and generate booking slots",
	}

	cmd.AddCommand(slotsPreviewCmd(), slotsGenerateCmd())
	return cmd
}

func slotsPreviewCmd() *cobra.Command {
	var days int
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "List the windows weekly availability expands to, without saving",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if days == 0 {
				days = app.BookingService.HorizonDays()
			}

			windows, err := app.BookingService.Preview(days, duration)
			if err != nil {
				return err
			}

			loc := app.BookingService.Location()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DAY\tSTART\tEND")
			for _, w := range windows {
				start := w.Start.In(loc)
				fmt.Fprintf(tw, "%s\t%s\t%s\n", start.Format("Mon 2006-01-02"), start.Format("15:04"), w.End.In(loc).Format("15:04"))
			}
			err = tw.Flush()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d windows over %d days (%s)\n", len(windows), days, loc)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "days ahead to expand (default: booking horizon)")
	cmd.Flags().DurationVar(&duration, "duration", 0, "slot length (default: BOOKING_SLOT_DURATION)")
	return cmd
}

func slotsGenerateCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create missing slots from weekly availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if days == 0 {
				days = app.BookingService.HorizonDays()
			}

			created, err := app.BookingService.Generate(cmd.Context(), days)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d slots over %d days\n", created, days)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "days ahead to generate (default: booking horizon)")
	return cmd
}
