package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-theme/internal/console"
	"github.com/i474232898/weather-theme/internal/weather"
)

const cliLookupTimeout = 15 * time.Second

func getCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [city]",
		Short: "Print the current weather for a city",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			country, _ := cmd.Flags().GetString("country")
			output, _ := cmd.Flags().GetString("output")

			loc := weather.Location{City: strings.Join(args, " "), Country: strings.ToUpper(country)}

			ctx, cancel := context.WithTimeout(cmd.Context(), cliLookupTimeout)
			defer cancel()

			report, err := service.Lookup(ctx, loc)
			if err != nil {
				log.Debugw("lookup failed", "location", loc.Key(), "error", err)
				return errors.New(weather.UserMessage(err))
			}
			return console.WriteReport(cmd.OutOrStdout(), report, output)
		},
	}

	cmd.Flags().StringP("country", "c", "", "ISO country code (e.g. GB, IN)")
	cmd.Flags().StringP("output", "o", console.FormatText, "Output format (text, json)")
	return cmd
}

func interactiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Read cities from stdin; each new line replaces the pending lookup",
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintln(os.Stderr, "Enter a city (optionally \"city,country\"), one per line. Ctrl-D to quit.")
			session := console.NewSession(service, cmd.OutOrStdout(), output, log)
			if err := session.Run(ctx, cmd.InOrStdin()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", console.FormatText, "Output format (text, json)")
	return cmd
}

func themesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "Show the ordered classification rules",
		Run: func(cmd *cobra.Command, args []string) {
			c := service.Classifier()
			th := c.Thresholds()
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "hot above %.1f°C, cold below %.1f°C\n", th.HotAboveC, th.ColdBelowC)
			for i, r := range c.Rules() {
				line := fmt.Sprintf("%d. %-7s %s", i+1, r.Theme, strings.Join(r.Keywords, ", "))
				switch r.Temp {
				case weather.TempAboveHot:
					line += fmt.Sprintf(" | temp > %.1f", th.HotAboveC)
				case weather.TempBelowCold:
					line += fmt.Sprintf(" | temp < %.1f", th.ColdBelowC)
				}
				fmt.Fprintln(out, line)
			}
			fmt.Fprintf(out, "%d. %s\n", len(c.Rules())+1, weather.ThemeDefault)
		},
	}
}

func providersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the providers in lookup order",
		Run: func(cmd *cobra.Command, args []string) {
			for i, name := range service.Providers() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, name)
			}
		},
	}
}
