package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/sequent/pkg/adapters/weather"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast <latitude> <longitude>",
	Short: "Print the weather forecast for a US location",
	Long:  `Calls the same forecast tool the agent uses (api.weather.gov, US locations only).`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		lat, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("latitude: %w", err)
		}
		lon, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("longitude: %w", err)
		}
		days, _ := cmd.Flags().GetInt("days")

		client := weather.New(
			weather.WithBaseURL(cfg.Weather.BaseURL),
			weather.WithUserAgent(cfg.Weather.UserAgent),
		)
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		result, err := weather.Handler(client)(ctx, map[string]any{
			"latitude":  lat,
			"longitude": lon,
			"days":      days,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(forecastCmd)

	forecastCmd.Flags().Int("days", weather.DefaultDays, fmt.Sprintf("Number of days (1-%d)", weather.MaxDays))
}
