package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts <station>",
	Short: "Shows service alerts for the routes serving a station",
	Args:  cobra.ExactArgs(1),
	RunE:  alerts,
}

func alerts(cmd *cobra.Command, args []string) error {
	tracker, err := buildTracker()
	if err != nil {
		return err
	}

	station, err := tracker.ResolveStation(args[0])
	if err != nil {
		return err
	}

	stationAlerts, failures := tracker.Alerts(context.Background(), station)

	if len(stationAlerts) == 0 && len(failures) == 0 {
		fmt.Printf("no alerts for %s\n", station.Name)
		return nil
	}

	for _, alert := range stationAlerts {
		fmt.Printf("[%s] %s: %s\n", alert.Severity, alert.RouteID, alert.Message)
	}

	for _, failure := range failures {
		fmt.Printf("feed unavailable: %s: %v\n", failure.URL, failure.Err)
	}

	return nil
}
