package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var arrivalsCmd = &cobra.Command{
	Use:   "arrivals <station>",
	Short: "Shows the next train per route per direction for a station",
	Args:  cobra.ExactArgs(1),
	RunE:  arrivals,
}

func arrivals(cmd *cobra.Command, args []string) error {
	tracker, err := buildTracker()
	if err != nil {
		return err
	}

	station, err := tracker.ResolveStation(args[0])
	if err != nil {
		return err
	}

	board := tracker.Arrivals(context.Background(), station)

	fmt.Printf("%s (%s)\n", station.Name, station.ID)

	labels := make([]string, 0, len(board.Directions))
	for label := range board.Directions {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		fmt.Printf("\n%s:\n", label)
		for _, entry := range board.Directions[label] {
			fmt.Printf("  %-4s %3d min  %s\n", entry.RouteID, entry.MinutesAway, entry.Destination)
		}
	}

	for _, failure := range board.Failures {
		fmt.Printf("\nfeed unavailable: %s: %v\n", failure.URL, failure.Err)
	}

	return nil
}
