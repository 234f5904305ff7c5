package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var stationsCmd = &cobra.Command{
	Use:   "stations <name>",
	Short: "Searches stations by name substring",
	Args:  cobra.ExactArgs(1),
	RunE:  stations,
}

func stations(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	index, err := loadIndex(logger)
	if err != nil {
		return err
	}

	matches := index.FindStationsByName(args[0])
	if len(matches) == 0 {
		return fmt.Errorf("no station matching %q", args[0])
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].ID < matches[j].ID
	})

	for _, station := range matches {
		fmt.Printf("%-8s %-40s %s\n", station.ID, station.Name, strings.Join(station.Routes, " "))
	}

	return nil
}
