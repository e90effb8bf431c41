package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/domain"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	rangeStart string
	rangeEnd   string
)

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the most recent reading",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer done()

		reading, err := svc.GetLatestAQI(cmd.Context())
		if err != nil {
			return err
		}
		if reading == nil {
			return fmt.Errorf("no AQI data found")
		}
		return printReadings(cmd.OutOrStdout(), []domain.ReadingWithLevel{svc.WithLevel(*reading)})
	},
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one reading by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer done()

		reading, err := svc.GetAQIByID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if reading == nil {
			return fmt.Errorf("AQI data not found: %s", args[0])
		}
		return printReadings(cmd.OutOrStdout(), []domain.ReadingWithLevel{svc.WithLevel(*reading)})
	},
}

var rangeCmd = &cobra.Command{
	Use:   "range",
	Short: "List readings between two dates (inclusive)",
	Example: `  aqictl range --start 2024-01-01 --end 2024-01-31
  aqictl range --start 2024-01-15T08:00:00Z --end 2024-01-15T18:00:00Z --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer done()

		readings, err := svc.GetAQIByDateRange(cmd.Context(), rangeStart, rangeEnd)
		if err != nil {
			return err
		}
		return printReadings(cmd.OutOrStdout(), svc.WithLevels(readings))
	},
}

func init() {
	rangeCmd.Flags().StringVar(&rangeStart, "start", "", "start date or timestamp")
	rangeCmd.Flags().StringVar(&rangeEnd, "end", "", "end date or timestamp")
	_ = rangeCmd.MarkFlagRequired("start")
	_ = rangeCmd.MarkFlagRequired("end")

	rootCmd.AddCommand(latestCmd, getCmd, rangeCmd)
}

func printReadings(w io.Writer, readings []domain.ReadingWithLevel) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(readings)
	}

	if len(readings) == 0 {
		fmt.Fprintln(w, "No readings found")
		return nil
	}

	fmt.Fprintln(w, "------------------------------------------------------------------------------------------")
	fmt.Fprintf(w, "%-6s  %-20s  %-16s  %8s  %8s  %-30s\n", "ID", "Time", "Age", "PM2.5", "PM10", "Level")
	fmt.Fprintln(w, "------------------------------------------------------------------------------------------")
	for _, r := range readings {
		fmt.Fprintf(w, "%-6d  %-20s  %-16s  %8.2f  %8.2f  %-30s\n",
			r.ID,
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			humanize.Time(r.Timestamp),
			domain.Value(r.PM25),
			domain.Value(r.PM10),
			r.Level,
		)
	}
	fmt.Fprintln(w, "------------------------------------------------------------------------------------------")
	fmt.Fprintf(w, "%s readings\n", humanize.Comma(int64(len(readings))))
	return nil
}
