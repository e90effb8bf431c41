package main

import (
	"context"
	"fmt"
	"io"

	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/cloud"
	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/config"
	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/domain"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	exportDate   string
	exportBucket string
	listPrefix   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Archive one day of readings to S3",
	Long: `Uploads every reading of the given calendar day as a JSON array to
s3://<bucket>/aqi/YYYY/MM/DD.json. Each element carries its derived level.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, done, err := openService(ctx)
		if err != nil {
			return err
		}
		defer done()

		day, err := svc.ParseDate(exportDate)
		if err != nil {
			return err
		}
		readings, err := svc.GetAQIByDate(ctx, exportDate)
		if err != nil {
			return err
		}

		store, err := cloud.NewS3Client(ctx, config.AWSRegion(), bucket())
		if err != nil {
			return err
		}
		key, err := store.ArchiveDay(ctx, day, svc.WithLevels(readings))
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Archived %s readings to s3://%s/%s\n",
			humanize.Comma(int64(len(readings))), bucket(), key)
		return nil
	},
}

var exportsCmd = &cobra.Command{
	Use:   "exports",
	Short: "List archived days in S3",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cloud.NewS3Client(cmd.Context(), config.AWSRegion(), bucket())
		if err != nil {
			return err
		}
		keys, err := store.ListArchives(cmd.Context(), listPrefix)
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No archives found")
			return nil
		}
		for _, k := range keys {
			fmt.Fprintln(cmd.OutOrStdout(), k)
		}
		return nil
	},
}

var showExportCmd = &cobra.Command{
	Use:     "show <key>",
	Short:   "Print the readings stored in one archive",
	Example: `  aqictl exports show aqi/2024/01/15.json`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cloud.NewS3Client(cmd.Context(), config.AWSRegion(), bucket())
		if err != nil {
			return err
		}
		return showArchive(cmd.Context(), cmd.OutOrStdout(), store, args[0])
	},
}

type archiveReader interface {
	DownloadArchive(ctx context.Context, key string) ([]domain.ReadingWithLevel, error)
}

func showArchive(ctx context.Context, w io.Writer, store archiveReader, key string) error {
	readings, err := store.DownloadArchive(ctx, key)
	if err != nil {
		return err
	}
	return printReadings(w, readings)
}

func bucket() string {
	if exportBucket != "" {
		return exportBucket
	}
	return config.S3Bucket()
}

func init() {
	exportCmd.Flags().StringVar(&exportDate, "date", "", "day to export (YYYY-MM-DD)")
	_ = exportCmd.MarkFlagRequired("date")
	exportCmd.Flags().StringVar(&exportBucket, "bucket", "", "override AWS_S3_BUCKET")

	exportsCmd.Flags().StringVar(&listPrefix, "prefix", "aqi/", "key prefix to list")
	exportsCmd.PersistentFlags().StringVar(&exportBucket, "bucket", "", "override AWS_S3_BUCKET")
	exportsCmd.AddCommand(showExportCmd)

	rootCmd.AddCommand(exportCmd, exportsCmd)
}
