package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/config"
	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/database"
	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	dbDriver string
	dbDSN    string
	asJSON   bool
)

var rootCmd = &cobra.Command{
	Use:   "aqictl",
	Short: "Inspect and archive stored air quality readings",
	Long: `aqictl reads the same store as the API and ingestor.
Storage and AWS settings come from the environment or ./aqi.yaml; the flags below override them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if dbDriver != "" {
			viper.Set("DB_DRIVER", dbDriver)
		}
		if dbDSN != "" {
			viper.Set("DB_DSN", dbDSN)
		}
		config.SetupLogger()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbDriver, "driver", "", "storage driver: postgres, sqlite or dynamodb")
	rootCmd.PersistentFlags().StringVar(&dbDSN, "dsn", "", "SQL data source name")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
}

// openService opens the configured store; call the returned func when done.
func openService(ctx context.Context) (*service.AQIService, func(), error) {
	repo, closeRepo, err := database.OpenRepository(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("opening storage: %w", err)
	}
	return service.New(repo), func() { closeRepo() }, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
