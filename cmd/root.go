package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/jobcost-cli/internal/config"
	"github.com/sells-group/jobcost-cli/internal/store"
)

var (
	cfg      *config.Config
	storeDSN string
)

var rootCmd = &cobra.Command{
	Use:   "jobcost",
	Short: "Job profitability and quote intelligence pipeline",
	Long:  "Ingests revenue, timesheet, and quotation exports, reconciles them into a job-task-month fact table, and derives GP drivers, task benchmarks, and smart quote recommendations.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// initStore opens the configured store backend and runs migrations. The
// --store flag overrides the config: a postgres URL selects the Postgres
// backend, anything else is treated as a sqlite path.
func initStore(ctx context.Context) (store.Store, error) {
	driver, path, url := cfg.Store.Driver, cfg.Store.Path, cfg.Store.DatabaseURL
	if storeDSN != "" {
		if strings.HasPrefix(storeDSN, "postgres://") || strings.HasPrefix(storeDSN, "postgresql://") {
			driver, url = "postgres", storeDSN
		} else {
			driver, path = "sqlite", storeDSN
		}
	}

	st, err := store.Open(ctx, driver, path, url)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storeDSN, "store", "", "store DSN: postgres URL or sqlite path (default from config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
