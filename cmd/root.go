package cmd

import (
	"fmt"
	"os"

	"warehouse-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "warehouse-sync",
	Short: "Warehouse Sync Service",
	Long: `Warehouse Sync keeps inventory consistent across distributed warehouses.
It propagates stock changes between warehouses, resolves conflicting writes
and routes orders to the nearest warehouse that can fulfil them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with ISO8601 timestamps reads better on a terminal
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
