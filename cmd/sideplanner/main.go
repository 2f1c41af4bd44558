// Command sideplanner runs the board service: REST API, websocket gateway
// and subtask suggestions in one process.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MohammadOTaha/side-planner/internal/common/config"
	"github.com/MohammadOTaha/side-planner/internal/common/logger"
)

const serviceName = "side-planner"

// Version is set at build time.
var Version = "dev"

type configLoader func() (*config.Config, error)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "sideplanner",
		Short:         "Kanban boards with AI subtask suggestions",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file, or directory holding config.yaml")

	load := func() (*config.Config, error) {
		return config.LoadWithPath(configPath)
	}
	root.AddCommand(newServeCmd(load))
	root.AddCommand(newMigrateCmd(load))
	root.AddCommand(newTokenCmd(load))
	return root
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	log, err := logger.NewLogger(logger.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.SetDefault(log)
	return log, nil
}
