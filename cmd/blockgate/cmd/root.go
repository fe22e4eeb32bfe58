// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/blockgate/blockgate/config"
	"github.com/blockgate/blockgate/logging"
)

var (
	logLevel  string
	logFormat string
)

func init() {
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Logging level (trace, debug, info, warn, error, fatal).")
	RootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"Logging format (text, json).")
}

var RootCmd = &cobra.Command{
	Use:          config.OrchestratorName,
	Short:        "Block-storage volume driver service",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.InitLogLevel(logLevel); err != nil {
			return err
		}
		return logging.InitLogFormat(logFormat)
	},
}
