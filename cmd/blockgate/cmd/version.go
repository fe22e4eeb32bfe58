// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/blockgate/blockgate/config"
)

func init() {
	RootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of blockgate",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("%s %s (%s %s/%s)\n", config.OrchestratorName, config.Version(),
			runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return nil
	},
}
