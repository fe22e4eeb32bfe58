// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package main

import (
	"os"

	"github.com/blockgate/blockgate/cmd/blockgate/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
