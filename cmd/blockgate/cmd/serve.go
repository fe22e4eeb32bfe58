// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/blockgate/blockgate/config"
	"github.com/blockgate/blockgate/frontend/rest"
	. "github.com/blockgate/blockgate/logging"
	storagedrivers "github.com/blockgate/blockgate/storage_drivers"
	"github.com/blockgate/blockgate/storage_drivers/fungible"
	"github.com/blockgate/blockgate/storage_drivers/unity"
)

var (
	configPath   string
	httpAddress  string
	httpPort     string
	writeTimeout time.Duration
)

func init() {
	RootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&configPath, "config", "", "Path to the backend configuration file.")
	serveCmd.Flags().StringVar(&httpAddress, "address", "127.0.0.1", "Address for the REST frontend to listen on.")
	serveCmd.Flags().StringVar(&httpPort, "port", "8000", "Port for the REST frontend to listen on.")
	serveCmd.Flags().DurationVar(&writeTimeout, "http-timeout", config.HTTPTimeout,
		"Write timeout for the REST frontend.")
	_ = serveCmd.MarkFlagRequired("config")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load a backend driver and serve the REST frontend",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := GenerateRequestContext(context.Background(), uuid.New().String(), ContextSourceCLI)
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	configJSON, err := storagedrivers.LoadConfigFile(ctx, afero.NewOsFs(), configPath)
	if err != nil {
		return err
	}

	commonConfig, err := storagedrivers.ValidateCommonSettings(ctx, configJSON)
	if err != nil {
		return fmt.Errorf("could not validate backend configuration: %v", err)
	}

	driver, err := driverForName(commonConfig.StorageDriverName)
	if err != nil {
		return err
	}

	if err = driver.Initialize(ctx, config.ContextStandalone, configJSON, commonConfig); err != nil {
		return fmt.Errorf("could not initialize driver %s: %v", commonConfig.StorageDriverName, err)
	}
	defer driver.Terminate(ctx)

	if !config.IsValidProtocol(driver.Protocol()) {
		return fmt.Errorf("driver %s reports unknown protocol %s; expected one of %v",
			commonConfig.StorageDriverName, driver.Protocol(), config.GetValidProtocolNames())
	}

	config.OrchestratorTelemetry.Plugin = driver.Name()

	Logc(ctx).WithFields(LogFields{
		"driver":  driver.Name(),
		"backend": driver.BackendName(),
		"version": config.Version(),
	}).Info("Initialized backend driver.")

	server := rest.NewHTTPServer(driver, httpAddress, httpPort, writeTimeout)
	if err = server.Activate(); err != nil {
		return err
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	sig := <-signals
	Logc(ctx).WithField("signal", sig).Info("Shutting down.")

	return server.Deactivate()
}

func driverForName(driverName string) (storagedrivers.Driver, error) {
	switch driverName {
	case config.UnityISCSIStorageDriverName, config.UnityFCStorageDriverName:
		return &unity.SANStorageDriver{}, nil
	case config.FungibleStorageDriverName:
		return &fungible.SANStorageDriver{}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driverName)
	}
}
