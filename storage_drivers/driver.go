// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package storagedrivers

import (
	"context"

	"github.com/blockgate/blockgate/config"
	"github.com/blockgate/blockgate/storage"
)

// Driver is the lifecycle contract every backend plugin implements. The host
// process owns scheduling and persistence; drivers translate each call into
// backend array operations and must keep every operation idempotent where the
// contract says so (deletes on missing resources succeed, creates of existing
// resources adopt the existing object).
type Driver interface {
	Name() string
	BackendName() string
	Protocol() config.Protocol

	Initialize(ctx context.Context, driverContext config.DriverContext, configJSON string,
		commonConfig *CommonStorageDriverConfig) error
	Initialized() bool
	Terminate(ctx context.Context)

	CreateVolume(ctx context.Context, volConfig *storage.VolumeConfig) error
	CreateClonedVolume(ctx context.Context, volConfig, sourceVolConfig *storage.VolumeConfig) error
	CreateVolumeFromSnapshot(ctx context.Context, volConfig *storage.VolumeConfig,
		snapConfig *storage.SnapshotConfig) error
	DeleteVolume(ctx context.Context, volConfig *storage.VolumeConfig) error
	ExtendVolume(ctx context.Context, volConfig *storage.VolumeConfig, newSizeBytes uint64) error

	CreateSnapshot(ctx context.Context, snapConfig *storage.SnapshotConfig) error
	DeleteSnapshot(ctx context.Context, snapConfig *storage.SnapshotConfig) error
	RevertToSnapshot(ctx context.Context, volConfig *storage.VolumeConfig,
		snapConfig *storage.SnapshotConfig) error

	InitializeConnection(ctx context.Context, volConfig *storage.VolumeConfig,
		connector *storage.Connector) (*storage.ConnectionInfo, error)
	TerminateConnection(ctx context.Context, volConfig *storage.VolumeConfig,
		connector *storage.Connector) (*storage.ConnectionInfo, error)
	InitializeConnectionSnapshot(ctx context.Context, snapConfig *storage.SnapshotConfig,
		connector *storage.Connector) (*storage.ConnectionInfo, error)
	TerminateConnectionSnapshot(ctx context.Context, snapConfig *storage.SnapshotConfig,
		connector *storage.Connector) (*storage.ConnectionInfo, error)

	ManageExisting(ctx context.Context, volConfig *storage.VolumeConfig, existingRef string) error
	ManageExistingGetSize(ctx context.Context, existingRef string) (uint64, error)

	GetVolumeStats(ctx context.Context, refresh bool) (*storage.BackendStats, error)

	// Failover redirects all subsequent calls to the named replication
	// target. Drivers without replication support return an unsupported
	// error.
	Failover(ctx context.Context, backendID string) error
}
