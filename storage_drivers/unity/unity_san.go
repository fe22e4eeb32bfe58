// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package unity

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/blockgate/blockgate/config"
	. "github.com/blockgate/blockgate/logging"
	"github.com/blockgate/blockgate/pkg/capacity"
	"github.com/blockgate/blockgate/storage"
	drivers "github.com/blockgate/blockgate/storage_drivers"
	"github.com/blockgate/blockgate/storage_drivers/unity/api"
	"github.com/blockgate/blockgate/utils/errors"
)

const (
	DriverVersion = "4.2.0"
	VendorName    = "DellEMC"
)

// SANStorageDriver is the Unity plugin entry point. It parses config, builds
// one protocol adapter per configured array, and delegates every lifecycle
// call to whichever adapter the replication manager marks active.
type SANStorageDriver struct {
	initialized bool
	Config      drivers.UnityStorageDriverConfig
	protocol    config.Protocol
	replication *ReplicationManager

	// Injection points for tests; production wiring fills them with the
	// real client factory, block copier and (optionally) a zone lookup
	// service registered before Initialize.
	ClientFactory func(api.ClientConfig) api.UnityAPI
	Copier        BlockCopier
	LookupService FCZoneLookupService
}

func (d *SANStorageDriver) Name() string {
	if d.protocol == config.ProtocolFC {
		return config.UnityFCStorageDriverName
	}
	return config.UnityISCSIStorageDriverName
}

func (d *SANStorageDriver) BackendName() string {
	if d.Config.CommonStorageDriverConfig != nil && d.Config.BackendName != "" {
		return d.Config.BackendName
	}
	return "unity_" + d.Config.SanIP
}

func (d *SANStorageDriver) Protocol() config.Protocol {
	return d.protocol
}

// Initialize parses and validates config and constructs the replication
// manager. Adapter setup is deferred to first use so initialization
// succeeds even when the default array is unreachable after a failover.
func (d *SANStorageDriver) Initialize(
	ctx context.Context, driverContext config.DriverContext, configJSON string,
	commonConfig *drivers.CommonStorageDriverConfig,
) error {
	fields := LogFields{"Method": "Initialize", "Type": "SANStorageDriver"}
	Logd(ctx, commonConfig.StorageDriverName, commonConfig.DebugTraceFlags["method"]).
		WithFields(fields).Trace(">>>> Initialize")
	defer Logd(ctx, commonConfig.StorageDriverName, commonConfig.DebugTraceFlags["method"]).
		WithFields(fields).Trace("<<<< Initialize")

	commonConfig.DriverContext = driverContext

	cfg := &drivers.UnityStorageDriverConfig{}
	cfg.CommonStorageDriverConfig = commonConfig
	if err := json.Unmarshal([]byte(configJSON), cfg); err != nil {
		return fmt.Errorf("could not decode JSON configuration: %v", err)
	}
	d.Config = *cfg

	switch commonConfig.StorageDriverName {
	case config.UnityFCStorageDriverName:
		d.protocol = config.ProtocolFC
	case config.UnityISCSIStorageDriverName:
		d.protocol = config.ProtocolISCSI
	default:
		return fmt.Errorf("unknown Unity driver name %s", commonConfig.StorageDriverName)
	}

	if err := d.validate(); err != nil {
		return errors.WrapInvalidConfigError(err)
	}

	if d.ClientFactory == nil {
		d.ClientFactory = func(clientConfig api.ClientConfig) api.UnityAPI {
			return api.NewAPIClient(clientConfig)
		}
	}
	if d.Copier == nil {
		d.Copier = NewBlockCopier()
	}

	replication, err := NewReplicationManager(ctx, &d.Config, d.Config.ActiveBackendID, d.adapterFactory)
	if err != nil {
		return err
	}
	d.replication = replication

	d.initialized = true
	return nil
}

func (d *SANStorageDriver) Initialized() bool {
	return d.initialized
}

func (d *SANStorageDriver) Terminate(ctx context.Context) {
	if d.Config.CommonStorageDriverConfig != nil && d.Config.DebugTraceFlags["method"] {
		fields := LogFields{"Method": "Terminate", "Type": "SANStorageDriver"}
		Logd(ctx, d.Name(), true).WithFields(fields).Trace(">>>> Terminate")
		defer Logd(ctx, d.Name(), true).WithFields(fields).Trace("<<<< Terminate")
	}
	d.initialized = false
}

func (d *SANStorageDriver) validate() error {
	if d.Config.SanIP == "" {
		return errors.New("sanIp is empty; you must specify the array management address")
	}
	if d.Config.SanLogin == "" || d.Config.SanPassword == "" {
		return errors.New("sanLogin and sanPassword must both be specified")
	}
	if d.Config.MaxOverSubscriptionRatio < 0 {
		return errors.InvalidConfigError("maxOverSubscriptionRatio may not be negative")
	}
	if d.Config.ReservedPercentage < 0 || d.Config.ReservedPercentage > 100 {
		return errors.InvalidConfigError("reservedPercentage must be between 0 and 100")
	}
	return nil
}

// adapterFactory builds a protocol adapter bound to one array. The
// replication manager calls it lazily, once per device.
func (d *SANStorageDriver) adapterFactory(ctx context.Context,
	device drivers.ReplicationDeviceConfig,
) (*CommonAdapter, error) {
	client := d.ClientFactory(api.ClientConfig{
		Endpoint:   device.SanIP,
		Username:   device.SanLogin,
		Password:   device.SanPassword,
		VerifyTLS:  d.Config.SanVerifyTLS,
		DriverName: d.Name(),
		TraceFlags: d.Config.DebugTraceFlags,
	})

	backendName := d.BackendName()
	if device.BackendID != drivers.ReplicationDefaultBackendID {
		backendName = backendName + "_" + device.BackendID
	}

	common := NewCommonAdapter(client, &d.Config, backendName, d.Copier, d.serviceConnector())

	if d.protocol == config.ProtocolFC {
		NewFCAdapter(common, d.LookupService)
	} else {
		NewISCSIAdapter(common)
	}

	Logc(ctx).WithFields(LogFields{
		"backend":  backendName,
		"endpoint": device.SanIP,
		"protocol": d.protocol,
	}).Debug("Built adapter for replication device.")

	return common, nil
}

// serviceConnector describes this service host, used as the attachment
// point for clone block copies.
func (d *SANStorageDriver) serviceConnector() *storage.Connector {
	hostName := d.Config.ServiceHostName
	if hostName == "" {
		hostName, _ = os.Hostname()
	}
	return &storage.Connector{
		Host:      hostName,
		Initiator: d.Config.ServiceInitiator,
		WWPNs:     d.Config.ServiceWWPNs,
		WWNNs:     d.Config.ServiceWWNNs,
	}
}

func (d *SANStorageDriver) activeAdapter(ctx context.Context) (*CommonAdapter, error) {
	if !d.initialized {
		return nil, errors.New("driver is not initialized")
	}
	return d.replication.ActiveAdapter(ctx)
}

// trace logs entry/exit for one driver method when method tracing is on.
func (d *SANStorageDriver) trace(ctx context.Context, method string, fields LogFields) func() {
	enabled := d.Config.CommonStorageDriverConfig != nil && d.Config.DebugTraceFlags["method"]
	if fields == nil {
		fields = LogFields{}
	}
	fields["Method"] = method
	fields["Type"] = "SANStorageDriver"
	Logd(ctx, d.Name(), enabled).WithFields(fields).Tracef(">>>> %s", method)
	return func() {
		Logd(ctx, d.Name(), enabled).WithFields(fields).Tracef("<<<< %s", method)
	}
}

// ///////////////////////////////////////////////////////////////////////////
// Driver contract
// ///////////////////////////////////////////////////////////////////////////

// checkVolumeSizeLimit enforces the configured limitVolumeSize against a
// requested size before any array call is made.
func (d *SANStorageDriver) checkVolumeSizeLimit(ctx context.Context, size string) error {
	if size == "" || d.Config.CommonStorageDriverConfig == nil || d.Config.LimitVolumeSize == "" {
		return nil
	}
	sizeBytes, err := capacity.ToBytes(size)
	if err != nil {
		return errors.InvalidInputError("invalid volume size %q: %v", size, err)
	}
	return drivers.CheckVolumeSizeLimit(ctx, sizeBytes, d.Config.CommonStorageDriverConfig)
}

func (d *SANStorageDriver) CreateVolume(ctx context.Context, volConfig *storage.VolumeConfig) error {
	defer d.trace(ctx, "CreateVolume", LogFields{"name": volConfig.InternalName})()

	adapter, err := d.activeAdapter(ctx)
	if err != nil {
		return err
	}
	if err = d.checkVolumeSizeLimit(ctx, volConfig.Size); err != nil {
		return err
	}
	return adapter.CreateVolume(ctx, volConfig)
}

func (d *SANStorageDriver) CreateClonedVolume(ctx context.Context, volConfig,
	sourceVolConfig *storage.VolumeConfig,
) error {
	defer d.trace(ctx, "CreateClonedVolume", LogFields{
		"name":   volConfig.InternalName,
		"source": sourceVolConfig.InternalName,
	})()

	adapter, err := d.activeAdapter(ctx)
	if err != nil {
		return err
	}
	if err = d.checkVolumeSizeLimit(ctx, volConfig.Size); err != nil {
		return err
	}
	return adapter.CreateClonedVolume(ctx, volConfig, sourceVolConfig)
}

func (d *SANStorageDriver) CreateVolumeFromSnapshot(ctx context.Context, volConfig *storage.VolumeConfig,
	snapConfig *storage.SnapshotConfig,
) error {
	defer d.trace(ctx, "CreateVolumeFromSnapshot", LogFields{
		"name":     volConfig.InternalName,
		"snapshot": snapConfig.InternalName,
	})()

	adapter, err := d.activeAdapter(ctx)
	if err != nil {
		return err
	}
	if err = d.checkVolumeSizeLimit(ctx, volConfig.Size); err != nil {
		return err
	}
	return adapter.CreateVolumeFromSnapshot(ctx, volConfig, snapConfig)
}

func (d *SANStorageDriver) DeleteVolume(ctx context.Context, volConfig *storage.VolumeConfig) error {
	defer d.trace(ctx, "DeleteVolume", LogFields{"name": volConfig.InternalName})()

	if d.Config.CommonStorageDriverConfig != nil && d.Config.DisableDelete {
		Logc(ctx).WithField("volume", volConfig.InternalName).Info("Delete is disabled by config, skipping.")
		return nil
	}

	adapter, err := d.activeAdapter(ctx)
	if err != nil {
		return err
	}
	return adapter.DeleteVolume(ctx, volConfig)
}

func (d *SANStorageDriver) ExtendVolume(ctx context.Context, volConfig *storage.VolumeConfig,
	newSizeBytes uint64,
) error {
	defer d.trace(ctx, "ExtendVolume", LogFields{"name": volConfig.InternalName, "size": newSizeBytes})()

	adapter, err := d.activeAdapter(ctx)
	if err != nil {
		return err
	}
	if d.Config.CommonStorageDriverConfig != nil && d.Config.LimitVolumeSize != "" {
		if err = drivers.CheckVolumeSizeLimit(ctx, newSizeBytes, d.Config.CommonStorageDriverConfig); err != nil {
			return err
		}
	}
	return adapter.ExtendVolume(ctx, volConfig, newSizeBytes)
}

func (d *SANStorageDriver) CreateSnapshot(ctx context.Context, snapConfig *storage.SnapshotConfig) error {
	defer d.trace(ctx, "CreateSnapshot", LogFields{"name": snapConfig.InternalName})()

	adapter, err := d.activeAdapter(ctx)
	if err != nil {
		return err
	}
	return adapter.CreateSnapshot(ctx, snapConfig)
}

func (d *SANStorageDriver) DeleteSnapshot(ctx context.Context, snapConfig *storage.SnapshotConfig) error {
	defer d.trace(ctx, "DeleteSnapshot", LogFields{"name": snapConfig.InternalName})()

	adapter, err := d.activeAdapter(ctx)
	if err != nil {
		return err
	}
	return adapter.DeleteSnapshot(ctx, snapConfig)
}

func (d *SANStorageDriver) RevertToSnapshot(ctx context.Context, volConfig *storage.VolumeConfig,
	snapConfig *storage.SnapshotConfig,
) error {
	defer d.trace(ctx, "RevertToSnapshot", LogFields{
		"volume":   volConfig.InternalName,
		"snapshot": snapConfig.InternalName,
	})()

	adapter, err := d.activeAdapter(ctx)
	if err != nil {
		return err
	}
	return adapter.RevertToSnapshot(ctx, volConfig, snapConfig)
}

func (d *SANStorageDriver) InitializeConnection(ctx context.Context, volConfig *storage.VolumeConfig,
	connector *storage.Connector,
) (*storage.ConnectionInfo, error) {
	defer d.trace(ctx, "InitializeConnection", LogFields{
		"volume": volConfig.InternalName,
		"host":   connector.Host,
	})()

	adapter, err := d.activeAdapter(ctx)
	if err != nil {
		return nil, err
	}
	return adapter.InitializeConnection(ctx, volConfig, connector)
}

func (d *SANStorageDriver) TerminateConnection(ctx context.Context, volConfig *storage.VolumeConfig,
	connector *storage.Connector,
) (*storage.ConnectionInfo, error) {
	defer d.trace(ctx, "TerminateConnection", LogFields{
		"volume": volConfig.InternalName,
		"host":   connector.Host,
	})()

	adapter, err := d.activeAdapter(ctx)
	if err != nil {
		return nil, err
	}
	return adapter.TerminateConnection(ctx, volConfig, connector)
}

func (d *SANStorageDriver) InitializeConnectionSnapshot(ctx context.Context, snapConfig *storage.SnapshotConfig,
	connector *storage.Connector,
) (*storage.ConnectionInfo, error) {
	defer d.trace(ctx, "InitializeConnectionSnapshot", LogFields{
		"snapshot": snapConfig.InternalName,
		"host":     connector.Host,
	})()

	adapter, err := d.activeAdapter(ctx)
	if err != nil {
		return nil, err
	}
	return adapter.InitializeConnectionSnapshot(ctx, snapConfig, connector)
}

func (d *SANStorageDriver) TerminateConnectionSnapshot(ctx context.Context, snapConfig *storage.SnapshotConfig,
	connector *storage.Connector,
) (*storage.ConnectionInfo, error) {
	defer d.trace(ctx, "TerminateConnectionSnapshot", LogFields{
		"snapshot": snapConfig.InternalName,
		"host":     connector.Host,
	})()

	adapter, err := d.activeAdapter(ctx)
	if err != nil {
		return nil, err
	}
	return adapter.TerminateConnectionSnapshot(ctx, snapConfig, connector)
}

func (d *SANStorageDriver) ManageExisting(ctx context.Context, volConfig *storage.VolumeConfig,
	existingRef string,
) error {
	defer d.trace(ctx, "ManageExisting", LogFields{"ref": existingRef})()

	adapter, err := d.activeAdapter(ctx)
	if err != nil {
		return err
	}
	return adapter.ManageExisting(ctx, volConfig, existingRef)
}

func (d *SANStorageDriver) ManageExistingGetSize(ctx context.Context, existingRef string) (uint64, error) {
	defer d.trace(ctx, "ManageExistingGetSize", LogFields{"ref": existingRef})()

	adapter, err := d.activeAdapter(ctx)
	if err != nil {
		return 0, err
	}
	return adapter.ManageExistingGetSize(ctx, existingRef)
}

func (d *SANStorageDriver) GetVolumeStats(ctx context.Context, _ bool) (*storage.BackendStats, error) {
	defer d.trace(ctx, "GetVolumeStats", nil)()

	adapter, err := d.activeAdapter(ctx)
	if err != nil {
		return nil, err
	}
	return adapter.GetVolumeStats(ctx)
}

func (d *SANStorageDriver) Failover(ctx context.Context, backendID string) error {
	defer d.trace(ctx, "Failover", LogFields{"backend": backendID})()

	if !d.initialized {
		return errors.New("driver is not initialized")
	}
	return d.replication.Failover(ctx, backendID)
}
