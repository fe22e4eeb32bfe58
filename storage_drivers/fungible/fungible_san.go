// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

// Package fungible implements the block-storage driver for Fungible Storage
// Clusters. Volumes are exposed to hosts over NVMe/TCP; the driver is a thin
// wrapper around the composer REST API with no orchestration of its own.
package fungible

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-openapi/swag"

	"github.com/blockgate/blockgate/config"
	. "github.com/blockgate/blockgate/logging"
	"github.com/blockgate/blockgate/pkg/capacity"
	"github.com/blockgate/blockgate/storage"
	drivers "github.com/blockgate/blockgate/storage_drivers"
	"github.com/blockgate/blockgate/storage_drivers/fungible/api"
	"github.com/blockgate/blockgate/utils/errors"
)

const (
	DriverVersion = "1.0.0"
	VendorName    = "Fungible"

	bytesPerGB = 1 << 30
)

// SANStorageDriver is the Fungible plugin entry point.
type SANStorageDriver struct {
	initialized bool
	Config      drivers.FungibleStorageDriverConfig
	volType     string

	// Injection points for tests; Initialize fills them from the real
	// client when unset.
	Storage  api.StorageAPI
	Topology api.TopologyAPI
}

func (d *SANStorageDriver) Name() string {
	return config.FungibleStorageDriverName
}

func (d *SANStorageDriver) BackendName() string {
	if d.Config.CommonStorageDriverConfig != nil && d.Config.BackendName != "" {
		return d.Config.BackendName
	}
	return "fungible_" + d.Config.APIEndpoint
}

func (d *SANStorageDriver) Protocol() config.Protocol {
	return config.ProtocolNVMe
}

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

	cfg := &drivers.FungibleStorageDriverConfig{}
	cfg.CommonStorageDriverConfig = commonConfig
	if err := json.Unmarshal([]byte(configJSON), cfg); err != nil {
		return fmt.Errorf("could not decode JSON configuration: %v", err)
	}
	d.Config = *cfg

	if err := d.validate(); err != nil {
		return errors.WrapInvalidConfigError(err)
	}

	if d.Storage == nil || d.Topology == nil {
		client := api.NewAPIClient(api.ClientConfig{
			Endpoint:  d.Config.APIEndpoint,
			BasePath:  d.Config.APIBasePath,
			Username:  d.Config.Username,
			Password:  d.Config.Password,
			VerifyTLS: d.Config.APIVerifyTLS,
		})
		d.Storage = client.Storage
		d.Topology = client.Topology
	}

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
	if d.Config.APIEndpoint == "" {
		return errors.New("apiEndpoint is empty; you must specify the composer address")
	}
	if d.Config.Username == "" || d.Config.Password == "" {
		return errors.New("username and password must both be specified")
	}

	switch strings.ToLower(d.Config.DurableFormat) {
	case "", "raw":
		d.volType = api.VolumeTypeRaw
	case "ec":
		d.volType = api.VolumeTypeEC
	case "replica":
		d.volType = api.VolumeTypeReplica
	default:
		return errors.InvalidConfigError(
			"durableFormat %q is not one of raw, ec, replica", d.Config.DurableFormat)
	}
	return nil
}

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

func (d *SANStorageDriver) CreateVolume(ctx context.Context, volConfig *storage.VolumeConfig) error {
	defer d.trace(ctx, "CreateVolume", LogFields{"name": volConfig.InternalName})()

	sizeBytes, err := capacity.ToBytes(volConfig.Size)
	if err != nil {
		return errors.InvalidInputError("could not parse volume size %q: %v", volConfig.Size, err)
	}
	if d.Config.CommonStorageDriverConfig != nil {
		if err = drivers.CheckVolumeSizeLimit(ctx, sizeBytes, d.Config.CommonStorageDriverConfig); err != nil {
			return err
		}
	}

	uuid, err := d.Storage.CreateVolume(ctx, &api.VolumeSpec{
		Name:    swag.String(volConfig.InternalName),
		Size:    swag.Int64(int64(sizeBytes)),
		VolType: swag.String(d.volType),
		Encrypt: d.Config.IsEncrypted,
	})
	if err != nil {
		return err
	}

	volConfig.ProviderID = uuid
	Logc(ctx).WithFields(LogFields{
		"volume": volConfig.InternalName,
		"uuid":   uuid,
	}).Debug("Created volume.")
	return nil
}

func (d *SANStorageDriver) CreateClonedVolume(ctx context.Context, volConfig,
	sourceVolConfig *storage.VolumeConfig,
) error {
	defer d.trace(ctx, "CreateClonedVolume", LogFields{
		"name":   volConfig.InternalName,
		"source": sourceVolConfig.InternalName,
	})()

	sourceUUID, err := d.volumeUUID(ctx, sourceVolConfig)
	if err != nil {
		return err
	}

	sizeBytes, err := capacity.ToBytes(volConfig.Size)
	if err != nil {
		return errors.InvalidInputError("could not parse volume size %q: %v", volConfig.Size, err)
	}
	if d.Config.CommonStorageDriverConfig != nil {
		if err = drivers.CheckVolumeSizeLimit(ctx, sizeBytes, d.Config.CommonStorageDriverConfig); err != nil {
			return err
		}
	}

	uuid, err := d.Storage.CreateVolume(ctx, &api.VolumeSpec{
		Name:                  swag.String(volConfig.InternalName),
		Size:                  swag.Int64(int64(sizeBytes)),
		VolType:               swag.String(d.volType),
		Encrypt:               d.Config.IsEncrypted,
		IsClone:               true,
		CloneSourceVolumeUUID: sourceUUID,
	})
	if err != nil {
		return err
	}

	volConfig.ProviderID = uuid
	return nil
}

func (d *SANStorageDriver) CreateVolumeFromSnapshot(ctx context.Context, volConfig *storage.VolumeConfig,
	snapConfig *storage.SnapshotConfig,
) error {
	defer d.trace(ctx, "CreateVolumeFromSnapshot", LogFields{
		"name":     volConfig.InternalName,
		"snapshot": snapConfig.InternalName,
	})()

	if snapConfig.ProviderID == "" {
		return errors.InvalidInputError("snapshot %s has no backend id", snapConfig.InternalName)
	}

	sizeBytes, err := capacity.ToBytes(volConfig.Size)
	if err != nil {
		return errors.InvalidInputError("could not parse volume size %q: %v", volConfig.Size, err)
	}
	if d.Config.CommonStorageDriverConfig != nil {
		if err = drivers.CheckVolumeSizeLimit(ctx, sizeBytes, d.Config.CommonStorageDriverConfig); err != nil {
			return err
		}
	}

	uuid, err := d.Storage.CreateVolume(ctx, &api.VolumeSpec{
		Name:                 swag.String(volConfig.InternalName),
		Size:                 swag.Int64(int64(sizeBytes)),
		VolType:              swag.String(d.volType),
		Encrypt:              d.Config.IsEncrypted,
		IsClone:              true,
		SnapSourceVolumeUUID: snapConfig.ProviderID,
	})
	if err != nil {
		return err
	}

	volConfig.ProviderID = uuid
	return nil
}

func (d *SANStorageDriver) DeleteVolume(ctx context.Context, volConfig *storage.VolumeConfig) error {
	defer d.trace(ctx, "DeleteVolume", LogFields{"name": volConfig.InternalName})()

	uuid, err := d.volumeUUID(ctx, volConfig)
	if errors.IsNotFoundError(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return d.Storage.DeleteVolume(ctx, uuid)
}

func (d *SANStorageDriver) ExtendVolume(ctx context.Context, volConfig *storage.VolumeConfig,
	newSizeBytes uint64,
) error {
	defer d.trace(ctx, "ExtendVolume", LogFields{"name": volConfig.InternalName, "size": newSizeBytes})()

	uuid, err := d.volumeUUID(ctx, volConfig)
	if err != nil {
		return err
	}
	return d.Storage.ResizeVolume(ctx, uuid, int64(newSizeBytes))
}

func (d *SANStorageDriver) CreateSnapshot(ctx context.Context, snapConfig *storage.SnapshotConfig) error {
	defer d.trace(ctx, "CreateSnapshot", LogFields{"name": snapConfig.InternalName})()

	volume, err := d.Storage.GetVolumeByName(ctx, snapConfig.VolumeInternalName)
	if err != nil {
		return err
	}

	uuid, err := d.Storage.CreateSnapshot(ctx, volume.UUID, snapConfig.InternalName)
	if err != nil {
		return err
	}

	snapConfig.ProviderID = uuid
	return nil
}

func (d *SANStorageDriver) DeleteSnapshot(ctx context.Context, snapConfig *storage.SnapshotConfig) error {
	defer d.trace(ctx, "DeleteSnapshot", LogFields{"name": snapConfig.InternalName})()

	if snapConfig.ProviderID == "" {
		return nil
	}
	return d.Storage.DeleteSnapshot(ctx, snapConfig.ProviderID)
}

// RevertToSnapshot is not offered by the composer API; the host must clone
// the snapshot into a fresh volume instead.
func (d *SANStorageDriver) RevertToSnapshot(ctx context.Context, _ *storage.VolumeConfig,
	snapConfig *storage.SnapshotConfig,
) error {
	defer d.trace(ctx, "RevertToSnapshot", LogFields{"snapshot": snapConfig.InternalName})()

	return errors.UnsupportedError("revert to snapshot is not supported by %s", d.Name())
}

func (d *SANStorageDriver) InitializeConnection(ctx context.Context, volConfig *storage.VolumeConfig,
	connector *storage.Connector,
) (*storage.ConnectionInfo, error) {
	defer d.trace(ctx, "InitializeConnection", LogFields{
		"volume": volConfig.InternalName,
		"host":   connector.Host,
	})()

	if connector.NQN == "" {
		return nil, errors.InvalidInputError("connector for host %s has no NQN", connector.Host)
	}

	uuid, err := d.volumeUUID(ctx, volConfig)
	if err != nil {
		return nil, err
	}

	host, err := d.Topology.GetHostByNQN(ctx, connector.NQN)
	if err != nil {
		return nil, err
	}

	port, err := d.Storage.AttachVolume(ctx, uuid, &api.PortSpec{
		Transport: swag.String(api.TransportTCP),
		HostNQN:   swag.String(connector.NQN),
		HostUUID:  host.UUID,
	})
	if err != nil {
		return nil, err
	}

	Logc(ctx).WithFields(LogFields{
		"volume": volConfig.InternalName,
		"host":   connector.Host,
		"port":   port.UUID,
	}).Debug("Attached volume.")

	return &storage.ConnectionInfo{
		DriverVolumeType: string(config.ProtocolNVMe),
		NVMe: &storage.NVMeConnectionData{
			Transport:     api.TransportTCP,
			TargetNQN:     port.SubsysNQN,
			TargetPortals: port.IPs,
			NamespaceID:   port.NSID,
		},
	}, nil
}

func (d *SANStorageDriver) TerminateConnection(ctx context.Context, volConfig *storage.VolumeConfig,
	connector *storage.Connector,
) (*storage.ConnectionInfo, error) {
	defer d.trace(ctx, "TerminateConnection", LogFields{
		"volume": volConfig.InternalName,
		"host":   connector.Host,
	})()

	uuid, err := d.volumeUUID(ctx, volConfig)
	if errors.IsNotFoundError(err) {
		return &storage.ConnectionInfo{DriverVolumeType: string(config.ProtocolNVMe)}, nil
	}
	if err != nil {
		return nil, err
	}

	volume, err := d.Storage.GetVolume(ctx, uuid)
	if errors.IsNotFoundError(err) {
		return &storage.ConnectionInfo{DriverVolumeType: string(config.ProtocolNVMe)}, nil
	}
	if err != nil {
		return nil, err
	}

	for _, port := range volume.Ports {
		if port.HostNQN == connector.NQN {
			if err = d.Storage.DetachVolume(ctx, port.UUID); err != nil {
				return nil, err
			}
		}
	}
	return &storage.ConnectionInfo{DriverVolumeType: string(config.ProtocolNVMe)}, nil
}

func (d *SANStorageDriver) InitializeConnectionSnapshot(ctx context.Context, snapConfig *storage.SnapshotConfig,
	_ *storage.Connector,
) (*storage.ConnectionInfo, error) {
	defer d.trace(ctx, "InitializeConnectionSnapshot", LogFields{"snapshot": snapConfig.InternalName})()

	return nil, errors.UnsupportedError("snapshot attachment is not supported by %s", d.Name())
}

func (d *SANStorageDriver) TerminateConnectionSnapshot(ctx context.Context, snapConfig *storage.SnapshotConfig,
	_ *storage.Connector,
) (*storage.ConnectionInfo, error) {
	defer d.trace(ctx, "TerminateConnectionSnapshot", LogFields{"snapshot": snapConfig.InternalName})()

	return nil, errors.UnsupportedError("snapshot attachment is not supported by %s", d.Name())
}

// ManageExisting adopts a pre-existing volume by uuid or name, renaming it to
// the internal name the host expects.
func (d *SANStorageDriver) ManageExisting(ctx context.Context, volConfig *storage.VolumeConfig,
	existingRef string,
) error {
	defer d.trace(ctx, "ManageExisting", LogFields{"ref": existingRef})()

	volume, err := d.resolveExistingRef(ctx, existingRef)
	if err != nil {
		return err
	}

	if volume.Name != volConfig.InternalName {
		if err = d.Storage.RenameVolume(ctx, volume.UUID, volConfig.InternalName); err != nil {
			return err
		}
	}

	volConfig.ProviderID = volume.UUID
	volConfig.Size = fmt.Sprintf("%d", volume.Size)
	return nil
}

func (d *SANStorageDriver) ManageExistingGetSize(ctx context.Context, existingRef string) (uint64, error) {
	defer d.trace(ctx, "ManageExistingGetSize", LogFields{"ref": existingRef})()

	volume, err := d.resolveExistingRef(ctx, existingRef)
	if err != nil {
		return 0, err
	}
	return uint64(volume.Size), nil
}

func (d *SANStorageDriver) resolveExistingRef(ctx context.Context, existingRef string) (*api.Volume, error) {
	volume, err := d.Storage.GetVolume(ctx, existingRef)
	if err == nil {
		return volume, nil
	}
	if !errors.IsNotFoundError(err) {
		return nil, err
	}

	volume, err = d.Storage.GetVolumeByName(ctx, existingRef)
	if errors.IsNotFoundError(err) {
		return nil, errors.InvalidInputError(
			"no volume with id or name %q exists on the cluster", existingRef)
	}
	if err != nil {
		return nil, err
	}
	return volume, nil
}

func (d *SANStorageDriver) GetVolumeStats(ctx context.Context, _ bool) (*storage.BackendStats, error) {
	defer d.trace(ctx, "GetVolumeStats", nil)()

	clusterCapacity, err := d.Storage.GetClusterCapacity(ctx)
	if err != nil {
		return nil, err
	}

	total := float64(clusterCapacity.TotalCapacity) / bytesPerGB
	free := float64(clusterCapacity.TotalCapacity-clusterCapacity.UsedCapacity) / bytesPerGB

	return &storage.BackendStats{
		BackendName:     d.BackendName(),
		StorageProtocol: string(config.ProtocolNVMe),
		DriverVersion:   DriverVersion,
		VendorName:      VendorName,
		Pools: []storage.PoolStats{{
			Name:                    "cluster",
			TotalCapacityGB:         total,
			FreeCapacityGB:          free,
			ThinProvisioningSupport: true,
		}},
	}, nil
}

func (d *SANStorageDriver) Failover(ctx context.Context, backendID string) error {
	defer d.trace(ctx, "Failover", LogFields{"backend": backendID})()

	return errors.UnsupportedError("replication failover is not supported by %s", d.Name())
}

// volumeUUID resolves config to a backend uuid, preferring the stored
// provider id and falling back to a name lookup.
func (d *SANStorageDriver) volumeUUID(ctx context.Context, volConfig *storage.VolumeConfig) (string, error) {
	if volConfig.ProviderID != "" {
		return volConfig.ProviderID, nil
	}
	volume, err := d.Storage.GetVolumeByName(ctx, volConfig.InternalName)
	if err != nil {
		return "", err
	}
	return volume.UUID, nil
}
