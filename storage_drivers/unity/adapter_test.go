// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package unity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/blockgate/blockgate/mocks/mock_unity_api"
	"github.com/blockgate/blockgate/storage"
	drivers "github.com/blockgate/blockgate/storage_drivers"
	"github.com/blockgate/blockgate/storage_drivers/unity/api"
	"github.com/blockgate/blockgate/utils/errors"
)

type fakeCopier struct {
	err    error
	copies int
	src    AttachedDevice
	dst    AttachedDevice
	size   uint64
}

func (c *fakeCopier) CopyBlocks(_ context.Context, src, dst AttachedDevice, sizeBytes uint64) error {
	c.copies++
	c.src = src
	c.dst = dst
	c.size = sizeBytes
	return c.err
}

func newTestAdapterConfig() *drivers.UnityStorageDriverConfig {
	return &drivers.UnityStorageDriverConfig{
		CommonStorageDriverConfig: &drivers.CommonStorageDriverConfig{
			Version:           drivers.ConfigVersion,
			StorageDriverName: "unity-iscsi",
			BackendName:       "unity-test",
			DebugTraceFlags:   map[string]bool{"method": true, "api": true},
		},
		SanIP:       "1.2.3.4",
		SanLogin:    "admin",
		SanPassword: "password",
	}
}

func newTestISCSIAdapter(client api.UnityAPI, copier BlockCopier) (*ISCSIAdapter, *drivers.UnityStorageDriverConfig) {
	cfg := newTestAdapterConfig()
	localConnector := &storage.Connector{
		Host:      "service-host",
		Initiator: "iqn.1993-08.org.debian:01:service",
	}
	common := NewCommonAdapter(client, cfg, "unity-test", copier, localConnector)
	common.serialNumber = "FNM00150600267"
	return NewISCSIAdapter(common), cfg
}

func TestCreateVolume(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})
	ctx := context.Background()

	client.EXPECT().GetPool(ctx, "pool_a").Return(&api.Pool{ID: "pool_1", Name: "pool_a"}, nil)
	client.EXPECT().CreateLun(ctx, "vol1", "pool_1", uint64(1<<30)).Return(&api.Lun{ID: "sv_27", Name: "vol1"}, nil)

	volConfig := &storage.VolumeConfig{InternalName: "vol1", Size: "1G", Pool: "pool_a"}
	err := adapter.CreateVolume(ctx, volConfig)

	assert.NoError(t, err)
	assert.Equal(t, "sv_27", volConfig.ProviderID)

	id, err := ResourceIDFromProviderLocation(volConfig.ProviderLocation)
	assert.NoError(t, err)
	assert.Equal(t, "sv_27", id)
	system, _ := ExtractProviderLocation(volConfig.ProviderLocation, "system")
	assert.Equal(t, "FNM00150600267", system)
}

func TestCreateVolumeInvalidSize(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})

	volConfig := &storage.VolumeConfig{InternalName: "vol1", Size: "a lot"}
	err := adapter.CreateVolume(context.Background(), volConfig)

	assert.Error(t, err)
	assert.True(t, errors.IsInvalidInputError(err))
}

func TestCreateVolumePickMostFreePool(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, cfg := newTestISCSIAdapter(client, &fakeCopier{})
	cfg.StoragePoolNames = []string{"pool_a", "pool_b"}
	ctx := context.Background()

	client.EXPECT().GetPools(ctx).Return([]api.Pool{
		{ID: "pool_1", Name: "pool_a", SizeFree: 10 << 30},
		{ID: "pool_2", Name: "pool_b", SizeFree: 50 << 30},
		{ID: "pool_3", Name: "pool_unconfigured", SizeFree: 500 << 30},
	}, nil)
	client.EXPECT().CreateLun(ctx, "vol1", "pool_2", uint64(1<<30)).Return(&api.Lun{ID: "sv_1"}, nil)

	err := adapter.CreateVolume(ctx, &storage.VolumeConfig{InternalName: "vol1", Size: "1G"})
	assert.NoError(t, err)
}

func TestCreateVolumeNoPoolFits(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})
	ctx := context.Background()

	client.EXPECT().GetPools(ctx).Return([]api.Pool{
		{ID: "pool_1", Name: "pool_a", SizeFree: 1 << 20},
	}, nil)

	err := adapter.CreateVolume(ctx, &storage.VolumeConfig{InternalName: "vol1", Size: "100G"})
	assert.Error(t, err)
}

func TestCreateVolumeGroupCompensation(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})
	ctx := context.Background()

	client.EXPECT().GetPool(ctx, "pool_a").Return(&api.Pool{ID: "pool_1", Name: "pool_a"}, nil)
	client.EXPECT().CreateLun(ctx, "vol1", "pool_1", uint64(1<<30)).Return(&api.Lun{ID: "sv_27"}, nil)
	client.EXPECT().CreateConsistencyGroup(ctx, "group1").Return(nil, errors.New("array rejected the group"))
	client.EXPECT().DeleteLun(ctx, "sv_27").Return(nil)

	volConfig := &storage.VolumeConfig{InternalName: "vol1", Size: "1G", Pool: "pool_a", GroupName: "group1"}
	err := adapter.CreateVolume(ctx, volConfig)

	assert.Error(t, err)
	assert.Empty(t, volConfig.ProviderID)
}

func TestDeleteVolumeIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})
	ctx := context.Background()

	client.EXPECT().GetLunByName(ctx, "vol1").Return(nil, errors.NotFoundError("lun vol1 not found"))

	err := adapter.DeleteVolume(ctx, &storage.VolumeConfig{InternalName: "vol1"})
	assert.NoError(t, err)
}

func TestDeleteVolumeInUse(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})
	ctx := context.Background()

	client.EXPECT().DeleteLun(ctx, "sv_27").Return(errors.InUseError("lun sv_27 has host access configured"))

	err := adapter.DeleteVolume(ctx, &storage.VolumeConfig{InternalName: "vol1", ProviderID: "sv_27"})
	assert.Error(t, err)
	assert.True(t, errors.IsInUseError(err))
}

func TestDeleteVolumePrefersProviderLocation(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})
	ctx := context.Background()

	client.EXPECT().DeleteLun(ctx, "sv_9").Return(nil)

	volConfig := &storage.VolumeConfig{
		InternalName:     "vol1",
		ProviderID:       "sv_stale",
		ProviderLocation: "id^sv_9|system^FNM001|type^lun|version^4.2.0",
	}
	assert.NoError(t, adapter.DeleteVolume(ctx, volConfig))
}

func TestDeleteSnapshotIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})
	ctx := context.Background()

	client.EXPECT().GetSnap(ctx, "snap1").Return(nil, errors.NotFoundError("snap snap1 not found"))

	err := adapter.DeleteSnapshot(ctx, &storage.SnapshotConfig{InternalName: "snap1"})
	assert.NoError(t, err)
}

func TestCreateSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})
	ctx := context.Background()

	client.EXPECT().GetLunByName(ctx, "vol1").Return(&api.Lun{ID: "sv_27"}, nil)
	client.EXPECT().CreateSnap(ctx, "sv_27", "snap1").Return(&api.Snapshot{ID: "38654705844"}, nil)

	snapConfig := &storage.SnapshotConfig{InternalName: "snap1", VolumeInternalName: "vol1"}
	err := adapter.CreateSnapshot(ctx, snapConfig)

	assert.NoError(t, err)
	assert.Equal(t, "38654705844", snapConfig.ProviderID)
	resourceType, _ := ExtractProviderLocation(snapConfig.ProviderLocation, "type")
	assert.Equal(t, "snapshot", resourceType)
}

// Clone through the transient internal snapshot. A failed block copy must
// delete the partial destination, detach both copy attachments, and still
// delete the internal snapshot.
func TestCreateClonedVolumeCopyFailureCompensates(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	copier := &fakeCopier{err: errors.New("dd exited with status 1")}
	adapter, _ := newTestISCSIAdapter(client, copier)
	ctx := context.Background()

	serviceHost := &api.Host{ID: "Host_7", Name: "service-host"}

	client.EXPECT().CreateSnap(ctx, "sv_src", gomock.Any()).Return(&api.Snapshot{ID: "snap_tmp", WWN: "60:06:01:60:AA"}, nil)
	client.EXPECT().GetPool(ctx, "pool_a").Return(&api.Pool{ID: "pool_1", Name: "pool_a"}, nil)
	client.EXPECT().CreateLun(ctx, "clone1", "pool_1", uint64(1<<30)).Return(&api.Lun{ID: "sv_dst", WWN: "60:06:01:60:BB"}, nil)

	client.EXPECT().GetHostByName(ctx, "service-host").Return(serviceHost, nil)
	client.EXPECT().CreateInitiator(ctx, "Host_7", api.InitiatorTypeISCSI, "iqn.1993-08.org.debian:01:service").
		Return(&api.Initiator{}, nil)

	client.EXPECT().GetLun(ctx, "sv_dst").Return(&api.Lun{ID: "sv_dst", WWN: "60:06:01:60:BB"}, nil)
	client.EXPECT().AttachLun(ctx, serviceHost, "sv_dst").Return(2, nil)
	client.EXPECT().CopySnap(ctx, "snap_tmp", gomock.Any()).
		Return(&api.Snapshot{ID: "snap_copy", WWN: "60:06:01:60:AA"}, nil)
	client.EXPECT().AttachSnap(ctx, serviceHost, "snap_copy").Return(3, nil)

	// Compensation after the failed copy.
	client.EXPECT().DetachSnap(ctx, serviceHost, "snap_copy").Return(nil)
	client.EXPECT().DeleteSnap(ctx, "snap_copy").Return(nil)
	client.EXPECT().DetachLun(ctx, serviceHost, "sv_dst").Return(nil)
	client.EXPECT().DeleteLun(ctx, "sv_dst").Return(nil)
	client.EXPECT().DeleteSnap(ctx, "snap_tmp").Return(nil)

	volConfig := &storage.VolumeConfig{InternalName: "clone1", Size: "1G", Pool: "pool_a"}
	sourceVolConfig := &storage.VolumeConfig{InternalName: "vol1", ProviderID: "sv_src"}

	err := adapter.CreateClonedVolume(ctx, volConfig, sourceVolConfig)

	assert.Error(t, err)
	assert.Equal(t, 1, copier.copies)
	assert.Equal(t, api.HostLunTypeSnap, copier.src.Type)
	assert.Equal(t, "snap_copy", copier.src.ResourceID)
	assert.Equal(t, 3, copier.src.HLU)
	assert.Equal(t, api.HostLunTypeLun, copier.dst.Type)
	assert.Equal(t, 2, copier.dst.HLU)
}

func TestCreateClonedVolumeSuccessDeletesInternalSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	copier := &fakeCopier{}
	adapter, _ := newTestISCSIAdapter(client, copier)
	ctx := context.Background()

	serviceHost := &api.Host{ID: "Host_7", Name: "service-host"}

	client.EXPECT().CreateSnap(ctx, "sv_src", gomock.Any()).Return(&api.Snapshot{ID: "snap_tmp"}, nil)
	client.EXPECT().GetPool(ctx, "pool_a").Return(&api.Pool{ID: "pool_1", Name: "pool_a"}, nil)
	client.EXPECT().CreateLun(ctx, "clone1", "pool_1", uint64(1<<30)).Return(&api.Lun{ID: "sv_dst"}, nil)
	client.EXPECT().GetHostByName(ctx, "service-host").Return(serviceHost, nil)
	client.EXPECT().CreateInitiator(ctx, "Host_7", api.InitiatorTypeISCSI, gomock.Any()).Return(&api.Initiator{}, nil)
	client.EXPECT().GetLun(ctx, "sv_dst").Return(&api.Lun{ID: "sv_dst"}, nil)
	client.EXPECT().AttachLun(ctx, serviceHost, "sv_dst").Return(2, nil)
	client.EXPECT().CopySnap(ctx, "snap_tmp", gomock.Any()).Return(&api.Snapshot{ID: "snap_copy"}, nil)
	client.EXPECT().AttachSnap(ctx, serviceHost, "snap_copy").Return(3, nil)
	client.EXPECT().DetachSnap(ctx, serviceHost, "snap_copy").Return(nil)
	client.EXPECT().DeleteSnap(ctx, "snap_copy").Return(nil)
	client.EXPECT().DetachLun(ctx, serviceHost, "sv_dst").Return(nil)
	client.EXPECT().DeleteSnap(ctx, "snap_tmp").Return(nil)

	volConfig := &storage.VolumeConfig{InternalName: "clone1", Size: "1G", Pool: "pool_a"}
	sourceVolConfig := &storage.VolumeConfig{InternalName: "vol1", ProviderID: "sv_src"}

	err := adapter.CreateClonedVolume(ctx, volConfig, sourceVolConfig)

	assert.NoError(t, err)
	assert.Equal(t, 1, copier.copies)
	assert.Equal(t, uint64(1<<30), copier.size)
}

func TestCreateVolumeFromSnapshotCopyFailureDeletesPartialVolume(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	copier := &fakeCopier{err: errors.New("dd exited with status 1")}
	adapter, _ := newTestISCSIAdapter(client, copier)
	ctx := context.Background()

	serviceHost := &api.Host{ID: "Host_7", Name: "service-host"}

	client.EXPECT().GetPool(ctx, "pool_a").Return(&api.Pool{ID: "pool_1", Name: "pool_a"}, nil)
	client.EXPECT().CreateLun(ctx, "vol2", "pool_1", uint64(1<<30)).Return(&api.Lun{ID: "sv_dst"}, nil)
	client.EXPECT().GetHostByName(ctx, "service-host").Return(serviceHost, nil)
	client.EXPECT().CreateInitiator(ctx, "Host_7", api.InitiatorTypeISCSI, gomock.Any()).Return(&api.Initiator{}, nil)
	client.EXPECT().GetLun(ctx, "sv_dst").Return(&api.Lun{ID: "sv_dst"}, nil)
	client.EXPECT().AttachLun(ctx, serviceHost, "sv_dst").Return(2, nil)
	client.EXPECT().CopySnap(ctx, "snap_src", gomock.Any()).Return(&api.Snapshot{ID: "snap_copy"}, nil)
	client.EXPECT().AttachSnap(ctx, serviceHost, "snap_copy").Return(3, nil)
	client.EXPECT().DetachSnap(ctx, serviceHost, "snap_copy").Return(nil)
	client.EXPECT().DeleteSnap(ctx, "snap_copy").Return(nil)
	client.EXPECT().DetachLun(ctx, serviceHost, "sv_dst").Return(nil)
	client.EXPECT().DeleteLun(ctx, "sv_dst").Return(nil)

	volConfig := &storage.VolumeConfig{InternalName: "vol2", Size: "1G", Pool: "pool_a"}
	snapConfig := &storage.SnapshotConfig{InternalName: "snap1", ProviderID: "snap_src"}

	err := adapter.CreateVolumeFromSnapshot(ctx, volConfig, snapConfig)
	assert.Error(t, err)
}

func TestInitializeConnectionDetachOnDiscoveryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})
	ctx := context.Background()

	host := &api.Host{ID: "Host_1", Name: "compute-1"}
	connector := &storage.Connector{Host: "compute-1", Initiator: "iqn.1993-08.org.debian:01:abc"}

	client.EXPECT().GetHostByName(ctx, "compute-1").Return(host, nil)
	client.EXPECT().CreateInitiator(ctx, "Host_1", api.InitiatorTypeISCSI, "iqn.1993-08.org.debian:01:abc").
		Return(&api.Initiator{}, nil)
	client.EXPECT().AttachLun(ctx, host, "sv_27").Return(5, nil)
	client.EXPECT().GetIscsiPortals(ctx).Return(nil, errors.New("portal query failed"))
	client.EXPECT().DetachLun(ctx, host, "sv_27").Return(nil)

	volConfig := &storage.VolumeConfig{InternalName: "vol1", ProviderID: "sv_27"}
	info, err := adapter.InitializeConnection(ctx, volConfig, connector)

	assert.Error(t, err)
	assert.Nil(t, info)
}

func TestInitializeConnection(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})
	ctx := context.Background()

	host := &api.Host{ID: "Host_1", Name: "compute-1"}
	connector := &storage.Connector{Host: "compute-1", Initiator: "iqn.1993-08.org.debian:01:abc"}

	client.EXPECT().GetHostByName(ctx, "compute-1").Return(host, nil)
	client.EXPECT().CreateInitiator(ctx, "Host_1", api.InitiatorTypeISCSI, "iqn.1993-08.org.debian:01:abc").
		Return(&api.Initiator{}, nil)
	client.EXPECT().AttachLun(ctx, host, "sv_27").Return(5, nil)
	client.EXPECT().GetIscsiPortals(ctx).Return([]api.IscsiPortal{
		{ID: "if_1", IPAddress: "10.0.0.10", Port: 3260, IQN: "iqn.1992-04.com.emc:cx.fnm001.a0", PortID: "spa_eth2"},
	}, nil)

	volConfig := &storage.VolumeConfig{InternalName: "vol1", ProviderID: "sv_27"}
	info, err := adapter.InitializeConnection(ctx, volConfig, connector)

	assert.NoError(t, err)
	assert.Equal(t, "iscsi", info.DriverVolumeType)
	assert.Equal(t, "10.0.0.10:3260", info.ISCSI.TargetPortal)
	assert.Equal(t, 5, info.ISCSI.TargetLun)
}

func TestTerminateConnection(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})
	ctx := context.Background()

	host := &api.Host{ID: "Host_1", Name: "compute-1"}
	connector := &storage.Connector{Host: "compute-1", Initiator: "iqn.1993-08.org.debian:01:abc"}

	client.EXPECT().GetHostByName(ctx, "compute-1").Return(host, nil)
	client.EXPECT().DetachLun(ctx, host, "sv_27").Return(nil)
	client.EXPECT().GetHostLuns(ctx, "Host_1").Return(nil, nil)

	volConfig := &storage.VolumeConfig{InternalName: "vol1", ProviderID: "sv_27"}
	info, err := adapter.TerminateConnection(ctx, volConfig, connector)

	assert.NoError(t, err)
	assert.Equal(t, "iscsi", info.DriverVolumeType)
}

func TestTerminateConnectionHostGone(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})
	ctx := context.Background()

	connector := &storage.Connector{Host: "compute-1", Initiator: "iqn.1993-08.org.debian:01:abc"}

	client.EXPECT().GetHostByName(ctx, "compute-1").Return(nil, errors.NotFoundError("host compute-1 not found"))

	volConfig := &storage.VolumeConfig{InternalName: "vol1", ProviderID: "sv_27"}
	info, err := adapter.TerminateConnection(ctx, volConfig, connector)

	assert.NoError(t, err)
	assert.Equal(t, "iscsi", info.DriverVolumeType)
}

func TestTerminateConnectionVolumeGone(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})
	ctx := context.Background()

	host := &api.Host{ID: "Host_1", Name: "compute-1"}
	connector := &storage.Connector{Host: "compute-1", Initiator: "iqn.1993-08.org.debian:01:abc"}

	client.EXPECT().GetHostByName(ctx, "compute-1").Return(host, nil)
	client.EXPECT().GetLunByName(ctx, "vol1").Return(nil, errors.NotFoundError("lun vol1 not found"))
	client.EXPECT().GetHostLuns(ctx, "Host_1").Return([]api.HostLun{{ID: "Host_1_sv_2", HLU: 4}}, nil)

	volConfig := &storage.VolumeConfig{InternalName: "vol1"}
	info, err := adapter.TerminateConnection(ctx, volConfig, connector)

	assert.NoError(t, err)
	assert.NotNil(t, info)
}

func TestFindOrCreateHostCachesRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})
	ctx := context.Background()

	connector := &storage.Connector{Host: "compute-1", Initiator: "iqn.1993-08.org.debian:01:abc"}

	client.EXPECT().GetHostByName(ctx, "compute-1").Return(&api.Host{ID: "Host_1", Name: "compute-1"}, nil).Times(1)
	client.EXPECT().CreateInitiator(ctx, "Host_1", api.InitiatorTypeISCSI, gomock.Any()).
		Return(&api.Initiator{}, nil).Times(1)

	first, err := adapter.findOrCreateHost(ctx, connector)
	assert.NoError(t, err)

	second, err := adapter.findOrCreateHost(ctx, connector)
	assert.NoError(t, err)
	assert.Same(t, first, second)
}

func TestFindOrCreateHostCreatesWhenMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})
	ctx := context.Background()

	connector := &storage.Connector{Host: "compute-2", Initiator: "iqn.1993-08.org.debian:01:def"}

	client.EXPECT().GetHostByName(ctx, "compute-2").Return(nil, errors.NotFoundError("host compute-2 not found"))
	client.EXPECT().CreateHost(ctx, "compute-2").Return(&api.Host{ID: "Host_2", Name: "compute-2"}, nil)
	client.EXPECT().CreateInitiator(ctx, "Host_2", api.InitiatorTypeISCSI, "iqn.1993-08.org.debian:01:def").
		Return(&api.Initiator{}, nil)

	host, err := adapter.findOrCreateHost(ctx, connector)
	assert.NoError(t, err)
	assert.Equal(t, "Host_2", host.ID)
}

// An existing host's initiator records are reconciled against the connector:
// already-registered initiators are not re-created, and same-protocol records
// the connector no longer carries are removed.
func TestFindOrCreateHostReconcilesInitiators(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})
	ctx := context.Background()

	connector := &storage.Connector{Host: "compute-3", Initiator: "iqn.1993-08.org.debian:01:new"}

	client.EXPECT().GetHostByName(ctx, "compute-3").Return(&api.Host{
		ID:   "Host_3",
		Name: "compute-3",
		Initiators: []api.Initiator{
			{ID: "HostInitiator_8", HostID: "Host_3", Type: api.InitiatorTypeISCSI,
				InitiatorID: "iqn.1993-08.org.debian:01:old"},
			{ID: "HostInitiator_9", HostID: "Host_3", Type: api.InitiatorTypeFC,
				InitiatorID: "20:00:00:25:B5:AA:00:01:20:00:00:25:B5:AA:01:01"},
		},
	}, nil)
	client.EXPECT().CreateInitiator(ctx, "Host_3", api.InitiatorTypeISCSI, "iqn.1993-08.org.debian:01:new").
		Return(&api.Initiator{}, nil)
	// Only the stale iSCSI record goes; the FC record belongs to another
	// protocol and is left alone.
	client.EXPECT().DeleteInitiator(ctx, "HostInitiator_8").Return(nil)

	host, err := adapter.findOrCreateHost(ctx, connector)
	assert.NoError(t, err)
	assert.Equal(t, "Host_3", host.ID)
}

func TestFindOrCreateHostSkipsRegisteredInitiator(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})
	ctx := context.Background()

	connector := &storage.Connector{Host: "compute-4", Initiator: "iqn.1993-08.org.debian:01:abc"}

	client.EXPECT().GetHostByName(ctx, "compute-4").Return(&api.Host{
		ID:   "Host_4",
		Name: "compute-4",
		Initiators: []api.Initiator{
			{ID: "HostInitiator_1", HostID: "Host_4", Type: api.InitiatorTypeISCSI,
				InitiatorID: "iqn.1993-08.org.debian:01:abc"},
		},
	}, nil)

	_, err := adapter.findOrCreateHost(ctx, connector)
	assert.NoError(t, err)
}

func TestFindOrCreateHostEmptyConnector(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})

	_, err := adapter.findOrCreateHost(context.Background(), &storage.Connector{})
	assert.True(t, errors.IsInvalidInputError(err))
}

func TestManageExistingByName(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})
	ctx := context.Background()

	client.EXPECT().GetLun(ctx, "legacy-vol").Return(nil, errors.NotFoundError("no lun legacy-vol"))
	client.EXPECT().GetLunByName(ctx, "legacy-vol").Return(&api.Lun{ID: "sv_42", Name: "legacy-vol", SizeBytes: 5 << 30}, nil)

	volConfig := &storage.VolumeConfig{Name: "imported"}
	err := adapter.ManageExisting(ctx, volConfig, "legacy-vol")

	assert.NoError(t, err)
	assert.Equal(t, "legacy-vol", volConfig.InternalName)
	assert.Equal(t, "sv_42", volConfig.ProviderID)
	assert.Equal(t, "5368709120", volConfig.Size)
}

func TestManageExistingUnknownRef(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})
	ctx := context.Background()

	client.EXPECT().GetLun(ctx, "nope").Return(nil, errors.NotFoundError("no lun nope"))
	client.EXPECT().GetLunByName(ctx, "nope").Return(nil, errors.NotFoundError("no lun nope"))

	err := adapter.ManageExisting(ctx, &storage.VolumeConfig{}, "nope")
	assert.True(t, errors.IsInvalidInputError(err))
}

func TestManageExistingGetSize(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})
	ctx := context.Background()

	client.EXPECT().GetLun(ctx, "sv_42").Return(&api.Lun{ID: "sv_42", SizeBytes: 2 << 30}, nil)

	size, err := adapter.ManageExistingGetSize(ctx, "sv_42")
	assert.NoError(t, err)
	assert.Equal(t, uint64(2<<30), size)
}

func TestGetVolumeStatsFiltersConfiguredPools(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, cfg := newTestISCSIAdapter(client, &fakeCopier{})
	cfg.StoragePoolNames = []string{"pool_a", "pool_b"}
	cfg.ReplicationDevices = []drivers.ReplicationDeviceConfig{{BackendID: "site-b"}}
	ctx := context.Background()

	client.EXPECT().GetPools(ctx).Return([]api.Pool{
		{ID: "pool_1", Name: "pool_a", SizeTotal: 100 << 30, SizeFree: 40 << 30, SizeSubscribed: 90 << 30},
		{ID: "pool_2", Name: "pool_b", SizeTotal: 200 << 30, SizeFree: 150 << 30},
		{ID: "pool_3", Name: "pool_other", SizeTotal: 300 << 30},
	}, nil)
	client.EXPECT().GetReplicationSessions(ctx).Return(nil, nil)

	stats, err := adapter.GetVolumeStats(ctx)

	assert.NoError(t, err)
	assert.Equal(t, "unity-test", stats.BackendName)
	assert.Equal(t, "iscsi", stats.StorageProtocol)
	assert.Equal(t, "FNM00150600267", stats.SerialNumber)
	assert.Equal(t, []string{"site-b"}, stats.ReplicationIDs)
	assert.Len(t, stats.Pools, 2)
	assert.Equal(t, 100.0, stats.Pools[0].TotalCapacityGB)
	assert.Equal(t, 40.0, stats.Pools[0].FreeCapacityGB)
	assert.Equal(t, drivers.DefaultMaxOverSubscriptionRatio, stats.Pools[0].MaxOverSubscriptionRatio)
	assert.True(t, stats.Pools[0].ReplicationEnabled)
}

func TestFailoverSessionsAggregatesErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})
	ctx := context.Background()

	client.EXPECT().GetReplicationSessions(ctx).Return([]api.ReplicationSession{
		{ID: "rs_1", Name: "session-1"},
		{ID: "rs_2", Name: "session-2"},
	}, nil)
	client.EXPECT().FailoverReplicationSession(ctx, "rs_1", false).Return(errors.New("session busy"))
	client.EXPECT().FailoverReplicationSession(ctx, "rs_2", false).Return(nil)

	err := adapter.FailoverSessions(ctx, false)
	assert.Error(t, err)
}

func TestExtendVolume(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})
	ctx := context.Background()

	client.EXPECT().GetLun(ctx, "sv_27").Return(&api.Lun{ID: "sv_27", SizeBytes: 1 << 30}, nil)
	client.EXPECT().ExtendLun(ctx, "sv_27", uint64(10<<30)).Return(nil)

	volConfig := &storage.VolumeConfig{InternalName: "vol1", ProviderID: "sv_27", Size: "1073741824"}
	err := adapter.ExtendVolume(ctx, volConfig, 10<<30)

	assert.NoError(t, err)
	assert.Equal(t, "10737418240", volConfig.Size)
}

// A LUN already within the resize tolerance of the requested size is left
// alone; no modify call reaches the array.
func TestExtendVolumeAlreadyAtSize(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})
	ctx := context.Background()

	client.EXPECT().GetLun(ctx, "sv_27").Return(&api.Lun{ID: "sv_27", SizeBytes: 10 << 30}, nil)

	volConfig := &storage.VolumeConfig{InternalName: "vol1", ProviderID: "sv_27", Size: "1073741824"}
	err := adapter.ExtendVolume(ctx, volConfig, 10<<30)

	assert.NoError(t, err)
	assert.Equal(t, "10737418240", volConfig.Size)
}

func TestRevertToSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})
	ctx := context.Background()

	client.EXPECT().RestoreSnap(ctx, "snap_9").Return(nil)

	volConfig := &storage.VolumeConfig{InternalName: "vol1"}
	snapConfig := &storage.SnapshotConfig{InternalName: "snap1", ProviderID: "snap_9"}
	assert.NoError(t, adapter.RevertToSnapshot(ctx, volConfig, snapConfig))
}
