// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package fungible

import (
	"context"
	"testing"

	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"

	"github.com/blockgate/blockgate/config"
	"github.com/blockgate/blockgate/storage"
	drivers "github.com/blockgate/blockgate/storage_drivers"
	"github.com/blockgate/blockgate/storage_drivers/fungible/api"
	"github.com/blockgate/blockgate/utils/errors"
)

// fakeStorageService is a hand-rolled StorageAPI double; each field overrides
// one call, everything else fails the test if reached.
type fakeStorageService struct {
	t *testing.T

	createVolume    func(ctx context.Context, spec *api.VolumeSpec) (string, error)
	getVolume       func(ctx context.Context, volumeUUID string) (*api.Volume, error)
	getVolumeByName func(ctx context.Context, name string) (*api.Volume, error)
	deleteVolume    func(ctx context.Context, volumeUUID string) error
	resizeVolume    func(ctx context.Context, volumeUUID string, newSize int64) error
	renameVolume    func(ctx context.Context, volumeUUID, newName string) error
	createSnapshot  func(ctx context.Context, volumeUUID, name string) (string, error)
	getSnapshots    func(ctx context.Context, volumeUUID string) ([]api.Snapshot, error)
	deleteSnapshot  func(ctx context.Context, snapshotUUID string) error
	attachVolume    func(ctx context.Context, volumeUUID string, spec *api.PortSpec) (*api.Port, error)
	detachVolume    func(ctx context.Context, portUUID string) error
	clusterCapacity func(ctx context.Context) (*api.ClusterCapacity, error)
}

func (f *fakeStorageService) CreateVolume(ctx context.Context, spec *api.VolumeSpec) (string, error) {
	if f.createVolume == nil {
		f.t.Fatal("unexpected CreateVolume call")
	}
	return f.createVolume(ctx, spec)
}

func (f *fakeStorageService) GetVolume(ctx context.Context, volumeUUID string) (*api.Volume, error) {
	if f.getVolume == nil {
		f.t.Fatal("unexpected GetVolume call")
	}
	return f.getVolume(ctx, volumeUUID)
}

func (f *fakeStorageService) GetVolumeByName(ctx context.Context, name string) (*api.Volume, error) {
	if f.getVolumeByName == nil {
		f.t.Fatal("unexpected GetVolumeByName call")
	}
	return f.getVolumeByName(ctx, name)
}

func (f *fakeStorageService) DeleteVolume(ctx context.Context, volumeUUID string) error {
	if f.deleteVolume == nil {
		f.t.Fatal("unexpected DeleteVolume call")
	}
	return f.deleteVolume(ctx, volumeUUID)
}

func (f *fakeStorageService) ResizeVolume(ctx context.Context, volumeUUID string, newSize int64) error {
	if f.resizeVolume == nil {
		f.t.Fatal("unexpected ResizeVolume call")
	}
	return f.resizeVolume(ctx, volumeUUID, newSize)
}

func (f *fakeStorageService) RenameVolume(ctx context.Context, volumeUUID, newName string) error {
	if f.renameVolume == nil {
		f.t.Fatal("unexpected RenameVolume call")
	}
	return f.renameVolume(ctx, volumeUUID, newName)
}

func (f *fakeStorageService) CreateSnapshot(ctx context.Context, volumeUUID, name string) (string, error) {
	if f.createSnapshot == nil {
		f.t.Fatal("unexpected CreateSnapshot call")
	}
	return f.createSnapshot(ctx, volumeUUID, name)
}

func (f *fakeStorageService) GetSnapshots(ctx context.Context, volumeUUID string) ([]api.Snapshot, error) {
	if f.getSnapshots == nil {
		f.t.Fatal("unexpected GetSnapshots call")
	}
	return f.getSnapshots(ctx, volumeUUID)
}

func (f *fakeStorageService) DeleteSnapshot(ctx context.Context, snapshotUUID string) error {
	if f.deleteSnapshot == nil {
		f.t.Fatal("unexpected DeleteSnapshot call")
	}
	return f.deleteSnapshot(ctx, snapshotUUID)
}

func (f *fakeStorageService) AttachVolume(ctx context.Context, volumeUUID string,
	spec *api.PortSpec,
) (*api.Port, error) {
	if f.attachVolume == nil {
		f.t.Fatal("unexpected AttachVolume call")
	}
	return f.attachVolume(ctx, volumeUUID, spec)
}

func (f *fakeStorageService) DetachVolume(ctx context.Context, portUUID string) error {
	if f.detachVolume == nil {
		f.t.Fatal("unexpected DetachVolume call")
	}
	return f.detachVolume(ctx, portUUID)
}

func (f *fakeStorageService) GetClusterCapacity(ctx context.Context) (*api.ClusterCapacity, error) {
	if f.clusterCapacity == nil {
		f.t.Fatal("unexpected GetClusterCapacity call")
	}
	return f.clusterCapacity(ctx)
}

type fakeTopologyService struct {
	host *api.Host
	err  error
}

func (f *fakeTopologyService) GetHostByNQN(_ context.Context, _ string) (*api.Host, error) {
	return f.host, f.err
}

const testFungibleConfigJSON = `
{
    "version": 1,
    "storageDriverName": "fungible-san",
    "backendName": "fungible-test",
    "apiEndpoint": "composer.example.com",
    "username": "admin",
    "password": "password",
    "durableFormat": "ec"
}`

func newTestFungibleSANDriver(t *testing.T, fake *fakeStorageService, topology *fakeTopologyService,
) *SANStorageDriver {
	driver := &SANStorageDriver{Storage: fake, Topology: topology}
	commonConfig := &drivers.CommonStorageDriverConfig{
		Version:           drivers.ConfigVersion,
		StorageDriverName: config.FungibleStorageDriverName,
		BackendName:       "fungible-test",
		DebugTraceFlags:   map[string]bool{"method": true},
	}
	err := driver.Initialize(context.Background(), config.ContextStandalone, testFungibleConfigJSON, commonConfig)
	assert.NoError(t, err)
	return driver
}

func TestFungibleDriverInitialize(t *testing.T) {
	driver := newTestFungibleSANDriver(t, &fakeStorageService{t: t}, &fakeTopologyService{})

	assert.True(t, driver.Initialized())
	assert.Equal(t, config.FungibleStorageDriverName, driver.Name())
	assert.Equal(t, config.ProtocolNVMe, driver.Protocol())
	assert.Equal(t, "fungible-test", driver.BackendName())
	assert.Equal(t, api.VolumeTypeEC, driver.volType)

	driver.Terminate(context.Background())
	assert.False(t, driver.Initialized())
}

func TestFungibleDriverInitializeValidation(t *testing.T) {
	tests := []struct {
		name       string
		configJSON string
	}{
		{"missing endpoint", `{"version": 1, "username": "admin", "password": "password"}`},
		{"missing credentials", `{"version": 1, "apiEndpoint": "composer.example.com"}`},
		{
			"bad durable format",
			`{"version": 1, "apiEndpoint": "composer.example.com", "username": "admin",
              "password": "password", "durableFormat": "raid5"}`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			driver := &SANStorageDriver{}
			commonConfig := &drivers.CommonStorageDriverConfig{
				Version:           drivers.ConfigVersion,
				StorageDriverName: config.FungibleStorageDriverName,
			}
			err := driver.Initialize(context.Background(), config.ContextStandalone, test.configJSON, commonConfig)
			assert.Error(t, err)
			assert.True(t, errors.IsInvalidConfigError(err))
			assert.False(t, driver.Initialized())
		})
	}
}

func TestFungibleCreateVolume(t *testing.T) {
	var spec *api.VolumeSpec
	fake := &fakeStorageService{
		t: t,
		createVolume: func(_ context.Context, s *api.VolumeSpec) (string, error) {
			spec = s
			return "uuid-1", nil
		},
	}
	driver := newTestFungibleSANDriver(t, fake, &fakeTopologyService{})

	volConfig := &storage.VolumeConfig{InternalName: "vol1", Size: "2G"}
	err := driver.CreateVolume(context.Background(), volConfig)

	assert.NoError(t, err)
	assert.Equal(t, "uuid-1", volConfig.ProviderID)
	assert.Equal(t, "vol1", swag.StringValue(spec.Name))
	assert.Equal(t, int64(2<<30), swag.Int64Value(spec.Size))
	assert.Equal(t, api.VolumeTypeEC, swag.StringValue(spec.VolType))
	assert.False(t, spec.IsClone)
}

func TestFungibleCreateVolumeInvalidSize(t *testing.T) {
	driver := newTestFungibleSANDriver(t, &fakeStorageService{t: t}, &fakeTopologyService{})

	err := driver.CreateVolume(context.Background(), &storage.VolumeConfig{InternalName: "vol1", Size: "huge"})
	assert.True(t, errors.IsInvalidInputError(err))
}

// An oversized request is refused before the composer sees a create call.
func TestFungibleCreateVolumeEnforcesSizeLimit(t *testing.T) {
	driver := newTestFungibleSANDriver(t, &fakeStorageService{t: t}, &fakeTopologyService{})
	driver.Config.LimitVolumeSize = "10G"

	err := driver.CreateVolume(context.Background(), &storage.VolumeConfig{InternalName: "vol1", Size: "11G"})
	assert.True(t, errors.IsUnsupportedError(err))
}

func TestFungibleCreateClonedVolume(t *testing.T) {
	var spec *api.VolumeSpec
	fake := &fakeStorageService{
		t: t,
		createVolume: func(_ context.Context, s *api.VolumeSpec) (string, error) {
			spec = s
			return "uuid-2", nil
		},
	}
	driver := newTestFungibleSANDriver(t, fake, &fakeTopologyService{})

	volConfig := &storage.VolumeConfig{InternalName: "clone1", Size: "2G"}
	sourceVolConfig := &storage.VolumeConfig{InternalName: "vol1", ProviderID: "uuid-1"}
	err := driver.CreateClonedVolume(context.Background(), volConfig, sourceVolConfig)

	assert.NoError(t, err)
	assert.Equal(t, "uuid-2", volConfig.ProviderID)
	assert.True(t, spec.IsClone)
	assert.Equal(t, "uuid-1", spec.CloneSourceVolumeUUID)
	assert.Empty(t, spec.SnapSourceVolumeUUID)
}

func TestFungibleCreateVolumeFromSnapshot(t *testing.T) {
	var spec *api.VolumeSpec
	fake := &fakeStorageService{
		t: t,
		createVolume: func(_ context.Context, s *api.VolumeSpec) (string, error) {
			spec = s
			return "uuid-3", nil
		},
	}
	driver := newTestFungibleSANDriver(t, fake, &fakeTopologyService{})

	volConfig := &storage.VolumeConfig{InternalName: "vol2", Size: "2G"}
	snapConfig := &storage.SnapshotConfig{InternalName: "snap1", ProviderID: "snap-uuid-1"}
	err := driver.CreateVolumeFromSnapshot(context.Background(), volConfig, snapConfig)

	assert.NoError(t, err)
	assert.True(t, spec.IsClone)
	assert.Equal(t, "snap-uuid-1", spec.SnapSourceVolumeUUID)

	// A snapshot that was never created on the backend cannot seed a volume.
	err = driver.CreateVolumeFromSnapshot(context.Background(), volConfig, &storage.SnapshotConfig{InternalName: "snap2"})
	assert.True(t, errors.IsInvalidInputError(err))
}

func TestFungibleDeleteVolumeIdempotent(t *testing.T) {
	fake := &fakeStorageService{
		t: t,
		getVolumeByName: func(_ context.Context, name string) (*api.Volume, error) {
			return nil, errors.NotFoundError("volume %s not found", name)
		},
	}
	driver := newTestFungibleSANDriver(t, fake, &fakeTopologyService{})

	err := driver.DeleteVolume(context.Background(), &storage.VolumeConfig{InternalName: "vol1"})
	assert.NoError(t, err)
}

func TestFungibleDeleteVolumeInUse(t *testing.T) {
	fake := &fakeStorageService{
		t: t,
		deleteVolume: func(_ context.Context, _ string) error {
			return errors.InUseError("volume has attached ports")
		},
	}
	driver := newTestFungibleSANDriver(t, fake, &fakeTopologyService{})

	err := driver.DeleteVolume(context.Background(), &storage.VolumeConfig{InternalName: "vol1", ProviderID: "uuid-1"})
	assert.True(t, errors.IsInUseError(err))
}

func TestFungibleExtendVolume(t *testing.T) {
	var resizedTo int64
	fake := &fakeStorageService{
		t: t,
		resizeVolume: func(_ context.Context, volumeUUID string, newSize int64) error {
			assert.Equal(t, "uuid-1", volumeUUID)
			resizedTo = newSize
			return nil
		},
	}
	driver := newTestFungibleSANDriver(t, fake, &fakeTopologyService{})

	volConfig := &storage.VolumeConfig{InternalName: "vol1", ProviderID: "uuid-1"}
	err := driver.ExtendVolume(context.Background(), volConfig, 10<<30)

	assert.NoError(t, err)
	assert.Equal(t, int64(10<<30), resizedTo)
}

func TestFungibleSnapshotLifecycle(t *testing.T) {
	fake := &fakeStorageService{
		t: t,
		getVolumeByName: func(_ context.Context, name string) (*api.Volume, error) {
			return &api.Volume{UUID: "uuid-1", Name: name}, nil
		},
		createSnapshot: func(_ context.Context, volumeUUID, name string) (string, error) {
			assert.Equal(t, "uuid-1", volumeUUID)
			assert.Equal(t, "snap1", name)
			return "snap-uuid-1", nil
		},
		deleteSnapshot: func(_ context.Context, snapshotUUID string) error {
			assert.Equal(t, "snap-uuid-1", snapshotUUID)
			return nil
		},
	}
	driver := newTestFungibleSANDriver(t, fake, &fakeTopologyService{})
	ctx := context.Background()

	snapConfig := &storage.SnapshotConfig{InternalName: "snap1", VolumeInternalName: "vol1"}
	assert.NoError(t, driver.CreateSnapshot(ctx, snapConfig))
	assert.Equal(t, "snap-uuid-1", snapConfig.ProviderID)

	assert.NoError(t, driver.DeleteSnapshot(ctx, snapConfig))

	// A snapshot with no backend id was never created; deleting it is a no-op.
	assert.NoError(t, driver.DeleteSnapshot(ctx, &storage.SnapshotConfig{InternalName: "snap2"}))
}

func TestFungibleRevertToSnapshotUnsupported(t *testing.T) {
	driver := newTestFungibleSANDriver(t, &fakeStorageService{t: t}, &fakeTopologyService{})

	err := driver.RevertToSnapshot(context.Background(),
		&storage.VolumeConfig{InternalName: "vol1"},
		&storage.SnapshotConfig{InternalName: "snap1"})
	assert.True(t, errors.IsUnsupportedError(err))
}

func TestFungibleInitializeConnection(t *testing.T) {
	var spec *api.PortSpec
	fake := &fakeStorageService{
		t: t,
		attachVolume: func(_ context.Context, volumeUUID string, s *api.PortSpec) (*api.Port, error) {
			assert.Equal(t, "uuid-1", volumeUUID)
			spec = s
			return &api.Port{
				UUID:      "port-1",
				SubsysNQN: "nqn.2015-09.com.fungible:target",
				NSID:      1,
				IPs:       []string{"10.0.0.20", "10.0.0.21"},
				Transport: api.TransportTCP,
			}, nil
		},
	}
	topology := &fakeTopologyService{host: &api.Host{UUID: "host-1", HostNQN: "nqn.2014-08.org.nvmexpress:host1"}}
	driver := newTestFungibleSANDriver(t, fake, topology)

	volConfig := &storage.VolumeConfig{InternalName: "vol1", ProviderID: "uuid-1"}
	connector := &storage.Connector{Host: "compute-1", NQN: "nqn.2014-08.org.nvmexpress:host1"}

	info, err := driver.InitializeConnection(context.Background(), volConfig, connector)

	assert.NoError(t, err)
	assert.Equal(t, "nvmeof", info.DriverVolumeType)
	assert.Equal(t, "nqn.2015-09.com.fungible:target", info.NVMe.TargetNQN)
	assert.Equal(t, []string{"10.0.0.20", "10.0.0.21"}, info.NVMe.TargetPortals)
	assert.Equal(t, int64(1), info.NVMe.NamespaceID)

	assert.Equal(t, api.TransportTCP, swag.StringValue(spec.Transport))
	assert.Equal(t, connector.NQN, swag.StringValue(spec.HostNQN))
	assert.Equal(t, "host-1", spec.HostUUID)
}

func TestFungibleInitializeConnectionRequiresNQN(t *testing.T) {
	driver := newTestFungibleSANDriver(t, &fakeStorageService{t: t}, &fakeTopologyService{})

	_, err := driver.InitializeConnection(context.Background(),
		&storage.VolumeConfig{InternalName: "vol1", ProviderID: "uuid-1"},
		&storage.Connector{Host: "compute-1"})
	assert.True(t, errors.IsInvalidInputError(err))
}

func TestFungibleInitializeConnectionUnknownHost(t *testing.T) {
	topology := &fakeTopologyService{err: errors.NotFoundError("host not registered in topology")}
	driver := newTestFungibleSANDriver(t, &fakeStorageService{t: t}, topology)

	_, err := driver.InitializeConnection(context.Background(),
		&storage.VolumeConfig{InternalName: "vol1", ProviderID: "uuid-1"},
		&storage.Connector{Host: "compute-1", NQN: "nqn.2014-08.org.nvmexpress:host1"})
	assert.True(t, errors.IsNotFoundError(err))
}

func TestFungibleTerminateConnection(t *testing.T) {
	var detached []string
	fake := &fakeStorageService{
		t: t,
		getVolume: func(_ context.Context, volumeUUID string) (*api.Volume, error) {
			return &api.Volume{
				UUID: volumeUUID,
				Ports: map[string]api.Port{
					"port-1": {UUID: "port-1", HostNQN: "nqn.2014-08.org.nvmexpress:host1"},
					"port-2": {UUID: "port-2", HostNQN: "nqn.2014-08.org.nvmexpress:other"},
				},
			}, nil
		},
		detachVolume: func(_ context.Context, portUUID string) error {
			detached = append(detached, portUUID)
			return nil
		},
	}
	driver := newTestFungibleSANDriver(t, fake, &fakeTopologyService{})

	volConfig := &storage.VolumeConfig{InternalName: "vol1", ProviderID: "uuid-1"}
	connector := &storage.Connector{Host: "compute-1", NQN: "nqn.2014-08.org.nvmexpress:host1"}

	info, err := driver.TerminateConnection(context.Background(), volConfig, connector)

	assert.NoError(t, err)
	assert.Equal(t, "nvmeof", info.DriverVolumeType)
	assert.Equal(t, []string{"port-1"}, detached)
}

func TestFungibleTerminateConnectionVolumeGone(t *testing.T) {
	fake := &fakeStorageService{
		t: t,
		getVolume: func(_ context.Context, volumeUUID string) (*api.Volume, error) {
			return nil, errors.NotFoundError("volume %s not found", volumeUUID)
		},
	}
	driver := newTestFungibleSANDriver(t, fake, &fakeTopologyService{})

	info, err := driver.TerminateConnection(context.Background(),
		&storage.VolumeConfig{InternalName: "vol1", ProviderID: "uuid-1"},
		&storage.Connector{Host: "compute-1", NQN: "nqn.2014-08.org.nvmexpress:host1"})

	assert.NoError(t, err)
	assert.Equal(t, "nvmeof", info.DriverVolumeType)
}

func TestFungibleManageExisting(t *testing.T) {
	var renamedTo string
	fake := &fakeStorageService{
		t: t,
		getVolume: func(_ context.Context, volumeUUID string) (*api.Volume, error) {
			return nil, errors.NotFoundError("no volume %s", volumeUUID)
		},
		getVolumeByName: func(_ context.Context, name string) (*api.Volume, error) {
			return &api.Volume{UUID: "uuid-9", Name: name, Size: 5 << 30}, nil
		},
		renameVolume: func(_ context.Context, volumeUUID, newName string) error {
			assert.Equal(t, "uuid-9", volumeUUID)
			renamedTo = newName
			return nil
		},
	}
	driver := newTestFungibleSANDriver(t, fake, &fakeTopologyService{})

	volConfig := &storage.VolumeConfig{Name: "imported", InternalName: "vol-imported"}
	err := driver.ManageExisting(context.Background(), volConfig, "legacy-vol")

	assert.NoError(t, err)
	assert.Equal(t, "uuid-9", volConfig.ProviderID)
	assert.Equal(t, "5368709120", volConfig.Size)
	assert.Equal(t, "vol-imported", renamedTo)
}

func TestFungibleManageExistingUnknownRef(t *testing.T) {
	fake := &fakeStorageService{
		t: t,
		getVolume: func(_ context.Context, volumeUUID string) (*api.Volume, error) {
			return nil, errors.NotFoundError("no volume %s", volumeUUID)
		},
		getVolumeByName: func(_ context.Context, name string) (*api.Volume, error) {
			return nil, errors.NotFoundError("no volume %s", name)
		},
	}
	driver := newTestFungibleSANDriver(t, fake, &fakeTopologyService{})

	err := driver.ManageExisting(context.Background(), &storage.VolumeConfig{InternalName: "vol1"}, "nope")
	assert.True(t, errors.IsInvalidInputError(err))
}

func TestFungibleGetVolumeStats(t *testing.T) {
	fake := &fakeStorageService{
		t: t,
		clusterCapacity: func(_ context.Context) (*api.ClusterCapacity, error) {
			return &api.ClusterCapacity{TotalCapacity: 100 << 30, UsedCapacity: 25 << 30}, nil
		},
	}
	driver := newTestFungibleSANDriver(t, fake, &fakeTopologyService{})

	stats, err := driver.GetVolumeStats(context.Background(), true)

	assert.NoError(t, err)
	assert.Equal(t, "fungible-test", stats.BackendName)
	assert.Equal(t, "nvmeof", stats.StorageProtocol)
	assert.Len(t, stats.Pools, 1)
	assert.Equal(t, 100.0, stats.Pools[0].TotalCapacityGB)
	assert.Equal(t, 75.0, stats.Pools[0].FreeCapacityGB)
}

func TestFungibleFailoverUnsupported(t *testing.T) {
	driver := newTestFungibleSANDriver(t, &fakeStorageService{t: t}, &fakeTopologyService{})

	err := driver.Failover(context.Background(), "site-b")
	assert.True(t, errors.IsUnsupportedError(err))
}
