// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package unity

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/blockgate/blockgate/config"
	. "github.com/blockgate/blockgate/logging"
	"github.com/blockgate/blockgate/pkg/capacity"
	"github.com/blockgate/blockgate/pkg/locks"
	"github.com/blockgate/blockgate/storage"
	drivers "github.com/blockgate/blockgate/storage_drivers"
	"github.com/blockgate/blockgate/storage_drivers/unity/api"
	"github.com/blockgate/blockgate/utils/errors"
)

// protocolHandler supplies the protocol-specific pieces of connection
// orchestration. ISCSIAdapter and FCAdapter implement it; CommonAdapter
// carries everything protocol-neutral.
type protocolHandler interface {
	Protocol() config.Protocol
	InitiatorType() string

	// InitiatorIDs extracts the connector's unique initiator identifiers:
	// the IQN for iSCSI, "wwnn:wwpn" pairs for FC.
	InitiatorIDs(connector *storage.Connector) ([]string, error)

	// ConnectionInfo performs target discovery for a fresh attachment.
	ConnectionInfo(ctx context.Context, connector *storage.Connector, hlu int) (*storage.ConnectionInfo, error)

	// TerminateInfo builds the detach-side response. hostIsClean reports
	// that the host has no remaining attachments, which is the only case
	// where FC auto-zoning returns target WWNs for zone teardown.
	TerminateInfo(ctx context.Context, connector *storage.Connector, hostIsClean bool) (*storage.ConnectionInfo, error)
}

// CommonAdapter composes array client calls into the driver contract. One
// adapter exists per array; under replication the manager holds one per
// configured device and routes to the active one.
type CommonAdapter struct {
	client       api.UnityAPI
	config       *drivers.UnityStorageDriverConfig
	handler      protocolHandler
	copier       BlockCopier
	backendName  string
	serialNumber string

	// Host records are created under a named lock so concurrent attach
	// requests for one host cannot race to create duplicates; the cache
	// avoids redundant lookups within this process.
	hostLocks *locks.NamedMutex
	hostCache map[string]*api.Host
	cacheMu   sync.RWMutex

	// localConnector identifies the service host used as the attachment
	// point for clone block copies.
	localConnector *storage.Connector
}

// NewCommonAdapter wires an adapter to a client. The handler is attached by
// the protocol adapter constructors.
func NewCommonAdapter(client api.UnityAPI, cfg *drivers.UnityStorageDriverConfig, backendName string,
	copier BlockCopier, localConnector *storage.Connector,
) *CommonAdapter {
	return &CommonAdapter{
		client:         client,
		config:         cfg,
		copier:         copier,
		backendName:    backendName,
		hostLocks:      locks.NewNamedMutex(),
		hostCache:      make(map[string]*api.Host),
		localConnector: localConnector,
	}
}

// Setup loads array identity. It is invoked lazily by the replication
// manager so that a failed-over service never needs connectivity to the
// down primary at startup.
func (a *CommonAdapter) Setup(ctx context.Context) error {
	system, err := a.client.GetSystem(ctx)
	if err != nil {
		return fmt.Errorf("could not query array identity: %v", err)
	}
	a.serialNumber = system.SerialNumber

	Logc(ctx).WithFields(LogFields{
		"backend": a.backendName,
		"serial":  a.serialNumber,
		"model":   system.Model,
	}).Info("Connected to storage array.")

	return nil
}

func (a *CommonAdapter) SerialNumber() string {
	return a.serialNumber
}

// ///////////////////////////////////////////////////////////////////////////
// Volume lifecycle
// ///////////////////////////////////////////////////////////////////////////

func (a *CommonAdapter) CreateVolume(ctx context.Context, volConfig *storage.VolumeConfig) error {
	sizeBytes, err := capacity.ToBytes(volConfig.Size)
	if err != nil {
		return errors.InvalidInputError("invalid volume size %q: %v", volConfig.Size, err)
	}

	pool, err := a.selectPool(ctx, volConfig.Pool, sizeBytes)
	if err != nil {
		return err
	}

	lun, err := a.client.CreateLun(ctx, volConfig.InternalName, pool.ID, sizeBytes)
	if err != nil {
		return fmt.Errorf("could not create LUN %s: %v", volConfig.InternalName, err)
	}

	if volConfig.GroupName != "" {
		if _, err = a.client.CreateConsistencyGroup(ctx, volConfig.GroupName); err != nil {
			// Compensate so a half-created grouped volume does not linger.
			if deleteErr := a.client.DeleteLun(ctx, lun.ID); deleteErr != nil {
				Logc(ctx).WithError(deleteErr).Warn("Could not clean up LUN after group failure.")
			}
			return fmt.Errorf("could not ensure consistency group %s: %v", volConfig.GroupName, err)
		}
	}

	volConfig.ProviderID = lun.ID
	volConfig.ProviderLocation = BuildProviderLocation(
		lun.ID, a.serialNumber, config.ResourceTypeLun, DriverVersion)

	Logc(ctx).WithFields(LogFields{
		"volume": volConfig.InternalName,
		"lun":    lun.ID,
		"pool":   pool.Name,
		"size":   capacity.ToHumanReadable(sizeBytes),
	}).Debug("Created LUN.")

	return nil
}

func (a *CommonAdapter) DeleteVolume(ctx context.Context, volConfig *storage.VolumeConfig) error {
	lunID, err := a.lunIDForVolume(ctx, volConfig)
	if err != nil {
		if errors.IsNotFoundError(err) {
			Logc(ctx).WithField("volume", volConfig.InternalName).Debug("Volume already gone, skipping delete.")
			return nil
		}
		return err
	}

	if err = a.client.DeleteLun(ctx, lunID); err != nil {
		return err
	}

	if volConfig.GroupName != "" {
		// Best-effort group cleanup; the array refuses while members remain.
		group, groupErr := a.client.GetConsistencyGroup(ctx, volConfig.GroupName)
		if groupErr == nil {
			if err = a.client.DeleteConsistencyGroup(ctx, group.ID); err != nil && !errors.IsInUseError(err) {
				Logc(ctx).WithError(err).WithField("group", volConfig.GroupName).
					Warn("Could not delete consistency group.")
			}
		}
	}

	return nil
}

// resizeToleranceBytes absorbs the rounding arrays apply to LUN sizes; a
// resize landing within it of the current size is treated as already done.
const resizeToleranceBytes = 50 << 20

func (a *CommonAdapter) ExtendVolume(ctx context.Context, volConfig *storage.VolumeConfig, newSizeBytes uint64) error {
	lunID, err := a.lunIDForVolume(ctx, volConfig)
	if err != nil {
		return err
	}

	lun, err := a.client.GetLun(ctx, lunID)
	if err != nil {
		return err
	}
	if capacity.VolumeSizeWithinTolerance(int64(newSizeBytes), int64(lun.SizeBytes), resizeToleranceBytes) {
		Logc(ctx).WithFields(LogFields{
			"volume": volConfig.InternalName,
			"size":   lun.SizeBytes,
		}).Debug("LUN is already at the requested size.")
		volConfig.Size = fmt.Sprintf("%d", lun.SizeBytes)
		return nil
	}

	if err = a.client.ExtendLun(ctx, lunID, newSizeBytes); err != nil {
		return fmt.Errorf("could not extend LUN %s: %v", lunID, err)
	}
	volConfig.Size = fmt.Sprintf("%d", newSizeBytes)
	return nil
}

// ///////////////////////////////////////////////////////////////////////////
// Snapshot lifecycle
// ///////////////////////////////////////////////////////////////////////////

func (a *CommonAdapter) CreateSnapshot(ctx context.Context, snapConfig *storage.SnapshotConfig) error {
	lun, err := a.client.GetLunByName(ctx, snapConfig.VolumeInternalName)
	if err != nil {
		return fmt.Errorf("could not find source volume %s: %v", snapConfig.VolumeInternalName, err)
	}

	snapshot, err := a.client.CreateSnap(ctx, lun.ID, snapConfig.InternalName)
	if err != nil {
		return fmt.Errorf("could not create snapshot %s: %v", snapConfig.InternalName, err)
	}

	snapConfig.ProviderID = snapshot.ID
	snapConfig.ProviderLocation = BuildProviderLocation(
		snapshot.ID, a.serialNumber, config.ResourceTypeSnapshot, DriverVersion)

	return nil
}

func (a *CommonAdapter) DeleteSnapshot(ctx context.Context, snapConfig *storage.SnapshotConfig) error {
	snapID, err := a.snapIDForSnapshot(ctx, snapConfig)
	if err != nil {
		if errors.IsNotFoundError(err) {
			Logc(ctx).WithField("snapshot", snapConfig.InternalName).Debug("Snapshot already gone, skipping delete.")
			return nil
		}
		return err
	}
	return a.client.DeleteSnap(ctx, snapID)
}

func (a *CommonAdapter) RevertToSnapshot(ctx context.Context, volConfig *storage.VolumeConfig,
	snapConfig *storage.SnapshotConfig,
) error {
	snapID, err := a.snapIDForSnapshot(ctx, snapConfig)
	if err != nil {
		return err
	}
	if err = a.client.RestoreSnap(ctx, snapID); err != nil {
		return fmt.Errorf("could not revert %s to snapshot %s: %v", volConfig.InternalName, snapConfig.InternalName, err)
	}
	return nil
}

// ///////////////////////////////////////////////////////////////////////////
// Clone paths
// ///////////////////////////////////////////////////////////////////////////

// CreateVolumeFromSnapshot builds a new LUN carrying the snapshot's
// contents. The destination LUN and the source snapshot are both attached to
// the service host, a block copy runs between the device paths, and both are
// detached with guaranteed release even when the copy fails. A copy failure
// also deletes the partially written destination before the original error
// is surfaced.
func (a *CommonAdapter) CreateVolumeFromSnapshot(ctx context.Context, volConfig *storage.VolumeConfig,
	snapConfig *storage.SnapshotConfig,
) error {
	snapID, err := a.snapIDForSnapshot(ctx, snapConfig)
	if err != nil {
		return err
	}

	if err = a.CreateVolume(ctx, volConfig); err != nil {
		return err
	}

	if err = a.copySnapshotToVolume(ctx, snapID, volConfig); err != nil {
		Logc(ctx).WithError(err).WithField("volume", volConfig.InternalName).
			Error("Copy failed, deleting partial destination volume.")
		if deleteErr := a.DeleteVolume(ctx, volConfig); deleteErr != nil {
			Logc(ctx).WithError(deleteErr).Warn("Could not delete partial destination volume.")
		}
		return err
	}

	return nil
}

// CreateClonedVolume clones one LUN onto a new one through a transient
// internal snapshot, which is deleted on every exit path.
func (a *CommonAdapter) CreateClonedVolume(ctx context.Context, volConfig, sourceVolConfig *storage.VolumeConfig) error {
	sourceLunID, err := a.lunIDForVolume(ctx, sourceVolConfig)
	if err != nil {
		return err
	}

	internalSnapName := fmt.Sprintf("tmp-snap-%s", uuid.New().String())
	snapshot, err := a.client.CreateSnap(ctx, sourceLunID, internalSnapName)
	if err != nil {
		return fmt.Errorf("could not create internal snapshot of %s: %v", sourceVolConfig.InternalName, err)
	}

	defer func() {
		if deleteErr := a.client.DeleteSnap(ctx, snapshot.ID); deleteErr != nil {
			Logc(ctx).WithError(deleteErr).WithField("snapshot", internalSnapName).
				Warn("Could not delete internal snapshot.")
		}
	}()

	if err = a.CreateVolume(ctx, volConfig); err != nil {
		return err
	}

	if err = a.copySnapshotToVolume(ctx, snapshot.ID, volConfig); err != nil {
		Logc(ctx).WithError(err).WithField("volume", volConfig.InternalName).
			Error("Copy failed, deleting partial clone volume.")
		if deleteErr := a.DeleteVolume(ctx, volConfig); deleteErr != nil {
			Logc(ctx).WithError(deleteErr).Warn("Could not delete partial clone volume.")
		}
		return err
	}

	return nil
}

// copySnapshotToVolume attaches both resources to the service host and block
// copies snapshot contents onto the destination LUN. Attaching a snapshot
// makes it writable, so the copy reads from a transient array-side copy of
// the source snapshot rather than the snapshot itself; the copy and both
// attachments are released on every exit path.
func (a *CommonAdapter) copySnapshotToVolume(ctx context.Context, snapID string,
	volConfig *storage.VolumeConfig,
) error {
	sizeBytes, err := capacity.ToBytes(volConfig.Size)
	if err != nil {
		return errors.InvalidInputError("invalid volume size %q: %v", volConfig.Size, err)
	}

	host, err := a.findOrCreateHost(ctx, a.localConnector)
	if err != nil {
		return fmt.Errorf("could not prepare service host for copy: %v", err)
	}

	destLun, err := a.client.GetLun(ctx, volConfig.ProviderID)
	if err != nil {
		return err
	}

	destHLU, err := a.client.AttachLun(ctx, host, destLun.ID)
	if err != nil {
		return fmt.Errorf("could not attach destination LUN: %v", err)
	}
	defer func() {
		if detachErr := a.client.DetachLun(ctx, host, destLun.ID); detachErr != nil {
			Logc(ctx).WithError(detachErr).Warn("Could not detach destination LUN.")
		}
	}()

	copySnap, err := a.client.CopySnap(ctx, snapID, fmt.Sprintf("tmp-copy-%s", uuid.New().String()))
	if err != nil {
		return fmt.Errorf("could not copy source snapshot: %v", err)
	}
	defer func() {
		if deleteErr := a.client.DeleteSnap(ctx, copySnap.ID); deleteErr != nil {
			Logc(ctx).WithError(deleteErr).Warn("Could not delete snapshot copy.")
		}
	}()

	srcHLU, err := a.client.AttachSnap(ctx, host, copySnap.ID)
	if err != nil {
		return fmt.Errorf("could not attach snapshot copy: %v", err)
	}
	defer func() {
		if detachErr := a.client.DetachSnap(ctx, host, copySnap.ID); detachErr != nil {
			Logc(ctx).WithError(detachErr).Warn("Could not detach snapshot copy.")
		}
	}()

	src := AttachedDevice{ResourceID: copySnap.ID, Type: api.HostLunTypeSnap, HLU: srcHLU, WWN: copySnap.WWN}
	dst := AttachedDevice{ResourceID: destLun.ID, Type: api.HostLunTypeLun, HLU: destHLU, WWN: destLun.WWN}

	return a.copier.CopyBlocks(ctx, src, dst, sizeBytes)
}

// ///////////////////////////////////////////////////////////////////////////
// Connection orchestration
// ///////////////////////////////////////////////////////////////////////////

// InitializeConnection attaches a LUN to the connector's host and returns
// protocol connection info. Target discovery failure detaches the LUN again
// so a half-initialized connection does not linger on the array.
func (a *CommonAdapter) InitializeConnection(ctx context.Context, volConfig *storage.VolumeConfig,
	connector *storage.Connector,
) (*storage.ConnectionInfo, error) {
	lunID, err := a.lunIDForVolume(ctx, volConfig)
	if err != nil {
		return nil, err
	}

	host, err := a.findOrCreateHost(ctx, connector)
	if err != nil {
		return nil, err
	}

	hlu, err := a.client.AttachLun(ctx, host, lunID)
	if err != nil {
		return nil, fmt.Errorf("could not attach LUN %s to host %s: %v", lunID, host.Name, err)
	}

	info, err := a.handler.ConnectionInfo(ctx, connector, hlu)
	if err != nil {
		if detachErr := a.client.DetachLun(ctx, host, lunID); detachErr != nil {
			Logc(ctx).WithError(detachErr).Warn("Could not detach LUN after discovery failure.")
		}
		return nil, err
	}
	return info, nil
}

func (a *CommonAdapter) TerminateConnection(ctx context.Context, volConfig *storage.VolumeConfig,
	connector *storage.Connector,
) (*storage.ConnectionInfo, error) {
	host, err := a.client.GetHostByName(ctx, connector.Host)
	if err != nil {
		if errors.IsNotFoundError(err) {
			Logc(ctx).WithField("host", connector.Host).Debug("Host not found during terminate, skipping detach.")
			return a.handler.TerminateInfo(ctx, connector, true)
		}
		return nil, err
	}

	lunID, err := a.lunIDForVolume(ctx, volConfig)
	if err != nil {
		if !errors.IsNotFoundError(err) {
			return nil, err
		}
	} else if err = a.client.DetachLun(ctx, host, lunID); err != nil {
		return nil, err
	}

	return a.terminateInfoForHost(ctx, connector, host)
}

func (a *CommonAdapter) InitializeConnectionSnapshot(ctx context.Context, snapConfig *storage.SnapshotConfig,
	connector *storage.Connector,
) (*storage.ConnectionInfo, error) {
	snapID, err := a.snapIDForSnapshot(ctx, snapConfig)
	if err != nil {
		return nil, err
	}

	host, err := a.findOrCreateHost(ctx, connector)
	if err != nil {
		return nil, err
	}

	hlu, err := a.client.AttachSnap(ctx, host, snapID)
	if err != nil {
		return nil, fmt.Errorf("could not attach snapshot %s to host %s: %v", snapID, host.Name, err)
	}

	info, err := a.handler.ConnectionInfo(ctx, connector, hlu)
	if err != nil {
		if detachErr := a.client.DetachSnap(ctx, host, snapID); detachErr != nil {
			Logc(ctx).WithError(detachErr).Warn("Could not detach snapshot after discovery failure.")
		}
		return nil, err
	}
	return info, nil
}

func (a *CommonAdapter) TerminateConnectionSnapshot(ctx context.Context, snapConfig *storage.SnapshotConfig,
	connector *storage.Connector,
) (*storage.ConnectionInfo, error) {
	host, err := a.client.GetHostByName(ctx, connector.Host)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return a.handler.TerminateInfo(ctx, connector, true)
		}
		return nil, err
	}

	snapID, err := a.snapIDForSnapshot(ctx, snapConfig)
	if err != nil {
		if !errors.IsNotFoundError(err) {
			return nil, err
		}
	} else if err = a.client.DetachSnap(ctx, host, snapID); err != nil {
		return nil, err
	}

	return a.terminateInfoForHost(ctx, connector, host)
}

func (a *CommonAdapter) terminateInfoForHost(ctx context.Context, connector *storage.Connector,
	host *api.Host,
) (*storage.ConnectionInfo, error) {
	remaining, err := a.client.GetHostLuns(ctx, host.ID)
	if err != nil {
		return nil, err
	}
	return a.handler.TerminateInfo(ctx, connector, len(remaining) == 0)
}

// findOrCreateHost resolves the connector to an array host record, creating
// the host and registering its initiators when missing. Creation runs under
// a `<host>-<backend>` named lock; a local cache short-circuits repeat
// lookups within this process.
func (a *CommonAdapter) findOrCreateHost(ctx context.Context, connector *storage.Connector) (*api.Host, error) {
	if connector == nil || connector.Host == "" {
		return nil, errors.InvalidInputError("connector has no host name")
	}

	a.cacheMu.RLock()
	cached, ok := a.hostCache[connector.Host]
	a.cacheMu.RUnlock()
	if ok {
		return cached, nil
	}

	unlock := a.hostLocks.Locked(connector.Host + "-" + a.backendName)
	defer unlock()

	// Someone else may have created it while we waited on the lock.
	a.cacheMu.RLock()
	cached, ok = a.hostCache[connector.Host]
	a.cacheMu.RUnlock()
	if ok {
		return cached, nil
	}

	host, err := a.client.GetHostByName(ctx, connector.Host)
	if err != nil {
		if !errors.IsNotFoundError(err) {
			return nil, err
		}
		if host, err = a.client.CreateHost(ctx, connector.Host); err != nil {
			return nil, fmt.Errorf("could not create host %s: %v", connector.Host, err)
		}
	}

	initiatorIDs, err := a.handler.InitiatorIDs(connector)
	if err != nil {
		return nil, err
	}

	// Reconcile the host's same-protocol initiator records against the
	// connector: register missing ones, remove records the connector no
	// longer carries.
	stale := make(map[string]string)
	for _, initiator := range host.Initiators {
		if initiator.Type == a.handler.InitiatorType() {
			stale[initiator.InitiatorID] = initiator.ID
		}
	}
	for _, initiatorID := range initiatorIDs {
		if _, registered := stale[initiatorID]; registered {
			delete(stale, initiatorID)
			continue
		}
		if _, err = a.client.CreateInitiator(ctx, host.ID, a.handler.InitiatorType(), initiatorID); err != nil {
			return nil, fmt.Errorf("could not register initiator %s: %v", initiatorID, err)
		}
	}
	for initiatorID, recordID := range stale {
		if err = a.client.DeleteInitiator(ctx, recordID); err != nil {
			Logc(ctx).WithError(err).WithField("initiator", initiatorID).
				Warn("Could not remove stale initiator.")
		}
	}

	a.cacheMu.Lock()
	a.hostCache[connector.Host] = host
	a.cacheMu.Unlock()

	return host, nil
}

// ///////////////////////////////////////////////////////////////////////////
// Manage & stats
// ///////////////////////////////////////////////////////////////////////////

// ManageExisting adopts a pre-existing LUN under orchestrator control. The
// reference may be a LUN ID or name.
func (a *CommonAdapter) ManageExisting(ctx context.Context, volConfig *storage.VolumeConfig, existingRef string) error {
	lun, err := a.resolveExistingRef(ctx, existingRef)
	if err != nil {
		return err
	}

	volConfig.InternalName = lun.Name
	volConfig.Size = fmt.Sprintf("%d", lun.SizeBytes)
	volConfig.ProviderID = lun.ID
	volConfig.ProviderLocation = BuildProviderLocation(
		lun.ID, a.serialNumber, config.ResourceTypeLun, DriverVersion)
	return nil
}

func (a *CommonAdapter) ManageExistingGetSize(ctx context.Context, existingRef string) (uint64, error) {
	lun, err := a.resolveExistingRef(ctx, existingRef)
	if err != nil {
		return 0, err
	}
	return lun.SizeBytes, nil
}

func (a *CommonAdapter) resolveExistingRef(ctx context.Context, existingRef string) (*api.Lun, error) {
	if existingRef == "" {
		return nil, errors.InvalidInputError("existing volume reference is empty")
	}

	lun, err := a.client.GetLun(ctx, existingRef)
	if err == nil {
		return lun, nil
	}
	if !errors.IsNotFoundError(err) {
		return nil, err
	}

	if lun, err = a.client.GetLunByName(ctx, existingRef); err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.InvalidInputError("no LUN matches reference %q", existingRef)
		}
		return nil, err
	}
	return lun, nil
}

// GetVolumeStats reports pool capacity for the configured pools, or every
// pool when none are configured.
func (a *CommonAdapter) GetVolumeStats(ctx context.Context) (*storage.BackendStats, error) {
	pools, err := a.client.GetPools(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not query storage pools: %v", err)
	}

	configured := make(map[string]bool, len(a.config.StoragePoolNames))
	for _, name := range a.config.StoragePoolNames {
		configured[name] = true
	}

	maxRatio := a.config.MaxOverSubscriptionRatio
	if maxRatio <= 0 {
		maxRatio = drivers.DefaultMaxOverSubscriptionRatio
	}

	sessions, err := a.client.GetReplicationSessions(ctx)
	if err != nil {
		Logc(ctx).WithError(err).Debug("Could not query replication sessions for stats.")
	}

	stats := &storage.BackendStats{
		BackendName:     a.backendName,
		StorageProtocol: string(a.handler.Protocol()),
		DriverVersion:   DriverVersion,
		VendorName:      VendorName,
		SerialNumber:    a.serialNumber,
	}
	for _, device := range a.config.ReplicationDevices {
		stats.ReplicationIDs = append(stats.ReplicationIDs, device.BackendID)
	}

	const bytesPerGB = 1 << 30
	for _, pool := range pools {
		if len(configured) > 0 && !configured[pool.Name] {
			continue
		}
		stats.Pools = append(stats.Pools, storage.PoolStats{
			Name:                     pool.Name,
			TotalCapacityGB:          float64(pool.SizeTotal) / bytesPerGB,
			FreeCapacityGB:           float64(pool.SizeFree) / bytesPerGB,
			ProvisionedCapacityGB:    float64(pool.SizeSubscribed) / bytesPerGB,
			MaxOverSubscriptionRatio: maxRatio,
			ReservedPercentage:       a.config.ReservedPercentage,
			ThinProvisioningSupport:  true,
			ReplicationEnabled:       len(sessions) > 0 || len(a.config.ReplicationDevices) > 0,
		})
	}

	return stats, nil
}

// FailoverSessions fails every replication session over to this array. It
// is invoked on the secondary's adapter as part of service failover.
func (a *CommonAdapter) FailoverSessions(ctx context.Context, sync bool) error {
	sessions, err := a.client.GetReplicationSessions(ctx)
	if err != nil {
		return fmt.Errorf("could not list replication sessions: %v", err)
	}

	var failoverErr error
	for _, session := range sessions {
		if err = a.client.FailoverReplicationSession(ctx, session.ID, sync); err != nil {
			Logc(ctx).WithError(err).WithField("session", session.Name).Error("Session failover failed.")
			failoverErr = errors.Join(failoverErr, err)
		}
	}
	return failoverErr
}

// ///////////////////////////////////////////////////////////////////////////
// Internals
// ///////////////////////////////////////////////////////////////////////////

// selectPool honors an explicit pool request, otherwise picks the configured
// pool with the most free space that fits the request.
func (a *CommonAdapter) selectPool(ctx context.Context, requested string, sizeBytes uint64) (*api.Pool, error) {
	if requested != "" {
		return a.client.GetPool(ctx, requested)
	}

	pools, err := a.client.GetPools(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not query storage pools: %v", err)
	}

	configured := make(map[string]bool, len(a.config.StoragePoolNames))
	for _, name := range a.config.StoragePoolNames {
		configured[name] = true
	}

	var best *api.Pool
	for i := range pools {
		pool := &pools[i]
		if len(configured) > 0 && !configured[pool.Name] {
			continue
		}
		if pool.SizeFree < sizeBytes {
			continue
		}
		if best == nil || pool.SizeFree > best.SizeFree {
			best = pool
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no storage pool can satisfy a %d byte request", sizeBytes)
	}
	return best, nil
}

func (a *CommonAdapter) lunIDForVolume(ctx context.Context, volConfig *storage.VolumeConfig) (string, error) {
	if volConfig.ProviderLocation != "" {
		return ResourceIDFromProviderLocation(volConfig.ProviderLocation)
	}
	if volConfig.ProviderID != "" {
		return volConfig.ProviderID, nil
	}
	lun, err := a.client.GetLunByName(ctx, volConfig.InternalName)
	if err != nil {
		return "", err
	}
	return lun.ID, nil
}

func (a *CommonAdapter) snapIDForSnapshot(ctx context.Context, snapConfig *storage.SnapshotConfig) (string, error) {
	if snapConfig.ProviderLocation != "" {
		return ResourceIDFromProviderLocation(snapConfig.ProviderLocation)
	}
	if snapConfig.ProviderID != "" {
		return snapConfig.ProviderID, nil
	}
	snapshot, err := a.client.GetSnap(ctx, snapConfig.InternalName)
	if err != nil {
		return "", err
	}
	return snapshot.ID, nil
}
