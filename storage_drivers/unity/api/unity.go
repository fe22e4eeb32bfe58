// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/RoaringBitmap/roaring/v2"

	. "github.com/blockgate/blockgate/logging"
	"github.com/blockgate/blockgate/utils/errors"
)

//go:generate mockgen -destination=../../../mocks/mock_unity_api/mock_unity_api.go -package=mock_unity_api github.com/blockgate/blockgate/storage_drivers/unity/api UnityAPI

// UnityAPI is the array-facing surface the adapters program against. Every
// create is idempotent (an existing resource is fetched and returned) and
// every delete is idempotent (a missing resource is a silent no-op); a delete
// or detach conflict on an in-use resource propagates as an InUseError.
type UnityAPI interface {
	GetSystem(ctx context.Context) (*System, error)
	GetPools(ctx context.Context) ([]Pool, error)
	GetPool(ctx context.Context, name string) (*Pool, error)

	CreateLun(ctx context.Context, name, poolID string, sizeBytes uint64) (*Lun, error)
	GetLun(ctx context.Context, id string) (*Lun, error)
	GetLunByName(ctx context.Context, name string) (*Lun, error)
	DeleteLun(ctx context.Context, id string) error
	ExtendLun(ctx context.Context, id string, newSizeBytes uint64) error

	CreateSnap(ctx context.Context, lunID, name string) (*Snapshot, error)
	CopySnap(ctx context.Context, snapID, name string) (*Snapshot, error)
	GetSnap(ctx context.Context, name string) (*Snapshot, error)
	GetSnapByID(ctx context.Context, id string) (*Snapshot, error)
	DeleteSnap(ctx context.Context, id string) error
	RestoreSnap(ctx context.Context, id string) error

	GetHostByName(ctx context.Context, name string) (*Host, error)
	CreateHost(ctx context.Context, name string) (*Host, error)
	CreateInitiator(ctx context.Context, hostID, initiatorType, initiatorID string) (*Initiator, error)
	DeleteInitiator(ctx context.Context, id string) error

	AttachLun(ctx context.Context, host *Host, lunID string) (int, error)
	DetachLun(ctx context.Context, host *Host, lunID string) error
	AttachSnap(ctx context.Context, host *Host, snapID string) (int, error)
	DetachSnap(ctx context.Context, host *Host, snapID string) error
	GetHostLuns(ctx context.Context, hostID string) ([]HostLun, error)

	GetIscsiPortals(ctx context.Context) ([]IscsiPortal, error)
	GetFcPorts(ctx context.Context) ([]FcPort, error)

	CreateConsistencyGroup(ctx context.Context, name string) (*ConsistencyGroup, error)
	GetConsistencyGroup(ctx context.Context, name string) (*ConsistencyGroup, error)
	DeleteConsistencyGroup(ctx context.Context, id string) error

	GetReplicationSessions(ctx context.Context) ([]ReplicationSession, error)
	FailoverReplicationSession(ctx context.Context, id string, sync bool) error
}

// ClientConfig holds the settings needed to talk to one array.
type ClientConfig struct {
	Endpoint   string // management IP or host[:port]
	Username   string
	Password   string
	VerifyTLS  bool
	DriverName string
	TraceFlags map[string]bool
}

// Client implements UnityAPI over the array's REST interface.
type Client struct {
	config ClientConfig
	api    *restClient
}

func NewAPIClient(config ClientConfig) *Client {
	return &Client{
		config: config,
		api: newRestClient(config.Endpoint, config.Username, config.Password,
			config.VerifyTLS, config.TraceFlags["api"], config.DriverName),
	}
}

func (c *Client) getInstance(ctx context.Context, path string, params url.Values, out any) error {
	var instance restInstance
	if err := c.api.get(ctx, path, params, &instance); err != nil {
		return err
	}
	if err := json.Unmarshal(instance.Content, out); err != nil {
		return fmt.Errorf("could not parse instance content: %v", err)
	}
	return nil
}

func getCollection[T any](ctx context.Context, c *Client, path string, params url.Values) ([]T, error) {
	var collection restCollection
	if err := c.api.get(ctx, path, params, &collection); err != nil {
		return nil, err
	}
	result := make([]T, 0, len(collection.Entries))
	for _, entry := range collection.Entries {
		var item T
		if err := json.Unmarshal(entry.Content, &item); err != nil {
			return nil, fmt.Errorf("could not parse collection entry: %v", err)
		}
		result = append(result, item)
	}
	return result, nil
}

func nameFilter(name string) url.Values {
	params := url.Values{}
	params.Set("filter", fmt.Sprintf(`name eq "%s"`, name))
	return params
}

// ///////////////////////////////////////////////////////////////////////////
// System & pools
// ///////////////////////////////////////////////////////////////////////////

func (c *Client) GetSystem(ctx context.Context) (*System, error) {
	system := &System{}
	if err := c.getInstance(ctx, "/instances/system/0", nil, system); err != nil {
		return nil, err
	}
	return system, nil
}

func (c *Client) GetPools(ctx context.Context) ([]Pool, error) {
	return getCollection[Pool](ctx, c, "/types/pool/instances", nil)
}

func (c *Client) GetPool(ctx context.Context, name string) (*Pool, error) {
	pools, err := getCollection[Pool](ctx, c, "/types/pool/instances", nameFilter(name))
	if err != nil {
		return nil, err
	}
	if len(pools) == 0 {
		return nil, errors.NotFoundError("pool %s not found", name)
	}
	return &pools[0], nil
}

// ///////////////////////////////////////////////////////////////////////////
// LUNs
// ///////////////////////////////////////////////////////////////////////////

// CreateLun creates a thin LUN. If a LUN with the same name already exists,
// the existing LUN is returned instead of an error.
func (c *Client) CreateLun(ctx context.Context, name, poolID string, sizeBytes uint64) (*Lun, error) {
	request := map[string]any{
		"name": name,
		"lunParameters": map[string]any{
			"pool":          map[string]string{"id": poolID},
			"size":          sizeBytes,
			"isThinEnabled": true,
		},
	}

	var instance restInstance
	err := c.api.post(ctx, "/types/storageResource/action/createLun", request, &instance)
	if err != nil {
		if errors.IsAlreadyExistsError(err) {
			Logc(ctx).WithField("lun", name).Debug("LUN already exists, fetching.")
			return c.GetLunByName(ctx, name)
		}
		return nil, err
	}

	lun := &Lun{}
	if err = json.Unmarshal(instance.Content, lun); err != nil {
		return nil, fmt.Errorf("could not parse create response: %v", err)
	}
	return lun, nil
}

func (c *Client) GetLun(ctx context.Context, id string) (*Lun, error) {
	lun := &Lun{}
	if err := c.getInstance(ctx, "/instances/lun/"+id, nil, lun); err != nil {
		return nil, err
	}
	return lun, nil
}

func (c *Client) GetLunByName(ctx context.Context, name string) (*Lun, error) {
	luns, err := getCollection[Lun](ctx, c, "/types/lun/instances", nameFilter(name))
	if err != nil {
		return nil, err
	}
	if len(luns) == 0 {
		return nil, errors.NotFoundError("LUN %s not found", name)
	}
	return &luns[0], nil
}

// DeleteLun removes a LUN. Deleting a LUN that no longer exists is a no-op;
// deleting one that is still attached surfaces the array's InUse error.
func (c *Client) DeleteLun(ctx context.Context, id string) error {
	err := c.api.delete(ctx, "/instances/storageResource/"+id)
	if errors.IsNotFoundError(err) {
		Logc(ctx).WithField("lun", id).Debug("LUN not found during delete, skipping.")
		return nil
	}
	return err
}

func (c *Client) ExtendLun(ctx context.Context, id string, newSizeBytes uint64) error {
	request := map[string]any{
		"lunParameters": map[string]any{"size": newSizeBytes},
	}
	return c.api.post(ctx, "/instances/storageResource/"+id+"/action/modifyLun", request, nil)
}

// ///////////////////////////////////////////////////////////////////////////
// Snapshots
// ///////////////////////////////////////////////////////////////////////////

// CreateSnap snapshots a LUN, returning the existing snapshot if the name is
// already taken.
func (c *Client) CreateSnap(ctx context.Context, lunID, name string) (*Snapshot, error) {
	request := map[string]any{
		"storageResource": map[string]string{"id": lunID},
		"name":            name,
	}

	var instance restInstance
	err := c.api.post(ctx, "/types/snap/instances", request, &instance)
	if err != nil {
		if errors.IsAlreadyExistsError(err) {
			Logc(ctx).WithField("snapshot", name).Debug("Snapshot already exists, fetching.")
			return c.GetSnap(ctx, name)
		}
		return nil, err
	}

	snapshot := &Snapshot{}
	if err = json.Unmarshal(instance.Content, snapshot); err != nil {
		return nil, fmt.Errorf("could not parse create response: %v", err)
	}
	return snapshot, nil
}

// CopySnap copies an existing snapshot under a new name. The copy action only
// reports the new snapshot's id, so the full record is fetched afterwards. If
// the name is already taken the existing snapshot is returned.
func (c *Client) CopySnap(ctx context.Context, snapID, name string) (*Snapshot, error) {
	request := map[string]any{"copyName": name}

	var instance restInstance
	err := c.api.post(ctx, "/instances/snap/"+snapID+"/action/copy", request, &instance)
	if err != nil {
		if errors.IsAlreadyExistsError(err) {
			Logc(ctx).WithField("snapshot", name).Debug("Snapshot copy already exists, fetching.")
			return c.GetSnap(ctx, name)
		}
		return nil, err
	}

	var copyResult struct {
		Copies []struct {
			ID string `json:"id"`
		} `json:"copies"`
	}
	if err = json.Unmarshal(instance.Content, &copyResult); err != nil {
		return nil, fmt.Errorf("could not parse copy response: %v", err)
	}
	if len(copyResult.Copies) == 0 {
		return nil, fmt.Errorf("copy of snapshot %s returned no copies", snapID)
	}
	return c.GetSnapByID(ctx, copyResult.Copies[0].ID)
}

func (c *Client) GetSnap(ctx context.Context, name string) (*Snapshot, error) {
	snapshots, err := getCollection[Snapshot](ctx, c, "/types/snap/instances", nameFilter(name))
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, errors.NotFoundError("snapshot %s not found", name)
	}
	return &snapshots[0], nil
}

func (c *Client) GetSnapByID(ctx context.Context, id string) (*Snapshot, error) {
	snapshot := &Snapshot{}
	if err := c.getInstance(ctx, "/instances/snap/"+id, nil, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// DeleteSnap removes a snapshot; a missing snapshot is a no-op, an attached
// one surfaces the array's InUse error.
func (c *Client) DeleteSnap(ctx context.Context, id string) error {
	err := c.api.delete(ctx, "/instances/snap/"+id)
	if errors.IsNotFoundError(err) {
		Logc(ctx).WithField("snapshot", id).Debug("Snapshot not found during delete, skipping.")
		return nil
	}
	return err
}

// RestoreSnap rolls the parent LUN back to the snapshot's contents.
func (c *Client) RestoreSnap(ctx context.Context, id string) error {
	return c.api.post(ctx, "/instances/snap/"+id+"/action/restore", map[string]any{}, nil)
}

// ///////////////////////////////////////////////////////////////////////////
// Hosts & initiators
// ///////////////////////////////////////////////////////////////////////////

func (c *Client) GetHostByName(ctx context.Context, name string) (*Host, error) {
	hosts, err := getCollection[Host](ctx, c, "/types/host/instances", nameFilter(name))
	if err != nil {
		return nil, err
	}
	if len(hosts) == 0 {
		return nil, errors.NotFoundError("host %s not found", name)
	}
	return &hosts[0], nil
}

// CreateHost registers a host record, returning the existing record if one
// with the same name is already present.
func (c *Client) CreateHost(ctx context.Context, name string) (*Host, error) {
	request := map[string]any{
		"type": 1, // manual host
		"name": name,
	}

	var instance restInstance
	err := c.api.post(ctx, "/types/host/instances", request, &instance)
	if err != nil {
		if errors.IsAlreadyExistsError(err) {
			Logc(ctx).WithField("host", name).Debug("Host already exists, fetching.")
			return c.GetHostByName(ctx, name)
		}
		return nil, err
	}

	host := &Host{}
	if err = json.Unmarshal(instance.Content, host); err != nil {
		return nil, fmt.Errorf("could not parse create response: %v", err)
	}
	return host, nil
}

// CreateInitiator registers an initiator under a host. Registering an
// initiator that already exists returns the existing record.
func (c *Client) CreateInitiator(ctx context.Context, hostID, initiatorType, initiatorID string) (*Initiator, error) {
	request := map[string]any{
		"host":          map[string]string{"id": hostID},
		"initiatorType": initiatorType,
		"initiatorId":   initiatorID,
	}

	var instance restInstance
	err := c.api.post(ctx, "/types/hostInitiator/instances", request, &instance)
	if err != nil {
		if errors.IsAlreadyExistsError(err) {
			Logc(ctx).WithField("initiator", initiatorID).Debug("Initiator already registered.")
			return &Initiator{HostID: hostID, Type: initiatorType, InitiatorID: initiatorID}, nil
		}
		return nil, err
	}

	initiator := &Initiator{}
	if err = json.Unmarshal(instance.Content, initiator); err != nil {
		return nil, fmt.Errorf("could not parse create response: %v", err)
	}
	return initiator, nil
}

// DeleteInitiator removes an initiator record from its host. A missing record
// is a no-op.
func (c *Client) DeleteInitiator(ctx context.Context, id string) error {
	err := c.api.delete(ctx, "/instances/hostInitiator/"+id)
	if errors.IsNotFoundError(err) {
		Logc(ctx).WithField("initiator", id).Debug("Initiator not found during delete, skipping.")
		return nil
	}
	return err
}

// ///////////////////////////////////////////////////////////////////////////
// Attachments
// ///////////////////////////////////////////////////////////////////////////

// AttachLun maps a LUN to a host and returns the assigned host-LUN number.
// Attaching a LUN that is already mapped to the host returns the existing
// HLU rather than an error.
func (c *Client) AttachLun(ctx context.Context, host *Host, lunID string) (int, error) {
	request := map[string]any{
		"lun": map[string]string{"id": lunID},
	}

	var instance restInstance
	err := c.api.post(ctx, "/instances/host/"+host.ID+"/action/attach", request, &instance)
	if err != nil {
		if errors.IsAlreadyExistsError(err) {
			Logc(ctx).WithFields(LogFields{
				"host": host.Name,
				"lun":  lunID,
			}).Debug("LUN already attached to host, fetching existing HLU.")
			return c.findHostLun(ctx, host.ID, lunID, HostLunTypeLun)
		}
		return 0, err
	}

	var hostLun HostLun
	if err = json.Unmarshal(instance.Content, &hostLun); err != nil {
		return 0, fmt.Errorf("could not parse attach response: %v", err)
	}
	return hostLun.HLU, nil
}

// DetachLun unmaps a LUN from a host. Detaching a LUN that is no longer
// mapped is a no-op.
func (c *Client) DetachLun(ctx context.Context, host *Host, lunID string) error {
	request := map[string]any{
		"lun": map[string]string{"id": lunID},
	}
	err := c.api.post(ctx, "/instances/host/"+host.ID+"/action/detach", request, nil)
	if errors.IsNotFoundError(err) {
		Logc(ctx).WithFields(LogFields{
			"host": host.Name,
			"lun":  lunID,
		}).Debug("LUN not attached during detach, skipping.")
		return nil
	}
	return err
}

// AttachSnap maps an attachable snapshot to a host. The array does not
// assign HLUs for snapshot attachments, so the client computes the lowest
// free HLU from the host's existing mappings, never handing out zero.
func (c *Client) AttachSnap(ctx context.Context, host *Host, snapID string) (int, error) {
	hostLuns, err := c.GetHostLuns(ctx, host.ID)
	if err != nil {
		return 0, err
	}

	hlu := nextFreeHLU(hostLuns)

	request := map[string]any{
		"snap": map[string]string{"id": snapID},
		"hlu":  hlu,
	}

	err = c.api.post(ctx, "/instances/host/"+host.ID+"/action/attach", request, nil)
	if err != nil {
		if errors.IsAlreadyExistsError(err) {
			Logc(ctx).WithFields(LogFields{
				"host": host.Name,
				"snap": snapID,
			}).Debug("Snapshot already attached to host, fetching existing HLU.")
			return c.findHostLun(ctx, host.ID, snapID, HostLunTypeSnap)
		}
		return 0, err
	}
	return hlu, nil
}

// DetachSnap unmaps a snapshot from a host; missing mappings are a no-op.
func (c *Client) DetachSnap(ctx context.Context, host *Host, snapID string) error {
	request := map[string]any{
		"snap": map[string]string{"id": snapID},
	}
	err := c.api.post(ctx, "/instances/host/"+host.ID+"/action/detach", request, nil)
	if errors.IsNotFoundError(err) {
		Logc(ctx).WithFields(LogFields{
			"host": host.Name,
			"snap": snapID,
		}).Debug("Snapshot not attached during detach, skipping.")
		return nil
	}
	return err
}

func (c *Client) GetHostLuns(ctx context.Context, hostID string) ([]HostLun, error) {
	params := url.Values{}
	params.Set("filter", fmt.Sprintf(`host eq "%s"`, hostID))
	return getCollection[HostLun](ctx, c, "/types/hostLUN/instances", params)
}

func (c *Client) findHostLun(ctx context.Context, hostID, resourceID, resourceType string) (int, error) {
	hostLuns, err := c.GetHostLuns(ctx, hostID)
	if err != nil {
		return 0, err
	}
	for _, hostLun := range hostLuns {
		if hostLun.Type != resourceType {
			continue
		}
		if hostLun.LunID == resourceID || hostLun.SnapID == resourceID {
			return hostLun.HLU, nil
		}
	}
	return 0, errors.NotFoundError("no host LUN record for %s on host %s", resourceID, hostID)
}

// nextFreeHLU returns the lowest unused host-LUN number, starting at 1; HLU 0
// is reserved for the host's boot LUN convention.
func nextFreeHLU(hostLuns []HostLun) int {
	used := roaring.New()
	for _, hostLun := range hostLuns {
		if hostLun.HLU >= 0 {
			used.Add(uint32(hostLun.HLU))
		}
	}
	for hlu := uint32(1); ; hlu++ {
		if !used.Contains(hlu) {
			return int(hlu)
		}
	}
}

// ///////////////////////////////////////////////////////////////////////////
// Ports
// ///////////////////////////////////////////////////////////////////////////

func (c *Client) GetIscsiPortals(ctx context.Context) ([]IscsiPortal, error) {
	return getCollection[IscsiPortal](ctx, c, "/types/iscsiPortal/instances", nil)
}

func (c *Client) GetFcPorts(ctx context.Context) ([]FcPort, error) {
	return getCollection[FcPort](ctx, c, "/types/fcPort/instances", nil)
}

// ///////////////////////////////////////////////////////////////////////////
// Consistency groups
// ///////////////////////////////////////////////////////////////////////////

func (c *Client) CreateConsistencyGroup(ctx context.Context, name string) (*ConsistencyGroup, error) {
	request := map[string]any{"name": name}

	var instance restInstance
	err := c.api.post(ctx, "/types/storageResource/action/createConsistencyGroup", request, &instance)
	if err != nil {
		if errors.IsAlreadyExistsError(err) {
			return c.GetConsistencyGroup(ctx, name)
		}
		return nil, err
	}

	group := &ConsistencyGroup{}
	if err = json.Unmarshal(instance.Content, group); err != nil {
		return nil, fmt.Errorf("could not parse create response: %v", err)
	}
	return group, nil
}

func (c *Client) GetConsistencyGroup(ctx context.Context, name string) (*ConsistencyGroup, error) {
	groups, err := getCollection[ConsistencyGroup](ctx, c, "/types/storageResource/instances", nameFilter(name))
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, errors.NotFoundError("consistency group %s not found", name)
	}
	return &groups[0], nil
}

func (c *Client) DeleteConsistencyGroup(ctx context.Context, id string) error {
	err := c.api.delete(ctx, "/instances/storageResource/"+id)
	if errors.IsNotFoundError(err) {
		return nil
	}
	return err
}

// ///////////////////////////////////////////////////////////////////////////
// Replication
// ///////////////////////////////////////////////////////////////////////////

func (c *Client) GetReplicationSessions(ctx context.Context) ([]ReplicationSession, error) {
	return getCollection[ReplicationSession](ctx, c, "/types/replicationSession/instances", nil)
}

// FailoverReplicationSession fails the session over to the destination; with
// sync set, in-flight data is synchronized first (planned failover).
func (c *Client) FailoverReplicationSession(ctx context.Context, id string, sync bool) error {
	request := map[string]any{"sync": sync}
	return c.api.post(ctx, "/instances/replicationSession/"+id+"/action/failover", request, nil)
}
