// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package storage

import (
	"github.com/blockgate/blockgate/config"
)

// VolumeConfig captures the host-visible definition of a block volume. The
// orchestrator owns persistence; drivers only read and update the fields that
// describe backend identity.
type VolumeConfig struct {
	Version          string          `json:"version"`
	Name             string          `json:"name"`
	InternalName     string          `json:"internalName"`
	Size             string          `json:"size"`
	Pool             string          `json:"pool,omitempty"`
	Protocol         config.Protocol `json:"protocol"`
	ProviderLocation string          `json:"providerLocation,omitempty"`
	ProviderID       string          `json:"providerId,omitempty"`
	IsReplicated     bool            `json:"isReplicated,omitempty"`
	GroupName        string          `json:"groupName,omitempty"`
}

// SnapshotConfig describes a point-in-time copy of a volume.
type SnapshotConfig struct {
	Version            string `json:"version"`
	Name               string `json:"name"`
	InternalName       string `json:"internalName"`
	VolumeName         string `json:"volumeName"`
	VolumeInternalName string `json:"volumeInternalName"`
	ProviderLocation   string `json:"providerLocation,omitempty"`
	ProviderID         string `json:"providerId,omitempty"`
}

// Connector identifies the host that wants a volume attached. Exactly one of
// the initiator fields is populated, depending on the driver protocol.
type Connector struct {
	Host      string   `json:"host"`
	IP        string   `json:"ip,omitempty"`
	Initiator string   `json:"initiator,omitempty"` // iSCSI IQN
	NQN       string   `json:"nqn,omitempty"`       // NVMe host NQN
	WWPNs     []string `json:"wwpns,omitempty"`     // FC port names
	WWNNs     []string `json:"wwnns,omitempty"`     // FC node names
	Multipath bool     `json:"multipath,omitempty"`
}

// HasFCInitiators reports whether the connector carries fibre channel
// initiator identifiers.
func (c *Connector) HasFCInitiators() bool {
	return len(c.WWPNs) > 0
}

// ISCSIConnectionData is returned to the host for an iSCSI attachment.
type ISCSIConnectionData struct {
	TargetPortal  string   `json:"targetPortal"`
	TargetIQN     string   `json:"targetIqn"`
	TargetLun     int      `json:"targetLun"`
	TargetPortals []string `json:"targetPortals,omitempty"`
	TargetIQNs    []string `json:"targetIqns,omitempty"`
	TargetLuns    []int    `json:"targetLuns,omitempty"`
}

// FCConnectionData is returned to the host for a fibre channel attachment.
// InitiatorTargetMap is only populated when a zoning lookup service resolved
// the fabric; it maps each initiator WWN to the target WWNs it can reach.
type FCConnectionData struct {
	TargetWWNs         []string            `json:"targetWwns"`
	TargetLun          int                 `json:"targetLun"`
	InitiatorTargetMap map[string][]string `json:"initiatorTargetMap,omitempty"`
}

// NVMeConnectionData is returned to the host for an NVMe/TCP attachment.
type NVMeConnectionData struct {
	Transport     string   `json:"transport"`
	TargetNQN     string   `json:"targetNqn"`
	TargetPortals []string `json:"targetPortals"`
	NamespaceID   int64    `json:"nsid"`
}

// ConnectionInfo is the protocol-tagged result of initializing a connection.
type ConnectionInfo struct {
	DriverVolumeType string               `json:"driverVolumeType"`
	ISCSI            *ISCSIConnectionData `json:"iscsi,omitempty"`
	FC               *FCConnectionData    `json:"fc,omitempty"`
	NVMe             *NVMeConnectionData  `json:"nvme,omitempty"`
}

// PoolStats reports capacity figures for a single backend pool.
type PoolStats struct {
	Name                     string  `json:"name"`
	TotalCapacityGB          float64 `json:"totalCapacityGb"`
	FreeCapacityGB           float64 `json:"freeCapacityGb"`
	ProvisionedCapacityGB    float64 `json:"provisionedCapacityGb"`
	MaxOverSubscriptionRatio float64 `json:"maxOverSubscriptionRatio"`
	ReservedPercentage       int     `json:"reservedPercentage"`
	ThinProvisioningSupport  bool    `json:"thinProvisioningSupport"`
	ReplicationEnabled       bool    `json:"replicationEnabled"`
}

// BackendStats aggregates pool stats plus backend identity for reporting.
type BackendStats struct {
	BackendName     string      `json:"backendName"`
	StorageProtocol string      `json:"storageProtocol"`
	DriverVersion   string      `json:"driverVersion"`
	VendorName      string      `json:"vendorName"`
	SerialNumber    string      `json:"serialNumber,omitempty"`
	ReplicationIDs  []string    `json:"replicationTargets,omitempty"`
	Pools           []PoolStats `json:"pools"`
}
