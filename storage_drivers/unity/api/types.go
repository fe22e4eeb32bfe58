// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package api

// Resource types used in host LUN records and provider locations.
const (
	HostLunTypeLun  = "lun"
	HostLunTypeSnap = "snapshot"
)

// Initiator types recognized by the array.
const (
	InitiatorTypeISCSI = "iscsi"
	InitiatorTypeFC    = "fc"
)

// System identifies the array.
type System struct {
	SerialNumber string `json:"serialNumber"`
	Name         string `json:"name"`
	Model        string `json:"model"`
}

// Pool is a storage pool on the array. Sizes are in bytes.
type Pool struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	SizeTotal      uint64 `json:"sizeTotal"`
	SizeFree       uint64 `json:"sizeFree"`
	SizeUsed       uint64 `json:"sizeUsed"`
	SizeSubscribed uint64 `json:"sizeSubscribed"`
}

// Lun is a block volume on the array.
type Lun struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	WWN       string `json:"wwn"`
	PoolID    string `json:"poolId"`
	SizeBytes uint64 `json:"sizeTotal"`
	IsThin    bool   `json:"isThinEnabled"`
}

// Snapshot is a point-in-time copy of a LUN. WWN is assigned by the array
// once the snapshot is promoted to attachable.
type Snapshot struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	LunID     string `json:"lunId"`
	WWN       string `json:"wwn,omitempty"`
	SizeBytes uint64 `json:"size"`
}

// Initiator is a host initiator registered with the array.
type Initiator struct {
	ID          string `json:"id"`
	HostID      string `json:"hostId"`
	Type        string `json:"type"` // InitiatorTypeISCSI or InitiatorTypeFC
	InitiatorID string `json:"initiatorId"`
	IsLoggedIn  bool   `json:"isLoggedIn"`
}

// Host is a host record on the array.
type Host struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	OSType     string      `json:"osType"`
	Initiators []Initiator `json:"initiators,omitempty"`
}

// HostLun records the attachment of a LUN or snapshot to a host, including
// the host-LUN number the host OS sees.
type HostLun struct {
	ID     string `json:"id"`
	HostID string `json:"hostId"`
	LunID  string `json:"lunId,omitempty"`
	SnapID string `json:"snapId,omitempty"`
	HLU    int    `json:"hlu"`
	Type   string `json:"type"` // HostLunTypeLun or HostLunTypeSnap
}

// IscsiPortal is an iSCSI network portal on an ethernet port.
type IscsiPortal struct {
	ID        string `json:"id"`
	IPAddress string `json:"ipAddress"`
	Port      int    `json:"port"`
	IQN       string `json:"iqn"`
	PortID    string `json:"ethernetPortId"` // e.g. "spa_eth2"
}

// FcPort is a fibre channel front-end port.
type FcPort struct {
	ID       string `json:"id"`
	WWN      string `json:"wwn"`
	PortID   string `json:"portId"` // e.g. "spa_iom_0_fc0"
	IsLinkUp bool   `json:"isLinkUp"`
}

// ConsistencyGroup is a group of LUNs snapshotted together.
type ConsistencyGroup struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	LunIDs []string `json:"lunIds,omitempty"`
}

// ReplicationSession tracks replication of a storage resource to a remote
// system.
type ReplicationSession struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	SrcResourceID    string `json:"srcResourceId"`
	DstResourceID    string `json:"dstResourceId"`
	MaxTimeOutOfSync int    `json:"maxTimeOutOfSync"`
	Status           string `json:"status"`
}
