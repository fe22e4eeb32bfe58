// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package api

import (
	goerrors "github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

// Volume types understood by the cluster. The durable formats map erasure
// coding and replication onto raw block namespaces.
const (
	VolumeTypeRaw     = "VOL_TYPE_BLK_LOCAL_THIN"
	VolumeTypeEC      = "VOL_TYPE_BLK_EC"
	VolumeTypeReplica = "VOL_TYPE_BLK_REPLICA"
)

// Port transports.
const (
	TransportTCP = "TCP"
	TransportPCI = "PCI"
)

// VolumeSpec is the request body for creating a volume.
type VolumeSpec struct {

	// name
	// Required: true
	Name *string `json:"name"`

	// size in bytes
	// Required: true
	// Minimum: 1
	Size *int64 `json:"size"`

	// vol type
	// Required: true
	// Enum: [VOL_TYPE_BLK_LOCAL_THIN VOL_TYPE_BLK_EC VOL_TYPE_BLK_REPLICA]
	VolType *string `json:"vol_type"`

	// encrypt
	Encrypt bool `json:"encrypt,omitempty"`

	// qos band
	QosBand int32 `json:"qos_band,omitempty"`

	// is clone
	IsClone bool `json:"is_clone,omitempty"`

	// clone source volume uuid
	CloneSourceVolumeUUID string `json:"clone_source_volume_uuid,omitempty"`

	// snap source volume uuid
	SnapSourceVolumeUUID string `json:"snap_source_volume_uuid,omitempty"`
}

// Validate validates this volume spec
func (m *VolumeSpec) Validate(formats strfmt.Registry) error {
	var res []error

	if err := m.validateName(formats); err != nil {
		res = append(res, err)
	}

	if err := m.validateSize(formats); err != nil {
		res = append(res, err)
	}

	if err := m.validateVolType(formats); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return goerrors.CompositeValidationError(res...)
	}
	return nil
}

func (m *VolumeSpec) validateName(formats strfmt.Registry) error {
	if err := validate.Required("name", "body", m.Name); err != nil {
		return err
	}
	return nil
}

func (m *VolumeSpec) validateSize(formats strfmt.Registry) error {
	if err := validate.Required("size", "body", m.Size); err != nil {
		return err
	}
	if err := validate.MinimumInt("size", "body", swag.Int64Value(m.Size), 1, false); err != nil {
		return err
	}
	return nil
}

var volumeSpecTypeVolTypePropEnum = []interface{}{
	VolumeTypeRaw, VolumeTypeEC, VolumeTypeReplica,
}

func (m *VolumeSpec) validateVolType(formats strfmt.Registry) error {
	if err := validate.Required("vol_type", "body", m.VolType); err != nil {
		return err
	}
	if err := validate.EnumCase("vol_type", "body", *m.VolType, volumeSpecTypeVolTypePropEnum, true); err != nil {
		return err
	}
	return nil
}

// Volume is the cluster's view of one block volume.
type Volume struct {

	// uuid
	UUID string `json:"uuid,omitempty"`

	// name
	Name string `json:"name,omitempty"`

	// size in bytes
	Size int64 `json:"size,omitempty"`

	// vol type
	VolType string `json:"vol_type,omitempty"`

	// encrypt
	Encrypt bool `json:"encrypt,omitempty"`

	// state
	State string `json:"state,omitempty"`

	// created at
	// Format: date-time
	CreatedAt strfmt.DateTime `json:"created_at,omitempty"`

	// ports attached to this volume, keyed by port uuid
	Ports map[string]Port `json:"ports,omitempty"`
}

// Validate validates this volume
func (m *Volume) Validate(formats strfmt.Registry) error {
	if err := validate.FormatOf("created_at", "body", "date-time", m.CreatedAt.String(), formats); err != nil {
		return err
	}
	return nil
}

// VolumeUpdateSpec is the request body for mutating a volume in place.
type VolumeUpdateSpec struct {

	// op
	// Required: true
	// Enum: [UPDATE_OP_RESIZE UPDATE_OP_RENAME]
	Op *string `json:"op"`

	// new size in bytes, for resize
	Size int64 `json:"size,omitempty"`

	// new volume name, for rename
	Name string `json:"name,omitempty"`
}

// Update operations.
const (
	UpdateOpResize = "UPDATE_OP_RESIZE"
	UpdateOpRename = "UPDATE_OP_RENAME"
)

var volumeUpdateSpecOpPropEnum = []interface{}{
	UpdateOpResize, UpdateOpRename,
}

// Validate validates this volume update spec
func (m *VolumeUpdateSpec) Validate(formats strfmt.Registry) error {
	if err := validate.Required("op", "body", m.Op); err != nil {
		return err
	}
	if err := validate.EnumCase("op", "body", *m.Op, volumeUpdateSpecOpPropEnum, true); err != nil {
		return err
	}
	return nil
}

// SnapshotSpec is the request body for creating a snapshot of a volume.
type SnapshotSpec struct {

	// name
	// Required: true
	Name *string `json:"name"`
}

// Validate validates this snapshot spec
func (m *SnapshotSpec) Validate(formats strfmt.Registry) error {
	if err := validate.Required("name", "body", m.Name); err != nil {
		return err
	}
	return nil
}

// Snapshot is the cluster's view of one point-in-time copy.
type Snapshot struct {

	// uuid
	UUID string `json:"uuid,omitempty"`

	// name
	Name string `json:"name,omitempty"`

	// volume uuid
	VolumeUUID string `json:"volume_uuid,omitempty"`

	// size in bytes
	Size int64 `json:"size,omitempty"`
}

// PortSpec is the request body for attaching a volume to a host.
type PortSpec struct {

	// transport
	// Required: true
	// Enum: [TCP PCI]
	Transport *string `json:"transport"`

	// host nqn
	// Required: true
	HostNQN *string `json:"host_nqn"`

	// host uuid
	HostUUID string `json:"host_uuid,omitempty"`
}

var portSpecTransportPropEnum = []interface{}{
	TransportTCP, TransportPCI,
}

// Validate validates this port spec
func (m *PortSpec) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("transport", "body", m.Transport); err != nil {
		res = append(res, err)
	} else if err := validate.EnumCase("transport", "body", *m.Transport, portSpecTransportPropEnum, true); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("host_nqn", "body", m.HostNQN); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return goerrors.CompositeValidationError(res...)
	}
	return nil
}

// Port is a live attachment of a volume to a host.
type Port struct {

	// uuid
	UUID string `json:"uuid,omitempty"`

	// volume uuid
	VolumeUUID string `json:"volume_uuid,omitempty"`

	// host nqn
	HostNQN string `json:"host_nqn,omitempty"`

	// subsystem nqn the host connects to
	SubsysNQN string `json:"subsys_nqn,omitempty"`

	// namespace id
	NSID int64 `json:"nsid,omitempty"`

	// ip addresses of the serving DPUs
	IPs []string `json:"ips,omitempty"`

	// transport
	Transport string `json:"transport,omitempty"`
}

// Host is a topology record for one initiator host.
type Host struct {

	// uuid
	UUID string `json:"uuid,omitempty"`

	// host name
	HostName string `json:"host_name,omitempty"`

	// host nqn
	HostNQN string `json:"host_nqn,omitempty"`

	// fac enabled
	FACEnabled bool `json:"fac_enabled,omitempty"`
}

// ClusterCapacity reports cluster-wide capacity figures.
type ClusterCapacity struct {

	// total capacity in bytes
	TotalCapacity int64 `json:"total_capacity,omitempty"`

	// used capacity in bytes
	UsedCapacity int64 `json:"used_capacity,omitempty"`
}

// ErrorResponseFields is the error envelope returned on failed requests.
type ErrorResponseFields struct {

	// status
	Status bool `json:"status,omitempty"`

	// message
	Message string `json:"message,omitempty"`

	// error message
	ErrorMessage string `json:"error_message,omitempty"`
}
