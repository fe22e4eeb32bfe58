// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package storagedrivers

import (
	"github.com/blockgate/blockgate/config"
)

// ConfigVersion is the expected version of all backend config files.
const ConfigVersion = 1

const (
	// DefaultVolumeSize is used when a create request carries no size.
	DefaultVolumeSize = "1G"

	// DefaultMaxOverSubscriptionRatio bounds thin-provisioned capacity
	// reporting when the config does not set one.
	DefaultMaxOverSubscriptionRatio = 20.0

	// DefaultMaxTimeOutOfSync is the replication session sync interval
	// (minutes) applied when a replication device does not set one.
	DefaultMaxTimeOutOfSync = 60

	// ReplicationDefaultBackendID names the primary (non-failed-over) device.
	ReplicationDefaultBackendID = "default"
)

// CommonStorageDriverConfig holds settings in common across all StorageDrivers
type CommonStorageDriverConfig struct {
	Version           int                  `json:"version"`
	StorageDriverName string               `json:"storageDriverName"`
	BackendName       string               `json:"backendName"`
	DebugTraceFlags   map[string]bool      `json:"debugTraceFlags"` // Example: {"api":false, "method":true}
	DisableDelete     bool                 `json:"disableDelete"`
	StoragePrefix     string               `json:"storagePrefix"`
	LimitVolumeSize   string               `json:"limitVolumeSize"`
	DriverContext     config.DriverContext `json:"-"`
}

// ReplicationDeviceConfig describes one remote array configured as a
// replication target of a Unity backend.
type ReplicationDeviceConfig struct {
	BackendID        string `json:"backendId"`
	SanIP            string `json:"sanIp"`
	SanLogin         string `json:"sanLogin"`
	SanPassword      string `json:"sanPassword"`
	MaxTimeOutOfSync int    `json:"maxTimeOutOfSync"` // minutes; >= 0, default 60
}

// UnityStorageDriverConfig holds settings for the Unity drivers
type UnityStorageDriverConfig struct {
	*CommonStorageDriverConfig

	// Array management endpoint
	SanIP        string `json:"sanIp"`
	SanLogin     string `json:"sanLogin"`
	SanPassword  string `json:"sanPassword"`
	SanVerifyTLS bool   `json:"sanVerifyTLS"`

	// Provisioning options
	StoragePoolNames         []string `json:"storagePoolNames"`
	IoPorts                  []string `json:"ioPorts"` // e.g. ["spa_eth2", "spb_iom_0_fc1"]
	MaxOverSubscriptionRatio float64  `json:"maxOverSubscriptionRatio"`
	ReservedPercentage       int      `json:"reservedPercentage"`

	// FC auto-zoning; when true and a fabric lookup service is available,
	// initiator-target maps are computed for the zone manager.
	ZoningEnabled bool `json:"zoningEnabled"`

	// Identity of the service host used as the attachment point for clone
	// block copies.
	ServiceHostName  string   `json:"serviceHostName"`
	ServiceInitiator string   `json:"serviceInitiator"`
	ServiceWWPNs     []string `json:"serviceWwpns"`
	ServiceWWNNs     []string `json:"serviceWwnns"`

	ReplicationDevices []ReplicationDeviceConfig `json:"replicationDevices"`

	// ActiveBackendID routes calls to a secondary at startup when the
	// service last stopped in a failed-over state.
	ActiveBackendID string `json:"activeBackendId"`
}

// FungibleStorageDriverConfig holds settings for the Fungible driver
type FungibleStorageDriverConfig struct {
	*CommonStorageDriverConfig

	APIEndpoint   string `json:"apiEndpoint"` // host[:port] of the composer API
	APIBasePath   string `json:"apiBasePath"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	APIVerifyTLS  bool   `json:"apiVerifyTLS"`
	IsEncrypted   bool   `json:"isEncrypted"`
	DurableFormat string `json:"durableFormat"` // e.g. "ec" or "replica"
}

// DriverConfig is implemented by all backend config types.
type DriverConfig interface {
	GetCommonConfig() *CommonStorageDriverConfig
}

func (c *CommonStorageDriverConfig) GetCommonConfig() *CommonStorageDriverConfig {
	return c
}
