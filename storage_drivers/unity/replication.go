// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package unity

import (
	"context"
	"fmt"
	"sync"

	. "github.com/blockgate/blockgate/logging"
	drivers "github.com/blockgate/blockgate/storage_drivers"
	"github.com/blockgate/blockgate/utils/errors"
)

// AdapterFactory builds a protocol adapter for one replication device. The
// driver injects it so the manager stays ignorant of protocol selection.
type AdapterFactory func(ctx context.Context, device drivers.ReplicationDeviceConfig) (*CommonAdapter, error)

// ReplicationDevice pairs one configured array with its lazily built
// adapter. Setup is deferred until first use so a service that starts while
// failed over never needs connectivity to the down primary.
type ReplicationDevice struct {
	backendID string
	config    drivers.ReplicationDeviceConfig
	factory   AdapterFactory

	mu      sync.Mutex
	adapter *CommonAdapter
	isSetup bool
}

func newReplicationDevice(backendID string, cfg drivers.ReplicationDeviceConfig, factory AdapterFactory) *ReplicationDevice {
	return &ReplicationDevice{
		backendID: backendID,
		config:    cfg,
		factory:   factory,
	}
}

func (d *ReplicationDevice) BackendID() string {
	return d.backendID
}

// SetupAdapter builds and connects the device's adapter exactly once;
// repeated calls are no-ops.
func (d *ReplicationDevice) SetupAdapter(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isSetup {
		return nil
	}

	adapter, err := d.factory(ctx, d.config)
	if err != nil {
		return fmt.Errorf("could not build adapter for backend %s: %v", d.backendID, err)
	}
	if err = adapter.Setup(ctx); err != nil {
		return fmt.Errorf("could not set up adapter for backend %s: %v", d.backendID, err)
	}

	d.adapter = adapter
	d.isSetup = true
	return nil
}

// Adapter returns the device's adapter, setting it up on first access.
func (d *ReplicationDevice) Adapter(ctx context.Context) (*CommonAdapter, error) {
	if err := d.SetupAdapter(ctx); err != nil {
		return nil, err
	}
	return d.adapter, nil
}

// ReplicationManager tracks which backend is active and routes all driver
// calls to that backend's adapter. Its states are exactly two:
// default-active, or failed over to one configured secondary.
type ReplicationManager struct {
	mu              sync.RWMutex
	defaultDevice   *ReplicationDevice
	devices         map[string]*ReplicationDevice
	activeBackendID string
}

// NewReplicationManager validates the replication config and registers the
// default device plus any secondary. At most one secondary may be
// configured, and none may claim the reserved "default" backend id.
func NewReplicationManager(ctx context.Context, cfg *drivers.UnityStorageDriverConfig,
	activeBackendID string, factory AdapterFactory,
) (*ReplicationManager, error) {
	if len(cfg.ReplicationDevices) > 1 {
		return nil, errors.InvalidConfigError(
			"at most one replication device may be configured, found %d", len(cfg.ReplicationDevices))
	}

	defaultConfig := drivers.ReplicationDeviceConfig{
		BackendID:        drivers.ReplicationDefaultBackendID,
		SanIP:            cfg.SanIP,
		SanLogin:         cfg.SanLogin,
		SanPassword:      cfg.SanPassword,
		MaxTimeOutOfSync: drivers.DefaultMaxTimeOutOfSync,
	}

	manager := &ReplicationManager{
		defaultDevice:   newReplicationDevice(drivers.ReplicationDefaultBackendID, defaultConfig, factory),
		devices:         make(map[string]*ReplicationDevice),
		activeBackendID: activeBackendID,
	}

	for _, deviceConfig := range cfg.ReplicationDevices {
		if deviceConfig.BackendID == "" {
			return nil, errors.InvalidConfigError("replication device is missing a backend id")
		}
		if deviceConfig.BackendID == drivers.ReplicationDefaultBackendID {
			return nil, errors.InvalidConfigError(
				`replication device may not use the reserved backend id "default"`)
		}
		if deviceConfig.MaxTimeOutOfSync < 0 {
			return nil, errors.InvalidConfigError(
				"maxTimeOutOfSync for backend %s must be >= 0", deviceConfig.BackendID)
		}
		if deviceConfig.MaxTimeOutOfSync == 0 {
			deviceConfig.MaxTimeOutOfSync = drivers.DefaultMaxTimeOutOfSync
		}
		manager.devices[deviceConfig.BackendID] = newReplicationDevice(deviceConfig.BackendID, deviceConfig, factory)
	}

	if activeBackendID != "" && activeBackendID != drivers.ReplicationDefaultBackendID {
		if _, ok := manager.devices[activeBackendID]; !ok {
			return nil, errors.InvalidConfigError(
				"active backend %s is not a configured replication device", activeBackendID)
		}
		Logc(ctx).WithField("backend", activeBackendID).Info("Service starting in failed-over state.")
	}

	return manager, nil
}

// ActiveBackendID reports the currently active backend; empty means the
// default device.
func (m *ReplicationManager) ActiveBackendID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeBackendID
}

// IsFailedOver reports whether calls are being routed to a secondary.
func (m *ReplicationManager) IsFailedOver() bool {
	id := m.ActiveBackendID()
	return id != "" && id != drivers.ReplicationDefaultBackendID
}

func (m *ReplicationManager) activeDevice() *ReplicationDevice {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.activeBackendID == "" || m.activeBackendID == drivers.ReplicationDefaultBackendID {
		return m.defaultDevice
	}
	return m.devices[m.activeBackendID]
}

// ActiveAdapter resolves to exactly one set-up adapter: the secondary's when
// failed over, the default's otherwise.
func (m *ReplicationManager) ActiveAdapter(ctx context.Context) (*CommonAdapter, error) {
	device := m.activeDevice()
	if device == nil {
		return nil, fmt.Errorf("active backend %s has no configured device", m.ActiveBackendID())
	}
	return device.Adapter(ctx)
}

// Failover redirects service to the named backend. Failing over to a
// secondary attempts to fail the array replication sessions over to it, but
// routing is reassigned even when sessions cannot be failed over: the primary
// is presumed down, so rerouting must not depend on it. Session errors are
// reported to the caller after the reroute. Failing back to "default" only
// reassigns routing, with no automatic rollback of session state.
func (m *ReplicationManager) Failover(ctx context.Context, backendID string) error {
	if backendID == "" {
		backendID = drivers.ReplicationDefaultBackendID
	}

	var sessionErr error
	if backendID != drivers.ReplicationDefaultBackendID {
		device, ok := m.devices[backendID]
		if !ok {
			return errors.InvalidInputError("unknown replication backend %s", backendID)
		}

		adapter, err := device.Adapter(ctx)
		if err != nil {
			return err
		}
		if err = adapter.FailoverSessions(ctx, false); err != nil {
			sessionErr = fmt.Errorf("failover of replication sessions to backend %s failed: %v",
				backendID, err)
			Logc(ctx).WithFields(LogFields{
				"backend": backendID,
				"error":   err,
			}).Error("Replication sessions could not be failed over; rerouting anyway.")
		}
	}

	m.mu.Lock()
	m.activeBackendID = backendID
	m.mu.Unlock()

	Logc(ctx).WithField("backend", backendID).Info("Service failed over.")
	return sessionErr
}
