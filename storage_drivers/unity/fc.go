// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package unity

import (
	"context"
	"fmt"
	"path"

	"github.com/blockgate/blockgate/config"
	. "github.com/blockgate/blockgate/logging"
	"github.com/blockgate/blockgate/storage"
	"github.com/blockgate/blockgate/storage_drivers/unity/api"
	"github.com/blockgate/blockgate/utils/errors"
)

// FCAdapter layers fibre channel target discovery over the common
// orchestration. With a zone lookup service it computes initiator-target
// fan-out maps for the zone manager; without one it falls back to
// enumerating logged-in front-end ports.
type FCAdapter struct {
	*CommonAdapter
	lookupService FCZoneLookupService
}

func NewFCAdapter(common *CommonAdapter, lookupService FCZoneLookupService) *FCAdapter {
	adapter := &FCAdapter{
		CommonAdapter: common,
		lookupService: lookupService,
	}
	common.handler = adapter
	return adapter
}

func (a *FCAdapter) Protocol() config.Protocol {
	return config.ProtocolFC
}

func (a *FCAdapter) InitiatorType() string {
	return api.InitiatorTypeFC
}

// InitiatorIDs pairs node and port WWNs into the "wwnn:wwpn" form the array
// registers.
func (a *FCAdapter) InitiatorIDs(connector *storage.Connector) ([]string, error) {
	if !connector.HasFCInitiators() {
		return nil, errors.InvalidInputError("connector for host %s has no FC initiators", connector.Host)
	}
	if len(connector.WWNNs) != len(connector.WWPNs) {
		return nil, errors.InvalidInputError(
			"connector for host %s has %d WWNNs for %d WWPNs",
			connector.Host, len(connector.WWNNs), len(connector.WWPNs))
	}

	ids := make([]string, 0, len(connector.WWPNs))
	for i, wwpn := range connector.WWPNs {
		ids = append(ids, fmt.Sprintf("%s:%s", connector.WWNNs[i], wwpn))
	}
	return ids, nil
}

func (a *FCAdapter) ConnectionInfo(ctx context.Context, connector *storage.Connector,
	hlu int,
) (*storage.ConnectionInfo, error) {
	targets, initiatorTargetMap, err := a.resolveTargets(ctx, connector)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, errors.New("no reachable FC target ports on the array")
	}

	Logc(ctx).WithFields(LogFields{
		"host":    connector.Host,
		"targets": len(targets),
		"zoned":   initiatorTargetMap != nil,
	}).Debug("Built FC connection info.")

	return &storage.ConnectionInfo{
		DriverVolumeType: string(config.ProtocolFC),
		FC: &storage.FCConnectionData{
			TargetWWNs:         targets,
			TargetLun:          hlu,
			InitiatorTargetMap: initiatorTargetMap,
		},
	}, nil
}

// TerminateInfo returns target WWNs for zone teardown, but only when
// auto-zoning is on and the host holds no remaining attachments; tearing
// down zones while other LUNs are attached would cut live paths.
func (a *FCAdapter) TerminateInfo(ctx context.Context, connector *storage.Connector,
	hostIsClean bool,
) (*storage.ConnectionInfo, error) {
	info := &storage.ConnectionInfo{DriverVolumeType: string(config.ProtocolFC)}

	if !a.config.ZoningEnabled || !hostIsClean {
		return info, nil
	}

	targets, initiatorTargetMap, err := a.resolveTargets(ctx, connector)
	if err != nil {
		return nil, err
	}

	info.FC = &storage.FCConnectionData{
		TargetWWNs:         targets,
		InitiatorTargetMap: initiatorTargetMap,
	}
	return info, nil
}

// resolveTargets finds the array target WWNs reachable from the connector.
// The lookup-service path returns a deduplicated target list plus a fan-out
// map covering every initiator WWN; the fallback path enumerates logged-in
// ports and returns no map.
func (a *FCAdapter) resolveTargets(ctx context.Context, connector *storage.Connector,
) ([]string, map[string][]string, error) {
	ports, err := a.client.GetFcPorts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("could not query FC ports: %v", err)
	}
	ports = filterFcPorts(ports, a.config.IoPorts)

	if a.lookupService == nil {
		var targets []string
		for _, port := range ports {
			if port.IsLinkUp {
				targets = append(targets, port.WWN)
			}
		}
		return targets, nil, nil
	}

	allTargets := make([]string, 0, len(ports))
	for _, port := range ports {
		allTargets = append(allTargets, port.WWN)
	}

	mapping, err := a.lookupService.GetDeviceMapping(ctx, connector.WWPNs, allTargets)
	if err != nil {
		return nil, nil, fmt.Errorf("FC zone lookup failed: %v", err)
	}

	targets, initiatorTargetMap := buildInitiatorTargetMap(mapping)

	// Initiators the fabric did not report still belong in the map so the
	// zone manager can reconcile every connector port.
	for _, wwpn := range connector.WWPNs {
		if _, ok := initiatorTargetMap[wwpn]; !ok {
			initiatorTargetMap[wwpn] = targets
		}
	}

	return targets, initiatorTargetMap, nil
}

func filterFcPorts(ports []api.FcPort, ioPorts []string) []api.FcPort {
	if len(ioPorts) == 0 {
		return ports
	}

	filtered := make([]api.FcPort, 0, len(ports))
	for _, port := range ports {
		for _, pattern := range ioPorts {
			if matched, _ := path.Match(pattern, port.PortID); matched {
				filtered = append(filtered, port)
				break
			}
		}
	}
	return filtered
}
