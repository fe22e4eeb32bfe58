// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package unity

import (
	"context"
	"fmt"
	"math/rand/v2"
	"path"

	"github.com/blockgate/blockgate/config"
	. "github.com/blockgate/blockgate/logging"
	"github.com/blockgate/blockgate/storage"
	"github.com/blockgate/blockgate/storage_drivers/unity/api"
	"github.com/blockgate/blockgate/utils/errors"
)

// ISCSIAdapter layers iSCSI target discovery over the common orchestration.
type ISCSIAdapter struct {
	*CommonAdapter
}

func NewISCSIAdapter(common *CommonAdapter) *ISCSIAdapter {
	adapter := &ISCSIAdapter{CommonAdapter: common}
	common.handler = adapter
	return adapter
}

func (a *ISCSIAdapter) Protocol() config.Protocol {
	return config.ProtocolISCSI
}

func (a *ISCSIAdapter) InitiatorType() string {
	return api.InitiatorTypeISCSI
}

func (a *ISCSIAdapter) InitiatorIDs(connector *storage.Connector) ([]string, error) {
	if connector.Initiator == "" {
		return nil, errors.InvalidInputError("connector for host %s has no iSCSI initiator", connector.Host)
	}
	return []string{connector.Initiator}, nil
}

// ConnectionInfo returns the target portals for the new attachment. Among
// equivalent portals the primary is chosen pseudo-randomly to spread load
// across the array's ethernet ports; multipath hosts get the full set.
func (a *ISCSIAdapter) ConnectionInfo(ctx context.Context, connector *storage.Connector,
	hlu int,
) (*storage.ConnectionInfo, error) {
	portals, err := a.client.GetIscsiPortals(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not query iSCSI portals: %v", err)
	}

	portals = filterPortals(portals, a.config.IoPorts)
	if len(portals) == 0 {
		return nil, errors.New("no usable iSCSI portals on the array")
	}

	primary := portals[rand.IntN(len(portals))]

	data := &storage.ISCSIConnectionData{
		TargetPortal: fmt.Sprintf("%s:%d", primary.IPAddress, primary.Port),
		TargetIQN:    primary.IQN,
		TargetLun:    hlu,
	}

	if connector.Multipath {
		for _, portal := range portals {
			data.TargetPortals = append(data.TargetPortals, fmt.Sprintf("%s:%d", portal.IPAddress, portal.Port))
			data.TargetIQNs = append(data.TargetIQNs, portal.IQN)
			data.TargetLuns = append(data.TargetLuns, hlu)
		}
	}

	Logc(ctx).WithFields(LogFields{
		"host":    connector.Host,
		"portal":  data.TargetPortal,
		"hlu":     hlu,
		"portals": len(portals),
	}).Debug("Built iSCSI connection info.")

	return &storage.ConnectionInfo{
		DriverVolumeType: string(config.ProtocolISCSI),
		ISCSI:            data,
	}, nil
}

func (a *ISCSIAdapter) TerminateInfo(_ context.Context, _ *storage.Connector, _ bool) (*storage.ConnectionInfo, error) {
	return &storage.ConnectionInfo{DriverVolumeType: string(config.ProtocolISCSI)}, nil
}

// filterPortals keeps portals whose ethernet port matches one of the
// configured io port patterns; with no patterns configured everything
// passes. Patterns may use shell-style wildcards, e.g. "spa_*".
func filterPortals(portals []api.IscsiPortal, ioPorts []string) []api.IscsiPortal {
	if len(ioPorts) == 0 {
		return portals
	}

	filtered := make([]api.IscsiPortal, 0, len(portals))
	for _, portal := range portals {
		for _, pattern := range ioPorts {
			if matched, _ := path.Match(pattern, portal.PortID); matched {
				filtered = append(filtered, portal)
				break
			}
		}
	}
	return filtered
}
