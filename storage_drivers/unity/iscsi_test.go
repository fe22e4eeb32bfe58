// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package unity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/blockgate/blockgate/mocks/mock_unity_api"
	"github.com/blockgate/blockgate/storage"
	"github.com/blockgate/blockgate/storage_drivers/unity/api"
	"github.com/blockgate/blockgate/utils/errors"
)

func TestISCSIInitiatorIDs(t *testing.T) {
	adapter, _ := newTestISCSIAdapter(nil, &fakeCopier{})

	ids, err := adapter.InitiatorIDs(&storage.Connector{
		Host:      "compute-1",
		Initiator: "iqn.1993-08.org.debian:01:abc",
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"iqn.1993-08.org.debian:01:abc"}, ids)

	_, err = adapter.InitiatorIDs(&storage.Connector{Host: "compute-1"})
	assert.True(t, errors.IsInvalidInputError(err))
}

func TestISCSIConnectionInfoMultipath(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})
	ctx := context.Background()

	portals := []api.IscsiPortal{
		{ID: "if_1", IPAddress: "10.0.0.10", Port: 3260, IQN: "iqn.1992-04.com.emc:cx.fnm001.a0", PortID: "spa_eth2"},
		{ID: "if_2", IPAddress: "10.0.0.11", Port: 3260, IQN: "iqn.1992-04.com.emc:cx.fnm001.b0", PortID: "spb_eth2"},
	}
	client.EXPECT().GetIscsiPortals(ctx).Return(portals, nil)

	connector := &storage.Connector{
		Host:      "compute-1",
		Initiator: "iqn.1993-08.org.debian:01:abc",
		Multipath: true,
	}

	info, err := adapter.ConnectionInfo(ctx, connector, 7)

	assert.NoError(t, err)
	assert.Equal(t, "iscsi", info.DriverVolumeType)
	assert.Contains(t, []string{"10.0.0.10:3260", "10.0.0.11:3260"}, info.ISCSI.TargetPortal)
	assert.Equal(t, []string{"10.0.0.10:3260", "10.0.0.11:3260"}, info.ISCSI.TargetPortals)
	assert.Equal(t, []string{
		"iqn.1992-04.com.emc:cx.fnm001.a0",
		"iqn.1992-04.com.emc:cx.fnm001.b0",
	}, info.ISCSI.TargetIQNs)
	assert.Equal(t, []int{7, 7}, info.ISCSI.TargetLuns)
}

func TestISCSIConnectionInfoSinglePath(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, _ := newTestISCSIAdapter(client, &fakeCopier{})
	ctx := context.Background()

	client.EXPECT().GetIscsiPortals(ctx).Return([]api.IscsiPortal{
		{ID: "if_1", IPAddress: "10.0.0.10", Port: 3260, IQN: "iqn.1992-04.com.emc:cx.fnm001.a0", PortID: "spa_eth2"},
	}, nil)

	connector := &storage.Connector{Host: "compute-1", Initiator: "iqn.1993-08.org.debian:01:abc"}
	info, err := adapter.ConnectionInfo(ctx, connector, 7)

	assert.NoError(t, err)
	assert.Equal(t, "10.0.0.10:3260", info.ISCSI.TargetPortal)
	assert.Equal(t, "iqn.1992-04.com.emc:cx.fnm001.a0", info.ISCSI.TargetIQN)
	assert.Equal(t, 7, info.ISCSI.TargetLun)
	assert.Empty(t, info.ISCSI.TargetPortals)
}

func TestISCSIConnectionInfoFiltersIoPorts(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, cfg := newTestISCSIAdapter(client, &fakeCopier{})
	cfg.IoPorts = []string{"spa_*"}
	ctx := context.Background()

	client.EXPECT().GetIscsiPortals(ctx).Return([]api.IscsiPortal{
		{ID: "if_1", IPAddress: "10.0.0.10", Port: 3260, PortID: "spa_eth2"},
		{ID: "if_2", IPAddress: "10.0.0.11", Port: 3260, PortID: "spb_eth2"},
	}, nil)

	connector := &storage.Connector{Host: "compute-1", Initiator: "iqn.1993-08.org.debian:01:abc"}
	info, err := adapter.ConnectionInfo(ctx, connector, 7)

	assert.NoError(t, err)
	assert.Equal(t, "10.0.0.10:3260", info.ISCSI.TargetPortal)
}

func TestISCSIConnectionInfoNoUsablePortals(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_unity_api.NewMockUnityAPI(ctrl)
	adapter, cfg := newTestISCSIAdapter(client, &fakeCopier{})
	cfg.IoPorts = []string{"spc_*"}
	ctx := context.Background()

	client.EXPECT().GetIscsiPortals(ctx).Return([]api.IscsiPortal{
		{ID: "if_1", IPAddress: "10.0.0.10", Port: 3260, PortID: "spa_eth2"},
	}, nil)

	connector := &storage.Connector{Host: "compute-1", Initiator: "iqn.1993-08.org.debian:01:abc"}
	_, err := adapter.ConnectionInfo(ctx, connector, 7)
	assert.Error(t, err)
}

func TestISCSITerminateInfo(t *testing.T) {
	adapter, _ := newTestISCSIAdapter(nil, &fakeCopier{})

	info, err := adapter.TerminateInfo(context.Background(), &storage.Connector{Host: "compute-1"}, true)
	assert.NoError(t, err)
	assert.Equal(t, "iscsi", info.DriverVolumeType)
	assert.Nil(t, info.ISCSI)
}

func TestFilterPortals(t *testing.T) {
	portals := []api.IscsiPortal{
		{ID: "if_1", PortID: "spa_eth2"},
		{ID: "if_2", PortID: "spa_eth3"},
		{ID: "if_3", PortID: "spb_eth2"},
	}

	assert.Len(t, filterPortals(portals, nil), 3)
	assert.Len(t, filterPortals(portals, []string{"spa_*"}), 2)
	assert.Len(t, filterPortals(portals, []string{"*_eth2"}), 2)
	assert.Empty(t, filterPortals(portals, []string{"nomatch"}))
}
