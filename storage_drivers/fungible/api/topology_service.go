// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/blockgate/blockgate/utils/errors"
)

// TopologyAPI is the host-facing surface of the composer API.
type TopologyAPI interface {
	GetHostByNQN(ctx context.Context, hostNQN string) (*Host, error)
}

// TopologyService implements TopologyAPI against /topology.
type TopologyService struct {
	client *Client
}

func (s *TopologyService) GetHostByNQN(ctx context.Context, hostNQN string) (*Host, error) {
	var result dataEnvelope[[]Host]
	err := s.client.submit(ctx, &operation{
		id:      "get_hosts",
		method:  http.MethodGet,
		path:    "/topology/hosts",
		query:   url.Values{"host_nqn": []string{hostNQN}},
		payload: &result,
	})
	if err != nil {
		return nil, err
	}
	for i := range result.Data {
		if result.Data[i].HostNQN == hostNQN {
			return &result.Data[i], nil
		}
	}
	return nil, errors.NotFoundError("host with NQN %s not registered in topology", hostNQN)
}
