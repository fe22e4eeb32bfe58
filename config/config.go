// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package config

import (
	"fmt"
	"time"
)

type (
	Protocol      string
	DriverContext string
	ResourceType  string
)

type Telemetry struct {
	BlockgateVersion string `json:"version"`
	Platform         string `json:"platform"`
	PlatformVersion  string `json:"platformVersion"`
	Plugin           string `json:"plugin"`
}

const (
	/* Misc. orchestrator constants */
	OrchestratorName       = "blockgate"
	OrchestratorVersion    = "25.08.0"
	OrchestratorAPIVersion = "1"

	/* Protocol constants */
	ProtocolISCSI Protocol = "iscsi"
	ProtocolFC    Protocol = "fibre_channel"
	ProtocolNVMe  Protocol = "nvmeof"
	ProtocolAny   Protocol = ""

	/* Backend resource types tracked in provider locations */
	ResourceTypeLun      ResourceType = "lun"
	ResourceTypeSnapshot ResourceType = "snapshot"

	/* Driver names */
	UnityISCSIStorageDriverName = "unity-iscsi"
	UnityFCStorageDriverName    = "unity-fc"
	FungibleStorageDriverName   = "fungible-san"
	UnknownDriver               = "UnknownDriver"

	/* Driver contexts */
	ContextStandalone DriverContext = "standalone"
	ContextCSI        DriverContext = "csi"

	/* REST frontend constants */
	HTTPTimeout        = 90 * time.Second
	MaxRESTRequestSize = 40960

	/* URL constants for the REST frontend */
	VersionURL    = "/" + OrchestratorName + "/v" + OrchestratorAPIVersion + "/version"
	VolumeURL     = "/" + OrchestratorName + "/v" + OrchestratorAPIVersion + "/volume"
	SnapshotURL   = "/" + OrchestratorName + "/v" + OrchestratorAPIVersion + "/snapshot"
	BackendURL    = "/" + OrchestratorName + "/v" + OrchestratorAPIVersion + "/backend"
	ConnectionURL = "/" + OrchestratorName + "/v" + OrchestratorAPIVersion + "/connection"
)

var (
	validProtocols = map[Protocol]bool{
		ProtocolISCSI: true,
		ProtocolFC:    true,
		ProtocolNVMe:  true,
		ProtocolAny:   true,
	}

	// BuildHash is the git hash the binary was built from
	BuildHash = "unknown"

	// BuildType is the type of build: custom, beta or stable
	BuildType = "custom"

	// BuildTime is the time the binary was built
	BuildTime = "unknown"

	OrchestratorTelemetry = Telemetry{
		BlockgateVersion: OrchestratorVersion,
		Platform:         "standalone",
	}
)

func IsValidProtocol(p Protocol) bool {
	_, ok := validProtocols[p]
	return ok
}

func GetValidProtocolNames() []string {
	ret := make([]string, 0, len(validProtocols))
	for key := range validProtocols {
		ret = append(ret, string(key))
	}
	return ret
}

// Version returns the full human-readable orchestrator version string.
func Version() string {
	return fmt.Sprintf("%v (%v build, hash %v)", OrchestratorVersion, BuildType, BuildHash)
}
