// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package rest

import (
	"net/http"

	"github.com/blockgate/blockgate/config"
)

type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc http.HandlerFunc
}

type Routes []Route

var routes = Routes{
	Route{
		"GetVersion",
		"GET",
		config.VersionURL,
		GetVersion,
	},
	Route{
		"AddVolume",
		"POST",
		config.VolumeURL,
		AddVolume,
	},
	Route{
		"CloneVolume",
		"POST",
		config.VolumeURL + "/clone",
		CloneVolume,
	},
	Route{
		"ImportVolume",
		"POST",
		config.VolumeURL + "/import",
		ImportVolume,
	},
	Route{
		"DeleteVolume",
		"DELETE",
		config.VolumeURL + "/{volume}",
		DeleteVolume,
	},
	Route{
		"ExtendVolume",
		"POST",
		config.VolumeURL + "/{volume}/extend",
		ExtendVolume,
	},
	Route{
		"AddSnapshot",
		"POST",
		config.SnapshotURL,
		AddSnapshot,
	},
	Route{
		"DeleteSnapshot",
		"DELETE",
		config.SnapshotURL + "/{volume}/{snapshot}",
		DeleteSnapshot,
	},
	Route{
		"RestoreSnapshot",
		"POST",
		config.SnapshotURL + "/{volume}/{snapshot}/restore",
		RestoreSnapshot,
	},
	Route{
		"InitializeConnection",
		"POST",
		config.ConnectionURL + "/initialize",
		InitializeConnection,
	},
	Route{
		"TerminateConnection",
		"POST",
		config.ConnectionURL + "/terminate",
		TerminateConnection,
	},
	Route{
		"GetBackendStats",
		"GET",
		config.BackendURL + "/stats",
		GetBackendStats,
	},
	Route{
		"FailoverBackend",
		"POST",
		config.BackendURL + "/failover",
		FailoverBackend,
	},
}
