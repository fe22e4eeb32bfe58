// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package unity

import (
	"fmt"
	"strings"

	"github.com/blockgate/blockgate/config"
)

const (
	providerLocationFieldSep = "|"
	providerLocationKVSep    = "^"
)

// BuildProviderLocation encodes a backend resource's identity into the opaque
// string the orchestrator persists with each volume or snapshot:
//
//	id^<id>|system^<serial>|type^<lun|snapshot>|version^<driver-version>
func BuildProviderLocation(resourceID, systemSerial string, resourceType config.ResourceType, version string) string {
	fields := []string{
		"id" + providerLocationKVSep + resourceID,
		"system" + providerLocationKVSep + systemSerial,
		"type" + providerLocationKVSep + string(resourceType),
		"version" + providerLocationKVSep + version,
	}
	return strings.Join(fields, providerLocationFieldSep)
}

// ExtractProviderLocation returns the value of the named field from a
// provider location string, or an error if the field is absent.
func ExtractProviderLocation(location, field string) (string, error) {
	for _, kv := range strings.Split(location, providerLocationFieldSep) {
		parts := strings.SplitN(kv, providerLocationKVSep, 2)
		if len(parts) == 2 && parts[0] == field {
			return parts[1], nil
		}
	}
	return "", fmt.Errorf("provider location %q has no field %q", location, field)
}

// ResourceIDFromProviderLocation is shorthand for the id field, the value
// needed by nearly every array call.
func ResourceIDFromProviderLocation(location string) (string, error) {
	return ExtractProviderLocation(location, "id")
}
