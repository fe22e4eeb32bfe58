// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package unity

import (
	"context"
	"sort"
)

// FabricMapping is one fabric's view of which initiator and target ports can
// see each other, as reported by a zone lookup service.
type FabricMapping struct {
	InitiatorPortWWNs []string
	TargetPortWWNs    []string
}

// FCZoneLookupService resolves fabric connectivity between host initiators
// and array targets. Implementations typically front a SAN switch vendor's
// nameserver API; when none is configured the FC adapter falls back to
// logged-in-port enumeration.
type FCZoneLookupService interface {
	GetDeviceMapping(ctx context.Context, initiatorWWNs, targetWWNs []string) (map[string]FabricMapping, error)
}

// buildInitiatorTargetMap flattens per-fabric mappings into the zone manager
// contract: a deduplicated target WWN list and a fan-out map carrying every
// initiator WWN that appears in any fabric.
func buildInitiatorTargetMap(mapping map[string]FabricMapping) ([]string, map[string][]string) {
	targetSet := make(map[string]struct{})
	initiatorTargetMap := make(map[string][]string)

	fabrics := make([]string, 0, len(mapping))
	for fabric := range mapping {
		fabrics = append(fabrics, fabric)
	}
	sort.Strings(fabrics)

	for _, fabric := range fabrics {
		fabricMapping := mapping[fabric]
		for _, target := range fabricMapping.TargetPortWWNs {
			targetSet[target] = struct{}{}
		}
		for _, initiator := range fabricMapping.InitiatorPortWWNs {
			initiatorTargetMap[initiator] = append(initiatorTargetMap[initiator], fabricMapping.TargetPortWWNs...)
		}
	}

	targets := make([]string, 0, len(targetSet))
	for target := range targetSet {
		targets = append(targets, target)
	}
	sort.Strings(targets)

	return targets, initiatorTargetMap
}
