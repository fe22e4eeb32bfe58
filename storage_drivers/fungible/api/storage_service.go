// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"

	"github.com/blockgate/blockgate/utils/errors"
)

// StorageAPI is the volume-facing surface of the composer API.
type StorageAPI interface {
	CreateVolume(ctx context.Context, spec *VolumeSpec) (string, error)
	GetVolume(ctx context.Context, volumeUUID string) (*Volume, error)
	GetVolumeByName(ctx context.Context, name string) (*Volume, error)
	DeleteVolume(ctx context.Context, volumeUUID string) error
	ResizeVolume(ctx context.Context, volumeUUID string, newSizeBytes int64) error
	RenameVolume(ctx context.Context, volumeUUID, newName string) error
	CreateSnapshot(ctx context.Context, volumeUUID, name string) (string, error)
	GetSnapshots(ctx context.Context, volumeUUID string) ([]Snapshot, error)
	DeleteSnapshot(ctx context.Context, snapshotUUID string) error
	AttachVolume(ctx context.Context, volumeUUID string, spec *PortSpec) (*Port, error)
	DetachVolume(ctx context.Context, portUUID string) error
	GetClusterCapacity(ctx context.Context) (*ClusterCapacity, error)
}

// StorageService implements StorageAPI against /storage.
type StorageService struct {
	client *Client
}

// CreateVolume creates a volume and returns its uuid. A name collision is
// resolved by fetching the existing volume instead of failing.
func (s *StorageService) CreateVolume(ctx context.Context, spec *VolumeSpec) (string, error) {
	if err := spec.Validate(strfmt.Default); err != nil {
		return "", errors.WrapWithInvalidInputError(err, "invalid volume spec")
	}

	var result dataEnvelope[Volume]
	err := s.client.submit(ctx, &operation{
		id:      "create_volume",
		method:  http.MethodPost,
		path:    "/storage/volumes",
		body:    spec,
		payload: &result,
	})
	if errors.IsAlreadyExistsError(err) {
		existing, getErr := s.GetVolumeByName(ctx, swag.StringValue(spec.Name))
		if getErr != nil {
			return "", getErr
		}
		return existing.UUID, nil
	}
	if err != nil {
		return "", err
	}
	return result.Data.UUID, nil
}

func (s *StorageService) GetVolume(ctx context.Context, volumeUUID string) (*Volume, error) {
	var result dataEnvelope[Volume]
	err := s.client.submit(ctx, &operation{
		id:         "get_volume",
		method:     http.MethodGet,
		path:       "/storage/volumes/{volume_uuid}",
		pathParams: map[string]string{"volume_uuid": volumeUUID},
		payload:    &result,
	})
	if err != nil {
		return nil, err
	}
	return &result.Data, nil
}

func (s *StorageService) GetVolumeByName(ctx context.Context, name string) (*Volume, error) {
	var result dataEnvelope[[]Volume]
	err := s.client.submit(ctx, &operation{
		id:      "get_volumes",
		method:  http.MethodGet,
		path:    "/storage/volumes",
		query:   url.Values{"name": []string{name}},
		payload: &result,
	})
	if err != nil {
		return nil, err
	}
	for i := range result.Data {
		if result.Data[i].Name == name {
			return &result.Data[i], nil
		}
	}
	return nil, errors.NotFoundError("volume %s not found", name)
}

// DeleteVolume is a no-op when the volume is already gone. A conflict means
// ports are still attached and is surfaced as an in-use error.
func (s *StorageService) DeleteVolume(ctx context.Context, volumeUUID string) error {
	err := s.client.submit(ctx, &operation{
		id:            "delete_volume",
		method:        http.MethodDelete,
		path:          "/storage/volumes/{volume_uuid}",
		pathParams:    map[string]string{"volume_uuid": volumeUUID},
		conflictInUse: true,
	})
	if errors.IsNotFoundError(err) {
		return nil
	}
	return err
}

func (s *StorageService) ResizeVolume(ctx context.Context, volumeUUID string, newSizeBytes int64) error {
	return s.updateVolume(ctx, volumeUUID, &VolumeUpdateSpec{
		Op:   swag.String(UpdateOpResize),
		Size: newSizeBytes,
	})
}

func (s *StorageService) RenameVolume(ctx context.Context, volumeUUID, newName string) error {
	return s.updateVolume(ctx, volumeUUID, &VolumeUpdateSpec{
		Op:   swag.String(UpdateOpRename),
		Name: newName,
	})
}

func (s *StorageService) updateVolume(ctx context.Context, volumeUUID string, spec *VolumeUpdateSpec) error {
	if err := spec.Validate(strfmt.Default); err != nil {
		return errors.WrapWithInvalidInputError(err, "invalid volume update spec")
	}
	return s.client.submit(ctx, &operation{
		id:         "update_volume",
		method:     http.MethodPatch,
		path:       "/storage/volumes/{volume_uuid}",
		pathParams: map[string]string{"volume_uuid": volumeUUID},
		body:       spec,
	})
}

// CreateSnapshot creates a snapshot and returns its uuid, resolving name
// collisions by fetching the existing snapshot.
func (s *StorageService) CreateSnapshot(ctx context.Context, volumeUUID, name string) (string, error) {
	var result dataEnvelope[Snapshot]
	err := s.client.submit(ctx, &operation{
		id:         "create_snapshot",
		method:     http.MethodPost,
		path:       "/storage/volumes/{volume_uuid}/snapshots",
		pathParams: map[string]string{"volume_uuid": volumeUUID},
		body:       &SnapshotSpec{Name: swag.String(name)},
		payload:    &result,
	})
	if errors.IsAlreadyExistsError(err) {
		snapshots, getErr := s.GetSnapshots(ctx, volumeUUID)
		if getErr != nil {
			return "", getErr
		}
		for _, snapshot := range snapshots {
			if snapshot.Name == name {
				return snapshot.UUID, nil
			}
		}
		return "", err
	}
	if err != nil {
		return "", err
	}
	return result.Data.UUID, nil
}

func (s *StorageService) GetSnapshots(ctx context.Context, volumeUUID string) ([]Snapshot, error) {
	var result dataEnvelope[[]Snapshot]
	err := s.client.submit(ctx, &operation{
		id:         "get_snapshots",
		method:     http.MethodGet,
		path:       "/storage/volumes/{volume_uuid}/snapshots",
		pathParams: map[string]string{"volume_uuid": volumeUUID},
		payload:    &result,
	})
	if err != nil {
		return nil, err
	}
	return result.Data, nil
}

func (s *StorageService) DeleteSnapshot(ctx context.Context, snapshotUUID string) error {
	err := s.client.submit(ctx, &operation{
		id:            "delete_snapshot",
		method:        http.MethodDelete,
		path:          "/storage/snapshots/{snapshot_uuid}",
		pathParams:    map[string]string{"snapshot_uuid": snapshotUUID},
		conflictInUse: true,
	})
	if errors.IsNotFoundError(err) {
		return nil
	}
	return err
}

// AttachVolume creates a port exposing the volume to the host named in the
// spec. If the port already exists the existing attachment is returned.
func (s *StorageService) AttachVolume(ctx context.Context, volumeUUID string, spec *PortSpec) (*Port, error) {
	if err := spec.Validate(strfmt.Default); err != nil {
		return nil, errors.WrapWithInvalidInputError(err, "invalid port spec")
	}

	var result dataEnvelope[Port]
	err := s.client.submit(ctx, &operation{
		id:         "attach_volume",
		method:     http.MethodPost,
		path:       "/storage/volumes/{volume_uuid}/ports",
		pathParams: map[string]string{"volume_uuid": volumeUUID},
		body:       spec,
		payload:    &result,
	})
	if errors.IsAlreadyExistsError(err) {
		return s.findPort(ctx, volumeUUID, swag.StringValue(spec.HostNQN))
	}
	if err != nil {
		return nil, err
	}
	return &result.Data, nil
}

func (s *StorageService) findPort(ctx context.Context, volumeUUID, hostNQN string) (*Port, error) {
	volume, err := s.GetVolume(ctx, volumeUUID)
	if err != nil {
		return nil, err
	}
	for _, port := range volume.Ports {
		if port.HostNQN == hostNQN {
			return &port, nil
		}
	}
	return nil, errors.NotFoundError("volume %s has no port for host %s", volumeUUID, hostNQN)
}

// DetachVolume is a no-op when the port is already gone.
func (s *StorageService) DetachVolume(ctx context.Context, portUUID string) error {
	err := s.client.submit(ctx, &operation{
		id:         "detach_volume",
		method:     http.MethodDelete,
		path:       "/storage/ports/{port_uuid}",
		pathParams: map[string]string{"port_uuid": portUUID},
	})
	if errors.IsNotFoundError(err) {
		return nil
	}
	return err
}

func (s *StorageService) GetClusterCapacity(ctx context.Context) (*ClusterCapacity, error) {
	var result dataEnvelope[ClusterCapacity]
	err := s.client.submit(ctx, &operation{
		id:      "get_cluster_capacity",
		method:  http.MethodGet,
		path:    "/storage/pools/capacity",
		payload: &result,
	})
	if err != nil {
		return nil, err
	}
	return &result.Data, nil
}
