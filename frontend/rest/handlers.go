// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/blockgate/blockgate/config"
	. "github.com/blockgate/blockgate/logging"
	"github.com/blockgate/blockgate/storage"
	"github.com/blockgate/blockgate/utils/errors"
)

// httpStatusCodeForError maps driver error types onto HTTP status codes.
func httpStatusCodeForError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.IsNotFoundError(err):
		return http.StatusNotFound
	case errors.IsAlreadyExistsError(err):
		return http.StatusConflict
	case errors.IsInUseError(err):
		return http.StatusConflict
	case errors.IsInvalidInputError(err), errors.IsInvalidConfigError(err):
		return http.StatusBadRequest
	case errors.IsUnsupportedError(err):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeHTTPResponse(w http.ResponseWriter, response interface{}, httpStatusCode int) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(httpStatusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		Log().WithFields(LogFields{
			"response": response,
			"error":    err,
		}).Error("Failed to write HTTP response.")
	}
}

func readJSONBody(r *http.Request, out interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, config.MaxRESTRequestSize))
	if err != nil {
		return errors.InvalidInputError("could not read request body: %v", err)
	}
	if err = json.Unmarshal(body, out); err != nil {
		return errors.InvalidInputError("could not decode request body: %v", err)
	}
	return nil
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

type VersionResponse struct {
	Version    string           `json:"version"`
	APIVersion string           `json:"apiVersion"`
	Telemetry  config.Telemetry `json:"telemetry"`
}

func GetVersion(w http.ResponseWriter, r *http.Request) {
	response := &VersionResponse{
		Version:    config.Version(),
		APIVersion: config.OrchestratorAPIVersion,
		Telemetry:  config.OrchestratorTelemetry,
	}
	writeHTTPResponse(w, response, http.StatusOK)
}

type VolumeResponse struct {
	Volume *storage.VolumeConfig `json:"volume,omitempty"`
	Error  string                `json:"error,omitempty"`
}

func AddVolume(w http.ResponseWriter, r *http.Request) {
	volConfig := &storage.VolumeConfig{}
	if err := readJSONBody(r, volConfig); err != nil {
		writeHTTPResponse(w, &VolumeResponse{Error: errorMessage(err)}, httpStatusCodeForError(err))
		return
	}

	err := driver.CreateVolume(r.Context(), volConfig)
	if err != nil {
		writeHTTPResponse(w, &VolumeResponse{Error: errorMessage(err)}, httpStatusCodeForError(err))
		return
	}
	writeHTTPResponse(w, &VolumeResponse{Volume: volConfig}, http.StatusCreated)
}

// CloneVolumeRequest creates a volume from another volume or, when
// SourceSnapshot is set, from a snapshot.
type CloneVolumeRequest struct {
	Volume         *storage.VolumeConfig   `json:"volume"`
	SourceVolume   *storage.VolumeConfig   `json:"sourceVolume,omitempty"`
	SourceSnapshot *storage.SnapshotConfig `json:"sourceSnapshot,omitempty"`
}

func CloneVolume(w http.ResponseWriter, r *http.Request) {
	request := &CloneVolumeRequest{}
	if err := readJSONBody(r, request); err != nil {
		writeHTTPResponse(w, &VolumeResponse{Error: errorMessage(err)}, httpStatusCodeForError(err))
		return
	}

	var err error
	switch {
	case request.Volume == nil:
		err = errors.InvalidInputError("clone request has no volume")
	case request.SourceSnapshot != nil:
		err = driver.CreateVolumeFromSnapshot(r.Context(), request.Volume, request.SourceSnapshot)
	case request.SourceVolume != nil:
		err = driver.CreateClonedVolume(r.Context(), request.Volume, request.SourceVolume)
	default:
		err = errors.InvalidInputError("clone request has no source volume or snapshot")
	}

	if err != nil {
		writeHTTPResponse(w, &VolumeResponse{Error: errorMessage(err)}, httpStatusCodeForError(err))
		return
	}
	writeHTTPResponse(w, &VolumeResponse{Volume: request.Volume}, http.StatusCreated)
}

// ImportVolumeRequest adopts a pre-existing backend volume under management.
type ImportVolumeRequest struct {
	Volume      *storage.VolumeConfig `json:"volume"`
	ExistingRef string                `json:"existingRef"`
}

type ImportVolumeResponse struct {
	Volume    *storage.VolumeConfig `json:"volume,omitempty"`
	SizeBytes uint64                `json:"sizeBytes,omitempty"`
	Error     string                `json:"error,omitempty"`
}

func ImportVolume(w http.ResponseWriter, r *http.Request) {
	request := &ImportVolumeRequest{}
	if err := readJSONBody(r, request); err != nil {
		writeHTTPResponse(w, &ImportVolumeResponse{Error: errorMessage(err)}, httpStatusCodeForError(err))
		return
	}
	if request.Volume == nil || request.ExistingRef == "" {
		err := errors.InvalidInputError("import request needs a volume and an existing reference")
		writeHTTPResponse(w, &ImportVolumeResponse{Error: errorMessage(err)}, httpStatusCodeForError(err))
		return
	}

	sizeBytes, err := driver.ManageExistingGetSize(r.Context(), request.ExistingRef)
	if err != nil {
		writeHTTPResponse(w, &ImportVolumeResponse{Error: errorMessage(err)}, httpStatusCodeForError(err))
		return
	}

	if err = driver.ManageExisting(r.Context(), request.Volume, request.ExistingRef); err != nil {
		writeHTTPResponse(w, &ImportVolumeResponse{Error: errorMessage(err)}, httpStatusCodeForError(err))
		return
	}
	writeHTTPResponse(w, &ImportVolumeResponse{Volume: request.Volume, SizeBytes: sizeBytes}, http.StatusCreated)
}

func DeleteVolume(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	volConfig := &storage.VolumeConfig{
		Name:         vars["volume"],
		InternalName: vars["volume"],
	}

	err := driver.DeleteVolume(r.Context(), volConfig)
	writeHTTPResponse(w, &VolumeResponse{Error: errorMessage(err)}, httpStatusCodeForError(err))
}

type ExtendVolumeRequest struct {
	SizeBytes uint64 `json:"sizeBytes"`
}

func ExtendVolume(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	volConfig := &storage.VolumeConfig{
		Name:         vars["volume"],
		InternalName: vars["volume"],
	}

	request := &ExtendVolumeRequest{}
	if err := readJSONBody(r, request); err != nil {
		writeHTTPResponse(w, &VolumeResponse{Error: errorMessage(err)}, httpStatusCodeForError(err))
		return
	}
	if request.SizeBytes == 0 {
		err := errors.InvalidInputError("extend request needs a non-zero size")
		writeHTTPResponse(w, &VolumeResponse{Error: errorMessage(err)}, httpStatusCodeForError(err))
		return
	}

	err := driver.ExtendVolume(r.Context(), volConfig, request.SizeBytes)
	writeHTTPResponse(w, &VolumeResponse{Error: errorMessage(err)}, httpStatusCodeForError(err))
}

type SnapshotResponse struct {
	Snapshot *storage.SnapshotConfig `json:"snapshot,omitempty"`
	Error    string                  `json:"error,omitempty"`
}

func AddSnapshot(w http.ResponseWriter, r *http.Request) {
	snapConfig := &storage.SnapshotConfig{}
	if err := readJSONBody(r, snapConfig); err != nil {
		writeHTTPResponse(w, &SnapshotResponse{Error: errorMessage(err)}, httpStatusCodeForError(err))
		return
	}

	err := driver.CreateSnapshot(r.Context(), snapConfig)
	if err != nil {
		writeHTTPResponse(w, &SnapshotResponse{Error: errorMessage(err)}, httpStatusCodeForError(err))
		return
	}
	writeHTTPResponse(w, &SnapshotResponse{Snapshot: snapConfig}, http.StatusCreated)
}

func DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	snapConfig := &storage.SnapshotConfig{
		Name:               vars["snapshot"],
		InternalName:       vars["snapshot"],
		VolumeName:         vars["volume"],
		VolumeInternalName: vars["volume"],
	}

	err := driver.DeleteSnapshot(r.Context(), snapConfig)
	writeHTTPResponse(w, &SnapshotResponse{Error: errorMessage(err)}, httpStatusCodeForError(err))
}

func RestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	volConfig := &storage.VolumeConfig{
		Name:         vars["volume"],
		InternalName: vars["volume"],
	}
	snapConfig := &storage.SnapshotConfig{
		Name:               vars["snapshot"],
		InternalName:       vars["snapshot"],
		VolumeName:         vars["volume"],
		VolumeInternalName: vars["volume"],
	}

	err := driver.RevertToSnapshot(r.Context(), volConfig, snapConfig)
	writeHTTPResponse(w, &SnapshotResponse{Error: errorMessage(err)}, httpStatusCodeForError(err))
}

// ConnectionRequest attaches or detaches a volume or, when Snapshot is set,
// a snapshot, for the given host connector.
type ConnectionRequest struct {
	Volume    *storage.VolumeConfig   `json:"volume,omitempty"`
	Snapshot  *storage.SnapshotConfig `json:"snapshot,omitempty"`
	Connector *storage.Connector      `json:"connector"`
}

type ConnectionResponse struct {
	ConnectionInfo *storage.ConnectionInfo `json:"connectionInfo,omitempty"`
	Error          string                  `json:"error,omitempty"`
}

func InitializeConnection(w http.ResponseWriter, r *http.Request) {
	handleConnection(w, r, driver.InitializeConnection, driver.InitializeConnectionSnapshot)
}

func TerminateConnection(w http.ResponseWriter, r *http.Request) {
	handleConnection(w, r, driver.TerminateConnection, driver.TerminateConnectionSnapshot)
}

func handleConnection(
	w http.ResponseWriter, r *http.Request,
	volumeOp func(ctx context.Context, volConfig *storage.VolumeConfig,
		connector *storage.Connector) (*storage.ConnectionInfo, error),
	snapshotOp func(ctx context.Context, snapConfig *storage.SnapshotConfig,
		connector *storage.Connector) (*storage.ConnectionInfo, error),
) {
	request := &ConnectionRequest{}
	if err := readJSONBody(r, request); err != nil {
		writeHTTPResponse(w, &ConnectionResponse{Error: errorMessage(err)}, httpStatusCodeForError(err))
		return
	}
	if request.Connector == nil {
		err := errors.InvalidInputError("connection request has no connector")
		writeHTTPResponse(w, &ConnectionResponse{Error: errorMessage(err)}, httpStatusCodeForError(err))
		return
	}

	var info *storage.ConnectionInfo
	var err error
	switch {
	case request.Snapshot != nil:
		info, err = snapshotOp(r.Context(), request.Snapshot, request.Connector)
	case request.Volume != nil:
		info, err = volumeOp(r.Context(), request.Volume, request.Connector)
	default:
		err = errors.InvalidInputError("connection request has no volume or snapshot")
	}

	if err != nil {
		writeHTTPResponse(w, &ConnectionResponse{Error: errorMessage(err)}, httpStatusCodeForError(err))
		return
	}
	writeHTTPResponse(w, &ConnectionResponse{ConnectionInfo: info}, http.StatusOK)
}

type BackendStatsResponse struct {
	Stats *storage.BackendStats `json:"stats,omitempty"`
	Error string                `json:"error,omitempty"`
}

func GetBackendStats(w http.ResponseWriter, r *http.Request) {
	stats, err := driver.GetVolumeStats(r.Context(), true)
	if err != nil {
		writeHTTPResponse(w, &BackendStatsResponse{Error: errorMessage(err)}, httpStatusCodeForError(err))
		return
	}
	writeHTTPResponse(w, &BackendStatsResponse{Stats: stats}, http.StatusOK)
}

type FailoverRequest struct {
	BackendID string `json:"backendId"`
}

type FailoverResponse struct {
	BackendID string `json:"backendId"`
	Error     string `json:"error,omitempty"`
}

func FailoverBackend(w http.ResponseWriter, r *http.Request) {
	request := &FailoverRequest{}
	if err := readJSONBody(r, request); err != nil {
		writeHTTPResponse(w, &FailoverResponse{Error: errorMessage(err)}, httpStatusCodeForError(err))
		return
	}

	err := driver.Failover(r.Context(), request.BackendID)
	response := &FailoverResponse{BackendID: request.BackendID, Error: errorMessage(err)}
	writeHTTPResponse(w, response, httpStatusCodeForError(err))
}
