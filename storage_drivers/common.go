// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package storagedrivers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"

	. "github.com/blockgate/blockgate/logging"
	"github.com/blockgate/blockgate/pkg/capacity"
	"github.com/blockgate/blockgate/utils/errors"
)

// ValidateCommonSettings decodes just the common portion of a backend config
// and validates the settings every driver relies on.
func ValidateCommonSettings(ctx context.Context, configJSON string) (*CommonStorageDriverConfig, error) {
	config := &CommonStorageDriverConfig{}

	if err := json.Unmarshal([]byte(configJSON), config); err != nil {
		return nil, fmt.Errorf("could not parse JSON configuration: %v", err)
	}

	if config.StorageDriverName == "" {
		return nil, errors.New("missing storage driver name in configuration file")
	}

	if config.Version != ConfigVersion {
		return nil, fmt.Errorf("unexpected config file version; found %d, expected %d",
			config.Version, ConfigVersion)
	}

	if config.LimitVolumeSize != "" {
		if _, err := capacity.ToBytes(config.LimitVolumeSize); err != nil {
			return nil, fmt.Errorf("invalid value for limitVolumeSize: %v", config.LimitVolumeSize)
		}
	}

	Logc(ctx).Debugf("Parsed commonConfig: %+v", *config)

	return config, nil
}

// LoadConfigFile reads a backend config file through the supplied filesystem
// abstraction so tests can substitute an in-memory fs.
func LoadConfigFile(ctx context.Context, fs afero.Fs, path string) (string, error) {
	contents, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", fmt.Errorf("could not read configuration file %s: %v", path, err)
	}

	Logc(ctx).WithField("path", path).Debug("Read backend configuration file.")

	return string(contents), nil
}

// CheckVolumeSizeLimit enforces the optional limitVolumeSize setting.
func CheckVolumeSizeLimit(ctx context.Context, requestedSizeBytes uint64, config *CommonStorageDriverConfig) error {
	if config.LimitVolumeSize == "" {
		return nil
	}

	limitBytes, err := capacity.ToBytes(config.LimitVolumeSize)
	if err != nil {
		return fmt.Errorf("invalid value for limitVolumeSize: %v", config.LimitVolumeSize)
	}

	if requestedSizeBytes > limitBytes {
		return errors.UnsupportedError("requested size %d exceeds the volume size limit %d",
			requestedSizeBytes, limitBytes)
	}

	return nil
}
