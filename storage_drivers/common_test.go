// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package storagedrivers

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestValidateCommonSettings(t *testing.T) {
	configJSON := `{
		"version": 1,
		"storageDriverName": "unity-iscsi",
		"backendName": "unity-test",
		"limitVolumeSize": "10G",
		"debugTraceFlags": {"method": true}
	}`

	config, err := ValidateCommonSettings(context.Background(), configJSON)

	assert.NoError(t, err)
	assert.Equal(t, "unity-iscsi", config.StorageDriverName)
	assert.Equal(t, "unity-test", config.BackendName)
	assert.Equal(t, "10G", config.LimitVolumeSize)
	assert.True(t, config.DebugTraceFlags["method"])
}

func TestValidateCommonSettingsErrors(t *testing.T) {
	tests := []struct {
		name       string
		configJSON string
	}{
		{"malformed json", `{not json`},
		{"missing driver name", `{"version": 1}`},
		{"wrong version", `{"version": 2, "storageDriverName": "unity-iscsi"}`},
		{"bad size limit", `{"version": 1, "storageDriverName": "unity-iscsi", "limitVolumeSize": "lots"}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ValidateCommonSettings(context.Background(), test.configJSON)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.NoError(t, afero.WriteFile(fs, "/etc/blockgate/backend.json", []byte(`{"version": 1}`), 0o600))

	contents, err := LoadConfigFile(context.Background(), fs, "/etc/blockgate/backend.json")

	assert.NoError(t, err)
	assert.Equal(t, `{"version": 1}`, contents)
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := LoadConfigFile(context.Background(), afero.NewMemMapFs(), "/nonexistent.json")
	assert.Error(t, err)
}

func TestCheckVolumeSizeLimit(t *testing.T) {
	ctx := context.Background()

	noLimit := &CommonStorageDriverConfig{}
	assert.NoError(t, CheckVolumeSizeLimit(ctx, 100<<30, noLimit))

	limited := &CommonStorageDriverConfig{LimitVolumeSize: "10G"}
	assert.NoError(t, CheckVolumeSizeLimit(ctx, 10<<30, limited))
	assert.Error(t, CheckVolumeSizeLimit(ctx, (10<<30)+1, limited))

	broken := &CommonStorageDriverConfig{LimitVolumeSize: "lots"}
	assert.Error(t, CheckVolumeSizeLimit(ctx, 1, broken))
}
