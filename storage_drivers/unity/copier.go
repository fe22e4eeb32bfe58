// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package unity

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	. "github.com/blockgate/blockgate/logging"
)

// AttachedDevice describes a LUN or snapshot attached to the service host
// for the duration of a block copy.
type AttachedDevice struct {
	ResourceID string
	Type       string // api.HostLunTypeLun or api.HostLunTypeSnap
	HLU        int
	WWN        string
}

// DevicePath returns the stable by-id path for the attached device.
func (d AttachedDevice) DevicePath() string {
	return "/dev/disk/by-id/wwn-0x" + strings.ToLower(strings.ReplaceAll(d.WWN, ":", ""))
}

// BlockCopier copies the contents of one attached device onto another. The
// clone paths program against this interface so tests can substitute a fake.
type BlockCopier interface {
	CopyBlocks(ctx context.Context, src, dst AttachedDevice, sizeBytes uint64) error
}

const copyBlockSizeBytes = 1024 * 1024

// ddCopier copies via dd on the service host. Sparse handling keeps thin
// destination LUNs thin.
type ddCopier struct{}

// NewBlockCopier returns the production copier.
func NewBlockCopier() BlockCopier {
	return &ddCopier{}
}

func (c *ddCopier) CopyBlocks(ctx context.Context, src, dst AttachedDevice, sizeBytes uint64) error {
	count := sizeBytes / copyBlockSizeBytes
	if sizeBytes%copyBlockSizeBytes != 0 {
		count++
	}

	args := []string{
		fmt.Sprintf("if=%s", src.DevicePath()),
		fmt.Sprintf("of=%s", dst.DevicePath()),
		fmt.Sprintf("bs=%d", copyBlockSizeBytes),
		fmt.Sprintf("count=%d", count),
		"conv=sparse,fsync",
	}

	Logc(ctx).WithFields(LogFields{
		"source":      src.DevicePath(),
		"destination": dst.DevicePath(),
		"sizeBytes":   sizeBytes,
	}).Debug("Copying blocks between attached devices.")

	out, err := exec.CommandContext(ctx, "dd", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("block copy failed: %v; %s", err, string(out))
	}
	return nil
}
