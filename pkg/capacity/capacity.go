// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package capacity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// ToBytes parses a size string such as "4KB", "2GiB" or "1073741824" and
// returns the equivalent number of bytes. A bare number is taken as bytes,
// and a bare unit letter ("1G") as the binary unit ("1GiB").
func ToBytes(size string) (uint64, error) {
	size = strings.TrimSpace(size)
	if size == "" {
		return 0, fmt.Errorf("empty size string")
	}

	// A bare number needs no unit handling.
	if bytes, err := strconv.ParseUint(size, 10, 64); err == nil {
		return bytes, nil
	}

	if last := size[len(size)-1]; strings.ContainsRune("kKmMgGtTpP", rune(last)) {
		size += "iB"
	}

	bytes, err := humanize.ParseBytes(size)
	if err != nil {
		return 0, fmt.Errorf("invalid size value '%s': %v", size, err)
	}
	return bytes, nil
}

// ToHumanReadable renders a byte count using binary (IEC) units.
func ToHumanReadable(bytes uint64) string {
	return humanize.IBytes(bytes)
}

// VolumeSizeWithinTolerance reports whether the requested size differs from
// the current size by no more than delta bytes.
func VolumeSizeWithinTolerance(requestedSize, currentSize, delta int64) bool {
	diff := requestedSize - currentSize
	if diff < 0 {
		diff = -diff
	}
	return diff <= delta
}
