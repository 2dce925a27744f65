// Package checksum computes deterministic content-integrity tags.
//
// Tags detect accidental corruption, truncation and retransmission errors;
// they are not collision-resistant and must never be used as a security
// control. The default strategy is the 32-bit rolling hash the legacy client
// already ships, so tags it produced stay verifiable; CRC-32 and xxHash are
// available where callers want a stronger (still non-cryptographic) check.
package checksum

import (
	"encoding/json"
	"fmt"
	"hash/crc32"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Strategy computes a checksum tag over raw bytes. Implementations must be
// deterministic: equal input always yields an equal tag.
type Strategy interface {
	// Name identifies the strategy, e.g. in config.
	Name() string

	// Sum returns the tag for data.
	Sum(data []byte) string
}

// Strategy names accepted by New.
const (
	StrategyRolling32 = "rolling32"
	StrategyCRC32     = "crc32"
	StrategyXXHash    = "xxhash"
)

// New returns the named strategy, or an error for an unknown name.
func New(name string) (Strategy, error) {
	switch name {
	case StrategyRolling32, "":
		return Rolling32{}, nil
	case StrategyCRC32:
		return CRC32{}, nil
	case StrategyXXHash:
		return XXHash{}, nil
	}
	return nil, fmt.Errorf("unknown checksum strategy %q", name)
}

// Default is the strategy used when none is configured.
func Default() Strategy { return Rolling32{} }

// Tag serializes v to canonical JSON and returns s's tag over those bytes.
// Struct field order and map key sorting are fixed by encoding/json, so two
// equal values always serialize, and therefore tag, identically.
func Tag(s Strategy, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to serialize payload for checksum: %w", err)
	}
	return s.Sum(data), nil
}

// Rolling32 is the legacy 32-bit rolling hash (h = h*31 + b over each byte,
// with 32-bit wraparound). Weak by construction; kept for compatibility with
// tags computed by the legacy client.
type Rolling32 struct{}

func (Rolling32) Name() string { return StrategyRolling32 }

func (Rolling32) Sum(data []byte) string {
	var h int32
	for _, b := range data {
		h = h<<5 - h + int32(b)
	}
	return strconv.FormatUint(uint64(uint32(h)), 16)
}

// CRC32 tags content with the IEEE CRC-32 polynomial.
type CRC32 struct{}

func (CRC32) Name() string { return StrategyCRC32 }

func (CRC32) Sum(data []byte) string {
	return strconv.FormatUint(uint64(crc32.ChecksumIEEE(data)), 16)
}

// XXHash tags content with the 64-bit xxHash digest.
type XXHash struct{}

func (XXHash) Name() string { return StrategyXXHash }

func (XXHash) Sum(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}
