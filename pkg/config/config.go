// Package config holds the per-network protocol parameters this SDK
// needs to produce chain-valid artifacts: the network magic, address
// version, fee policy and size caps.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/n3lib/core/pkg/config/netmode"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultAddressVersion is the version byte prepended to a script
	// hash in N3 addresses.
	DefaultAddressVersion byte = 0x35
	// DefaultValidUntilBlockIncrement is the default transaction
	// lifetime in blocks, counted from the current height.
	DefaultValidUntilBlockIncrement uint32 = 1000
	// DefaultMaxTransactionSize is the protocol cap on a serialized
	// transaction, witnesses included.
	DefaultMaxTransactionSize uint32 = 102400
	// DefaultMaxScriptSize is the protocol cap on a transaction script.
	DefaultMaxScriptSize uint32 = 65536
	// DefaultFeePerByte is the network fee charged per transaction
	// byte, in GAS fractions. Production deployments read the current
	// value from the Policy contract instead of relying on this.
	DefaultFeePerByte int64 = 1000
	// DefaultFeePerSignature is the estimated execution cost of one
	// signature check, in GAS fractions.
	DefaultFeePerSignature int64 = 1000000
	// DefaultMinimumNetworkFee is the floor below which a calculated
	// network fee is never allowed to drop.
	DefaultMinimumNetworkFee int64 = 100000
)

// ErrMissingNetworkMagic is returned when an operation that binds its
// result to a specific network (signing, mostly) is attempted on a
// configuration with no magic set.
var ErrMissingNetworkMagic = errors.New("network magic is not configured")

// ProtocolConfiguration represents the protocol parameters of a single
// network.
type ProtocolConfiguration struct {
	// Magic identifies the network; it's mixed into every signing
	// digest and is required for signing.
	Magic netmode.Magic `yaml:"Magic"`
	// AddressVersion is the version byte of Base58-Check addresses.
	AddressVersion byte `yaml:"AddressVersion"`
	// ValidUntilBlockIncrement is the transaction lifetime in blocks
	// used when the caller doesn't set an explicit expiry.
	ValidUntilBlockIncrement uint32 `yaml:"ValidUntilBlockIncrement"`
	// MinimumNetworkFee is the fee floor applied after per-byte and
	// per-signature accounting.
	MinimumNetworkFee int64 `yaml:"MinimumNetworkFee"`
	// FeePerByte is the network fee charged per transaction byte.
	FeePerByte int64 `yaml:"FeePerByte"`
	// FeePerSignature is the estimated verification cost per signature.
	FeePerSignature int64 `yaml:"FeePerSignature"`
	// MaxTransactionSize caps the serialized transaction size.
	MaxTransactionSize uint32 `yaml:"MaxTransactionSize"`
	// MaxScriptSize caps the transaction script size.
	MaxScriptSize uint32 `yaml:"MaxScriptSize"`
}

// Default returns a ProtocolConfiguration with every parameter except
// Magic at its default; the zero Magic keeps the result unusable for
// signing until the caller picks a network.
func Default() ProtocolConfiguration {
	return ProtocolConfiguration{
		AddressVersion:           DefaultAddressVersion,
		ValidUntilBlockIncrement: DefaultValidUntilBlockIncrement,
		MinimumNetworkFee:        DefaultMinimumNetworkFee,
		FeePerByte:               DefaultFeePerByte,
		FeePerSignature:          DefaultFeePerSignature,
		MaxTransactionSize:       DefaultMaxTransactionSize,
		MaxScriptSize:            DefaultMaxScriptSize,
	}
}

// Load reads a ProtocolConfiguration from YAML data, filling omitted
// parameters from Default.
func Load(data []byte) (ProtocolConfiguration, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ProtocolConfiguration{}, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return ProtocolConfiguration{}, err
	}
	return cfg, nil
}

// LoadFile reads a ProtocolConfiguration from a YAML file.
func LoadFile(path string) (ProtocolConfiguration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ProtocolConfiguration{}, fmt.Errorf("unable to read config: %w", err)
	}
	return Load(data)
}

// Validate checks for internal consistency: sizes and the fee floor
// must be non-zero, otherwise every built transaction would be
// rejected by the network anyway.
func (p ProtocolConfiguration) Validate() error {
	if p.ValidUntilBlockIncrement == 0 {
		return errors.New("ValidUntilBlockIncrement can't be 0")
	}
	if p.MaxTransactionSize == 0 || p.MaxScriptSize == 0 {
		return errors.New("size caps can't be 0")
	}
	if p.MaxScriptSize > p.MaxTransactionSize {
		return errors.New("MaxScriptSize can't exceed MaxTransactionSize")
	}
	return nil
}

// RequireMagic checks that the network magic is configured, as needed
// before any signing operation.
func (p ProtocolConfiguration) RequireMagic() error {
	if p.Magic == 0 {
		return ErrMissingNetworkMagic
	}
	return nil
}
