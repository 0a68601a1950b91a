// Package netmode contains well-known network magic numbers.
package netmode

import "strconv"

const (
	// MainNet contains magic code used in the N3 main official network.
	MainNet Magic = 0x334f454e // NEO3
	// TestNet contains magic code used in the N3 testing network.
	TestNet Magic = 0x3254334e // N3T2
	// PrivNet contains magic code usually used for N3 private networks.
	PrivNet Magic = 56753 // docker privnet
	// UnitTestNet is a stub magic code used for testing purposes.
	UnitTestNet Magic = 42
)

// Magic describes the network the chain operates on. It binds
// signatures to a specific network, so it has to be correct for
// transaction signing to produce chain-valid results.
type Magic uint32

// String implements the stringer interface.
func (n Magic) String() string {
	switch n {
	case PrivNet:
		return "privnet"
	case TestNet:
		return "testnet"
	case MainNet:
		return "mainnet"
	case UnitTestNet:
		return "unit_testnet"
	default:
		return "net 0x" + strconv.FormatUint(uint64(n), 16)
	}
}
