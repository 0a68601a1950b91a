// Package manifest names the native-token ABI standards this SDK's
// thin wrappers declare conformance to. Full manifest parsing belongs
// to a node, not a client; this package exists only to give those
// wrapper types a standard name to reference.
package manifest

// NEP17StandardName is the ABI standard name for fungible tokens.
const NEP17StandardName = "NEP-17"

// NEP11StandardName is the ABI standard name for non-fungible tokens.
const NEP11StandardName = "NEP-11"
