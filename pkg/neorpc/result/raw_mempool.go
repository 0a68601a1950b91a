package result

import "github.com/n3lib/core/pkg/util"

// RawMempool represents the node's memory pool contents at the given
// height, as returned by getrawmempool: hashes of verified
// transactions ready for a block and of unverified ones awaiting a
// re-check.
type RawMempool struct {
	Height     uint32         `json:"height"`
	Verified   []util.Uint256 `json:"verified"`
	Unverified []util.Uint256 `json:"unverified"`
}
