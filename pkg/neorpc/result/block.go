package result

import (
	"encoding/json"
	"errors"

	"github.com/n3lib/core/pkg/core/block"
	"github.com/n3lib/core/pkg/util"
)

// Block is a block as returned by getblock: the chain's block envelope
// plus the node-side metadata accompanying it.
type Block struct {
	block.Block
	BlockMetadata
}

// BlockMetadata is the node-side data about a block that isn't a part
// of its wire format.
type BlockMetadata struct {
	Size          int           `json:"size"`
	NextBlockHash *util.Uint256 `json:"nextblockhash,omitempty"`
	Confirmations uint32        `json:"confirmations"`
}

// MarshalJSON implements the json.Marshaler interface: the block's own
// fields and the metadata are emitted as a single flat object.
func (b Block) MarshalJSON() ([]byte, error) {
	output, err := json.Marshal(b.BlockMetadata)
	if err != nil {
		return nil, err
	}
	baseBytes, err := json.Marshal(b.Block)
	if err != nil {
		return nil, err
	}

	// Both are non-empty JSON objects, so to combine them into one we
	// cut the closing brace of the first and the opening brace of the
	// second.
	if output[len(output)-1] != '}' || baseBytes[0] != '{' {
		return nil, errors.New("can't merge internal jsons")
	}
	output[len(output)-1] = ','
	output = append(output, baseBytes[1:]...)
	return output, nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (b *Block) UnmarshalJSON(data []byte) error {
	// As block.Block and BlockMetadata are at the same level in json,
	// do unmarshalling separately for both structs.
	meta := new(BlockMetadata)
	if err := json.Unmarshal(data, meta); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &b.Block); err != nil {
		return err
	}
	b.BlockMetadata = *meta
	return nil
}
