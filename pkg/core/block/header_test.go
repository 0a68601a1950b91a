package block

import (
	"testing"
	"time"

	"github.com/n3lib/core/internal/testserdes"
	"github.com/n3lib/core/pkg/core/transaction"
	"github.com/n3lib/core/pkg/crypto/hash"
	"github.com/n3lib/core/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderEncodeDecode(t *testing.T) {
	header := Header{
		Version:       0,
		PrevHash:      hash.Sha256([]byte("prevhash")),
		MerkleRoot:    hash.Sha256([]byte("merkleroot")),
		Timestamp:     uint64(time.Now().UTC().Unix() * 1000),
		Index:         3445,
		NextConsensus: util.Uint160{},
		Script: transaction.Witness{
			InvocationScript:   []byte{0x10},
			VerificationScript: []byte{0x11},
		},
	}

	_ = header.Hash()
	headerDecode := &Header{}
	testserdes.EncodeDecodeBinary(t, &header, headerDecode)

	assert.Equal(t, header.Version, headerDecode.Version, "expected both versions to be equal")
	assert.Equal(t, header.PrevHash, headerDecode.PrevHash, "expected both prev hashes to be equal")
	assert.Equal(t, header.MerkleRoot, headerDecode.MerkleRoot, "expected both merkle roots to be equal")
	assert.Equal(t, header.Index, headerDecode.Index, "expected both indexes to be equal")
	assert.Equal(t, header.NextConsensus, headerDecode.NextConsensus, "expected both next consensus fields to be equal")
	assert.Equal(t, header.Script.InvocationScript, headerDecode.Script.InvocationScript, "expected equal invocation scripts")
	assert.Equal(t, header.Script.VerificationScript, headerDecode.Script.VerificationScript, "expected equal verification scripts")
}

func TestHeaderDecodeWrongWitnessCount(t *testing.T) {
	header := Header{
		Script: transaction.Witness{
			InvocationScript:   []byte{0x10},
			VerificationScript: []byte{0x11},
		},
	}
	data, err := testserdes.EncodeBinary(&header)
	require.NoError(t, err)

	// Patch the witness count byte, which sits right after the fixed
	// hashable prefix.
	offset := 4 + util.Uint256Size + util.Uint256Size + 8 + 8 + 4 + 1 + util.Uint160Size
	data[offset] = 2
	require.Error(t, testserdes.DecodeBinary(data, new(Header)))
}
