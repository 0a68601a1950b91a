package block

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/n3lib/core/pkg/core/transaction"
	"github.com/n3lib/core/pkg/crypto/hash"
	"github.com/n3lib/core/pkg/encoding/address"
	"github.com/n3lib/core/pkg/io"
	"github.com/n3lib/core/pkg/util"
)

// VersionInitial is the only block format version deployed networks
// currently produce.
const VersionInitial uint32 = 0

// Header carries everything a block commits to except the transaction
// bodies themselves: chain linkage, the Merkle root over the
// transaction list, consensus metadata and the consensus witness.
type Header struct {
	// Version of the block format.
	Version uint32

	// PrevHash links the block to its parent.
	PrevHash util.Uint256

	// MerkleRoot commits to the ordered transaction list.
	MerkleRoot util.Uint256

	// Timestamp of block creation, in milliseconds.
	Timestamp uint64

	// Nonce is the consensus-chosen random value.
	Nonce uint64

	// Index is the block height.
	Index uint32

	// PrimaryIndex identifies the consensus node that proposed the
	// block.
	PrimaryIndex byte

	// NextConsensus is the script hash of the consensus address
	// expected to sign the next block.
	NextConsensus util.Uint160

	// Script is the consensus witness. It is not part of the hashable
	// field set.
	Script transaction.Witness

	// hash is filled lazily on the first Hash call and by the binary
	// decoder.
	hash util.Uint256
}

// Hash returns the block hash: the double SHA-256 of the hashable
// header fields. The value is cached; re-encode/decode the header to
// refresh it after a field change.
func (b *Header) Hash() util.Uint256 {
	if b.hash.Equals(util.Uint256{}) {
		b.createHash()
	}
	return b.hash
}

func (b *Header) createHash() {
	buf := io.NewBufBinWriter()
	// Hashable fields can't fail to serialize.
	b.writeHashableFields(buf.BinWriter)
	b.hash = hash.DoubleSha256(buf.Bytes())
}

// writeHashableFields emits the fields the block hash (and the Merkle
// linkage of the chain) covers, in wire order.
func (b *Header) writeHashableFields(bw *io.BinWriter) {
	bw.WriteU32LE(b.Version)
	bw.WriteBytes(b.PrevHash[:])
	bw.WriteBytes(b.MerkleRoot[:])
	bw.WriteU64LE(b.Timestamp)
	bw.WriteU64LE(b.Nonce)
	bw.WriteU32LE(b.Index)
	bw.WriteB(b.PrimaryIndex)
	bw.WriteBytes(b.NextConsensus[:])
}

func (b *Header) readHashableFields(br *io.BinReader) {
	b.Version = br.ReadU32LE()
	br.ReadBytes(b.PrevHash[:])
	br.ReadBytes(b.MerkleRoot[:])
	b.Timestamp = br.ReadU64LE()
	b.Nonce = br.ReadU64LE()
	b.Index = br.ReadU32LE()
	b.PrimaryIndex = br.ReadB()
	br.ReadBytes(b.NextConsensus[:])

	if br.Err == nil {
		b.createHash()
	}
}

// EncodeBinary implements the io.Serializable interface. The witness
// list always has exactly one element on the wire.
func (b *Header) EncodeBinary(bw *io.BinWriter) {
	b.writeHashableFields(bw)
	bw.WriteVarUint(1)
	b.Script.EncodeBinary(bw)
}

// DecodeBinary implements the io.Serializable interface, refreshing
// the cached hash on success.
func (b *Header) DecodeBinary(br *io.BinReader) {
	b.readHashableFields(br)
	witnessCount := br.ReadVarUint()
	if br.Err == nil && witnessCount != 1 {
		br.Err = errors.New("wrong witness count")
		return
	}
	b.Script.DecodeBinary(br)
}

// Size returns the number of bytes b occupies once encoded.
func (b *Header) Size() int {
	buf := io.NewBufBinWriter()
	b.EncodeBinary(buf.BinWriter)
	return buf.Len()
}

// headerAux maps the header to the node's JSON field naming: the
// nonce is upper-case hex, NextConsensus an address, and the single
// consensus witness is wrapped in a one-element list.
type headerAux struct {
	Hash          util.Uint256          `json:"hash"`
	Version       uint32                `json:"version"`
	PrevHash      util.Uint256          `json:"previousblockhash"`
	MerkleRoot    util.Uint256          `json:"merkleroot"`
	Timestamp     uint64                `json:"time"`
	Nonce         string                `json:"nonce"`
	Index         uint32                `json:"index"`
	NextConsensus string                `json:"nextconsensus"`
	PrimaryIndex  byte                  `json:"primary"`
	Witnesses     []transaction.Witness `json:"witnesses"`
}

// MarshalJSON implements the json.Marshaler interface.
func (b Header) MarshalJSON() ([]byte, error) {
	return json.Marshal(headerAux{
		Hash:          b.Hash(),
		Version:       b.Version,
		PrevHash:      b.PrevHash,
		MerkleRoot:    b.MerkleRoot,
		Timestamp:     b.Timestamp,
		Nonce:         fmt.Sprintf("%016X", b.Nonce),
		Index:         b.Index,
		NextConsensus: address.Uint160ToString(b.NextConsensus),
		PrimaryIndex:  b.PrimaryIndex,
		Witnesses:     []transaction.Witness{b.Script},
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface, requiring
// the embedded "hash" field to match the decoded header.
func (b *Header) UnmarshalJSON(data []byte) error {
	aux := new(headerAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	var nonce uint64
	if len(aux.Nonce) != 0 {
		n, err := strconv.ParseUint(aux.Nonce, 16, 64)
		if err != nil {
			return err
		}
		nonce = n
	}
	nextConsensus, err := address.StringToUint160(aux.NextConsensus)
	if err != nil {
		return err
	}
	if len(aux.Witnesses) != 1 {
		return errors.New("wrong number of witnesses")
	}

	b.Version = aux.Version
	b.PrevHash = aux.PrevHash
	b.MerkleRoot = aux.MerkleRoot
	b.Timestamp = aux.Timestamp
	b.Nonce = nonce
	b.Index = aux.Index
	b.PrimaryIndex = aux.PrimaryIndex
	b.NextConsensus = nextConsensus
	b.Script = aux.Witnesses[0]
	if !aux.Hash.Equals(b.Hash()) {
		return errors.New("json 'hash' doesn't match block hash")
	}
	return nil
}
