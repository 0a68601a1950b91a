package block

import (
	"encoding/json"
	"errors"
	"math"

	"github.com/n3lib/core/pkg/core/transaction"
	"github.com/n3lib/core/pkg/crypto/hash"
	"github.com/n3lib/core/pkg/io"
	"github.com/n3lib/core/pkg/util"
)

const (
	// MaxTransactionsPerBlock is the maximum number of transactions per block.
	MaxTransactionsPerBlock = math.MaxUint16
)

// ErrMaxContentsPerBlock is returned when the maximum number of contents per block is reached.
var ErrMaxContentsPerBlock = errors.New("the number of contents exceeds the maximum number of contents per block")

var expectedHeaderSizeWithEmptyWitness int

func init() {
	expectedHeaderSizeWithEmptyWitness = io.GetVarSize(new(Header))
}

// Block represents one block in the chain: a header plus its full
// transaction list. A Block built from [NewTrimmedFromReader] carries
// only transaction hashes (as [transaction.Transaction] values with
// Trimmed set) rather than full transaction bodies.
type Block struct {
	// The header of the block.
	Header

	// Transaction list.
	Transactions []*transaction.Transaction

	// Trimmed is true if this block was decoded from trimmed data, in
	// which case Transactions holds hash-only placeholders.
	Trimmed bool
}

// auxBlockOut is used for JSON i/o.
type auxBlockOut struct {
	Transactions []*transaction.Transaction `json:"tx"`
}

// auxBlockIn is used for JSON i/o.
type auxBlockIn struct {
	Transactions []json.RawMessage `json:"tx"`
}

// ComputeMerkleRoot computes Merkle tree root hash based on actual block's data.
func (b *Block) ComputeMerkleRoot() util.Uint256 {
	hashes := make([]util.Uint256, len(b.Transactions))
	for i, tx := range b.Transactions {
		hashes[i] = tx.Hash()
	}

	return hash.CalcMerkleRoot(hashes)
}

// RebuildMerkleRoot rebuilds the merkleroot of the block from its
// current transaction list.
func (b *Block) RebuildMerkleRoot() {
	b.MerkleRoot = b.ComputeMerkleRoot()
}

// Verify recomputes merkle_root and the block hash and reports whether
// both match the values already stored on b; it does not evaluate the
// consensus witness against the VM, which is outside this package's
// scope.
func (b *Block) Verify() bool {
	if !b.ComputeMerkleRoot().Equals(b.MerkleRoot) {
		return false
	}
	if len(b.Script.VerificationScript) == 0 {
		return false
	}
	stored := b.hash
	b.hash = util.Uint256{}
	b.createHash()
	ok := b.hash.Equals(stored)
	b.hash = stored
	return ok
}

// New creates a new blank block.
func New() *Block {
	return new(Block)
}

// EncodeTrimmed encodes b into its trimmed form: the full header plus
// the hash-only list of its transactions, for compact storage.
func (b *Block) EncodeTrimmed(bw *io.BinWriter) {
	b.Header.EncodeBinary(bw)
	bw.WriteVarUint(uint64(len(b.Transactions)))
	for _, tx := range b.Transactions {
		h := tx.Hash()
		h.EncodeBinary(bw)
	}
}

// NewTrimmedFromReader decodes a trimmed block (a header plus a list of
// transaction hashes) from br.
func NewTrimmedFromReader(br *io.BinReader) (*Block, error) {
	block := &Block{Trimmed: true}
	block.Header.DecodeBinary(br)
	lenHashes := br.ReadVarUint()
	if br.Err != nil {
		return nil, br.Err
	}
	if lenHashes > MaxTransactionsPerBlock {
		return nil, ErrMaxContentsPerBlock
	}
	if lenHashes > 0 {
		block.Transactions = make([]*transaction.Transaction, lenHashes)
		for i := 0; i < int(lenHashes); i++ {
			var h util.Uint256
			h.DecodeBinary(br)
			block.Transactions[i] = transaction.NewTrimmedTX(h)
		}
	}
	if br.Err != nil {
		return nil, br.Err
	}
	return block, nil
}

// DecodeBinary decodes the block from the given BinReader, implementing
// Serializable interface.
func (b *Block) DecodeBinary(br *io.BinReader) {
	b.Header.DecodeBinary(br)
	contentsCount := br.ReadVarUint()
	if br.Err != nil {
		return
	}
	if contentsCount > MaxTransactionsPerBlock {
		br.Err = ErrMaxContentsPerBlock
		return
	}
	txes := make([]*transaction.Transaction, contentsCount)
	for i := 0; i < int(contentsCount); i++ {
		tx := &transaction.Transaction{}
		tx.DecodeBinary(br)
		txes[i] = tx
	}
	b.Transactions = txes
	if br.Err != nil {
		return
	}
}

// EncodeBinary encodes the block to the given BinWriter, implementing
// Serializable interface.
func (b *Block) EncodeBinary(bw *io.BinWriter) {
	b.Header.EncodeBinary(bw)
	bw.WriteVarUint(uint64(len(b.Transactions)))
	for i := 0; i < len(b.Transactions); i++ {
		b.Transactions[i].EncodeBinary(bw)
	}
}

// MarshalJSON implements json.Marshaler interface.
func (b Block) MarshalJSON() ([]byte, error) {
	auxb, err := json.Marshal(auxBlockOut{
		Transactions: b.Transactions,
	})
	if err != nil {
		return nil, err
	}
	baseBytes, err := json.Marshal(b.Header)
	if err != nil {
		return nil, err
	}

	// Stitch them together.
	if baseBytes[len(baseBytes)-1] != '}' || auxb[0] != '{' {
		return nil, errors.New("can't merge internal jsons")
	}
	baseBytes[len(baseBytes)-1] = ','
	baseBytes = append(baseBytes, auxb[1:]...)
	return baseBytes, nil
}

// UnmarshalJSON implements json.Unmarshaler interface.
func (b *Block) UnmarshalJSON(data []byte) error {
	// As Header and auxb are at the same level in json,
	// do unmarshalling separately for both structs.
	auxb := new(auxBlockIn)
	err := json.Unmarshal(data, auxb)
	if err != nil {
		return err
	}
	err = json.Unmarshal(data, &b.Header)
	if err != nil {
		return err
	}
	if len(auxb.Transactions) != 0 {
		b.Transactions = make([]*transaction.Transaction, 0, len(auxb.Transactions))
		for _, txBytes := range auxb.Transactions {
			tx := &transaction.Transaction{}
			err = tx.UnmarshalJSON(txBytes)
			if err != nil {
				return err
			}
			b.Transactions = append(b.Transactions, tx)
		}
	}
	return nil
}

// Size returns the number of bytes b occupies once encoded.
func (b *Block) Size() int {
	buf := io.NewBufBinWriter()
	b.EncodeBinary(buf.BinWriter)
	return buf.Len()
}

// GetExpectedBlockSize returns expected block size which should be equal to io.GetVarSize(b)
func (b *Block) GetExpectedBlockSize() int {
	var transactionsSize int
	for _, tx := range b.Transactions {
		transactionsSize += tx.Size()
	}
	return b.GetExpectedBlockSizeWithoutTransactions(len(b.Transactions)) + transactionsSize
}

// GetExpectedBlockSizeWithoutTransactions returns expected block size without transactions size.
func (b *Block) GetExpectedBlockSizeWithoutTransactions(txCount int) int {
	return expectedHeaderSizeWithEmptyWitness - 1 - 1 + // 1 is for the zero-length (new(Header)).Script.Invocation/Verification
		io.GetVarSize(&b.Script) +
		io.GetVarSize(txCount)
}
