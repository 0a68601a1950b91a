package transaction

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/n3lib/core/pkg/crypto/hash"
	"github.com/n3lib/core/pkg/io"
	"github.com/n3lib/core/pkg/util"
)

const (
	// MaxScriptLength is the maximum length of a transaction's Script.
	MaxScriptLength = 65536
	// MaxTransactionSize is the maximum serialized size of a Transaction,
	// witnesses included.
	MaxTransactionSize = 102400
	// maxSigners bounds the number of entries in Signers on decode.
	maxSigners = 16
	// MaxAttributes bounds the number of entries in Attributes on
	// decode; the same cap applies to a Signer's per-scope allow-lists.
	MaxAttributes = 16
)

// ErrInvalidVersion is returned for a transaction whose Version byte
// isn't the one this codec understands.
var ErrInvalidVersion = errors.New("invalid transaction version")

// ErrTxTooBig is returned when a transaction's total serialized size
// exceeds MaxTransactionSize.
var ErrTxTooBig = errors.New("invalid transaction size")

// ErrInvalidWitnessCount is returned when a fully-serialized
// transaction carries a witness count differing from its signer count.
var ErrInvalidWitnessCount = errors.New("mismatched number of witnesses and signers")

// ErrDuplicateSigner is returned by Validate when two signers share an
// account hash.
var ErrDuplicateSigner = errors.New("duplicate signer")

// ErrInvalidAttribute is returned by Validate when more than one
// HighPriority, OracleResponse, or NotValidBefore attribute is present.
var ErrInvalidAttribute = errors.New("invalid attributes")

// Transaction represents an N3 transaction: a single chain of custody
// from its sender's witness through its invocation script.
type Transaction struct {
	// Version of the transaction format, currently only 0.
	Version uint8
	// Nonce is a random number to avoid hash collision.
	Nonce uint32
	// SystemFee is the amount of GAS to be burned for the execution of
	// the transaction's script.
	SystemFee int64
	// NetworkFee is the amount of GAS to be distributed to the
	// consensus nodes for processing the transaction.
	NetworkFee int64
	// ValidUntilBlock is the block index after which the transaction
	// becomes invalid.
	ValidUntilBlock uint32
	// Signers is an ordered list of transaction signers, the first of
	// which is the fee-paying sender.
	Signers []Signer
	// Attributes is an ordered list of extra transaction attributes.
	Attributes []Attribute
	// Script is the VM script to be executed on-chain.
	Script []byte
	// Scripts is the ordered witness list; Scripts[i] proves
	// authorization for Signers[i].
	Scripts []Witness

	// Trimmed is true for a Transaction decoded via NewTrimmedTX, in
	// which case only Hash() is meaningful.
	Trimmed bool

	// Hash of the transaction, created when binary encoded (double SHA256).
	hash util.Uint256
}

// New creates a new Transaction carrying script and networkFee, with
// every other field at its zero value.
func New(script []byte, networkFee int64) *Transaction {
	return &Transaction{
		Script:     script,
		NetworkFee: networkFee,
	}
}

// NewTrimmedTX returns a Transaction that only carries its hash; used
// by trimmed block storage, which keeps transaction bodies elsewhere.
func NewTrimmedTX(h util.Uint256) *Transaction {
	return &Transaction{
		Trimmed: true,
		hash:    h,
	}
}

// NewTransactionFromBytes decodes a Transaction from its full
// (witnesses included) binary serialization, rejecting any trailing
// bytes.
func NewTransactionFromBytes(b []byte) (*Transaction, error) {
	if len(b) > MaxTransactionSize {
		return nil, ErrTxTooBig
	}
	r := io.NewBinReaderFromBuf(b)
	tx := &Transaction{}
	tx.DecodeBinary(r)
	if r.Err != nil {
		return nil, r.Err
	}
	return tx, nil
}

// Hash returns the hash of the transaction, i.e. the double SHA-256 of
// its unsigned serialization. Notice that it is cached internally, so
// no matter how you change the Transaction after the first invocation
// of this method it won't change; encode/decode it to get an updated
// hash.
func (t *Transaction) Hash() util.Uint256 {
	if t.hash.Equals(util.Uint256{}) {
		t.createHash()
	}
	return t.hash
}

// SigningHash returns the 32-byte digest that gets ECDSA-signed by
// each signer that holds a key for t, binding the signature to the
// network identified by magic.
func (t *Transaction) SigningHash(magic uint32) util.Uint256 {
	buf := io.NewBufBinWriter()
	t.encodeHashableFields(buf.BinWriter)
	unsignedHash := hash.Sha256(buf.Bytes())

	mbuf := io.NewBufBinWriter()
	mbuf.WriteU32LE(magic)
	mbuf.WriteBytes(unsignedHash[:])
	return hash.Sha256(mbuf.Bytes())
}

func (t *Transaction) createHash() {
	buf := io.NewBufBinWriter()
	t.encodeHashableFields(buf.BinWriter)
	t.hash = hash.DoubleSha256(buf.Bytes())
}

// Size returns the number of bytes t occupies once encoded, witnesses
// included.
func (t *Transaction) Size() int {
	buf := io.NewBufBinWriter()
	t.EncodeBinary(buf.BinWriter)
	return buf.Len()
}

// Bytes returns t's full binary serialization.
func (t *Transaction) Bytes() []byte {
	buf := io.NewBufBinWriter()
	t.EncodeBinary(buf.BinWriter)
	return buf.Bytes()
}

// Validate checks the invariants that hold for any well-formed
// transaction independent of chain state: a non-empty script, at
// least one signer with no duplicates, a witness per signer, at most
// one each of HighPriority/OracleResponse/NotValidBefore, and a total
// size within MaxTransactionSize.
func (t *Transaction) Validate() error {
	if len(t.Script) == 0 {
		return errors.New("empty script")
	}
	if len(t.Signers) == 0 {
		return errors.New("no signers")
	}
	if t.ValidUntilBlock == 0 {
		return errors.New("valid_until_block is not set")
	}
	seen := make(map[util.Uint160]struct{}, len(t.Signers))
	for _, s := range t.Signers {
		if _, ok := seen[s.Account]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateSigner, s.Account.StringLE())
		}
		seen[s.Account] = struct{}{}
	}
	if len(t.Scripts) != 0 && len(t.Scripts) != len(t.Signers) {
		return ErrInvalidWitnessCount
	}
	var highPrio, oracleResp, notValidBefore int
	for _, a := range t.Attributes {
		switch a.Type {
		case HighPriority:
			highPrio++
		case OracleResponseT:
			oracleResp++
		case NotValidBeforeT:
			notValidBefore++
		}
	}
	if highPrio > 1 || oracleResp > 1 || notValidBefore > 1 {
		return ErrInvalidAttribute
	}
	if t.Size() > MaxTransactionSize {
		return ErrTxTooBig
	}
	return nil
}

// EncodeBinary implements the io.Serializable interface: it writes the
// full, witness-included serialization.
func (t *Transaction) EncodeBinary(bw *io.BinWriter) {
	t.encodeHashableFields(bw)
	bw.WriteArray(t.Scripts)
}

// encodeHashableFields writes everything except the witness list: the
// part of the wire format whose double-SHA-256 is the transaction hash.
func (t *Transaction) encodeHashableFields(bw *io.BinWriter) {
	bw.WriteB(t.Version)
	bw.WriteU32LE(t.Nonce)
	bw.WriteU64LE(uint64(t.SystemFee))
	bw.WriteU64LE(uint64(t.NetworkFee))
	bw.WriteU32LE(t.ValidUntilBlock)
	bw.WriteArray(t.Signers)
	bw.WriteArray(t.Attributes)
	bw.WriteVarBytes(t.Script)
}

// DecodeBinary implements the io.Serializable interface.
func (t *Transaction) DecodeBinary(br *io.BinReader) {
	t.decodeHashableFields(br)
	if br.Err != nil {
		return
	}
	br.ReadArray(&t.Scripts, len(t.Signers))
	if br.Err != nil {
		return
	}
	if len(t.Scripts) != len(t.Signers) {
		br.Err = ErrInvalidWitnessCount
		return
	}
	t.createHash()
}

func (t *Transaction) decodeHashableFields(br *io.BinReader) {
	t.Version = br.ReadB()
	if br.Err == nil && t.Version != 0 {
		br.Err = ErrInvalidVersion
		return
	}
	t.Nonce = br.ReadU32LE()
	t.SystemFee = int64(br.ReadU64LE())
	t.NetworkFee = int64(br.ReadU64LE())
	t.ValidUntilBlock = br.ReadU32LE()
	br.ReadArray(&t.Signers, maxSigners)
	br.ReadArray(&t.Attributes, MaxAttributes)
	t.Script = br.ReadVarBytes(MaxScriptLength)
}

type transactionAux struct {
	Hash            util.Uint256 `json:"hash"`
	Size            int          `json:"size"`
	Version         uint8        `json:"version"`
	Nonce           uint32       `json:"nonce"`
	SystemFee       string       `json:"sysfee"`
	NetworkFee      string       `json:"netfee"`
	ValidUntilBlock uint32       `json:"validuntilblock"`
	Signers         []Signer     `json:"signers"`
	Attributes      []Attribute  `json:"attributes"`
	Script          string       `json:"script"`
	Witnesses       []Witness    `json:"witnesses"`
}

// MarshalJSON implements the json.Marshaler interface.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionAux{
		Hash:            t.Hash(),
		Size:            t.Size(),
		Version:         t.Version,
		Nonce:           t.Nonce,
		SystemFee:       fmt.Sprintf("%d", t.SystemFee),
		NetworkFee:      fmt.Sprintf("%d", t.NetworkFee),
		ValidUntilBlock: t.ValidUntilBlock,
		Signers:         t.Signers,
		Attributes:      t.Attributes,
		Script:          base64.StdEncoding.EncodeToString(t.Script),
		Witnesses:       t.Scripts,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	aux := new(transactionAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	var sysFee, netFee int64
	if _, err := fmt.Sscanf(aux.SystemFee, "%d", &sysFee); err != nil && aux.SystemFee != "" {
		return fmt.Errorf("can't parse system fee: %w", err)
	}
	if _, err := fmt.Sscanf(aux.NetworkFee, "%d", &netFee); err != nil && aux.NetworkFee != "" {
		return fmt.Errorf("can't parse network fee: %w", err)
	}
	script, err := base64.StdEncoding.DecodeString(aux.Script)
	if err != nil {
		return fmt.Errorf("can't decode script: %w", err)
	}
	t.Version = aux.Version
	t.Nonce = aux.Nonce
	t.SystemFee = sysFee
	t.NetworkFee = netFee
	t.ValidUntilBlock = aux.ValidUntilBlock
	t.Signers = aux.Signers
	t.Attributes = aux.Attributes
	t.Script = script
	t.Scripts = aux.Witnesses
	if !aux.Hash.Equals(util.Uint256{}) && !aux.Hash.Equals(t.Hash()) {
		return errors.New("json 'hash' doesn't match transaction hash")
	}
	return nil
}
