// Package nef implements the NEF (Neo Executable Format) file, the
// on-wire container produced by a compiler and consumed at contract
// deployment.
package nef

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/n3lib/core/pkg/crypto/hash"
	"github.com/n3lib/core/pkg/io"
)

// Magic is the 4-byte file signature every NEF file starts with.
const Magic uint32 = 0x3346454E

// CompilerFieldSize is the fixed, zero-padded width of the Header's
// compiler-identifier field.
const CompilerFieldSize = 64

// MaxSourceURLLength is the largest allowed length of Header.Source.
const MaxSourceURLLength = 255

// MaxScriptLength is the largest allowed length of File.Script.
const MaxScriptLength = 65536

// MaxTokensCount is the largest number of method tokens a file may carry,
// bounded by the single-byte length prefix the wire format uses.
const MaxTokensCount = 255

var (
	errInvalidMagic    = errors.New("invalid magic")
	errInvalidChecksum = errors.New("invalid checksum")
	errInvalidReserved = errors.New("reserved bytes must be zero")
	errCompilerTooLong = errors.New("compiler field exceeds 64 bytes")
	errSourceTooLong   = errors.New("source url exceeds 255 bytes")
	errEmptyScript     = errors.New("empty script")
	errScriptTooLarge  = errors.New("script exceeds maximum length")
	errTooManyTokens   = errors.New("too many method tokens")
)

// Header is the fixed-layout prefix of a NEF file.
type Header struct {
	// Magic is always Magic.
	Magic uint32
	// Compiler is the compiler name and version that produced the script,
	// zero-padded to 64 bytes on the wire.
	Compiler string
	// Source is an optional URL to the contract's source code.
	Source string
}

// Size returns the number of bytes h occupies once encoded.
func (h *Header) Size() int {
	return 4 + CompilerFieldSize + 1 + len(h.Source)
}

// EncodeBinary implements the io.Serializable interface.
func (h *Header) EncodeBinary(w *io.BinWriter) {
	if len(h.Compiler) > CompilerFieldSize {
		w.SetError(errCompilerTooLong)
		return
	}
	if len(h.Source) > MaxSourceURLLength {
		w.SetError(errSourceTooLong)
		return
	}
	w.WriteU32LE(h.Magic)
	buf := make([]byte, CompilerFieldSize)
	copy(buf, h.Compiler)
	w.WriteBytes(buf)
	w.WriteB(byte(len(h.Source)))
	w.WriteBytes([]byte(h.Source))
}

// DecodeBinary implements the io.Serializable interface.
func (h *Header) DecodeBinary(r *io.BinReader) {
	h.Magic = r.ReadU32LE()
	if r.Err == nil && h.Magic != Magic {
		r.Err = errInvalidMagic
		return
	}
	buf := make([]byte, CompilerFieldSize)
	r.ReadBytes(buf)
	if r.Err != nil {
		return
	}
	h.Compiler = strings.TrimRight(string(buf), "\x00")
	srcLen := r.ReadB()
	src := make([]byte, srcLen)
	r.ReadBytes(src)
	if r.Err != nil {
		return
	}
	h.Source = string(src)
}

// File is a complete NEF container: header, method tokens and the
// script they reference, plus the self-checksum over everything
// preceding it.
type File struct {
	Header   Header
	Tokens   []MethodToken
	Script   []byte
	Checksum uint32
}

// CalculateChecksum returns the first 4 bytes of the double-SHA-256
// over every byte f would encode, the checksum field itself excluded.
func (f *File) CalculateChecksum() uint32 {
	w := io.NewBufBinWriter()
	f.encodeWithoutChecksum(w.BinWriter)
	sum := hash.DoubleSha256(w.Bytes())
	var le [4]byte
	copy(le[:], sum[:4])
	return uint32(le[0]) | uint32(le[1])<<8 | uint32(le[2])<<16 | uint32(le[3])<<24
}

func (f *File) encodeWithoutChecksum(w *io.BinWriter) {
	f.Header.EncodeBinary(w)
	w.WriteB(0)
	w.WriteB(0)
	if len(f.Tokens) > MaxTokensCount {
		w.SetError(errTooManyTokens)
		return
	}
	w.WriteB(byte(len(f.Tokens)))
	for i := range f.Tokens {
		f.Tokens[i].EncodeBinary(w)
	}
	w.WriteB(0)
	if len(f.Script) == 0 {
		w.SetError(errEmptyScript)
		return
	}
	if len(f.Script) > MaxScriptLength {
		w.SetError(errScriptTooLarge)
		return
	}
	w.WriteVarBytes(f.Script)
}

// EncodeBinary implements the io.Serializable interface.
func (f *File) EncodeBinary(w *io.BinWriter) {
	f.encodeWithoutChecksum(w)
	w.WriteU32LE(f.Checksum)
}

// DecodeBinary implements the io.Serializable interface.
func (f *File) DecodeBinary(r *io.BinReader) {
	f.Header.DecodeBinary(r)
	if r.Err != nil {
		return
	}
	reserved1 := r.ReadB()
	reserved2 := r.ReadB()
	if r.Err == nil && (reserved1 != 0 || reserved2 != 0) {
		r.Err = errInvalidReserved
		return
	}
	n := int(r.ReadB())
	if r.Err != nil {
		return
	}
	f.Tokens = make([]MethodToken, n)
	for i := 0; i < n; i++ {
		f.Tokens[i].DecodeBinary(r)
		if r.Err != nil {
			return
		}
	}
	reserved3 := r.ReadB()
	if r.Err == nil && reserved3 != 0 {
		r.Err = errInvalidReserved
		return
	}
	f.Script = r.ReadVarBytes(MaxScriptLength)
	if r.Err != nil {
		return
	}
	if len(f.Script) == 0 {
		r.Err = errEmptyScript
		return
	}
	f.Checksum = r.ReadU32LE()
	if r.Err != nil {
		return
	}
	if f.Checksum != f.CalculateChecksum() {
		r.Err = errInvalidChecksum
		return
	}
}

// Bytes returns the binary encoding of f.
func (f *File) Bytes() ([]byte, error) {
	w := io.NewBufBinWriter()
	f.EncodeBinary(w.BinWriter)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// FileFromBytes decodes a File from its binary encoding.
func FileFromBytes(data []byte) (File, error) {
	var f File
	r := io.NewBinReaderFromBuf(data)
	f.DecodeBinary(r)
	if r.Err != nil {
		return File{}, r.Err
	}
	return f, nil
}

type fileAux struct {
	Magic    uint32        `json:"magic"`
	Compiler string        `json:"compiler"`
	Source   string        `json:"source,omitempty"`
	Tokens   []MethodToken `json:"tokens"`
	Script   []byte        `json:"script"`
	Checksum uint32        `json:"checksum"`
}

// MarshalJSON implements the json.Marshaler interface.
func (f *File) MarshalJSON() ([]byte, error) {
	tokens := f.Tokens
	if tokens == nil {
		tokens = []MethodToken{}
	}
	return json.Marshal(fileAux{
		Magic:    f.Header.Magic,
		Compiler: f.Header.Compiler,
		Source:   f.Header.Source,
		Tokens:   tokens,
		Script:   f.Script,
		Checksum: f.Checksum,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *File) UnmarshalJSON(data []byte) error {
	var aux fileAux
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	f.Header = Header{Magic: aux.Magic, Compiler: aux.Compiler, Source: aux.Source}
	f.Tokens = aux.Tokens
	f.Script = aux.Script
	f.Checksum = aux.Checksum
	return nil
}
