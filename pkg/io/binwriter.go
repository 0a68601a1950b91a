package io

import (
	"encoding/binary"
	"errors"
	"io"
	"reflect"
)

// ErrScriptTooLarge is a generic guard used by callers that cap a
// var-bytes payload before handing it to the writer; the writer itself
// only ever refuses negative/garbage lengths.
var ErrScriptTooLarge = errors.New("invalid format: item too large")

// BinWriter is a convenience wrapper around a io.Writer that provides
// LE-primitive and varint writers. It stores the first error
// encountered and silently no-ops on every subsequent call, so a whole
// serialization routine can be written without manual error checks and
// inspected once at the end via Err/Error.
type BinWriter struct {
	w   io.Writer
	err error
}

// NewBinWriterFromIO makes a BinWriter from io.Writer.
func NewBinWriterFromIO(iow io.Writer) *BinWriter {
	return &BinWriter{w: iow}
}

// Err returns the first error encountered, if any.
func (w *BinWriter) Err() error {
	return w.err
}

// Error is an alias for Err kept for readability at call sites that read
// like "if err := bw.Error(); err != nil".
func (w *BinWriter) Error() error {
	return w.err
}

// SetError sets the writer into an error state unconditionally; useful
// for aborting a partially built serialization from calling code.
func (w *BinWriter) SetError(err error) {
	w.err = err
}

// WriteU64LE writes a uint64 into the underlying stream, little-endian.
func (w *BinWriter) WriteU64LE(u64 uint64) {
	if w.err != nil {
		return
	}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], u64)
	w.WriteBytes(b[:])
}

// WriteU32LE writes a uint32 into the underlying stream, little-endian.
func (w *BinWriter) WriteU32LE(u32 uint32) {
	if w.err != nil {
		return
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], u32)
	w.WriteBytes(b[:])
}

// WriteU16LE writes a uint16 into the underlying stream, little-endian.
func (w *BinWriter) WriteU16LE(u16 uint16) {
	w.writeU16(u16, binary.LittleEndian)
}

// WriteU16BE writes a uint16 into the underlying stream, big-endian.
func (w *BinWriter) WriteU16BE(u16 uint16) {
	w.writeU16(u16, binary.BigEndian)
}

func (w *BinWriter) writeU16(u16 uint16, order binary.ByteOrder) {
	if w.err != nil {
		return
	}
	var b [2]byte
	order.PutUint16(b[:], u16)
	w.WriteBytes(b[:])
}

// WriteB writes a single byte into the underlying stream.
func (w *BinWriter) WriteB(u8 byte) {
	w.WriteBytes([]byte{u8})
}

// WriteBool writes a bool into the underlying stream as one byte:
// 0x01 for true, 0x00 for false.
func (w *BinWriter) WriteBool(b bool) {
	if b {
		w.WriteB(1)
	} else {
		w.WriteB(0)
	}
}

// WriteBytes writes the given slice into the stream verbatim, with no
// length prefix.
func (w *BinWriter) WriteBytes(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}

// WriteArray writes a fixed-size array or slice of Serializable values
// (or pointers to them) prefixed with its varint length. It panics (as
// does the reference codec) if passed anything else, since that is
// always a programmer error, never caller input.
func (w *BinWriter) WriteArray(arr interface{}) {
	if w.err != nil {
		return
	}
	value := reflect.ValueOf(arr)
	if value.Kind() != reflect.Slice && value.Kind() != reflect.Array {
		panic("WriteArray: not an array/slice")
	}

	w.WriteVarUint(uint64(value.Len()))
	for i := 0; i < value.Len(); i++ {
		var elem = value.Index(i)
		if elem.Kind() != reflect.Ptr && elem.CanAddr() {
			elem = elem.Addr()
		}
		el, ok := elem.Interface().(Serializable)
		if !ok {
			panic("WriteArray: element does not implement Serializable")
		}
		el.EncodeBinary(w)
		if w.err != nil {
			return
		}
	}
}

// WriteVarUint writes a variable-length encoded unsigned integer per the
// canonical scheme: values below 0xFD fit a single byte, 0xFD/0xFE/0xFF
// prefix 16/32/64-bit little-endian payloads for the larger ranges.
func (w *BinWriter) WriteVarUint(val uint64) {
	if w.err != nil {
		return
	}
	switch {
	case val < 0xfd:
		w.WriteB(byte(val))
	case val <= 0xffff:
		w.WriteB(0xfd)
		w.WriteU16LE(uint16(val))
	case val <= 0xffffffff:
		w.WriteB(0xfe)
		w.WriteU32LE(uint32(val))
	default:
		w.WriteB(0xff)
		w.WriteU64LE(val)
	}
}

// WriteVarBytes writes a var-length-prefixed byte slice: the varint
// length of b followed by b itself.
func (w *BinWriter) WriteVarBytes(b []byte) {
	w.WriteVarUint(uint64(len(b)))
	w.WriteBytes(b)
}

// WriteString writes a var-length-prefixed UTF-8 string.
func (w *BinWriter) WriteString(s string) {
	w.WriteVarBytes([]byte(s))
}

// BufBinWriter is a BinWriter that writes into an in-memory byte slice
// and can be Reset and reused, avoiding a fresh allocation per
// serialization the way a repeated construct-then-discard bytes.Buffer
// would.
type BufBinWriter struct {
	*BinWriter
	buf *growBuf
}

type growBuf struct {
	b []byte
}

func (g *growBuf) Write(p []byte) (int, error) {
	g.b = append(g.b, p...)
	return len(p), nil
}

// NewBufBinWriter makes a BufBinWriter with an empty byte buffer.
func NewBufBinWriter() *BufBinWriter {
	g := &growBuf{}
	return &BufBinWriter{BinWriter: NewBinWriterFromIO(g), buf: g}
}

// Len returns the number of bytes written so far.
func (bw *BufBinWriter) Len() int {
	return len(bw.buf.b)
}

// Bytes returns the resulting byte slice, or nil if the writer is in an
// error state (callers must check Error()/Err() first for production
// code; returning nil-on-error avoids silently shipping a truncated
// serialization).
func (bw *BufBinWriter) Bytes() []byte {
	if bw.err != nil {
		return nil
	}
	b := make([]byte, len(bw.buf.b))
	copy(b, bw.buf.b)
	return b
}

// Reset resets the writer, discarding any accumulated bytes or error, so
// the same BufBinWriter can be reused for another serialization.
func (bw *BufBinWriter) Reset() {
	bw.err = nil
	bw.buf.b = bw.buf.b[:0]
}
