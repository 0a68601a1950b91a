package io

import (
	"encoding/binary"
	"errors"
	"io"
	"reflect"
)

// ErrEndOfStream is returned whenever a read would run past the end of
// the underlying buffer/stream.
var ErrEndOfStream = errors.New("end of stream: unexpected EOF")

// ErrInvalidFormat is returned when a value does not follow the wire
// format it claims to (a non-canonical varint, an oversized var-bytes
// payload exceeding a caller-supplied ceiling, and so on).
var ErrInvalidFormat = errors.New("invalid format")

// BinReader is a convenience wrapper around an io.Reader that exposes
// LE-primitive and varint readers. Like BinWriter it latches the first
// error into the exported Err field and becomes a no-op after that,
// always yielding the zero value, so a decode routine built from many
// sequential reads needs only one error check at the end.
type BinReader struct {
	r   io.Reader
	Err error
}

// NewBinReaderFromIO makes a BinReader from io.Reader.
func NewBinReaderFromIO(ior io.Reader) *BinReader {
	return &BinReader{r: ior}
}

// NewBinReaderFromBuf makes a BinReader from byte buffer.
func NewBinReaderFromBuf(b []byte) *BinReader {
	r := bytesReader{b: b}
	return NewBinReaderFromIO(&r)
}

// bytesReader is a minimal io.Reader over a byte slice; used instead of
// bytes.Reader only to keep this package's only import surface explicit.
type bytesReader struct {
	b   []byte
	pos int
}

func (r *bytesReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.pos:])
	r.pos += n
	return n, nil
}

// ReadU64LE reads a little-endian uint64 from the underlying stream.
func (r *BinReader) ReadU64LE() uint64 {
	var b [8]byte
	r.ReadBytes(b[:])
	if r.Err != nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b[:])
}

// ReadU32LE reads a little-endian uint32 from the underlying stream.
func (r *BinReader) ReadU32LE() uint32 {
	var b [4]byte
	r.ReadBytes(b[:])
	if r.Err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b[:])
}

// ReadU16LE reads a little-endian uint16 from the underlying stream.
func (r *BinReader) ReadU16LE() uint16 {
	return r.readU16(binary.LittleEndian)
}

// ReadU16BE reads a big-endian uint16 from the underlying stream.
func (r *BinReader) ReadU16BE() uint16 {
	return r.readU16(binary.BigEndian)
}

func (r *BinReader) readU16(order binary.ByteOrder) uint16 {
	var b [2]byte
	r.ReadBytes(b[:])
	if r.Err != nil {
		return 0
	}
	return order.Uint16(b[:])
}

// ReadB reads a single byte from the underlying stream.
func (r *BinReader) ReadB() byte {
	var b [1]byte
	r.ReadBytes(b[:])
	if r.Err != nil {
		return 0
	}
	return b[0]
}

// ReadBool reads a bool-encoded byte (0x00/0x01) from the underlying
// stream.
func (r *BinReader) ReadBool() bool {
	return r.ReadB() != 0
}

// ReadBytes reads exactly len(buf) bytes into buf, setting Err to
// ErrEndOfStream on short reads.
func (r *BinReader) ReadBytes(buf []byte) {
	if r.Err != nil || len(buf) == 0 {
		return
	}
	_, err := io.ReadFull(r.r, buf)
	if err != nil {
		r.Err = ErrEndOfStream
	}
}

// ReadVarUint reads a canonical varint: non-minimal encodings (e.g. a
// value below 0xFD spelled out with the 0xFD/0xFE/0xFF prefix) are
// rejected with ErrInvalidFormat rather than silently accepted.
func (r *BinReader) ReadVarUint() uint64 {
	if r.Err != nil {
		return 0
	}
	b := r.ReadB()
	if r.Err != nil {
		return 0
	}
	switch b {
	case 0xfd:
		v := r.ReadU16LE()
		if r.Err == nil && v < 0xfd {
			r.Err = ErrInvalidFormat
			return 0
		}
		return uint64(v)
	case 0xfe:
		v := r.ReadU32LE()
		if r.Err == nil && v <= 0xffff {
			r.Err = ErrInvalidFormat
			return 0
		}
		return uint64(v)
	case 0xff:
		v := r.ReadU64LE()
		if r.Err == nil && v <= 0xffffffff {
			r.Err = ErrInvalidFormat
			return 0
		}
		return v
	default:
		return uint64(b)
	}
}

// ReadVarBytes reads a var-length-prefixed byte slice. An optional
// maxSize bounds the length before any allocation happens, so a hostile
// length prefix cannot be used to force a huge allocation.
func (r *BinReader) ReadVarBytes(maxSize ...int) []byte {
	n := r.ReadVarUint()
	if r.Err != nil {
		return []byte{}
	}
	limit := len(maxSize) > 0
	if limit && n > uint64(maxSize[0]) {
		r.Err = ErrInvalidFormat
		return []byte{}
	}
	b := make([]byte, n)
	r.ReadBytes(b)
	if r.Err != nil {
		return []byte{}
	}
	return b
}

// ReadString reads a var-length-prefixed UTF-8 string.
func (r *BinReader) ReadString(maxSize ...int) string {
	b := r.ReadVarBytes(maxSize...)
	return string(b)
}

// ReadArray reads a varint-prefixed sequence of Serializable elements
// into t, which must be a pointer to a slice of a Serializable type (or
// of pointers to one). An optional maxSize caps the element count.
func (r *BinReader) ReadArray(t interface{}, maxSize ...int) {
	max := 0x10000000
	if len(maxSize) != 0 {
		max = maxSize[0]
	}

	value := reflect.ValueOf(t)
	if value.Kind() != reflect.Ptr || value.Elem().Kind() != reflect.Slice {
		panic("ReadArray: not a pointer to a slice")
	}
	sliceValue := value.Elem()

	if r.Err != nil {
		return
	}

	l := int(r.ReadVarUint())
	if r.Err != nil {
		return
	}
	if l > max {
		r.Err = ErrInvalidFormat
		return
	}

	elemType := sliceValue.Type().Elem()
	arr := reflect.MakeSlice(sliceValue.Type(), l, l)
	for i := 0; i < l; i++ {
		var elem reflect.Value
		if elemType.Kind() == reflect.Ptr {
			elem = reflect.New(elemType.Elem())
			arr.Index(i).Set(elem)
		} else {
			elem = arr.Index(i).Addr()
		}
		ptr, ok := elem.Interface().(Serializable)
		if !ok {
			panic("ReadArray: element does not implement Serializable")
		}
		ptr.DecodeBinary(r)
		if r.Err != nil {
			return
		}
	}
	sliceValue.Set(arr)
}
