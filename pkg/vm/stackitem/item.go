// Package stackitem models the result values a NeoVM invocation leaves
// on its evaluation stack. It only carries the wire representation
// used by invoke_script/invoke_function RPC results and by smart
// contract parameter conversion; it does not execute any VM code.
package stackitem

import (
	"errors"
	"fmt"
	"math/big"
)

// MaxByteArrayLength is the maximum length of a ByteString/Buffer item,
// matching the NeoVM limit.
const MaxByteArrayLength = 1024 * 1024

// ErrTooBig is returned when an item's payload exceeds a documented
// VM limit.
var ErrTooBig = errors.New("item is too big")

// Item represents a single value on a NeoVM evaluation stack.
type Item interface {
	// Type returns the stack item's type tag.
	Type() Type
	// Value returns the item's underlying Go value.
	Value() any
	// String returns a human-readable representation.
	String() string
	// Bool converts the item to a boolean the way the VM does.
	Bool() bool
	// TryBytes returns the item's byte representation, or an error if
	// the item has none.
	TryBytes() ([]byte, error)
	// TryInteger returns the item's integer representation, or an
	// error if the item has none.
	TryInteger() (*big.Int, error)
	// Equals reports whether b is the same stack item as i.
	Equals(b Item) bool
}

// Null represents a VM Null value.
type Null struct{}

// Type implements the Item interface.
func (Null) Type() Type { return AnyT }

// Value implements the Item interface.
func (Null) Value() any { return nil }

// String implements the Item interface.
func (Null) String() string { return "Null" }

// Bool implements the Item interface.
func (Null) Bool() bool { return false }

// TryBytes implements the Item interface.
func (Null) TryBytes() ([]byte, error) { return nil, errors.New("can't convert Null to byte array") }

// TryInteger implements the Item interface.
func (Null) TryInteger() (*big.Int, error) { return nil, errors.New("can't convert Null to integer") }

// Equals implements the Item interface.
func (Null) Equals(b Item) bool {
	_, ok := b.(Null)
	return ok
}

// Bool is a boolean stack item.
type Bool bool

// NewBool creates a new Bool item.
func NewBool(b bool) Item { return Bool(b) }

// Type implements the Item interface.
func (Bool) Type() Type { return BooleanT }

// Value implements the Item interface.
func (i Bool) Value() any { return bool(i) }

// String implements the Item interface.
func (i Bool) String() string { return "Boolean" }

// Bool implements the Item interface.
func (i Bool) Bool() bool { return bool(i) }

// TryBytes implements the Item interface.
func (i Bool) TryBytes() ([]byte, error) {
	if i {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}

// TryInteger implements the Item interface.
func (i Bool) TryInteger() (*big.Int, error) {
	if i {
		return big.NewInt(1), nil
	}
	return big.NewInt(0), nil
}

// Equals implements the Item interface.
func (i Bool) Equals(b Item) bool {
	o, ok := b.(Bool)
	return ok && i == o
}

// BigInteger is an integer stack item.
type BigInteger struct {
	value *big.Int
}

// NewBigInteger creates a new BigInteger item.
func NewBigInteger(v *big.Int) Item {
	return &BigInteger{value: v}
}

// Type implements the Item interface.
func (*BigInteger) Type() Type { return IntegerT }

// Value implements the Item interface.
func (i *BigInteger) Value() any { return i.value }

// String implements the Item interface.
func (*BigInteger) String() string { return "Integer" }

// Bool implements the Item interface.
func (i *BigInteger) Bool() bool { return i.value.Sign() != 0 }

// TryBytes implements the Item interface.
func (i *BigInteger) TryBytes() ([]byte, error) {
	return bigIntToBytes(i.value), nil
}

// TryInteger implements the Item interface.
func (i *BigInteger) TryInteger() (*big.Int, error) { return i.value, nil }

// Equals implements the Item interface.
func (i *BigInteger) Equals(b Item) bool {
	o, ok := b.(*BigInteger)
	return ok && i.value.Cmp(o.value) == 0
}

func bigIntToBytes(n *big.Int) []byte {
	if n.Sign() == 0 {
		return []byte{}
	}
	b := n.Bytes()
	little := make([]byte, len(b))
	for i, c := range b {
		little[len(b)-i-1] = c
	}
	if n.Sign() < 0 {
		for i, c := range little {
			little[i] = ^c
		}
		for i := 0; i < len(little); i++ {
			little[i]++
			if little[i] != 0 {
				break
			}
		}
		if little[len(little)-1]&0x80 == 0 {
			little = append(little, 0xff)
		}
	} else if little[len(little)-1]&0x80 != 0 {
		little = append(little, 0)
	}
	return little
}

// ByteArray is a ByteString stack item: an immutable byte slice.
type ByteArray []byte

// NewByteArray creates a new ByteArray item.
func NewByteArray(b []byte) Item { return ByteArray(b) }

// Type implements the Item interface.
func (ByteArray) Type() Type { return ByteStringT }

// Value implements the Item interface.
func (i ByteArray) Value() any { return []byte(i) }

// String implements the Item interface.
func (ByteArray) String() string { return "ByteString" }

// Bool implements the Item interface.
func (i ByteArray) Bool() bool {
	for _, b := range i {
		if b != 0 {
			return true
		}
	}
	return false
}

// TryBytes implements the Item interface.
func (i ByteArray) TryBytes() ([]byte, error) { return []byte(i), nil }

// TryInteger implements the Item interface.
func (i ByteArray) TryInteger() (*big.Int, error) {
	if len(i) > 32 {
		return nil, ErrTooBig
	}
	return bytesToBigInt(i), nil
}

func bytesToBigInt(b []byte) *big.Int {
	if len(b) == 0 {
		return big.NewInt(0)
	}
	be := make([]byte, len(b))
	for i, c := range b {
		be[len(b)-i-1] = c
	}
	neg := be[0]&0x80 != 0
	if !neg {
		return new(big.Int).SetBytes(be)
	}
	for i := range be {
		be[i] = ^be[i]
	}
	v := new(big.Int).SetBytes(be)
	v.Add(v, big.NewInt(1))
	return v.Neg(v)
}

// Equals implements the Item interface.
func (i ByteArray) Equals(b Item) bool {
	switch o := b.(type) {
	case ByteArray:
		return string(i) == string(o)
	case Buffer:
		return string(i) == string(o)
	default:
		return false
	}
}

// Buffer is a mutable byte array stack item.
type Buffer []byte

// NewBuffer creates a new Buffer item.
func NewBuffer(b []byte) Item { return Buffer(b) }

// Type implements the Item interface.
func (Buffer) Type() Type { return BufferT }

// Value implements the Item interface.
func (i Buffer) Value() any { return []byte(i) }

// String implements the Item interface.
func (Buffer) String() string { return "Buffer" }

// Bool implements the Item interface.
func (i Buffer) Bool() bool { return ByteArray(i).Bool() }

// TryBytes implements the Item interface.
func (i Buffer) TryBytes() ([]byte, error) { return []byte(i), nil }

// TryInteger implements the Item interface.
func (i Buffer) TryInteger() (*big.Int, error) { return ByteArray(i).TryInteger() }

// Equals implements the Item interface.
func (i Buffer) Equals(b Item) bool { return ByteArray(i).Equals(b) }

// Array is an ordered, by-reference compound stack item.
type Array struct {
	value []Item
}

// NewArray creates a new Array item.
func NewArray(items []Item) Item { return &Array{value: items} }

// Type implements the Item interface.
func (*Array) Type() Type { return ArrayT }

// Value implements the Item interface.
func (i *Array) Value() any { return i.value }

// Len returns the number of elements in the array.
func (i *Array) Len() int { return len(i.value) }

// String implements the Item interface.
func (*Array) String() string { return "Array" }

// Bool implements the Item interface.
func (*Array) Bool() bool { return true }

// TryBytes implements the Item interface.
func (*Array) TryBytes() ([]byte, error) { return nil, errors.New("can't convert Array to byte array") }

// TryInteger implements the Item interface.
func (*Array) TryInteger() (*big.Int, error) { return nil, errors.New("can't convert Array to integer") }

// Equals implements the Item interface: arrays compare by reference.
func (i *Array) Equals(b Item) bool {
	o, ok := b.(*Array)
	return ok && i == o
}

// Struct is like Array but compares element-by-element.
type Struct struct {
	value []Item
}

// NewStruct creates a new Struct item.
func NewStruct(items []Item) Item { return &Struct{value: items} }

// Type implements the Item interface.
func (*Struct) Type() Type { return StructT }

// Value implements the Item interface.
func (i *Struct) Value() any { return i.value }

// String implements the Item interface.
func (*Struct) String() string { return "Struct" }

// Bool implements the Item interface.
func (*Struct) Bool() bool { return true }

// TryBytes implements the Item interface.
func (*Struct) TryBytes() ([]byte, error) { return nil, errors.New("can't convert Struct to byte array") }

// TryInteger implements the Item interface.
func (*Struct) TryInteger() (*big.Int, error) { return nil, errors.New("can't convert Struct to integer") }

// Equals implements the Item interface: structs compare element-wise.
func (i *Struct) Equals(b Item) bool {
	o, ok := b.(*Struct)
	if !ok || len(i.value) != len(o.value) {
		return false
	}
	for k := range i.value {
		if !i.value[k].Equals(o.value[k]) {
			return false
		}
	}
	return true
}

// MapElement is a single key/value pair of a Map item.
type MapElement struct {
	Key   Item
	Value Item
}

// Map is a key-to-value compound stack item.
type Map struct {
	value []MapElement
}

// NewMap creates a new, empty Map item.
func NewMap() *Map { return &Map{} }

// Type implements the Item interface.
func (*Map) Type() Type { return MapT }

// Value implements the Item interface.
func (i *Map) Value() any { return i.value }

// String implements the Item interface.
func (*Map) String() string { return "Map" }

// Bool implements the Item interface.
func (*Map) Bool() bool { return true }

// TryBytes implements the Item interface.
func (*Map) TryBytes() ([]byte, error) { return nil, errors.New("can't convert Map to byte array") }

// TryInteger implements the Item interface.
func (*Map) TryInteger() (*big.Int, error) { return nil, errors.New("can't convert Map to integer") }

// Equals implements the Item interface: maps compare by reference.
func (i *Map) Equals(b Item) bool {
	o, ok := b.(*Map)
	return ok && i == o
}

// Add inserts or replaces the value at key.
func (i *Map) Add(key, value Item) {
	for k := range i.value {
		if i.value[k].Key.Equals(key) {
			i.value[k].Value = value
			return
		}
	}
	i.value = append(i.value, MapElement{Key: key, Value: value})
}

// Index returns the value stored at key, or nil if absent.
func (i *Map) Index(key Item) Item {
	for k := range i.value {
		if i.value[k].Key.Equals(key) {
			return i.value[k].Value
		}
	}
	return nil
}

// Len returns the number of key/value pairs in the map.
func (i *Map) Len() int { return len(i.value) }

// Pointer is a VM instruction-pointer stack item, produced by CALLT
// and similar opcodes; this SDK never executes code, so it only
// round-trips the position value.
type Pointer struct {
	Position int
}

// NewPointer creates a new Pointer item.
func NewPointer(pos int) Item { return Pointer{Position: pos} }

// Type implements the Item interface.
func (Pointer) Type() Type { return PointerT }

// Value implements the Item interface.
func (i Pointer) Value() any { return i.Position }

// String implements the Item interface.
func (Pointer) String() string { return "Pointer" }

// Bool implements the Item interface.
func (Pointer) Bool() bool { return true }

// TryBytes implements the Item interface.
func (Pointer) TryBytes() ([]byte, error) { return nil, errors.New("can't convert Pointer to byte array") }

// TryInteger implements the Item interface.
func (Pointer) TryInteger() (*big.Int, error) { return nil, errors.New("can't convert Pointer to integer") }

// Equals implements the Item interface.
func (i Pointer) Equals(b Item) bool {
	o, ok := b.(Pointer)
	return ok && i == o
}

// Interop is an opaque wrapper around a native Go value, used by the
// native contracts' iterator/interface results.
type Interop struct {
	value any
}

// NewInterop creates a new Interop item.
func NewInterop(v any) Item { return &Interop{value: v} }

// Type implements the Item interface.
func (*Interop) Type() Type { return InteropInterfaceT }

// Value implements the Item interface.
func (i *Interop) Value() any { return i.value }

// String implements the Item interface.
func (*Interop) String() string { return "InteropInterface" }

// Bool implements the Item interface.
func (*Interop) Bool() bool { return true }

// TryBytes implements the Item interface.
func (*Interop) TryBytes() ([]byte, error) {
	return nil, errors.New("can't convert InteropInterface to byte array")
}

// TryInteger implements the Item interface.
func (*Interop) TryInteger() (*big.Int, error) {
	return nil, errors.New("can't convert InteropInterface to integer")
}

// Equals implements the Item interface.
func (i *Interop) Equals(b Item) bool {
	o, ok := b.(*Interop)
	return ok && i == o
}

// Make wraps an arbitrary Go value as the appropriate stack item,
// panicking on a type it doesn't know how to represent.
func Make(v any) Item {
	switch t := v.(type) {
	case nil:
		return Null{}
	case Item:
		return t
	case bool:
		return NewBool(t)
	case int:
		return NewBigInteger(big.NewInt(int64(t)))
	case int64:
		return NewBigInteger(big.NewInt(t))
	case uint64:
		return NewBigInteger(new(big.Int).SetUint64(t))
	case *big.Int:
		return NewBigInteger(t)
	case []byte:
		return NewByteArray(t)
	case string:
		return NewByteArray([]byte(t))
	case []Item:
		return NewArray(t)
	default:
		panic(fmt.Sprintf("stackitem.Make: unsupported type %T", v))
	}
}
