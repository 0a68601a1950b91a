package stackitem

import "fmt"

// Type represents a type tag for a stack item, matching the type byte
// the VM uses on the wire (serialized items, invocation results).
type Type byte

// Type values taken from the NeoVM spec.
const (
	AnyT              Type = 0x00
	PointerT          Type = 0x10
	BooleanT          Type = 0x20
	IntegerT          Type = 0x21
	ByteStringT       Type = 0x28
	BufferT           Type = 0x30
	ArrayT            Type = 0x40
	StructT           Type = 0x41
	MapT              Type = 0x48
	InteropInterfaceT Type = 0x60
)

var typeStrings = map[Type]string{
	AnyT:              "Any",
	PointerT:          "Pointer",
	BooleanT:          "Boolean",
	IntegerT:          "Integer",
	ByteStringT:       "ByteString",
	BufferT:           "Buffer",
	ArrayT:            "Array",
	StructT:           "Struct",
	MapT:              "Map",
	InteropInterfaceT: "InteropInterface",
}

// String implements the fmt.Stringer interface.
func (t Type) String() string {
	if s, ok := typeStrings[t]; ok {
		return s
	}
	return fmt.Sprintf("UNKNOWN(%x)", byte(t))
}

// FromString converts a string into the corresponding Type.
func FromString(s string) (Type, error) {
	for t, str := range typeStrings {
		if str == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown stack item type %q", s)
}

// IsValid checks that t is a known stack item type.
func (t Type) IsValid() bool {
	_, ok := typeStrings[t]
	return ok
}
