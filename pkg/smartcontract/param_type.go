package smartcontract

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/n3lib/core/pkg/crypto/keys"
	"github.com/n3lib/core/pkg/encoding/address"
	"github.com/n3lib/core/pkg/util"
)

// ParamType represents the type of a smart contract method parameter,
// or of a value returned from script invocation.
type ParamType int

// Parameter types supported by the NeoVM ABI.
const (
	UnknownType          ParamType = -1
	AnyType              ParamType = 0x00
	BoolType             ParamType = 0x10
	IntegerType          ParamType = 0x11
	ByteArrayType        ParamType = 0x12
	StringType           ParamType = 0x13
	Hash160Type          ParamType = 0x14
	Hash256Type          ParamType = 0x15
	PublicKeyType        ParamType = 0x16
	SignatureType        ParamType = 0x17
	ArrayType            ParamType = 0x20
	MapType              ParamType = 0x22
	InteropInterfaceType ParamType = 0x30
	VoidType             ParamType = 0xff
)

var paramTypeNames = map[ParamType]string{
	UnknownType:          "Unknown",
	AnyType:              "Any",
	BoolType:             "Boolean",
	IntegerType:          "Integer",
	ByteArrayType:        "ByteArray",
	StringType:           "String",
	Hash160Type:          "Hash160",
	Hash256Type:          "Hash256",
	PublicKeyType:        "PublicKey",
	SignatureType:        "Signature",
	ArrayType:            "Array",
	MapType:              "Map",
	InteropInterfaceType: "InteropInterface",
	VoidType:             "Void",
}

// String implements the fmt.Stringer interface.
func (pt ParamType) String() string {
	if s, ok := paramTypeNames[pt]; ok {
		return s
	}
	return "Unknown"
}

// ParseParamType converts a case-insensitive type name (as accepted by
// the NeoVM ABI and CLI tooling) into a ParamType.
func ParseParamType(s string) (ParamType, error) {
	switch strings.ToLower(s) {
	case "signature":
		return SignatureType, nil
	case "bool", "boolean":
		return BoolType, nil
	case "int", "integer":
		return IntegerType, nil
	case "hash160":
		return Hash160Type, nil
	case "hash256":
		return Hash256Type, nil
	case "bytes", "bytearray":
		return ByteArrayType, nil
	case "key", "publickey":
		return PublicKeyType, nil
	case "string":
		return StringType, nil
	case "array":
		return ArrayType, nil
	case "map":
		return MapType, nil
	case "interopinterface":
		return InteropInterfaceType, nil
	case "void":
		return VoidType, nil
	case "any":
		return AnyType, nil
	default:
		return 0, fmt.Errorf("unknown parameter type: %s", s)
	}
}

// ConvertToParamType validates a raw enum value and returns the
// corresponding ParamType, rejecting any int that isn't one of the
// known tag bytes.
func ConvertToParamType(val int) (ParamType, error) {
	switch ParamType(val) {
	case UnknownType, AnyType, BoolType, IntegerType, ByteArrayType,
		StringType, Hash160Type, Hash256Type, PublicKeyType,
		SignatureType, ArrayType, MapType, InteropInterfaceType, VoidType:
		return ParamType(val), nil
	default:
		return 0, fmt.Errorf("not a valid parameter type: %d", val)
	}
}

// inferParamType guesses the ParamType of a raw CLI-supplied string,
// the way the reference tooling does: numbers become Integer,
// true/false become Bool, Base58 N3 addresses and well-known hex
// lengths become their corresponding hash/key/signature types, other
// even-length hex becomes ByteArray, and everything else is a String.
func inferParamType(s string) ParamType {
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntegerType
	}
	if s == "true" || s == "false" {
		return BoolType
	}
	if _, err := address.StringToUint160(s); err == nil {
		return Hash160Type
	}
	if isHex(s) {
		switch len(s) {
		case 40:
			return Hash160Type
		case 64:
			return Hash256Type
		case 66:
			if strings.HasPrefix(s, "02") || strings.HasPrefix(s, "03") {
				return PublicKeyType
			}
		case 130:
			return SignatureType
		}
		if len(s)%2 == 0 {
			return ByteArrayType
		}
	}
	return StringType
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// adjustValToType converts a raw string into the Go-typed value
// appropriate for typ, validating its format along the way.
func adjustValToType(typ ParamType, val string) (interface{}, error) {
	switch typ {
	case SignatureType:
		b, err := hex.DecodeString(val)
		if err != nil {
			return nil, fmt.Errorf("can't decode signature: %w", err)
		}
		if len(b) != 65 {
			return nil, fmt.Errorf("wrong signature length: %d", len(b))
		}
		return b, nil
	case BoolType:
		switch val {
		case "true":
			return true, nil
		case "false":
			return false, nil
		default:
			return nil, fmt.Errorf("invalid boolean value: %s", val)
		}
	case IntegerType:
		i, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("can't parse integer: %w", err)
		}
		return i, nil
	case Hash160Type:
		if u, err := address.StringToUint160(val); err == nil {
			return u, nil
		}
		s := strings.TrimPrefix(val, "0x")
		if len(s) != util.Uint160Size*2 {
			return nil, fmt.Errorf("%w", util.ErrInvalidFormat)
		}
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("can't decode hash160: %w", err)
		}
		return util.Uint160DecodeBytesBE(b)
	case Hash256Type:
		u, err := util.Uint256DecodeStringBE(val)
		if err != nil {
			return nil, fmt.Errorf("can't decode hash256: %w", err)
		}
		return u, nil
	case ByteArrayType:
		b, err := hex.DecodeString(val)
		if err != nil {
			return nil, fmt.Errorf("can't decode byte array: %w", err)
		}
		return b, nil
	case PublicKeyType:
		pub, err := keys.NewPublicKeyFromString(val)
		if err != nil {
			return nil, fmt.Errorf("can't decode public key: %w", err)
		}
		return pub.Bytes(), nil
	case StringType:
		return val, nil
	default:
		return nil, fmt.Errorf("can't convert value to type %s", typ)
	}
}
