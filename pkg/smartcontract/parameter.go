package smartcontract

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/n3lib/core/pkg/crypto/keys"
	"github.com/n3lib/core/pkg/util"
	"github.com/n3lib/core/pkg/vm/stackitem"
)

// Parameter represents a typed value passed to or returned from a
// contract invocation: a method argument, a manifest ABI default, or
// an invocation result.
type Parameter struct {
	Type  ParamType
	Value interface{}
}

// ParameterPair is a single key/value entry of a MapType Parameter.
type ParameterPair struct {
	Key   Parameter `json:"key"`
	Value Parameter `json:"value"`
}

// Convertible is implemented by types that know how to turn
// themselves into a smart contract Parameter.
type Convertible interface {
	ToSCParameter() (Parameter, error)
}

var jsonParamTypeNames = map[ParamType]string{
	AnyType:              "Any",
	BoolType:             "Boolean",
	IntegerType:          "Integer",
	ByteArrayType:        "ByteString",
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

func paramTypeFromJSONName(s string) (ParamType, error) {
	switch strings.ToLower(s) {
	case "any":
		return AnyType, nil
	case "bool", "boolean":
		return BoolType, nil
	case "integer":
		return IntegerType, nil
	case "bytearray", "bytestring":
		return ByteArrayType, nil
	case "string":
		return StringType, nil
	case "hash160":
		return Hash160Type, nil
	case "hash256":
		return Hash256Type, nil
	case "publickey":
		return PublicKeyType, nil
	case "signature":
		return SignatureType, nil
	case "array":
		return ArrayType, nil
	case "map":
		return MapType, nil
	case "interopinterface":
		return InteropInterfaceType, nil
	case "void":
		return VoidType, nil
	default:
		return UnknownType, fmt.Errorf("unknown parameter type: %s", s)
	}
}

type parameterAux struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface.
func (p Parameter) MarshalJSON() ([]byte, error) {
	name, ok := jsonParamTypeNames[p.Type]
	if !ok {
		return nil, fmt.Errorf("can't marshal parameter of type %s", p.Type)
	}
	aux := parameterAux{Type: name}
	switch p.Type {
	case BoolType:
		b, ok := p.Value.(bool)
		if !ok {
			return nil, fmt.Errorf("invalid bool value: %v", p.Value)
		}
		raw, err := json.Marshal(b)
		if err != nil {
			return nil, err
		}
		aux.Value = raw
	case IntegerType:
		bi, ok := p.Value.(*big.Int)
		if !ok {
			return nil, fmt.Errorf("invalid integer value: %v", p.Value)
		}
		if bi.IsInt64() {
			aux.Value = json.RawMessage(bi.String())
		} else {
			raw, err := json.Marshal(bi.String())
			if err != nil {
				return nil, err
			}
			aux.Value = raw
		}
	case StringType:
		s, ok := p.Value.(string)
		if !ok {
			return nil, fmt.Errorf("invalid string value: %v", p.Value)
		}
		raw, err := json.Marshal(s)
		if err != nil {
			return nil, err
		}
		aux.Value = raw
	case ByteArrayType, SignatureType:
		if p.Value == nil {
			if p.Type == SignatureType {
				break
			}
			aux.Value = json.RawMessage("null")
			break
		}
		b, ok := p.Value.([]byte)
		if !ok {
			return nil, fmt.Errorf("invalid byte array value: %v", p.Value)
		}
		raw, err := json.Marshal(base64.StdEncoding.EncodeToString(b))
		if err != nil {
			return nil, err
		}
		aux.Value = raw
	case PublicKeyType:
		if p.Value == nil {
			break
		}
		b, ok := p.Value.([]byte)
		if !ok {
			return nil, fmt.Errorf("invalid public key value: %v", p.Value)
		}
		raw, err := json.Marshal(hex.EncodeToString(b))
		if err != nil {
			return nil, err
		}
		aux.Value = raw
	case Hash160Type:
		u, ok := p.Value.(util.Uint160)
		if !ok {
			return nil, fmt.Errorf("invalid hash160 value: %v", p.Value)
		}
		raw, err := json.Marshal("0x" + u.StringBE())
		if err != nil {
			return nil, err
		}
		aux.Value = raw
	case Hash256Type:
		u, ok := p.Value.(util.Uint256)
		if !ok {
			return nil, fmt.Errorf("invalid hash256 value: %v", p.Value)
		}
		raw, err := json.Marshal("0x" + u.StringBE())
		if err != nil {
			return nil, err
		}
		aux.Value = raw
	case ArrayType:
		arr, ok := p.Value.([]Parameter)
		if !ok && p.Value != nil {
			return nil, fmt.Errorf("invalid array value: %v", p.Value)
		}
		raw, err := json.Marshal(arr)
		if err != nil {
			return nil, err
		}
		aux.Value = raw
	case MapType:
		m, ok := p.Value.([]ParameterPair)
		if !ok && p.Value != nil {
			return nil, fmt.Errorf("invalid map value: %v", p.Value)
		}
		raw, err := json.Marshal(m)
		if err != nil {
			return nil, err
		}
		aux.Value = raw
	case InteropInterfaceType, AnyType, VoidType:
		aux.Value = json.RawMessage("null")
	default:
		return nil, fmt.Errorf("can't marshal parameter of type %s", p.Type)
	}
	return json.Marshal(aux)
}

func decodeHash160BE(s string) (util.Uint160, error) {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return util.Uint160{}, err
	}
	return util.Uint160DecodeBytesBE(b)
}

func decodeJSONInteger(raw json.RawMessage) (*big.Int, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		bi, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("invalid integer value: %s", s)
		}
		if bi.BitLen() > 256 {
			return nil, errors.New("integer value is too big")
		}
		return bi, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("invalid integer value: %s", raw)
	}
	bi, ok := new(big.Int).SetString(n.String(), 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer value: %s", n)
	}
	if bi.BitLen() > 256 {
		return nil, errors.New("integer value is too big")
	}
	return bi, nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (p *Parameter) UnmarshalJSON(data []byte) error {
	var aux parameterAux
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	typ, err := paramTypeFromJSONName(aux.Type)
	if err != nil {
		return err
	}
	p.Type = typ
	if len(aux.Value) == 0 || string(aux.Value) == "null" {
		p.Value = nil
		return nil
	}
	switch typ {
	case BoolType:
		var b bool
		if err := json.Unmarshal(aux.Value, &b); err != nil {
			return fmt.Errorf("invalid bool value: %w", err)
		}
		p.Value = b
	case IntegerType:
		bi, err := decodeJSONInteger(aux.Value)
		if err != nil {
			return err
		}
		p.Value = bi
	case StringType:
		var s string
		if err := json.Unmarshal(aux.Value, &s); err != nil {
			return fmt.Errorf("invalid string value: %w", err)
		}
		p.Value = s
	case ByteArrayType, SignatureType:
		var s string
		if err := json.Unmarshal(aux.Value, &s); err != nil {
			return fmt.Errorf("invalid byte array value: %w", err)
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return fmt.Errorf("invalid byte array value: %w", err)
		}
		p.Value = b
	case PublicKeyType:
		var s string
		if err := json.Unmarshal(aux.Value, &s); err != nil {
			return fmt.Errorf("invalid public key value: %w", err)
		}
		b, err := hex.DecodeString(s)
		if err != nil {
			return fmt.Errorf("invalid public key value: %w", err)
		}
		p.Value = b
	case Hash160Type:
		var s string
		if err := json.Unmarshal(aux.Value, &s); err != nil {
			return fmt.Errorf("invalid hash160 value: %w", err)
		}
		u, err := decodeHash160BE(s)
		if err != nil {
			return fmt.Errorf("invalid hash160 value: %w", err)
		}
		p.Value = u
	case Hash256Type:
		var s string
		if err := json.Unmarshal(aux.Value, &s); err != nil {
			return fmt.Errorf("invalid hash256 value: %w", err)
		}
		u, err := util.Uint256DecodeStringBE(s)
		if err != nil {
			return fmt.Errorf("invalid hash256 value: %w", err)
		}
		p.Value = u
	case ArrayType:
		var arr []Parameter
		if err := json.Unmarshal(aux.Value, &arr); err != nil {
			return fmt.Errorf("invalid array value: %w", err)
		}
		p.Value = arr
	case MapType:
		var m []ParameterPair
		if err := json.Unmarshal(aux.Value, &m); err != nil {
			return fmt.Errorf("invalid map value: %w", err)
		}
		p.Value = m
	case InteropInterfaceType, AnyType, VoidType:
		p.Value = nil
	default:
		return fmt.Errorf("unsupported parameter type: %s", aux.Type)
	}
	return nil
}

// ExpandParameterToEmitable converts p into the plain Go value that
// emit.Array knows how to push onto a script, recursing into nested
// arrays.
func ExpandParameterToEmitable(p Parameter) (any, error) {
	switch p.Type {
	case BoolType, IntegerType, ByteArrayType, StringType, Hash160Type,
		Hash256Type, PublicKeyType, SignatureType, AnyType:
		return p.Value, nil
	case ArrayType:
		arr, _ := p.Value.([]Parameter)
		res := make([]any, 0, len(arr))
		for _, sub := range arr {
			v, err := ExpandParameterToEmitable(sub)
			if err != nil {
				return nil, err
			}
			res = append(res, v)
		}
		return res, nil
	default:
		return nil, fmt.Errorf("can't convert %s parameter to an emitable value", p.Type)
	}
}

// ToStackItem converts p into the stack item it represents, the
// inverse of reading an invocation result back into a Parameter.
func (p Parameter) ToStackItem() (stackitem.Item, error) {
	switch p.Type {
	case BoolType:
		b, _ := p.Value.(bool)
		return stackitem.NewBool(b), nil
	case IntegerType:
		bi, ok := p.Value.(*big.Int)
		if !ok {
			return nil, fmt.Errorf("invalid integer value: %v", p.Value)
		}
		return stackitem.NewBigInteger(bi), nil
	case ByteArrayType, SignatureType, PublicKeyType:
		b, _ := p.Value.([]byte)
		return stackitem.NewByteArray(b), nil
	case StringType:
		s, _ := p.Value.(string)
		return stackitem.NewByteArray([]byte(s)), nil
	case Hash160Type:
		u, ok := p.Value.(util.Uint160)
		if !ok {
			return nil, fmt.Errorf("invalid hash160 value: %v", p.Value)
		}
		return stackitem.NewByteArray(u.BytesBE()), nil
	case Hash256Type:
		u, ok := p.Value.(util.Uint256)
		if !ok {
			return nil, fmt.Errorf("invalid hash256 value: %v", p.Value)
		}
		return stackitem.NewByteArray(u.BytesBE()), nil
	case AnyType:
		if p.Value == nil {
			return stackitem.Null{}, nil
		}
		return nil, fmt.Errorf("can't convert Any parameter with a non-nil value")
	case ArrayType:
		arr, _ := p.Value.([]Parameter)
		items := make([]stackitem.Item, 0, len(arr))
		for _, sub := range arr {
			it, err := sub.ToStackItem()
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		}
		return stackitem.NewArray(items), nil
	default:
		return nil, fmt.Errorf("can't convert %s parameter to a stack item", p.Type)
	}
}

// splitTypeAndValue de-escapes s (backslash escapes the following
// character literally) and, if it contains an unescaped colon, splits
// it at the first one into a type prefix and the remaining value.
func splitTypeAndValue(s string) (prefix, value string, hasPrefix bool) {
	var b strings.Builder
	splitIdx := -1
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			b.WriteByte(s[i+1])
			i += 2
			continue
		}
		if c == ':' && splitIdx == -1 {
			splitIdx = b.Len()
		}
		b.WriteByte(c)
		i++
	}
	full := b.String()
	if splitIdx == -1 {
		return "", full, false
	}
	return full[:splitIdx], full[splitIdx+1:], true
}

// paramValueFromString converts a raw string into the Go value
// appropriate for pt, the way adjustValToType does, except Integer
// values come back as *big.Int to match the rest of this API.
func paramValueFromString(pt ParamType, val string) (interface{}, error) {
	if pt == IntegerType {
		bi, ok := new(big.Int).SetString(val, 10)
		if !ok {
			return nil, fmt.Errorf("can't parse integer: %s", val)
		}
		return bi, nil
	}
	return adjustValToType(pt, val)
}

// NewParameterFromString parses a CLI-style parameter literal:
// "type:value" for an explicit type, "filebytes:path" to read a file
// as a ByteArray, or a bare value whose type is inferred. A backslash
// escapes the following character, letting a literal colon appear in
// the value.
func NewParameterFromString(s string) (*Parameter, error) {
	if !utf8.ValidString(s) {
		return nil, errors.New("invalid UTF-8 parameter string")
	}
	prefix, value, hasPrefix := splitTypeAndValue(s)

	if hasPrefix {
		if strings.EqualFold(prefix, "filebytes") {
			data, err := os.ReadFile(value)
			if err != nil {
				return nil, fmt.Errorf("can't read file: %w", err)
			}
			return &Parameter{Type: ByteArrayType, Value: data}, nil
		}
		pt, err := ParseParamType(prefix)
		if err != nil {
			return nil, err
		}
		v, err := paramValueFromString(pt, value)
		if err != nil {
			return nil, err
		}
		return &Parameter{Type: pt, Value: v}, nil
	}

	pt := inferParamType(value)
	v, err := paramValueFromString(pt, value)
	if err != nil {
		return nil, err
	}
	return &Parameter{Type: pt, Value: v}, nil
}

// NewParameterFromValue converts an arbitrary Go value into a
// Parameter, inferring its ParamType the way the ABI encoder does:
// byte slices and scalars map directly, Convertible values delegate
// to ToSCParameter, and any other slice becomes an Array of converted
// elements.
func NewParameterFromValue(v any) (*Parameter, error) {
	if v == nil {
		return &Parameter{Type: AnyType}, nil
	}
	switch t := v.(type) {
	case Parameter:
		return &t, nil
	case *Parameter:
		return t, nil
	case Convertible:
		p, err := t.ToSCParameter()
		if err != nil {
			return nil, err
		}
		return &p, nil
	case []byte:
		return &Parameter{Type: ByteArrayType, Value: t}, nil
	case string:
		return &Parameter{Type: StringType, Value: t}, nil
	case bool:
		return &Parameter{Type: BoolType, Value: t}, nil
	case *big.Int:
		return &Parameter{Type: IntegerType, Value: t}, nil
	case byte:
		return &Parameter{Type: IntegerType, Value: big.NewInt(int64(t))}, nil
	case int8:
		return &Parameter{Type: IntegerType, Value: big.NewInt(int64(t))}, nil
	case int16:
		return &Parameter{Type: IntegerType, Value: big.NewInt(int64(t))}, nil
	case uint16:
		return &Parameter{Type: IntegerType, Value: big.NewInt(int64(t))}, nil
	case int32:
		return &Parameter{Type: IntegerType, Value: big.NewInt(int64(t))}, nil
	case uint32:
		return &Parameter{Type: IntegerType, Value: big.NewInt(int64(t))}, nil
	case int:
		return &Parameter{Type: IntegerType, Value: big.NewInt(int64(t))}, nil
	case uint:
		return &Parameter{Type: IntegerType, Value: big.NewInt(int64(t))}, nil
	case int64:
		return &Parameter{Type: IntegerType, Value: big.NewInt(t)}, nil
	case uint64:
		return &Parameter{Type: IntegerType, Value: new(big.Int).SetUint64(t)}, nil
	case util.Uint160:
		return &Parameter{Type: Hash160Type, Value: t}, nil
	case *util.Uint160:
		if t == nil {
			return &Parameter{Type: AnyType}, nil
		}
		return &Parameter{Type: Hash160Type, Value: *t}, nil
	case util.Uint256:
		return &Parameter{Type: Hash256Type, Value: t}, nil
	case *util.Uint256:
		if t == nil {
			return &Parameter{Type: AnyType}, nil
		}
		return &Parameter{Type: Hash256Type, Value: *t}, nil
	case keys.PublicKey:
		return &Parameter{Type: PublicKeyType, Value: t.Bytes()}, nil
	case *keys.PublicKey:
		return &Parameter{Type: PublicKeyType, Value: t.Bytes()}, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		n := rv.Len()
		arr := make([]Parameter, n)
		for i := 0; i < n; i++ {
			el, err := NewParameterFromValue(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			arr[i] = *el
		}
		return &Parameter{Type: ArrayType, Value: arr}, nil
	default:
		return nil, fmt.Errorf("unsupported operation: %T type", v)
	}
}

// NewParametersFromValues converts each of vs into a Parameter via
// NewParameterFromValue.
func NewParametersFromValues(vs ...any) ([]Parameter, error) {
	res := make([]Parameter, 0, len(vs))
	for _, v := range vs {
		p, err := NewParameterFromValue(v)
		if err != nil {
			return nil, err
		}
		res = append(res, *p)
	}
	return res, nil
}
