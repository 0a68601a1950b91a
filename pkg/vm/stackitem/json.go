package stackitem

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	ojson "github.com/nspcc-dev/go-ordered-json"
)

// maxJSONDepth is the maximum allowed nesting level of a decoded item.
const maxJSONDepth = 10

// ErrInvalidValue is returned when an item has a value incompatible
// with its declared type.
var ErrInvalidValue = errors.New("invalid value")

// ErrTooDeep is returned for JSON nested deeper than maxJSONDepth.
var ErrTooDeep = errors.New("too deep")

// ToJSONWithTypes serializes item to the {"type":..., "value":...}
// JSON form used by invocation results, preserving map element order
// the way the node emits it. Interop items have no JSON form and
// produce an error.
func ToJSONWithTypes(item Item) ([]byte, error) {
	res, err := itemToJSONWithTypes(item, make(map[Item]bool))
	if err != nil {
		return nil, err
	}
	return ojson.Marshal(res)
}

func itemToJSONWithTypes(item Item, seen map[Item]bool) (any, error) {
	typ := item.Type()
	result := ojson.OrderedObject{{Key: "type", Value: typ.String()}}
	var value any
	switch it := item.(type) {
	case *Array, *Struct:
		if seen[item] {
			return nil, errors.New("recursive structures can't be serialized to json")
		}
		seen[item] = true
		arr := []any{}
		for _, elem := range it.Value().([]Item) {
			s, err := itemToJSONWithTypes(elem, seen)
			if err != nil {
				return nil, err
			}
			arr = append(arr, s)
		}
		value = arr
		delete(seen, item)
	case Bool:
		value = bool(it)
	case ByteArray, Buffer:
		value = base64.StdEncoding.EncodeToString(it.Value().([]byte))
	case *BigInteger:
		value = it.value.String()
	case *Map:
		if seen[item] {
			return nil, errors.New("recursive structures can't be serialized to json")
		}
		seen[item] = true
		arr := []any{}
		for i := range it.value {
			k, err := itemToJSONWithTypes(it.value[i].Key, seen)
			if err != nil {
				return nil, err
			}
			v, err := itemToJSONWithTypes(it.value[i].Value, seen)
			if err != nil {
				return nil, err
			}
			arr = append(arr, ojson.OrderedObject{
				{Key: "key", Value: k},
				{Key: "value", Value: v},
			})
		}
		value = arr
		delete(seen, item)
	case Pointer:
		value = it.Position
	case Null:
	default:
		return nil, fmt.Errorf("invalid stack item type: %s", typ)
	}
	if value != nil {
		result = append(result, ojson.Member{Key: "value", Value: value})
	}
	return result, nil
}

type rawItem struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

type rawMapElement struct {
	Key   json.RawMessage `json:"key"`
	Value json.RawMessage `json:"value"`
}

// FromJSONWithTypes deserializes an item from the
// {"type":..., "value":...} JSON form.
func FromJSONWithTypes(data []byte) (Item, error) {
	return fromJSONWithTypes(data, 0)
}

func fromJSONWithTypes(data []byte, depth int) (Item, error) {
	if depth > maxJSONDepth {
		return nil, ErrTooDeep
	}
	raw := new(rawItem)
	if err := json.Unmarshal(data, raw); err != nil {
		return nil, err
	}
	typ, err := FromString(raw.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	switch typ {
	case AnyT:
		return Null{}, nil
	case BooleanT:
		var b bool
		if err := json.Unmarshal(raw.Value, &b); err != nil {
			return nil, fmt.Errorf("%w: not a bool", ErrInvalidValue)
		}
		return NewBool(b), nil
	case IntegerT:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return nil, fmt.Errorf("%w: not a string", ErrInvalidValue)
		}
		val, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("%w: not an integer", ErrInvalidValue)
		}
		return NewBigInteger(val), nil
	case ByteStringT, BufferT:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return nil, fmt.Errorf("%w: not a string", ErrInvalidValue)
		}
		val, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: not base64", ErrInvalidValue)
		}
		if typ == BufferT {
			return NewBuffer(val), nil
		}
		return NewByteArray(val), nil
	case ArrayT, StructT:
		var arr []json.RawMessage
		if err := json.Unmarshal(raw.Value, &arr); err != nil {
			return nil, fmt.Errorf("%w: not an array", ErrInvalidValue)
		}
		items := make([]Item, len(arr))
		for i := range arr {
			if items[i], err = fromJSONWithTypes(arr[i], depth+1); err != nil {
				return nil, err
			}
		}
		if typ == StructT {
			return NewStruct(items), nil
		}
		return NewArray(items), nil
	case MapT:
		var arr []rawMapElement
		if err := json.Unmarshal(raw.Value, &arr); err != nil {
			return nil, fmt.Errorf("%w: not a map", ErrInvalidValue)
		}
		m := NewMap()
		for i := range arr {
			key, err := fromJSONWithTypes(arr[i].Key, depth+1)
			if err != nil {
				return nil, err
			}
			value, err := fromJSONWithTypes(arr[i].Value, depth+1)
			if err != nil {
				return nil, err
			}
			m.Add(key, value)
		}
		return m, nil
	case PointerT:
		var pos int
		if err := json.Unmarshal(raw.Value, &pos); err != nil {
			return nil, fmt.Errorf("%w: not a position", ErrInvalidValue)
		}
		return NewPointer(pos), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidValue, typ)
	}
}
