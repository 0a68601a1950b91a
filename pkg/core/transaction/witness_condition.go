package transaction

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/n3lib/core/pkg/crypto/keys"
	"github.com/n3lib/core/pkg/io"
	"github.com/n3lib/core/pkg/util"
)

// maxSubitems is the maximum number of subexpressions allowed inside
// a single And/Or condition.
const maxSubitems = 16

// MaxConditionNesting is the maximum depth of nested Not/And/Or
// conditions allowed in a witness rule.
const MaxConditionNesting = 2

// WitnessConditionType is the type of a [WitnessCondition].
type WitnessConditionType byte

// Witness condition types, matching the tag byte used on the wire.
const (
	WitnessBoolean          WitnessConditionType = 0x00
	WitnessNot              WitnessConditionType = 0x01
	WitnessAnd              WitnessConditionType = 0x02
	WitnessOr               WitnessConditionType = 0x03
	WitnessScriptHash       WitnessConditionType = 0x18
	WitnessGroup            WitnessConditionType = 0x19
	WitnessCalledByEntry    WitnessConditionType = 0x20
	WitnessCalledByContract WitnessConditionType = 0x28
	WitnessCalledByGroup    WitnessConditionType = 0x29
)

// String implements the fmt.Stringer interface.
func (t WitnessConditionType) String() string {
	switch t {
	case WitnessBoolean:
		return "Boolean"
	case WitnessNot:
		return "Not"
	case WitnessAnd:
		return "And"
	case WitnessOr:
		return "Or"
	case WitnessScriptHash:
		return "ScriptHash"
	case WitnessGroup:
		return "Group"
	case WitnessCalledByEntry:
		return "CalledByEntry"
	case WitnessCalledByContract:
		return "CalledByContract"
	case WitnessCalledByGroup:
		return "CalledByGroup"
	default:
		return fmt.Sprintf("UNKNOWN(%x)", byte(t))
	}
}

func witnessConditionTypeFromString(s string) (WitnessConditionType, error) {
	switch s {
	case "Boolean":
		return WitnessBoolean, nil
	case "Not":
		return WitnessNot, nil
	case "And":
		return WitnessAnd, nil
	case "Or":
		return WitnessOr, nil
	case "ScriptHash":
		return WitnessScriptHash, nil
	case "Group":
		return WitnessGroup, nil
	case "CalledByEntry":
		return WitnessCalledByEntry, nil
	case "CalledByContract":
		return WitnessCalledByContract, nil
	case "CalledByGroup":
		return WitnessCalledByGroup, nil
	default:
		return 0, fmt.Errorf("unknown witness condition type %q", s)
	}
}

// MatchContext is the runtime state a [WitnessCondition] is evaluated
// against. Implementations are supplied by whatever embeds this
// package's transaction verification (this package itself never
// executes a condition, only encodes/decodes/matches it against the
// caller-supplied context).
type MatchContext interface {
	GetCallingScriptHash() util.Uint160
	GetCurrentScriptHash() util.Uint160
	GetEntryScriptHash() util.Uint160
	CallingScriptHasGroup(k *keys.PublicKey) (bool, error)
	CurrentScriptHasGroup(k *keys.PublicKey) (bool, error)
}

// WitnessCondition is a predicate evaluated against a [MatchContext]
// to decide whether a [WitnessRule] applies.
type WitnessCondition interface {
	// Type returns the condition's wire/JSON type tag.
	Type() WitnessConditionType
	// Match reports whether c holds in ctx.
	Match(ctx MatchContext) (bool, error)
	// EncodeBinary writes the type tag and the condition's payload.
	EncodeBinary(w *io.BinWriter)
	// DecodeBinarySpecific reads the condition's payload (the type tag
	// has already been consumed). maxDepth bounds further nesting for
	// composite conditions.
	DecodeBinarySpecific(r *io.BinReader, maxDepth int)
	// MarshalJSON implements json.Marshaler.
	MarshalJSON() ([]byte, error)
}

// conditionAux is the common JSON shape of all condition types.
type conditionAux struct {
	Type        string            `json:"type"`
	Expression  json.RawMessage   `json:"expression,omitempty"`
	Expressions []json.RawMessage `json:"expressions,omitempty"`
	Hash        *util.Uint160     `json:"hash,omitempty"`
	Group       *keys.PublicKey   `json:"group,omitempty"`
}

// ConditionBoolean is a constant true/false condition.
type ConditionBoolean bool

// Type implements WitnessCondition.
func (c *ConditionBoolean) Type() WitnessConditionType { return WitnessBoolean }

// Match implements WitnessCondition.
func (c *ConditionBoolean) Match(_ MatchContext) (bool, error) {
	return bool(*c), nil
}

// EncodeBinary implements WitnessCondition.
func (c *ConditionBoolean) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	w.WriteBool(bool(*c))
}

// DecodeBinarySpecific implements WitnessCondition.
func (c *ConditionBoolean) DecodeBinarySpecific(r *io.BinReader, _ int) {
	*c = ConditionBoolean(r.ReadBool())
}

// MarshalJSON implements WitnessCondition.
func (c *ConditionBoolean) MarshalJSON() ([]byte, error) {
	expr, err := json.Marshal(bool(*c))
	if err != nil {
		return nil, err
	}
	return json.Marshal(conditionAux{Type: c.Type().String(), Expression: expr})
}

func unmarshalBoolean(aux *conditionAux) (*ConditionBoolean, error) {
	if len(aux.Expression) == 0 {
		return nil, errors.New("missing expression")
	}
	var b bool
	if err := json.Unmarshal(aux.Expression, &b); err != nil {
		return nil, err
	}
	c := ConditionBoolean(b)
	return &c, nil
}

// ConditionNot negates its single subcondition.
type ConditionNot struct {
	Condition WitnessCondition
}

// Type implements WitnessCondition.
func (c *ConditionNot) Type() WitnessConditionType { return WitnessNot }

// Match implements WitnessCondition.
func (c *ConditionNot) Match(ctx MatchContext) (bool, error) {
	res, err := c.Condition.Match(ctx)
	if err != nil {
		return false, err
	}
	return !res, nil
}

// EncodeBinary implements WitnessCondition.
func (c *ConditionNot) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	c.Condition.EncodeBinary(w)
}

// DecodeBinarySpecific implements WitnessCondition.
func (c *ConditionNot) DecodeBinarySpecific(r *io.BinReader, maxDepth int) {
	c.Condition = decodeBinaryCondition(r, maxDepth-1)
}

// MarshalJSON implements WitnessCondition.
func (c *ConditionNot) MarshalJSON() ([]byte, error) {
	expr, err := c.Condition.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(conditionAux{Type: c.Type().String(), Expression: expr})
}

func unmarshalNot(aux *conditionAux, maxDepth int) (*ConditionNot, error) {
	if len(aux.Expression) == 0 {
		return nil, errors.New("missing expression")
	}
	inner, err := unmarshalConditionJSON(aux.Expression, maxDepth-1)
	if err != nil {
		return nil, err
	}
	return &ConditionNot{Condition: inner}, nil
}

// ConditionAnd requires all of its subconditions to hold.
type ConditionAnd []WitnessCondition

// Type implements WitnessCondition.
func (c *ConditionAnd) Type() WitnessConditionType { return WitnessAnd }

// Match implements WitnessCondition.
func (c *ConditionAnd) Match(ctx MatchContext) (bool, error) {
	for _, sub := range *c {
		res, err := sub.Match(ctx)
		if err != nil {
			return false, err
		}
		if !res {
			return false, nil
		}
	}
	return true, nil
}

// EncodeBinary implements WitnessCondition.
func (c *ConditionAnd) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	w.WriteVarUint(uint64(len(*c)))
	for _, sub := range *c {
		sub.EncodeBinary(w)
	}
}

// DecodeBinarySpecific implements WitnessCondition.
func (c *ConditionAnd) DecodeBinarySpecific(r *io.BinReader, maxDepth int) {
	decodeBinaryConditionGroup(r, maxDepth, (*[]WitnessCondition)(c))
}

// MarshalJSON implements WitnessCondition.
func (c *ConditionAnd) MarshalJSON() ([]byte, error) {
	exprs, err := marshalConditionGroup(*c)
	if err != nil {
		return nil, err
	}
	return json.Marshal(conditionAux{Type: c.Type().String(), Expressions: exprs})
}

func unmarshalAnd(aux *conditionAux, maxDepth int) (*ConditionAnd, error) {
	subs, err := unmarshalConditionGroup(aux.Expressions, maxDepth)
	if err != nil {
		return nil, err
	}
	c := ConditionAnd(subs)
	return &c, nil
}

// ConditionOr requires at least one of its subconditions to hold.
type ConditionOr []WitnessCondition

// Type implements WitnessCondition.
func (c *ConditionOr) Type() WitnessConditionType { return WitnessOr }

// Match implements WitnessCondition.
func (c *ConditionOr) Match(ctx MatchContext) (bool, error) {
	for _, sub := range *c {
		res, err := sub.Match(ctx)
		if err != nil {
			return false, err
		}
		if res {
			return true, nil
		}
	}
	return false, nil
}

// EncodeBinary implements WitnessCondition.
func (c *ConditionOr) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	w.WriteVarUint(uint64(len(*c)))
	for _, sub := range *c {
		sub.EncodeBinary(w)
	}
}

// DecodeBinarySpecific implements WitnessCondition.
func (c *ConditionOr) DecodeBinarySpecific(r *io.BinReader, maxDepth int) {
	decodeBinaryConditionGroup(r, maxDepth, (*[]WitnessCondition)(c))
}

// MarshalJSON implements WitnessCondition.
func (c *ConditionOr) MarshalJSON() ([]byte, error) {
	exprs, err := marshalConditionGroup(*c)
	if err != nil {
		return nil, err
	}
	return json.Marshal(conditionAux{Type: c.Type().String(), Expressions: exprs})
}

func unmarshalOr(aux *conditionAux, maxDepth int) (*ConditionOr, error) {
	subs, err := unmarshalConditionGroup(aux.Expressions, maxDepth)
	if err != nil {
		return nil, err
	}
	c := ConditionOr(subs)
	return &c, nil
}

func marshalConditionGroup(subs []WitnessCondition) ([]json.RawMessage, error) {
	if len(subs) == 0 {
		return nil, errors.New("empty condition group")
	}
	out := make([]json.RawMessage, len(subs))
	for i, sub := range subs {
		b, err := sub.MarshalJSON()
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

func unmarshalConditionGroup(raw []json.RawMessage, maxDepth int) ([]WitnessCondition, error) {
	if len(raw) == 0 {
		return nil, errors.New("empty condition group")
	}
	if len(raw) > maxSubitems {
		return nil, fmt.Errorf("too many subexpressions: %d", len(raw))
	}
	out := make([]WitnessCondition, len(raw))
	for i, r := range raw {
		c, err := unmarshalConditionJSON(r, maxDepth-1)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func decodeBinaryConditionGroup(r *io.BinReader, maxDepth int, out *[]WitnessCondition) {
	n := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	if n == 0 {
		r.Err = errors.New("empty condition group")
		return
	}
	if n > maxSubitems {
		r.Err = fmt.Errorf("too many subexpressions: %d", n)
		return
	}
	subs := make([]WitnessCondition, n)
	for i := range subs {
		subs[i] = decodeBinaryCondition(r, maxDepth-1)
		if r.Err != nil {
			return
		}
	}
	*out = subs
}

// ConditionScriptHash matches when the currently executing script's
// hash equals the condition's hash.
type ConditionScriptHash util.Uint160

// Type implements WitnessCondition.
func (c *ConditionScriptHash) Type() WitnessConditionType { return WitnessScriptHash }

// Match implements WitnessCondition.
func (c *ConditionScriptHash) Match(ctx MatchContext) (bool, error) {
	return ctx.GetCurrentScriptHash().Equals(util.Uint160(*c)), nil
}

// EncodeBinary implements WitnessCondition.
func (c *ConditionScriptHash) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	h := util.Uint160(*c)
	w.WriteBytes(h[:])
}

// DecodeBinarySpecific implements WitnessCondition.
func (c *ConditionScriptHash) DecodeBinarySpecific(r *io.BinReader, _ int) {
	var h util.Uint160
	r.ReadBytes(h[:])
	*c = ConditionScriptHash(h)
}

// MarshalJSON implements WitnessCondition.
func (c *ConditionScriptHash) MarshalJSON() ([]byte, error) {
	h := util.Uint160(*c)
	return json.Marshal(conditionAux{Type: c.Type().String(), Hash: &h})
}

func unmarshalScriptHash(aux *conditionAux) (*ConditionScriptHash, error) {
	if aux.Hash == nil {
		return nil, errors.New("missing hash")
	}
	c := ConditionScriptHash(*aux.Hash)
	return &c, nil
}

// ConditionGroup matches when the currently executing script belongs
// to the group identified by the condition's public key.
type ConditionGroup keys.PublicKey

// Type implements WitnessCondition.
func (c *ConditionGroup) Type() WitnessConditionType { return WitnessGroup }

// Match implements WitnessCondition.
func (c *ConditionGroup) Match(ctx MatchContext) (bool, error) {
	return ctx.CurrentScriptHasGroup((*keys.PublicKey)(c))
}

// EncodeBinary implements WitnessCondition.
func (c *ConditionGroup) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	(*keys.PublicKey)(c).EncodeBinary(w)
}

// DecodeBinarySpecific implements WitnessCondition.
func (c *ConditionGroup) DecodeBinarySpecific(r *io.BinReader, _ int) {
	(*keys.PublicKey)(c).DecodeBinary(r)
}

// MarshalJSON implements WitnessCondition.
func (c *ConditionGroup) MarshalJSON() ([]byte, error) {
	pk := (*keys.PublicKey)(c)
	return json.Marshal(conditionAux{Type: c.Type().String(), Group: pk})
}

func unmarshalGroup(aux *conditionAux) (*ConditionGroup, error) {
	if aux.Group == nil {
		return nil, errors.New("missing group")
	}
	c := ConditionGroup(*aux.Group)
	return &c, nil
}

// ConditionCalledByEntry matches when the currently executing script
// is the entry script of the invocation, or was invoked by it.
type ConditionCalledByEntry struct{}

// Type implements WitnessCondition.
func (c ConditionCalledByEntry) Type() WitnessConditionType { return WitnessCalledByEntry }

// Match implements WitnessCondition.
func (c ConditionCalledByEntry) Match(ctx MatchContext) (bool, error) {
	entry := ctx.GetEntryScriptHash()
	if ctx.GetCurrentScriptHash().Equals(entry) {
		return true, nil
	}
	return ctx.GetCallingScriptHash().Equals(entry), nil
}

// EncodeBinary implements WitnessCondition.
func (c ConditionCalledByEntry) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
}

// DecodeBinarySpecific implements WitnessCondition.
func (c ConditionCalledByEntry) DecodeBinarySpecific(_ *io.BinReader, _ int) {
}

// MarshalJSON implements WitnessCondition.
func (c ConditionCalledByEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(conditionAux{Type: c.Type().String()})
}

// ConditionCalledByContract matches when the calling script's hash
// equals the condition's hash.
type ConditionCalledByContract util.Uint160

// Type implements WitnessCondition.
func (c *ConditionCalledByContract) Type() WitnessConditionType { return WitnessCalledByContract }

// Match implements WitnessCondition.
func (c *ConditionCalledByContract) Match(ctx MatchContext) (bool, error) {
	return ctx.GetCallingScriptHash().Equals(util.Uint160(*c)), nil
}

// EncodeBinary implements WitnessCondition.
func (c *ConditionCalledByContract) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	h := util.Uint160(*c)
	w.WriteBytes(h[:])
}

// DecodeBinarySpecific implements WitnessCondition.
func (c *ConditionCalledByContract) DecodeBinarySpecific(r *io.BinReader, _ int) {
	var h util.Uint160
	r.ReadBytes(h[:])
	*c = ConditionCalledByContract(h)
}

// MarshalJSON implements WitnessCondition.
func (c *ConditionCalledByContract) MarshalJSON() ([]byte, error) {
	h := util.Uint160(*c)
	return json.Marshal(conditionAux{Type: c.Type().String(), Hash: &h})
}

func unmarshalCalledByContract(aux *conditionAux) (*ConditionCalledByContract, error) {
	if aux.Hash == nil {
		return nil, errors.New("missing hash")
	}
	c := ConditionCalledByContract(*aux.Hash)
	return &c, nil
}

// ConditionCalledByGroup matches when the calling script belongs to
// the group identified by the condition's public key.
type ConditionCalledByGroup keys.PublicKey

// Type implements WitnessCondition.
func (c *ConditionCalledByGroup) Type() WitnessConditionType { return WitnessCalledByGroup }

// Match implements WitnessCondition.
func (c *ConditionCalledByGroup) Match(ctx MatchContext) (bool, error) {
	return ctx.CallingScriptHasGroup((*keys.PublicKey)(c))
}

// EncodeBinary implements WitnessCondition.
func (c *ConditionCalledByGroup) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	(*keys.PublicKey)(c).EncodeBinary(w)
}

// DecodeBinarySpecific implements WitnessCondition.
func (c *ConditionCalledByGroup) DecodeBinarySpecific(r *io.BinReader, _ int) {
	(*keys.PublicKey)(c).DecodeBinary(r)
}

// MarshalJSON implements WitnessCondition.
func (c *ConditionCalledByGroup) MarshalJSON() ([]byte, error) {
	pk := (*keys.PublicKey)(c)
	return json.Marshal(conditionAux{Type: c.Type().String(), Group: pk})
}

func unmarshalCalledByGroup(aux *conditionAux) (*ConditionCalledByGroup, error) {
	if aux.Group == nil {
		return nil, errors.New("missing group")
	}
	c := ConditionCalledByGroup(*aux.Group)
	return &c, nil
}

// DecodeBinaryCondition decodes a single condition (and, recursively,
// any it's composed of) from r.
func DecodeBinaryCondition(r *io.BinReader) WitnessCondition {
	return decodeBinaryCondition(r, MaxConditionNesting)
}

func decodeBinaryCondition(r *io.BinReader, maxDepth int) WitnessCondition {
	if maxDepth < 0 {
		r.Err = errors.New("witness condition is nested too deep")
		return nil
	}
	typ := WitnessConditionType(r.ReadB())
	if r.Err != nil {
		return nil
	}
	var c WitnessCondition
	switch typ {
	case WitnessBoolean:
		c = new(ConditionBoolean)
	case WitnessNot:
		c = new(ConditionNot)
	case WitnessAnd:
		c = new(ConditionAnd)
	case WitnessOr:
		c = new(ConditionOr)
	case WitnessScriptHash:
		c = new(ConditionScriptHash)
	case WitnessGroup:
		c = new(ConditionGroup)
	case WitnessCalledByEntry:
		c = ConditionCalledByEntry{}
	case WitnessCalledByContract:
		c = new(ConditionCalledByContract)
	case WitnessCalledByGroup:
		c = new(ConditionCalledByGroup)
	default:
		r.Err = fmt.Errorf("unknown witness condition type 0x%x", byte(typ))
		return nil
	}
	c.DecodeBinarySpecific(r, maxDepth)
	if r.Err != nil {
		return nil
	}
	return c
}

// UnmarshalConditionJSON decodes a single condition from its JSON
// representation.
func UnmarshalConditionJSON(data []byte) (WitnessCondition, error) {
	return unmarshalConditionJSON(data, MaxConditionNesting)
}

func unmarshalConditionJSON(data []byte, maxDepth int) (WitnessCondition, error) {
	if maxDepth < 0 {
		return nil, errors.New("witness condition is nested too deep")
	}
	var aux conditionAux
	if err := json.Unmarshal(data, &aux); err != nil {
		return nil, err
	}
	if aux.Type == "" {
		return nil, errors.New("missing condition type")
	}
	typ, err := witnessConditionTypeFromString(aux.Type)
	if err != nil {
		return nil, err
	}
	switch typ {
	case WitnessBoolean:
		return unmarshalBoolean(&aux)
	case WitnessNot:
		return unmarshalNot(&aux, maxDepth)
	case WitnessAnd:
		return unmarshalAnd(&aux, maxDepth)
	case WitnessOr:
		return unmarshalOr(&aux, maxDepth)
	case WitnessScriptHash:
		return unmarshalScriptHash(&aux)
	case WitnessGroup:
		return unmarshalGroup(&aux)
	case WitnessCalledByEntry:
		return ConditionCalledByEntry{}, nil
	case WitnessCalledByContract:
		return unmarshalCalledByContract(&aux)
	case WitnessCalledByGroup:
		return unmarshalCalledByGroup(&aux)
	default:
		return nil, fmt.Errorf("unknown witness condition type %q", aux.Type)
	}
}
