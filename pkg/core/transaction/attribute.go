package transaction

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/n3lib/core/pkg/io"
	"github.com/n3lib/core/pkg/util"
)

// AttrType is the tag byte of a transaction [Attribute].
type AttrType byte

const (
	// HighPriority marks a transaction as high priority, exempting it
	// from certain throttling rules.
	HighPriority AttrType = 0x01
	// OracleResponseT tags an attribute carrying an [OracleResponse].
	OracleResponseT AttrType = 0x11
	// NotValidBeforeT tags an attribute carrying a [NotValidBefore].
	NotValidBeforeT AttrType = 0x20
	// ConflictsT tags an attribute carrying a [Conflicts] hash.
	ConflictsT AttrType = 0x21
	// NotaryAssistedT tags an attribute carrying a [NotaryAssisted]
	// marker.
	NotaryAssistedT AttrType = 0x22

	// ReservedLowerBound is the first tag value reserved for
	// forward-compatible, opaque attribute extensions.
	ReservedLowerBound AttrType = 0xe0
	// ReservedUpperBound is the last tag value reserved for
	// forward-compatible, opaque attribute extensions.
	ReservedUpperBound AttrType = 0xff
)

// String implements the fmt.Stringer interface.
func (t AttrType) String() string {
	switch t {
	case HighPriority:
		return "HighPriority"
	case OracleResponseT:
		return "OracleResponse"
	case NotValidBeforeT:
		return "NotValidBefore"
	case ConflictsT:
		return "Conflicts"
	case NotaryAssistedT:
		return "NotaryAssisted"
	default:
		if t >= ReservedLowerBound && t <= ReservedUpperBound {
			return fmt.Sprintf("Reserved%x", byte(t))
		}
		return fmt.Sprintf("UNKNOWN(%x)", byte(t))
	}
}

func attrTypeFromString(s string) (AttrType, error) {
	switch s {
	case "HighPriority":
		return HighPriority, nil
	case "OracleResponse":
		return OracleResponseT, nil
	case "NotValidBefore":
		return NotValidBeforeT, nil
	case "Conflicts":
		return ConflictsT, nil
	case "NotaryAssisted":
		return NotaryAssistedT, nil
	}
	var b byte
	if _, err := fmt.Sscanf(s, "Reserved%x", &b); err == nil {
		t := AttrType(b)
		if t >= ReservedLowerBound && t <= ReservedUpperBound {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown attribute type %q", s)
}

// AttributeValue is the payload carried by an [Attribute]; the
// concrete type is determined by the attribute's Type.
type AttributeValue interface {
	// EncodeBinary writes the value's payload (not the tag byte).
	EncodeBinary(w *io.BinWriter)
	// DecodeBinary reads the value's payload (not the tag byte).
	DecodeBinary(r *io.BinReader)
	// toJSONMap adds the value's fields directly into m, so that an
	// Attribute serializes as a single flat JSON object.
	toJSONMap(m map[string]any)
}

// Attribute is a single transaction attribute: a type tag plus a
// type-specific value.
type Attribute struct {
	Type  AttrType
	Value AttributeValue
}

func newAttributeValue(t AttrType) (AttributeValue, error) {
	switch t {
	case HighPriority:
		return nil, nil
	case OracleResponseT:
		return new(OracleResponse), nil
	case NotValidBeforeT:
		return new(NotValidBefore), nil
	case ConflictsT:
		return new(Conflicts), nil
	case NotaryAssistedT:
		return new(NotaryAssisted), nil
	default:
		if t >= ReservedLowerBound && t <= ReservedUpperBound {
			return new(Reserved), nil
		}
		return nil, fmt.Errorf("unknown attribute type 0x%x", byte(t))
	}
}

// EncodeBinary implements the io.Serializable interface.
func (a *Attribute) EncodeBinary(bw *io.BinWriter) {
	expected, err := newAttributeValue(a.Type)
	if err != nil {
		bw.SetError(err)
		return
	}
	if reflect.TypeOf(expected) != reflect.TypeOf(a.Value) {
		bw.SetError(fmt.Errorf("attribute value type mismatch for type %v", a.Type))
		return
	}
	bw.WriteB(byte(a.Type))
	if a.Value != nil {
		a.Value.EncodeBinary(bw)
	}
}

// DecodeBinary implements the io.Serializable interface.
func (a *Attribute) DecodeBinary(br *io.BinReader) {
	t := br.ReadB()
	if br.Err != nil {
		return
	}
	a.Type = AttrType(t)
	val, err := newAttributeValue(a.Type)
	if err != nil {
		br.Err = err
		return
	}
	if val != nil {
		val.DecodeBinary(br)
		if br.Err != nil {
			return
		}
	}
	a.Value = val
}

type attributeAux struct {
	Type string `json:"type"`
}

// MarshalJSON implements the json.Marshaler interface.
func (a *Attribute) MarshalJSON() ([]byte, error) {
	m := map[string]any{"type": a.Type.String()}
	if a.Value != nil {
		a.Value.toJSONMap(m)
	}
	return json.Marshal(m)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (a *Attribute) UnmarshalJSON(data []byte) error {
	var aux attributeAux
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Type == "" {
		return errors.New("missing attribute type")
	}
	t, err := attrTypeFromString(aux.Type)
	if err != nil {
		return err
	}
	val, err := newAttributeValue(t)
	if err != nil {
		return err
	}
	if val != nil {
		um, ok := val.(json.Unmarshaler)
		if !ok {
			return fmt.Errorf("attribute value of type %q has no JSON support", aux.Type)
		}
		if err := um.UnmarshalJSON(data); err != nil {
			return err
		}
	}
	a.Type = t
	a.Value = val
	return nil
}

// OracleResponseCode is the status code an [OracleResponse] carries.
type OracleResponseCode byte

// Oracle response status codes.
const (
	Success               OracleResponseCode = 0x00
	ProtocolNotSupported  OracleResponseCode = 0x10
	ConsensusUnreachable  OracleResponseCode = 0x12
	NotFound              OracleResponseCode = 0x14
	Timeout               OracleResponseCode = 0x16
	Forbidden             OracleResponseCode = 0x18
	ResponseTooLarge      OracleResponseCode = 0x1a
	InsufficientFunds     OracleResponseCode = 0x1c
	Error                 OracleResponseCode = 0xff
)

// ErrInvalidResponseCode is returned when decoding an OracleResponse
// with an unrecognized status code.
var ErrInvalidResponseCode = errors.New("invalid oracle response code")

// ErrInvalidResult is returned when decoding an OracleResponse whose
// Result payload is inconsistent with its Code (e.g. a non-empty
// result on a non-Success response).
var ErrInvalidResult = errors.New("invalid oracle response result")

func (c OracleResponseCode) String() string {
	switch c {
	case Success:
		return "Success"
	case ProtocolNotSupported:
		return "ProtocolNotSupported"
	case ConsensusUnreachable:
		return "ConsensusUnreachable"
	case NotFound:
		return "NotFound"
	case Timeout:
		return "Timeout"
	case Forbidden:
		return "Forbidden"
	case ResponseTooLarge:
		return "ResponseTooLarge"
	case InsufficientFunds:
		return "InsufficientFunds"
	case Error:
		return "Error"
	default:
		return fmt.Sprintf("UNKNOWN(%x)", byte(c))
	}
}

func oracleCodeFromString(s string) (OracleResponseCode, error) {
	switch s {
	case "Success":
		return Success, nil
	case "ProtocolNotSupported":
		return ProtocolNotSupported, nil
	case "ConsensusUnreachable":
		return ConsensusUnreachable, nil
	case "NotFound":
		return NotFound, nil
	case "Timeout":
		return Timeout, nil
	case "Forbidden":
		return Forbidden, nil
	case "ResponseTooLarge":
		return ResponseTooLarge, nil
	case "InsufficientFunds":
		return InsufficientFunds, nil
	case "Error":
		return Error, nil
	default:
		return 0, fmt.Errorf("unknown oracle response code %q", s)
	}
}

// MaxOracleResultSize bounds the size of an OracleResponse's Result
// payload.
const MaxOracleResultSize = 1024

// OracleResponse is the result of an oracle request, correlated back
// to it by ID.
type OracleResponse struct {
	ID     uint64
	Code   OracleResponseCode
	Result []byte
}

// EncodeBinary implements AttributeValue.
func (o *OracleResponse) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(o.ID)
	w.WriteB(byte(o.Code))
	w.WriteVarBytes(o.Result)
}

// DecodeBinary implements AttributeValue.
func (o *OracleResponse) DecodeBinary(r *io.BinReader) {
	o.ID = r.ReadU64LE()
	code := r.ReadB()
	if r.Err != nil {
		return
	}
	if !validOracleCode(OracleResponseCode(code)) {
		r.Err = fmt.Errorf("%w: 0x%x", ErrInvalidResponseCode, code)
		return
	}
	o.Code = OracleResponseCode(code)
	o.Result = r.ReadVarBytes(MaxOracleResultSize)
	if r.Err != nil {
		return
	}
	if o.Code != Success && len(o.Result) != 0 {
		r.Err = ErrInvalidResult
		return
	}
}

func validOracleCode(c OracleResponseCode) bool {
	switch c {
	case Success, ProtocolNotSupported, ConsensusUnreachable, NotFound, Timeout,
		Forbidden, ResponseTooLarge, InsufficientFunds, Error:
		return true
	default:
		return false
	}
}

func (o *OracleResponse) toJSONMap(m map[string]any) {
	m["id"] = o.ID
	m["code"] = o.Code.String()
	m["result"] = base64.StdEncoding.EncodeToString(o.Result)
}

type oracleResponseAux struct {
	ID     uint64 `json:"id"`
	Code   string `json:"code"`
	Result string `json:"result"`
}

// MarshalJSON implements the json.Marshaler interface.
func (o *OracleResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(oracleResponseAux{
		ID:     o.ID,
		Code:   o.Code.String(),
		Result: base64.StdEncoding.EncodeToString(o.Result),
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface. It accepts
// either a standalone OracleResponse object or a flattened Attribute
// object carrying the same fields alongside a "type" key.
func (o *OracleResponse) UnmarshalJSON(data []byte) error {
	var aux oracleResponseAux
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	code, err := oracleCodeFromString(aux.Code)
	if err != nil {
		return err
	}
	result, err := base64.StdEncoding.DecodeString(aux.Result)
	if err != nil {
		return errors.New("can't decode oracle response result")
	}
	o.ID = aux.ID
	o.Code = code
	o.Result = result
	return nil
}

// NotValidBefore disallows inclusion of a transaction into any block
// with an index lower than Height.
type NotValidBefore struct {
	Height uint32
}

// EncodeBinary implements AttributeValue.
func (n *NotValidBefore) EncodeBinary(w *io.BinWriter) {
	w.WriteU32LE(n.Height)
}

// DecodeBinary implements AttributeValue.
func (n *NotValidBefore) DecodeBinary(r *io.BinReader) {
	n.Height = r.ReadU32LE()
}

func (n *NotValidBefore) toJSONMap(m map[string]any) {
	m["height"] = n.Height
}

type notValidBeforeAux struct {
	Height uint32 `json:"height"`
}

// MarshalJSON implements the json.Marshaler interface.
func (n *NotValidBefore) MarshalJSON() ([]byte, error) {
	return json.Marshal(notValidBeforeAux{Height: n.Height})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (n *NotValidBefore) UnmarshalJSON(data []byte) error {
	var aux notValidBeforeAux
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	n.Height = aux.Height
	return nil
}

// Conflicts names a transaction hash that must not also be included
// on-chain; including this attribute lets a higher-fee transaction
// invalidate a conflicting one still in the mempool.
type Conflicts struct {
	Hash util.Uint256
}

// EncodeBinary implements AttributeValue.
func (c *Conflicts) EncodeBinary(w *io.BinWriter) {
	c.Hash.EncodeBinary(w)
}

// DecodeBinary implements AttributeValue.
func (c *Conflicts) DecodeBinary(r *io.BinReader) {
	c.Hash.DecodeBinary(r)
}

func (c *Conflicts) toJSONMap(m map[string]any) {
	m["hash"] = c.Hash.StringLE()
}

type conflictsAux struct {
	Hash util.Uint256 `json:"hash"`
}

// MarshalJSON implements the json.Marshaler interface.
func (c *Conflicts) MarshalJSON() ([]byte, error) {
	return json.Marshal(conflictsAux{Hash: c.Hash})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (c *Conflicts) UnmarshalJSON(data []byte) error {
	var aux conflictsAux
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.Hash = aux.Hash
	return nil
}

// NotaryAssisted marks a transaction as notary-service-assisted,
// recording how many extra signer keys the notary contract witnesses.
type NotaryAssisted struct {
	NKeys byte
}

// EncodeBinary implements AttributeValue.
func (n *NotaryAssisted) EncodeBinary(w *io.BinWriter) {
	w.WriteB(n.NKeys)
}

// DecodeBinary implements AttributeValue.
func (n *NotaryAssisted) DecodeBinary(r *io.BinReader) {
	n.NKeys = r.ReadB()
}

func (n *NotaryAssisted) toJSONMap(m map[string]any) {
	m["nkeys"] = n.NKeys
}

type notaryAssistedAux struct {
	NKeys byte `json:"nkeys"`
}

// MarshalJSON implements the json.Marshaler interface.
func (n *NotaryAssisted) MarshalJSON() ([]byte, error) {
	return json.Marshal(notaryAssistedAux{NKeys: n.NKeys})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (n *NotaryAssisted) UnmarshalJSON(data []byte) error {
	var aux notaryAssistedAux
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	n.NKeys = aux.NKeys
	return nil
}

// Reserved is an opaque attribute value used for the forward-compatible
// tag range between ReservedLowerBound and ReservedUpperBound.
type Reserved struct {
	Value []byte
}

// EncodeBinary implements AttributeValue.
func (r *Reserved) EncodeBinary(w *io.BinWriter) {
	w.WriteVarBytes(r.Value)
}

// DecodeBinary implements AttributeValue.
func (r *Reserved) DecodeBinary(br *io.BinReader) {
	r.Value = br.ReadVarBytes()
}

func (r *Reserved) toJSONMap(m map[string]any) {
	m["value"] = base64.StdEncoding.EncodeToString(r.Value)
}

type reservedAux struct {
	Value string `json:"value"`
}

// MarshalJSON implements the json.Marshaler interface.
func (r *Reserved) MarshalJSON() ([]byte, error) {
	return json.Marshal(reservedAux{Value: base64.StdEncoding.EncodeToString(r.Value)})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (r *Reserved) UnmarshalJSON(data []byte) error {
	var aux reservedAux
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	v, err := base64.StdEncoding.DecodeString(aux.Value)
	if err != nil {
		return errors.New("can't decode reserved value")
	}
	r.Value = v
	return nil
}
