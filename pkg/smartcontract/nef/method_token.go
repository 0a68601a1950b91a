package nef

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/n3lib/core/pkg/io"
	"github.com/n3lib/core/pkg/smartcontract/callflag"
	"github.com/n3lib/core/pkg/util"
)

// maxMethodLength is the longest method name a token may reference.
const maxMethodLength = 32

var (
	errInvalidMethodName = errors.New("method name is invalid")
	errInvalidCallFlag   = errors.New("call flag is invalid")
)

// MethodToken describes a single static reference to another contract's
// method, resolved by the VM to an actual hash at invocation time.
type MethodToken struct {
	// Hash is the contract being called.
	Hash util.Uint160
	// Method is the name of the method being called.
	Method string
	// ParamCount is the number of parameters the method accepts.
	ParamCount uint16
	// HasReturn denotes whether the method returns a value.
	HasReturn bool
	// CallFlag is the set of flags to use for the call.
	CallFlag callflag.CallFlag
}

// EncodeBinary implements the io.Serializable interface.
func (t *MethodToken) EncodeBinary(w *io.BinWriter) {
	t.Hash.EncodeBinary(w)
	w.WriteString(t.Method)
	w.WriteU16LE(t.ParamCount)
	w.WriteBool(t.HasReturn)
	w.WriteB(byte(t.CallFlag))
}

// DecodeBinary implements the io.Serializable interface.
func (t *MethodToken) DecodeBinary(r *io.BinReader) {
	t.Hash.DecodeBinary(r)
	t.Method = r.ReadString(maxMethodLength)
	if r.Err == nil && (len(t.Method) == 0 || strings.HasPrefix(t.Method, "_")) {
		r.Err = errInvalidMethodName
		return
	}
	t.ParamCount = r.ReadU16LE()
	t.HasReturn = r.ReadBool()
	t.CallFlag = callflag.CallFlag(r.ReadB())
	if r.Err == nil && t.CallFlag&^callflag.All != 0 {
		r.Err = errInvalidCallFlag
	}
}

type tokenAux struct {
	Hash       util.Uint160 `json:"hash"`
	Method     string       `json:"method"`
	ParamCount uint16       `json:"paramcount"`
	HasReturn  bool         `json:"hasreturnvalue"`
	CallFlag   int64        `json:"callflags"`
}

// MarshalJSON implements the json.Marshaler interface.
func (t *MethodToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(tokenAux{
		Hash:       t.Hash,
		Method:     t.Method,
		ParamCount: t.ParamCount,
		HasReturn:  t.HasReturn,
		CallFlag:   int64(t.CallFlag),
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *MethodToken) UnmarshalJSON(data []byte) error {
	var aux tokenAux
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t.Hash = aux.Hash
	t.Method = aux.Method
	t.ParamCount = aux.ParamCount
	t.HasReturn = aux.HasReturn
	t.CallFlag = callflag.CallFlag(aux.CallFlag)
	return nil
}
