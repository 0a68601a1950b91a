package transaction

import (
	"encoding/base64"
	"encoding/json"
	"errors"

	"github.com/n3lib/core/pkg/io"
)

const (
	// MaxInvocationScript is the maximum length of an invocation
	// script, enforced on decode.
	MaxInvocationScript = 1024
	// MaxVerificationScript is the maximum length of a verification
	// script, enforced on decode.
	MaxVerificationScript = 1024
)

// Witness is a pair of scripts proving authorization to spend/use a
// specific asset, the invocation script producing whatever the
// verification script's checks need (e.g. a signature).
type Witness struct {
	InvocationScript   []byte
	VerificationScript []byte
}

// Size implements the sizer interface.
func (w *Witness) Size() int {
	return io.GetVarSize(w.InvocationScript) + io.GetVarSize(w.VerificationScript)
}

// Copy creates a deep copy of w.
func (w Witness) Copy() Witness {
	inv := make([]byte, len(w.InvocationScript))
	copy(inv, w.InvocationScript)
	ver := make([]byte, len(w.VerificationScript))
	copy(ver, w.VerificationScript)
	return Witness{
		InvocationScript:   inv,
		VerificationScript: ver,
	}
}

// EncodeBinary implements the io.Serializable interface.
func (w *Witness) EncodeBinary(bw *io.BinWriter) {
	bw.WriteVarBytes(w.InvocationScript)
	bw.WriteVarBytes(w.VerificationScript)
}

// DecodeBinary implements the io.Serializable interface.
func (w *Witness) DecodeBinary(br *io.BinReader) {
	w.InvocationScript = br.ReadVarBytes(MaxInvocationScript)
	w.VerificationScript = br.ReadVarBytes(MaxVerificationScript)
}

type witnessAux struct {
	Invocation   string `json:"invocation"`
	Verification string `json:"verification"`
}

// MarshalJSON implements the json.Marshaler interface.
func (w Witness) MarshalJSON() ([]byte, error) {
	return json.Marshal(witnessAux{
		Invocation:   base64.StdEncoding.EncodeToString(w.InvocationScript),
		Verification: base64.StdEncoding.EncodeToString(w.VerificationScript),
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (w *Witness) UnmarshalJSON(data []byte) error {
	var aux witnessAux
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	inv, err := base64.StdEncoding.DecodeString(aux.Invocation)
	if err != nil {
		return errors.New("can't decode invocation script")
	}
	ver, err := base64.StdEncoding.DecodeString(aux.Verification)
	if err != nil {
		return errors.New("can't decode verification script")
	}
	w.InvocationScript = inv
	w.VerificationScript = ver
	return nil
}
