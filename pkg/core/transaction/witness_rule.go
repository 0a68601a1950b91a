package transaction

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/n3lib/core/pkg/io"
)

// WitnessAction is the action a [WitnessRule] takes once its condition
// matches.
type WitnessAction byte

const (
	// WitnessDeny rejects the witness once the rule's condition matches.
	WitnessDeny WitnessAction = 0
	// WitnessAllow accepts the witness once the rule's condition matches.
	WitnessAllow WitnessAction = 1
)

// String implements the fmt.Stringer interface.
func (a WitnessAction) String() string {
	switch a {
	case WitnessDeny:
		return "Deny"
	case WitnessAllow:
		return "Allow"
	default:
		return fmt.Sprintf("UNKNOWN(%x)", byte(a))
	}
}

func witnessActionFromString(s string) (WitnessAction, error) {
	switch s {
	case "Deny":
		return WitnessDeny, nil
	case "Allow":
		return WitnessAllow, nil
	default:
		return 0, fmt.Errorf("unknown witness action %q", s)
	}
}

// WitnessRule is a single allow/deny rule conditionally applied to a
// [Signer] with the Rules [WitnessScope].
type WitnessRule struct {
	Action    WitnessAction
	Condition WitnessCondition
}

// Copy returns a deep copy of r: Condition is the same concrete type
// and value, but a distinct pointer/slice tree from the original.
func (r *WitnessRule) Copy() *WitnessRule {
	return &WitnessRule{
		Action:    r.Action,
		Condition: copyCondition(r.Condition),
	}
}

func copyCondition(c WitnessCondition) WitnessCondition {
	switch v := c.(type) {
	case *ConditionBoolean:
		cp := *v
		return &cp
	case *ConditionNot:
		return &ConditionNot{Condition: copyCondition(v.Condition)}
	case *ConditionAnd:
		cp := make(ConditionAnd, len(*v))
		for i, sub := range *v {
			cp[i] = copyCondition(sub)
		}
		return &cp
	case *ConditionOr:
		cp := make(ConditionOr, len(*v))
		for i, sub := range *v {
			cp[i] = copyCondition(sub)
		}
		return &cp
	case *ConditionScriptHash:
		cp := *v
		return &cp
	case *ConditionGroup:
		cp := *v
		return &cp
	case ConditionCalledByEntry:
		return v
	case *ConditionCalledByContract:
		cp := *v
		return &cp
	case *ConditionCalledByGroup:
		cp := *v
		return &cp
	default:
		return c
	}
}

// EncodeBinary implements the io.Serializable interface.
func (r *WitnessRule) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(r.Action))
	r.Condition.EncodeBinary(w)
}

// DecodeBinary implements the io.Serializable interface.
func (r *WitnessRule) DecodeBinary(br *io.BinReader) {
	action := br.ReadB()
	if br.Err != nil {
		return
	}
	if action != byte(WitnessAllow) && action != byte(WitnessDeny) {
		br.Err = fmt.Errorf("unknown witness action 0x%x", action)
		return
	}
	r.Action = WitnessAction(action)
	r.Condition = DecodeBinaryCondition(br)
}

type witnessRuleAux struct {
	Action    string          `json:"action"`
	Condition json.RawMessage `json:"condition"`
}

// MarshalJSON implements the json.Marshaler interface.
func (r *WitnessRule) MarshalJSON() ([]byte, error) {
	cond, err := r.Condition.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(witnessRuleAux{
		Action:    r.Action.String(),
		Condition: cond,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (r *WitnessRule) UnmarshalJSON(data []byte) error {
	var aux witnessRuleAux
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Action == "" {
		return errors.New("missing action")
	}
	action, err := witnessActionFromString(aux.Action)
	if err != nil {
		return err
	}
	if len(aux.Condition) == 0 {
		return errors.New("missing condition")
	}
	cond, err := UnmarshalConditionJSON(aux.Condition)
	if err != nil {
		return err
	}
	r.Action = action
	r.Condition = cond
	return nil
}
