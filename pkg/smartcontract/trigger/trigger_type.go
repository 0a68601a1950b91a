// Package trigger defines the triggers a smart contract can be invoked
// with, as reported per-execution in application logs.
package trigger

import (
	"errors"
	"fmt"
)

// Type represents a trigger type used in C# reference node: https://github.com/neo-project/neo/blob/master/neo/SmartContract/TriggerType.cs
type Type byte

// Viable list of supported trigger type constants.
const (
	// OnPersist is a trigger type that indicates that the script is being invoked
	// internally by the system during the block persistence (before transaction
	// processing).
	OnPersist Type = 0x01

	// PostPersist is a trigger type that indicates that the script is being invoked
	// by the system after block persistence (transaction processing) has
	// finished.
	PostPersist Type = 0x02

	// Verification is a trigger type that indicates that the script is being invoked
	// by the verification system to check the validity of a witness.
	Verification Type = 0x20

	// Application is a trigger type that indicates that the script is being invoked
	// by a transaction's own script.
	Application Type = 0x40

	// All represents any of the valid trigger types.
	All Type = OnPersist | PostPersist | Verification | Application
)

// String implements the fmt.Stringer interface.
func (t Type) String() string {
	switch t {
	case OnPersist:
		return "OnPersist"
	case PostPersist:
		return "PostPersist"
	case Verification:
		return "Verification"
	case Application:
		return "Application"
	case All:
		return "All"
	default:
		return "UNKNOWN"
	}
}

// FromString converts a string to the trigger Type.
func FromString(str string) (Type, error) {
	triggers := []Type{OnPersist, PostPersist, Verification, Application, All}
	for _, t := range triggers {
		if t.String() == str {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown trigger type: %s", str)
}

// MarshalJSON implements the json.Marshaler interface.
func (t Type) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *Type) UnmarshalJSON(data []byte) error {
	l := len(data)
	if l < 2 || data[0] != '"' || data[l-1] != '"' {
		return errors.New("wrong format")
	}

	tt, err := FromString(string(data[1 : l-1]))
	if err == nil {
		*t = tt
	}
	return err
}
