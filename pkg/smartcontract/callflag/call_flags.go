// Package callflag contains smart contract call flags, a bitmask of
// the privileges a VM invocation carries into a nested contract call.
package callflag

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// CallFlag represents a call flag.
type CallFlag byte

// Flags taken from the C# implementation
// (https://github.com/neo-project/neo/blob/master/src/neo/SmartContract/CallFlags.cs).
const (
	ReadStates CallFlag = 1 << iota
	WriteStates
	AllowCall
	AllowNotify

	NoneFlag CallFlag = 0

	States   = ReadStates | WriteStates
	ReadOnly = ReadStates | AllowCall
	All      = States | AllowCall | AllowNotify
)

var flagStrings = []struct {
	Flag CallFlag
	Name string
}{
	{All, "All"},
	{ReadOnly, "ReadOnly"},
	{States, "States"},
	{ReadStates, "ReadStates"},
	{WriteStates, "WriteStates"},
	{AllowCall, "AllowCall"},
	{AllowNotify, "AllowNotify"},
}

// Has returns true iff f has all bits from cf set.
func (f CallFlag) Has(cf CallFlag) bool {
	return f&cf == cf
}

// String implements the fmt.Stringer interface, greedily matching the
// widest named flag group first so e.g. ReadStates|AllowCall prints as
// ReadOnly rather than as its two components.
func (f CallFlag) String() string {
	if f == NoneFlag {
		return "None"
	}
	var ss []string
	for _, fs := range flagStrings {
		if f.Has(fs.Flag) {
			ss = append(ss, fs.Name)
			f &^= fs.Flag
		}
	}
	return strings.Join(ss, ", ")
}

func flagFromName(s string) (CallFlag, bool) {
	if s == "None" {
		return NoneFlag, true
	}
	for _, fs := range flagStrings {
		if fs.Name == s {
			return fs.Flag, true
		}
	}
	return 0, false
}

// FromString parses a comma-separated list of flag names (as produced
// by String) back into a CallFlag.
func FromString(s string) (CallFlag, error) {
	parts := strings.Split(s, ",")
	var (
		res          CallFlag
		hasExclusive bool
	)
	for _, p := range parts {
		p = strings.TrimPrefix(p, " ")
		f, ok := flagFromName(p)
		if !ok {
			return 0, fmt.Errorf("unknown call flag: %q", p)
		}
		if f == NoneFlag || f == All {
			hasExclusive = true
		}
		res |= f
	}
	if hasExclusive && len(parts) > 1 {
		return 0, fmt.Errorf("invalid call flag combination: %q", s)
	}
	return res, nil
}

// MarshalJSON implements the json.Marshaler interface.
func (f CallFlag) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *CallFlag) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	res, err := FromString(s)
	if err != nil {
		return err
	}
	*f = res
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface.
func (f CallFlag) MarshalYAML() (any, error) {
	return f.String(), nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (f *CallFlag) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	res, err := FromString(s)
	if err != nil {
		return err
	}
	*f = res
	return nil
}
