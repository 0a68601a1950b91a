// Package state holds the per-execution results a node reports for
// processed transactions and blocks: notifications raised by contracts
// and the outcome of each triggered VM run. This SDK only parses and
// re-emits them; producing these records is a node's job.
package state

import (
	"encoding/json"
	"errors"

	"github.com/n3lib/core/pkg/smartcontract/trigger"
	"github.com/n3lib/core/pkg/util"
	"github.com/n3lib/core/pkg/vm/stackitem"
	"github.com/n3lib/core/pkg/vm/vmstate"
)

// NotificationEvent is a tuple of the scripthash that raised the event,
// the event's name and the stack item payload (an array by convention).
type NotificationEvent struct {
	ScriptHash util.Uint160
	Name       string
	Item       stackitem.Item
}

type notificationEventAux struct {
	ScriptHash util.Uint160    `json:"contract"`
	Name       string          `json:"eventname"`
	Item       json.RawMessage `json:"state"`
}

// MarshalJSON implements the json.Marshaler interface. A payload that
// can't be represented in JSON (e.g. one holding a recursive
// structure) is emitted as null rather than failing the whole event.
func (ne NotificationEvent) MarshalJSON() ([]byte, error) {
	item, err := stackitem.ToJSONWithTypes(ne.Item)
	if err != nil {
		item = []byte("null")
	}
	return json.Marshal(notificationEventAux{
		ScriptHash: ne.ScriptHash,
		Name:       ne.Name,
		Item:       item,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (ne *NotificationEvent) UnmarshalJSON(data []byte) error {
	aux := new(notificationEventAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	var item stackitem.Item
	if len(aux.Item) != 0 && string(aux.Item) != "null" {
		var err error
		if item, err = stackitem.FromJSONWithTypes(aux.Item); err != nil {
			return err
		}
		if item.Type() != stackitem.ArrayT {
			return errors.New("event state is not an array")
		}
	}
	ne.ScriptHash = aux.ScriptHash
	ne.Name = aux.Name
	ne.Item = item
	return nil
}

// Execution represents the result of a single VM run triggered while
// processing some container (transaction or block).
type Execution struct {
	Trigger        trigger.Type
	VMState        vmstate.State
	GasConsumed    int64
	Stack          []stackitem.Item
	Events         []NotificationEvent
	FaultException string
}

// AppExecResult is an Execution bound to the hash of the transaction
// or block that caused it.
type AppExecResult struct {
	Container util.Uint256
	Execution
}

type executionAux struct {
	Trigger        trigger.Type        `json:"trigger"`
	VMState        vmstate.State       `json:"vmstate"`
	GasConsumed    int64               `json:"gasconsumed,string"`
	Stack          json.RawMessage     `json:"stack"`
	Events         []NotificationEvent `json:"notifications"`
	FaultException *string             `json:"exception"`
}

type appExecResultAux struct {
	Container util.Uint256 `json:"container"`
	executionAux
}

func (e Execution) toAux() executionAux {
	stack := json.RawMessage("null")
	arr := make([]json.RawMessage, 0, len(e.Stack))
	for i := range e.Stack {
		data, err := stackitem.ToJSONWithTypes(e.Stack[i])
		if err != nil {
			arr = nil
			break
		}
		arr = append(arr, data)
	}
	if arr != nil {
		if data, err := json.Marshal(arr); err == nil {
			stack = data
		}
	}
	var exception *string
	if e.FaultException != "" {
		exception = &e.FaultException
	}
	return executionAux{
		Trigger:        e.Trigger,
		VMState:        e.VMState,
		GasConsumed:    e.GasConsumed,
		Stack:          stack,
		Events:         e.Events,
		FaultException: exception,
	}
}

func (e *Execution) fromAux(aux executionAux) error {
	var stack []stackitem.Item
	var rawItems []json.RawMessage
	if err := json.Unmarshal(aux.Stack, &rawItems); err == nil {
		stack = make([]stackitem.Item, len(rawItems))
		for i := range rawItems {
			item, err := stackitem.FromJSONWithTypes(rawItems[i])
			if err != nil {
				stack = nil
				break
			}
			stack[i] = item
		}
	}
	e.Trigger = aux.Trigger
	e.VMState = aux.VMState
	e.GasConsumed = aux.GasConsumed
	e.Stack = stack
	e.Events = aux.Events
	if aux.FaultException != nil {
		e.FaultException = *aux.FaultException
	} else {
		e.FaultException = ""
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (e Execution) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.toAux())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (e *Execution) UnmarshalJSON(data []byte) error {
	aux := new(executionAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	return e.fromAux(*aux)
}

// MarshalJSON implements the json.Marshaler interface.
func (aer AppExecResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(appExecResultAux{
		Container:    aer.Container,
		executionAux: aer.Execution.toAux(),
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (aer *AppExecResult) UnmarshalJSON(data []byte) error {
	aux := new(appExecResultAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	if err := aer.Execution.fromAux(aux.executionAux); err != nil {
		return err
	}
	aer.Container = aux.Container
	return nil
}
