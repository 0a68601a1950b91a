// Package result contains the data records a node returns from its
// RPC methods, converted between their JSON form and core types.
package result

import (
	"encoding/json"
	"fmt"

	"github.com/n3lib/core/pkg/core/state"
	"github.com/n3lib/core/pkg/core/transaction"
	"github.com/n3lib/core/pkg/vm/stackitem"
)

// Invoke represents a result of an invokescript/invokefunction call:
// the final VM state, the GAS the execution consumed and whatever was
// left on the evaluation stack.
type Invoke struct {
	State          string
	GasConsumed    int64
	Script         []byte
	Stack          []stackitem.Item
	FaultException string
	Notifications  []state.NotificationEvent
	Transaction    *transaction.Transaction
}

type invokeAux struct {
	State          string                    `json:"state"`
	GasConsumed    int64                     `json:"gasconsumed,string"`
	Script         []byte                    `json:"script,omitempty"`
	Stack          json.RawMessage           `json:"stack"`
	FaultException *string                   `json:"exception"`
	Notifications  []state.NotificationEvent `json:"notifications"`
	Transaction    []byte                    `json:"tx,omitempty"`
}

// AppExecToInvocation converts a state.AppExecResult to an Invoke the
// way the node reports a historic execution, or passes err through if
// the execution couldn't be obtained in the first place.
func AppExecToInvocation(aer *state.AppExecResult, err error) (*Invoke, error) {
	if err != nil {
		return nil, err
	}
	return &Invoke{
		State:          aer.VMState.String(),
		GasConsumed:    aer.GasConsumed,
		Stack:          aer.Stack,
		FaultException: aer.FaultException,
		Notifications:  aer.Events,
	}, nil
}

// MarshalJSON implements the json.Marshaler interface. A stack that
// can't be serialized (e.g. holding an interop item) is emitted as
// null rather than failing the whole result.
func (r Invoke) MarshalJSON() ([]byte, error) {
	var st json.RawMessage
	arr := make([]json.RawMessage, 0, len(r.Stack))
	for i := range r.Stack {
		data, err := stackitem.ToJSONWithTypes(r.Stack[i])
		if err != nil {
			st = json.RawMessage("null")
			break
		}
		arr = append(arr, data)
	}
	if st == nil {
		var err error
		if st, err = json.Marshal(arr); err != nil {
			return nil, err
		}
	}

	var exception *string
	if r.FaultException != "" {
		exception = &r.FaultException
	}

	var txbytes []byte
	if r.Transaction != nil {
		txbytes = r.Transaction.Bytes()
	}

	return json.Marshal(&invokeAux{
		State:          r.State,
		GasConsumed:    r.GasConsumed,
		Script:         r.Script,
		Stack:          st,
		FaultException: exception,
		Notifications:  r.Notifications,
		Transaction:    txbytes,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (r *Invoke) UnmarshalJSON(data []byte) error {
	aux := new(invokeAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	var st []stackitem.Item
	var rawItems []json.RawMessage
	if err := json.Unmarshal(aux.Stack, &rawItems); err == nil {
		st = make([]stackitem.Item, len(rawItems))
		for i := range rawItems {
			item, err := stackitem.FromJSONWithTypes(rawItems[i])
			if err != nil {
				st = nil
				break
			}
			st[i] = item
		}
	}

	var tx *transaction.Transaction
	if len(aux.Transaction) != 0 {
		var err error
		if tx, err = transaction.NewTransactionFromBytes(aux.Transaction); err != nil {
			return fmt.Errorf("can't unmarshal transaction: %w", err)
		}
	}

	r.State = aux.State
	r.GasConsumed = aux.GasConsumed
	r.Script = aux.Script
	r.Stack = st
	if aux.FaultException != nil {
		r.FaultException = *aux.FaultException
	} else {
		r.FaultException = ""
	}
	r.Notifications = aux.Notifications
	r.Transaction = tx
	return nil
}
