package result

import (
	"encoding/json"
	"errors"

	"github.com/n3lib/core/pkg/core/state"
	"github.com/n3lib/core/pkg/util"
)

// ApplicationLog represents the results of the VM executions a single
// transaction or block caused, as returned by getapplicationlog.
type ApplicationLog struct {
	Container     util.Uint256
	IsTransaction bool
	Executions    []state.Execution
}

type applicationLogAux struct {
	TxHash     *util.Uint256     `json:"txid,omitempty"`
	BlockHash  *util.Uint256     `json:"blockhash,omitempty"`
	Executions []json.RawMessage `json:"executions"`
}

// MarshalJSON implements the json.Marshaler interface.
func (l ApplicationLog) MarshalJSON() ([]byte, error) {
	result := &applicationLogAux{
		Executions: make([]json.RawMessage, len(l.Executions)),
	}
	if l.IsTransaction {
		result.TxHash = &l.Container
	} else {
		result.BlockHash = &l.Container
	}

	for i := range l.Executions {
		data, err := json.Marshal(l.Executions[i])
		if err != nil {
			return nil, err
		}
		result.Executions[i] = data
	}
	return json.Marshal(result)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (l *ApplicationLog) UnmarshalJSON(data []byte) error {
	aux := new(applicationLogAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	if aux.TxHash != nil {
		l.IsTransaction = true
		l.Container = *aux.TxHash
	} else if aux.BlockHash != nil {
		l.Container = *aux.BlockHash
	} else {
		return errors.New("no block or transaction hash")
	}

	l.Executions = make([]state.Execution, len(aux.Executions))
	for i := range aux.Executions {
		if err := json.Unmarshal(aux.Executions[i], &l.Executions[i]); err != nil {
			return err
		}
	}
	return nil
}
