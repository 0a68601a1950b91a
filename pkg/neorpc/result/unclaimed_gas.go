package result

import (
	"encoding/json"
	"errors"
	"math/big"

	"github.com/n3lib/core/pkg/encoding/address"
	"github.com/n3lib/core/pkg/util"
)

// UnclaimedGas is the amount of GAS claimable by an account, as
// returned by getunclaimedgas.
type UnclaimedGas struct {
	Address   util.Uint160
	Unclaimed big.Int
}

// unclaimedGas is an auxiliary struct for JSON marshalling.
type unclaimedGas struct {
	Address   string `json:"address"`
	Unclaimed string `json:"unclaimed"`
}

// MarshalJSON implements the json.Marshaler interface.
func (g UnclaimedGas) MarshalJSON() ([]byte, error) {
	gas := &unclaimedGas{
		Address:   address.Uint160ToString(g.Address),
		Unclaimed: g.Unclaimed.String(),
	}
	return json.Marshal(gas)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (g *UnclaimedGas) UnmarshalJSON(data []byte) error {
	gas := new(unclaimedGas)
	if err := json.Unmarshal(data, gas); err != nil {
		return err
	}
	uncl, ok := new(big.Int).SetString(gas.Unclaimed, 10)
	if !ok {
		return errors.New("can't parse unclaimed gas")
	}
	g.Unclaimed = *uncl
	addr, err := address.StringToUint160(gas.Address)
	if err != nil {
		return err
	}
	g.Address = addr
	return nil
}
