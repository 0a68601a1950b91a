package txbuilder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/n3lib/core/pkg/config"
	"github.com/n3lib/core/pkg/core/transaction"
	"github.com/n3lib/core/pkg/smartcontract"
	"github.com/n3lib/core/pkg/smartcontract/manifest"
	"github.com/n3lib/core/pkg/smartcontract/nef"
	"github.com/n3lib/core/pkg/util"
	"github.com/n3lib/core/pkg/wallet"
	"go.uber.org/zap"
)

// Management is the script hash of the native contract management
// contract, the deployment target for new contracts.
var Management = mustUint160LE("fffdc93764dbaddd97c48f252a53ea4643faa3fd")

// NEP17TransferScript produces the invocation script of a standard
// NEP-17 transfer: token.transfer(from, to, amount, data).
func NEP17TransferScript(token, from, to util.Uint160, amount *big.Int, data any) ([]byte, error) {
	return smartcontract.NewBuilder().
		InvokeMethod(token, "transfer", from, to, amount, data).
		Script()
}

// NewNEP17Transfer creates a Builder carrying a NEP-17 transfer script
// with from added as a CalledByEntry signer, the standard shape of a
// simple token send.
func NewNEP17Transfer(cfg config.ProtocolConfiguration, log *zap.Logger, token, from, to util.Uint160, amount *big.Int, data any) (*Builder, error) {
	script, err := NEP17TransferScript(token, from, to, amount, data)
	if err != nil {
		return nil, err
	}
	b := New(cfg, log)
	if err := b.SetScript(script); err != nil {
		return nil, err
	}
	if err := b.AddSigner(transaction.Signer{
		Account: from,
		Scopes:  transaction.CalledByEntry,
	}); err != nil {
		return nil, err
	}
	return b, nil
}

// ContractCallScript produces an invocation script calling method on
// contract with arguments parsed from a JSON array: booleans, integer
// numbers (non-integer numerics are rejected), strings, nulls and
// nested arrays of the same.
func ContractCallScript(contract util.Uint160, method string, rawParams json.RawMessage) ([]byte, error) {
	var args []any
	if len(rawParams) != 0 {
		parsed, err := parseJSONParams(rawParams)
		if err != nil {
			return nil, err
		}
		args = parsed
	}
	return smartcontract.NewBuilder().
		InvokeMethod(contract, method, args...).
		Script()
}

// NewContractCall creates a Builder carrying a contract call script
// with the given signers attached.
func NewContractCall(cfg config.ProtocolConfiguration, log *zap.Logger, contract util.Uint160, method string, rawParams json.RawMessage, signers ...transaction.Signer) (*Builder, error) {
	script, err := ContractCallScript(contract, method, rawParams)
	if err != nil {
		return nil, err
	}
	b := New(cfg, log)
	if err := b.SetScript(script); err != nil {
		return nil, err
	}
	for _, s := range signers {
		if err := b.AddSigner(s); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// DeploymentScript produces the invocation script deploying the given
// NEF with its manifest via the management contract.
func DeploymentScript(nefFile *nef.File, manifestJSON []byte) ([]byte, error) {
	nefBytes, err := nefFile.Bytes()
	if err != nil {
		return nil, fmt.Errorf("can't serialize NEF: %w", err)
	}
	if len(manifestJSON) == 0 {
		return nil, errors.New("empty manifest")
	}
	return smartcontract.NewBuilder().
		InvokeMethod(Management, "deploy", nefBytes, manifestJSON).
		Script()
}

// parseJSONParams converts a JSON array into values the script emitter
// understands, rejecting fractional numbers and objects.
func parseJSONParams(raw json.RawMessage) ([]any, error) {
	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()
	var arr []any
	if err := d.Decode(&arr); err != nil {
		return nil, fmt.Errorf("params is not a JSON array: %w", err)
	}
	return convertJSONValues(arr)
}

func convertJSONValues(arr []any) ([]any, error) {
	res := make([]any, len(arr))
	for i, v := range arr {
		switch t := v.(type) {
		case nil, bool, string:
			res[i] = t
		case json.Number:
			n, ok := new(big.Int).SetString(t.String(), 10)
			if !ok {
				return nil, fmt.Errorf("parameter %d is not an integer: %s", i, t)
			}
			res[i] = n
		case []any:
			nested, err := convertJSONValues(t)
			if err != nil {
				return nil, err
			}
			res[i] = nested
		default:
			return nil, fmt.Errorf("unsupported parameter %d of type %T", i, v)
		}
	}
	return res, nil
}

func mustUint160LE(s string) util.Uint160 {
	u, err := util.Uint160DecodeStringLE(s)
	if err != nil {
		panic(err)
	}
	return u
}

// GAS and NEO are the native token wrappers most transfers deal with.
var (
	GAS = wallet.NewToken(mustUint160LE("d2a4cff31913016155e38e474a2c06d08be276cf"),
		"GasToken", "GAS", 8, manifest.NEP17StandardName)
	NEO = wallet.NewToken(mustUint160LE("ef4073a0f2b305a38ec4050e4d3d28bc40ea63f5"),
		"NeoToken", "NEO", 0, manifest.NEP17StandardName)
)
