package wallet

import (
	"encoding/json"
	"testing"

	"github.com/n3lib/core/pkg/smartcontract/manifest"
	"github.com/n3lib/core/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestToken_MarshalJSON(t *testing.T) {
	// From the https://neo-python.readthedocs.io/en/latest/prompt.html#import-nep5-compliant-token
	h, err := util.Uint160DecodeStringLE("f8d448b227991cf07cb96a6f9c0322437f1599b9")
	require.NoError(t, err)

	tok := NewToken(h, "NEP17 Standard", "NEP17", 8, manifest.NEP17StandardName)
	require.Equal(t, "NEP17 Standard", tok.Name)
	require.Equal(t, "NEP17", tok.Symbol)
	require.EqualValues(t, 8, tok.Decimals)
	require.Equal(t, h, tok.Hash)
	require.Equal(t, "NcqKahsZ93ZyYS5bep8G2TY1zRB7tfUPdK", tok.Address())

	data, err := json.Marshal(tok)
	require.NoError(t, err)

	actual := new(Token)
	require.NoError(t, json.Unmarshal(data, actual))
	require.Equal(t, tok, actual)
}

func TestToken_Amounts(t *testing.T) {
	tok := NewToken(util.Uint160{}, "GasToken", "GAS", 8, manifest.NEP17StandardName)

	amount, err := tok.ParseAmount("1.5")
	require.NoError(t, err)
	require.EqualValues(t, 150000000, amount.Int64())
	require.Equal(t, "1.5", tok.FormatAmount(amount))

	_, err = tok.ParseAmount("1.123456789")
	require.Error(t, err)
}
