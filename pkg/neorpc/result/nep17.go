package result

import (
	"github.com/n3lib/core/pkg/util"
)

// NEP17Balances is a set of NEP-17 balances belonging to an address,
// as returned by getnep17balances.
type NEP17Balances struct {
	Balances []NEP17Balance `json:"balance"`
	Address  string         `json:"address"`
}

// NEP17Balance is a balance of one NEP-17 asset, kept as the node
// reports it: an integer amount string with the block height of the
// last change.
type NEP17Balance struct {
	Asset       util.Uint160 `json:"assethash"`
	Amount      string       `json:"amount"`
	Decimals    int64        `json:"decimals,string"`
	Symbol      string       `json:"symbol"`
	LastUpdated uint32       `json:"lastupdatedblock"`
}

// NEP17Transfers is a set of NEP-17 transfers the given address
// participated in, as returned by getnep17transfers.
type NEP17Transfers struct {
	Sent     []NEP17Transfer `json:"sent"`
	Received []NEP17Transfer `json:"received"`
	Address  string          `json:"address"`
}

// NEP17Transfer represents one NEP-17 transfer event. The counterparty
// address is empty for mint (on receive) and burn (on send) events.
type NEP17Transfer struct {
	Timestamp   uint64       `json:"timestamp"`
	Asset       util.Uint160 `json:"assethash"`
	Address     string       `json:"transferaddress,omitempty"`
	Amount      string       `json:"amount"`
	Index       uint32       `json:"blockindex"`
	NotifyIndex uint32       `json:"transfernotifyindex"`
	TxHash      util.Uint256 `json:"txhash"`
}
