package txbuilder

import (
	"errors"

	"github.com/n3lib/core/pkg/core/transaction"
	"github.com/n3lib/core/pkg/neorpc/result"
)

// RPCClient is the node-side collaborator a Builder needs: the current
// chain height for expiry defaulting and a test execution for system
// fee discovery. Any JSON-RPC client implementation satisfying these
// two calls works; the Builder never calls anything else.
type RPCClient interface {
	// GetBlockCount returns the current block height of the chain.
	GetBlockCount() (uint32, error)
	// InvokeScript executes script in a test VM with the given signers
	// and returns the execution result.
	InvokeScript(script []byte, signers []transaction.Signer) (*result.Invoke, error)
}

// ErrNoClient is returned by NullClient for every call; it signals
// offline operation to fee calculation and expiry defaulting.
var ErrNoClient = errors.New("no RPC client configured")

// NullClient is an RPCClient for offline use: every call fails with
// ErrNoClient, making the Builder fall back to estimates where it can.
type NullClient struct{}

// GetBlockCount implements the RPCClient interface.
func (NullClient) GetBlockCount() (uint32, error) {
	return 0, ErrNoClient
}

// InvokeScript implements the RPCClient interface.
func (NullClient) InvokeScript(_ []byte, _ []transaction.Signer) (*result.Invoke, error) {
	return nil, ErrNoClient
}
