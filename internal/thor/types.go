package thor

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Block is the subset of the node's block response the deployer needs.
// Only the identifier matters for transaction freshness; the rest is kept
// for diagnostics.
type Block struct {
	ID        string `json:"id"`
	Number    uint32 `json:"number"`
	Timestamp uint64 `json:"timestamp"`
	GasLimit  uint64 `json:"gasLimit"`
	ParentID  string `json:"parentID"`
}

// Account is the node's account state at a given revision. Balance and
// energy are big unsigned integers in base units (1e18 per display unit).
type Account struct {
	Balance *hexutil.Big `json:"balance"`
	Energy  *hexutil.Big `json:"energy"`
	HasCode bool         `json:"hasCode"`
}

// Receipt is the on-chain record of a transaction's execution outcome.
// It is only available after the transaction has been included in a block.
type Receipt struct {
	GasUsed  uint64       `json:"gasUsed"`
	GasPayer string       `json:"gasPayer"`
	Paid     *hexutil.Big `json:"paid"`
	Reward   *hexutil.Big `json:"reward"`
	Reverted bool         `json:"reverted"`
	Outputs  []Output     `json:"outputs"`
}

// Output is the result of one clause. ContractAddress is set only when the
// clause created a contract.
type Output struct {
	ContractAddress string  `json:"contractAddress"`
	Events          []Event `json:"events"`
}

// Event is a log record emitted by a clause output.
type Event struct {
	Address string   `json:"address"`
	Topics  []string `json:"topics"`
	Data    string   `json:"data"`
}

// CreatedAddresses returns the created contract addresses in clause order.
func (r *Receipt) CreatedAddresses() []string {
	var addrs []string
	for _, out := range r.Outputs {
		if out.ContractAddress != "" {
			addrs = append(addrs, out.ContractAddress)
		}
	}
	return addrs
}
