// Package broadcast submits signed transactions and waits for their
// receipts within a bounded poll window.
package broadcast

import (
	"context"
	"time"

	"cosmossdk.io/log"

	"github.com/altuslabsxyz/vedex-deployer/internal/thor"
	"github.com/altuslabsxyz/vedex-deployer/internal/tx"
)

const (
	// DefaultPollInterval is the default interval between receipt polls.
	DefaultPollInterval = 3 * time.Second

	// DefaultWaitTimeout is the default bound on the confirmation wait.
	DefaultWaitTimeout = 20 * time.Second
)

// Chain is the subset of the node client the broadcaster needs.
type Chain interface {
	SubmitTransaction(ctx context.Context, raw string) (string, error)
	GetReceipt(ctx context.Context, txID string) (*thor.Receipt, error)
}

// Broadcaster submits signed transactions and polls for confirmation.
// Submission is never retried: a rejected broadcast is fatal because
// resubmitting with a stale block reference or nonce is unsafe.
type Broadcaster struct {
	chain        Chain
	pollInterval time.Duration
	waitTimeout  time.Duration
	logger       log.Logger
}

// NewBroadcaster creates a Broadcaster with default poll settings.
func NewBroadcaster(chain Chain, logger log.Logger) *Broadcaster {
	return &Broadcaster{
		chain:        chain,
		pollInterval: DefaultPollInterval,
		waitTimeout:  DefaultWaitTimeout,
		logger:       logger.With("module", "broadcast"),
	}
}

// WithPollInterval sets the receipt poll interval.
func (b *Broadcaster) WithPollInterval(interval time.Duration) *Broadcaster {
	b.pollInterval = interval
	return b
}

// WithWaitTimeout sets the confirmation wait bound.
func (b *Broadcaster) WithWaitTimeout(timeout time.Duration) *Broadcaster {
	b.waitTimeout = timeout
	return b
}

// Submit encodes and broadcasts a signed transaction, returning the
// transaction id assigned by the node.
func (b *Broadcaster) Submit(ctx context.Context, signed *tx.SignedTx) (string, error) {
	raw, err := signed.Encode()
	if err != nil {
		return "", err
	}
	return b.chain.SubmitTransaction(ctx, raw)
}

// AwaitReceipt polls for the transaction's receipt at the configured
// interval until it appears or the wait window elapses. An absent receipt
// is a normal pending state, not an error; only the elapsed window yields
// a TimeoutError. Cancelling the context aborts the wait without touching
// the already-submitted transaction.
func (b *Broadcaster) AwaitReceipt(ctx context.Context, txID string) (*thor.Receipt, error) {
	receipt, err := b.chain.GetReceipt(ctx, txID)
	if err != nil {
		return nil, err
	}
	if receipt != nil {
		return receipt, nil
	}

	ticker := time.NewTicker(b.pollInterval)
	defer ticker.Stop()

	timer := time.NewTimer(b.waitTimeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			return nil, &TimeoutError{TxID: txID, Wait: b.waitTimeout}
		case <-ticker.C:
			receipt, err := b.chain.GetReceipt(ctx, txID)
			if err != nil {
				return nil, err
			}
			if receipt != nil {
				b.logger.Debug("receipt observed", "tx", txID, "reverted", receipt.Reverted)
				return receipt, nil
			}
		}
	}
}

// Classify inspects a receipt and returns the created contract addresses in
// clause order. A reverted receipt is terminal regardless of its outputs.
// When requireCreated is set (deploy steps), a receipt with no created
// address yields a MissingCreatedAddressError.
func Classify(receipt *thor.Receipt, txID string, requireCreated bool) ([]string, error) {
	if receipt.Reverted {
		return nil, &RevertedError{TxID: txID}
	}

	addrs := receipt.CreatedAddresses()
	if requireCreated && len(addrs) == 0 {
		return nil, &MissingCreatedAddressError{TxID: txID}
	}
	return addrs, nil
}
