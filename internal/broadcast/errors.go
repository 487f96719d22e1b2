package broadcast

import (
	"errors"
	"fmt"
	"time"
)

// TimeoutError is returned when no receipt appears within the wait window.
// The transaction may still be mined later; the wait simply gives up.
type TimeoutError struct {
	TxID string
	Wait time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("no receipt for transaction %s after %s, tx dropped?", e.TxID, e.Wait)
}

// IsTimeout returns true if the error is a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// RevertedError is returned when a transaction was mined but its execution
// failed on-chain. Distinct from a timeout: the outcome is final.
type RevertedError struct {
	TxID string
}

func (e *RevertedError) Error() string {
	return fmt.Sprintf("transaction %s reverted", e.TxID)
}

// IsReverted returns true if the error is a RevertedError.
func IsReverted(err error) bool {
	var re *RevertedError
	return errors.As(err, &re)
}

// MissingCreatedAddressError is returned when a deploy receipt carries no
// created contract address. This indicates a protocol or ABI mismatch.
type MissingCreatedAddressError struct {
	TxID string
}

func (e *MissingCreatedAddressError) Error() string {
	return fmt.Sprintf("receipt for transaction %s has no created contract address", e.TxID)
}
