package tx

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/altuslabsxyz/vedex-deployer/internal/thor"
)

// Expiration is the validity window of a built transaction, in blocks.
const Expiration = 32

// Builder assembles unsigned transaction bodies from chain state. It is
// stateless: every Build fetches the current best block so the block
// reference is never stale, and draws a fresh random nonce.
type Builder struct {
	chain    *thor.Client
	chainTag byte
}

// NewBuilder creates a Builder for the given chain tag.
func NewBuilder(chain *thor.Client, chainTag byte) *Builder {
	return &Builder{
		chain:    chain,
		chainTag: chainTag,
	}
}

// Build fetches the best block and assembles an unsigned body around the
// given clause. GasPriceCoef is left at zero (network default priority).
func (b *Builder) Build(ctx context.Context, clause Clause, gas uint64, dependsOn *common.Hash) (*Body, error) {
	block, err := b.chain.GetBlock(ctx, "best")
	if err != nil {
		return nil, err
	}

	blockRef, err := BlockRefFromID(block.ID)
	if err != nil {
		return nil, err
	}

	nonce, err := randomNonce()
	if err != nil {
		return nil, err
	}

	return &Body{
		ChainTag:   b.chainTag,
		BlockRef:   blockRef,
		Expiration: Expiration,
		Clauses:    []Clause{clause},
		Gas:        gas,
		DependsOn:  dependsOn,
		Nonce:      nonce,
	}, nil
}

// randomNonce draws an unpredictable 64-bit anti-replay nonce. Nonces are
// never reused or derived from prior ones.
func randomNonce() (uint64, error) {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}
