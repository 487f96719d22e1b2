// Package tx builds, encodes and signs Thor transactions.
//
// The canonical signing encoding is RLP over the unsigned body; the signing
// hash is blake2b-256 of that encoding, and the signature is a 65-byte
// recoverable secp256k1 signature over the hash. The signed wire payload is
// the RLP encoding of the body fields followed by the signature.
package tx

import (
	"crypto/ecdsa"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/blake2b"
)

// Clause is one transaction instruction: a destination (nil for contract
// creation), a value transfer amount, and a payload.
type Clause struct {
	To    *common.Address
	Value *big.Int
	Data  []byte
}

// Body is an unsigned transaction body. BlockRef binds the transaction to a
// recent block and Expiration bounds its validity window in block count.
type Body struct {
	ChainTag     byte
	BlockRef     uint64
	Expiration   uint32
	Clauses      []Clause
	GasPriceCoef uint8
	Gas          uint64
	DependsOn    *common.Hash
	Nonce        uint64
}

// SignedTx is a Body plus a signature bound to its signing hash. The body
// must not be mutated after signing.
type SignedTx struct {
	Body      Body
	Signature []byte
}

type rlpClause struct {
	To    *common.Address `rlp:"nil"`
	Value *big.Int
	Data  []byte
}

type rlpBody struct {
	ChainTag     byte
	BlockRef     uint64
	Expiration   uint32
	Clauses      []rlpClause
	GasPriceCoef uint8
	Gas          uint64
	DependsOn    *common.Hash `rlp:"nil"`
	Nonce        uint64
	Reserved     []rlp.RawValue
}

type rlpSigned struct {
	ChainTag     byte
	BlockRef     uint64
	Expiration   uint32
	Clauses      []rlpClause
	GasPriceCoef uint8
	Gas          uint64
	DependsOn    *common.Hash `rlp:"nil"`
	Nonce        uint64
	Reserved     []rlp.RawValue
	Signature    []byte
}

func toRLPClauses(clauses []Clause) []rlpClause {
	out := make([]rlpClause, len(clauses))
	for i, c := range clauses {
		value := c.Value
		if value == nil {
			value = new(big.Int)
		}
		out[i] = rlpClause{To: c.To, Value: value, Data: c.Data}
	}
	return out
}

// SigningHash computes the deterministic hash a signature must cover:
// blake2b-256 over the RLP encoding of the unsigned body.
func (b *Body) SigningHash() (common.Hash, error) {
	raw, err := rlp.EncodeToBytes(&rlpBody{
		ChainTag:     b.ChainTag,
		BlockRef:     b.BlockRef,
		Expiration:   b.Expiration,
		Clauses:      toRLPClauses(b.Clauses),
		GasPriceCoef: b.GasPriceCoef,
		Gas:          b.Gas,
		DependsOn:    b.DependsOn,
		Nonce:        b.Nonce,
		Reserved:     []rlp.RawValue{},
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to encode transaction body: %w", err)
	}
	return blake2b.Sum256(raw), nil
}

// Sign produces a SignedTx over the body's signing hash with the given key.
func Sign(body *Body, key *ecdsa.PrivateKey) (*SignedTx, error) {
	hash, err := body.SigningHash()
	if err != nil {
		return nil, err
	}
	sig, err := crypto.Sign(hash.Bytes(), key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return &SignedTx{Body: *body, Signature: sig}, nil
}

// Encode returns the hex wire payload for submission, 0x-prefixed.
func (t *SignedTx) Encode() (string, error) {
	raw, err := rlp.EncodeToBytes(&rlpSigned{
		ChainTag:     t.Body.ChainTag,
		BlockRef:     t.Body.BlockRef,
		Expiration:   t.Body.Expiration,
		Clauses:      toRLPClauses(t.Body.Clauses),
		GasPriceCoef: t.Body.GasPriceCoef,
		Gas:          t.Body.Gas,
		DependsOn:    t.Body.DependsOn,
		Nonce:        t.Body.Nonce,
		Reserved:     []rlp.RawValue{},
		Signature:    t.Signature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode signed transaction: %w", err)
	}
	return hexutil.Encode(raw), nil
}

// BlockRefFromID derives the 8-byte block reference from a block id: the
// fixed-length prefix of the identifier after the 0x convention.
func BlockRefFromID(id string) (uint64, error) {
	raw, err := hexutil.Decode(id)
	if err != nil {
		return 0, fmt.Errorf("invalid block id %q: %w", id, err)
	}
	if len(raw) < 8 {
		return 0, fmt.Errorf("block id %q too short for a block reference", id)
	}
	return binary.BigEndian.Uint64(raw[:8]), nil
}
