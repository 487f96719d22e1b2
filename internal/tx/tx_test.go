package tx

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBlockID = "0x00000010a4fc1a87f94f279f1a9a0a7a9a9a5a8d1c1e1f202122232425262728"

func testBody(t *testing.T) *Body {
	t.Helper()
	ref, err := BlockRefFromID(testBlockID)
	require.NoError(t, err)

	to := common.HexToAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	return &Body{
		ChainTag:   0xa4,
		BlockRef:   ref,
		Expiration: Expiration,
		Clauses: []Clause{
			{To: &to, Value: big.NewInt(0), Data: []byte{0x01, 0x02}},
		},
		Gas:   3_000_000,
		Nonce: 0xdeadbeef,
	}
}

func TestBlockRefFromID(t *testing.T) {
	t.Run("derives the 8-byte prefix", func(t *testing.T) {
		ref, err := BlockRefFromID(testBlockID)
		require.NoError(t, err)
		assert.Equal(t, uint64(0x00000010a4fc1a87), ref)
	})

	t.Run("is deterministic", func(t *testing.T) {
		first, err := BlockRefFromID(testBlockID)
		require.NoError(t, err)
		second, err := BlockRefFromID(testBlockID)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("rejects short ids", func(t *testing.T) {
		_, err := BlockRefFromID("0x0011")
		assert.Error(t, err)
	})

	t.Run("rejects non-hex ids", func(t *testing.T) {
		_, err := BlockRefFromID("best")
		assert.Error(t, err)
	})
}

func TestBody_SigningHash(t *testing.T) {
	body := testBody(t)

	first, err := body.SigningHash()
	require.NoError(t, err)
	second, err := body.SigningHash()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Any body mutation must change the hash.
	body.Nonce++
	mutated, err := body.SigningHash()
	require.NoError(t, err)
	assert.NotEqual(t, first, mutated)
}

func TestSign(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	body := testBody(t)
	signed, err := Sign(body, key)
	require.NoError(t, err)
	require.Len(t, signed.Signature, 65)

	// The signature must recover to the signer's address.
	hash, err := body.SigningHash()
	require.NoError(t, err)
	pub, err := crypto.SigToPub(hash.Bytes(), signed.Signature)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), crypto.PubkeyToAddress(*pub))
}

func TestSignedTx_Encode(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	signed, err := Sign(testBody(t), key)
	require.NoError(t, err)

	raw, err := signed.Encode()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, "0x"))

	// The destination address must appear in the wire payload.
	assert.Contains(t, raw, "7567d83b7b8d80addcb281a71d54fc7b3364ffed")
}

func TestContractCreationClause(t *testing.T) {
	// A nil destination (contract creation) must encode without error and
	// differ from the same body with a destination set.
	body := testBody(t)
	body.Clauses[0].To = nil

	withNilTo, err := body.SigningHash()
	require.NoError(t, err)

	withTo := testBody(t)
	hash, err := withTo.SigningHash()
	require.NoError(t, err)
	assert.NotEqual(t, hash, withNilTo)
}
