package thor

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBlockID = "0x00000010a4fc1a87f94f279f1a9a0a7a9a9a5a8d1c1e1f202122232425262728"

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, log.NewNopLogger()), server
}

func TestClient_GetBlock(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/blocks/best", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     testBlockID,
			"number": 16,
		})
	}))

	block, err := client.GetBlock(context.Background(), "best")
	require.NoError(t, err)
	assert.Equal(t, testBlockID, block.ID)
	assert.Equal(t, uint32(16), block.Number)
}

func TestClient_GetAccount(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/0xf077b491b355e64048ce21e3a6fc4751eeea77fa", r.URL.Path)
		assert.Equal(t, "best", r.URL.Query().Get("revision"))
		w.Write([]byte(`{"balance":"0xde0b6b3a7640000","energy":"0x1bc16d674ec80000","hasCode":false}`))
	}))

	account, err := client.GetAccount(context.Background(), "0xf077b491b355e64048ce21e3a6fc4751eeea77fa", "best")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1e18), (*big.Int)(account.Balance))
	assert.Equal(t, big.NewInt(2e18), (*big.Int)(account.Energy))
	assert.False(t, account.HasCode)
}

func TestClient_SubmitTransaction(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transactions", r.URL.Path)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "0xf86a81a4", payload["raw"])

		w.Write([]byte(`{"id":"0xdeadbeef"}`))
	}))

	id, err := client.SubmitTransaction(context.Background(), "0xf86a81a4")
	require.NoError(t, err)
	assert.Equal(t, "0xdeadbeef", id)
}

func TestClient_SubmitTransaction_Rejected(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad tx: insufficient energy", http.StatusBadRequest)
	}))

	_, err := client.SubmitTransaction(context.Background(), "0x00")
	require.Error(t, err)
	require.True(t, IsRequestError(err))

	reqErr := err.(*RequestError)
	assert.Equal(t, http.StatusBadRequest, reqErr.StatusCode)
	assert.Contains(t, reqErr.Body, "insufficient energy")
	assert.Contains(t, reqErr.Endpoint, "/transactions")
}

func TestClient_GetReceipt(t *testing.T) {
	t.Run("pending returns nil without error", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("null"))
		}))

		receipt, err := client.GetReceipt(context.Background(), "0xdeadbeef")
		require.NoError(t, err)
		assert.Nil(t, receipt)
	})

	t.Run("mined receipt is parsed", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/transactions/0xdeadbeef/receipt", r.URL.Path)
			w.Write([]byte(`{"gasUsed":21000,"reverted":false,"outputs":[{"contractAddress":"0xaaaa567890123456789012345678901234567890"}]}`))
		}))

		receipt, err := client.GetReceipt(context.Background(), "0xdeadbeef")
		require.NoError(t, err)
		require.NotNil(t, receipt)
		assert.False(t, receipt.Reverted)
		assert.Equal(t, []string{"0xaaaa567890123456789012345678901234567890"}, receipt.CreatedAddresses())
	})
}
