package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRecordMarshalFlattens(t *testing.T) {
	txn := TransactionRecord{
		TransactionID: "txn-1",
		Operation:     ActionBuy,
		Fields: map[string]any{
			"symbol":   "AAPL",
			"quantity": float64(10),
		},
	}

	data, err := json.Marshal(txn)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(data, &flat))

	assert.Equal(t, "txn-1", flat["transaction_id"])
	assert.Equal(t, "buy", flat["operation"])
	assert.Equal(t, "AAPL", flat["symbol"])
	assert.Equal(t, float64(10), flat["quantity"])
	// Nothing nested: the bag is flattened into the top level.
	assert.NotContains(t, flat, "Fields")
}

func TestTransactionRecordUnmarshalCapturesExtras(t *testing.T) {
	payload := `{
		"transaction_id": "txn-2",
		"operation": "sell",
		"symbol": "MSFT",
		"note": "anything goes",
		"nested": {"a": 1}
	}`

	var txn TransactionRecord
	require.NoError(t, json.Unmarshal([]byte(payload), &txn))

	assert.Equal(t, "txn-2", txn.TransactionID)
	assert.Equal(t, "sell", txn.Operation)
	assert.Equal(t, "MSFT", txn.Fields["symbol"])
	assert.Equal(t, "anything goes", txn.Fields["note"])
	assert.NotContains(t, txn.Fields, "transaction_id")
	assert.NotContains(t, txn.Fields, "operation")
}

func TestTransactionRecordRoundTrip(t *testing.T) {
	original := TransactionRecord{
		TransactionID: "txn-3",
		Operation:     ActionBuy,
		Fields:        map[string]any{"symbol": "AAPL"},
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded TransactionRecord
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, original, decoded)
}

func TestTransactionRecordUnmarshalEmptyBag(t *testing.T) {
	var txn TransactionRecord
	require.NoError(t, json.Unmarshal([]byte(`{"operation": "buy"}`), &txn))

	assert.Equal(t, "buy", txn.Operation)
	assert.Nil(t, txn.Fields)
}
