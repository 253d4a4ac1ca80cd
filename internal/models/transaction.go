package models

import "encoding/json"

// TransactionRecord is an append-only buy/sell entry. Clients send
// arbitrary payloads, so beyond the assigned id and the operation tag every
// field lands in the Fields bag and is preserved verbatim.
type TransactionRecord struct {
	TransactionID string
	Operation     string
	Fields        map[string]any
}

// MarshalJSON flattens the extras bag alongside the tagged fields.
func (t TransactionRecord) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(t.Fields)+2)
	for k, v := range t.Fields {
		flat[k] = v
	}
	flat["transaction_id"] = t.TransactionID
	flat["operation"] = t.Operation
	return json.Marshal(flat)
}

// UnmarshalJSON pulls the tagged fields out of the payload and captures
// everything else in the extras bag.
func (t *TransactionRecord) UnmarshalJSON(data []byte) error {
	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}

	if v, ok := flat["transaction_id"].(string); ok {
		t.TransactionID = v
	}
	if v, ok := flat["operation"].(string); ok {
		t.Operation = v
	}
	delete(flat, "transaction_id")
	delete(flat, "operation")

	if len(flat) > 0 {
		t.Fields = flat
	} else {
		t.Fields = nil
	}
	return nil
}
