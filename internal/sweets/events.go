package sweets

import (
	"encoding/json"
	"time"
)

const TopicStockChanged = "sweets.stock.changed"

const (
	EventSweetPurchased = "SweetPurchased"
	EventSweetRestocked = "SweetRestocked"
)

type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	Payload      json.RawMessage `json:"payload"`
}

type StockChangedPayload struct {
	SweetID  string `json:"sweet_id"`
	Name     string `json:"name"`
	Delta    int    `json:"delta"` // -1 per purchase, +amount per restock
	Quantity int    `json:"quantity"`
}

// Partition key = sweet_id, so events for one record stay ordered.
func PartitionKey(sweetID string) []byte { return []byte(sweetID) }
