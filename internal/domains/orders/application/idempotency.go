package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/application/types"
)

type normalizedPlaceOrderInput struct {
	CustomerName string   `json:"customerName"`
	Items        []string `json:"items"`
}

// FingerprintPlaceOrder builds a deterministic hash of the intake payload (excluding the idempotency key).
// Item order is kept: it is part of what the customer submitted.
func FingerprintPlaceOrder(input types.PlaceOrderInput) (string, error) {
	normalized := normalizedPlaceOrderInput{
		CustomerName: strings.TrimSpace(input.CustomerName),
		Items:        make([]string, 0, len(input.Items)),
	}
	for _, item := range input.Items {
		normalized.Items = append(normalized.Items, strings.TrimSpace(item))
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
