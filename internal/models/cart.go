package models

import (
	"fmt"
	"strings"
)

// CartLine is the client-held cart entry: a weak reference into the catalog
// by caller-assigned product id. Never persisted server-side.
type CartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

// NormalizeCartLines is the validation step applied when a stored cart is
// loaded or submitted: ids are trimmed, lines without a product id are
// dropped, duplicate (id, size, color) lines are merged, and non-positive
// quantities reject the whole cart.
func NormalizeCartLines(lines []CartLine) ([]CartLine, error) {
	out := make([]CartLine, 0, len(lines))
	index := map[CartLine]int{}

	for _, line := range lines {
		line.ProductID = strings.TrimSpace(line.ProductID)
		if line.ProductID == "" {
			continue
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("invalid quantity %d for product %s", line.Quantity, line.ProductID)
		}

		key := CartLine{ProductID: line.ProductID, Size: line.Size, Color: line.Color}
		if i, ok := index[key]; ok {
			out[i].Quantity += line.Quantity
			continue
		}
		index[key] = len(out)
		out = append(out, line)
	}

	return out, nil
}
