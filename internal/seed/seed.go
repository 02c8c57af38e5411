package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"importexport-hub/internal/model"
)

//go:embed products.json
var productsJSON []byte

// Products returns a fresh copy of the bundled fixture, in file order
func Products() ([]model.Product, error) {
	var products []model.Product
	if err := json.Unmarshal(productsJSON, &products); err != nil {
		return nil, fmt.Errorf("failed to decode product fixture: %w", err)
	}
	return products, nil
}
