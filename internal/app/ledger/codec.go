package ledger

import (
	"fmt"

	"orderledger/internal/app/ds"

	"github.com/goccy/go-json"
)

// encode serializes the whole sequence as one JSON array.
func encode(items []ds.LineItem) ([]byte, error) {
	if items == nil {
		items = []ds.LineItem{}
	}
	return json.Marshal(items)
}

// decode parses a persisted blob. Duplicate ids make the blob invalid.
func decode(data []byte) ([]ds.LineItem, error) {
	var items []ds.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.ID == "" {
			return nil, fmt.Errorf("line item without id")
		}
		if _, ok := seen[it.ID]; ok {
			return nil, fmt.Errorf("duplicate line item id %s", it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	return items, nil
}
