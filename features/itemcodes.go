package features

import (
	"fmt"
	"sort"

	"app/models"
)

// ItemCodes is the stable item name -> integer code mapping built once per
// training run. It is stored inside the model artifact and passed explicitly
// to anything that needs it, so training and inference can never disagree.
type ItemCodes map[string]int

// BuildItemCodes assigns codes 0..n-1 to the distinct item names in the
// transaction log, lexicographic name order, so the mapping is deterministic
// for a given item set.
func BuildItemCodes(transactions []models.TransactionRecord) ItemCodes {
	seen := make(map[string]struct{})
	for _, tx := range transactions {
		seen[tx.ItemName] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	codes := make(ItemCodes, len(names))
	for i, name := range names {
		codes[name] = i
	}
	return codes
}

// Code resolves an item name to its training-time code. A name that was not
// seen during training is an error, never a fallback code.
func (ic ItemCodes) Code(itemName string) (int, error) {
	code, ok := ic[itemName]
	if !ok {
		return 0, fmt.Errorf("item %q: %w", itemName, models.ErrUnknownItem)
	}
	return code, nil
}

// Names returns the known item names in code order.
func (ic ItemCodes) Names() []string {
	names := make([]string, len(ic))
	for name, code := range ic {
		names[code] = name
	}
	return names
}
