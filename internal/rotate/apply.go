package rotate

import (
	"encoding/json"
	"fmt"

	"github.com/systmms/oprotate/internal/onepassword"
)

// Apply overwrites the chosen field's value and serializes the whole item
// for submission. Every other attribute, including passthrough ones the
// schema does not model, survives unchanged. Serialization is
// deterministic: applying the same value twice yields identical bytes.
func Apply(item *onepassword.Item, fieldID, value string) ([]byte, error) {
	found := false
	for i := range item.Fields {
		if item.Fields[i].ID == fieldID {
			item.Fields[i].Value = &value
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("field %q not present in item %s", fieldID, item)
	}

	payload, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize updated item %s: %w", item, err)
	}
	return payload, nil
}
