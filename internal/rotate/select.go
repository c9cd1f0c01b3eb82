package rotate

import (
	"github.com/systmms/oprotate/internal/onepassword"
)

// SelectField picks the field that should receive the new secret value.
// Candidates are the item's concealed fields, in field order. Priority:
//
//  1. an unsectioned candidate with id "credential" (the API Credential
//     template convention),
//  2. the first unsectioned candidate,
//  3. the first candidate anywhere.
//
// Returns false when the item has no concealed field at all.
func SelectField(item *onepassword.Item) (string, bool) {
	var candidates []*onepassword.Field
	for i := range item.Fields {
		if item.Fields[i].Type == onepassword.FieldConcealed {
			candidates = append(candidates, &item.Fields[i])
		}
	}
	if len(candidates) == 0 {
		return "", false
	}

	for _, field := range candidates {
		if field.Section == nil && field.ID == "credential" {
			return field.ID, true
		}
	}
	for _, field := range candidates {
		if field.Section == nil {
			return field.ID, true
		}
	}
	return candidates[0].ID, true
}
