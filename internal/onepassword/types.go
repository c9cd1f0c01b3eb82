// Package onepassword models the 1Password CLI item JSON and wraps the
// `op` invocations the rotation pipeline needs: item list, item get, and
// item edit.
//
// Reference: 1Password CLI item template JSON,
// https://developer.1password.com/docs/cli/item-template-json/
package onepassword

import (
	"encoding/json"
	"fmt"
)

// ItemSummary is one entry of `op item list` output. Titles are used only
// for matching and are never written back.
type ItemSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// FieldType is the wire value of a field's `type` attribute. It is kept as
// a string so undocumented types round-trip verbatim instead of being
// collapsed into a lossy "unknown" marker.
type FieldType string

// Field types documented for `op`,
// https://developer.1password.com/docs/cli/item-fields/
const (
	FieldConcealed FieldType = "CONCEALED"
	FieldString    FieldType = "STRING"
	FieldEmail     FieldType = "EMAIL"
	FieldURL       FieldType = "URL"
	FieldDate      FieldType = "DATE"
	FieldMonthYear FieldType = "MONTH_YEAR"
	FieldPhone     FieldType = "PHONE"
	FieldOTP       FieldType = "OTP"
	// FieldMenu is undocumented; used by the `type` field of API Credential items.
	FieldMenu FieldType = "MENU"
)

// Attr is one unrecognized JSON object member, kept verbatim.
type Attr struct {
	Key   string
	Value json.RawMessage
}

// Attrs preserves unrecognized attributes in document order so an item
// round-trips byte-exact except for the one field being rotated.
type Attrs []Attr

// Item is the full structured template returned by `op item get`.
// Sections and Fields are nil when the corresponding key is absent;
// a present-but-empty `fields` array decodes to a non-nil empty slice.
type Item struct {
	ID       string
	Title    string
	Category string
	Sections []Section
	Fields   []Field
	Extra    Attrs
}

// String renders the item's human-readable identity for report lines.
func (it *Item) String() string {
	return fmt.Sprintf("%s (id: %s)", it.Title, it.ID)
}

// FieldLabel returns the display label of the field with the given id,
// falling back to the id when the field carries no label.
func (it *Item) FieldLabel(fieldID string) string {
	for i := range it.Fields {
		if it.Fields[i].ID == fieldID && it.Fields[i].Label != nil {
			return *it.Fields[i].Label
		}
	}
	return fieldID
}

// Section is an item section. Only its identity matters here; everything
// else flows through Extra untouched.
type Section struct {
	ID    string
	Label *string
	Extra Attrs
}

// Field is a single template field. Label and Value distinguish absent
// from empty, matching the wire format.
type Field struct {
	ID        string
	Section   *SectionRef
	Type      FieldType
	Label     *string
	Value     *string
	Reference string
	Extra     Attrs
}

// SectionRef ties a field to a section by id.
type SectionRef struct {
	ID    string
	Extra Attrs
}
