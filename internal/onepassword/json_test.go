package onepassword_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/oprotate/internal/onepassword"
)

const apiCredentialItem = `{
	"id": "abc123",
	"title": "Acme api key prod",
	"version": 7,
	"vault": {"id": "v1", "name": "Production"},
	"category": "API_CREDENTIAL",
	"last_edited_by": "SOMEUSER",
	"created_at": "2024-01-01T00:00:00Z",
	"sections": [
		{"id": "extra", "label": "Extra", "pane": {"nested": true}}
	],
	"fields": [
		{
			"id": "username",
			"type": "STRING",
			"purpose": "USERNAME",
			"label": "username",
			"value": "svc-acme",
			"reference": "op://Production/Acme api key prod/username"
		},
		{
			"id": "credential",
			"type": "CONCEALED",
			"label": "credential",
			"value": "oldsecret",
			"reference": "op://Production/Acme api key prod/credential",
			"password_details": {"strength": "FANTASTIC"}
		},
		{
			"id": "backup",
			"section": {"id": "extra", "hint": "keep"},
			"type": "CONCEALED",
			"label": "backup key",
			"value": "oldbackup",
			"reference": "op://Production/Acme api key prod/extra/backup"
		}
	],
	"urls": [{"primary": true, "href": "https://acme.example"}]
}`

func TestItemUnmarshal(t *testing.T) {
	t.Parallel()

	var item onepassword.Item
	require.NoError(t, json.Unmarshal([]byte(apiCredentialItem), &item))

	assert.Equal(t, "abc123", item.ID)
	assert.Equal(t, "Acme api key prod", item.Title)
	assert.Equal(t, "API_CREDENTIAL", item.Category)
	require.Len(t, item.Fields, 3)
	require.Len(t, item.Sections, 1)

	// Unrecognized top-level attributes land in Extra, in document order.
	var keys []string
	for _, attr := range item.Extra {
		keys = append(keys, attr.Key)
	}
	assert.Equal(t, []string{"version", "vault", "last_edited_by", "created_at", "urls"}, keys)

	cred := item.Fields[1]
	assert.Equal(t, "credential", cred.ID)
	assert.Equal(t, onepassword.FieldConcealed, cred.Type)
	assert.Nil(t, cred.Section)
	require.NotNil(t, cred.Value)
	assert.Equal(t, "oldsecret", *cred.Value)
	require.Len(t, cred.Extra, 1)
	assert.Equal(t, "password_details", cred.Extra[0].Key)

	backup := item.Fields[2]
	require.NotNil(t, backup.Section)
	assert.Equal(t, "extra", backup.Section.ID)
	require.Len(t, backup.Section.Extra, 1)
	assert.Equal(t, "hint", backup.Section.Extra[0].Key)
}

func TestItemRoundTripPreservesPassthrough(t *testing.T) {
	t.Parallel()

	var item onepassword.Item
	require.NoError(t, json.Unmarshal([]byte(apiCredentialItem), &item))

	out, err := json.Marshal(&item)
	require.NoError(t, err)

	// Every unrecognized attribute survives with its raw value intact.
	s := string(out)
	assert.Contains(t, s, `"version":7`)
	assert.Contains(t, s, `"vault":{"id": "v1", "name": "Production"}`)
	assert.Contains(t, s, `"last_edited_by":"SOMEUSER"`)
	assert.Contains(t, s, `"urls":[{"primary": true, "href": "https://acme.example"}]`)
	assert.Contains(t, s, `"password_details":{"strength": "FANTASTIC"}`)
	assert.Contains(t, s, `"purpose":"USERNAME"`)
	assert.Contains(t, s, `"pane":{"nested": true}`)

	// Relative order of passthrough attributes is preserved.
	assert.Less(t, strings.Index(s, `"version"`), strings.Index(s, `"vault"`))
	assert.Less(t, strings.Index(s, `"vault"`), strings.Index(s, `"last_edited_by"`))
	assert.Less(t, strings.Index(s, `"last_edited_by"`), strings.Index(s, `"urls"`))
}

func TestItemMarshalIsDeterministic(t *testing.T) {
	t.Parallel()

	var item onepassword.Item
	require.NoError(t, json.Unmarshal([]byte(apiCredentialItem), &item))

	first, err := json.Marshal(&item)
	require.NoError(t, err)

	// Re-decoding our own output and marshaling again must be stable.
	var reparsed onepassword.Item
	require.NoError(t, json.Unmarshal(first, &reparsed))
	second, err := json.Marshal(&reparsed)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestItemFieldsPresence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		doc        string
		wantNil    bool
		wantEmpty  bool
		marshalHas bool
	}{
		{
			name:    "fields absent",
			doc:     `{"id":"1","title":"t","category":"LOGIN"}`,
			wantNil: true,
		},
		{
			name:    "fields null",
			doc:     `{"id":"1","title":"t","category":"LOGIN","fields":null}`,
			wantNil: true,
		},
		{
			name:       "fields empty",
			doc:        `{"id":"1","title":"t","category":"LOGIN","fields":[]}`,
			wantEmpty:  true,
			marshalHas: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var item onepassword.Item
			require.NoError(t, json.Unmarshal([]byte(tt.doc), &item))

			if tt.wantNil {
				assert.Nil(t, item.Fields)
			}
			if tt.wantEmpty {
				require.NotNil(t, item.Fields)
				assert.Empty(t, item.Fields)
			}

			out, err := json.Marshal(&item)
			require.NoError(t, err)
			if tt.marshalHas {
				assert.Contains(t, string(out), `"fields":[]`)
			} else {
				assert.NotContains(t, string(out), `"fields"`)
			}
		})
	}
}

func TestUnknownFieldTypeRoundTrips(t *testing.T) {
	t.Parallel()

	doc := `{"id":"1","title":"t","category":"LOGIN","fields":[
		{"id":"weird","type":"SSHKEY","reference":"op://x"}
	]}`

	var item onepassword.Item
	require.NoError(t, json.Unmarshal([]byte(doc), &item))
	assert.Equal(t, onepassword.FieldType("SSHKEY"), item.Fields[0].Type)

	out, err := json.Marshal(&item)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"type":"SSHKEY"`)
}

func TestFieldOptionalLabelAndValue(t *testing.T) {
	t.Parallel()

	doc := `{"id":"1","title":"t","category":"LOGIN","fields":[
		{"id":"notesPlain","type":"STRING","reference":"op://x"}
	]}`

	var item onepassword.Item
	require.NoError(t, json.Unmarshal([]byte(doc), &item))
	assert.Nil(t, item.Fields[0].Label)
	assert.Nil(t, item.Fields[0].Value)

	out, err := json.Marshal(&item)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"label"`)
	assert.NotContains(t, string(out), `"value"`)
}

func TestItemString(t *testing.T) {
	t.Parallel()

	item := &onepassword.Item{ID: "abc123", Title: "Acme api key prod"}
	assert.Equal(t, "Acme api key prod (id: abc123)", item.String())
}

func TestFieldLabelFallback(t *testing.T) {
	t.Parallel()

	label := "Credential"
	item := &onepassword.Item{
		Fields: []onepassword.Field{
			{ID: "credential", Label: &label},
			{ID: "unlabeled"},
		},
	}

	assert.Equal(t, "Credential", item.FieldLabel("credential"))
	assert.Equal(t, "unlabeled", item.FieldLabel("unlabeled"))
	assert.Equal(t, "missing", item.FieldLabel("missing"))
}
