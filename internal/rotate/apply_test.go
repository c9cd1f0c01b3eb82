package rotate_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/oprotate/internal/onepassword"
	"github.com/systmms/oprotate/internal/rotate"
)

const itemWithPassthrough = `{
	"id": "abc123",
	"title": "Acme api key prod",
	"category": "API_CREDENTIAL",
	"version": 7,
	"additional_information": "keep me",
	"fields": [
		{"id": "type", "type": "MENU", "label": "type", "value": "bearer", "reference": "op://v/i/type"},
		{"id": "credential", "type": "CONCEALED", "label": "credential", "value": "oldsecret", "reference": "op://v/i/credential", "entropy": 128}
	]
}`

func parseItem(t *testing.T, doc string) *onepassword.Item {
	t.Helper()
	var item onepassword.Item
	require.NoError(t, json.Unmarshal([]byte(doc), &item))
	return &item
}

func TestApplySetsOnlyTheChosenField(t *testing.T) {
	t.Parallel()

	item := parseItem(t, itemWithPassthrough)
	payload, err := rotate.Apply(item, "credential", "newsecret")
	require.NoError(t, err)

	var updated onepassword.Item
	require.NoError(t, json.Unmarshal(payload, &updated))

	require.NotNil(t, updated.Fields[1].Value)
	assert.Equal(t, "newsecret", *updated.Fields[1].Value)

	// The other field is untouched.
	require.NotNil(t, updated.Fields[0].Value)
	assert.Equal(t, "bearer", *updated.Fields[0].Value)
	assert.Equal(t, "API_CREDENTIAL", updated.Category)
}

func TestApplyPreservesPassthroughAttributes(t *testing.T) {
	t.Parallel()

	item := parseItem(t, itemWithPassthrough)
	payload, err := rotate.Apply(item, "credential", "newsecret")
	require.NoError(t, err)

	s := string(payload)
	assert.Contains(t, s, `"version":7`)
	assert.Contains(t, s, `"additional_information":"keep me"`)
	assert.Contains(t, s, `"entropy":128`)
	assert.NotContains(t, s, "oldsecret")
}

func TestApplyIsIdempotent(t *testing.T) {
	t.Parallel()

	first, err := rotate.Apply(parseItem(t, itemWithPassthrough), "credential", "newsecret")
	require.NoError(t, err)

	second, err := rotate.Apply(parseItem(t, itemWithPassthrough), "credential", "newsecret")
	require.NoError(t, err)

	assert.Equal(t, first, second, "same value twice must serialize byte-identically")
}

func TestApplyUnknownFieldID(t *testing.T) {
	t.Parallel()

	_, err := rotate.Apply(parseItem(t, itemWithPassthrough), "nonexistent", "v")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "nonexistent" not present`)
}
