// Package rotate implements the credential rotation pipeline: match each
// (issuer, credential) pair to one vault item, pick the field that should
// receive the new value, and submit the updated item.
package rotate

import (
	"strings"

	"github.com/systmms/oprotate/internal/onepassword"
)

// Index is a read-only, case-folded view of a vault's item summaries.
// It is built once per run, before any matching begins.
type Index struct {
	summaries []onepassword.ItemSummary
}

// NewIndex lower-cases every title for case-insensitive matching. The
// original list order is kept; it decides ties.
func NewIndex(items []onepassword.ItemSummary) *Index {
	summaries := make([]onepassword.ItemSummary, len(items))
	for i, item := range items {
		summaries[i] = onepassword.ItemSummary{
			ID:    item.ID,
			Title: strings.ToLower(item.Title),
		}
	}
	return &Index{summaries: summaries}
}

// Lookup returns the first summary whose title contains token as a
// substring. Multiple matches are not reported; the first one wins.
func (ix *Index) Lookup(token string) (onepassword.ItemSummary, bool) {
	for _, summary := range ix.summaries {
		if strings.Contains(summary.Title, token) {
			return summary, true
		}
	}
	return onepassword.ItemSummary{}, false
}

// Len reports how many summaries the index holds.
func (ix *Index) Len() int {
	return len(ix.summaries)
}
