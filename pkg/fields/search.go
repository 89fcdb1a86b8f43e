package fields

import (
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// Index is an in-memory token index over the field catalog. Tokens come
// from both the display name and the API identifier, so a query can mix
// the two ("exponential 200", "price_earnings").
type Index struct {
	fields []Field
	tokens map[string]*roaring.Bitmap
}

// NewIndex builds an index over the full catalog.
func NewIndex() *Index {
	ix := &Index{tokens: make(map[string]*roaring.Bitmap)}
	for _, f := range Catalog() {
		id := uint32(len(ix.fields))
		ix.fields = append(ix.fields, f)
		for _, tok := range tokenize(f.Display + " " + f.Name) {
			bm, ok := ix.tokens[tok]
			if !ok {
				bm = roaring.New()
				ix.tokens[tok] = bm
			}
			bm.Add(id)
		}
	}
	return ix
}

// Search returns fields matching every token of the query. A query token
// matches an indexed token on equality or as a prefix. Results are sorted
// by API identifier; limit <= 0 means no limit.
func (ix *Index) Search(query string, limit int) []Field {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}

	var result *roaring.Bitmap
	for _, qt := range queryTokens {
		candidates := roaring.New()
		for tok, bm := range ix.tokens {
			if tok == qt || strings.HasPrefix(tok, qt) {
				candidates.Or(bm)
			}
		}
		if result == nil {
			result = candidates
		} else {
			result = roaring.And(result, candidates)
		}
		if result.IsEmpty() {
			return nil
		}
	}

	ids := result.ToArray()
	matches := make([]Field, 0, len(ids))
	for _, id := range ids {
		matches = append(matches, ix.fields[id])
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// tokenize lowercases and splits on anything that is not a letter or
// digit, so "MACD.macd" and "Price to Earnings Ratio (TTM)" both break
// into comparable tokens.
func tokenize(s string) []string {
	parts := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
	})
	seen := make(map[string]bool, len(parts))
	out := parts[:0]
	for _, p := range parts {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
