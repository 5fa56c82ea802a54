package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// idHexLen is how many hex characters of the digest form a card id.
// Existing cache documents and artwork filenames depend on this width.
const idHexLen = 12

// BaseCardID derives the content address of a base card from its name.
func BaseCardID(name string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(name)))
	return hex.EncodeToString(sum[:])[:idHexLen]
}

// CraftedCardID derives the content address of a combination outcome.
// Material ids are sorted so the address is invariant under selection
// order; the intent id, if any, is appended in brackets. At most one
// intent is ever allowed, so its position needs no ordering rule.
func CraftedCardID(materialIDs []string, intentID string) string {
	ids := make([]string, len(materialIDs))
	copy(ids, materialIDs)
	sort.Strings(ids)

	key := strings.Join(ids, "+")
	if intentID != "" {
		key += "+[" + intentID + "]"
	}

	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:idHexLen]
}
