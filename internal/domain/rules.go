package domain

import "sort"

// SelectionProfile counts the material-like cards and intent cards in a
// combine selection.
func SelectionProfile(cards []Card) (materialLike, intents int) {
	for _, c := range cards {
		if c.Kind.MaterialLike() {
			materialLike++
		} else {
			intents++
		}
	}
	return materialLike, intents
}

// SelectCards resolves hand indices into cards. The second return is
// false if any index is out of range or repeated.
func SelectCards(hand []Card, indices []int) ([]Card, bool) {
	seen := make(map[int]bool, len(indices))
	out := make([]Card, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(hand) || seen[idx] {
			return nil, false
		}
		seen[idx] = true
		out = append(out, hand[idx])
	}
	return out, true
}

// MaterialIDs returns the content ids of the material-like cards in a
// selection.
func MaterialIDs(cards []Card) []string {
	var ids []string
	for _, c := range cards {
		if c.Kind.MaterialLike() {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// IntentID returns the id of the selection's intent card, if any.
func IntentID(cards []Card) string {
	for _, c := range cards {
		if c.Kind == KindIntent {
			return c.ID
		}
	}
	return ""
}

// RemoveIndices removes the given hand indices, deduplicated and
// highest-first so earlier removals cannot shift later ones.
func RemoveIndices(hand []Card, indices []int) []Card {
	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	prev := -1
	for _, idx := range sorted {
		if idx == prev {
			continue
		}
		prev = idx
		if idx >= 0 && idx < len(hand) {
			hand = append(hand[:idx], hand[idx+1:]...)
		}
	}
	return hand
}

// HasCrafted reports whether the hand contains any placeable card.
func HasCrafted(hand []Card) bool {
	for _, c := range hand {
		if c.Kind == KindCrafted {
			return true
		}
	}
	return false
}

// ClampCoord forces a board coordinate into [0, BoardSize).
func ClampCoord(v int) int {
	if v < 0 {
		return 0
	}
	if v >= BoardSize {
		return BoardSize - 1
	}
	return v
}
