package domain

import "testing"

func TestBaseCardIDIsCaseInsensitive(t *testing.T) {
	a := BaseCardID("Earth")
	b := BaseCardID("earth")
	if a != b {
		t.Fatalf("ids differ for case variants: %s vs %s", a, b)
	}
	if len(a) != 12 {
		t.Fatalf("id length = %d, want 12", len(a))
	}
}

func TestCraftedCardIDOrderInvariant(t *testing.T) {
	earth := BaseCardID("earth")
	water := BaseCardID("water")
	fire := BaseCardID("fire")
	intent := BaseCardID("sharpen")

	tests := []struct {
		name   string
		first  []string
		second []string
		intent string
	}{
		{"two materials swapped", []string{earth, water}, []string{water, earth}, ""},
		{"three materials rotated", []string{earth, water, fire}, []string{fire, earth, water}, ""},
		{"with intent", []string{water, earth}, []string{earth, water}, intent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := CraftedCardID(tt.first, tt.intent)
			b := CraftedCardID(tt.second, tt.intent)
			if a != b {
				t.Errorf("permutation changed id: %s vs %s", a, b)
			}
			if len(a) != 12 {
				t.Errorf("id length = %d, want 12", len(a))
			}
		})
	}
}

func TestCraftedCardIDDistinguishesInputs(t *testing.T) {
	earth := BaseCardID("earth")
	water := BaseCardID("water")
	fire := BaseCardID("fire")
	intent := BaseCardID("sharpen")

	ids := map[string]string{
		"earth+water":        CraftedCardID([]string{earth, water}, ""),
		"earth+fire":         CraftedCardID([]string{earth, fire}, ""),
		"earth+water+fire":   CraftedCardID([]string{earth, water, fire}, ""),
		"earth+water+intent": CraftedCardID([]string{earth, water}, intent),
	}

	seen := map[string]string{}
	for name, id := range ids {
		if other, dup := seen[id]; dup {
			t.Errorf("%s and %s share id %s", name, other, id)
		}
		seen[id] = name
	}
}

func TestCraftedCardIDIntentIsNotAMaterial(t *testing.T) {
	earth := BaseCardID("earth")
	water := BaseCardID("water")

	asMaterial := CraftedCardID([]string{earth, water}, "")
	asIntent := CraftedCardID([]string{earth}, water)
	if asMaterial == asIntent {
		t.Fatalf("intent slot should be distinguished from material slot")
	}
}
