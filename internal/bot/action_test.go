package bot

import "testing"

func TestActionCustomIDRoundTrip(t *testing.T) {
	actions := []action{
		actionFish,
		actionShop,
		actionRank,
		actionProfile,
		actionInventoryRarity,
		actionInventoryFish,
	}

	seen := map[string]bool{}
	for _, a := range actions {
		id := a.customID()
		if seen[id] {
			t.Fatalf("custom id %q not unique", id)
		}
		seen[id] = true

		parsed, ok := parseAction(id)
		if !ok || parsed != a {
			t.Errorf("parseAction(%q) = %v, %v; want %v", id, parsed, ok, a)
		}
	}
}

func TestParseActionRejectsUnknown(t *testing.T) {
	for _, id := range []string{"", "trade", "inventory", "inventory:"} {
		if _, ok := parseAction(id); ok {
			t.Errorf("parseAction(%q) accepted", id)
		}
	}
}
