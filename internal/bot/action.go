package bot

// action is the closed set of component interactions the bot handles.
// Custom IDs parse into it once, and dispatch switches over the typed
// value instead of comparing strings in every handler.
type action int

const (
	actionFish action = iota
	actionShop
	actionRank
	actionProfile
	actionInventoryRarity // rarity select; the chosen rarity rides in the select value
	actionInventoryFish   // fish select; the chosen fish id rides in the select value
)

func (a action) customID() string {
	switch a {
	case actionFish:
		return "fish"
	case actionShop:
		return "shop"
	case actionRank:
		return "rank"
	case actionProfile:
		return "profile"
	case actionInventoryRarity:
		return "inventory:rarity"
	default:
		return "inventory:fish"
	}
}

func parseAction(customID string) (action, bool) {
	switch customID {
	case "fish":
		return actionFish, true
	case "shop":
		return actionShop, true
	case "rank":
		return actionRank, true
	case "profile":
		return actionProfile, true
	case "inventory:rarity":
		return actionInventoryRarity, true
	case "inventory:fish":
		return actionInventoryFish, true
	}
	return 0, false
}
