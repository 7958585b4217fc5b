package fish

// Outcome is the structured result of a completed catch attempt. The
// presentation layer owns all rendering; the variants below carry only
// the data each branch produced.
//
// Caught and CaughtInventoryFull both count toward the user's fishing
// total; EmptyRarityPool does not mutate anything.
type Outcome interface {
	outcome()
}

// Caught: a definition was drawn and stored in the user's inventory.
type Caught struct {
	Fish Definition
}

// CaughtInventoryFull: a definition was drawn but the user's inventory
// is at capacity. The reward is not persisted.
type CaughtInventoryFull struct {
	Fish Definition
}

// EmptyRarityPool: the drawn rarity has no catalog entries.
type EmptyRarityPool struct {
	Rarity Rarity
}

func (Caught) outcome()              {}
func (CaughtInventoryFull) outcome() {}
func (EmptyRarityPool) outcome()     {}
