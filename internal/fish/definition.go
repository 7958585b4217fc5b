package fish

// Definition is an admin-curated catalog entry. Rows are created and
// deleted through the catalog; they are never updated in place.
type Definition struct {
	ID     int64
	Name   string
	Rarity Rarity
	Price  int64
}
