package store

import (
	"context"
	"errors"

	"github.com/jejes323/Discord-Fish-Bot/internal/fish"
)

var (
	ErrDuplicateName = errors.New("a fish with that name already exists")
	ErrNotFound      = errors.New("no fish with that name")
)

// MaxInventory is the per-user inventory capacity: the sum of all entry
// counts for a user never exceeds it.
const MaxInventory = 20

// DefaultRodTier is the equipment tier assigned to newly created profiles.
const DefaultRodTier = "Old Rod"

type Profile struct {
	UserID       int64
	Balance      int64
	FishingCount int64
	RodTier      string
}

// InventoryEntry is an inventory row joined with its catalog definition.
type InventoryEntry struct {
	Fish  fish.Definition
	Count int64
}

type Catalog interface {
	AddFish(ctx context.Context, name string, rarity fish.Rarity, price int64) (fish.Definition, error)
	RemoveFish(ctx context.Context, name string) (fish.Definition, error)
	FishByRarity(ctx context.Context, rarity fish.Rarity) ([]fish.Definition, error)
	AllFish(ctx context.Context) ([]fish.Definition, error)
}

type Inventory interface {
	InventoryTotal(ctx context.Context, userID int64) (int64, error)
	// AddToInventory reports false, without mutating, when the user's
	// inventory is already at capacity.
	AddToInventory(ctx context.Context, userID, fishID int64) (bool, error)
	InventoryByRarity(ctx context.Context, userID int64, rarity fish.Rarity) ([]InventoryEntry, error)
	GetInventoryEntry(ctx context.Context, userID, fishID int64) (InventoryEntry, bool, error)
	HeldRarities(ctx context.Context, userID int64) ([]fish.Rarity, error)
}

type Profiles interface {
	GetOrCreateProfile(ctx context.Context, userID int64) (Profile, error)
	IncrementFishingCount(ctx context.Context, userID int64) error
	TopByFishingCount(ctx context.Context, limit int) ([]Profile, error)
}

type Store interface {
	Catalog
	Inventory
	Profiles
}
