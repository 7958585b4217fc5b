package game

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand"
	"sync"
	"time"

	"github.com/jejes323/Discord-Fish-Bot/internal/fish"
)

// The engine needs only a slice of the store's surface; declaring it
// here keeps test fakes small.
type Catalog interface {
	FishByRarity(ctx context.Context, rarity fish.Rarity) ([]fish.Definition, error)
}

type Inventory interface {
	AddToInventory(ctx context.Context, userID, fishID int64) (bool, error)
}

type Profiles interface {
	IncrementFishingCount(ctx context.Context, userID int64) error
}

// Engine draws rewards for completed fishing sessions: a weighted rarity
// roll, then a uniform pick among the catalog entries of that rarity.
type Engine struct {
	catalog  Catalog
	inv      Inventory
	profiles Profiles

	mu  sync.Mutex // guards rng; completions for different users run concurrently
	rng *mrand.Rand
}

func NewEngine(catalog Catalog, inv Inventory, profiles Profiles, rng *mrand.Rand) *Engine {
	if rng == nil {
		var b [8]byte
		if _, err := rand.Read(b[:]); err != nil {
			rng = mrand.New(mrand.NewSource(time.Now().UnixNano()))
		} else {
			rng = mrand.New(mrand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))
		}
	}

	return &Engine{
		catalog:  catalog,
		inv:      inv,
		profiles: profiles,
		rng:      rng,
	}
}

func (e *Engine) SelectRarity() fish.Rarity {
	e.mu.Lock()
	roll := e.rng.Intn(100) // random int from [0,100)
	e.mu.Unlock()

	return fish.RarityFromRoll(roll)
}

// SelectFish picks uniformly among catalog entries of the given rarity.
// ok is false when the rarity has no entries.
func (e *Engine) SelectFish(ctx context.Context, rarity fish.Rarity) (fish.Definition, bool, error) {
	pool, err := e.catalog.FishByRarity(ctx, rarity)
	if err != nil {
		return fish.Definition{}, false, fmt.Errorf("loading %s pool: %w", rarity, err)
	}
	if len(pool) == 0 {
		return fish.Definition{}, false, nil
	}

	e.mu.Lock()
	idx := e.rng.Intn(len(pool))
	e.mu.Unlock()

	return pool[idx], true, nil
}

// Catch resolves one completed session for the user. The fishing count
// increments whenever a definition was matched, even if the inventory is
// full; an empty rarity pool mutates nothing.
func (e *Engine) Catch(ctx context.Context, userID int64) (fish.Outcome, error) {
	rarity := e.SelectRarity()

	def, ok, err := e.SelectFish(ctx, rarity)
	if err != nil {
		return nil, err
	}
	if !ok {
		return fish.EmptyRarityPool{Rarity: rarity}, nil
	}

	if err := e.profiles.IncrementFishingCount(ctx, userID); err != nil {
		return nil, fmt.Errorf("incrementing fishing count: %w", err)
	}

	added, err := e.inv.AddToInventory(ctx, userID, def.ID)
	if err != nil {
		return nil, fmt.Errorf("adding to inventory: %w", err)
	}
	if !added {
		return fish.CaughtInventoryFull{Fish: def}, nil
	}

	return fish.Caught{Fish: def}, nil
}
