package game

import (
	"context"
	"errors"
	mrand "math/rand"
	"path/filepath"
	"testing"

	"github.com/jejes323/Discord-Fish-Bot/internal/fish"
	"github.com/jejes323/Discord-Fish-Bot/internal/store"
)

type fakeCatalog struct {
	pools map[fish.Rarity][]fish.Definition
	err   error
}

func (f *fakeCatalog) FishByRarity(_ context.Context, r fish.Rarity) ([]fish.Definition, error) {
	return f.pools[r], f.err
}

type fakeInventory struct {
	added []int64
	full  bool
}

func (f *fakeInventory) AddToInventory(_ context.Context, userID, fishID int64) (bool, error) {
	if f.full {
		return false, nil
	}
	f.added = append(f.added, fishID)
	return true, nil
}

type fakeProfiles struct {
	counts map[int64]int64
}

func (f *fakeProfiles) IncrementFishingCount(_ context.Context, userID int64) error {
	if f.counts == nil {
		f.counts = make(map[int64]int64)
	}
	f.counts[userID]++
	return nil
}

func fullPools() map[fish.Rarity][]fish.Definition {
	pools := make(map[fish.Rarity][]fish.Definition)
	for i, r := range fish.AllRarities() {
		pools[r] = []fish.Definition{{ID: int64(i + 1), Name: r.String() + " fish", Rarity: r, Price: 10}}
	}
	return pools
}

func TestSelectRarityDistribution(t *testing.T) {
	e := NewEngine(&fakeCatalog{}, &fakeInventory{}, &fakeProfiles{}, mrand.New(mrand.NewSource(1)))

	const draws = 200000
	counts := make(map[fish.Rarity]int)
	for i := 0; i < draws; i++ {
		counts[e.SelectRarity()]++
	}

	for _, r := range fish.AllRarities() {
		observed := float64(counts[r]) / draws * 100
		expected := float64(r.Weight())
		// a percentage point of tolerance is generous at this sample size
		if diff := observed - expected; diff < -1 || diff > 1 {
			t.Errorf("%s: observed %.2f%%, expected %.0f%%", r, observed, expected)
		}
	}
}

func TestSelectFishUniformPick(t *testing.T) {
	pool := []fish.Definition{
		{ID: 1, Name: "Minnow", Rarity: fish.RarityCommon},
		{ID: 2, Name: "Carp", Rarity: fish.RarityCommon},
	}
	e := NewEngine(&fakeCatalog{pools: map[fish.Rarity][]fish.Definition{fish.RarityCommon: pool}},
		&fakeInventory{}, &fakeProfiles{}, mrand.New(mrand.NewSource(7)))

	seen := make(map[int64]bool)
	for i := 0; i < 100; i++ {
		d, ok, err := e.SelectFish(context.Background(), fish.RarityCommon)
		if err != nil || !ok {
			t.Fatalf("expected a pick, got ok=%v err=%v", ok, err)
		}
		seen[d.ID] = true
	}
	if !seen[1] || !seen[2] {
		t.Errorf("100 picks never hit both entries: %v", seen)
	}
}

func TestSelectFishEmptyPool(t *testing.T) {
	e := NewEngine(&fakeCatalog{}, &fakeInventory{}, &fakeProfiles{}, mrand.New(mrand.NewSource(1)))

	_, ok, err := e.SelectFish(context.Background(), fish.RarityMythic)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ok {
		t.Error("expected no pick from an empty pool")
	}
}

func TestCatchEmptyRarityPoolMutatesNothing(t *testing.T) {
	inv := &fakeInventory{}
	profiles := &fakeProfiles{}
	e := NewEngine(&fakeCatalog{}, inv, profiles, mrand.New(mrand.NewSource(1)))

	out, err := e.Catch(context.Background(), 42)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := out.(fish.EmptyRarityPool); !ok {
		t.Fatalf("expected EmptyRarityPool, got %T", out)
	}
	if profiles.counts[42] != 0 {
		t.Errorf("fishing count mutated: %d", profiles.counts[42])
	}
	if len(inv.added) != 0 {
		t.Errorf("inventory mutated: %v", inv.added)
	}
}

func TestCatchStoresRewardAndCounts(t *testing.T) {
	inv := &fakeInventory{}
	profiles := &fakeProfiles{}
	e := NewEngine(&fakeCatalog{pools: fullPools()}, inv, profiles, mrand.New(mrand.NewSource(3)))

	out, err := e.Catch(context.Background(), 42)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	caught, ok := out.(fish.Caught)
	if !ok {
		t.Fatalf("expected Caught, got %T", out)
	}
	if profiles.counts[42] != 1 {
		t.Errorf("fishing count = %d, want 1", profiles.counts[42])
	}
	if len(inv.added) != 1 || inv.added[0] != caught.Fish.ID {
		t.Errorf("inventory adds = %v, want [%d]", inv.added, caught.Fish.ID)
	}
}

func TestCatchFullInventoryStillCounts(t *testing.T) {
	inv := &fakeInventory{full: true}
	profiles := &fakeProfiles{}
	e := NewEngine(&fakeCatalog{pools: fullPools()}, inv, profiles, mrand.New(mrand.NewSource(3)))

	out, err := e.Catch(context.Background(), 42)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := out.(fish.CaughtInventoryFull); !ok {
		t.Fatalf("expected CaughtInventoryFull, got %T", out)
	}
	if profiles.counts[42] != 1 {
		t.Errorf("fishing count = %d, want 1", profiles.counts[42])
	}
	if len(inv.added) != 0 {
		t.Errorf("reward persisted despite full inventory: %v", inv.added)
	}
}

func TestCatchSurfacesStorageFailure(t *testing.T) {
	boom := errors.New("disk on fire")
	e := NewEngine(&fakeCatalog{err: boom}, &fakeInventory{}, &fakeProfiles{}, mrand.New(mrand.NewSource(1)))

	_, err := e.Catch(context.Background(), 42)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
}

// Engine against the real store: 20 successful catches fill the bucket,
// the 21st still counts but is not persisted.
func TestCatchAgainstSQLiteStore(t *testing.T) {
	st, err := store.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	ctx := context.Background()

	// One fish per rarity, so every draw matches a definition
	for _, r := range fish.AllRarities() {
		if _, err := st.AddFish(ctx, r.String()+" fish", r, 10); err != nil {
			t.Fatal(err)
		}
	}

	e := NewEngine(st, st, st, mrand.New(mrand.NewSource(11)))

	const user = int64(42)
	for n := 1; n <= store.MaxInventory; n++ {
		out, err := e.Catch(ctx, user)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := out.(fish.Caught); !ok {
			t.Fatalf("catch %d: expected Caught, got %T", n, out)
		}
	}

	out, err := e.Catch(ctx, user)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := out.(fish.CaughtInventoryFull); !ok {
		t.Fatalf("21st catch: expected CaughtInventoryFull, got %T", out)
	}

	p, err := st.GetOrCreateProfile(ctx, user)
	if err != nil {
		t.Fatal(err)
	}
	if p.FishingCount != store.MaxInventory+1 {
		t.Errorf("fishing count = %d, want %d", p.FishingCount, store.MaxInventory+1)
	}
	total, err := st.InventoryTotal(ctx, user)
	if err != nil {
		t.Fatal(err)
	}
	if total != store.MaxInventory {
		t.Errorf("total = %d, want %d", total, store.MaxInventory)
	}
}
