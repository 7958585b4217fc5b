package fish

import (
	"encoding/json"
	"fmt"
	"os"
)

type seedJSON struct {
	Name   string `json:"name"`
	Rarity string `json:"rarity"`
	Price  int64  `json:"price"`
}

// LoadSeedFromJSON reads an initial catalog from a JSON file. The seed is
// only applied when the catalog is empty, so validation here mirrors what
// the catalog itself enforces on admin inserts.
func LoadSeedFromJSON(path string) ([]Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var arr []seedJSON
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil, err
	}
	if len(arr) == 0 {
		return nil, fmt.Errorf("seed list is empty")
	}

	seenName := map[string]bool{}
	out := make([]Definition, 0, len(arr))
	for i, sj := range arr {
		if sj.Name == "" {
			return nil, fmt.Errorf("missing name at index %d", i)
		}
		if seenName[sj.Name] {
			return nil, fmt.Errorf("duplicate name %q", sj.Name)
		}
		if sj.Price < 0 {
			return nil, fmt.Errorf("negative price for %q", sj.Name)
		}
		rarity, ok := ParseRarity(sj.Rarity)
		if !ok {
			return nil, fmt.Errorf("unknown rarity %q for %q", sj.Rarity, sj.Name)
		}

		seenName[sj.Name] = true
		out = append(out, Definition{
			Name:   sj.Name,
			Rarity: rarity,
			Price:  sj.Price,
		})
	}

	return out, nil
}
