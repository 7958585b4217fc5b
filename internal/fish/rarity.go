package fish

import "strings"

type Rarity int

const (
	RarityCommon Rarity = iota
	RarityRare
	RarityEpic
	RarityLegendary
	RarityMythic
)

// Draw weights per rarity, in percent. They sum to 100.
const (
	weightCommon    = 80
	weightRare      = 11
	weightEpic      = 5
	weightLegendary = 3
	weightMythic    = 1
)

func (r Rarity) String() string {
	switch r {
	case RarityMythic:
		return "Mythic"
	case RarityLegendary:
		return "Legendary"
	case RarityEpic:
		return "Epic"
	case RarityRare:
		return "Rare"
	default:
		return "Common"
	}
}

func (r Rarity) Weight() int {
	switch r {
	case RarityMythic:
		return weightMythic
	case RarityLegendary:
		return weightLegendary
	case RarityEpic:
		return weightEpic
	case RarityRare:
		return weightRare
	default:
		return weightCommon
	}
}

func (r Rarity) Valid() bool {
	return r >= RarityCommon && r <= RarityMythic
}

func ParseRarity(s string) (Rarity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "common":
		return RarityCommon, true
	case "rare":
		return RarityRare, true
	case "epic":
		return RarityEpic, true
	case "legendary":
		return RarityLegendary, true
	case "mythic":
		return RarityMythic, true
	}
	return RarityCommon, false
}

func AllRarities() []Rarity {
	return []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary, RarityMythic}
}

// RarityFromRoll maps a uniform roll in [0,100) onto a rarity using
// cumulative thresholds at 80, 91, 96, 99, 100.
func RarityFromRoll(roll int) Rarity {
	cum := 0
	for _, r := range AllRarities() {
		cum += r.Weight()
		if roll < cum {
			return r
		}
	}
	return RarityMythic
}

func ColorForRarity(r Rarity) int {
	switch r {
	case RarityMythic:
		return 0xE74C3C // red
	case RarityLegendary:
		return 0xF1C40F // gold
	case RarityEpic:
		return 0x9B59B6 // purple
	case RarityRare:
		return 0x3498DB // blue
	default:
		return 0x95A5A6 // gray
	}
}
