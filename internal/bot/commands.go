package bot

import (
	"github.com/bwmarrin/discordgo"
	"github.com/jejes323/Discord-Fish-Bot/internal/fish"
)

func commandDefs() []*discordgo.ApplicationCommand {
	adminOnly := int64(discordgo.PermissionAdministrator)
	minPrice := float64(0)

	rarityChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(fish.AllRarities()))
	for _, r := range fish.AllRarities() {
		rarityChoices = append(rarityChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  r.String(),
			Value: r.String(),
		})
	}

	return []*discordgo.ApplicationCommand{
		{Name: "fish", Description: "Cast a line"},
		{Name: "inventory", Description: "Browse the fish you've caught"},
		{Name: "profile", Description: "Show your balance, catches and rod"},
		{Name: "rank", Description: "Show the most prolific anglers"},
		{Name: "shop", Description: "Browse the shop"},
		{
			Name:                     "add-fish",
			Description:              "Add a fish to the catalog",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "Unique fish name",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "rarity",
					Description: "How rarely it bites",
					Required:    true,
					Choices:     rarityChoices,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "price",
					Description: "Sale price in coins",
					Required:    true,
					MinValue:    &minPrice,
				},
			},
		},
		{
			Name:                     "remove-fish",
			Description:              "Remove a fish from the catalog",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "Name of the fish to remove",
					Required:    true,
				},
			},
		},
		{
			Name:                     "panel",
			Description:              "Post the fishing button panel in this channel",
			DefaultMemberPermissions: &adminOnly,
		},
	}
}
