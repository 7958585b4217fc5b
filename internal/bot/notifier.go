package bot

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/bwmarrin/discordgo"
	"github.com/jejes323/Discord-Fish-Bot/internal/fish"
	"github.com/jejes323/Discord-Fish-Bot/internal/store"
)

// DMNotifier delivers catch outcomes over a direct message, so the result
// reaches the user even when it completes long after the interaction that
// started the session. Delivery is best effort: failures are logged and
// the outcome is dropped, the inventory/profile mutation stands.
type DMNotifier struct {
	s   *discordgo.Session
	log *slog.Logger
}

func NewDMNotifier(s *discordgo.Session, log *slog.Logger) *DMNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &DMNotifier{s: s, log: log}
}

func (n *DMNotifier) DeliverCatch(userID int64, out fish.Outcome) {
	ch, err := n.s.UserChannelCreate(strconv.FormatInt(userID, 10))
	if err != nil {
		n.log.Warn("catch notification dropped", "user_id", userID, "err", err)
		return
	}

	if _, err := n.s.ChannelMessageSendEmbed(ch.ID, catchEmbed(out)); err != nil {
		n.log.Warn("catch notification dropped", "user_id", userID, "err", err)
	}
}

func catchEmbed(out fish.Outcome) *discordgo.MessageEmbed {
	switch o := out.(type) {
	case fish.Caught:
		return &discordgo.MessageEmbed{
			Title: fmt.Sprintf("🎣 You caught %s %s!", indefArticle(o.Fish.Name), o.Fish.Name),
			Description: fmt.Sprintf("Rarity: **%s**\nPrice: **%d** coins",
				o.Fish.Rarity, o.Fish.Price),
			Color: fish.ColorForRarity(o.Fish.Rarity),
		}

	case fish.CaughtInventoryFull:
		return &discordgo.MessageEmbed{
			Title: fmt.Sprintf("🪣 %s %s slipped away...", indefArticle(o.Fish.Name), o.Fish.Name),
			Description: fmt.Sprintf("Your bucket is full (%d/%d), so it swam off. It still counts toward your total!",
				store.MaxInventory, store.MaxInventory),
			Color: fish.ColorForRarity(o.Fish.Rarity),
		}

	case fish.EmptyRarityPool:
		return &discordgo.MessageEmbed{
			Title:       "🌊 Nothing was biting",
			Description: fmt.Sprintf("You felt a %s tug, but these waters hold no such fish.", o.Rarity),
			Color:       fish.ColorForRarity(o.Rarity),
		}
	}

	return &discordgo.MessageEmbed{Title: "🌊 Nothing was biting"}
}

// TODO: some words beginning with consonants use 'an' (hour, heir, honest).
func indefArticle(name string) string {
	if name == "" {
		return "a"
	}
	switch name[0] {
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		return "an"
	}
	return "a"
}
