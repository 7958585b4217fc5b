package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jejes323/Discord-Fish-Bot/internal/fish"
	"github.com/jejes323/Discord-Fish-Bot/internal/ratelimit"
	"github.com/jejes323/Discord-Fish-Bot/internal/session"
	"github.com/jejes323/Discord-Fish-Bot/internal/store"
)

type module struct {
	s          *discordgo.Session
	appId      string
	scopeGuild string
	tracker    *session.Tracker
	st         store.Store
	rankLim    *ratelimit.Limiter
	log        *slog.Logger
}

func Setup(
	sess *discordgo.Session,
	appId, scopeGuild string,
	st store.Store,
	tracker *session.Tracker,
	rankLim *ratelimit.Limiter,
	log *slog.Logger,
) (func(), error) {

	m := &module{
		s:          sess,
		appId:      appId,
		scopeGuild: scopeGuild,
		tracker:    tracker,
		st:         st,
		rankLim:    rankLim,
		log:        log,
	}

	cmds := commandDefs()

	created, err := sess.ApplicationCommandBulkOverwrite(appId, scopeGuild, cmds)
	if err != nil {
		return nil, fmt.Errorf("failed to register commands: %w", err)
	}

	for _, c := range created {
		log.Info("command active", "name", c.Name, "description", c.Description)
	}

	sess.AddHandler(m.onInteraction)

	return func() {}, nil
}

func (m *module) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		switch i.ApplicationCommandData().Name {
		case "fish":
			m.handleFish(s, i)
		case "inventory":
			m.handleInventory(s, i)
		case "profile":
			m.handleProfile(s, i)
		case "rank":
			m.handleRank(s, i)
		case "shop":
			m.handleShop(s, i)
		case "add-fish":
			m.handleAddFish(s, i)
		case "remove-fish":
			m.handleRemoveFish(s, i)
		case "panel":
			m.handlePanel(s, i)
		}

	case discordgo.InteractionMessageComponent:
		act, ok := parseAction(i.MessageComponentData().CustomID)
		if !ok {
			return
		}
		switch act {
		case actionFish:
			m.handleFish(s, i)
		case actionShop:
			m.handleShop(s, i)
		case actionRank:
			m.handleRank(s, i)
		case actionProfile:
			m.handleProfile(s, i)
		case actionInventoryRarity:
			m.handleInventoryRaritySelect(s, i)
		case actionInventoryFish:
			m.handleInventoryFishSelect(s, i)
		}
	}
}

func (m *module) handleFish(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		respondEphemeral(s, i, "Use this command in a server!")
		return
	}

	userId := interactionUserId(i)

	res := m.tracker.Start(toInt64(userId))
	if !res.Started {
		respondEphemeral(s, i, fmt.Sprintf("⏳ Your line is already in the water — something will bite in %s.", pretty(res.Remaining)))
		return
	}

	respondEphemeral(s, i, fmt.Sprintf("🎣 You cast your line! Check your DMs in %s to see what you reeled in.", pretty(res.Cooldown)))
}

func (m *module) handleInventory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userId := toInt64(interactionUserId(i))

	rarities, err := m.st.HeldRarities(context.TODO(), userId)
	if err != nil {
		m.log.Error("failed to load inventory", "user_id", userId, "err", err)
		respondEphemeral(s, i, "Couldn't load your inventory, try again later.")
		return
	}

	if len(rarities) == 0 {
		respondEphemeral(s, i, "Your bucket is empty. Type `/fish` to cast a line!")
		return
	}

	total, err := m.st.InventoryTotal(context.TODO(), userId)
	if err != nil {
		m.log.Error("failed to load inventory total", "user_id", userId, "err", err)
		respondEphemeral(s, i, "Couldn't load your inventory, try again later.")
		return
	}

	opts := make([]discordgo.SelectMenuOption, 0, len(rarities))
	for _, r := range rarities {
		opts = append(opts, discordgo.SelectMenuOption{
			Label: r.String(),
			Value: r.String(),
		})
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("🪣 Your bucket holds **%d/%d** fish. Pick a rarity to look closer.", total, store.MaxInventory),
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.SelectMenu{
							CustomID:    actionInventoryRarity.customID(),
							Placeholder: "Rarity",
							Options:     opts,
						},
					},
				},
			},
		},
	})
	if err != nil {
		m.logREST("inventory response failed", err)
	}
}

func (m *module) handleInventoryRaritySelect(s *discordgo.Session, i *discordgo.InteractionCreate) {
	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return
	}
	rarity, ok := fish.ParseRarity(values[0])
	if !ok {
		return
	}

	userId := toInt64(interactionUserId(i))

	entries, err := m.st.InventoryByRarity(context.TODO(), userId, rarity)
	if err != nil {
		m.log.Error("failed to load inventory", "user_id", userId, "err", err)
		respondEphemeral(s, i, "Couldn't load your inventory, try again later.")
		return
	}

	if len(entries) == 0 {
		updateEphemeral(s, i, fmt.Sprintf("No %s fish in your bucket anymore.", rarity), nil, nil)
		return
	}

	desc := strings.Builder{}
	opts := make([]discordgo.SelectMenuOption, 0, len(entries))
	for _, e := range entries {
		desc.WriteString(fmt.Sprintf("**%s** × %d\n", e.Fish.Name, e.Count))
		opts = append(opts, discordgo.SelectMenuOption{
			Label:       e.Fish.Name,
			Value:       strconv.FormatInt(e.Fish.ID, 10),
			Description: fmt.Sprintf("× %d", e.Count),
		})
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🪣 %s fish", rarity),
		Description: desc.String(),
		Color:       fish.ColorForRarity(rarity),
	}
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    actionInventoryFish.customID(),
					Placeholder: "Fish",
					Options:     opts,
				},
			},
		},
	}

	updateEphemeral(s, i, "Pick a fish for details.", []*discordgo.MessageEmbed{embed}, components)
}

func (m *module) handleInventoryFishSelect(s *discordgo.Session, i *discordgo.InteractionCreate) {
	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return
	}
	fishId, err := strconv.ParseInt(values[0], 10, 64)
	if err != nil {
		return
	}

	userId := toInt64(interactionUserId(i))

	entry, found, err := m.st.GetInventoryEntry(context.TODO(), userId, fishId)
	if err != nil {
		m.log.Error("failed to load inventory entry", "user_id", userId, "err", err)
		respondEphemeral(s, i, "Couldn't load your inventory, try again later.")
		return
	}
	if !found {
		updateEphemeral(s, i, "That fish is no longer in your bucket.", nil, nil)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: entry.Fish.Name,
		Description: fmt.Sprintf("Rarity: **%s**\nPrice: **%d** coins\nOwned: **× %d**",
			entry.Fish.Rarity, entry.Fish.Price, entry.Count),
		Color: fish.ColorForRarity(entry.Fish.Rarity),
	}

	updateEphemeral(s, i, "From your bucket:", []*discordgo.MessageEmbed{embed}, nil)
}

func (m *module) handleProfile(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userId := toInt64(interactionUserId(i))

	p, err := m.st.GetOrCreateProfile(context.TODO(), userId)
	if err != nil {
		m.log.Error("failed to load profile", "user_id", userId, "err", err)
		respondEphemeral(s, i, "Couldn't load your profile, try again later.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "👤 Angler profile",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Balance", Value: fmt.Sprintf("%d coins", p.Balance), Inline: true},
			{Name: "Fish caught", Value: strconv.FormatInt(p.FishingCount, 10), Inline: true},
			{Name: "Rod", Value: p.RodTier, Inline: true},
		},
		Color: 0x3498DB,
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		m.logREST("profile response failed", err)
	}
}

func (m *module) handleRank(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		respondEphemeral(s, i, "Use this command in a server!")
		return
	}

	if ok, rem := m.rankLim.TryGuild(i.GuildID, "rank"); !ok {
		respondEphemeral(s, i, fmt.Sprintf("⏳ Rankings refreshing... try again in %s.", pretty(rem)))
		return
	}

	tops, err := m.st.TopByFishingCount(context.TODO(), 10)
	if err != nil {
		m.log.Error("failed to load rankings", "err", err)
		respondEphemeral(s, i, "Couldn't load the rankings, try again later.")
		return
	}

	if len(tops) == 0 {
		respondEphemeral(s, i, "No catches yet - type `/fish` to make the first!")
		return
	}

	desc := strings.Builder{}
	for idx, p := range tops {
		desc.WriteString(fmt.Sprintf("**#%d** <@%d> — **%d** fish\n", idx+1, p.UserID, p.FishingCount))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🏆 Top anglers",
		Description: desc.String(),
		Color:       0xF1C40F,
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		m.logREST("rank response failed", err)
	}
}

func (m *module) handleShop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	respondEphemeral(s, i, "💰 The shop hasn't opened yet — come back soon!")
}

func (m *module) handleAddFish(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !m.requireAdmin(s, i) {
		return
	}

	var name, rarityStr string
	var price int64
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "name":
			name = opt.StringValue()
		case "rarity":
			rarityStr = opt.StringValue()
		case "price":
			price = opt.IntValue()
		}
	}

	rarity, ok := fish.ParseRarity(rarityStr)
	if !ok {
		respondEphemeral(s, i, fmt.Sprintf("Unknown rarity '%s'", rarityStr))
		return
	}

	d, err := m.st.AddFish(context.TODO(), name, rarity, price)
	if errors.Is(err, store.ErrDuplicateName) {
		respondEphemeral(s, i, fmt.Sprintf("A fish named **%s** already exists.", name))
		return
	}
	if err != nil {
		m.log.Error("add-fish failed", "name", name, "err", err)
		respondEphemeral(s, i, fmt.Sprintf("Couldn't add the fish: %v", err))
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Added %s to the catalog", d.Name),
		Description: fmt.Sprintf("Rarity: **%s**\nPrice: **%d** coins", d.Rarity, d.Price),
		Color:       fish.ColorForRarity(d.Rarity),
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		m.logREST("add-fish response failed", err)
	}
}

func (m *module) handleRemoveFish(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !m.requireAdmin(s, i) {
		return
	}

	var name string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "name" {
			name = opt.StringValue()
		}
	}

	d, err := m.st.RemoveFish(context.TODO(), name)
	if errors.Is(err, store.ErrNotFound) {
		msg := fmt.Sprintf("No fish named **%s** in the catalog.", name)
		if all, lerr := m.st.AllFish(context.TODO()); lerr == nil {
			if suggestion, ok := closestName(name, all); ok {
				msg += fmt.Sprintf(" Did you mean **%s**?", suggestion)
			}
		}
		respondEphemeral(s, i, msg)
		return
	}
	if err != nil {
		m.log.Error("remove-fish failed", "name", name, "err", err)
		respondEphemeral(s, i, fmt.Sprintf("Couldn't remove the fish: %v", err))
		return
	}

	respondEphemeral(s, i, fmt.Sprintf("Removed **%s** (%s, %d coins) from the catalog.", d.Name, d.Rarity, d.Price))
}

func (m *module) handlePanel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !m.requireAdmin(s, i) {
		return
	}

	_, err := s.ChannelMessageSendComplex(i.ChannelID, &discordgo.MessageSend{
		Content: "What would you like to do?",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{Label: "🎣 Fish", Style: discordgo.PrimaryButton, CustomID: actionFish.customID()},
					discordgo.Button{Label: "💰 Shop", Style: discordgo.PrimaryButton, CustomID: actionShop.customID()},
					discordgo.Button{Label: "🏆 Rank", Style: discordgo.PrimaryButton, CustomID: actionRank.customID()},
					discordgo.Button{Label: "👤 Profile", Style: discordgo.SecondaryButton, CustomID: actionProfile.customID()},
				},
			},
		},
	})
	if err != nil {
		m.logREST("panel post failed", err)
		respondEphemeral(s, i, "Couldn't post the panel here.")
		return
	}

	respondEphemeral(s, i, "Panel posted.")
}

// requireAdmin double-checks the caller's permissions; the admin commands
// are also registered with an administrator default, but that default is
// editable per guild.
func (m *module) requireAdmin(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if i.Member == nil || i.Member.Permissions&discordgo.PermissionAdministrator == 0 {
		respondEphemeral(s, i, "Only administrators can use this command.")
		return false
	}
	return true
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, msg string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// updateEphemeral swaps the content of the ephemeral message a component
// interaction came from, keeping the inventory drill-down in one message.
func updateEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string, embeds []*discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Embeds:     embeds,
			Components: components,
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
}

func interactionUserId(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func pretty(d time.Duration) string {
	// mm:ss
	if d < 0 {
		d = 0
	}
	m := int(d / time.Minute)
	s := int((d % time.Minute) / time.Second)
	return fmt.Sprintf("%d:%02d", m, s)
}

func (m *module) logREST(msg string, err error) {
	if rerr, ok := err.(*discordgo.RESTError); ok && rerr.Message != nil {
		m.log.Error(msg, "code", rerr.Message.Code, "msg", rerr.Message.Message)
	} else {
		m.log.Error(msg, "err", err)
	}
}

// Convert snowflake string to int64 (the DB keys users by int64)
func toInt64(snowflake string) int64 {
	n, _ := strconv.ParseInt(snowflake, 10, 64)
	return n
}
