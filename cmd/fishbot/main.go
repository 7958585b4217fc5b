package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jejes323/Discord-Fish-Bot/internal/bot"
	"github.com/jejes323/Discord-Fish-Bot/internal/fish"
	"github.com/jejes323/Discord-Fish-Bot/internal/game"
	"github.com/jejes323/Discord-Fish-Bot/internal/logging"
	"github.com/jejes323/Discord-Fish-Bot/internal/ratelimit"
	"github.com/jejes323/Discord-Fish-Bot/internal/session"
	"github.com/jejes323/Discord-Fish-Bot/internal/store"
)

func main() {
	config, err := LoadConfig()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	logger := logging.New(config.LogLevel, config.LogFormat)

	st, err := store.OpenSQLite(config.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	if config.SeedJson != "" {
		defs, err := fish.LoadSeedFromJSON(config.SeedJson)
		if err != nil {
			log.Fatal("failed to load seed catalog: ", err)
		}
		n, err := st.SeedCatalog(context.Background(), defs)
		if err != nil {
			log.Fatal("failed to seed catalog: ", err)
		}
		if n > 0 {
			logger.Info("seeded catalog", "fish", n)
		}
	}

	dg, err := discordgo.New("Bot " + config.DiscordToken)
	if err != nil {
		log.Fatal("failed to start session: ", err)
	}

	dg.ShardCount = config.ShardCount
	dg.ShardID = config.ShardId

	if err := dg.Open(); err != nil {
		log.Fatal("failed to open session connection: ", err)
	}
	defer dg.Close()

	appId := dg.State.User.ID

	engine := game.NewEngine(st, st, st, nil)
	notifier := bot.NewDMNotifier(dg, logger)
	tracker := session.NewTracker(
		time.Duration(config.CooldownFishing)*time.Second,
		engine,
		notifier,
		logger,
		nil,
		nil,
	)
	rankLim := ratelimit.NewLimiter(time.Duration(config.CooldownRank)*time.Second, nil)

	teardown, err := bot.Setup(dg, appId, config.DevGuild, st, tracker, rankLim, logger)
	if err != nil {
		log.Fatal("failed to setup bot: ", err)
	}
	defer teardown()

	logger.Info("Bot is running")
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}
