package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DiscordToken    string
	DevGuild        string
	DBPath          string
	SeedJson        string
	ShardCount      int
	ShardId         int
	CooldownFishing int
	CooldownRank    int
	LogLevel        string
	LogFormat       string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("No DISCORD_TOKEN in environment")
	}

	devGuild := os.Getenv("DEV_GUILD_ID")
	if devGuild == "" {
		return nil, fmt.Errorf("No DEV_GUILD_ID in environment")
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		return nil, fmt.Errorf("No DB_PATH in environment")
	}

	shardCount, err := loadInt("SHARD_COUNT", 1)
	if err != nil {
		return nil, err
	}
	shardId, err := loadInt("SHARD_ID", 0)
	if err != nil {
		return nil, err
	}
	cooldownFishing, err := loadInt("COOLDOWN_FISHING", 60)
	if err != nil {
		return nil, err
	}
	cooldownRank, err := loadInt("COOLDOWN_RANK", 30)
	if err != nil {
		return nil, err
	}

	return &Config{
		DiscordToken:    token,
		DevGuild:        devGuild,
		DBPath:          dbPath,
		SeedJson:        os.Getenv("SEED_JSON"),
		ShardCount:      shardCount,
		ShardId:         shardId,
		CooldownFishing: cooldownFishing,
		CooldownRank:    cooldownRank,
		LogLevel:        loadString("LOG_LEVEL", "info"),
		LogFormat:       loadString("LOG_FORMAT", "text"),
	}, nil
}

func loadInt(key string, defValue int) (int, error) {
	value := os.Getenv(key)
	if value != "" {
		return strconv.Atoi(value)
	}

	return defValue, nil
}

func loadString(key, defValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defValue
}
