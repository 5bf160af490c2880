package config

import (
	"os"
	"strings"
)

type Config struct {
	Port          string
	Env           string
	MongoURI      string
	MongoDatabase string
	DiscogsToken  string
	NewsFeeds     []string
}

var defaultNewsFeeds = []string{
	"https://pitchfork.com/feed/feed-news/rss",
	"https://www.rollingstone.com/music/feed/",
}

func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "spinshelf"),
		DiscogsToken:  getEnv("DISCOGS_TOKEN", ""),
		NewsFeeds:     getFeeds("NEWS_FEEDS"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getFeeds(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultNewsFeeds
	}
	var feeds []string
	for _, url := range strings.Split(raw, ",") {
		if url = strings.TrimSpace(url); url != "" {
			feeds = append(feeds, url)
		}
	}
	if len(feeds) == 0 {
		return defaultNewsFeeds
	}
	return feeds
}
