package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/brainlift/pkg/pipeline"
)

// Config holds CLI and server settings, loaded from the config file with
// environment variable overrides.
type Config struct {
	// GroqAPIKey authenticates against the Groq API.
	GroqAPIKey string `toml:"groq_api_key"`

	// Model is the classification model.
	Model string `toml:"model"`

	// MaxPerNode caps connections per node during analysis.
	MaxPerNode int `toml:"max_per_node"`

	// MongoURI enables MongoDB persistence for serve and browse.
	// Empty means in-memory storage.
	MongoURI string `toml:"mongo_uri"`

	// RedisAddr enables a shared Redis cache for serve.
	// Empty means the local file cache.
	RedisAddr string `toml:"redis_addr"`

	// Listen is the serve bind address.
	Listen string `toml:"listen"`

	// AllowedOrigins lists CORS origins for serve.
	AllowedOrigins []string `toml:"allowed_origins"`
}

// envOverrides maps environment variables onto string config fields.
var envOverrides = map[string]func(*Config, string){
	"GROQ_API_KEY":     func(c *Config, v string) { c.GroqAPIKey = v },
	"BRAINLIFT_MODEL":  func(c *Config, v string) { c.Model = v },
	"MONGODB_URI":      func(c *Config, v string) { c.MongoURI = v },
	"REDIS_ADDR":       func(c *Config, v string) { c.RedisAddr = v },
	"BRAINLIFT_LISTEN": func(c *Config, v string) { c.Listen = v },
}

// LoadConfig reads the config file and applies environment overrides.
// Resolution order, lowest to highest precedence:
//
//  1. Built-in defaults
//  2. ~/.config/brainlift/config.toml (or path, if non-empty)
//  3. A .env file in the working directory
//  4. Process environment variables
//
// A missing config file or .env file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		Model:      pipeline.DefaultModel,
		MaxPerNode: pipeline.DefaultMaxPerNode,
		Listen:     ":8080",
	}

	if path == "" {
		dir, err := configDir()
		if err == nil {
			path = filepath.Join(dir, "config.toml")
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	// .env is loaded into the process environment, then the environment
	// wins over the file for every known key.
	_ = godotenv.Load()
	for key, apply := range envOverrides {
		if v := os.Getenv(key); v != "" {
			apply(&cfg, v)
		}
	}
	if v := os.Getenv("BRAINLIFT_MAX_PER_NODE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxPerNode = n
		}
	}

	return cfg, nil
}
