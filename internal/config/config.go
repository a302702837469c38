// Package config loads agent settings from an optional YAML file with
// environment overrides.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "YT_CONFIG"
	baseURLEnv    = "YOUTRACK_URL"
	tokenEnv      = "YOUTRACK_API_TOKEN"

	defaultTimeoutSeconds   = 30
	defaultConversationPath = "conversation.json"
)

// Config holds the settings required across the agent.
type Config struct {
	YouTrack         YouTrackConfig `yaml:"youtrack"`
	ConversationPath string         `yaml:"conversationPath"`
}

// YouTrackConfig wires the connection to the tracker instance.
type YouTrackConfig struct {
	BaseURL        string `yaml:"baseUrl"`
	Token          string `yaml:"token"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// Timeout resolves the configured request timeout.
func (y YouTrackConfig) Timeout() time.Duration {
	if y.TimeoutSeconds <= 0 {
		return defaultTimeoutSeconds * time.Second
	}
	return time.Duration(y.TimeoutSeconds) * time.Second
}

// Load reads YAML configuration when YT_CONFIG points at a file, then
// applies environment overrides. A broken file falls back to defaults with a
// log line rather than failing startup.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			cfg = defaultConfig()
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
		}
	}

	if v := os.Getenv(baseURLEnv); v != "" {
		cfg.YouTrack.BaseURL = v
	}
	if v := os.Getenv(tokenEnv); v != "" {
		cfg.YouTrack.Token = v
	}
	if cfg.ConversationPath == "" {
		cfg.ConversationPath = defaultConversationPath
	}
	return cfg
}

// Validate checks the two settings nothing works without.
func (c Config) Validate() error {
	if c.YouTrack.BaseURL == "" {
		return fmt.Errorf("config: YouTrack base URL is required (set %s or youtrack.baseUrl)", baseURLEnv)
	}
	if c.YouTrack.Token == "" {
		return fmt.Errorf("config: YouTrack API token is required (set %s or youtrack.token)", tokenEnv)
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		YouTrack:         YouTrackConfig{TimeoutSeconds: defaultTimeoutSeconds},
		ConversationPath: defaultConversationPath,
	}
}
