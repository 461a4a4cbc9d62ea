package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"fairdeal-server/internal/util"
)

// Config provides configuration for the fair-deal card room
type Config struct {
	loaded         bool
	PGDSN          string   `yaml:"pgDsn" envconfig:"pg_dsn"`
	// Admins are identities granted the admin role at startup
	Admins         []string `yaml:"admins" envconfig:"admins"`
	MigrationsPath string   `yaml:"migrationsPath" envconfig:"migrations_path"`
	JWT            struct {
		PublicKey  string `yaml:"publicKey" envconfig:"public_key"`
		PrivateKey string `yaml:"privateKey" envconfig:"private_key"`
	}
	Log struct {
		Level             string `yaml:"level" envconfig:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
	Game struct {
		StartingStack int `yaml:"startingStack" envconfig:"starting_stack"`
		SmallBlind    int `yaml:"smallBlind" envconfig:"small_blind"`
		BigBlind      int `yaml:"bigBlind" envconfig:"big_blind"`
		MaxPlayers    int `yaml:"maxPlayers" envconfig:"max_players"`
	}
	Oracle struct {
		// FulfillmentDelayMS is how long the local randomness oracle waits
		// before delivering a fulfillment
		FulfillmentDelayMS int `yaml:"fulfillmentDelayMs" envconfig:"fulfillment_delay_ms"`
	}
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
func Load() error {
	config = Config{}
	setDefaults(&config)

	configFile := util.Getenv("FAIRDEAL_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("fairdeal", &config); err != nil {
		return err
	}

	config.loaded = true
	return nil
}

// DefaultConfig returns a config with every default applied
func DefaultConfig() Config {
	var c Config
	setDefaults(&c)
	return c
}

func setDefaults(c *Config) {
	c.PGDSN = "postgres://postgres@localhost:5432/postgres?sslmode=disable"
	c.MigrationsPath = "./sql"
	c.Game.StartingStack = 1000
	c.Game.SmallBlind = 1
	c.Game.BigBlind = 2
	c.Game.MaxPlayers = 6
	c.Oracle.FulfillmentDelayMS = 250
}
