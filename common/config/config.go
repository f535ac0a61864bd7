package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const envPrefix = "BSHIP"

type Config struct {
	AppName    string        `mapstructure:"appName"`
	Nickname   string        `mapstructure:"nickname"`
	MetricPort int           `mapstructure:"metricPort"`
	Log        LogConf       `mapstructure:"log"`
	Transport  TransportConf `mapstructure:"transport"`
	Lobby      LobbyConf     `mapstructure:"lobby"`
	Game       GameConf      `mapstructure:"game"`
	Presence   PresenceConf  `mapstructure:"presence"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
}

// TransportConf selects the pub/sub backend shared by all peers.
type TransportConf struct {
	Kind  string    `mapstructure:"kind"` // nats | redis | local
	Nats  NatsConf  `mapstructure:"nats"`
	Redis RedisConf `mapstructure:"redis"`
}

type NatsConf struct {
	URL string `mapstructure:"url"`
}

type RedisConf struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"poolSize"`
}

type LobbyConf struct {
	Channel          string        `mapstructure:"channel"`
	AnnounceInterval time.Duration `mapstructure:"announceInterval"`
	StaleThreshold   time.Duration `mapstructure:"staleThreshold"`
	TickRate         int           `mapstructure:"tickRate"`   // loop iterations per second
	DrainLimit       int           `mapstructure:"drainLimit"` // envelopes handled per iteration at most
	BufferSize       int           `mapstructure:"bufferSize"`
}

// GameConf holds the defaults offered by the create form.
type GameConf struct {
	Name        string `mapstructure:"name"`
	MaxPlayers  int    `mapstructure:"maxPlayers"`
	BoardWidth  int    `mapstructure:"boardWidth"`
	BoardHeight int    `mapstructure:"boardHeight"`
}

type PresenceConf struct {
	TTL     time.Duration `mapstructure:"ttl"`
	MaxCost int64         `mapstructure:"maxCost"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("appName", "bship")
	v.SetDefault("nickname", "Anon")
	v.SetDefault("metricPort", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("transport.kind", "nats")
	v.SetDefault("transport.nats.url", "nats://localhost:4222")
	v.SetDefault("transport.redis.addr", "localhost:6379")
	v.SetDefault("transport.redis.poolSize", 4)
	v.SetDefault("lobby.channel", "lobby")
	v.SetDefault("lobby.announceInterval", time.Second)
	v.SetDefault("lobby.staleThreshold", 3*time.Second)
	v.SetDefault("lobby.tickRate", 30)
	v.SetDefault("lobby.drainLimit", 32)
	v.SetDefault("lobby.bufferSize", 1024)
	v.SetDefault("game.name", "Ship Wreckyard")
	v.SetDefault("game.maxPlayers", 3)
	v.SetDefault("game.boardWidth", 10)
	v.SetDefault("game.boardHeight", 10)
	v.SetDefault("presence.ttl", 3*time.Second)
	v.SetDefault("presence.maxCost", 1<<16)
}

// Default returns the built-in configuration without reading any file.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	conf := new(Config)
	if err := v.Unmarshal(conf); err != nil {
		panic(fmt.Errorf("default config: %v", err))
	}
	return conf
}

// Load reads configFile, applies BSHIP_* environment overrides and returns the result.
// An empty configFile yields the defaults plus environment.
func Load(configFile string) (*Config, *viper.Viper, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	conf := new(Config)
	if err := v.Unmarshal(conf); err != nil {
		return nil, nil, fmt.Errorf("parse config: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return nil, nil, err
	}
	return conf, v, nil
}

// Watch re-reads the file on change and hands the new config to onChange.
// Only settings that are safe to swap at runtime (log level) should be applied by the callback.
func Watch(v *viper.Viper, onChange func(*Config)) {
	if v == nil || v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(in fsnotify.Event) {
		conf := new(Config)
		if err := v.Unmarshal(conf); err != nil {
			return
		}
		onChange(conf)
	})
	v.WatchConfig()
}

func (c *Config) Validate() error {
	switch c.Transport.Kind {
	case "nats", "redis", "local":
	default:
		return fmt.Errorf("unknown transport kind: %s", c.Transport.Kind)
	}
	if c.Lobby.TickRate <= 0 {
		return fmt.Errorf("lobby.tickRate must be positive, got %d", c.Lobby.TickRate)
	}
	if c.Lobby.DrainLimit <= 0 {
		return fmt.Errorf("lobby.drainLimit must be positive, got %d", c.Lobby.DrainLimit)
	}
	if c.Lobby.AnnounceInterval <= 0 || c.Lobby.StaleThreshold <= 0 {
		return fmt.Errorf("lobby intervals must be positive")
	}
	if c.Game.MaxPlayers < 2 {
		return fmt.Errorf("game.maxPlayers must be at least 2, got %d", c.Game.MaxPlayers)
	}
	return nil
}
