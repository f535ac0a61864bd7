package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	conf := Default()

	assert.Equal(t, "Anon", conf.Nickname)
	assert.Equal(t, "nats", conf.Transport.Kind)
	assert.Equal(t, "lobby", conf.Lobby.Channel)
	assert.Equal(t, time.Second, conf.Lobby.AnnounceInterval)
	assert.Equal(t, 3*time.Second, conf.Lobby.StaleThreshold)
	assert.Equal(t, GameConf{Name: "Ship Wreckyard", MaxPlayers: 3, BoardWidth: 10, BoardHeight: 10}, conf.Game)
	assert.NoError(t, conf.Validate())
}

func TestLoad_FileAndEnv(t *testing.T) {
	file := filepath.Join(t.TempDir(), "application.yml")
	require.NoError(t, os.WriteFile(file, []byte(`
nickname: Ahab
transport:
  kind: redis
  redis:
    addr: redis:6379
lobby:
  announceInterval: 250ms
game:
  boardWidth: 12
`), 0o644))
	t.Setenv("BSHIP_GAME_MAXPLAYERS", "5")

	conf, v, err := Load(file)
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.Equal(t, "Ahab", conf.Nickname)
	assert.Equal(t, "redis", conf.Transport.Kind)
	assert.Equal(t, "redis:6379", conf.Transport.Redis.Addr)
	assert.Equal(t, 250*time.Millisecond, conf.Lobby.AnnounceInterval)
	assert.Equal(t, 12, conf.Game.BoardWidth)
	assert.Equal(t, 10, conf.Game.BoardHeight)
	assert.Equal(t, 5, conf.Game.MaxPlayers)
}

func TestLoad_Errors(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "application.yml")
	require.NoError(t, os.WriteFile(file, []byte("transport:\n  kind: pigeon\n"), 0o644))
	_, _, err = Load(file)
	assert.ErrorContains(t, err, "pigeon")
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"tick rate":   func(c *Config) { c.Lobby.TickRate = 0 },
		"drain limit": func(c *Config) { c.Lobby.DrainLimit = -1 },
		"interval":    func(c *Config) { c.Lobby.AnnounceInterval = 0 },
		"players":     func(c *Config) { c.Game.MaxPlayers = 1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			conf := Default()
			mutate(conf)
			assert.Error(t, conf.Validate())
		})
	}
}
