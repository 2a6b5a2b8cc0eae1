package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	filePath := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		t.Fatalf("cannot write %q: %v", filePath, err)
	}

	return filePath
}

func TestLoad(t *testing.T) {
	require := require.New(t)

	filePath := writeFile(t, "config.json", `{
  "defaultServer": {"host": "203.0.113.7", "port": 27016},
  "rcon": {"enabled": true, "password": "secret"},
  "updateMessage": {
    "enabled": true,
    "channelId": "1200000000000000000",
    "intervalSeconds": 30,
    "messageId": "1200000000000000001"
  }
}`)

	cfg, err := Load(filePath)
	require.NoError(err)

	host, port := cfg.DefaultServer.Address()
	require.Equal("203.0.113.7", host)
	require.Equal(27016, port)

	require.True(cfg.RCON.Enabled)
	host, port = cfg.RCON.Address(host, port)
	require.Equal("203.0.113.7", host)
	require.Equal(27016, port)

	require.True(cfg.UpdateMessage.Enabled)
	require.Equal("1200000000000000000", cfg.UpdateMessage.ChannelId)
	require.Equal("1200000000000000001", cfg.UpdateMessage.MessageId)
	require.Equal(30*time.Second, cfg.UpdateMessage.Interval())

	require.Nil(cfg.StatusFeed)
	require.Nil(cfg.Logger)
}

func TestLoadDefaults(t *testing.T) {
	require := require.New(t)

	cfg, err := Load(writeFile(t, "config.json", `{}`))
	require.NoError(err)

	host, port := cfg.DefaultServer.Address()
	require.Equal(DefaultHost, host)
	require.Equal(DefaultPort, port)

	require.Equal(60*time.Second, cfg.UpdateMessage.Interval())
	require.Equal(3*time.Second, cfg.Query.Timeout())

	cfg.RCON.Host = "10.0.0.2"
	cfg.RCON.Port = 27020
	host, port = cfg.RCON.Address(host, port)
	require.Equal("10.0.0.2", host)
	require.Equal(27020, port)

	logger, err := cfg.NewLogger("test")
	require.NoError(err)
	require.NotNil(logger)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "config.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalid(t *testing.T) {
	require := require.New(t)

	_, err := Load(writeFile(t, "config.json", `{"defaultServer": `))
	require.Error(err)

	_, err = Load(writeFile(t, "config.json",
		`{"defaultServer": {"host": "10.0.0.1", "port": 70000}}`))
	require.Error(err)

	_, err = Load(writeFile(t, "config.json",
		`{"updateMessage": {"enabled": true, "intervalSeconds": -5}}`))
	require.Error(err)
}

func TestLoadEnv(t *testing.T) {
	require := require.New(t)

	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("CLIENT_ID", "")
	t.Setenv("GUILD_ID", "")

	_, err := LoadEnv(filepath.Join(t.TempDir(), ".env"))
	require.ErrorIs(err, ErrMissingToken)

	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("GUILD_ID", "42")

	env, err := LoadEnv("")
	require.NoError(err)
	require.Equal(Env{Token: "token", GuildID: "42"}, env)
}

func TestLoadEnvFile(t *testing.T) {
	require := require.New(t)

	// Variables present in the environment, even empty, are not overridden
	// by the file.
	t.Setenv("DISCORD_TOKEN", "")
	os.Unsetenv("DISCORD_TOKEN")
	t.Setenv("CLIENT_ID", "from-environment")
	t.Setenv("GUILD_ID", "")

	filePath := writeFile(t, ".env",
		"DISCORD_TOKEN=from-file\nCLIENT_ID=from-file\n")

	env, err := LoadEnv(filePath)
	require.NoError(err)
	require.Equal("from-file", env.Token)
	require.Equal("from-environment", env.ClientID)
}
