package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

var ErrMissingToken = errors.New("DISCORD_TOKEN is not set")

type Env struct {
	Token    string
	ClientID string // resolved from the logged-in application when empty
	GuildID  string // commands are registered globally when empty
}

// LoadEnv reads the environment, after loading the optional dotenv file at
// dotenvPath. Variables already set in the environment take precedence over
// the file.
func LoadEnv(dotenvPath string) (Env, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Env{}, fmt.Errorf("cannot load %q: %w", dotenvPath, err)
		}
	}

	env := Env{
		Token:    os.Getenv("DISCORD_TOKEN"),
		ClientID: os.Getenv("CLIENT_ID"),
		GuildID:  os.Getenv("GUILD_ID"),
	}

	if env.Token == "" {
		return env, ErrMissingToken
	}

	return env, nil
}
