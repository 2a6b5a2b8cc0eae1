package main

import (
	"errors"

	"github.com/Devious-Toast/DoD-S-Discord-bot/internal/config"
	"go.n16f.net/program"
)

func main() {
	p := program.NewProgram("dodbot",
		"Discord bot reporting the status of a Day of Defeat: Source server")

	p.AddOption("c", "cfg", "path", "config.json",
		"the path of the configuration file")
	p.AddOption("s", "state", "path", "state.json",
		"the path of the state file")
	p.AddOption("e", "env", "path", ".env",
		"the path of an optional file of environment variables")

	p.AddCommand("run", "connect to Discord and serve commands", cmdRun)
	p.AddCommand("register", "register slash commands and exit", cmdRegister)

	p.ParseCommandLine()
	p.Run()
}

// loadEnv reads environment variables and stops the program if the token
// is missing, before anything touches the network.
func loadEnv(p *program.Program) config.Env {
	env, err := config.LoadEnv(p.OptionValue("env"))
	if err != nil {
		if errors.Is(err, config.ErrMissingToken) {
			p.Fatal("missing token: set DISCORD_TOKEN in the environment " +
				"or in the environment file")
		}

		p.Fatal("cannot load environment: %v", err)
	}

	return env
}

func loadConfig(p *program.Program) *config.Config {
	cfgPath := p.OptionValue("cfg")

	p.Info("loading configuration file %q", cfgPath)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		p.Fatal("cannot load configuration: %v", err)
	}

	return cfg
}
