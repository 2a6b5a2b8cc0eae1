package main

import (
	"github.com/Devious-Toast/DoD-S-Discord-bot/internal/bot"
	"github.com/bwmarrin/discordgo"
	"go.n16f.net/program"
)

func cmdRegister(p *program.Program) {
	env := loadEnv(p)

	s, err := discordgo.New("Bot " + env.Token)
	if err != nil {
		p.Fatal("cannot create session: %v", err)
	}

	appId := env.ClientID
	if appId == "" {
		app, err := s.Application("@me")
		if err != nil {
			p.Fatal("cannot fetch application: %v", err)
		}

		appId = app.ID
	}

	if err := bot.RegisterCommands(s, appId, env.GuildID); err != nil {
		p.Fatal("%v", err)
	}

	if env.GuildID != "" {
		p.Info("registered commands for application %s in guild %s",
			appId, env.GuildID)
	} else {
		p.Info("registered global commands for application %s", appId)
	}
}
