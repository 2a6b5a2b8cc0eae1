package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Devious-Toast/DoD-S-Discord-bot/internal/bot"
	"github.com/Devious-Toast/DoD-S-Discord-bot/internal/console"
	"github.com/Devious-Toast/DoD-S-Discord-bot/internal/feed"
	"github.com/Devious-Toast/DoD-S-Discord-bot/internal/query"
	"go.n16f.net/log"
	"go.n16f.net/program"
)

func cmdRun(p *program.Program) {
	cfg := loadConfig(p)
	env := loadEnv(p)

	logger, err := cfg.NewLogger("dodbot")
	if err != nil {
		p.Fatal("%v", err)
	}

	// State
	store := bot.NewStateStore(p.OptionValue("state"))
	if err := store.Load(); err != nil {
		logger.Error("cannot load state, starting empty: %v", err)
	}

	// Status sources
	querier := query.NewA2S(cfg.Query.Timeout(), logger.Child("a2s", nil))

	reporter := bot.StatusReporter{
		Fetcher: query.NewFetcher(querier, logger.Child("query", nil)),
		RCON:    cfg.RCON,
	}

	if cfg.RCON.Enabled {
		reporter.Enhancer = console.NewEnhancer(console.NewRCONDialer(),
			logger.Child("console", nil))
	}

	// Bot
	b := bot.New(cfg, env, logger.Child("bot", nil))
	b.SetReporter(&reporter)
	b.SetStateStore(store)

	var hub *feed.Hub
	if feedCfg := cfg.StatusFeed; feedCfg != nil && feedCfg.Enabled {
		hub = feed.NewHub(logger.Child("feed", log.Data{
			"address": feedCfg.Address,
		}))

		if err := hub.Start(feedCfg.Address); err != nil {
			p.Fatal("cannot start status feed: %v", err)
		}

		b.SetFeed(hub)
	}

	if err := b.Start(); err != nil {
		if hub != nil {
			hub.Stop()
		}

		p.Fatal("cannot start bot: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	signo := <-sigChan
	fmt.Fprintln(os.Stderr)
	logger.Info("received signal %d (%v)", signo, signo)

	b.Stop()

	if hub != nil {
		hub.Stop()
	}
}
