package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Devious-Toast/DoD-S-Discord-bot/internal/config"
	"github.com/bwmarrin/discordgo"
	"go.n16f.net/log"
)

type Bot struct {
	cfg *config.Config
	env config.Env
	log *log.Logger

	reporter Reporter
	state    *StateStore
	feed     Publisher

	session *discordgo.Session

	mu sync.Mutex
	wg sync.WaitGroup

	// updater
	upMu      sync.Mutex
	upRunning bool
	upCancel  context.CancelFunc
	upRun     int
}

func New(cfg *config.Config, env config.Env, logger *log.Logger) *Bot {
	return &Bot{
		cfg: cfg,
		env: env,
		log: logger,
	}
}

func (bot *Bot) SetReporter(r Reporter) {
	bot.reporter = r
}

func (bot *Bot) SetStateStore(s *StateStore) {
	bot.state = s
}

func (bot *Bot) SetFeed(feed Publisher) {
	bot.feed = feed
}

func (bot *Bot) Start() error {
	if bot.reporter == nil {
		return errors.New("missing reporter")
	}
	if bot.state == nil {
		return errors.New("missing state store")
	}

	bot.mu.Lock()
	defer bot.mu.Unlock()

	if bot.session != nil {
		return errors.New("bot already started")
	}

	s, err := discordgo.New("Bot " + bot.env.Token)
	if err != nil {
		return fmt.Errorf("cannot create session: %w", err)
	}

	s.Identify.Intents = discordgo.IntentsGuilds

	s.AddHandler(bot.onReady)
	s.AddHandler(bot.onInteraction)

	if err := s.Open(); err != nil {
		return fmt.Errorf("cannot open session: %w", err)
	}

	bot.session = s
	return nil
}

func (bot *Bot) Stop() {
	bot.stopUpdater()
	bot.wg.Wait()

	bot.mu.Lock()
	s := bot.session
	bot.session = nil
	bot.mu.Unlock()

	if s != nil {
		if err := s.Close(); err != nil {
			bot.log.Error("cannot close session: %v", err)
		}
	}
}

func (bot *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	bot.log.Info("logged in as %s", r.User.String())

	appId := bot.env.ClientID
	if appId == "" && r.Application != nil {
		appId = r.Application.ID
	}

	if err := RegisterCommands(s, appId, bot.env.GuildID); err != nil {
		bot.log.Error("%v", err)
	} else if bot.env.GuildID != "" {
		bot.log.Info("registered commands in guild %s", bot.env.GuildID)
	} else {
		bot.log.Info("registered global commands")
	}

	bot.startUpdater(&sessionPoster{session: s})
}

// startUpdater starts the status message updater if it is enabled and not
// already running. Ready events are sent again after a reconnection, so an
// updater which failed to start is retried on the next one.
func (bot *Bot) startUpdater(poster Poster) {
	cfg := bot.cfg.UpdateMessage
	if !cfg.Enabled {
		return
	}
	if cfg.ChannelId == "" {
		bot.log.Error("status message updates enabled but no channel id set")
		return
	}

	bot.upMu.Lock()
	defer bot.upMu.Unlock()

	if bot.upRunning {
		return
	}

	host, port := bot.cfg.DefaultServer.Address()

	u := Updater{
		ChannelId:           cfg.ChannelId,
		ConfiguredMessageId: cfg.MessageId,
		Interval:            cfg.Interval(),

		Host: host,
		Port: port,

		Reporter: bot.reporter,
		Poster:   poster,
		State:    bot.state,
		Feed:     bot.feed,

		Log: bot.log.Child("updater", log.Data{"channel": cfg.ChannelId}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	bot.upCancel = cancel
	bot.upRunning = true
	bot.upRun++
	run := bot.upRun

	bot.wg.Add(1)
	go func() {
		defer bot.wg.Done()

		if err := u.Prepare(); err != nil {
			u.Log.Error("cannot start updater: %v", err)
			bot.updaterFailed(run)
			cancel()
			return
		}

		u.Log.Info("updating status of %s:%d every %s", host, port, u.Interval)
		u.Run(ctx)
	}()
}

// updaterFailed marks the updater of a given run as stopped, unless it was
// stopped and restarted in the meantime.
func (bot *Bot) updaterFailed(run int) {
	bot.upMu.Lock()
	defer bot.upMu.Unlock()

	if !bot.upRunning || bot.upRun != run {
		return
	}

	bot.upRunning = false
	bot.upCancel = nil
}

func (bot *Bot) updaterRunning() bool {
	bot.upMu.Lock()
	defer bot.upMu.Unlock()

	return bot.upRunning
}

func (bot *Bot) stopUpdater() {
	bot.upMu.Lock()
	defer bot.upMu.Unlock()

	if !bot.upRunning {
		return
	}

	bot.upRunning = false
	if bot.upCancel != nil {
		bot.upCancel()
		bot.upCancel = nil
	}
}
