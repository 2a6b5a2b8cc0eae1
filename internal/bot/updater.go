package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Devious-Toast/DoD-S-Discord-bot/internal/status"
	"go.n16f.net/log"
)

// Publisher receives every message presented by the updater.
type Publisher interface {
	Publish(status.Message)
}

// Updater keeps a single status message up to date in a channel. The
// message is created on the first cycle and edited in place afterwards; its
// id is persisted in the state store so that a restarted bot edits the same
// message.
type Updater struct {
	ChannelId           string
	ConfiguredMessageId string
	Interval            time.Duration

	Host string
	Port int

	Reporter Reporter
	Poster   Poster
	State    *StateStore
	Feed     Publisher

	Log   *log.Logger
	Clock func() time.Time

	messageId string
}

func (u *Updater) now() time.Time {
	if u.Clock != nil {
		return u.Clock()
	}

	return time.Now()
}

// Prepare checks the channel and recovers the id of the status message, from
// the state store, or from the configuration if the store is empty. A stored
// id pointing to a missing message is cleared immediately and the next cycle
// creates a new message.
func (u *Updater) Prepare() error {
	if err := u.Poster.Channel(u.ChannelId); err != nil {
		return fmt.Errorf("cannot fetch channel %q: %w", u.ChannelId, err)
	}

	if id := u.State.MessageId(); id != "" {
		err := u.Poster.Message(u.ChannelId, id)
		if err == nil {
			u.messageId = id
			u.Log.Debug(1, "recovered status message %s from state", id)
			return nil
		}

		u.Log.Info("stored status message %s not found: %v", id, err)

		if err := u.State.ClearMessageId(); err != nil {
			u.Log.Error("cannot clear stored message id: %v", err)
		}

		return nil
	}

	if id := u.ConfiguredMessageId; id != "" {
		if err := u.Poster.Message(u.ChannelId, id); err != nil {
			u.Log.Info("configured status message %s not found: %v", id, err)
			return nil
		}

		u.messageId = id
		if err := u.State.SetMessageId(id); err != nil {
			u.Log.Error("cannot store message id: %v", err)
		}

		u.Log.Debug(1, "adopted configured status message %s", id)
	}

	return nil
}

// UpdateOnce runs a single cycle: report, present, then create or edit the
// status message. Failures are logged and never stop the updater.
func (u *Updater) UpdateOnce() {
	report := u.Reporter.Report(u.Host, u.Port)
	msg := report.Message(u.now())

	if u.Feed != nil {
		u.Feed.Publish(msg)
	}

	if u.messageId == "" {
		id, err := u.Poster.Send(u.ChannelId, msg)
		if err != nil {
			u.Log.Error("cannot send status message: %v", err)
			return
		}

		u.messageId = id
		if err := u.State.SetMessageId(id); err != nil {
			u.Log.Error("cannot store message id: %v", err)
		}

		u.Log.Info("created status message %s in channel %s", id, u.ChannelId)
		return
	}

	if err := u.Poster.Edit(u.ChannelId, u.messageId, msg); err != nil {
		if errors.Is(err, ErrNotFound) {
			u.Log.Info("status message %s disappeared, a new one will be "+
				"created", u.messageId)

			u.messageId = ""
			if err := u.State.ClearMessageId(); err != nil {
				u.Log.Error("cannot clear stored message id: %v", err)
			}

			return
		}

		u.Log.Error("cannot edit status message %s: %v", u.messageId, err)
		return
	}

	u.Log.Debug(1, "updated status message %s", u.messageId)
}

// Run runs one cycle immediately, then one per interval until ctx is
// canceled.
func (u *Updater) Run(ctx context.Context) {
	interval := u.Interval
	if interval <= 0 {
		interval = time.Minute
	}

	u.UpdateOnce()

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-t.C:
			u.UpdateOnce()
		}
	}
}
