// Package bot is the Discord side of the status bot. The bot:
//   - registers and answers the /server command with the status of a game
//     server;
//   - keeps a status message up to date in a configured channel, creating it
//     once and editing it in place afterwards;
//   - remembers the id of that message in a small JSON state file so that a
//     restarted bot keeps editing the same message.
//
// Life cycle:
//   - Create the bot with New().
//   - Set the reporter with SetReporter(...) and the state store with
//     SetStateStore(...), and (optionally) a status feed with SetFeed(...).
//   - Call Start() and, on shutdown, Stop().
//
// Example:
//
//	b := bot.New(cfg, env, logger)
//	b.SetReporter(&bot.StatusReporter{Fetcher: fetcher, Enhancer: enhancer, RCON: cfg.RCON})
//	b.SetStateStore(store)
//
//	if err := b.Start(); err != nil { p.Fatal("%v", err) }
//	defer b.Stop()
//
// Everything talking to Discord in the updater goes through the Poster
// interface; tests replace it with an in-memory implementation.
package bot
