// Package status holds the normalized view of a game server: the record
// produced by a query, the values scraped from the remote console, the rules
// used to merge them and the presentation of the result as a chat message.
//
// Everything in this package is pure: no network, no clock, no logging. The
// callers (query, console, bot) produce the inputs and decide what to do
// with the output.
package status

import "time"

// Unknown is displayed for every value neither source could provide.
const Unknown = "Unknown"

type Player struct {
	Name     string
	Score    int
	Duration time.Duration
}

// Status is the result of one fetch. It is a value: Merge returns a new one
// instead of modifying its argument.
type Status struct {
	Online bool
	Error  string

	Name string
	Map  string

	// Players is nil when the player list could not be obtained at all, which
	// is different from an empty server.
	Players    []Player
	MaxPlayers int // 0 when unknown

	Raw   map[string]string
	Rules map[string]string
}

// Offline returns the status of a server whose primary query failed.
func Offline(err error) Status {
	st := Status{Online: false}
	if err != nil {
		st.Error = err.Error()
	}

	return st
}

// ConsoleInfo contains the values extracted from remote console output.
// Empty strings mean the value was not found.
type ConsoleInfo struct {
	NextMap  string
	TimeLeft string
}

func (info ConsoleInfo) Empty() bool {
	return info.NextMap == "" && info.TimeLeft == ""
}

func (info ConsoleInfo) Complete() bool {
	return info.NextMap != "" && info.TimeLeft != ""
}
