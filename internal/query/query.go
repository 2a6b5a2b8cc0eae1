// Package query fetches the status of a game server through a Querier.
//
// The Querier interface is the only thing the rest of the bot knows about the
// query protocol; the A2S implementation lives in a2s.go.
package query

import (
	"fmt"

	"github.com/Devious-Toast/DoD-S-Discord-bot/internal/status"
	"go.n16f.net/log"
)

type Kind string

const (
	KindInfo  Kind = "info"
	KindRules Kind = "rules"
)

type Options struct {
	Host string
	Port int
	Kind Kind
}

// Record is the answer to a query. Info queries fill everything but Rules,
// rules queries only fill Rules.
type Record struct {
	Name       string
	Map        string
	Players    []status.Player
	MaxPlayers int
	Raw        map[string]string
	Rules      map[string]string
}

type Querier interface {
	Query(Options) (*Record, error)
}

type Fetcher struct {
	Querier Querier
	Log     *log.Logger
}

func NewFetcher(q Querier, logger *log.Logger) *Fetcher {
	return &Fetcher{
		Querier: q,
		Log:     logger,
	}
}

// Fetch queries general information then, on a best-effort basis, the rules
// of the server. It never fails: a failed info query yields an offline
// status carrying the error.
func (f *Fetcher) Fetch(host string, port int) status.Status {
	opts := Options{Host: host, Port: port, Kind: KindInfo}

	res, err := f.Querier.Query(opts)
	if err != nil {
		f.Log.Debug(1, "cannot query %s:%d: %v", host, port, err)
		return status.Offline(err)
	}
	if res == nil {
		return status.Offline(fmt.Errorf("empty response from %s:%d", host, port))
	}

	opts.Kind = KindRules

	rules := map[string]string{}
	if rulesRes, err := f.Querier.Query(opts); err != nil {
		f.Log.Debug(2, "ignoring rules query failure for %s:%d: %v",
			host, port, err)
	} else if rulesRes != nil && rulesRes.Rules != nil {
		rules = rulesRes.Rules
	}

	st := status.Status{
		Online:     true,
		Name:       res.Name,
		Map:        res.Map,
		Players:    res.Players,
		MaxPlayers: res.MaxPlayers,
		Raw:        res.Raw,
		Rules:      rules,
	}

	if st.Name == "" {
		st.Name = status.Unknown
	}
	if st.Map == "" {
		st.Map = status.Unknown
	}
	if st.Players == nil {
		st.Players = []status.Player{}
	}
	if st.Raw == nil {
		st.Raw = map[string]string{}
	}

	return st
}
