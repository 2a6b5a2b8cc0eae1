// Package console reads the next map and the time left of a server from its
// remote console.
//
// Servers do not expose these values in a single standard way: depending on
// the administration plugins installed, they answer to different commands
// with differently formatted text. The Enhancer sends a fixed list of
// candidate commands and runs an ordered list of rules on every answer until
// both values are known.
package console

import (
	"net"
	"strconv"
	"strings"

	"github.com/Devious-Toast/DoD-S-Discord-bot/internal/status"
	"go.n16f.net/log"
)

// Conn is an open remote console session.
type Conn interface {
	Execute(command string) (string, error)
	Close() error
}

type Dialer interface {
	Dial(address, password string) (Conn, error)
}

var DefaultCommands = []string{
	"nextmap",
	"timeleft",
	"sm_cvar nextmap",
	"sm_cvar timeleft",
	"sm_cvar mp_nextmap",
	"sm_cvar mp_timelimit",
	"mp_nextmap",
	"mp_timelimit",
	"status",
}

type Params struct {
	Host     string
	Port     int
	Password string
}

func (p Params) Complete() bool {
	return p.Host != "" && p.Port > 0 && p.Password != ""
}

func (p Params) Address() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

type Enhancer struct {
	Dialer   Dialer
	Commands []string
	Rules    []Rule
	Log      *log.Logger
}

func NewEnhancer(d Dialer, logger *log.Logger) *Enhancer {
	return &Enhancer{
		Dialer:   d,
		Commands: DefaultCommands,
		Rules:    DefaultRules,
		Log:      logger,
	}
}

// Enhance collects console information on a best-effort basis. It returns
// an empty ConsoleInfo if the console is not available.
func (e *Enhancer) Enhance(p Params) status.ConsoleInfo {
	var info status.ConsoleInfo

	if e.Dialer == nil || !p.Complete() {
		return info
	}

	address := p.Address()

	conn, err := e.Dialer.Dial(address, p.Password)
	if err != nil {
		e.Log.Debug(1, "cannot connect to console %s: %v", address, err)
		return info
	}
	defer func() {
		if err := conn.Close(); err != nil {
			e.Log.Debug(2, "cannot close console session %s: %v", address, err)
		}
	}()

	for _, command := range e.Commands {
		res, err := conn.Execute(command)
		if err != nil {
			e.Log.Debug(2, "console command %q failed: %v", command, err)
			continue
		}

		res = strings.TrimSpace(res)
		if res == "" {
			continue
		}

		for _, m := range Apply(e.Rules, res, &info) {
			e.Log.Debug(2, "console command %q: rule %s found %s %q",
				command, m.Rule, m.Field, m.Value)
		}

		if info.Complete() {
			break
		}
	}

	return info
}
