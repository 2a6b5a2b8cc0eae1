package bot

import (
	"time"

	"github.com/Devious-Toast/DoD-S-Discord-bot/internal/config"
	"github.com/Devious-Toast/DoD-S-Discord-bot/internal/console"
	"github.com/Devious-Toast/DoD-S-Discord-bot/internal/query"
	"github.com/Devious-Toast/DoD-S-Discord-bot/internal/status"
)

// Report is the merged status of a server at a given time.
type Report struct {
	Host    string
	Port    int
	Status  status.Status
	Console status.ConsoleInfo
}

func (r Report) Message(at time.Time) status.Message {
	return status.Present(r.Host, r.Port, r.Status, r.Console, at)
}

type Reporter interface {
	Report(host string, port int) Report
}

// StatusReporter fetches the status of a server, enhances it with console
// information when the console is enabled, and merges both.
type StatusReporter struct {
	Fetcher  *query.Fetcher
	Enhancer *console.Enhancer
	RCON     config.RCONCfg
}

func (r *StatusReporter) Report(host string, port int) Report {
	st := r.Fetcher.Fetch(host, port)

	var info status.ConsoleInfo
	if r.RCON.Enabled && r.Enhancer != nil {
		rconHost, rconPort := r.RCON.Address(host, port)

		info = r.Enhancer.Enhance(console.Params{
			Host:     rconHost,
			Port:     rconPort,
			Password: r.RCON.Password,
		})
	}

	return Report{
		Host:    host,
		Port:    port,
		Status:  status.Merge(st, info),
		Console: info,
	}
}
