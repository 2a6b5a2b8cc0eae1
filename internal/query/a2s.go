package query

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/Devious-Toast/DoD-S-Discord-bot/internal/status"
	"github.com/rumblefrog/go-a2s"
	"go.n16f.net/log"
)

const DefaultTimeout = 3 * time.Second

// A2S implements Querier with the Source A2S protocol. Each query uses its
// own UDP socket.
type A2S struct {
	Timeout time.Duration
	Log     *log.Logger
}

func NewA2S(timeout time.Duration, logger *log.Logger) *A2S {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &A2S{
		Timeout: timeout,
		Log:     logger,
	}
}

func (q *A2S) Query(opts Options) (*Record, error) {
	address := net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))

	client, err := a2s.NewClient(address, a2s.TimeoutOption(q.Timeout))
	if err != nil {
		return nil, fmt.Errorf("cannot create A2S client for %s: %w",
			address, err)
	}
	defer client.Close()

	switch opts.Kind {
	case KindRules:
		rules, err := client.QueryRules()
		if err != nil {
			return nil, fmt.Errorf("cannot query rules of %s: %w", address, err)
		}

		return recordFromRules(rules), nil

	default:
		info, err := client.QueryInfo()
		if err != nil {
			return nil, fmt.Errorf("cannot query %s: %w", address, err)
		}

		players, err := client.QueryPlayer()
		if err != nil {
			q.Log.Debug(2, "cannot query players of %s, using info count: %v",
				address, err)
			players = nil
		}

		return recordFromInfo(info, players), nil
	}
}

func recordFromInfo(info *a2s.ServerInfo, players *a2s.PlayerInfo) *Record {
	rec := Record{
		Name:       info.Name,
		Map:        info.Map,
		MaxPlayers: int(info.MaxPlayers),
		Raw: map[string]string{
			"folder":  info.Folder,
			"game":    info.Game,
			"appid":   strconv.Itoa(int(info.ID)),
			"players": strconv.Itoa(int(info.Players)),
			"bots":    strconv.Itoa(int(info.Bots)),
			"version": info.Version,
			"vac":     strconv.FormatBool(info.VAC),
			"private": strconv.FormatBool(info.Visibility),
		},
	}

	if players != nil {
		rec.Players = make([]status.Player, 0, len(players.Players))
		for _, p := range players.Players {
			if p == nil {
				continue
			}

			rec.Players = append(rec.Players, status.Player{
				Name:     p.Name,
				Score:    int(p.Score),
				Duration: time.Duration(float64(p.Duration) * float64(time.Second)),
			})
		}
	} else {
		// Servers with player queries disabled still report a count.
		rec.Players = make([]status.Player, int(info.Players))
	}

	return &rec
}

func recordFromRules(rules *a2s.RulesInfo) *Record {
	rec := Record{Rules: map[string]string{}}

	if rules != nil {
		for k, v := range rules.Rules {
			rec.Rules[k] = v
		}
	}

	return &rec
}
