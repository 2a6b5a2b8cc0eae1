package query

import (
	"errors"
	"testing"

	"github.com/Devious-Toast/DoD-S-Discord-bot/internal/status"
	"github.com/rumblefrog/go-a2s"
	"github.com/stretchr/testify/require"
	"go.n16f.net/log"
)

type fakeQuerier struct {
	info     *Record
	infoErr  error
	rules    *Record
	rulesErr error

	calls []Options
}

func (f *fakeQuerier) Query(opts Options) (*Record, error) {
	f.calls = append(f.calls, opts)

	if opts.Kind == KindRules {
		return f.rules, f.rulesErr
	}
	return f.info, f.infoErr
}

func testFetcher(q Querier) *Fetcher {
	return NewFetcher(q, log.DefaultLogger("test"))
}

func TestFetchSuccess(t *testing.T) {
	require := require.New(t)

	q := fakeQuerier{
		info: &Record{
			Name:       "DoD:S #1",
			Map:        "dod_donner",
			Players:    make([]status.Player, 3),
			MaxPlayers: 24,
		},
		rules: &Record{Rules: map[string]string{"mp_timelimit": "20"}},
	}

	st := testFetcher(&q).Fetch("10.0.0.1", 27015)

	require.True(st.Online)
	require.Equal("DoD:S #1", st.Name)
	require.Equal("dod_donner", st.Map)
	require.Len(st.Players, 3)
	require.Equal(24, st.MaxPlayers)
	require.Equal("20", st.Rules["mp_timelimit"])

	require.Equal([]Options{
		{Host: "10.0.0.1", Port: 27015, Kind: KindInfo},
		{Host: "10.0.0.1", Port: 27015, Kind: KindRules},
	}, q.calls)
}

func TestFetchInfoFailure(t *testing.T) {
	require := require.New(t)

	q := fakeQuerier{infoErr: errors.New("read udp: i/o timeout")}

	st := testFetcher(&q).Fetch("10.0.0.1", 27015)

	require.False(st.Online)
	require.Equal("read udp: i/o timeout", st.Error)
	require.Len(q.calls, 1)
}

func TestFetchRulesFailure(t *testing.T) {
	require := require.New(t)

	q := fakeQuerier{
		info:     &Record{Name: "DoD:S #1", Map: "dod_flash"},
		rulesErr: errors.New("rules disabled"),
	}

	st := testFetcher(&q).Fetch("10.0.0.1", 27015)

	require.True(st.Online)
	require.NotNil(st.Rules)
	require.Empty(st.Rules)
	require.NotNil(st.Players)
}

func TestFetchDefaults(t *testing.T) {
	require := require.New(t)

	q := fakeQuerier{info: &Record{}, rules: &Record{}}

	st := testFetcher(&q).Fetch("10.0.0.1", 27015)

	require.Equal(status.Unknown, st.Name)
	require.Equal(status.Unknown, st.Map)
	require.Equal("0/??", status.PlayerCount(st))
}

func TestRecordFromInfo(t *testing.T) {
	require := require.New(t)

	info := a2s.ServerInfo{
		Name:       "DoD:S #1",
		Map:        "dod_anzio",
		Folder:     "dod",
		Game:       "Day of Defeat: Source",
		ID:         300,
		Players:    2,
		MaxPlayers: 32,
	}

	players := a2s.PlayerInfo{
		Count: 2,
		Players: []*a2s.Player{
			{Name: "Baker", Score: 12, Duration: 90},
			{Name: "Able", Score: 3, Duration: 1.5},
		},
	}

	rec := recordFromInfo(&info, &players)
	require.Equal("DoD:S #1", rec.Name)
	require.Equal(32, rec.MaxPlayers)
	require.Len(rec.Players, 2)
	require.Equal("Baker", rec.Players[0].Name)
	require.Equal(12, rec.Players[0].Score)
	require.Equal("300", rec.Raw["appid"])
	require.Equal("dod", rec.Raw["folder"])

	rec = recordFromInfo(&info, nil)
	require.Len(rec.Players, 2)
}

func TestRecordFromRules(t *testing.T) {
	rules := a2s.RulesInfo{Count: 1, Rules: map[string]string{"nextmap": "dod_kalt"}}

	rec := recordFromRules(&rules)
	require.Equal(t, "dod_kalt", rec.Rules["nextmap"])

	rec = recordFromRules(nil)
	require.NotNil(t, rec.Rules)
}
