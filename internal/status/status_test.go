package status

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 6, 6, 6, 30, 0, 0, time.UTC)

func onlineStatus() Status {
	return Status{
		Online:     true,
		Name:       "DoD:S Public",
		Map:        "dod_avalanche",
		Players:    []Player{{Name: "a"}, {Name: "b"}, {Name: "c"}},
		MaxPlayers: 24,
		Rules:      map[string]string{},
	}
}

func TestMergeOfflineWithConsole(t *testing.T) {
	require := require.New(t)

	st := Offline(errors.New("timeout"))
	merged := Merge(st, ConsoleInfo{NextMap: "dod_anzio"})

	require.True(merged.Online)
	require.Equal(PlaceholderName, merged.Name)
	require.Equal(Unknown, merged.Map)
	require.NotNil(merged.Players)
	require.Empty(merged.Players)
	require.Equal("dod_anzio", NextMap(merged, ConsoleInfo{NextMap: "dod_anzio"}))

	// The input is left untouched.
	require.False(st.Online)
	require.Empty(st.Name)
}

func TestMergeOfflineWithoutConsole(t *testing.T) {
	require := require.New(t)

	st := Offline(errors.New("timeout"))
	merged := Merge(st, ConsoleInfo{})

	require.False(merged.Online)
	require.Equal("timeout", merged.Error)
}

func TestMergeOnline(t *testing.T) {
	st := onlineStatus()
	require.Equal(t, st, Merge(st, ConsoleInfo{NextMap: "dod_flash"}))
}

func TestFieldPrecedence(t *testing.T) {
	require := require.New(t)

	st := onlineStatus()
	require.Equal(Unknown, NextMap(st, ConsoleInfo{}))
	require.Equal(Unknown, TimeLeft(st, ConsoleInfo{}))

	st.Rules = map[string]string{
		"nextmap":      "",
		"mp_nextmap":   "dod_kalt",
		"mp_timelimit": "30",
	}
	require.Equal("dod_kalt", NextMap(st, ConsoleInfo{}))
	require.Equal("30", TimeLeft(st, ConsoleInfo{}))

	st.Rules["nextmap"] = "dod_donner"
	require.Equal("dod_donner", NextMap(st, ConsoleInfo{}))

	info := ConsoleInfo{NextMap: "dod_anzio", TimeLeft: "12:34"}
	require.Equal("dod_anzio", NextMap(st, info))
	require.Equal("12:34", TimeLeft(st, info))
}

func TestPresentOnline(t *testing.T) {
	require := require.New(t)

	msg := Present("10.0.0.1", 27015, onlineStatus(), ConsoleInfo{}, testTime)

	require.Equal("DoD:S Public", msg.Title)
	require.Equal("Status: Online — 10.0.0.1:27015", msg.Description)
	require.Equal(ColorOnline, msg.Color)
	require.Equal(Footer, msg.Footer)
	require.Equal(testTime, msg.Timestamp)
	require.Equal([]Field{
		{Name: "Current Map", Value: "dod_avalanche", Inline: true},
		{Name: "Next Map", Value: Unknown, Inline: true},
		{Name: "Time Left", Value: Unknown, Inline: true},
		{Name: "Players", Value: "3/24", Inline: true},
	}, msg.Fields)
}

func TestPresentOffline(t *testing.T) {
	require := require.New(t)

	msg := Present("10.0.0.1", 27015, Offline(errors.New("i/o timeout")),
		ConsoleInfo{}, testTime)

	require.Equal("Server: 10.0.0.1:27015", msg.Title)
	require.Equal("Status: Offline or unreachable", msg.Description)
	require.Equal(ColorOffline, msg.Color)
	require.Empty(msg.Footer)

	value, found := msg.Field("Error")
	require.True(found)
	require.Equal("i/o timeout", value)

	msg = Present("10.0.0.1", 27015, Offline(nil), ConsoleInfo{}, testTime)
	value, _ = msg.Field("Error")
	require.Equal("Query failed", value)
}

func TestPresentUpgradedStatus(t *testing.T) {
	require := require.New(t)

	info := ConsoleInfo{NextMap: "dod_anzio", TimeLeft: "No timelimit"}
	st := Merge(Offline(errors.New("timeout")), info)
	msg := Present("10.0.0.1", 27015, st, info, testTime)

	require.Equal(PlaceholderName, msg.Title)

	players, _ := msg.Field("Players")
	require.Equal("0/??", players)
	nextMap, _ := msg.Field("Next Map")
	require.Equal("dod_anzio", nextMap)
	timeLeft, _ := msg.Field("Time Left")
	require.Equal("No timelimit", timeLeft)
}

func TestPlayerCount(t *testing.T) {
	tests := []struct {
		players    []Player
		maxPlayers int
		expected   string
	}{
		{make([]Player, 3), 24, "3/24"},
		{[]Player{}, 32, "0/32"},
		{make([]Player, 5), 0, "5/??"},
		{nil, 24, Unknown},
	}

	for _, test := range tests {
		st := Status{Players: test.players, MaxPlayers: test.maxPlayers}
		require.Equal(t, test.expected, PlayerCount(st))
	}
}

func TestPresentIsDeterministic(t *testing.T) {
	st := onlineStatus()
	st.Rules["nextmap"] = "dod_colmar"

	msg1 := Present("h", 1, st, ConsoleInfo{TimeLeft: "5:00"}, testTime)
	msg2 := Present("h", 1, st, ConsoleInfo{TimeLeft: "5:00"}, testTime)

	require.Equal(t, msg1, msg2)
}
