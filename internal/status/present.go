package status

import (
	"fmt"
	"strconv"
	"time"
)

const (
	ColorOnline  = 0x00ff00
	ColorOffline = 0xff0000

	Footer = "Queried via A2S — RCON used if configured"
)

type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Message is a chat platform independent rich message.
type Message struct {
	Title       string
	Description string
	Color       int
	Fields      []Field
	Footer      string
	Timestamp   time.Time
}

// Present builds the message displayed for a merged status. The result only
// depends on its arguments.
func Present(host string, port int, st Status, info ConsoleInfo, at time.Time) Message {
	address := fmt.Sprintf("%s:%d", host, port)

	if !st.Online {
		errString := st.Error
		if errString == "" {
			errString = "Query failed"
		}

		return Message{
			Title:       "Server: " + address,
			Description: "Status: Offline or unreachable",
			Color:       ColorOffline,
			Fields:      []Field{{Name: "Error", Value: errString}},
			Timestamp:   at,
		}
	}

	name := st.Name
	if name == "" {
		name = "Unknown Server"
	}

	currentMap := st.Map
	if currentMap == "" {
		currentMap = Unknown
	}

	return Message{
		Title:       name,
		Description: "Status: Online — " + address,
		Color:       ColorOnline,
		Fields: []Field{
			{Name: "Current Map", Value: currentMap, Inline: true},
			{Name: "Next Map", Value: NextMap(st, info), Inline: true},
			{Name: "Time Left", Value: TimeLeft(st, info), Inline: true},
			{Name: "Players", Value: PlayerCount(st), Inline: true},
		},
		Footer:    Footer,
		Timestamp: at,
	}
}

// PlayerCount formats "<count>/<max>", with "??" for an unknown maximum, or
// returns Unknown when there is no player list.
func PlayerCount(st Status) string {
	if st.Players == nil {
		return Unknown
	}

	maxPlayers := "??"
	if st.MaxPlayers > 0 {
		maxPlayers = strconv.Itoa(st.MaxPlayers)
	}

	return strconv.Itoa(len(st.Players)) + "/" + maxPlayers
}

// Field returns the value of the field with the given name.
func (msg Message) Field(name string) (string, bool) {
	for _, f := range msg.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}

	return "", false
}
