package console

import (
	"time"

	"github.com/gorcon/rcon"
)

const (
	DefaultDialTimeout = 5 * time.Second
	DefaultDeadline    = 5 * time.Second
)

// RCONDialer opens Source RCON sessions.
type RCONDialer struct {
	DialTimeout time.Duration
	Deadline    time.Duration
}

func NewRCONDialer() *RCONDialer {
	return &RCONDialer{
		DialTimeout: DefaultDialTimeout,
		Deadline:    DefaultDeadline,
	}
}

func (d *RCONDialer) Dial(address, password string) (Conn, error) {
	conn, err := rcon.Dial(address, password,
		rcon.SetDialTimeout(d.DialTimeout),
		rcon.SetDeadline(d.Deadline))
	if err != nil {
		return nil, err
	}

	return conn, nil
}
