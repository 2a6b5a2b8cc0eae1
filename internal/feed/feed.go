// Package feed pushes every status presented by the bot to websocket
// clients.
//
// Clients connect to /status, optionally with a format query parameter
// ("json" or "proto"). They first receive the latest status, if there is
// one, then every new status as it is published. The feed is read-only:
// messages sent by clients are discarded.
package feed

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Devious-Toast/DoD-S-Discord-bot/internal/status"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.n16f.net/log"
	"golang.org/x/time/rate"
)

const (
	Path = "/status"

	sendBufferSize = 8

	writeTimeout = 5 * time.Second
	pingInterval = 10 * time.Second
	pongTimeout  = 30 * time.Second

	connectionRate  = time.Second
	connectionBurst = 10
)

type Hub struct {
	Log *log.Logger

	// Limiter bounds the rate of new connections accepted by the hub.
	Limiter *rate.Limiter

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	last    *status.Message
	closed  bool

	server *http.Server
	wg     sync.WaitGroup
}

type client struct {
	conn   *websocket.Conn
	format Format
	send   chan status.Message
	log    *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		Log:     logger,
		Limiter: rate.NewLimiter(rate.Every(connectionRate), connectionBurst),
		clients: make(map[*client]struct{}),
	}
}

// Start listens on address and serves the feed until Stop is called.
func (h *Hub) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("cannot listen on %q: %w", address, err)
	}

	mux := http.NewServeMux()
	mux.Handle(Path, h)

	h.server = &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          h.Log.StdLogger(log.LevelError),
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		if err := h.server.Serve(listener); err != http.ErrServerClosed {
			h.Log.Error("cannot run HTTP server: %v", err)
		}
	}()

	h.Log.Info("serving status feed on %s", listener.Addr())
	return nil
}

func (h *Hub) Stop() {
	if h.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		h.server.Shutdown(ctx)
	}

	// Websocket connections are hijacked: the server does not close them.
	h.mu.Lock()
	h.closed = true
	for c := range h.clients {
		h.removeClientLocked(c)
	}
	h.mu.Unlock()

	h.wg.Wait()
}

// Publish records msg as the latest status and queues it for every client.
// Clients which are too slow to keep up are disconnected.
func (h *Hub) Publish(msg status.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = &msg

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			c.log.Info("dropping slow client")
			h.removeClientLocked(c)
		}
	}
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.clients)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	format, err := ParseFormat(req.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if h.isClosed() {
		http.Error(w, "feed stopped", http.StatusServiceUnavailable)
		return
	}

	if h.Limiter != nil && !h.Limiter.Allow() {
		h.Log.Debug(1, "rejecting connection from %s: too many connections",
			req.RemoteAddr)
		http.Error(w, "too many connections", http.StatusTooManyRequests)
		return
	}

	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// The upgrader already replied with an error status.
		h.Log.Debug(1, "cannot upgrade connection from %s: %v",
			req.RemoteAddr, err)
		return
	}

	c := client{
		conn:   conn,
		format: format,
		send:   make(chan status.Message, sendBufferSize),
		log: h.Log.Child("client", log.Data{
			"client":  uuid.NewString(),
			"address": req.RemoteAddr,
			"format":  string(format),
		}),
	}

	// Registration and the writer goroutine are covered by the same lock as
	// the shutdown sweep in Stop.
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}

	h.clients[&c] = struct{}{}
	if h.last != nil {
		c.send <- *h.last
	}

	h.wg.Add(1)
	h.mu.Unlock()

	c.log.Debug(1, "client connected")

	go func() {
		defer h.wg.Done()
		c.writeLoop()
	}()

	c.readLoop()

	h.removeClient(&c)
	conn.Close()

	c.log.Debug(1, "client disconnected")
}

func (h *Hub) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.closed
}

func (h *Hub) removeClient(c *client) {
	h.mu.Lock()
	h.removeClientLocked(c)
	h.mu.Unlock()
}

func (h *Hub) removeClientLocked(c *client) {
	if _, found := h.clients[c]; !found {
		return
	}

	delete(h.clients, c)
	close(c.send)
}

func (c *client) writeLoop() {
	t := time.NewTicker(pingInterval)
	defer t.Stop()

	defer c.conn.Close()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				c.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(writeTimeout))
				return
			}

			data, err := Encode(msg, c.format)
			if err != nil {
				c.log.Error("%v", err)
				continue
			}

			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))

			if err := c.conn.WriteMessage(c.format.MessageType(), data); err != nil {
				c.log.Debug(1, "cannot write message: %v", err)
				return
			}

		case <-t.C:
			err := c.conn.WriteControl(websocket.PingMessage, []byte("ping"),
				time.Now().Add(writeTimeout))
			if err != nil {
				c.log.Debug(1, "cannot send ping: %v", err)
				return
			}
		}
	}
}

// readLoop discards client messages and processes control frames until the
// connection fails or is closed.
func (c *client) readLoop() {
	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
