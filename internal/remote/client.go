package remote

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 20 * time.Second

	maxFrameBytes = 4096
)

// Client is one websocket connection with its own outbound queue.
type Client struct {
	id  string
	hub *Hub

	conn *websocket.Conn
	send chan []byte

	remoteAddr string
	logger     *slog.Logger
}

// NewClient creates a client with a fresh id and a buffered send queue.
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string, logger *slog.Logger) *Client {
	sendBuf := 32
	if hub != nil && hub.sendBuf > 0 {
		sendBuf = hub.sendBuf
	}
	id := uuid.NewString()
	return &Client{
		id:         id,
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBuf),
		remoteAddr: remoteAddr,
		logger:     logger.With("client", id),
	}
}

// ID returns the client's uuid.
func (c *Client) ID() string { return c.id }

func closeStatus(err error) (code int, text string, ok bool) {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code, ce.Text, true
	}
	return 0, "", false
}

func (c *Client) logExit(pump string, err error) {
	if errors.Is(err, websocket.ErrCloseSent) {
		return
	}
	if code, text, ok := closeStatus(err); ok {
		c.logger.Info("ws "+pump+" exiting (close)", "code", code, "reason", text)
		return
	}
	c.logger.Info("ws "+pump+" exiting", "error", err)
}

// writePump drains the send queue to the socket and keeps the connection
// alive with pings. It exits when send is closed or a write fails.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logExit("writePump", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logExit("writePump", err)
				return
			}
		}
	}
}

// readPump decodes inbound set_value frames into commands. Malformed frames
// are logged and skipped. It unregisters the client when the read side ends.
func (c *Client) readPump(ctx context.Context, commands chan<- Command) {
	c.conn.SetReadLimit(maxFrameBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	defer func() {
		if c.hub != nil {
			c.hub.unregister <- c
		}
	}()

	for {
		if ctx.Err() != nil {
			return
		}
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			c.logExit("readPump", err)
			return
		}
		cmd, err := decodeCommand(msg)
		if err != nil {
			c.logger.Warn("ws bad frame", "error", err)
			continue
		}
		cmd.ClientID = c.id
		select {
		case commands <- cmd:
		default:
			c.logger.Warn("ws command queue full, dropping", "dial", cmd.Dial)
		}
	}
}
