package websocket

import (
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// ClientConn is the part of *websocket.Conn the pumps and the hub use.
type ClientConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Client is one websocket session. Inbound frames are raw chat lines;
// outbound frames are JSON events.
type Client struct {
	hub      *Hub
	conn     ClientConn
	connID   string
	username string
	room     string
	send     chan Frame
	limiter  *rate.Limiter
}

func (c *Client) usernameKey() string {
	return strings.ToLower(c.username)
}

func (c *Client) sendFrame(frame Frame) {
	select {
	case c.send <- frame:
	default:
	}
}

func (c *Client) sendError(msg string) {
	c.sendFrame(Frame{Event: "error", Data: msg})
}

func (c *Client) sendWarning(msg string) {
	c.sendFrame(Frame{Event: "warning", Data: msg})
}

// readPump reads raw lines off the socket, rate-limits them and hands them
// to the dispatcher. A failing line never tears down anything beyond this
// connection.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warnw("Unexpected close", "conn_id", c.connID, "error", err)
			}
			return
		}
		if !c.limiter.Allow() {
			c.sendWarning("you are sending messages too quickly")
			continue
		}
		c.hub.dispatch(c, string(raw))
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(frame); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
