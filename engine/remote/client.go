package remote

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/spaghettifunk/quadn/engine/core"
)

// A websocket connection. Text messages it sends are commands, either
// {"command": "pause"} or the bare name.
type client struct {
	server *Server
	conn   *websocket.Conn
	send   chan []byte
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				core.LogDebug("[remote] ws write msg error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				core.LogDebug("[remote] ws write ping error: %v", err)
				return
			}
		}
	}
}

func (c *client) readPump() {
	defer c.server.unregister(c)
	for {
		kind, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				core.LogDebug("[remote] ws read error: %v", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		if err := c.server.submit(parseCommand(msg), "ws"); err != nil {
			core.LogWarn("[remote] %s", err)
		}
	}
}

type commandMessage struct {
	Command string `json:"command"`
}

func parseCommand(msg []byte) string {
	var cm commandMessage
	if err := json.Unmarshal(msg, &cm); err == nil && cm.Command != "" {
		return cm.Command
	}
	return strings.TrimSpace(string(msg))
}
