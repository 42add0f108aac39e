package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/airwatchhq/airwatch/internal/realtime"
)

// RegisterWebSocket mounts the live IoT stream endpoint on /ws.
func RegisterWebSocket(app *fiber.App, hub *realtime.Hub) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		client := hub.Register(wsConn{conn})
		defer hub.Unregister(client)

		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			hub.HandleMessage(client, payload)
		}
	}))
}

// wsConn adapts a websocket connection to the hub's transport interface.
// Writes happen only from the hub's per-client writer, satisfying the
// single-writer requirement of the underlying connection.
type wsConn struct {
	*websocket.Conn
}

func (c wsConn) WriteMessage(data []byte) error {
	return c.Conn.WriteMessage(websocket.TextMessage, data)
}
