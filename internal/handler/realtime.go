package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	log "github.com/sirupsen/logrus"
	"github.com/swharr/storm-surge/internal/pkg/realtime"
)

type Realtime interface {
	Upgrade(c *fiber.Ctx) error
	Handle() fiber.Handler
}

type realtimeHandler struct {
	hub *realtime.Hub
}

func newRealtimeHandler(hub *realtime.Hub) Realtime {
	return &realtimeHandler{
		hub: hub,
	}
}

func (h *realtimeHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handle owns one subscriber connection. Broadcasts are written by a
// dedicated goroutine draining the client send queue while this goroutine
// reads subscribe messages until the peer disconnects.
func (h *realtimeHandler) Handle() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := h.hub.Register(conn)
		defer h.hub.Unregister(client)

		log.Info("client connected to realtime channel")
		go client.WritePump()

		client.Send(realtime.Message{
			Event: "connected",
			Data:  map[string]interface{}{"status": "Connected to Storm Surge"},
		})

		for {
			msg := realtime.Message{}
			if err := conn.ReadJSON(&msg); err != nil {
				log.Info("client disconnected from realtime channel")
				return
			}
			if msg.Event == "subscribe" {
				log.Infof("client subscribed to: %v", msg.Data)
				client.Send(realtime.Message{
					Event: "subscribed",
					Data:  map[string]interface{}{"subscriptions": msg.Data},
				})
			}
		}
	})
}
