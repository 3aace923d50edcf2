package main

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/swharr/storm-surge/internal/config"
	"github.com/swharr/storm-surge/internal/handler"
)

func buildRoute(handlers *handler.Handlers, router *fiber.App, configData *config.Config) {
	allowOrigins := "http://localhost:3000"
	if origins := configData.Server.AllowOrigins; len(origins) > 0 {
		allowOrigins = strings.Join(origins, ", ")
	}
	router.Use(
		cors.New(
			cors.Config{
				AllowHeaders: "Origin, Content-Type, Accept",
				AllowOrigins: allowOrigins,
			},
		),
	)

	router.Get("/health", handlers.ClusterHandler.Health)

	router.Post("/webhook/:provider", handlers.WebhookHandler.HandleWebhook)

	router.Route(
		"/api/cluster", func(router fiber.Router) {
			router.Get("/status", handlers.ClusterHandler.GetClusterStatus)
			router.Get("/history", handlers.ClusterHandler.GetScalingHistory)
		},
	)

	router.Use("/ws", handlers.RealtimeHandler.Upgrade)
	router.Get("/ws", handlers.RealtimeHandler.Handle())
}
