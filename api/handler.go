// Package api provides HTTP handlers for the chat gateway.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vietharvest/agrichat/chat"
)

// Handler handles HTTP requests.
type Handler struct {
	chat *chat.Service
}

// NewHandler creates a new handler.
func NewHandler(chatService *chat.Service) *Handler {
	return &Handler{
		chat: chatService,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/invoke", h.Invoke)
	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
