package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vietharvest/agrichat/domain"
)

// Invoke runs one chat turn.
// POST /invoke
func (h *Handler) Invoke(c echo.Context) error {
	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	// Agent failures are carried inside the response body, never as a
	// transport-level error status.
	resp := h.chat.RunTurn(c.Request().Context(), &req)
	return c.JSON(http.StatusOK, resp)
}
