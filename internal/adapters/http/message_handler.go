package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rrrconstruction/portfolio/internal/infrastructure/logger"
	"github.com/rrrconstruction/portfolio/internal/ports"
)

// MessageHandler handles contact inquiries
type MessageHandler struct {
	messageService ports.MessageService
	logger         *logger.Logger
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService ports.MessageService, logger *logger.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		logger:         logger,
	}
}

// SubmitContact godoc
// @Summary Submit a contact inquiry
// @Description Store a contact message from the public site with status New
// @Tags messages
// @Accept json
// @Produce json
// @Param request body ports.ContactRequest true "Contact data"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} MessageResponse
// @Router /api/contact [post]
func (h *MessageHandler) SubmitContact(c echo.Context) error {
	var req ports.ContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if _, err := h.messageService.Submit(c.Request().Context(), req); err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{
		Success: true,
		Message: "Query received! We'll contact you soon.",
	})
}

// UpdateMessageStatus godoc
// @Summary Update message status
// @Tags messages
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path int true "Message ID"
// @Param status formData string true "New status label"
// @Success 200 {object} ContactMessageResponse
// @Failure 400 {object} MessageResponse
// @Failure 401 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /admin/message/status/{id} [post]
func (h *MessageHandler) UpdateMessageStatus(c echo.Context) error {
	messageID, err := parseID(c, "message")
	if err != nil {
		return err
	}

	req := ports.UpdateMessageStatusRequest{Status: c.FormValue("status")}

	message, err := h.messageService.UpdateStatus(c.Request().Context(), messageID, req)
	if err != nil {
		return mapError(err)
	}

	h.logger.LogAdminAction(AdminSessionFromContext(c).Username, "message_status", map[string]interface{}{
		"message_id": messageID,
		"status":     message.Status,
	})

	return c.JSON(http.StatusOK, ContactMessageResponse{
		Success: true,
		Message: "Status updated.",
		Data:    message,
	})
}

// DeleteMessage godoc
// @Summary Delete message
// @Tags messages
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /admin/message/delete/{id} [post]
func (h *MessageHandler) DeleteMessage(c echo.Context) error {
	messageID, err := parseID(c, "message")
	if err != nil {
		return err
	}

	if err := h.messageService.Delete(c.Request().Context(), messageID); err != nil {
		return mapError(err)
	}

	h.logger.LogAdminAction(AdminSessionFromContext(c).Username, "message_delete", map[string]interface{}{
		"message_id": messageID,
	})

	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Message deleted."})
}
