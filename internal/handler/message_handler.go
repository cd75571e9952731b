package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sharebnb/internal/model"
	"sharebnb/internal/service"
)

// MessageHandler handles direct messaging endpoints.
type MessageHandler struct {
	messageService service.MessageService
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// ConversationsResponse lists conversation summaries.
type ConversationsResponse struct {
	Conversations []model.Conversation `json:"conversations"`
}

// MessagesResponse lists messages.
type MessagesResponse struct {
	Messages []model.Message `json:"messages"`
}

// Inbox godoc
// @Summary Sent and received messages
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Inbox
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /messages [get]
func (h *MessageHandler) Inbox(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	inbox, err := h.messageService.Inbox(c.Request().Context(), account)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, inbox)
}

// Conversations godoc
// @Summary Latest message per counterpart
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ConversationsResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /messages/conversations [get]
func (h *MessageHandler) Conversations(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	conversations, err := h.messageService.Conversations(c.Request().Context(), account)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, ConversationsResponse{Conversations: conversations})
}

// Thread godoc
// @Summary Messages exchanged with one user
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param username path string true "Counterpart username"
// @Success 200 {object} MessagesResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /messages/{username} [get]
func (h *MessageHandler) Thread(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	thread, err := h.messageService.Thread(c.Request().Context(), account, c.Param("username"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, MessagesResponse{Messages: thread})
}

// Send godoc
// @Summary Send a direct message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param username path string true "Recipient username"
// @Param request body MessageRequest true "Message"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /messages/{username} [post]
func (h *MessageHandler) Send(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req MessageRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	message, err := h.messageService.Send(c.Request().Context(), account, c.Param("username"), req.Text)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, MessageResponse{Message: message})
}
