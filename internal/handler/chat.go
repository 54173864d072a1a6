package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/homestay-booking/internal/model"
	"github.com/iliyamo/homestay-booking/internal/repository"
)

// ChatHandler covers guest/host messaging. A conversation is created
// lazily on the first message about a listing; only its two participants
// can read or post to it.
type ChatHandler struct {
	Conversations *repository.ConversationRepo
	Listings      *repository.ListingRepo
}

func NewChatHandler(cv *repository.ConversationRepo, l *repository.ListingRepo) *ChatHandler {
	if cv == nil || l == nil {
		panic("nil repository passed to NewChatHandler")
	}
	return &ChatHandler{Conversations: cv, Listings: l}
}

// Start handles POST /v1/conversations: {listing_id, body}. It finds or
// creates the conversation between the caller and the listing's host and
// posts the first message.
func (h *ChatHandler) Start(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		ListingID uint64 `json:"listing_id" validate:"required"`
		Body      string `json:"body" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	l, err := h.Listings.GetActive(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if l.HostID == userID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot message your own listing"})
	}
	conv, err := h.Conversations.GetOrCreate(ctx, l.ID, userID, l.HostID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create conversation failed"})
	}
	m := model.Message{
		ConversationID: conv.ID,
		SenderID:       userID,
		Body:           strings.TrimSpace(req.Body),
	}
	if err := h.Conversations.AddMessage(ctx, &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send message failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"conversation": conv, "message": m})
}

// List handles GET /v1/conversations, ordered by latest activity.
func (h *ChatHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Conversations.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load conversations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Messages handles GET /v1/conversations/:id/messages, oldest first.
func (h *ChatHandler) Messages(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	convID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid conversation id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Conversations.GetForUser(ctx, convID, userID); err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "conversation not found"})
	}
	items, err := h.Conversations.ListMessages(ctx, convID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load messages"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Send handles POST /v1/conversations/:id/messages: {body}.
func (h *ChatHandler) Send(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	convID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid conversation id"})
	}
	var req struct {
		Body string `json:"body" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.Conversations.GetForUser(ctx, convID, userID); err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "conversation not found"})
	}
	m := model.Message{
		ConversationID: convID,
		SenderID:       userID,
		Body:           strings.TrimSpace(req.Body),
	}
	if err := h.Conversations.AddMessage(ctx, &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send message failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": m})
}
