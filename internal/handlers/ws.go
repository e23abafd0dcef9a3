package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"rently-server/internal/chat"
	"rently-server/internal/middleware"
	"rently-server/internal/realtime"
)

// SocketHandler is the websocket endpoint of the realtime gateway. The JWT is
// verified by the auth middleware before the upgrade, so a connection that
// reaches the read loop is always authenticated.
type SocketHandler struct {
	Hub     *realtime.Hub
	Service *chat.Service
}

// NewSocketHandler creates a new SocketHandler.
func NewSocketHandler(hub *realtime.Hub, service *chat.Service) *SocketHandler {
	return &SocketHandler{Hub: hub, Service: service}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The token in the upgrade request authenticates the caller; origin
		// checking is delegated to the CORS layer in front.
		return true
	},
}

const socketReadTimeout = 60 * time.Second

// Handle upgrades the HTTP connection and processes events until the client
// disconnects. A dropped connection simply leaves all rooms.
func (h *SocketHandler) Handle(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the response; nothing more to do.
		return
	}

	conn := realtime.NewConn(userID, ws)
	h.Hub.Attach(conn)
	defer func() {
		h.Hub.Detach(conn)
		conn.Close(websocket.CloseNormalClosure, "session closed")
	}()

	ws.SetReadLimit(1 << 20) // 1MB payload cap
	_ = ws.SetReadDeadline(time.Now().Add(socketReadTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(socketReadTimeout))
	})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}

		frame, err := realtime.DecodeClientFrame(data)
		if err != nil {
			h.replyError(conn, chat.CodeValidation, err.Error())
			continue
		}

		h.dispatch(c, conn, userID, frame)
	}
}

func (h *SocketHandler) dispatch(c *gin.Context, conn *realtime.Conn, userID string, frame *realtime.ClientFrame) {
	ctx := c.Request.Context()

	switch frame.Type {
	case realtime.EventJoinConversation:
		if frame.ConversationID == "" {
			h.replyError(conn, chat.CodeValidation, "conversationId is required")
			return
		}
		// Room membership is restricted to the conversation's two parties.
		ok, err := h.Service.IsParticipant(ctx, frame.ConversationID, userID)
		if err != nil {
			h.replyError(conn, chat.CodeFor(err), err.Error())
			return
		}
		if !ok {
			h.replyError(conn, chat.CodeForbidden, "not a participant of this conversation")
			return
		}
		h.Hub.Join(frame.ConversationID, conn)

	case realtime.EventLeaveConversation:
		if frame.ConversationID == "" {
			h.replyError(conn, chat.CodeValidation, "conversationId is required")
			return
		}
		h.Hub.Leave(frame.ConversationID, conn)

	case realtime.EventSendMessage:
		// Persist first; the service's event sink fans the message out to
		// the room, sender included.
		if _, err := h.Service.SendMessage(ctx, frame.ConversationID, userID, frame.Content, frame.IsPreFilled); err != nil {
			h.replyError(conn, chat.CodeFor(err), err.Error())
		}

	case realtime.EventMarkRead:
		if err := h.Service.MarkConversationRead(ctx, frame.ConversationID, userID); err != nil {
			h.replyError(conn, chat.CodeFor(err), err.Error())
		}

	case realtime.EventTypingStart, realtime.EventTypingStop:
		if frame.ConversationID == "" {
			h.replyError(conn, chat.CodeValidation, "conversationId is required")
			return
		}
		// Ephemeral: never persisted, lost if no recipient is connected.
		isTyping := frame.Type == realtime.EventTypingStart
		h.Hub.Broadcast(frame.ConversationID, realtime.TypingEvent(frame.ConversationID, userID, isTyping), userID)

	case realtime.EventRevealPhone:
		if _, err := h.Service.RevealPhone(ctx, frame.ConversationID, userID); err != nil {
			h.replyError(conn, chat.CodeFor(err), err.Error())
		}
	}
}

// replyError surfaces a failure to the offending connection only; other
// connections and rooms are never torn down because of one client's error.
func (h *SocketHandler) replyError(conn *realtime.Conn, code, message string) {
	_ = conn.SendEvent(realtime.ErrorEvent(code, message))
}
