package realtime

import (
	"encoding/json"
	"fmt"
	"time"

	"rently-server/internal/chat"
)

// ClientEventType enumerates the closed set of events a client may send.
type ClientEventType string

const (
	EventSendMessage       ClientEventType = "send_message"
	EventMarkRead          ClientEventType = "mark_read"
	EventTypingStart       ClientEventType = "typing_start"
	EventTypingStop        ClientEventType = "typing_stop"
	EventRevealPhone       ClientEventType = "reveal_phone"
	EventJoinConversation  ClientEventType = "join_conversation"
	EventLeaveConversation ClientEventType = "leave_conversation"
)

// ClientFrame is the decoded form of an inbound socket frame. Unknown types
// are rejected at decode time so dispatch stays exhaustive.
type ClientFrame struct {
	Type           ClientEventType `json:"type"`
	ConversationID string          `json:"conversationId,omitempty"`
	Content        string          `json:"content,omitempty"`
	IsPreFilled    bool            `json:"isPreFilled,omitempty"`
}

// DecodeClientFrame parses and validates an inbound frame.
func DecodeClientFrame(data []byte) (*ClientFrame, error) {
	var frame ClientFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}
	switch frame.Type {
	case EventSendMessage, EventMarkRead, EventTypingStart, EventTypingStop,
		EventRevealPhone, EventJoinConversation, EventLeaveConversation:
		return &frame, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", frame.Type)
	}
}

// ServerEventType enumerates the closed set of events pushed to clients.
type ServerEventType string

const (
	EventNewMessage    ServerEventType = "new_message"
	EventMessageRead   ServerEventType = "message_read"
	EventTyping        ServerEventType = "typing"
	EventUserOnline    ServerEventType = "user_online"
	EventUserOffline   ServerEventType = "user_offline"
	EventPhoneRevealed ServerEventType = "phone_revealed"
	EventError         ServerEventType = "error"
)

// ServerEvent is an outbound socket event. Only the fields relevant to the
// event type are populated.
type ServerEvent struct {
	Type           ServerEventType   `json:"type"`
	ConversationID string            `json:"conversationId,omitempty"`
	Message        *chat.MessageView `json:"message,omitempty"`
	ReaderID       string            `json:"readerId,omitempty"`
	MessageIDs     []string          `json:"messageIds,omitempty"`
	ReadAt         *time.Time        `json:"readAt,omitempty"`
	UserID         string            `json:"userId,omitempty"`
	IsTyping       bool              `json:"isTyping,omitempty"`
	RevealedBy     string            `json:"revealedBy,omitempty"`
	Code           string            `json:"code,omitempty"`
	Error          string            `json:"error,omitempty"`
}

// Encode marshals the event for the wire.
func (e ServerEvent) Encode() ([]byte, error) {
	return json.Marshal(e)
}

func NewMessageEvent(conversationID string, msg chat.MessageView) ServerEvent {
	return ServerEvent{Type: EventNewMessage, ConversationID: conversationID, Message: &msg}
}

func MessageReadEvent(conversationID, readerID string, messageIDs []string, at time.Time) ServerEvent {
	return ServerEvent{Type: EventMessageRead, ConversationID: conversationID, ReaderID: readerID, MessageIDs: messageIDs, ReadAt: &at}
}

func TypingEvent(conversationID, userID string, isTyping bool) ServerEvent {
	return ServerEvent{Type: EventTyping, ConversationID: conversationID, UserID: userID, IsTyping: isTyping}
}

func UserOnlineEvent(userID string) ServerEvent {
	return ServerEvent{Type: EventUserOnline, UserID: userID}
}

func UserOfflineEvent(userID string) ServerEvent {
	return ServerEvent{Type: EventUserOffline, UserID: userID}
}

func PhoneRevealedEvent(conversationID, revealedBy string) ServerEvent {
	return ServerEvent{Type: EventPhoneRevealed, ConversationID: conversationID, RevealedBy: revealedBy}
}

func ErrorEvent(code, message string) ServerEvent {
	return ServerEvent{Type: EventError, Code: code, Error: message}
}
