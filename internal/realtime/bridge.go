package realtime

import (
	"time"

	"rently-server/internal/chat"
	"rently-server/internal/models"
)

// Broadcaster adapts the Hub to the conversation service's event sink. The
// service persists first; the broadcaster then fans the committed change out
// to connected participants.
type Broadcaster struct {
	hub *Hub
}

// NewBroadcaster wraps the hub as a chat.Events implementation.
func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

// MessageCreated pushes the new message to the conversation room. A
// counterpart who is online but not viewing the conversation still gets the
// event on their user channel so inbox badges stay live.
func (b *Broadcaster) MessageCreated(conv *models.Conversation, msg chat.MessageView) {
	event := NewMessageEvent(conv.ID, msg)
	b.hub.Broadcast(conv.ID, event, "")

	other := conv.OtherParty(msg.SenderID)
	if !b.hub.UserInRoom(conv.ID, other) {
		b.hub.NotifyUser(other, event)
	}
}

// MessagesRead notifies the room that the reader consumed the given messages.
func (b *Broadcaster) MessagesRead(conv *models.Conversation, readerID string, messageIDs []string, at time.Time) {
	event := MessageReadEvent(conv.ID, readerID, messageIDs, at)
	b.hub.Broadcast(conv.ID, event, readerID)
}

// PhoneRevealed notifies the counterpart that the revealer's number is now
// visible to them.
func (b *Broadcaster) PhoneRevealed(conv *models.Conversation, revealerID string) {
	event := PhoneRevealedEvent(conv.ID, revealerID)
	b.hub.Broadcast(conv.ID, event, revealerID)

	other := conv.OtherParty(revealerID)
	if !b.hub.UserInRoom(conv.ID, other) {
		b.hub.NotifyUser(other, event)
	}
}
