package realtime

import (
	"testing"
	"time"

	"rently-server/internal/chat"
	"rently-server/internal/models"
)

func testConversation() *models.Conversation {
	return &models.Conversation{
		BaseModel:  models.BaseModel{ID: "conv1"},
		TenantID:   "tenant",
		LandlordID: "landlord",
		ListingID:  "flat1",
	}
}

func testMessage(senderID string) chat.MessageView {
	return chat.MessageView{
		Message: models.Message{
			BaseModel:      models.BaseModel{ID: "m1"},
			ConversationID: "conv1",
			SenderID:       senderID,
			Content:        "hello",
		},
		Sender: models.PublicProfile{ID: senderID},
	}
}

func TestMessageCreatedFansOutToRoom(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	b := NewBroadcaster(hub)

	tenantConn, tenantWire := attach(hub, "tenant")
	landlordConn, landlordWire := attach(hub, "landlord")
	hub.Join("conv1", tenantConn)
	hub.Join("conv1", landlordConn)

	b.MessageCreated(testConversation(), testMessage("tenant"))

	eventually(t, func() bool {
		return countType(tenantWire.events(t), EventNewMessage) == 1 &&
			countType(landlordWire.events(t), EventNewMessage) == 1
	}, "both participants receive the message once")
}

func TestMessageCreatedFallsBackToUserChannel(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	b := NewBroadcaster(hub)

	tenantConn, _ := attach(hub, "tenant")
	_, landlordWire := attach(hub, "landlord")
	hub.Join("conv1", tenantConn) // landlord is online but not viewing the conversation

	b.MessageCreated(testConversation(), testMessage("tenant"))

	eventually(t, func() bool {
		return countType(landlordWire.events(t), EventNewMessage) == 1
	}, "counterpart outside the room is notified on their user channel")
}

func TestMessagesReadSkipsReader(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	b := NewBroadcaster(hub)

	tenantConn, tenantWire := attach(hub, "tenant")
	landlordConn, landlordWire := attach(hub, "landlord")
	hub.Join("conv1", tenantConn)
	hub.Join("conv1", landlordConn)

	b.MessagesRead(testConversation(), "tenant", []string{"m1"}, time.Now())

	eventually(t, func() bool {
		return countType(landlordWire.events(t), EventMessageRead) == 1
	}, "sender of the read messages is notified")
	if countType(tenantWire.events(t), EventMessageRead) != 0 {
		t.Fatalf("reader must not receive their own read receipt")
	}
}

func TestPhoneRevealedReachesCounterpart(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	b := NewBroadcaster(hub)

	_, landlordWire := attach(hub, "landlord")

	// Nobody is in the room; the event still reaches the counterpart.
	b.PhoneRevealed(testConversation(), "tenant")

	eventually(t, func() bool {
		events := landlordWire.events(t)
		for _, ev := range events {
			if ev.Type == EventPhoneRevealed && ev.RevealedBy == "tenant" && ev.ConversationID == "conv1" {
				return true
			}
		}
		return false
	}, "counterpart receives the reveal notification")
}
