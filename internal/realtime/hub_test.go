package realtime

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

// fakeWire records frames written by the connection's write loop.
type fakeWire struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func (f *fakeWire) WriteMessage(messageType int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if messageType == 1 { // text frames only; ignore pings
		cp := make([]byte, len(data))
		copy(cp, data)
		f.frames = append(f.frames, cp)
	}
	return nil
}

func (f *fakeWire) WriteControl(messageType int, data []byte, deadline time.Time) error {
	return nil
}

func (f *fakeWire) SetWriteDeadline(t time.Time) error { return nil }

func (f *fakeWire) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeWire) events(t *testing.T) []ServerEvent {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ServerEvent, 0, len(f.frames))
	for _, frame := range f.frames {
		var ev ServerEvent
		if err := json.Unmarshal(frame, &ev); err != nil {
			t.Fatalf("bad frame %s: %v", frame, err)
		}
		out = append(out, ev)
	}
	return out
}

func (f *fakeWire) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// eventually polls until the condition holds or the deadline passes; the
// write pump delivers asynchronously.
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition never met: %s", msg)
}

func attach(hub *Hub, userID string) (*Conn, *fakeWire) {
	wire := &fakeWire{}
	conn := NewConn(userID, wire)
	hub.Attach(conn)
	return conn, wire
}

func countType(events []ServerEvent, eventType ServerEventType) int {
	n := 0
	for _, ev := range events {
		if ev.Type == eventType {
			n++
		}
	}
	return n
}

func TestAttachEnforcesOneSessionPerUser(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	first, firstWire := attach(hub, "alice")
	_ = first

	second, _ := attach(hub, "alice")

	eventually(t, firstWire.isClosed, "replaced session closed")
	if !hub.IsOnline("alice") {
		t.Fatalf("user must stay online across session swap")
	}

	// The surviving session is the new one.
	if ok := hub.NotifyUser("alice", UserOnlineEvent("bob")); !ok {
		t.Fatalf("notify on surviving session failed")
	}
	_ = second
}

func TestBroadcastReachesRoomMembersOnce(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	aliceConn, aliceWire := attach(hub, "alice")
	bobConn, bobWire := attach(hub, "bob")
	_, carolWire := attach(hub, "carol")

	hub.Join("conv1", aliceConn)
	hub.Join("conv1", bobConn)

	delivered := hub.Broadcast("conv1", TypingEvent("conv1", "alice", true), "")
	if delivered != 2 {
		t.Fatalf("expected 2 deliveries, got %d", delivered)
	}

	eventually(t, func() bool {
		return countType(aliceWire.events(t), EventTyping) == 1 &&
			countType(bobWire.events(t), EventTyping) == 1
	}, "room members each receive the event once")

	if countType(carolWire.events(t), EventTyping) != 0 {
		t.Fatalf("non-member must not receive room events")
	}
}

func TestBroadcastExcludesUser(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	aliceConn, aliceWire := attach(hub, "alice")
	bobConn, bobWire := attach(hub, "bob")
	hub.Join("conv1", aliceConn)
	hub.Join("conv1", bobConn)

	delivered := hub.Broadcast("conv1", TypingEvent("conv1", "alice", true), "alice")
	if delivered != 1 {
		t.Fatalf("expected 1 delivery, got %d", delivered)
	}

	eventually(t, func() bool {
		return countType(bobWire.events(t), EventTyping) == 1
	}, "bob receives the event")
	if countType(aliceWire.events(t), EventTyping) != 0 {
		t.Fatalf("excluded user must not receive the event")
	}
}

func TestNotifyUser(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	_, wire := attach(hub, "alice")

	if ok := hub.NotifyUser("alice", PhoneRevealedEvent("conv1", "bob")); !ok {
		t.Fatalf("expected delivery to connected user")
	}
	eventually(t, func() bool {
		return countType(wire.events(t), EventPhoneRevealed) == 1
	}, "user channel delivery")

	if ok := hub.NotifyUser("nobody", PhoneRevealedEvent("conv1", "bob")); ok {
		t.Fatalf("expected no delivery to disconnected user")
	}
}

func TestDetachLeavesAllRooms(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	aliceConn, _ := attach(hub, "alice")
	hub.Join("conv1", aliceConn)
	hub.Join("conv2", aliceConn)

	if !hub.UserInRoom("conv1", "alice") {
		t.Fatalf("expected membership before detach")
	}

	hub.Detach(aliceConn)

	if hub.IsOnline("alice") {
		t.Fatalf("expected user offline after detach")
	}
	if hub.UserInRoom("conv1", "alice") || hub.UserInRoom("conv2", "alice") {
		t.Fatalf("expected all rooms left on detach")
	}
	if delivered := hub.Broadcast("conv1", TypingEvent("conv1", "x", true), ""); delivered != 0 {
		t.Fatalf("expected empty room, got %d deliveries", delivered)
	}
}

func TestPresenceAnnouncements(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	_, aliceWire := attach(hub, "alice")

	bobConn, _ := attach(hub, "bob")
	eventually(t, func() bool {
		for _, ev := range aliceWire.events(t) {
			if ev.Type == EventUserOnline && ev.UserID == "bob" {
				return true
			}
		}
		return false
	}, "online announcement for bob")

	hub.Detach(bobConn)
	eventually(t, func() bool {
		for _, ev := range aliceWire.events(t) {
			if ev.Type == EventUserOffline && ev.UserID == "bob" {
				return true
			}
		}
		return false
	}, "offline announcement for bob")
}

func TestSessionSwapDoesNotReannounce(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	_, aliceWire := attach(hub, "alice")
	attach(hub, "bob")

	eventually(t, func() bool {
		return countType(aliceWire.events(t), EventUserOnline) == 1
	}, "first online announcement")

	// Bob reconnects; the swap must not produce another online event.
	attach(hub, "bob")
	time.Sleep(50 * time.Millisecond)
	if n := countType(aliceWire.events(t), EventUserOnline); n != 1 {
		t.Fatalf("expected 1 online announcement, got %d", n)
	}
}
