package realtime

import (
	"sync"
)

// Hub is the connection manager of the realtime gateway. It tracks one live
// socket per user, the implicit per-user channel, and the per-conversation
// rooms used to fan events out to subscribed connections. It is owned by the
// composition root, not a package-level singleton.
type Hub struct {
	mu           sync.RWMutex
	sessions     map[string]*Conn            // sessionID -> connection
	userSessions map[string]string           // userID -> sessionID
	rooms        map[string]map[string]*Conn // conversationID -> sessionID -> connection
	sessionRooms map[string]map[string]struct{}
}

// NewHub constructs an initialized Hub.
func NewHub() *Hub {
	return &Hub{
		sessions:     make(map[string]*Conn),
		userSessions: make(map[string]string),
		rooms:        make(map[string]map[string]*Conn),
		sessionRooms: make(map[string]map[string]struct{}),
	}
}

// Attach registers a connection for the given user and announces presence.
// If a previous session exists it is swapped out and closed, enforcing one
// active socket per user; a swap does not re-announce the user as online.
func (h *Hub) Attach(conn *Conn) {
	var previous *Conn

	h.mu.Lock()
	if existingID, ok := h.userSessions[conn.UserID]; ok {
		if existing := h.sessions[existingID]; existing != nil {
			previous = existing
			h.detachLocked(existingID)
		}
	}

	h.sessions[conn.ID] = conn
	h.userSessions[conn.UserID] = conn.ID
	h.sessionRooms[conn.ID] = make(map[string]struct{})
	h.mu.Unlock()

	conn.Start()

	if previous != nil {
		previous.Close(4001, "session replaced")
	} else {
		h.BroadcastAll(UserOnlineEvent(conn.UserID), conn.UserID)
	}
}

// Detach removes a connection if it is still tracked and announces the user
// as offline once no session remains.
func (h *Hub) Detach(conn *Conn) {
	h.mu.Lock()
	h.detachLocked(conn.ID)
	_, stillOnline := h.userSessions[conn.UserID]
	h.mu.Unlock()

	if !stillOnline {
		h.BroadcastAll(UserOfflineEvent(conn.UserID), conn.UserID)
	}
}

// Join adds the connection to the conversation room.
func (h *Hub) Join(conversationID string, conn *Conn) {
	h.mu.Lock()
	if _, ok := h.sessions[conn.ID]; !ok {
		h.mu.Unlock()
		return
	}

	room := h.rooms[conversationID]
	if room == nil {
		room = make(map[string]*Conn)
		h.rooms[conversationID] = room
	}
	room[conn.ID] = conn

	memberships := h.sessionRooms[conn.ID]
	if memberships == nil {
		memberships = make(map[string]struct{})
		h.sessionRooms[conn.ID] = memberships
	}
	memberships[conversationID] = struct{}{}
	h.mu.Unlock()
}

// Leave removes the connection from the conversation room.
func (h *Hub) Leave(conversationID string, conn *Conn) {
	h.mu.Lock()
	h.leaveLocked(conversationID, conn.ID)
	h.mu.Unlock()
}

// Broadcast delivers the event to all members of the conversation room,
// at-most-once per connection, best-effort. There is no acknowledgment or
// redelivery queue; disconnected clients catch up via the REST history.
// excludeUserID, when non-empty, skips that user's connection.
func (h *Hub) Broadcast(conversationID string, event ServerEvent, excludeUserID string) int {
	payload, err := event.Encode()
	if err != nil {
		return 0
	}

	h.mu.RLock()
	room := h.rooms[conversationID]
	if len(room) == 0 {
		h.mu.RUnlock()
		return 0
	}

	delivered := 0
	for _, conn := range room {
		if excludeUserID != "" && conn.UserID == excludeUserID {
			continue
		}
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	h.mu.RUnlock()
	return delivered
}

// BroadcastAll delivers the event to every connected session except
// excludeUserID. Used for ephemeral presence announcements.
func (h *Hub) BroadcastAll(event ServerEvent, excludeUserID string) {
	payload, err := event.Encode()
	if err != nil {
		return
	}

	h.mu.RLock()
	for _, conn := range h.sessions {
		if excludeUserID != "" && conn.UserID == excludeUserID {
			continue
		}
		_ = conn.Send(payload)
	}
	h.mu.RUnlock()
}

// NotifyUser delivers the event on the user's implicit channel.
func (h *Hub) NotifyUser(userID string, event ServerEvent) bool {
	payload, err := event.Encode()
	if err != nil {
		return false
	}

	h.mu.RLock()
	sessionID, ok := h.userSessions[userID]
	if !ok {
		h.mu.RUnlock()
		return false
	}
	conn := h.sessions[sessionID]
	h.mu.RUnlock()
	if conn == nil {
		return false
	}
	return conn.Send(payload) == nil
}

// UserInRoom reports whether the user's current session is subscribed to the
// conversation room.
func (h *Hub) UserInRoom(conversationID, userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sessionID, ok := h.userSessions[userID]
	if !ok {
		return false
	}
	room := h.rooms[conversationID]
	if room == nil {
		return false
	}
	_, in := room[sessionID]
	return in
}

// IsOnline reports whether the user has a live session.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.userSessions[userID]
	return ok
}

// Close terminates all tracked connections and clears hub state.
func (h *Hub) Close() {
	h.mu.Lock()
	sessions := make([]*Conn, 0, len(h.sessions))
	for _, conn := range h.sessions {
		sessions = append(sessions, conn)
	}
	h.sessions = make(map[string]*Conn)
	h.userSessions = make(map[string]string)
	h.rooms = make(map[string]map[string]*Conn)
	h.sessionRooms = make(map[string]map[string]struct{})
	h.mu.Unlock()

	for _, conn := range sessions {
		conn.Close(1001, "hub shutdown")
	}
}

func (h *Hub) detachLocked(sessionID string) {
	conn, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	delete(h.sessions, sessionID)

	if current, ok := h.userSessions[conn.UserID]; ok && current == sessionID {
		delete(h.userSessions, conn.UserID)
	}

	for roomID := range h.sessionRooms[sessionID] {
		h.leaveLocked(roomID, sessionID)
	}
	delete(h.sessionRooms, sessionID)
}

func (h *Hub) leaveLocked(conversationID string, sessionID string) {
	if sessionID == "" {
		return
	}
	room := h.rooms[conversationID]
	if room == nil {
		return
	}
	delete(room, sessionID)
	if len(room) == 0 {
		delete(h.rooms, conversationID)
	}
	if memberships, ok := h.sessionRooms[sessionID]; ok {
		delete(memberships, conversationID)
		if len(memberships) == 0 {
			delete(h.sessionRooms, sessionID)
		}
	}
}
