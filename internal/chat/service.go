package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rently-server/internal/models"
)

// Events receives notifications after the service commits a state change.
// The realtime gateway implements it to fan events out to connected
// participants; a nil Events drops them, leaving REST reads as the only path.
type Events interface {
	MessageCreated(conv *models.Conversation, msg MessageView)
	MessagesRead(conv *models.Conversation, readerID string, messageIDs []string, at time.Time)
	PhoneRevealed(conv *models.Conversation, revealerID string)
}

// Service orchestrates conversations, messages and the phone-reveal protocol.
// It is the sole writer of persisted chat state.
type Service struct {
	store  Store
	events Events
}

// NewService creates a conversation service over the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// SetEvents attaches the realtime event sink. Called once by the composition
// root after the gateway exists.
func (s *Service) SetEvents(events Events) {
	s.events = events
}

// MessageView is a message together with its sender's public profile, shaped
// for immediate client rendering.
type MessageView struct {
	models.Message
	Sender models.PublicProfile `json:"sender"`
}

// ConversationDetail is the full view of a conversation for one participant.
type ConversationDetail struct {
	ID                  string               `json:"id"`
	ListingID           string               `json:"listingId"`
	OtherParty          models.PublicProfile `json:"otherParty"`
	Messages            []models.Message     `json:"messages"`
	CallerRevealed      bool                 `json:"callerRevealed"`
	CounterpartRevealed bool                 `json:"counterpartRevealed"`
	CreatedAt           time.Time            `json:"createdAt"`
	UpdatedAt           time.Time            `json:"updatedAt"`
}

// ConversationPreview is one inbox row.
type ConversationPreview struct {
	ID                  string               `json:"id"`
	ListingID           string               `json:"listingId"`
	ListingTitle        string               `json:"listingTitle,omitempty"`
	OtherParty          models.PublicProfile `json:"otherParty"`
	LastMessage         *models.Message      `json:"lastMessage,omitempty"`
	UnreadCount         int64                `json:"unreadCount"`
	CallerRevealed      bool                 `json:"callerRevealed"`
	CounterpartRevealed bool                 `json:"counterpartRevealed"`
	UpdatedAt           time.Time            `json:"updatedAt"`
}

// RevealState reports the reveal flags after a RevealPhone call.
type RevealState struct {
	ConversationID      string `json:"conversationId"`
	TenantRevealed      bool   `json:"tenantRevealed"`
	LandlordRevealed    bool   `json:"landlordRevealed"`
	CallerRevealed      bool   `json:"callerRevealed"`
	CounterpartRevealed bool   `json:"counterpartRevealed"`
}

// StartConversation finds or lazily creates the conversation between the
// caller (as tenant) and the listing's landlord. The optional initial message
// is appended when non-empty after trimming.
func (s *Service) StartConversation(ctx context.Context, callerID, listingID, initialMessage string) (*models.Conversation, error) {
	if listingID == "" {
		return nil, fmt.Errorf("%w: listing id is required", ErrValidation)
	}

	listing, err := s.store.GetListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !listing.IsActive() {
		return nil, fmt.Errorf("%w: listing is not active", ErrInvalidState)
	}
	if listing.LandlordID == callerID {
		return nil, fmt.Errorf("%w: cannot message own listing", ErrInvalidState)
	}

	conv, _, err := s.store.FindOrCreateConversation(ctx, callerID, listing.LandlordID, listingID)
	if err != nil {
		return nil, err
	}

	if content := strings.TrimSpace(initialMessage); content != "" {
		if _, err := s.appendMessage(ctx, conv, callerID, content, false, false); err != nil {
			return nil, err
		}
	}
	return conv, nil
}

// SendMessage appends a message from the caller to the conversation and bumps
// its activity timestamp. Messages within a conversation are totally ordered
// by creation time, ties broken by insertion order.
func (s *Service) SendMessage(ctx context.Context, conversationID, callerID, content string, isPreFilled bool) (*MessageView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message content must not be empty", ErrValidation)
	}

	conv, err := s.participantConversation(ctx, conversationID, callerID)
	if err != nil {
		return nil, err
	}

	return s.appendMessage(ctx, conv, callerID, content, isPreFilled, false)
}

// GetConversation returns the full history for a participant. As a side
// effect, every message from the counterpart not yet read transitions to read.
func (s *Service) GetConversation(ctx context.Context, conversationID, callerID string) (*ConversationDetail, error) {
	conv, err := s.participantConversation(ctx, conversationID, callerID)
	if err != nil {
		return nil, err
	}

	if err := s.markRead(ctx, conv, callerID); err != nil {
		return nil, err
	}

	messages, err := s.store.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	otherID := conv.OtherParty(callerID)
	other, err := s.store.GetUser(ctx, otherID)
	if err != nil {
		return nil, err
	}

	return &ConversationDetail{
		ID:                  conv.ID,
		ListingID:           conv.ListingID,
		OtherParty:          other.Profile(conv.RevealedBy(otherID)),
		Messages:            messages,
		CallerRevealed:      conv.RevealedBy(callerID),
		CounterpartRevealed: conv.RevealedBy(otherID),
		CreatedAt:           conv.CreatedAt,
		UpdatedAt:           conv.UpdatedAt,
	}, nil
}

// MarkConversationRead transitions every unread message from the counterpart
// to read, without returning the history. Used by the realtime gateway's
// mark_read event.
func (s *Service) MarkConversationRead(ctx context.Context, conversationID, callerID string) error {
	conv, err := s.participantConversation(ctx, conversationID, callerID)
	if err != nil {
		return err
	}
	return s.markRead(ctx, conv, callerID)
}

func (s *Service) markRead(ctx context.Context, conv *models.Conversation, readerID string) error {
	now := time.Now()
	readIDs, err := s.store.MarkMessagesRead(ctx, conv.ID, readerID, now)
	if err != nil {
		return err
	}
	if len(readIDs) > 0 && s.events != nil {
		s.events.MessagesRead(conv, readerID, readIDs, now)
	}
	return nil
}

// ListConversations returns the caller's inbox, most recently active first.
func (s *Service) ListConversations(ctx context.Context, callerID string) ([]ConversationPreview, error) {
	convs, err := s.store.ListConversationsForUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	previews := make([]ConversationPreview, 0, len(convs))
	for i := range convs {
		conv := &convs[i]
		otherID := conv.OtherParty(callerID)
		other, err := s.store.GetUser(ctx, otherID)
		if err != nil {
			return nil, err
		}
		last, err := s.store.LastMessage(ctx, conv.ID)
		if err != nil {
			return nil, err
		}
		unread, err := s.store.CountUnread(ctx, conv.ID, callerID)
		if err != nil {
			return nil, err
		}
		previews = append(previews, ConversationPreview{
			ID:                  conv.ID,
			ListingID:           conv.ListingID,
			ListingTitle:        conv.Listing.Title,
			OtherParty:          other.Profile(conv.RevealedBy(otherID)),
			LastMessage:         last,
			UnreadCount:         unread,
			CallerRevealed:      conv.RevealedBy(callerID),
			CounterpartRevealed: conv.RevealedBy(otherID),
			UpdatedAt:           conv.UpdatedAt,
		})
	}
	return previews, nil
}

// RevealPhone flips the caller's own reveal flag. The transition is one-way
// and idempotent: a repeat call succeeds without appending a second system
// message.
func (s *Service) RevealPhone(ctx context.Context, conversationID, callerID string) (*RevealState, error) {
	conv, err := s.participantConversation(ctx, conversationID, callerID)
	if err != nil {
		return nil, err
	}

	asTenant := conv.TenantID == callerID
	if !conv.RevealedBy(callerID) {
		if err := s.store.SetRevealed(ctx, conv.ID, asTenant); err != nil {
			return nil, err
		}
		if asTenant {
			conv.TenantRevealed = true
		} else {
			conv.LandlordRevealed = true
		}

		caller, err := s.store.GetUser(ctx, callerID)
		if err != nil {
			return nil, err
		}
		content := fmt.Sprintf("%s %s shared their phone number", caller.FirstName, caller.LastName)
		if _, err := s.appendMessage(ctx, conv, callerID, content, false, true); err != nil {
			return nil, err
		}
		if s.events != nil {
			s.events.PhoneRevealed(conv, callerID)
		}
	}

	otherID := conv.OtherParty(callerID)
	return &RevealState{
		ConversationID:      conv.ID,
		TenantRevealed:      conv.TenantRevealed,
		LandlordRevealed:    conv.LandlordRevealed,
		CallerRevealed:      conv.RevealedBy(callerID),
		CounterpartRevealed: conv.RevealedBy(otherID),
	}, nil
}

// IsParticipant reports whether userID belongs to the conversation. The
// realtime gateway uses it to authorize room joins.
func (s *Service) IsParticipant(ctx context.Context, conversationID, userID string) (bool, error) {
	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return false, err
	}
	return conv.HasParticipant(userID), nil
}

func (s *Service) participantConversation(ctx context.Context, conversationID, callerID string) (*models.Conversation, error) {
	if conversationID == "" {
		return nil, fmt.Errorf("%w: conversation id is required", ErrValidation)
	}
	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(callerID) {
		return nil, ErrForbidden
	}
	return conv, nil
}

func (s *Service) appendMessage(ctx context.Context, conv *models.Conversation, senderID, content string, isPreFilled, isSystem bool) (*MessageView, error) {
	sender, err := s.store.GetUser(ctx, senderID)
	if err != nil {
		return nil, err
	}

	msg := models.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        content,
		IsPreFilled:    isPreFilled,
		IsSystem:       isSystem,
	}
	if err := s.store.AppendMessage(ctx, &msg); err != nil {
		return nil, err
	}
	conv.UpdatedAt = msg.CreatedAt

	view := MessageView{Message: msg, Sender: sender.Profile(false)}
	if s.events != nil {
		s.events.MessageCreated(conv, view)
	}
	return &view, nil
}
