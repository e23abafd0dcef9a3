package chat

import (
	"context"
	"time"

	"rently-server/internal/models"
)

// Store is the persistence port of the conversation service. The GORM adapter
// backs it in production; tests substitute an in-memory implementation.
type Store interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetListing(ctx context.Context, id string) (*models.Listing, error)
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)

	// FindOrCreateConversation returns the conversation for the triple,
	// creating it atomically when absent. A concurrent creator losing the
	// race must be handed the winner's row, never a duplicate or an error.
	FindOrCreateConversation(ctx context.Context, tenantID, landlordID, listingID string) (*models.Conversation, bool, error)

	// AppendMessage persists the message and bumps the owning conversation's
	// UpdatedAt in the same transaction.
	AppendMessage(ctx context.Context, msg *models.Message) error

	// ListMessages returns the full history oldest-first, ties broken by
	// insertion order.
	ListMessages(ctx context.Context, conversationID string) ([]models.Message, error)

	// MarkMessagesRead sets ReadAt for every unread message in the
	// conversation not authored by readerID. Returns the ids of the messages
	// transitioned.
	MarkMessagesRead(ctx context.Context, conversationID, readerID string, at time.Time) ([]string, error)

	ListConversationsForUser(ctx context.Context, userID string) ([]models.Conversation, error)
	LastMessage(ctx context.Context, conversationID string) (*models.Message, error)
	CountUnread(ctx context.Context, conversationID, userID string) (int64, error)

	// SetRevealed flips the tenant or landlord reveal flag to true.
	SetRevealed(ctx context.Context, conversationID string, asTenant bool) error
}
