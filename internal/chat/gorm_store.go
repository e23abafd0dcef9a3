package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"rently-server/internal/models"
)

// GormStore implements Store on top of the application's GORM connection.
type GormStore struct {
	DB *gorm.DB
}

// NewGormStore creates a new GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translateErr(err, "user")
	}
	return &user, nil
}

func (s *GormStore) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	var listing models.Listing
	if err := s.DB.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		return nil, translateErr(err, "listing")
	}
	return &listing, nil
}

func (s *GormStore) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := s.DB.WithContext(ctx).First(&conv, "id = ?", id).Error; err != nil {
		return nil, translateErr(err, "conversation")
	}
	return &conv, nil
}

// FindOrCreateConversation relies on the unique index over the triple: a
// losing concurrent insert fails the Create, after which the winner's row is
// fetched and returned instead.
func (s *GormStore) FindOrCreateConversation(ctx context.Context, tenantID, landlordID, listingID string) (*models.Conversation, bool, error) {
	db := s.DB.WithContext(ctx)

	lookup := func() (*models.Conversation, error) {
		var conv models.Conversation
		err := db.Where("tenant_id = ? AND landlord_id = ? AND listing_id = ?",
			tenantID, landlordID, listingID).First(&conv).Error
		if err != nil {
			return nil, err
		}
		return &conv, nil
	}

	if conv, err := lookup(); err == nil {
		return conv, false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	conv := models.Conversation{
		TenantID:   tenantID,
		LandlordID: landlordID,
		ListingID:  listingID,
	}
	if err := db.Create(&conv).Error; err != nil {
		// Most likely the unique index rejected a concurrent duplicate;
		// whoever won the race owns the row now.
		if existing, lookupErr := lookup(); lookupErr == nil {
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return &conv, true, nil
}

func (s *GormStore) AppendMessage(ctx context.Context, msg *models.Message) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("updated_at", msg.CreatedAt).Error
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return nil
}

func (s *GormStore) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	var messages []models.Message
	err := s.DB.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at asc, id asc").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return messages, nil
}

func (s *GormStore) MarkMessagesRead(ctx context.Context, conversationID, readerID string, at time.Time) ([]string, error) {
	var ids []string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Message{}).
			Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, readerID).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Model(&models.Message{}).
			Where("id IN ?", ids).
			Update("read_at", at).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return ids, nil
}

func (s *GormStore) ListConversationsForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := s.DB.WithContext(ctx).
		Preload("Listing").
		Where("tenant_id = ? OR landlord_id = ?", userID, userID).
		Order("updated_at desc").
		Find(&convs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return convs, nil
}

func (s *GormStore) LastMessage(ctx context.Context, conversationID string) (*models.Message, error) {
	var msg models.Message
	err := s.DB.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at desc, id desc").
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return &msg, nil
}

func (s *GormStore) CountUnread(ctx context.Context, conversationID, userID string) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return count, nil
}

func (s *GormStore) SetRevealed(ctx context.Context, conversationID string, asTenant bool) error {
	column := "landlord_revealed"
	if asTenant {
		column = "tenant_revealed"
	}
	err := s.DB.WithContext(ctx).Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		Update(column, true).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return nil
}

func translateErr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return fmt.Errorf("%w: %v", ErrInternal, err)
}
