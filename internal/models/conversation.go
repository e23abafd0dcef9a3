package models

import (
	"time"
)

// Conversation is the single thread between one tenant and one landlord about
// one listing. At most one conversation exists per (tenant, landlord, listing)
// triple; it is created lazily on first contact and reused afterwards.
type Conversation struct {
	BaseModel
	TenantID   string `gorm:"size:36;not null;uniqueIndex:idx_conv_triple;index" json:"tenantId"`
	LandlordID string `gorm:"size:36;not null;uniqueIndex:idx_conv_triple;index" json:"landlordId"`
	ListingID  string `gorm:"size:36;not null;uniqueIndex:idx_conv_triple" json:"listingId"`

	// Each party's consent to share their own phone number with the other.
	TenantRevealed   bool `gorm:"default:false" json:"tenantRevealed"`
	LandlordRevealed bool `gorm:"default:false" json:"landlordRevealed"`

	// Relations
	Tenant   User      `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Landlord User      `gorm:"foreignKey:LandlordID" json:"landlord,omitempty"`
	Listing  Listing   `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"-"`
}

// HasParticipant reports whether userID is one of the two parties.
func (cv *Conversation) HasParticipant(userID string) bool {
	return cv.TenantID == userID || cv.LandlordID == userID
}

// OtherParty returns the counterpart's user id for a participant.
func (cv *Conversation) OtherParty(userID string) string {
	if cv.TenantID == userID {
		return cv.LandlordID
	}
	return cv.TenantID
}

// RevealedBy reports whether the given participant has revealed their own
// phone number. Visibility is keyed off the revealer's flag, read by the
// counterpart.
func (cv *Conversation) RevealedBy(userID string) bool {
	if cv.TenantID == userID {
		return cv.TenantRevealed
	}
	if cv.LandlordID == userID {
		return cv.LandlordRevealed
	}
	return false
}

// Message represents a single chat message within a conversation. Messages are
// immutable after creation except for the one-way ReadAt transition.
type Message struct {
	BaseModel
	ConversationID string     `gorm:"size:36;index;not null" json:"conversationId"`
	SenderID       string     `gorm:"size:36;index;not null" json:"senderId"`
	Content        string     `gorm:"type:text;not null" json:"content"`
	IsPreFilled    bool       `gorm:"default:false" json:"isPreFilled"` // canned template vs free text
	IsSystem       bool       `gorm:"default:false" json:"isSystem"`    // reveal notifications etc.
	ReadAt         *time.Time `json:"readAt,omitempty"`

	// Relations
	Sender User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}
