package models

// ListingStatus represents the publication status of a listing
type ListingStatus string

const (
	ListingStatusActive   ListingStatus = "active"
	ListingStatusInactive ListingStatus = "inactive"
)

// Listing represents a rental property listing
type Listing struct {
	BaseModel
	LandlordID  string        `gorm:"size:36;index;not null" json:"landlordId"`
	Title       string        `gorm:"size:255;not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	City        string        `gorm:"size:100;index" json:"city"`
	Address     string        `gorm:"size:255" json:"address"`
	PricePCM    int           `gorm:"not null" json:"pricePcm"` // monthly rent in minor units
	Bedrooms    int           `gorm:"default:1" json:"bedrooms"`
	Bathrooms   int           `gorm:"default:1" json:"bathrooms"`
	Furnished   bool          `gorm:"default:false" json:"furnished"`
	Status      ListingStatus `gorm:"size:20;default:'active';index" json:"status"`

	// Relations
	Landlord User `gorm:"foreignKey:LandlordID" json:"landlord,omitempty"`
}

// IsActive reports whether the listing is open to new enquiries.
func (l *Listing) IsActive() bool {
	return l.Status == ListingStatusActive
}

// SavedListing is a tenant's bookmark of a listing.
type SavedListing struct {
	BaseModel
	TenantID  string `gorm:"size:36;uniqueIndex:idx_saved_tenant_listing" json:"tenantId"`
	ListingID string `gorm:"size:36;uniqueIndex:idx_saved_tenant_listing" json:"listingId"`

	Listing Listing `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
}
