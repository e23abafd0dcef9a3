package models

// Review represents a tenant's review of a listing
type Review struct {
	BaseModel
	ListingID string `gorm:"size:36;uniqueIndex:idx_review_listing_tenant" json:"listingId"`
	TenantID  string `gorm:"size:36;uniqueIndex:idx_review_listing_tenant" json:"tenantId"`
	Rating    int    `gorm:"not null" json:"rating"` // 1..5
	Comment   string `gorm:"type:text" json:"comment"`

	// Relations
	Tenant User `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
}
