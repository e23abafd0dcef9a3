package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rently-server/internal/middleware"
	"rently-server/internal/models"
	"rently-server/internal/utils"
)

// ListingHandler handles listing and saved-listing requests.
type ListingHandler struct {
	DB *gorm.DB
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(db *gorm.DB) *ListingHandler {
	return &ListingHandler{DB: db}
}

// CreateListingRequest represents the request body for creating a listing.
type CreateListingRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	City        string `json:"city" binding:"required"`
	Address     string `json:"address"`
	PricePCM    int    `json:"pricePcm" binding:"required,gt=0"`
	Bedrooms    int    `json:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms   int    `json:"bathrooms" binding:"omitempty,gte=0"`
	Furnished   bool   `json:"furnished"`
}

// CreateListing handles a landlord publishing a new listing.
func (h *ListingHandler) CreateListing(c *gin.Context) {
	var req CreateListingRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	landlordID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	listing := models.Listing{
		LandlordID:  landlordID,
		Title:       req.Title,
		Description: req.Description,
		City:        req.City,
		Address:     req.Address,
		PricePCM:    req.PricePCM,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Furnished:   req.Furnished,
		Status:      models.ListingStatusActive,
	}

	if err := h.DB.Create(&listing).Error; err != nil {
		utils.InternalServerError(c, "Failed to create listing: "+err.Error())
		return
	}

	utils.Created(c, "Listing created successfully", listing)
}

// GetListings handles the public listing search with simple filters.
func (h *ListingHandler) GetListings(c *gin.Context) {
	query := h.DB.Preload("Landlord").Where("status = ?", models.ListingStatusActive)

	if city := c.Query("city"); city != "" {
		query = query.Where("city = ?", city)
	}
	if minPrice := c.Query("minPrice"); minPrice != "" {
		if v, err := strconv.Atoi(minPrice); err == nil {
			query = query.Where("price_pcm >= ?", v)
		}
	}
	if maxPrice := c.Query("maxPrice"); maxPrice != "" {
		if v, err := strconv.Atoi(maxPrice); err == nil {
			query = query.Where("price_pcm <= ?", v)
		}
	}
	if bedrooms := c.Query("bedrooms"); bedrooms != "" {
		if v, err := strconv.Atoi(bedrooms); err == nil {
			query = query.Where("bedrooms >= ?", v)
		}
	}

	var listings []models.Listing
	if err := query.Order("created_at desc").Find(&listings).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch listings: "+err.Error())
		return
	}

	utils.Success(c, "Listings fetched successfully", listings)
}

// GetListingByID handles fetching a single listing.
func (h *ListingHandler) GetListingByID(c *gin.Context) {
	listingID := c.Param("id")

	var listing models.Listing
	if err := h.DB.Preload("Landlord").First(&listing, "id = ?", listingID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Listing not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Listing fetched successfully", listing)
}

// GetMyListings returns the authenticated landlord's own listings, including
// inactive ones.
func (h *ListingHandler) GetMyListings(c *gin.Context) {
	landlordID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var listings []models.Listing
	if err := h.DB.Where("landlord_id = ?", landlordID).Order("created_at desc").Find(&listings).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch listings: "+err.Error())
		return
	}

	utils.Success(c, "Listings fetched successfully", listings)
}

// UpdateListingRequest represents the request body for updating a listing.
type UpdateListingRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	City        string `json:"city"`
	Address     string `json:"address"`
	PricePCM    int    `json:"pricePcm"`
	Bedrooms    int    `json:"bedrooms"`
	Bathrooms   int    `json:"bathrooms"`
}

// UpdateListing handles a landlord editing their own listing.
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	listing, ok := h.ownListing(c)
	if !ok {
		return
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	if req.Title != "" {
		listing.Title = req.Title
	}
	if req.Description != "" {
		listing.Description = req.Description
	}
	if req.City != "" {
		listing.City = req.City
	}
	if req.Address != "" {
		listing.Address = req.Address
	}
	if req.PricePCM > 0 {
		listing.PricePCM = req.PricePCM
	}
	if req.Bedrooms > 0 {
		listing.Bedrooms = req.Bedrooms
	}
	if req.Bathrooms > 0 {
		listing.Bathrooms = req.Bathrooms
	}

	if err := h.DB.Save(listing).Error; err != nil {
		utils.InternalServerError(c, "Failed to update listing: "+err.Error())
		return
	}

	utils.Success(c, "Listing updated successfully", listing)
}

// UpdateListingStatusRequest represents the status patch body.
type UpdateListingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive"`
}

// UpdateListingStatus handles activating or deactivating a listing.
func (h *ListingHandler) UpdateListingStatus(c *gin.Context) {
	listing, ok := h.ownListing(c)
	if !ok {
		return
	}

	var req UpdateListingStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	listing.Status = models.ListingStatus(req.Status)
	if err := h.DB.Save(listing).Error; err != nil {
		utils.InternalServerError(c, "Failed to update listing status: "+err.Error())
		return
	}

	utils.Success(c, "Listing status updated successfully", listing)
}

// DeleteListing handles a landlord removing their own listing.
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	listing, ok := h.ownListing(c)
	if !ok {
		return
	}

	if err := h.DB.Delete(&models.Listing{}, "id = ?", listing.ID).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete listing: "+err.Error())
		return
	}

	utils.Success(c, "Listing deleted successfully", nil)
}

// SaveListing handles a tenant bookmarking a listing.
func (h *ListingHandler) SaveListing(c *gin.Context) {
	tenantID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	listingID := c.Param("id")

	var listing models.Listing
	if err := h.DB.First(&listing, "id = ?", listingID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Listing not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	saved := models.SavedListing{TenantID: tenantID, ListingID: listingID}
	if err := h.DB.Where("tenant_id = ? AND listing_id = ?", tenantID, listingID).
		FirstOrCreate(&saved).Error; err != nil {
		utils.InternalServerError(c, "Failed to save listing: "+err.Error())
		return
	}

	utils.Created(c, "Listing saved successfully", saved)
}

// UnsaveListing handles removing a bookmark.
func (h *ListingHandler) UnsaveListing(c *gin.Context) {
	tenantID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	listingID := c.Param("id")

	if err := h.DB.Delete(&models.SavedListing{}, "tenant_id = ? AND listing_id = ?", tenantID, listingID).Error; err != nil {
		utils.InternalServerError(c, "Failed to unsave listing: "+err.Error())
		return
	}

	utils.Success(c, "Listing unsaved successfully", nil)
}

// GetSavedListings returns the tenant's bookmarks with the listings preloaded.
func (h *ListingHandler) GetSavedListings(c *gin.Context) {
	tenantID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var saved []models.SavedListing
	if err := h.DB.Preload("Listing").Preload("Listing.Landlord").
		Where("tenant_id = ?", tenantID).Order("created_at desc").Find(&saved).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch saved listings: "+err.Error())
		return
	}

	utils.Success(c, "Saved listings fetched successfully", saved)
}

// ownListing loads the listing from the path and verifies the caller owns it.
func (h *ListingHandler) ownListing(c *gin.Context) (*models.Listing, bool) {
	listingID := c.Param("id")

	callerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return nil, false
	}

	var listing models.Listing
	if err := h.DB.First(&listing, "id = ?", listingID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Listing not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}

	role, _ := middleware.GetUserRoleFromContext(c)
	if listing.LandlordID != callerID && role != models.RoleAdmin {
		utils.Forbidden(c, "You do not own this listing.")
		return nil, false
	}

	return &listing, true
}
