package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rently-server/internal/middleware"
	"rently-server/internal/models"
	"rently-server/internal/utils"
)

// ReviewHandler handles listing reviews.
type ReviewHandler struct {
	DB *gorm.DB
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{DB: db}
}

// CreateReviewRequest represents the request body for posting a review.
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,gte=1,lte=5"`
	Comment string `json:"comment"`
}

// CreateReview handles a tenant reviewing a listing. One review per tenant
// per listing; a repeat submission updates the existing review.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	tenantID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	listingID := c.Param("id")

	var req CreateReviewRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var listing models.Listing
	if err := h.DB.First(&listing, "id = ?", listingID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Listing not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	if listing.LandlordID == tenantID {
		utils.BadRequest(c, "Cannot review your own listing")
		return
	}

	var review models.Review
	err := h.DB.Where("listing_id = ? AND tenant_id = ?", listingID, tenantID).First(&review).Error
	switch {
	case err == nil:
		review.Rating = req.Rating
		review.Comment = req.Comment
		if err := h.DB.Save(&review).Error; err != nil {
			utils.InternalServerError(c, "Failed to update review: "+err.Error())
			return
		}
		utils.Success(c, "Review updated successfully", review)
	case err == gorm.ErrRecordNotFound:
		review = models.Review{
			ListingID: listingID,
			TenantID:  tenantID,
			Rating:    req.Rating,
			Comment:   req.Comment,
		}
		if err := h.DB.Create(&review).Error; err != nil {
			utils.InternalServerError(c, "Failed to create review: "+err.Error())
			return
		}
		utils.Created(c, "Review created successfully", review)
	default:
		utils.InternalServerError(c, "Database error: "+err.Error())
	}
}

// ListingReviews is the response shape for a listing's reviews.
type ListingReviews struct {
	Reviews       []models.Review `json:"reviews"`
	AverageRating float64         `json:"averageRating"`
	Count         int             `json:"count"`
}

// GetReviewsForListing returns all reviews for a listing with the average
// rating.
func (h *ReviewHandler) GetReviewsForListing(c *gin.Context) {
	listingID := c.Param("id")

	var reviews []models.Review
	if err := h.DB.Preload("Tenant").Where("listing_id = ?", listingID).
		Order("created_at desc").Find(&reviews).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch reviews: "+err.Error())
		return
	}

	var average float64
	if len(reviews) > 0 {
		total := 0
		for _, r := range reviews {
			total += r.Rating
		}
		average = float64(total) / float64(len(reviews))
	}

	utils.Success(c, "Reviews fetched successfully", ListingReviews{
		Reviews:       reviews,
		AverageRating: average,
		Count:         len(reviews),
	})
}
