package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"lingerie-shop-server/internal/middleware"
	"lingerie-shop-server/internal/models"
	"lingerie-shop-server/internal/utils"
)

// ContentHandler handles blog stories and product reviews.
type ContentHandler struct {
	DB *gorm.DB
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(db *gorm.DB) *ContentHandler {
	return &ContentHandler{DB: db}
}

// GetBlogs lists published stories, newest first.
func (h *ContentHandler) GetBlogs(c *gin.Context) {
	var posts []models.BlogPost
	err := h.DB.Where("is_published = ?", true).
		Order("published_at desc").
		Find(&posts).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch stories: "+err.Error())
		return
	}

	utils.Success(c, "Stories fetched successfully", posts)
}

// GetBlogBySlug returns one published story by its slug.
func (h *ContentHandler) GetBlogBySlug(c *gin.Context) {
	slug := c.Param("slug")

	var post models.BlogPost
	err := h.DB.Where("slug = ? AND is_published = ?", slug, true).First(&post).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Story not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Story fetched successfully", post)
}

// SubmitStoryRequest represents a user-submitted client story.
type SubmitStoryRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// SubmitStory saves a client story as unpublished; it goes live only
// after an admin approves it.
func (h *ContentHandler) SubmitStory(c *gin.Context) {
	var req SubmitStoryRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	post := models.BlogPost{
		Slug:        utils.Slugify(req.Title),
		Title:       req.Title,
		Content:     req.Content,
		IsPublished: false,
		AuthorID:    &userID,
	}
	if err := h.DB.Create(&post).Error; err != nil {
		utils.InternalServerError(c, "Failed to submit story: "+err.Error())
		return
	}

	utils.Created(c, "Story submitted for review", post)
}

// ApproveStory publishes a pending story. Admin only.
func (h *ContentHandler) ApproveStory(c *gin.Context) {
	postID := c.Param("postId")

	var post models.BlogPost
	if err := h.DB.First(&post, "id = ?", postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Story not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	post.IsPublished = true
	post.PublishedAt = time.Now().UTC()
	if err := h.DB.Save(&post).Error; err != nil {
		utils.InternalServerError(c, "Failed to publish story: "+err.Error())
		return
	}

	utils.Success(c, "Story published", post)
}

// AddReviewRequest represents the request body for reviewing a product.
type AddReviewRequest struct {
	Rating         int    `json:"rating" binding:"required,min=1,max=5"`
	Comment        string `json:"comment"`
	ReviewImageURL string `json:"reviewImageUrl"`
}

// AddReview records a review and folds its rating into the product's
// denormalized running average. One review per user per product.
func (h *ContentHandler) AddReview(c *gin.Context) {
	var req AddReviewRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	productID := c.Param("productId")

	var product models.Product
	if err := h.DB.First(&product, "id = ?", productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Product not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	var count int64
	h.DB.Model(&models.Review{}).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Count(&count)
	if count > 0 {
		utils.Conflict(c, "You have already reviewed this product")
		return
	}

	review := models.Review{
		ProductID:      productID,
		UserID:         userID,
		Rating:         req.Rating,
		Comment:        req.Comment,
		ReviewImageURL: req.ReviewImageURL,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		newCount := product.ReviewCount + 1
		newAverage := (product.AverageRating*float64(product.ReviewCount) + float64(req.Rating)) / float64(newCount)
		return tx.Model(&product).Updates(map[string]interface{}{
			"average_rating": newAverage,
			"review_count":   newCount,
		}).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to save review: "+err.Error())
		return
	}

	utils.Created(c, "Review added successfully", review)
}

// GetReviews lists reviews for a product, newest first, with the
// reviewer's name attached.
func (h *ContentHandler) GetReviews(c *gin.Context) {
	productID := c.Param("productId")

	var reviews []models.Review
	err := h.DB.Where("product_id = ?", productID).
		Preload("User").
		Order("created_at desc").
		Find(&reviews).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch reviews: "+err.Error())
		return
	}

	type reviewResponse struct {
		models.Review
		ReviewerName string `json:"reviewerName"`
	}
	resp := make([]reviewResponse, 0, len(reviews))
	for _, r := range reviews {
		name := "Anonymous"
		if r.User != nil {
			name = r.User.FullName
		}
		resp = append(resp, reviewResponse{Review: r, ReviewerName: name})
	}

	utils.Success(c, "Reviews fetched successfully", resp)
}
