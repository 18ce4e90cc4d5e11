package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace/internal/domain"
	"marketplace/internal/service"
)

// ReviewHandler handles HTTP requests for reviews.
type ReviewHandler struct {
	reviewService *service.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// SubmitReviewRequest is the HTTP request body for submitting a review.
type SubmitReviewRequest struct {
	BookingID string `json:"booking_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}

// ReviewResponse is the HTTP representation of a review.
type ReviewResponse struct {
	ID        string `json:"id"`
	BookingID string `json:"booking_id"`
	TargetID  string `json:"target_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"`
}

func toReviewResponse(r *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		BookingID: r.BookingID,
		TargetID:  r.TargetID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		Type:      string(r.Type),
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

// SubmitReview handles POST /v1/reviews
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	review, err := h.reviewService.Submit(c.Request.Context(), service.SubmitReviewRequest{
		BookingID:  req.BookingID,
		ReviewerID: userID(c),
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toReviewResponse(review))
}

// ListTargetReviews handles GET /v1/reviews/targets/:id?type=carsharing
func (h *ReviewHandler) ListTargetReviews(c *gin.Context) {
	reviewType := domain.ReviewType(c.DefaultQuery("type", string(domain.ReviewTypeCarsharing)))

	reviews, err := h.reviewService.ListByTarget(c.Request.Context(), c.Param("id"), reviewType)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		responses = append(responses, toReviewResponse(r))
	}
	respondJSON(c, http.StatusOK, responses)
}
