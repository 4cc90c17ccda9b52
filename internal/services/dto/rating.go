package dto

import "time"

// ======================
// Request DTOs
// ======================

type RatingValues struct {
	Cost            int `json:"cost" validate:"required,min=1,max=5"`
	Quality         int `json:"quality" validate:"required,min=1,max=5"`
	Timeliness      int `json:"timeliness" validate:"required,min=1,max=5"`
	Professionalism int `json:"professionalism" validate:"required,min=1,max=5"`
}

type CreateRatingRequest struct {
	VendorID            string       `json:"vendor_id" validate:"required,uuid4"`
	ConnectionRequestID *string      `json:"connection_request_id,omitempty" validate:"omitempty,uuid4"`
	Ratings             RatingValues `json:"ratings" validate:"required"`
	Comment             string       `json:"comment" validate:"omitempty,max=2000"`
}

type UpdateRatingRequest struct {
	Ratings *RatingValues `json:"ratings,omitempty"`
	Comment *string       `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// RatingSearchCriteria binds list query parameters.
type RatingSearchCriteria struct {
	MinRating    int    `form:"min_rating" validate:"omitempty,min=1,max=5"`
	HasText      *bool  `form:"has_text"`
	VerifiedOnly bool   `form:"verified_only"`
	Sort         string `form:"sort" validate:"omitempty,rating-sort"`
	Page         int    `form:"page" validate:"omitempty,min=1"`
	PageSize     int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// ======================
// Response DTOs
// ======================

type RatingResponse struct {
	ID                  string    `json:"id"`
	RaterID             string    `json:"rater_id"`
	VendorID            string    `json:"vendor_id"`
	ConnectionRequestID *string   `json:"connection_request_id,omitempty"`
	Cost                int       `json:"cost"`
	Quality             int       `json:"quality"`
	Timeliness          int       `json:"timeliness"`
	Professionalism     int       `json:"professionalism"`
	OverallRating       float64   `json:"overall_rating"`
	Comment             string    `json:"comment,omitempty"`
	IsVerified          bool      `json:"is_verified"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	Rater *UserInfo `json:"rater,omitempty"`
}

type RatingListResponse struct {
	Ratings    []*RatingResponse `json:"ratings"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// AggregateResponse carries the per-vendor statistics. Averages are
// rounded to two decimals for display only; the stored aggregate keeps
// full precision.
type AggregateResponse struct {
	VendorID           string  `json:"vendor_id"`
	RatingCount        int64   `json:"rating_count"`
	AvgOverall         float64 `json:"avg_overall"`
	AvgCost            float64 `json:"avg_cost"`
	AvgQuality         float64 `json:"avg_quality"`
	AvgTimeliness      float64 `json:"avg_timeliness"`
	AvgProfessionalism float64 `json:"avg_professionalism"`
}
