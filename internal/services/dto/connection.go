package dto

import "time"

// ======================
// Request DTOs
// ======================

type CreateConnectionRequest struct {
	VendorID           string     `json:"vendor_id" validate:"required,uuid4"`
	ServiceID          *string    `json:"service_id,omitempty" validate:"omitempty,uuid4"`
	Message            string     `json:"message" validate:"required,min=10,max=2000"`
	ProjectDescription string     `json:"project_description" validate:"omitempty,max=5000"`
	BudgetMin          *float64   `json:"budget_min,omitempty" validate:"omitempty,gte=0"`
	BudgetMax          *float64   `json:"budget_max,omitempty" validate:"omitempty,gte=0"`
	PreferredStartDate *time.Time `json:"preferred_start_date,omitempty"`
	Urgency            string     `json:"urgency" validate:"omitempty,urgency"`
}

type RespondToRequestRequest struct {
	Status string `json:"status" validate:"required,request-decision"`
}

// ======================
// Response DTOs
// ======================

type ConnectionRequestResponse struct {
	ID                 string     `json:"id"`
	ConsumerID         string     `json:"consumer_id"`
	VendorID           string     `json:"vendor_id"`
	ServiceID          *string    `json:"service_id,omitempty"`
	Message            string     `json:"message"`
	ProjectDescription string     `json:"project_description,omitempty"`
	BudgetMin          *float64   `json:"budget_min,omitempty"`
	BudgetMax          *float64   `json:"budget_max,omitempty"`
	PreferredStartDate *time.Time `json:"preferred_start_date,omitempty"`
	Urgency            string     `json:"urgency"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	RespondedAt        *time.Time `json:"responded_at,omitempty"`

	Consumer *UserInfo `json:"consumer,omitempty"`
	Vendor   *UserInfo `json:"vendor,omitempty"`
	Service  *ServiceResponse `json:"service,omitempty"`
}

type ConnectionRequestListResponse struct {
	Requests []*ConnectionRequestResponse `json:"requests"`
	Total    int64                        `json:"total"`
}
