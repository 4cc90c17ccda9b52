package validator

import (
	"github.com/go-playground/validator/v10"

	"fixrx_backend/internal/models"
)

// Custom rules shared by the request DTOs. Empty values pass; combine
// with `required` where the field is mandatory.
func registerCustomRules(v *validator.Validate) error {
	if err := v.RegisterValidation("urgency", validateUrgency); err != nil {
		return err
	}
	if err := v.RegisterValidation("request-decision", validateRequestDecision); err != nil {
		return err
	}
	if err := v.RegisterValidation("message-type", validateMessageType); err != nil {
		return err
	}
	if err := v.RegisterValidation("rating-sort", validateRatingSort); err != nil {
		return err
	}
	return nil
}

func validateUrgency(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.Urgency(value) {
	case models.UrgencyLow, models.UrgencyMedium, models.UrgencyHigh, models.UrgencyUrgent:
		return true
	}
	return false
}

func validateRequestDecision(fl validator.FieldLevel) bool {
	switch models.RequestStatus(fl.Field().String()) {
	case models.RequestStatusAccepted, models.RequestStatusDeclined:
		return true
	}
	return false
}

func validateMessageType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.MessageType(value) {
	case models.MessageTypeText, models.MessageTypeImage, models.MessageTypeFile, models.MessageTypeSystem:
		return true
	}
	return false
}

func validateRatingSort(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch value {
	case "newest", "oldest", "highest_rating", "lowest_rating":
		return true
	}
	return false
}
