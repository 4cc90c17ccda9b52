package models

type UserStatus string
type UserRole string
type RequestStatus string
type Urgency string
type MessageType string
type NotificationType string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"

	UserRoleConsumer UserRole = "CONSUMER"
	UserRoleVendor   UserRole = "VENDOR"
	UserRoleAdmin    UserRole = "ADMIN"

	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusAccepted  RequestStatus = "ACCEPTED"
	RequestStatusDeclined  RequestStatus = "DECLINED"
	RequestStatusCancelled RequestStatus = "CANCELLED"

	UrgencyLow    Urgency = "LOW"
	UrgencyMedium Urgency = "MEDIUM"
	UrgencyHigh   Urgency = "HIGH"
	UrgencyUrgent Urgency = "URGENT"

	MessageTypeText   MessageType = "TEXT"
	MessageTypeImage  MessageType = "IMAGE"
	MessageTypeFile   MessageType = "FILE"
	MessageTypeSystem MessageType = "SYSTEM"

	NotificationRequestCreated   NotificationType = "request_created"
	NotificationRequestAccepted  NotificationType = "request_accepted"
	NotificationRequestDeclined  NotificationType = "request_declined"
	NotificationRequestCancelled NotificationType = "request_cancelled"
	NotificationNewMessage       NotificationType = "new_message"
	NotificationNewRating        NotificationType = "new_rating"
)

// IsTerminal reports whether no further transition is allowed out of
// the status.
func (s RequestStatus) IsTerminal() bool {
	switch s {
	case RequestStatusAccepted, RequestStatusDeclined, RequestStatusCancelled:
		return true
	}
	return false
}
