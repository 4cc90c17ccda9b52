package services

import (
	"time"

	"gorm.io/gorm"

	"fixrx_backend/internal/logger"
	"fixrx_backend/internal/models"
	"fixrx_backend/internal/repositories"
	"fixrx_backend/internal/services/dto"
	"fixrx_backend/internal/ws"
	"fixrx_backend/pkg/apperrors"
)

// ConnectionService owns the request lifecycle:
// PENDING -> ACCEPTED | DECLINED (vendor) or PENDING -> CANCELLED
// (consumer); all three are terminal.
type ConnectionService interface {
	CreateRequest(db *gorm.DB, consumerID string, req *dto.CreateConnectionRequest) (*dto.ConnectionRequestResponse, error)
	RespondToRequest(db *gorm.DB, requestID, vendorID string, decision models.RequestStatus) (*dto.ConnectionRequestResponse, error)
	CancelRequest(db *gorm.DB, requestID, consumerID string) (*dto.ConnectionRequestResponse, error)
	GetRequest(db *gorm.DB, requestID, callerID string) (*dto.ConnectionRequestResponse, error)
	ListForUser(db *gorm.DB, userID string, role models.UserRole) (*dto.ConnectionRequestListResponse, error)
}

type connectionService struct {
	connectionRepo      repositories.ConnectionRepository
	userRepo            repositories.UserRepository
	serviceRepo         repositories.ServiceRepository
	notificationService NotificationService
	events              EventPublisher
}

func NewConnectionService(
	connectionRepo repositories.ConnectionRepository,
	userRepo repositories.UserRepository,
	serviceRepo repositories.ServiceRepository,
	notificationService NotificationService,
	events EventPublisher,
) ConnectionService {
	return &connectionService{
		connectionRepo:      connectionRepo,
		userRepo:            userRepo,
		serviceRepo:         serviceRepo,
		notificationService: notificationService,
		events:              events,
	}
}

// ---------------- Operations ----------------

func (s *connectionService) CreateRequest(db *gorm.DB, consumerID string, req *dto.CreateConnectionRequest) (*dto.ConnectionRequestResponse, error) {
	consumer, err := s.userRepo.FindByID(db, consumerID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	if consumer.Role != models.UserRoleConsumer {
		return nil, apperrors.ErrOnlyConsumersCanRequest
	}

	vendor, err := s.userRepo.FindByID(db, req.VendorID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("connection", "Vendor not found")
	}
	if vendor.Role != models.UserRoleVendor {
		return nil, apperrors.NewBadRequestError("Target user is not a vendor")
	}

	if req.BudgetMin != nil && req.BudgetMax != nil && *req.BudgetMax < *req.BudgetMin {
		return nil, apperrors.ValidationError(map[string]string{
			"budget_max": "Must be greater than or equal to budget_min",
		})
	}

	if req.ServiceID != nil {
		if _, err := s.serviceRepo.FindServiceByID(db, *req.ServiceID); err != nil {
			return nil, apperrors.NewNotFoundError("connection", "Service not found")
		}
	}

	urgency := models.Urgency(req.Urgency)
	if urgency == "" {
		urgency = models.UrgencyMedium
	}

	request := &models.ConnectionRequest{
		ConsumerID:         consumerID,
		VendorID:           req.VendorID,
		ServiceID:          req.ServiceID,
		Message:            req.Message,
		ProjectDescription: req.ProjectDescription,
		BudgetMin:          req.BudgetMin,
		BudgetMax:          req.BudgetMax,
		PreferredStartDate: req.PreferredStartDate,
		Urgency:            urgency,
		Status:             models.RequestStatusPending,
	}

	if err := s.connectionRepo.Create(db, request); err != nil {
		if apperrors.Is(err, repositories.ErrDuplicateActiveRequest) {
			return nil, apperrors.ErrDuplicateRequest
		}
		return nil, apperrors.InternalError(err)
	}

	s.emitRequestCreated(db, request, consumer)

	request.Consumer = *consumer
	request.Vendor = *vendor
	return buildConnectionResponse(request), nil
}

func (s *connectionService) RespondToRequest(db *gorm.DB, requestID, vendorID string, decision models.RequestStatus) (*dto.ConnectionRequestResponse, error) {
	if decision != models.RequestStatusAccepted && decision != models.RequestStatusDeclined {
		return nil, apperrors.NewBadRequestError("Decision must be ACCEPTED or DECLINED")
	}

	now := time.Now()
	rows, err := s.connectionRepo.TransitionFromPending(db, requestID, "vendor_id", vendorID, decision, &now)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if rows == 0 {
		// Either the request does not exist for this vendor, or it left
		// PENDING first (double-click, concurrent respond, cancel race).
		return nil, s.classifyTransitionFailure(db, requestID, vendorID, "vendor")
	}

	request, err := s.connectionRepo.FindByID(db, requestID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.emitRequestDecision(db, request, decision == models.RequestStatusAccepted)

	return buildConnectionResponse(request), nil
}

func (s *connectionService) CancelRequest(db *gorm.DB, requestID, consumerID string) (*dto.ConnectionRequestResponse, error) {
	rows, err := s.connectionRepo.TransitionFromPending(db, requestID, "consumer_id", consumerID, models.RequestStatusCancelled, nil)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if rows == 0 {
		return nil, s.classifyTransitionFailure(db, requestID, consumerID, "consumer")
	}

	request, err := s.connectionRepo.FindByID(db, requestID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.emitRequestCancelled(db, request)

	return buildConnectionResponse(request), nil
}

func (s *connectionService) GetRequest(db *gorm.DB, requestID, callerID string) (*dto.ConnectionRequestResponse, error) {
	request, err := s.connectionRepo.FindByID(db, requestID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRequestNotFound) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	// A request is visible only to its two parties.
	if request.ConsumerID != callerID && request.VendorID != callerID {
		return nil, apperrors.ErrRequestNotFound
	}

	return buildConnectionResponse(request), nil
}

func (s *connectionService) ListForUser(db *gorm.DB, userID string, role models.UserRole) (*dto.ConnectionRequestListResponse, error) {
	var requests []models.ConnectionRequest
	var err error

	switch role {
	case models.UserRoleConsumer:
		requests, err = s.connectionRepo.FindByConsumer(db, userID)
	case models.UserRoleVendor:
		requests, err = s.connectionRepo.FindByVendor(db, userID)
	default:
		return nil, apperrors.ErrInsufficientPermissions
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.ConnectionRequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, buildConnectionResponse(&requests[i]))
	}

	return &dto.ConnectionRequestListResponse{
		Requests: responses,
		Total:    int64(len(responses)),
	}, nil
}

// ---------------- Helpers ----------------

// classifyTransitionFailure decides between NOT_FOUND and
// INVALID_STATE_TRANSITION after a conditional update touched no rows.
func (s *connectionService) classifyTransitionFailure(db *gorm.DB, requestID, actorID, side string) error {
	request, err := s.connectionRepo.FindByID(db, requestID)
	if err != nil {
		return apperrors.ErrRequestNotFound
	}

	owned := (side == "vendor" && request.VendorID == actorID) ||
		(side == "consumer" && request.ConsumerID == actorID)
	if !owned {
		return apperrors.ErrRequestNotFound
	}

	return apperrors.ErrInvalidStateTransition("connection",
		"Request is already "+string(request.Status))
}

// Side effects are fire-and-forget: a notification or event failure is
// logged and never rolls back the state transition.
func (s *connectionService) emitRequestCreated(db *gorm.DB, request *models.ConnectionRequest, consumer *models.User) {
	go func() {
		if err := s.notificationService.NotifyRequestCreated(db, request.VendorID, consumer.DisplayName(), request.ID); err != nil {
			logger.WithError(err).Warn("failed to notify vendor of new request", "request_id", request.ID)
		}
	}()

	s.events.Publish(ws.Event{
		Type:    ws.EventRequestCreated,
		UserID:  request.VendorID,
		Payload: map[string]string{"request_id": request.ID, "consumer_name": consumer.DisplayName()},
	})
}

func (s *connectionService) emitRequestDecision(db *gorm.DB, request *models.ConnectionRequest, accepted bool) {
	vendorInfo := buildUserInfo(&request.Vendor)

	go func() {
		if err := s.notificationService.NotifyRequestDecision(db, request.ConsumerID, request.ID, vendorInfo, accepted); err != nil {
			logger.WithError(err).Warn("failed to notify consumer of decision", "request_id", request.ID)
		}
	}()

	eventType := ws.EventRequestDeclined
	if accepted {
		eventType = ws.EventRequestAccepted
	}
	s.events.Publish(ws.Event{
		Type:    eventType,
		UserID:  request.ConsumerID,
		Payload: map[string]interface{}{"request_id": request.ID, "vendor": vendorInfo},
	})
}

func (s *connectionService) emitRequestCancelled(db *gorm.DB, request *models.ConnectionRequest) {
	consumerName := request.Consumer.DisplayName()

	go func() {
		if err := s.notificationService.NotifyRequestCancelled(db, request.VendorID, consumerName, request.ID); err != nil {
			logger.WithError(err).Warn("failed to notify vendor of cancellation", "request_id", request.ID)
		}
	}()

	s.events.Publish(ws.Event{
		Type:    ws.EventRequestCancelled,
		UserID:  request.VendorID,
		Payload: map[string]string{"request_id": request.ID},
	})
}

func buildConnectionResponse(request *models.ConnectionRequest) *dto.ConnectionRequestResponse {
	resp := &dto.ConnectionRequestResponse{
		ID:                 request.ID,
		ConsumerID:         request.ConsumerID,
		VendorID:           request.VendorID,
		ServiceID:          request.ServiceID,
		Message:            request.Message,
		ProjectDescription: request.ProjectDescription,
		BudgetMin:          request.BudgetMin,
		BudgetMax:          request.BudgetMax,
		PreferredStartDate: request.PreferredStartDate,
		Urgency:            string(request.Urgency),
		Status:             string(request.Status),
		CreatedAt:          request.CreatedAt,
		UpdatedAt:          request.UpdatedAt,
		RespondedAt:        request.RespondedAt,
	}

	if request.Consumer.ID != "" {
		resp.Consumer = buildUserInfo(&request.Consumer)
	}
	if request.Vendor.ID != "" {
		resp.Vendor = buildUserInfo(&request.Vendor)
	}
	if request.Service != nil && request.Service.ID != "" {
		resp.Service = &dto.ServiceResponse{
			ID:          request.Service.ID,
			CategoryID:  request.Service.CategoryID,
			Name:        request.Service.Name,
			Description: request.Service.Description,
		}
	}

	return resp
}

func buildUserInfo(user *models.User) *dto.UserInfo {
	return &dto.UserInfo{
		ID:           user.ID,
		Name:         user.Name,
		BusinessName: user.BusinessName,
		City:         user.City,
		IsVerified:   user.IsVerified,
	}
}
